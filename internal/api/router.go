package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-attachments/internal/api/handlers"
	"github.com/welldanyogia/webrana-attachments/internal/api/middleware"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/logger"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"github.com/welldanyogia/webrana-attachments/internal/repository"
	"github.com/welldanyogia/webrana-attachments/internal/storage"
	"github.com/welldanyogia/webrana-attachments/internal/upload"
	"gorm.io/gorm"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.FileStorage
	Registry    *attachment.Registry
	Receiver    *upload.Receiver
	Events      *logger.EventLogger
	Logger      *slog.Logger
	// Security configuration
	AllowedOrigins []string
	Production     bool
	RateLimit      float64 // requests per second per IP (0 = default)
	RateBurst      int
	MaxUploadSize  int64
	// Done stops background work started by middleware
	Done <-chan struct{}
}

// NewRouter creates and configures the Echo router with all routes. Profile
// and product attachment managers must already be configured in Registry.
func NewRouter(cfg *RouterConfig) (*echo.Echo, error) {
	profileManager, err := cfg.Registry.For(models.ProfileRecordType)
	if err != nil {
		return nil, err
	}
	productManager, err := cfg.Registry.For(models.ProductRecordType)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// order matters: recover outermost, logging innermost
	e.Use(middleware.Recover())
	e.Use(middleware.SecureHeaders())
	e.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Production))
	e.Use(middleware.RateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Logger, cfg.Done))
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	profileRepo := repository.NewProfileRepository(cfg.DB, profileManager)
	productRepo := repository.NewProductRepository(cfg.DB, productManager)

	healthHandler := handlers.NewHealthHandler(cfg.DB, map[string]string{
		"web_root":   cfg.FileStorage.Root(),
		"upload_tmp": cfg.Receiver.TempDir(),
	})
	profileHandler := handlers.NewProfileHandler(profileRepo, cfg.Receiver, cfg.FileStorage, profileManager.FieldNames(), cfg.Events)
	productHandler := handlers.NewProductHandler(productRepo, cfg.Receiver, productManager.FieldNames(), cfg.Events)

	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// stored files, served straight from the web root
	media := e.Group("/media", middleware.MediaHeaders())
	media.Static("/", cfg.FileStorage.Root())

	api := e.Group("/api", middleware.UploadBodyLimit(cfg.MaxUploadSize))

	profiles := api.Group("/profiles")
	profiles.POST("", profileHandler.Create)
	profiles.GET("", profileHandler.List)
	profiles.GET("/:id", profileHandler.Get)
	profiles.PUT("/:id", profileHandler.Update)
	profiles.DELETE("/:id", profileHandler.Delete)
	profiles.GET("/:id/files/:field", profileHandler.Download)

	products := api.Group("/products")
	products.POST("", productHandler.Create)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.DELETE("/:id", productHandler.Delete)

	return e, nil
}

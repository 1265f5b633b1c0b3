package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/database"
	"github.com/welldanyogia/webrana-attachments/internal/models"
	"github.com/welldanyogia/webrana-attachments/internal/storage"
	"github.com/welldanyogia/webrana-attachments/internal/upload"
)

type testServer struct {
	echo  *echo.Echo
	store storage.FileStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Connect("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, database.Migrate(db))

	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "webroot"))
	require.NoError(t, err)
	receiver, err := upload.NewReceiver(filepath.Join(t.TempDir(), "spool"), 1<<20)
	require.NoError(t, err)

	registry := attachment.NewRegistry(store)
	_, err = registry.Configure(&models.Profile{}, models.ProfileAttachmentFields()...)
	require.NoError(t, err)
	_, err = registry.Configure(&models.Product{})
	require.NoError(t, err)

	done := make(chan struct{})
	t.Cleanup(func() { close(done) })

	e, err := NewRouter(&RouterConfig{
		DB:            db,
		FileStorage:   store,
		Registry:      registry,
		Receiver:      receiver,
		RateLimit:     1000,
		RateBurst:     1000,
		MaxUploadSize: 1 << 20,
		Done:          done,
	})
	require.NoError(t, err)
	return &testServer{echo: e, store: store}
}

func (s *testServer) send(t *testing.T, method, path string, values map[string]string, files map[string][2]string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, f := range files {
		fw, err := w.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeProfile(t *testing.T, rec *httptest.ResponseRecorder) models.Profile {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    models.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func (s *testServer) exists(t *testing.T, rel string) bool {
	ok, err := s.store.Exists(rel)
	require.NoError(t, err)
	return ok
}

func TestRouter_ProfileAttachmentLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.send(t, http.MethodPost, "/api/profiles",
		map[string]string{"name": "Ada", "email": "ada@example.com"},
		map[string][2]string{"avatar": {"me.png", "first-avatar"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeProfile(t, rec)
	first := created.Avatar
	assert.Regexp(t, `^avatars/`, first)
	assert.True(t, srv.exists(t, first))

	rec = srv.get("/media/" + first)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "first-avatar", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "sandbox")

	path := fmt.Sprintf("/api/profiles/%d", created.ID)
	rec = srv.send(t, http.MethodPut, path, nil,
		map[string][2]string{"avatar": {"me.jpg", "second-avatar"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeProfile(t, rec)
	assert.NotEqual(t, first, updated.Avatar)
	assert.False(t, srv.exists(t, first), "old avatar removed after replacement")

	rec = srv.get(path + "/files/avatar")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "second-avatar", rec.Body.String())

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	rec = httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, srv.exists(t, updated.Avatar))

	assert.Equal(t, http.StatusNotFound, srv.get(path).Code)
}

func TestRouter_RejectsInvalidExtension(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.send(t, http.MethodPost, "/api/profiles",
		map[string]string{"name": "Ada", "email": "ada@example.com"},
		map[string][2]string{"avatar": {"me.exe", "MZ"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please supply a valid file")

	rec = srv.get("/api/profiles")
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestRouter_ProductUsesDefaultImageField(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.send(t, http.MethodPost, "/api/products",
		map[string]string{"sku": "LAMP-1", "title": "Lamp"},
		map[string][2]string{"image": {"lamp.png", "png"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Regexp(t, `^files/[0-9a-f]+\.png$`, resp.Data.Image)
	assert.True(t, srv.exists(t, resp.Data.Image))
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"web_root":"healthy"`)
}

func TestNewRouter_RequiresConfiguredManagers(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = NewRouter(&RouterConfig{Registry: attachment.NewRegistry(store)})
	assert.ErrorIs(t, err, attachment.ErrUnknownRecordType)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
	"github.com/welldanyogia/webrana-attachments/internal/logger"
)

func TestDiscardUploads_RemovesSpooledFiles(t *testing.T) {
	var buf bytes.Buffer
	events := logger.NewEventLoggerWithHandler(slog.NewJSONHandler(&buf, nil))
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api/profiles", nil), httptest.NewRecorder())

	spooled := filepath.Join(t.TempDir(), "upload")
	require.NoError(t, os.WriteFile(spooled, []byte("png"), 0644))

	discardUploads(c, events, attachment.Uploads{
		"avatar": {TemporaryPath: spooled},
		"resume": {Error: attachment.UploadErrorNoFile},
	})

	assert.NoFileExists(t, spooled)
	assert.Zero(t, buf.Len())
}

func TestDiscardUploads_LogsLeftovers(t *testing.T) {
	var buf bytes.Buffer
	events := logger.NewEventLoggerWithHandler(slog.NewJSONHandler(&buf, nil))
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/api/profiles", nil), httptest.NewRecorder())

	// a non-empty directory cannot be removed with os.Remove
	stuck := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(stuck, "inner"), []byte("x"), 0644))

	discardUploads(c, events, attachment.Uploads{"avatar": {TemporaryPath: stuck}})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, logger.EventUploadDiscard, entry["event_type"])
	assert.NotEmpty(t, entry["error"])
	assert.DirExists(t, stuck)
}

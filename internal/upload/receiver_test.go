package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welldanyogia/webrana-attachments/internal/attachment"
)

type part struct {
	field    string
	filename string
	content  string
}

// multipartContext builds an echo context around a multipart request
func multipartContext(t *testing.T, files []part, values map[string]string) echo.Context {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range files {
		fw, err := w.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func newReceiver(t *testing.T, maxSize int64) *Receiver {
	t.Helper()
	r, err := NewReceiver(filepath.Join(t.TempDir(), "spool"), maxSize)
	require.NoError(t, err)
	return r
}

func TestFromRequest_SpoolsFiles(t *testing.T) {
	r := newReceiver(t, 1024)
	c := multipartContext(t, []part{{"avatar", "Me.PNG", "png-bytes"}}, nil)

	uploads, err := r.FromRequest(c, []string{"avatar", "resume"})
	require.NoError(t, err)

	require.Contains(t, uploads, "avatar")
	assert.NotContains(t, uploads, "resume", "absent fields leave the record untouched")

	up := uploads["avatar"]
	assert.Equal(t, attachment.UploadErrorNone, up.Error)
	assert.Equal(t, "Me.PNG", up.OriginalName)
	assert.Equal(t, "png", up.Extension())
	assert.Equal(t, int64(9), up.Size)
	assert.Equal(t, r.TempDir(), filepath.Dir(up.TemporaryPath))

	data, err := os.ReadFile(up.TemporaryPath)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestFromRequest_FieldWithoutFileIsEmptyUpload(t *testing.T) {
	r := newReceiver(t, 0)
	c := multipartContext(t, nil, map[string]string{"resume": ""})

	uploads, err := r.FromRequest(c, []string{"resume"})
	require.NoError(t, err)

	require.Contains(t, uploads, "resume")
	assert.True(t, uploads["resume"].Empty())
	assert.Equal(t, attachment.UploadErrorNoFile, uploads["resume"].Error)
}

func TestFromRequest_NotMultipart(t *testing.T) {
	r := newReceiver(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	uploads, err := r.FromRequest(c, []string{"avatar"})
	require.NoError(t, err)
	assert.Empty(t, uploads)
}

func TestFromRequest_ServerSizeLimit(t *testing.T) {
	r := newReceiver(t, 4)
	c := multipartContext(t, []part{{"avatar", "big.png", "0123456789"}}, nil)

	uploads, err := r.FromRequest(c, []string{"avatar"})
	require.NoError(t, err)

	up := uploads["avatar"]
	assert.Equal(t, attachment.UploadErrorIniSize, up.Error)
	assert.True(t, up.Empty())
	assert.Equal(t, int64(10), up.Size)

	entries, err := os.ReadDir(r.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFromRequest_FormSizeLimit(t *testing.T) {
	r := newReceiver(t, 1024)
	c := multipartContext(t, []part{{"avatar", "big.png", "0123456789"}}, map[string]string{MaxFileSizeField: "5"})

	uploads, err := r.FromRequest(c, []string{"avatar"})
	require.NoError(t, err)
	assert.Equal(t, attachment.UploadErrorFormSize, uploads["avatar"].Error)
}

func TestReceive_MissingTempDir(t *testing.T) {
	r := newReceiver(t, 0)
	require.NoError(t, os.RemoveAll(r.TempDir()))

	c := multipartContext(t, []part{{"avatar", "me.png", "x"}}, nil)
	uploads, err := r.FromRequest(c, []string{"avatar"})
	require.NoError(t, err)
	assert.Equal(t, attachment.UploadErrorNoTmpDir, uploads["avatar"].Error)
}

func TestReceive_NilHeader(t *testing.T) {
	r := newReceiver(t, 0)
	up := r.Receive(nil)
	assert.Equal(t, attachment.UploadErrorNoFile, up.Error)
	assert.True(t, up.Empty())
}

func TestReceive_SanitizesOriginalName(t *testing.T) {
	r := newReceiver(t, 0)
	c := multipartContext(t, []part{{"avatar", "../../etc/passwd.png", "x"}}, nil)

	uploads, err := r.FromRequest(c, []string{"avatar"})
	require.NoError(t, err)
	assert.NotContains(t, uploads["avatar"].OriginalName, "/")
	assert.Equal(t, "png", uploads["avatar"].Extension())
}

func TestDiscard(t *testing.T) {
	r := newReceiver(t, 0)
	c := multipartContext(t, []part{{"a", "a.png", "1"}, {"b", "b.png", "2"}}, nil)
	uploads, err := r.FromRequest(c, []string{"a", "b"})
	require.NoError(t, err)

	// a moved elsewhere already
	require.NoError(t, os.Remove(uploads["a"].TemporaryPath))
	uploads["c"] = &attachment.PendingUpload{Error: attachment.UploadErrorNoFile}

	require.NoError(t, Discard(uploads))
	_, err = os.Stat(uploads["b"].TemporaryPath)
	assert.True(t, os.IsNotExist(err))
}

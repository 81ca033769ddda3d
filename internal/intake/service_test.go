package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/shared/storage/object/local"
)

func TestAcceptStoresUpload(t *testing.T) {
	store := local.New(t.TempDir())
	svc := NewService(store)

	up, err := svc.Accept(context.Background(), "user-1", "my cv.txt", "text/plain", []byte("Go developer"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer", up.Resume.Text)
	assert.Equal(t, "my cv.txt", up.Resume.FileName)
	require.NotEmpty(t, up.StorageKey)

	rc, err := store.Open(context.Background(), up.StorageKey)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", string(raw))
}

func TestAcceptErrors(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Accept(context.Background(), "u", "cv.txt", "text/plain", nil)
	require.ErrorIs(t, err, ErrNoResume)

	_, err = svc.Accept(context.Background(), "u", "cv.txt", "text/plain", []byte("  \n "))
	require.ErrorIs(t, err, extract.ErrEmptyText)

	_, err = svc.Accept(context.Background(), "u", "../cv.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	require.ErrorIs(t, err, extract.ErrUnsupportedType)
}

func TestFromText(t *testing.T) {
	svc := NewService(nil)
	up, err := svc.FromText("  pasted resume \n", "")
	require.NoError(t, err)
	assert.Equal(t, "pasted resume", up.Resume.Text)
	assert.Equal(t, "pasted.txt", up.Resume.FileName)

	_, err = svc.FromText(" ", "x.txt")
	require.ErrorIs(t, err, ErrNoResume)
}

func TestExtractHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(nil)).RegisterRoutes(r.Group("/api/v1"))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Kubernetes, Go"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code)
	var up Upload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.Equal(t, "Kubernetes, Go", up.Resume.Text)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/extract", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

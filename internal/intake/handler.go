package intake

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/server/respond"
)

// MaxUploadSize caps resume uploads.
const MaxUploadSize = 10 << 20 // 10MB

// ErrBadUpload covers oversized or malformed multipart bodies.
var ErrBadUpload = errors.New("upload is too large or malformed")

// File is a multipart file read into memory.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Handler exposes stateless text extraction.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches intake routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extract)
}

func (h *Handler) extract(c *gin.Context) {
	f, err := ReadFile(c, "file")
	if errors.Is(err, http.ErrMissingFile) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if err != nil {
		WriteError(c, err)
		return
	}
	up, err := h.Svc.Accept(c.Request.Context(), middleware.UserIDFromContext(c), f.Name, f.MimeType, f.Data)
	if err != nil {
		if !WriteError(c, err) {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process upload", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, up)
}

// ReadFile reads a multipart form file, capping the request body at MaxUploadSize.
func ReadFile(c *gin.Context, field string) (File, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return File{}, http.ErrMissingFile
	}
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrBadUpload, err)
	}
	src, err := header.Open()
	if err != nil {
		return File{}, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, err
	}
	return File{Name: header.Filename, MimeType: header.Header.Get("Content-Type"), Data: data}, nil
}

// WriteError maps intake failures onto HTTP responses. It reports false when
// err is not an intake error and nothing was written.
func WriteError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file_type", "Unsupported file type. Upload a PDF, DOCX or TXT file.", gin.H{"supported": extract.SupportedExtensions})
	case errors.Is(err, extract.ErrEmptyText):
		respond.Error(c, http.StatusUnprocessableEntity, "empty_document", "No text could be extracted from the file", nil)
	case errors.Is(err, ErrBadUpload):
		respond.Error(c, http.StatusRequestEntityTooLarge, "upload_rejected", fmt.Sprintf("Upload must be a multipart form under %d MB", MaxUploadSize>>20), nil)
	case errors.Is(err, ErrNoResume):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extract.ErrUnreadable):
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "Could not read the file", nil)
	default:
		return false
	}
	return true
}

package reports

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/viewer"
)

// Handler exposes saved reports over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.listReports)
	rg.GET("/reports/:id", h.getReport)
	rg.GET("/reports/:id/pdf", h.downloadPDF)
	rg.DELETE("/reports/:id", h.deleteReport)
}

func (h *Handler) listReports(c *gin.Context) {
	if middleware.IsGuestFromContext(c) {
		respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view saved reports", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) getReport(c *gin.Context) {
	rep, ok := h.load(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{
		"report": rep,
		"view":   viewer.Build(ViewInput(rep)),
	})
}

func (h *Handler) downloadPDF(c *gin.Context) {
	rep, ok := h.load(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := viewer.RenderPDF(&buf, viewer.Build(ViewInput(rep))); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render report", nil)
		return
	}
	name := strings.TrimSuffix(rep.Resume.FileName, ".pdf")
	name = strings.TrimSuffix(name, ".docx")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "jobfit-"+name+".pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) deleteReport(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Set(middleware.ReportIDKey, c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) load(c *gin.Context) (SavedReport, bool) {
	userID := middleware.UserIDFromContext(c)
	reportID := c.Param("id")
	c.Set(middleware.ReportIDKey, reportID)
	rep, err := h.Svc.Get(c.Request.Context(), userID, reportID)
	if err != nil {
		writeError(c, err)
		return SavedReport{}, false
	}
	return rep, true
}

// ViewInput maps a saved report onto the viewer input.
func ViewInput(rep SavedReport) viewer.Input {
	return viewer.Input{
		FileName:       rep.Resume.FileName,
		JobDescription: rep.JobDescription,
		Quiz:           rep.Quiz,
		Analysis:       rep.Analysis,
		CreatedAt:      rep.CreatedAt,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
	case errors.Is(err, ErrInvalidReport):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "report operation failed", nil)
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

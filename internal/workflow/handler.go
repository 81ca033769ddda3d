package workflow

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/intake"
	"jobfit-backend/internal/notify"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/shared/server/middleware"
	"jobfit-backend/internal/shared/server/respond"
)

// NoticeBoard exposes the latest notice per session.
type NoticeBoard interface {
	Latest(sessionID string) (notify.Notice, bool)
}

// Handler serves the session endpoints.
type Handler struct {
	Ctrl    *Controller
	Intake  *intake.Service
	Notices NoticeBoard
}

// NewHandler constructs a Handler. notices may be nil.
func NewHandler(ctrl *Controller, in *intake.Service, notices NoticeBoard) *Handler {
	return &Handler{Ctrl: ctrl, Intake: in, Notices: notices}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.start)

	sg := rg.Group("/sessions/:id", tagSession)
	sg.GET("", h.get)
	sg.DELETE("", h.discard)
	sg.GET("/notice", h.notice)
	sg.POST("/quiz", h.step(h.Ctrl.GenerateQuiz))
	sg.PUT("/answers/:index", h.answer)
	sg.POST("/next", h.step(h.Ctrl.Next))
	sg.POST("/previous", h.step(h.Ctrl.Previous))
	sg.POST("/submit", h.step(h.Ctrl.Submit))
	sg.POST("/analyze", h.step(h.Ctrl.Analyze))
	sg.POST("/save", h.step(h.Ctrl.Save))
}

type startRequest struct {
	ResumeText     string `json:"resumeText" validate:"max=200000"`
	FileName       string `json:"fileName" validate:"max=255"`
	JobDescription string `json:"jobDescription" validate:"max=50000"`
}

type answerRequest struct {
	Choice *int `json:"choice" validate:"required,min=0"`
}

func tagSession(c *gin.Context) {
	c.Set(middleware.SessionIDKey, c.Param("id"))
	c.Next()
}

func (h *Handler) start(c *gin.Context) {
	in, err := h.readStart(c)
	if err != nil {
		WriteError(c, err, nil)
		return
	}
	if c.IsAborted() {
		return
	}
	snap, err := h.Ctrl.Start(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if snap.ID != "" {
		c.Set(middleware.SessionIDKey, snap.ID)
		c.Set(middleware.StageKey, string(snap.Stage))
	}
	if err != nil {
		WriteError(c, err, &snap)
		return
	}
	respond.JSON(c, http.StatusCreated, snap)
}

// readStart accepts multipart uploads (file + jobDescription) or a JSON body
// with pasted resume text.
func (h *Handler) readStart(c *gin.Context) (StartInput, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		f, fileErr := intake.ReadFile(c, "file")
		if fileErr != nil && !errors.Is(fileErr, http.ErrMissingFile) {
			return StartInput{}, fileErr
		}
		jd := c.PostForm("jobDescription")
		if strings.TrimSpace(jd) == "" {
			return StartInput{}, quiz.ErrMissingInput
		}
		if fileErr != nil {
			return h.fromText(c.PostForm("resumeText"), c.PostForm("fileName"), jd)
		}
		up, err := h.Intake.Accept(c.Request.Context(), middleware.UserIDFromContext(c), f.Name, f.MimeType, f.Data)
		if err != nil {
			return StartInput{}, err
		}
		return StartInput{Resume: up.Resume, StorageKey: up.StorageKey, JobDescription: jd}, nil
	}

	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", nil)
		return StartInput{}, nil
	}
	if !respond.Validate(c, req) {
		return StartInput{}, nil
	}
	return h.fromText(req.ResumeText, req.FileName, req.JobDescription)
}

func (h *Handler) fromText(text, fileName, jd string) (StartInput, error) {
	up, err := h.Intake.FromText(text, fileName)
	if errors.Is(err, intake.ErrNoResume) {
		return StartInput{}, quiz.ErrMissingInput
	}
	if err != nil {
		return StartInput{}, err
	}
	return StartInput{Resume: up.Resume, JobDescription: jd}, nil
}

func (h *Handler) get(c *gin.Context) {
	snap, err := h.Ctrl.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	h.reply(c, snap, err)
}

func (h *Handler) discard(c *gin.Context) {
	if err := h.Ctrl.Discard(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		WriteError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) notice(c *gin.Context) {
	if _, err := h.Ctrl.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		WriteError(c, err, nil)
		return
	}
	if h.Notices == nil {
		c.Status(http.StatusNoContent)
		return
	}
	n, ok := h.Notices.Latest(c.Param("id"))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	respond.OK(c, n)
}

func (h *Handler) answer(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "question index must be an integer", nil)
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", nil)
		return
	}
	if !respond.Validate(c, req) {
		return
	}
	snap, err := h.Ctrl.Answer(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), index, *req.Choice)
	h.reply(c, snap, err)
}

// step adapts a controller transition into a handler.
func (h *Handler) step(fn func(ctx context.Context, userID, sessionID string) (Snapshot, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := fn(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
		h.reply(c, snap, err)
	}
}

func (h *Handler) reply(c *gin.Context, snap Snapshot, err error) {
	if snap.Stage != "" {
		c.Set(middleware.StageKey, string(snap.Stage))
	}
	if err != nil {
		WriteError(c, err, &snap)
		return
	}
	respond.OK(c, snap)
}

package workflow

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/intake"
	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/reports"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/skills"
)

// WriteError maps workflow, model and intake failures onto the error envelope.
// A non-nil snap is attached so clients can render the state they are left in.
func WriteError(c *gin.Context, err error, snap *Snapshot) {
	if intake.WriteError(c, err) {
		return
	}
	details := gin.H{}
	if snap != nil && snap.ID != "" {
		details["session"] = snap
	}

	var (
		ue  *quiz.UnansweredError
		se  *llm.StatusError
		qpe *quiz.ParseError
		qve *quiz.ValidationError
		ape *compat.ParseError
		sce *compat.SchemaError
		spe *skills.ParseError
	)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		respond.Error(c, http.StatusNotFound, "session_not_found", "Session not found", nil)
	case errors.Is(err, ErrBusy):
		respond.Error(c, http.StatusConflict, "session_busy", err.Error(), nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, "session_not_ready", err.Error(), details)
	case errors.Is(err, quiz.ErrComplete):
		respond.Error(c, http.StatusConflict, "quiz_complete", err.Error(), details)
	case errors.Is(err, quiz.ErrMissingInput), errors.Is(err, skills.ErrMissingJobDescription):
		respond.Error(c, http.StatusBadRequest, "missing_input", err.Error(), nil)
	case errors.As(err, &ue):
		details["remaining"] = ue.Remaining
		respond.Error(c, http.StatusBadRequest, "unanswered_questions", ue.Error(), details)
	case errors.Is(err, quiz.ErrIndexOutOfRange),
		errors.Is(err, quiz.ErrChoiceOutOfRange),
		errors.Is(err, quiz.ErrCurrentUnanswered):
		respond.Error(c, http.StatusBadRequest, "invalid_answer", err.Error(), details)
	case errors.Is(err, reports.ErrInvalidReport):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", Describe(err), details)
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", Describe(err), details)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "upstream_timeout", Describe(err), details)
	case errors.As(err, &se),
		errors.As(err, &qpe),
		errors.As(err, &qve),
		errors.As(err, &ape),
		errors.As(err, &sce),
		errors.As(err, &spe),
		errors.Is(err, llm.ErrEmptyResponse),
		errors.Is(err, quiz.ErrNoQuestions):
		respond.Error(c, http.StatusBadGateway, "external_service_error", Describe(err), details)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Something went wrong", details)
	}
}

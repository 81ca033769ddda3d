package respond

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Validate runs struct tag validation and writes a 400 when it fails.
// It returns false when a response has already been written.
func Validate(c *gin.Context, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: lowerFirst(fe.Field()), Rule: fe.Tag()})
		}
		Error(c, http.StatusBadRequest, "validation_error", "Request validation failed", details)
		return false
	}
	Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

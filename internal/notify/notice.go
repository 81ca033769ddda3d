// Package notify carries user-visible notices from workflow components to
// whoever renders them.
package notify

import (
	"context"
	"time"
)

// Severity grades a notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is one message for the user.
type Notice struct {
	SessionID string    `json:"sessionId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	At        time.Time `json:"at"`
}

// Publisher is what components depend on to emit notices.
type Publisher interface {
	Publish(ctx context.Context, n Notice)
}

// Discard drops every notice.
type Discard struct{}

// Publish does nothing.
func (Discard) Publish(context.Context, Notice) {}

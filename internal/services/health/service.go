package health

import (
	"context"
	"database/sql"
	"time"
)

// SessionCounter reports live workflow sessions.
type SessionCounter interface {
	Len() int
}

// Status is the /health payload.
type Status struct {
	OK             bool   `json:"ok"`
	Database       string `json:"database"`
	LLMProvider    string `json:"llmProvider"`
	ActiveSessions int    `json:"activeSessions"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB       *sql.DB
	Provider string
	Sessions SessionCounter
}

// NewService constructs a new health service. db and sessions may be nil.
func NewService(db *sql.DB, provider string, sessions SessionCounter) *Service {
	return &Service{DB: db, Provider: provider, Sessions: sessions}
}

// Status pings the database, when there is one, and reports what the
// process is running with. OK is false only when the database is unreachable.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", LLMProvider: s.Provider}
	if st.LLMProvider == "" {
		st.LLMProvider = "none"
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.OK = false
			st.Database = "unreachable"
		} else {
			st.Database = "postgres"
		}
	}
	if s.Sessions != nil {
		st.ActiveSessions = s.Sessions.Len()
	}
	return st
}

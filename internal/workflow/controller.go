// Package workflow owns the session that carries a user from resume intake
// through the quiz to a saved compatibility report.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/notify"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/reports"
	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/telemetry"
)

// QuizGenerator produces quiz questions.
type QuizGenerator interface {
	Generate(ctx context.Context, resumeText, jobDescription string) ([]quiz.Question, error)
}

// Analyzer produces the compatibility report for a scored quiz.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string, result quiz.Result) (compat.Report, error)
}

// ReportSaver persists finished reports.
type ReportSaver interface {
	Save(ctx context.Context, userID string, report reports.SavedReport) (reports.SavedReport, error)
}

// StartInput is the intake payload.
type StartInput struct {
	Resume         extract.ResumeData
	StorageKey     string
	JobDescription string
}

// Controller drives sessions. Model calls run outside the store lock; the
// session is marked busy meanwhile so concurrent requests get ErrBusy.
type Controller struct {
	Sessions *Store
	Quiz     QuizGenerator
	Analyzer Analyzer
	Reports  ReportSaver
	Notices  notify.Publisher
}

// NewController wires a Controller. notices may be nil.
func NewController(store *Store, gen QuizGenerator, analyzer Analyzer, saver ReportSaver, notices notify.Publisher) *Controller {
	if notices == nil {
		notices = notify.Discard{}
	}
	return &Controller{Sessions: store, Quiz: gen, Analyzer: analyzer, Reports: saver, Notices: notices}
}

// Start creates a session and generates its quiz. Blank input fails before
// any session exists. When generation fails the session stays at intake and
// GenerateQuiz can be retried.
func (c *Controller) Start(ctx context.Context, userID string, in StartInput) (Snapshot, error) {
	if strings.TrimSpace(in.Resume.Text) == "" || strings.TrimSpace(in.JobDescription) == "" {
		return Snapshot{}, quiz.ErrMissingInput
	}
	sess := c.Sessions.create(&Session{
		UserID:         userID,
		Resume:         in.Resume,
		StorageKey:     in.StorageKey,
		JobDescription: in.JobDescription,
		Stage:          StageIntake,
	})
	telemetry.Info("workflow.started", map[string]any{
		"session_id": sess.ID,
		"user_id":    userID,
		"file_name":  in.Resume.FileName,
	})
	return c.GenerateQuiz(ctx, userID, sess.ID)
}

// GenerateQuiz asks for the session's quiz. Only valid at intake.
func (c *Controller) GenerateQuiz(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	var resumeText, jd string
	err := c.Sessions.with(userID, sessionID, func(s *Session) error {
		if s.Busy {
			return ErrBusy
		}
		if s.Stage != StageIntake {
			return fmt.Errorf("%w: quiz already generated", ErrNotReady)
		}
		s.Busy = true
		resumeText, jd = s.Resume.Text, s.JobDescription
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	returned := false
	defer c.clearBusy(userID, sessionID, &returned)
	questions, genErr := c.Quiz.Generate(ctx, resumeText, jd)
	returned = true

	var snap Snapshot
	err = c.Sessions.with(userID, sessionID, func(s *Session) error {
		s.Busy = false
		if genErr == nil {
			runner, err := quiz.NewRunner(questions)
			if err != nil {
				genErr = err
			} else {
				s.Runner = runner
				s.Stage = StageQuiz
			}
		}
		snap = s.snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if genErr != nil {
		c.fail(ctx, userID, sessionID, "Failed to generate quiz questions", genErr)
		return snap, genErr
	}
	c.publish(ctx, userID, sessionID, notify.SeverityInfo, fmt.Sprintf("Quiz ready: %d questions", len(questions)))
	return snap, nil
}

// Get returns the caller's session.
func (c *Controller) Get(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	err := c.Sessions.with(userID, sessionID, func(s *Session) error {
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

// Answer records a choice without moving.
func (c *Controller) Answer(ctx context.Context, userID, sessionID string, index, choice int) (Snapshot, error) {
	return c.onRunner(ctx, userID, sessionID, func(s *Session) error {
		return s.Runner.Answer(index, choice)
	})
}

// Previous steps back one question.
func (c *Controller) Previous(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	return c.onRunner(ctx, userID, sessionID, func(s *Session) error {
		return s.Runner.Previous()
	})
}

// Next advances; on the last question it scores the quiz and runs the analyzer.
func (c *Controller) Next(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	var done bool
	snap, err := c.onRunner(ctx, userID, sessionID, func(s *Session) error {
		var err error
		done, err = s.Runner.Next()
		if err != nil {
			return err
		}
		if done {
			recordResult(s)
		}
		return nil
	})
	if err != nil {
		return c.unanswered(ctx, userID, sessionID, err)
	}
	if !done {
		return snap, nil
	}
	return c.Analyze(ctx, userID, sessionID)
}

// Submit scores the quiz when every question is answered, then runs the analyzer.
func (c *Controller) Submit(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	_, err := c.onRunner(ctx, userID, sessionID, func(s *Session) error {
		if _, err := s.Runner.Submit(); err != nil {
			return err
		}
		recordResult(s)
		return nil
	})
	if err != nil {
		return c.unanswered(ctx, userID, sessionID, err)
	}
	return c.Analyze(ctx, userID, sessionID)
}

// Analyze runs the analyzer for a scored quiz. It is also the retry path
// after an analyzer failure; an existing analysis is returned as is.
func (c *Controller) Analyze(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	var (
		resumeText, jd string
		result         quiz.Result
		already        bool
	)
	err := c.Sessions.with(userID, sessionID, func(s *Session) error {
		if s.Busy {
			return ErrBusy
		}
		if s.Result == nil {
			return fmt.Errorf("%w: quiz has not been submitted", ErrNotReady)
		}
		if s.Analysis != nil {
			already = true
			return nil
		}
		s.Busy = true
		resumeText, jd, result = s.Resume.Text, s.JobDescription, *s.Result
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if already {
		return c.Get(ctx, userID, sessionID)
	}

	returned := false
	defer c.clearBusy(userID, sessionID, &returned)
	report, anErr := c.Analyzer.Analyze(ctx, resumeText, jd, result)
	returned = true

	var snap Snapshot
	err = c.Sessions.with(userID, sessionID, func(s *Session) error {
		s.Busy = false
		if anErr == nil {
			s.Analysis = &report
			s.Stage = StageResults
		}
		snap = s.snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if anErr != nil {
		c.fail(ctx, userID, sessionID, "Failed to analyze results", anErr)
		return snap, anErr
	}
	c.publish(ctx, userID, sessionID, notify.SeveritySuccess, "Analysis complete")
	return snap, nil
}

// Save persists the session's report. Saving twice returns the first report ID.
func (c *Controller) Save(ctx context.Context, userID, sessionID string) (Snapshot, error) {
	var (
		report  reports.SavedReport
		already bool
	)
	err := c.Sessions.with(userID, sessionID, func(s *Session) error {
		if s.Busy {
			return ErrBusy
		}
		if s.Result == nil || s.Analysis == nil {
			return fmt.Errorf("%w: results require a quiz score and an analysis", ErrNotReady)
		}
		if s.SavedReportID != "" {
			already = true
			return nil
		}
		s.Busy = true
		report = reports.SavedReport{
			Resume:         s.Resume,
			StorageKey:     s.StorageKey,
			JobDescription: s.JobDescription,
			Quiz:           *s.Result,
			Analysis:       *s.Analysis,
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if already {
		return c.Get(ctx, userID, sessionID)
	}

	returned := false
	defer c.clearBusy(userID, sessionID, &returned)
	saved, saveErr := c.Reports.Save(ctx, userID, report)
	returned = true

	var snap Snapshot
	err = c.Sessions.with(userID, sessionID, func(s *Session) error {
		s.Busy = false
		if saveErr == nil {
			s.SavedReportID = saved.ID
			s.Stage = StageSaved
		}
		snap = s.snapshot()
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if saveErr != nil {
		c.fail(ctx, userID, sessionID, "Failed to save report", saveErr)
		return snap, saveErr
	}
	c.publish(ctx, userID, sessionID, notify.SeveritySuccess, "Report saved successfully")
	return snap, nil
}

// clearBusy resets the Busy flag when the call it guards never returned,
// which only happens on panic. A normal return clears the flag itself.
func (c *Controller) clearBusy(userID, sessionID string, returned *bool) {
	if *returned {
		return
	}
	_ = c.Sessions.with(userID, sessionID, func(s *Session) error {
		s.Busy = false
		return nil
	})
	telemetry.Error("workflow.step_panicked", map[string]any{"session_id": sessionID, "user_id": userID})
}

// Discard deletes the caller's session.
func (c *Controller) Discard(ctx context.Context, userID, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Sessions.Delete(userID, sessionID); err != nil {
		return err
	}
	if f, ok := c.Notices.(interface{ Forget(string) }); ok {
		f.Forget(sessionID)
	}
	telemetry.Info("workflow.discarded", map[string]any{"session_id": sessionID, "user_id": userID})
	return nil
}

func (c *Controller) onRunner(ctx context.Context, userID, sessionID string, fn func(*Session) error) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	err := c.Sessions.with(userID, sessionID, func(s *Session) error {
		if s.Busy {
			return ErrBusy
		}
		if s.Runner == nil {
			return fmt.Errorf("%w: quiz requires a resume and job description", ErrNotReady)
		}
		if err := fn(s); err != nil {
			return err
		}
		snap = s.snapshot()
		return nil
	})
	return snap, err
}

// unanswered warns the user about open questions and returns the current
// snapshot alongside err.
func (c *Controller) unanswered(ctx context.Context, userID, sessionID string, err error) (Snapshot, error) {
	var ue *quiz.UnansweredError
	if errors.As(err, &ue) {
		c.publish(ctx, userID, sessionID, notify.SeverityWarning, ue.Error())
	}
	if errors.Is(err, ErrSessionNotFound) {
		return Snapshot{}, err
	}
	return c.snapshotOr(ctx, userID, sessionID, err)
}

func (c *Controller) snapshotOr(ctx context.Context, userID, sessionID string, err error) (Snapshot, error) {
	snap, getErr := c.Get(ctx, userID, sessionID)
	if getErr != nil {
		return Snapshot{}, err
	}
	return snap, err
}

func recordResult(s *Session) {
	res, ok := s.Runner.Result()
	if !ok {
		return
	}
	s.Result = &res
	metrics.IncQuizSubmitted()
}

func (c *Controller) fail(ctx context.Context, userID, sessionID, what string, err error) {
	telemetry.Error("workflow.step_failed", map[string]any{
		"session_id": sessionID,
		"user_id":    userID,
		"step":       what,
		"error":      err,
	})
	c.publish(ctx, userID, sessionID, notify.SeverityError, what+": "+Describe(err))
}

func (c *Controller) publish(ctx context.Context, userID, sessionID string, sev notify.Severity, msg string) {
	c.Notices.Publish(ctx, notify.Notice{SessionID: sessionID, UserID: userID, Severity: sev, Message: msg})
}

// Describe turns an error into the message shown to the user.
func Describe(err error) string {
	var se *llm.StatusError
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return "the AI service is rate limiting requests (API Error: 429), please wait a moment and try again"
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "the AI service did not respond in time"
	case errors.Is(err, llm.ErrNotConfigured):
		return "no AI provider is configured"
	}
	var pe *quiz.ParseError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var ape *compat.ParseError
	if errors.As(err, &ape) {
		return ape.Error()
	}
	return err.Error()
}

package reports

import (
	"context"
	"fmt"
	"strings"

	"jobfit-backend/internal/shared/metrics"
	"jobfit-backend/internal/shared/storage/object"
	"jobfit-backend/internal/shared/telemetry"
)

// Service wraps the repo with validation and raw-upload cleanup.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// NewService constructs a Service. store may be nil.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store}
}

// Save persists a completed report for userID and returns the stored copy.
func (s *Service) Save(ctx context.Context, userID string, report SavedReport) (SavedReport, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return SavedReport{}, fmt.Errorf("%w: user id is required", ErrInvalidReport)
	}
	switch {
	case strings.TrimSpace(report.Resume.Text) == "":
		return SavedReport{}, fmt.Errorf("%w: resume text is required", ErrInvalidReport)
	case strings.TrimSpace(report.JobDescription) == "":
		return SavedReport{}, fmt.Errorf("%w: job description is required", ErrInvalidReport)
	case report.Quiz.TotalQuestions <= 0:
		return SavedReport{}, fmt.Errorf("%w: quiz result is required", ErrInvalidReport)
	}
	if strings.TrimSpace(report.Resume.FileName) == "" {
		report.Resume.FileName = DefaultFileName
	}
	report.UserID = userID

	saved, err := s.Repo.Save(ctx, report)
	if err != nil {
		return SavedReport{}, fmt.Errorf("save report: %w", err)
	}
	metrics.IncReportsSaved()
	telemetry.Info("report.saved", map[string]any{
		"user_id":   userID,
		"report_id": saved.ID,
		"score":     saved.Analysis.Score,
	})
	return saved, nil
}

// List returns summaries of a user's reports, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	items, err := s.Repo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(items))
	for _, it := range items {
		out = append(out, Summarize(it))
	}
	return out, nil
}

// Get returns one report.
func (s *Service) Get(ctx context.Context, userID, reportID string) (SavedReport, error) {
	if strings.TrimSpace(reportID) == "" {
		return SavedReport{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, reportID)
}

// Delete removes a report and, best-effort, its raw upload.
func (s *Service) Delete(ctx context.Context, userID, reportID string) error {
	rep, err := s.Get(ctx, userID, reportID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, reportID); err != nil {
		return err
	}
	if s.Store != nil && rep.StorageKey != "" {
		if err := s.Store.Delete(ctx, rep.StorageKey); err != nil {
			telemetry.Warn("report.upload_delete_failed", map[string]any{
				"report_id":   reportID,
				"storage_key": rep.StorageKey,
				"error":       err,
			})
		}
	}
	telemetry.Info("report.deleted", map[string]any{"user_id": userID, "report_id": reportID})
	return nil
}

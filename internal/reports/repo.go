package reports

import "context"

// Repo persists saved reports under a per-user namespace. The repo assigns
// ID and CreatedAt; CreatedAt never goes backwards for one user.
type Repo interface {
	Save(ctx context.Context, report SavedReport) (SavedReport, error)
	List(ctx context.Context, userID string, limit, offset int) ([]SavedReport, error)
	Get(ctx context.Context, userID, reportID string) (SavedReport, error)
	Delete(ctx context.Context, userID, reportID string) error
}

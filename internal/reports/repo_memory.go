package reports

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]map[string]SavedReport
	last   map[string]time.Time
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byUser: make(map[string]map[string]SavedReport),
		last:   make(map[string]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Save stores a copy of the report with a fresh ID and timestamp.
func (r *MemoryRepo) Save(ctx context.Context, report SavedReport) (SavedReport, error) {
	if err := ctx.Err(); err != nil {
		return SavedReport{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	report.ID = uuid.NewString()
	created := r.now()
	if prev, ok := r.last[report.UserID]; ok && !created.After(prev) {
		created = prev.Add(time.Microsecond)
	}
	report.CreatedAt = created
	r.last[report.UserID] = created

	if r.byUser[report.UserID] == nil {
		r.byUser[report.UserID] = make(map[string]SavedReport)
	}
	r.byUser[report.UserID][report.ID] = report
	return report, nil
}

// List returns a user's reports newest first.
func (r *MemoryRepo) List(ctx context.Context, userID string, limit, offset int) ([]SavedReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	items := make([]SavedReport, 0, len(r.byUser[userID]))
	for _, rep := range r.byUser[userID] {
		items = append(items, rep)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if offset >= len(items) {
		return []SavedReport{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}

// Get returns one report owned by userID.
func (r *MemoryRepo) Get(ctx context.Context, userID, reportID string) (SavedReport, error) {
	if err := ctx.Err(); err != nil {
		return SavedReport{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.byUser[userID][reportID]
	if !ok {
		return SavedReport{}, ErrNotFound
	}
	return rep, nil
}

// Delete removes a report. Deleting a missing report returns ErrNotFound.
func (r *MemoryRepo) Delete(ctx context.Context, userID, reportID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userID][reportID]; !ok {
		return ErrNotFound
	}
	delete(r.byUser[userID], reportID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)

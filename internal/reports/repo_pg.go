package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Save inserts a report. created_at is assigned by the database and kept
// strictly after the user's newest report.
func (r *PGRepo) Save(ctx context.Context, report SavedReport) (SavedReport, error) {
	const query = `
INSERT INTO reports (
	id, user_id, file_name, resume_text, job_description, storage_key,
	quiz, analysis, score, total_questions, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	GREATEST(now(), COALESCE((SELECT MAX(created_at) FROM reports WHERE user_id = $2) + interval '1 microsecond', now())))
RETURNING created_at`

	quizPayload, err := json.Marshal(report.Quiz)
	if err != nil {
		return SavedReport{}, fmt.Errorf("marshal quiz: %w", err)
	}
	analysisPayload, err := json.Marshal(report.Analysis)
	if err != nil {
		return SavedReport{}, fmt.Errorf("marshal analysis: %w", err)
	}

	report.ID = uuid.NewString()
	err = r.DB.QueryRowContext(ctx, query,
		report.ID,
		report.UserID,
		report.Resume.FileName,
		report.Resume.Text,
		report.JobDescription,
		nullString(report.StorageKey),
		quizPayload,
		analysisPayload,
		report.Quiz.Score,
		report.Quiz.TotalQuestions,
	).Scan(&report.CreatedAt)
	if err != nil {
		return SavedReport{}, err
	}
	report.CreatedAt = report.CreatedAt.UTC()
	return report, nil
}

const selectColumns = `id, user_id, file_name, resume_text, job_description, storage_key, quiz, analysis, created_at`

// List returns a user's reports newest first.
func (r *PGRepo) List(ctx context.Context, userID string, limit, offset int) ([]SavedReport, error) {
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + selectColumns + `
FROM reports
WHERE user_id = $1
ORDER BY created_at DESC
OFFSET $2`
	args := []any{userID, offset}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SavedReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one report owned by userID.
func (r *PGRepo) Get(ctx context.Context, userID, reportID string) (SavedReport, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return SavedReport{}, ErrNotFound
	}
	query := `SELECT ` + selectColumns + `
FROM reports
WHERE id = $1 AND user_id = $2
LIMIT 1`
	rep, err := scanReport(r.DB.QueryRowContext(ctx, query, reportID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedReport{}, ErrNotFound
		}
		return SavedReport{}, err
	}
	return rep, nil
}

// Delete removes a report; a missing row yields ErrNotFound.
func (r *PGRepo) Delete(ctx context.Context, userID, reportID string) error {
	if _, err := uuid.Parse(reportID); err != nil {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reports WHERE id = $1 AND user_id = $2`, reportID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (SavedReport, error) {
	var (
		rep        SavedReport
		storageKey sql.NullString
		quizRaw    []byte
		analysis   []byte
	)
	err := row.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.Resume.FileName,
		&rep.Resume.Text,
		&rep.JobDescription,
		&storageKey,
		&quizRaw,
		&analysis,
		&rep.CreatedAt,
	)
	if err != nil {
		return SavedReport{}, err
	}
	if storageKey.Valid {
		rep.StorageKey = storageKey.String
	}
	if len(quizRaw) > 0 {
		if err := json.Unmarshal(quizRaw, &rep.Quiz); err != nil {
			return SavedReport{}, fmt.Errorf("decode quiz for report %s: %w", rep.ID, err)
		}
	}
	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &rep.Analysis); err != nil {
			return SavedReport{}, fmt.Errorf("decode analysis for report %s: %w", rep.ID, err)
		}
	}
	rep.CreatedAt = rep.CreatedAt.UTC()
	return rep, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)

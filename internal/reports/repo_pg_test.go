package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoSaveAssignsIDAndTimestamp(t *testing.T) {
	repo, mock := newMock(t)
	in := sampleReport()
	in.UserID = "user-1"
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO reports").
		WithArgs(
			sqlmock.AnyArg(), // id
			"user-1",
			"cv.pdf",
			in.Resume.Text,
			in.JobDescription,
			nil, // storage_key
			sqlmock.AnyArg(), // quiz
			sqlmock.AnyArg(), // analysis
			in.Quiz.Score,
			in.Quiz.TotalQuestions,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	saved, err := repo.Save(context.Background(), in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || !saved.CreatedAt.Equal(created) {
		t.Fatalf("unexpected saved report: id=%q created=%v", saved.ID, saved.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesJSONB(t *testing.T) {
	repo, mock := newMock(t)
	in := sampleReport()
	quizJSON, _ := json.Marshal(in.Quiz)
	analysisJSON, _ := json.Marshal(in.Analysis)
	id := "5f0c6f0e-8a3c-4a47-9d3c-1f2b3c4d5e6f"

	rows := sqlmock.NewRows([]string{"id", "user_id", "file_name", "resume_text", "job_description", "storage_key", "quiz", "analysis", "created_at"}).
		AddRow(id, "user-1", "cv.pdf", in.Resume.Text, in.JobDescription, "abc/cv.pdf", quizJSON, analysisJSON, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM reports").WithArgs(id, "user-1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "user-1", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Quiz.Score != in.Quiz.Score || got.Quiz.Answers[1] != 2 {
		t.Fatalf("quiz did not round-trip: %+v", got.Quiz)
	}
	if got.Analysis.SkillsAnalysis[0].Skill != "React" || got.StorageKey != "abc/cv.pdf" {
		t.Fatalf("analysis did not round-trip: %+v", got.Analysis)
	}
}

func TestPGRepoNotFound(t *testing.T) {
	repo, mock := newMock(t)
	id := "5f0c6f0e-8a3c-4a47-9d3c-1f2b3c4d5e6f"

	mock.ExpectQuery("SELECT (.+) FROM reports").WithArgs(id, "user-1").WillReturnError(sql.ErrNoRows)
	if _, err := repo.Get(context.Background(), "user-1", id); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	for i := 0; i < 2; i++ {
		mock.ExpectExec("DELETE FROM reports").WithArgs(id, "user-1").WillReturnResult(sqlmock.NewResult(0, 0))
		if err := repo.Delete(context.Background(), "user-1", id); err != ErrNotFound {
			t.Fatalf("delete #%d: expected ErrNotFound, got %v", i+1, err)
		}
	}

	if _, err := repo.Get(context.Background(), "user-1", "not-a-uuid"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListOrdersNewestFirst(t *testing.T) {
	repo, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"id", "user_id", "file_name", "resume_text", "job_description", "storage_key", "quiz", "analysis", "created_at"}).
		AddRow("b", "user-1", "b.pdf", "r", "jd", nil, []byte(`{}`), []byte(`{}`), time.Now()).
		AddRow("a", "user-1", "a.pdf", "r", "jd", nil, []byte(`{}`), []byte(`{}`), time.Now().Add(-time.Hour))
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs("user-1", 0, 10).WillReturnRows(rows)

	items, err := repo.List(context.Background(), "user-1", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	in := sampleReport()
	in.UserID = "user-1"

	saved, err := repo.Save(context.Background(), in)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repo.Get(context.Background(), "user-1", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Resume.Text, got.Resume.Text)
	assert.Equal(t, in.JobDescription, got.JobDescription)
	assert.Equal(t, in.Quiz, got.Quiz)
	assert.Equal(t, in.Analysis, got.Analysis)

	_, err = repo.Get(context.Background(), "user-2", saved.ID)
	assert.ErrorIs(t, err, ErrNotFound, "reports are namespaced by user")
}

func TestMemoryRepoDeleteIsIdempotentNotFound(t *testing.T) {
	repo := NewMemoryRepo()
	in := sampleReport()
	in.UserID = "user-1"
	saved, err := repo.Save(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), "user-1", saved.ID))
	first := repo.Delete(context.Background(), "user-1", saved.ID)
	second := repo.Delete(context.Background(), "user-1", saved.ID)
	assert.ErrorIs(t, first, ErrNotFound)
	assert.ErrorIs(t, second, ErrNotFound)
	assert.Equal(t, first, second)

	_, err = repo.Get(context.Background(), "user-1", saved.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryRepoMonotonicNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	var ids []string
	var prev time.Time
	for i := 0; i < 4; i++ {
		in := sampleReport()
		in.UserID = "user-1"
		saved, err := repo.Save(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, saved.CreatedAt.After(prev), "created_at must increase")
		prev = saved.CreatedAt
		ids = append(ids, saved.ID)
	}

	list, err := repo.List(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, rep := range list {
		assert.Equal(t, ids[len(ids)-1-i], rep.ID)
	}

	page, err := repo.List(context.Background(), "user-1", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)

	empty, err := repo.List(context.Background(), "user-1", 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSummarize(t *testing.T) {
	rep := sampleReport()
	rep.ID = "abc"
	s := Summarize(rep)
	assert.True(t, s.Viewable)
	assert.Equal(t, "Senior React/Node engineer", s.JobTitle)
	assert.Equal(t, 68, s.Score)
	assert.Equal(t, 1, s.QuizScore)
	assert.Equal(t, 2, s.TotalQuestions)

	rep.ID = ""
	rep.JobDescription = "\n\n"
	s = Summarize(rep)
	assert.False(t, s.Viewable)
	assert.Equal(t, "Untitled job", s.JobTitle)
}

package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfit-backend/internal/quiz"
)

func newRunner(t *testing.T) *quiz.Runner {
	t.Helper()
	qs := make([]quiz.Question, quiz.QuestionCount)
	for i := range qs {
		qs[i] = quiz.Question{
			Question:      fmt.Sprintf("Q%d", i),
			Options:       []string{"w", "x", "y", "z"},
			CorrectAnswer: 1,
		}
	}
	r, err := quiz.NewRunner(qs)
	require.NoError(t, err)
	return r
}

func TestTakeQuizScoresAnswers(t *testing.T) {
	var out bytes.Buffer
	res, err := takeQuiz(strings.NewReader("b\n2\nq\nB\nA\nb\n"), &out, newRunner(t), true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Score)
	assert.Equal(t, quiz.QuestionCount, res.TotalQuestions)
	assert.Contains(t, out.String(), "Choose A-D")
}

func TestTakeQuizPreviousAndSubmit(t *testing.T) {
	var out bytes.Buffer
	_, err := takeQuiz(strings.NewReader("a\np\ns\n"), &out, newRunner(t), false)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Please answer all questions (4 remaining)")
	assert.NotContains(t, out.String(), "Answer [A-D]")
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"a", 0, true},
		{"d", 3, true},
		{"e", 0, false},
		{"4", 3, true},
		{"0", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseChoice(tt.in, 4)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/llm/llmtest"
)

const (
	resumeText = "Experienced JavaScript developer, 5 years React"
	jobText    = "Looking for a senior React/Node engineer"
)

func TestGenerateRejectsMissingInputWithoutNetwork(t *testing.T) {
	client := llmtest.New("[]")
	g := NewGenerator(client)

	tests := []struct{ resume, jd string }{
		{resumeText, ""},
		{resumeText, "   \n"},
		{"", jobText},
	}
	for _, tt := range tests {
		_, err := g.Generate(context.Background(), tt.resume, tt.jd)
		require.ErrorIs(t, err, ErrMissingInput)
		assert.Equal(t, "Missing resume or job description", err.Error())
	}
	assert.Equal(t, 0, client.Calls(), "no network call may be issued")
}

func TestGenerateSendsQuizParameters(t *testing.T) {
	client := llmtest.New(sampleJSON(t, QuestionCount))
	questions, err := NewGenerator(client).Generate(context.Background(), resumeText, jobText)
	require.NoError(t, err)
	assert.Len(t, questions, QuestionCount)

	req := client.Last()
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	assert.Equal(t, 2500, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "exactly 5 questions")
	assert.Contains(t, req.Messages[0].Content, jobText)
}

func TestGenerateFallsBackToBracketedSpan(t *testing.T) {
	reply := "Sure! Here is your quiz:\n```json\n" + sampleJSON(t, QuestionCount) + "\n```\nGood luck."
	questions, err := NewGenerator(llmtest.New(reply)).Generate(context.Background(), resumeText, jobText)
	require.NoError(t, err)
	assert.Len(t, questions, QuestionCount)
}

func TestGeneratePropagatesRateLimit(t *testing.T) {
	client := llmtest.Failing(&llm.StatusError{StatusCode: 429})
	_, err := NewGenerator(client).Generate(context.Background(), resumeText, jobText)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrRateLimited))
	assert.Contains(t, err.Error(), "API Error: 429")
}

func TestParseQuestionsFailures(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantParse bool
		wantIndex int
	}{
		{name: "no json", raw: "I cannot help with that", wantParse: true},
		{name: "broken span", raw: "[{\"question\": ]", wantParse: true},
		{name: "object not array", raw: `{"question":"x"}`, wantIndex: -1},
		{name: "questions wrapped in object", raw: `{"questions":` + sampleJSON(t, QuestionCount) + `}`, wantIndex: -1},
		{name: "json string with brackets", raw: `"[1,2,3]"`, wantIndex: -1},
		{name: "null", raw: "null", wantIndex: -1},
		{name: "missing question", raw: `[{"options":["a","b","c","d"],"correctAnswer":0}]`, wantIndex: 0},
		{name: "missing correct answer", raw: `[{"question":"q","options":["a","b","c","d"]},{"question":"q","options":["a","b","c","d"]}]`, wantIndex: 0},
		{name: "options not array", raw: `[{"question":"q","options":["a","b","c","d"],"correctAnswer":1},{"question":"q","options":"abcd","correctAnswer":1}]`, wantIndex: 1},
		{name: "three options", raw: `[{"question":"q","options":["a","b","c"],"correctAnswer":1}]`, wantIndex: 0},
		{name: "correct out of range", raw: `[{"question":"q","options":["a","b","c","d"],"correctAnswer":4}]`, wantIndex: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions(tt.raw)
			require.Error(t, err)
			if tt.wantParse {
				var pe *ParseError
				require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantIndex, ve.Index)
		})
	}
}

func TestParseQuestionsNamesIndex(t *testing.T) {
	_, err := ParseQuestions(`[{"question":"q","options":["a","b","c","d"],"correctAnswer":0},{"question":"","options":["a"],"correctAnswer":0}]`)
	assert.EqualError(t, err, "Invalid question object at index 1")
}

func TestParseQuestionsNeverTruncates(t *testing.T) {
	for _, n := range []int{1, 4, 6, 10} {
		_, err := ParseQuestions(sampleJSON(t, n))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "n=%d: expected ValidationError, got %v", n, err)
		assert.Equal(t, -1, ve.Index)
		assert.True(t, strings.Contains(ve.Error(), "expected 5 questions"))
	}
}

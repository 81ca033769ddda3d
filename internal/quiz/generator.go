package quiz

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/shared/metrics"
)

const (
	// QuestionCount is the number of questions every quiz must contain.
	QuestionCount = 5
	// OptionCount is the number of options every question must offer.
	OptionCount = 4

	temperature = 0.7
	maxTokens   = 2500
)

//go:embed prompts/quiz.tmpl
var promptText string

var promptTmpl = template.Must(template.New("quiz").Parse(promptText))

// Generator asks the text-generation endpoint for a quiz.
type Generator struct {
	LLM llm.Client
}

// NewGenerator returns a Generator backed by client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{LLM: client}
}

// Generate builds the quiz prompt, calls the model once and validates the reply.
func (g *Generator) Generate(ctx context.Context, resumeText, jobDescription string) ([]Question, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, ErrMissingInput
	}
	prompt, err := BuildPrompt(jobDescription)
	if err != nil {
		return nil, err
	}

	raw, err := g.LLM.Complete(ctx, llm.UserPrompt("quiz.generate", prompt, temperature, maxTokens))
	if err != nil {
		metrics.IncQuizFailed()
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	questions, err := ParseQuestions(raw)
	if err != nil {
		metrics.IncQuizFailed()
		return nil, err
	}
	metrics.IncQuizGenerated()
	return questions, nil
}

// BuildPrompt renders the quiz instruction for a job description.
func BuildPrompt(jobDescription string) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, map[string]any{
		"Count":          QuestionCount,
		"Options":        OptionCount,
		"JobDescription": strings.TrimSpace(jobDescription),
	})
	if err != nil {
		return "", fmt.Errorf("render quiz prompt: %w", err)
	}
	return buf.String(), nil
}

type rawQuestion struct {
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     *int     `json:"correctAnswer"`
	Explanation       string   `json:"explanation"`
	WrongExplanations []string `json:"wrongExplanations"`
}

// ParseQuestions parses the model reply: direct JSON first, then the widest
// bracketed span when the reply is not JSON at all. A reply that is valid
// JSON but not an array is rejected. The result is validated before it is
// returned.
func ParseQuestions(raw string) ([]Question, error) {
	var items []json.RawMessage
	if json.Valid([]byte(raw)) {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, &ValidationError{Index: -1, Reason: "response is not an array"}
		}
	} else {
		span, ok := llm.ArraySpan(raw)
		if !ok {
			return nil, &ParseError{Raw: raw, Err: errors.New("could not extract JSON from response")}
		}
		if err := json.Unmarshal([]byte(span), &items); err != nil {
			return nil, &ParseError{Raw: raw, Err: err}
		}
	}
	if items == nil {
		return nil, &ValidationError{Index: -1, Reason: "response is not an array"}
	}

	out := make([]Question, 0, len(items))
	for i, item := range items {
		q, err := validateQuestion(i, item)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if len(out) != QuestionCount {
		return nil, &ValidationError{Index: -1, Reason: fmt.Sprintf("expected %d questions, got %d", QuestionCount, len(out))}
	}
	return out, nil
}

func validateQuestion(i int, item json.RawMessage) (Question, error) {
	var rq rawQuestion
	if err := json.Unmarshal(item, &rq); err != nil {
		return Question{}, &ValidationError{Index: i, Reason: err.Error()}
	}
	switch {
	case strings.TrimSpace(rq.Question) == "":
		return Question{}, &ValidationError{Index: i, Reason: "missing question"}
	case rq.Options == nil:
		return Question{}, &ValidationError{Index: i, Reason: "missing options"}
	case rq.CorrectAnswer == nil:
		return Question{}, &ValidationError{Index: i, Reason: "missing correctAnswer"}
	case len(rq.Options) != OptionCount:
		return Question{}, &ValidationError{Index: i, Reason: fmt.Sprintf("expected %d options, got %d", OptionCount, len(rq.Options))}
	case *rq.CorrectAnswer < 0 || *rq.CorrectAnswer >= len(rq.Options):
		return Question{}, &ValidationError{Index: i, Reason: fmt.Sprintf("correctAnswer %d out of range", *rq.CorrectAnswer)}
	}
	return Question{
		Question:          rq.Question,
		Options:           rq.Options,
		CorrectAnswer:     *rq.CorrectAnswer,
		Explanation:       rq.Explanation,
		WrongExplanations: rq.WrongExplanations,
	}, nil
}

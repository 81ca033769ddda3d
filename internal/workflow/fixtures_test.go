package workflow

import (
	"encoding/json"
	"fmt"
	"testing"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/llm/llmtest"
	"jobfit-backend/internal/notify"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/reports"
)

const analysisReply = `{
  "summary": "<p>Good React fit</p>",
  "analysis": "<p>Solid frontend, thinner backend</p>",
  "skillsMatchPercentage": 74,
  "score": 70,
  "skillsAnalysis": [{"skill": "React", "relevance": 90, "match": 85, "gap": 10}],
  "strengths": ["React"],
  "areasForGrowth": ["Node.js"]
}`

func quizReply(t *testing.T) string {
	t.Helper()
	qs := make([]quiz.Question, quiz.QuestionCount)
	for i := range qs {
		qs[i] = quiz.Question{
			Question:          fmt.Sprintf("Question %d about React?", i),
			Options:           []string{"a", "b", "c", "d"},
			CorrectAnswer:     i % quiz.OptionCount,
			Explanation:       "because",
			WrongExplanations: []string{"x", "y", "z"},
		}
	}
	data, err := json.Marshal(qs)
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	return string(data)
}

type harness struct {
	ctrl     *Controller
	quizLLM  *llmtest.Client
	compLLM  *llmtest.Client
	bus      *notify.Bus
	reports  *reports.Service
	sessions *Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		quizLLM:  llmtest.New(quizReply(t)),
		compLLM:  llmtest.New(analysisReply),
		bus:      notify.NewBus(),
		reports:  reports.NewService(reports.NewMemoryRepo(), nil),
		sessions: NewStore(),
	}
	h.ctrl = NewController(h.sessions, quiz.NewGenerator(h.quizLLM), compat.NewAnalyzer(h.compLLM), h.reports, h.bus)
	return h
}

func startInput() StartInput {
	return StartInput{
		Resume:         extract.ResumeData{Text: "Experienced JavaScript developer, 5 years React", FileName: "cv.pdf"},
		JobDescription: "Senior React/Node engineer",
	}
}

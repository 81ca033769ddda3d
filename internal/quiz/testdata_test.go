package quiz

import (
	"encoding/json"
	"fmt"
	"testing"
)

func sampleQuestions(n int) []Question {
	qs := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, Question{
			Question:          fmt.Sprintf("How does React reconcile update %d?", i),
			Options:           []string{"A", "B", "C", "D"},
			CorrectAnswer:     i % OptionCount,
			Explanation:       fmt.Sprintf("right %d", i),
			WrongExplanations: []string{"w0", "w1", "w2"},
		})
	}
	return qs
}

func sampleJSON(t *testing.T, n int) string {
	t.Helper()
	data, err := json.Marshal(sampleQuestions(n))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

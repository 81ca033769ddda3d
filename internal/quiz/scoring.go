package quiz

// Score computes the Result for a fully answered quiz.
func Score(questions []Question, answers AnswerMap) (Result, error) {
	if remaining := countUnanswered(len(questions), answers); remaining > 0 {
		return Result{}, &UnansweredError{Remaining: remaining}
	}

	res := Result{
		TotalQuestions: len(questions),
		Answers:        answers.Clone(),
		Feedback:       make([]Feedback, 0, len(questions)),
		Questions:      append([]Question(nil), questions...),
	}
	for i, q := range questions {
		selected := answers[i]
		correct := selected == q.CorrectAnswer
		if correct {
			res.Score++
		}
		res.Feedback = append(res.Feedback, Feedback{
			Index:         i,
			Selected:      selected,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       correct,
			Explanation:   explanationFor(q, selected),
		})
	}
	return res, nil
}

// explanationFor picks the explanation for a selection. wrongExplanations
// omits the correct option, so selections past it shift down by one.
// Selections before the correct option keep their index unchanged.
func explanationFor(q Question, selected int) string {
	if selected == q.CorrectAnswer {
		return q.Explanation
	}
	idx := selected
	if selected > q.CorrectAnswer {
		idx = selected - 1
	}
	if idx < 0 || idx >= len(q.WrongExplanations) {
		return ""
	}
	return q.WrongExplanations[idx]
}

func countUnanswered(n int, answers AnswerMap) int {
	remaining := 0
	for i := 0; i < n; i++ {
		if _, ok := answers[i]; !ok {
			remaining++
		}
	}
	return remaining
}

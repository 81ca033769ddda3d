package quiz

// Question is one generated multiple-choice question.
type Question struct {
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     int      `json:"correctAnswer"`
	Explanation       string   `json:"explanation"`
	WrongExplanations []string `json:"wrongExplanations"`
}

// AnswerMap maps a question index to the selected option index.
// A missing key means the question is unanswered.
type AnswerMap map[int]int

// Clone returns an independent copy.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Feedback is the per-question outcome shown after scoring.
type Feedback struct {
	Index         int    `json:"index"`
	Selected      int    `json:"selected"`
	CorrectAnswer int    `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// Result is computed once when a quiz completes.
type Result struct {
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Answers        AnswerMap  `json:"answers"`
	Feedback       []Feedback `json:"feedback"`
	Questions      []Question `json:"questions"`
}

// Percentage returns the score as a whole percentage of the total.
func (r Result) Percentage() int {
	if r.TotalQuestions <= 0 {
		return 0
	}
	return r.Score * 100 / r.TotalQuestions
}

func (r Result) clone() Result {
	out := r
	out.Answers = r.Answers.Clone()
	out.Feedback = append([]Feedback(nil), r.Feedback...)
	out.Questions = append([]Question(nil), r.Questions...)
	return out
}

package quiz

// State is the runner position: AwaitingAnswer(Index) or Complete.
type State struct {
	Index    int  `json:"index"`
	Complete bool `json:"complete"`
}

// Runner walks a user through a quiz one question at a time.
// It is not safe for concurrent use.
type Runner struct {
	questions []Question
	answers   AnswerMap
	current   int
	result    *Result
}

// NewRunner starts a quiz in AwaitingAnswer(0).
func NewRunner(questions []Question) (*Runner, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Runner{
		questions: append([]Question(nil), questions...),
		answers:   AnswerMap{},
	}, nil
}

// State reports the current position.
func (r *Runner) State() State {
	return State{Index: r.current, Complete: r.result != nil}
}

// Questions returns the quiz questions.
func (r *Runner) Questions() []Question {
	return append([]Question(nil), r.questions...)
}

// Answers returns a copy of the recorded answers.
func (r *Runner) Answers() AnswerMap {
	return r.answers.Clone()
}

// Remaining counts unanswered questions.
func (r *Runner) Remaining() int {
	return countUnanswered(len(r.questions), r.answers)
}

// Result returns the score once the quiz is complete.
func (r *Runner) Result() (Result, bool) {
	if r.result == nil {
		return Result{}, false
	}
	return r.result.clone(), true
}

// Answer records choice for question i without moving.
func (r *Runner) Answer(i, choice int) error {
	if r.result != nil {
		return ErrComplete
	}
	if i < 0 || i >= len(r.questions) {
		return ErrIndexOutOfRange
	}
	if choice < 0 || choice >= len(r.questions[i].Options) {
		return ErrChoiceOutOfRange
	}
	r.answers[i] = choice
	return nil
}

// Next advances when the current question is answered. On the last
// question it scores the quiz and returns done=true.
func (r *Runner) Next() (done bool, err error) {
	if r.result != nil {
		return false, ErrComplete
	}
	if _, ok := r.answers[r.current]; !ok {
		return false, ErrCurrentUnanswered
	}
	if r.current < len(r.questions)-1 {
		r.current++
		return false, nil
	}
	if _, err := r.finish(); err != nil {
		return false, err
	}
	return true, nil
}

// Previous steps back one question; it is a no-op on the first.
func (r *Runner) Previous() error {
	if r.result != nil {
		return ErrComplete
	}
	if r.current > 0 {
		r.current--
	}
	return nil
}

// Submit scores the quiz if every question is answered.
func (r *Runner) Submit() (Result, error) {
	if r.result != nil {
		return Result{}, ErrComplete
	}
	return r.finish()
}

func (r *Runner) finish() (Result, error) {
	res, err := Score(r.questions, r.answers)
	if err != nil {
		return Result{}, err
	}
	r.result = &res
	return res.clone(), nil
}

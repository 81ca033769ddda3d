package workflow

import (
	"time"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/viewer"
)

// Stage is the screen a session is on.
type Stage string

const (
	StageIntake  Stage = "intake"
	StageQuiz    Stage = "quiz"
	StageResults Stage = "results"
	StageSaved   Stage = "saved"
)

// Session is one user's pass through intake, quiz, results and save.
// Fields are guarded by the owning Store.
type Session struct {
	ID             string
	UserID         string
	Resume         extract.ResumeData
	StorageKey     string
	JobDescription string
	Stage          Stage
	Busy           bool
	Runner         *quiz.Runner
	Result         *quiz.Result
	Analysis       *compat.Report
	SavedReportID  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicQuestion is a question with the answer key withheld.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Snapshot is the client-facing copy of a session.
type Snapshot struct {
	ID             string           `json:"id"`
	Stage          Stage            `json:"stage"`
	Busy           bool             `json:"busy"`
	FileName       string           `json:"fileName"`
	ResumeChars    int              `json:"resumeChars"`
	JobDescription string           `json:"jobDescription"`
	Questions      []PublicQuestion `json:"questions,omitempty"`
	State          quiz.State       `json:"state"`
	Answers        quiz.AnswerMap   `json:"answers"`
	Remaining      int              `json:"remaining"`
	Result         *quiz.Result     `json:"result,omitempty"`
	Analysis       *compat.Report   `json:"analysis,omitempty"`
	View           *viewer.View     `json:"view,omitempty"`
	SavedReportID  string           `json:"savedReportId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:             s.ID,
		Stage:          s.Stage,
		Busy:           s.Busy,
		FileName:       s.Resume.FileName,
		ResumeChars:    len([]rune(s.Resume.Text)),
		JobDescription: s.JobDescription,
		Answers:        quiz.AnswerMap{},
		SavedReportID:  s.SavedReportID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.Runner != nil {
		for _, q := range s.Runner.Questions() {
			snap.Questions = append(snap.Questions, PublicQuestion{Question: q.Question, Options: q.Options})
		}
		snap.State = s.Runner.State()
		snap.Answers = s.Runner.Answers()
		snap.Remaining = s.Runner.Remaining()
	}
	if s.Result != nil {
		res := *s.Result
		snap.Result = &res
	}
	if s.Analysis != nil {
		rep := *s.Analysis
		snap.Analysis = &rep
		if s.Result != nil {
			view := viewer.Build(viewer.Input{
				FileName:       s.Resume.FileName,
				JobDescription: s.JobDescription,
				Quiz:           *s.Result,
				Analysis:       rep,
			})
			snap.View = &view
		}
	}
	return snap
}

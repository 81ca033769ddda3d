package reports

import (
	"strings"
	"time"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/quiz"
)

// DefaultFileName is used when a report is saved without a resume file name.
const DefaultFileName = "resume.pdf"

// SavedReport is the persisted aggregate of one completed workflow.
type SavedReport struct {
	ID             string             `json:"id"`
	UserID         string             `json:"userId"`
	Resume         extract.ResumeData `json:"resume"`
	StorageKey     string             `json:"-"`
	JobDescription string             `json:"jobDescription"`
	Quiz           quiz.Result        `json:"quizResults"`
	Analysis       compat.Report      `json:"analysis"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// Summary is the list-view projection of a saved report.
type Summary struct {
	ID                    string    `json:"id,omitempty"`
	FileName              string    `json:"fileName"`
	JobTitle              string    `json:"jobTitle"`
	Score                 int       `json:"score"`
	SkillsMatchPercentage int       `json:"skillsMatchPercentage"`
	QuizScore             int       `json:"quizScore"`
	TotalQuestions        int       `json:"totalQuestions"`
	CreatedAt             time.Time `json:"createdAt"`
	// Viewable is false when the store returned no identifier; view and
	// delete are disabled for such rows.
	Viewable bool `json:"viewable"`
}

// Summarize builds the list projection.
func Summarize(r SavedReport) Summary {
	return Summary{
		ID:                    r.ID,
		FileName:              r.Resume.FileName,
		JobTitle:              jobTitle(r.JobDescription),
		Score:                 r.Analysis.Score,
		SkillsMatchPercentage: r.Analysis.SkillsMatchPercentage,
		QuizScore:             r.Quiz.Score,
		TotalQuestions:        r.Quiz.TotalQuestions,
		CreatedAt:             r.CreatedAt,
		Viewable:              strings.TrimSpace(r.ID) != "",
	}
}

const jobTitleMax = 80

// jobTitle is the first non-empty line of the job description, shortened.
func jobTitle(jd string) string {
	for _, line := range strings.Split(jd, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := []rune(line)
		if len(r) > jobTitleMax {
			return strings.TrimSpace(string(r[:jobTitleMax-3])) + "..."
		}
		return line
	}
	return "Untitled job"
}

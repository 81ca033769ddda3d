// Package viewer turns a compatibility report into display-ready data and
// renders it as PDF or plain text.
package viewer

import (
	"sort"
	"strings"
	"time"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/quiz"
)

// Input is everything a report view is built from.
type Input struct {
	FileName       string
	JobDescription string
	Quiz           quiz.Result
	Analysis       compat.Report
	CreatedAt      time.Time
}

// QuestionReview is the per-question feedback shown after the quiz.
type QuestionReview struct {
	Question    string `json:"question"`
	Selected    string `json:"selected"`
	Correct     string `json:"correct"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// View is the derived, display-ready report.
type View struct {
	FileName        string              `json:"fileName"`
	CreatedAt       time.Time           `json:"createdAt,omitempty"`
	QuizScore       int                 `json:"quizScore"`
	QuizTotal       int                 `json:"quizTotal"`
	QuizPercentage  int                 `json:"quizPercentage"`
	Score           int                 `json:"score"`
	SkillsMatch     int                 `json:"skillsMatchPercentage"`
	Band            string              `json:"band"`
	Sections        []compat.Section    `json:"sections"`
	Skills          []compat.SkillScore `json:"skills"`
	TopGaps         []string            `json:"topGaps"`
	Strengths       []string            `json:"strengths"`
	AreasForGrowth  []string            `json:"areasForGrowth"`
	QuestionReviews []QuestionReview    `json:"questionReviews"`
}

const topGapCount = 3

// Build derives a View. Narrative HTML is sanitized again so stored
// reports written by older builds render safely.
func Build(in Input) View {
	v := View{
		FileName:       in.FileName,
		CreatedAt:      in.CreatedAt,
		QuizScore:      in.Quiz.Score,
		QuizTotal:      in.Quiz.TotalQuestions,
		QuizPercentage: in.Quiz.Percentage(),
		Score:          in.Analysis.Score,
		SkillsMatch:    in.Analysis.SkillsMatchPercentage,
		Band:           Band(in.Analysis.Score),
		Strengths:      append([]string(nil), in.Analysis.Strengths...),
		AreasForGrowth: append([]string(nil), in.Analysis.AreasForGrowth...),
	}

	for _, s := range in.Analysis.HTMLSections() {
		s.HTML = compat.SanitizeHTML(s.HTML)
		if strings.TrimSpace(s.HTML) == "" {
			continue
		}
		v.Sections = append(v.Sections, s)
	}

	v.Skills = append([]compat.SkillScore(nil), in.Analysis.SkillsAnalysis...)
	sort.SliceStable(v.Skills, func(i, j int) bool {
		return v.Skills[i].Relevance > v.Skills[j].Relevance
	})

	byGap := append([]compat.SkillScore(nil), v.Skills...)
	sort.SliceStable(byGap, func(i, j int) bool {
		return byGap[i].Gap > byGap[j].Gap
	})
	for _, s := range byGap {
		if len(v.TopGaps) == topGapCount || s.Gap <= 0 {
			break
		}
		v.TopGaps = append(v.TopGaps, s.Skill)
	}

	for _, fb := range in.Quiz.Feedback {
		if fb.Index < 0 || fb.Index >= len(in.Quiz.Questions) {
			continue
		}
		q := in.Quiz.Questions[fb.Index]
		v.QuestionReviews = append(v.QuestionReviews, QuestionReview{
			Question:    q.Question,
			Selected:    option(q, fb.Selected),
			Correct:     option(q, fb.CorrectAnswer),
			IsCorrect:   fb.Correct,
			Explanation: fb.Explanation,
		})
	}
	return v
}

// Band classifies an overall score.
func Band(score int) string {
	switch {
	case score >= 75:
		return "strong"
	case score >= 50:
		return "moderate"
	default:
		return "weak"
	}
}

func option(q quiz.Question, i int) string {
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

package reports

import (
	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/extract"
	"jobfit-backend/internal/quiz"
)

func sampleReport() SavedReport {
	qs := []quiz.Question{
		{Question: "What does useEffect cleanup do?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1, Explanation: "b", WrongExplanations: []string{"a", "c", "d"}},
		{Question: "How does Node handle blocking I/O?", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0, Explanation: "a", WrongExplanations: []string{"b", "c", "d"}},
	}
	res, _ := quiz.Score(qs, quiz.AnswerMap{0: 1, 1: 2})
	return SavedReport{
		Resume:         extract.ResumeData{Text: "Experienced JavaScript developer, 5 years React", FileName: "cv.pdf"},
		JobDescription: "Senior React/Node engineer\nRemote",
		Quiz:           res,
		Analysis: compat.Report{
			Summary:               "<p>Good match</p>",
			SkillsMatchPercentage: 72,
			Score:                 68,
			SkillsAnalysis:        []compat.SkillScore{{Skill: "React", Relevance: 90, Match: 85, Gap: 15}},
			Strengths:             []string{"React"},
			AreasForGrowth:        []string{"Node"},
		},
	}
}

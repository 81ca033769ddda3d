package viewer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"jobfit-backend/internal/compat"
)

// RenderText writes a plain-text rendering of the view.
func RenderText(w io.Writer, v View) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	p("Compatibility report")
	if v.FileName != "" {
		p(" for %s", v.FileName)
	}
	p("\n\n")
	p("Quiz score:        %d/%d (%d%%)\n", v.QuizScore, v.QuizTotal, v.QuizPercentage)
	p("Overall score:     %d/100 (%s)\n", v.Score, v.Band)
	p("Skills match:      %d%%\n", v.SkillsMatch)

	if len(v.Skills) > 0 {
		p("\nSkills (relevance / match / gap)\n")
		for _, s := range v.Skills {
			p("  %-24s %3d  %3d  %3d  %s\n", truncate(s.Skill, 24), s.Relevance, s.Match, s.Gap, bar(s.Match, 20))
		}
	}
	if len(v.TopGaps) > 0 {
		p("\nBiggest gaps: %s\n", strings.Join(v.TopGaps, ", "))
	}
	writeList(p, "Strengths", v.Strengths)
	writeList(p, "Areas for growth", v.AreasForGrowth)

	for _, s := range v.Sections {
		p("\n%s\n%s\n%s\n", s.Title, strings.Repeat("-", len(s.Title)), compat.StripHTML(s.HTML))
	}

	if len(v.QuestionReviews) > 0 {
		p("\nQuiz review\n-----------\n")
		for i, r := range v.QuestionReviews {
			mark := "wrong"
			if r.IsCorrect {
				mark = "correct"
			}
			p("%d. %s [%s]\n", i+1, r.Question, mark)
			p("   Your answer: %s\n", r.Selected)
			if !r.IsCorrect {
				p("   Correct answer: %s\n", r.Correct)
			}
			if r.Explanation != "" {
				p("   %s\n", r.Explanation)
			}
		}
	}
	return bw.Flush()
}

func writeList(p func(string, ...any), title string, items []string) {
	if len(items) == 0 {
		return
	}
	p("\n%s\n", title)
	for _, it := range items {
		p("  - %s\n", it)
	}
}

func bar(pct, width int) string {
	filled := pct * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

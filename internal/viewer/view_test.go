package viewer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/quiz"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	qs := []quiz.Question{
		{Question: "What triggers a React re-render?", Options: []string{"state change", "CSS", "DNS", "cron"}, CorrectAnswer: 0, Explanation: "State drives rendering.", WrongExplanations: []string{"no", "no", "no"}},
		{Question: "Which Node API streams files?", Options: []string{"fs.readFileSync", "fs.createReadStream", "os.cpus", "path.join"}, CorrectAnswer: 1, Explanation: "Streams.", WrongExplanations: []string{"Sync read buffers it all.", "no", "no"}},
	}
	res, err := quiz.Score(qs, quiz.AnswerMap{0: 0, 1: 0})
	require.NoError(t, err)
	return Input{
		FileName:       "cv.pdf",
		JobDescription: "Senior React/Node engineer",
		Quiz:           res,
		CreatedAt:      time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
		Analysis: compat.Report{
			Summary:               "<p>Solid <strong>React</strong> background.</p><script>x()</script>",
			Analysis:              "<ul><li>Hooks</li></ul>",
			Score:                 64,
			SkillsMatchPercentage: 70,
			SkillsAnalysis: []compat.SkillScore{
				{Skill: "Docker", Relevance: 40, Match: 20, Gap: 60},
				{Skill: "React", Relevance: 95, Match: 90, Gap: 5},
				{Skill: "Node.js", Relevance: 85, Match: 50, Gap: 35},
				{Skill: "Git", Relevance: 50, Match: 90, Gap: 0},
				{Skill: "AWS", Relevance: 60, Match: 30, Gap: 45},
			},
			Strengths:      []string{"React depth"},
			AreasForGrowth: []string{"Containers"},
		},
	}
}

func TestBuild(t *testing.T) {
	v := Build(sampleInput(t))

	assert.Equal(t, 1, v.QuizScore)
	assert.Equal(t, 50, v.QuizPercentage)
	assert.Equal(t, "moderate", v.Band)
	require.Len(t, v.Sections, 2, "empty sections are skipped")
	assert.NotContains(t, v.Sections[0].HTML, "script")

	names := make([]string, 0, len(v.Skills))
	for _, s := range v.Skills {
		names = append(names, s.Skill)
	}
	assert.Equal(t, []string{"React", "Node.js", "AWS", "Git", "Docker"}, names)
	assert.Equal(t, []string{"Docker", "AWS", "Node.js"}, v.TopGaps)

	require.Len(t, v.QuestionReviews, 2)
	assert.True(t, v.QuestionReviews[0].IsCorrect)
	assert.Equal(t, "fs.readFileSync", v.QuestionReviews[1].Selected)
	assert.Equal(t, "fs.createReadStream", v.QuestionReviews[1].Correct)
	assert.Equal(t, "Sync read buffers it all.", v.QuestionReviews[1].Explanation)
}

func TestBand(t *testing.T) {
	assert.Equal(t, "strong", Band(75))
	assert.Equal(t, "moderate", Band(50))
	assert.Equal(t, "weak", Band(49))
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, Build(sampleInput(t))))
	out := buf.String()
	assert.Contains(t, out, "Quiz score:        1/2 (50%)")
	assert.Contains(t, out, "Biggest gaps: Docker, AWS, Node.js")
	assert.Contains(t, out, "Solid React background.")
	assert.Contains(t, out, "- Hooks")
	assert.Contains(t, out, "Correct answer: fs.createReadStream")
	assert.False(t, strings.Contains(out, "<p>"))
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, Build(sampleInput(t))))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

package compat

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"

	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/shared/metrics"
)

const (
	temperature = 0.4
	maxTokens   = 3500

	// SkillsAnalysisSize is the number of skills rows the model is asked for.
	SkillsAnalysisSize = 8
)

//go:embed prompts/analysis.tmpl
var promptText string

var promptTmpl = template.Must(template.New("analysis").Parse(promptText))

// ParseError means the reply was not a single JSON object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return "Failed to parse analysis data"
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Analyzer produces compatibility reports.
type Analyzer struct {
	LLM llm.Client
}

// NewAnalyzer returns an Analyzer backed by client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{LLM: client}
}

// Analyze scores the resume against the job description using the full quiz result.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string, result quiz.Result) (Report, error) {
	return a.run(ctx, resumeText, jobDescription, promptInput{
		Score:  result.Score,
		Total:  result.TotalQuestions,
		Missed: missedQuestions(result),
	})
}

// AnalyzeScore is the bare-score form used when only the tally is known.
func (a *Analyzer) AnalyzeScore(ctx context.Context, resumeText, jobDescription string, score, total int) (Report, error) {
	if total <= 0 {
		total = quiz.QuestionCount
	}
	return a.run(ctx, resumeText, jobDescription, promptInput{Score: score, Total: total})
}

type promptInput struct {
	Resume         string
	JobDescription string
	Score          int
	Total          int
	Missed         []string
}

func (a *Analyzer) run(ctx context.Context, resumeText, jobDescription string, in promptInput) (Report, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return Report{}, quiz.ErrMissingInput
	}
	in.Resume = resumeText
	in.JobDescription = jobDescription
	prompt, err := render(in)
	if err != nil {
		return Report{}, err
	}

	metrics.IncAnalysisStarted()
	raw, err := a.LLM.Complete(ctx, llm.UserPrompt("analysis.generate", prompt, temperature, maxTokens))
	if err != nil {
		metrics.IncAnalysisFailed()
		return Report{}, fmt.Errorf("analyze compatibility: %w", err)
	}
	report, err := ParseReport(raw)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Report{}, err
	}
	metrics.IncAnalysisCompleted()
	return report, nil
}

// BuildPrompt renders the analysis instruction for a quiz result.
func BuildPrompt(resumeText, jobDescription string, result quiz.Result) (string, error) {
	return render(promptInput{
		Resume:         resumeText,
		JobDescription: jobDescription,
		Score:          result.Score,
		Total:          result.TotalQuestions,
		Missed:         missedQuestions(result),
	})
}

func render(in promptInput) (string, error) {
	in.Resume = strings.TrimSpace(in.Resume)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("render analysis prompt: %w", err)
	}
	return buf.String(), nil
}

func missedQuestions(result quiz.Result) []string {
	var out []string
	for _, fb := range result.Feedback {
		if fb.Correct || fb.Index < 0 || fb.Index >= len(result.Questions) {
			continue
		}
		out = append(out, result.Questions[fb.Index].Question)
	}
	return out
}

type rawSkill struct {
	Skill     string  `json:"skill"`
	Relevance float64 `json:"relevance"`
	Match     float64 `json:"match"`
	Gap       float64 `json:"gap"`
}

type rawReport struct {
	Summary               string     `json:"summary"`
	Analysis              string     `json:"analysis"`
	Recommendations       string     `json:"recommendations"`
	LearningResources     string     `json:"learningResources"`
	LearningRoadmap       string     `json:"learningRoadmap"`
	SkillsMatchPercentage float64    `json:"skillsMatchPercentage"`
	Score                 float64    `json:"score"`
	SkillsAnalysis        []rawSkill `json:"skillsAnalysis"`
	Strengths             []string   `json:"strengths"`
	AreasForGrowth        []string   `json:"areasForGrowth"`
}

// ParseReport decodes the reply as one JSON object. There is no fallback
// extraction: fenced or prose-wrapped replies fail.
func ParseReport(raw string) (Report, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Report{}, &ParseError{Raw: raw, Err: errors.New("response is not a JSON object")}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Report{}, &ParseError{Raw: raw, Err: err}
	}
	if err := checkSchema(trimmed); err != nil {
		return Report{}, err
	}

	var rr rawReport
	if err := json.Unmarshal(trimmed, &rr); err != nil {
		return Report{}, &ParseError{Raw: raw, Err: err}
	}

	report := Report{
		Summary:               SanitizeHTML(rr.Summary),
		Analysis:              SanitizeHTML(rr.Analysis),
		Recommendations:       SanitizeHTML(rr.Recommendations),
		LearningResources:     SanitizeHTML(rr.LearningResources),
		LearningRoadmap:       SanitizeHTML(rr.LearningRoadmap),
		SkillsMatchPercentage: percent(rr.SkillsMatchPercentage),
		Score:                 percent(rr.Score),
		SkillsAnalysis:        make([]SkillScore, 0, len(rr.SkillsAnalysis)),
		Strengths:             cleanList(rr.Strengths),
		AreasForGrowth:        cleanList(rr.AreasForGrowth),
	}
	for _, s := range rr.SkillsAnalysis {
		name := strings.TrimSpace(s.Skill)
		if name == "" {
			continue
		}
		report.SkillsAnalysis = append(report.SkillsAnalysis, SkillScore{
			Skill:     name,
			Relevance: percent(s.Relevance),
			Match:     percent(s.Match),
			Gap:       percent(s.Gap),
		})
	}
	return report, nil
}

func percent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(v))))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(StripHTML(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

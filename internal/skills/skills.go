// Package skills extracts skill lists from a job description and a resume.
package skills

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"

	"jobfit-backend/internal/llm"
	"jobfit-backend/internal/quiz"
)

const (
	// KeySkillLimit is how many skills KeySkills asks for.
	KeySkillLimit = 10

	temperature          = 0.3
	keySkillsMaxTokens   = 500
	resumeSkillMaxTokens = 1000
)

// ErrMissingJobDescription is returned by KeySkills for a blank job description.
var ErrMissingJobDescription = errors.New("Missing job description")

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// ParseError reports a reply that did not decode into the expected shape.
type ParseError struct {
	What string
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse %s data", e.What)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Match is the model's rating of one resume skill.
type Match struct {
	Level     int    `json:"level"`
	Relevance string `json:"relevance"`
}

// ResumeSkills is the resume-side skill breakdown.
type ResumeSkills struct {
	Skills        []string         `json:"skills"`
	MatchAnalysis map[string]Match `json:"matchAnalysis"`
	MissingSkills []string         `json:"missingSkills"`
}

// Ranked returns resume skills ordered by level, highest first.
func (r ResumeSkills) Ranked() []string {
	out := append([]string(nil), r.Skills...)
	sort.SliceStable(out, func(i, j int) bool {
		return r.MatchAnalysis[out[i]].Level > r.MatchAnalysis[out[j]].Level
	})
	return out
}

// Insights combines both extractions.
type Insights struct {
	KeySkills []string     `json:"keySkills"`
	Resume    ResumeSkills `json:"resume"`
}

// Extractor runs the skill prompts.
type Extractor struct {
	LLM llm.Client
}

// NewExtractor returns an Extractor backed by client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{LLM: client}
}

// KeySkills returns up to KeySkillLimit skills named in the job description.
func (e *Extractor) KeySkills(ctx context.Context, jobDescription string) ([]string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrMissingJobDescription
	}
	prompt, err := render("key_skills.tmpl", map[string]any{
		"Limit":          KeySkillLimit,
		"JobDescription": strings.TrimSpace(jobDescription),
	})
	if err != nil {
		return nil, err
	}
	raw, err := e.LLM.Complete(ctx, llm.UserPrompt("skills.key", prompt, temperature, keySkillsMaxTokens))
	if err != nil {
		return nil, fmt.Errorf("extract key skills: %w", err)
	}

	var list []string
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &list); err != nil {
		return nil, &ParseError{What: "skills", Raw: raw, Err: err}
	}
	list = dedupe(list)
	if len(list) > KeySkillLimit {
		list = list[:KeySkillLimit]
	}
	return list, nil
}

// ResumeSkills rates the resume's skills against the job description.
func (e *Extractor) ResumeSkills(ctx context.Context, resumeText, jobDescription string) (ResumeSkills, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return ResumeSkills{}, quiz.ErrMissingInput
	}
	prompt, err := render("resume_skills.tmpl", map[string]any{
		"Resume":         strings.TrimSpace(resumeText),
		"JobDescription": strings.TrimSpace(jobDescription),
	})
	if err != nil {
		return ResumeSkills{}, err
	}
	raw, err := e.LLM.Complete(ctx, llm.UserPrompt("skills.resume", prompt, temperature, resumeSkillMaxTokens))
	if err != nil {
		return ResumeSkills{}, fmt.Errorf("extract resume skills: %w", err)
	}

	var out ResumeSkills
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &out); err != nil {
		return ResumeSkills{}, &ParseError{What: "resume skills", Raw: raw, Err: err}
	}
	out.Skills = dedupe(out.Skills)
	out.MissingSkills = dedupe(out.MissingSkills)
	if out.MatchAnalysis == nil {
		out.MatchAnalysis = map[string]Match{}
	}
	for name, m := range out.MatchAnalysis {
		m.Level = clampLevel(m.Level)
		m.Relevance = normalizeRelevance(m.Relevance)
		out.MatchAnalysis[name] = m
	}
	return out, nil
}

// Insights runs KeySkills and ResumeSkills concurrently.
func (e *Extractor) Insights(ctx context.Context, resumeText, jobDescription string) (Insights, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return Insights{}, quiz.ErrMissingInput
	}
	var out Insights
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := e.KeySkills(gctx, jobDescription)
		out.KeySkills = list
		return err
	})
	g.Go(func() error {
		rs, err := e.ResumeSkills(gctx, resumeText, jobDescription)
		out.Resume = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return Insights{}, err
	}
	return out, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func clampLevel(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 5:
		return 5
	}
	return v
}

func normalizeRelevance(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return "high"
	case "medium":
		return "medium"
	}
	return "low"
}

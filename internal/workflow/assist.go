package workflow

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobfit-backend/internal/compat"
	"jobfit-backend/internal/quiz"
	"jobfit-backend/internal/shared/server/respond"
	"jobfit-backend/internal/skills"
)

// ScoreAnalyzer analyzes either a full quiz result or a bare score.
type ScoreAnalyzer interface {
	Analyzer
	AnalyzeScore(ctx context.Context, resumeText, jobDescription string, score, total int) (compat.Report, error)
}

// SkillExtractor pulls skill lists out of a job description and resume.
type SkillExtractor interface {
	KeySkills(ctx context.Context, jobDescription string) ([]string, error)
	Insights(ctx context.Context, resumeText, jobDescription string) (skills.Insights, error)
}

// AssistHandler exposes the model operations without a session, for clients
// that keep quiz state themselves.
type AssistHandler struct {
	Quiz     QuizGenerator
	Analyzer ScoreAnalyzer
	Skills   SkillExtractor
}

// NewAssistHandler constructs an AssistHandler.
func NewAssistHandler(gen QuizGenerator, analyzer ScoreAnalyzer, extractor SkillExtractor) *AssistHandler {
	return &AssistHandler{Quiz: gen, Analyzer: analyzer, Skills: extractor}
}

// RegisterRoutes attaches the stateless routes to the router group.
func (h *AssistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quiz", h.quiz)
	rg.POST("/analysis", h.analysis)
	rg.POST("/skills", h.skills)
}

type quizRequest struct {
	ResumeText     string `json:"resumeText" validate:"max=200000"`
	JobDescription string `json:"jobDescription" validate:"max=50000"`
}

type analysisRequest struct {
	ResumeText     string       `json:"resumeText" validate:"max=200000"`
	JobDescription string       `json:"jobDescription" validate:"max=50000"`
	Score          int          `json:"score" validate:"min=0,ltefield=TotalQuestions"`
	TotalQuestions int          `json:"totalQuestions" validate:"min=0"`
	QuizResults    *quiz.Result `json:"quizResults"`
}

type skillsRequest struct {
	ResumeText     string `json:"resumeText" validate:"max=200000"`
	JobDescription string `json:"jobDescription" validate:"max=50000"`
}

func (h *AssistHandler) quiz(c *gin.Context) {
	var req quizRequest
	if !bind(c, &req) {
		return
	}
	questions, err := h.Quiz.Generate(c.Request.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		WriteError(c, err, nil)
		return
	}
	respond.OK(c, gin.H{"questions": questions})
}

func (h *AssistHandler) analysis(c *gin.Context) {
	var req analysisRequest
	if !bind(c, &req) {
		return
	}
	var (
		report compat.Report
		err    error
	)
	if req.QuizResults != nil {
		res, ok := checkResult(*req.QuizResults)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "quizResults score does not match its answers", nil)
			return
		}
		report, err = h.Analyzer.Analyze(c.Request.Context(), req.ResumeText, req.JobDescription, res)
	} else {
		report, err = h.Analyzer.AnalyzeScore(c.Request.Context(), req.ResumeText, req.JobDescription, req.Score, req.TotalQuestions)
	}
	if err != nil {
		WriteError(c, err, nil)
		return
	}
	respond.OK(c, report)
}

// checkResult bounds the score by the total and, when the questions are
// included, rescores the answers and requires the same score and total.
func checkResult(res quiz.Result) (quiz.Result, bool) {
	if res.Score < 0 || res.TotalQuestions < 0 || res.Score > res.TotalQuestions {
		return quiz.Result{}, false
	}
	if len(res.Questions) == 0 {
		return res, true
	}
	rescored, err := quiz.Score(res.Questions, res.Answers)
	if err != nil || rescored.Score != res.Score || rescored.TotalQuestions != res.TotalQuestions {
		return quiz.Result{}, false
	}
	return rescored, true
}

// skills returns key skills for the job description, plus the resume-side
// breakdown when resume text is supplied.
func (h *AssistHandler) skills(c *gin.Context) {
	var req skillsRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		keys, err := h.Skills.KeySkills(c.Request.Context(), req.JobDescription)
		if err != nil {
			WriteError(c, err, nil)
			return
		}
		respond.OK(c, skills.Insights{KeySkills: keys})
		return
	}
	ins, err := h.Skills.Insights(c.Request.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		WriteError(c, err, nil)
		return
	}
	respond.OK(c, ins)
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request body", nil)
		return false
	}
	return respond.Validate(c, v)
}

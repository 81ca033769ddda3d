package viewer

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"jobfit-backend/internal/compat"
)

const (
	pageMargin  = 15.0
	chartLabelW = 45.0
	chartBarW   = 120.0
	chartRowH   = 7.0
)

// RenderPDF writes the view as an A4 PDF, including the skills bar chart.
func RenderPDF(w io.Writer, v View) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	title := "Compatibility Report"
	if v.FileName != "" {
		title += " - " + v.FileName
	}
	pdf.MultiCell(0, 9, tr(title), "", "L", false)
	if !v.CreatedAt.IsZero() {
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(0, 5, v.CreatedAt.Format("2 Jan 2006 15:04 MST"))
		pdf.Ln(6)
	}
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Quiz score: %d/%d (%d%%)", v.QuizScore, v.QuizTotal, v.QuizPercentage))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Overall score: %d/100 (%s)", v.Score, v.Band))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Skills match: %d%%", v.SkillsMatch))
	pdf.Ln(9)

	if len(v.Skills) > 0 {
		heading(pdf, tr, "Skills Analysis")
		skillsChart(pdf, tr, v.Skills)
	}
	if len(v.Strengths) > 0 {
		heading(pdf, tr, "Strengths")
		bullets(pdf, tr, v.Strengths)
	}
	if len(v.AreasForGrowth) > 0 {
		heading(pdf, tr, "Areas for Growth")
		bullets(pdf, tr, v.AreasForGrowth)
	}
	for _, s := range v.Sections {
		heading(pdf, tr, s.Title)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(compat.StripHTML(s.HTML)), "", "L", false)
		pdf.Ln(3)
	}
	if len(v.QuestionReviews) > 0 {
		heading(pdf, tr, "Quiz Review")
		for i, r := range v.QuestionReviews {
			pdf.SetFont("Arial", "B", 10)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, r.Question)), "", "L", false)
			pdf.SetFont("Arial", "", 10)
			if r.IsCorrect {
				pdf.SetTextColor(22, 120, 60)
				pdf.MultiCell(0, 5, tr("Correct: "+r.Selected), "", "L", false)
			} else {
				pdf.SetTextColor(180, 40, 40)
				pdf.MultiCell(0, 5, tr("Your answer: "+r.Selected+"  |  Correct: "+r.Correct), "", "L", false)
			}
			pdf.SetTextColor(0, 0, 0)
			if r.Explanation != "" {
				pdf.MultiCell(0, 5, tr(r.Explanation), "", "L", false)
			}
			pdf.Ln(2)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr(text))
	pdf.Ln(9)
}

func bullets(pdf *gofpdf.Fpdf, tr func(string) string, items []string) {
	pdf.SetFont("Arial", "", 10)
	for _, it := range items {
		pdf.MultiCell(0, 5, tr("- "+it), "", "L", false)
	}
	pdf.Ln(3)
}

// skillsChart draws relevance (light) behind match (dark) for each skill.
func skillsChart(pdf *gofpdf.Fpdf, tr func(string) string, skills []compat.SkillScore) {
	pdf.SetFont("Arial", "", 9)
	for _, s := range skills {
		_, pageH := pdf.GetPageSize()
		if pdf.GetY()+chartRowH > pageH-pageMargin {
			pdf.AddPage()
		}
		x, y := pdf.GetX(), pdf.GetY()
		pdf.CellFormat(chartLabelW, chartRowH, tr(truncate(s.Skill, 28)), "", 0, "L", false, 0, "")

		pdf.SetFillColor(205, 220, 240)
		pdf.Rect(x+chartLabelW, y+1, chartBarW*float64(s.Relevance)/100, chartRowH-2, "F")
		pdf.SetFillColor(45, 95, 170)
		pdf.Rect(x+chartLabelW, y+2, chartBarW*float64(s.Match)/100, chartRowH-4, "F")

		pdf.SetXY(x+chartLabelW+chartBarW+2, y)
		pdf.CellFormat(0, chartRowH, fmt.Sprintf("%d/%d", s.Match, s.Relevance), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, "Light bar: relevance to the role. Dark bar: candidate match.")
	pdf.Ln(8)
}

package compat

// SkillScore is one row of the skills relevance/match/gap table.
type SkillScore struct {
	Skill     string `json:"skill"`
	Relevance int    `json:"relevance"`
	Match     int    `json:"match"`
	Gap       int    `json:"gap"`
}

// Report is the compatibility report returned by the analyzer.
// Score and SkillsMatchPercentage are reported independently by the model.
type Report struct {
	Summary               string       `json:"summary"`
	Analysis              string       `json:"analysis"`
	Recommendations       string       `json:"recommendations"`
	LearningResources     string       `json:"learningResources"`
	LearningRoadmap       string       `json:"learningRoadmap"`
	SkillsMatchPercentage int          `json:"skillsMatchPercentage"`
	Score                 int          `json:"score"`
	SkillsAnalysis        []SkillScore `json:"skillsAnalysis"`
	Strengths             []string     `json:"strengths"`
	AreasForGrowth        []string     `json:"areasForGrowth"`
}

// HTMLSections lists the narrative sections in display order.
func (r Report) HTMLSections() []Section {
	return []Section{
		{Key: "summary", Title: "Summary", HTML: r.Summary},
		{Key: "analysis", Title: "Detailed Analysis", HTML: r.Analysis},
		{Key: "recommendations", Title: "Recommendations", HTML: r.Recommendations},
		{Key: "learningResources", Title: "Learning Resources", HTML: r.LearningResources},
		{Key: "learningRoadmap", Title: "Learning Roadmap", HTML: r.LearningRoadmap},
	}
}

// Section is a titled HTML narrative block.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

package compat

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// reportSchema checks the types of the fields the analyzer reads. Every
// field is optional; absent values fall back to zero values.
const reportSchema = `{
  "type": "object",
  "properties": {
    "summary":           {"type": ["string", "null"]},
    "analysis":          {"type": ["string", "null"]},
    "recommendations":   {"type": ["string", "null"]},
    "learningResources": {"type": ["string", "null"]},
    "learningRoadmap":   {"type": ["string", "null"]},
    "skillsMatchPercentage": {"type": ["number", "null"]},
    "score":                 {"type": ["number", "null"]},
    "skillsAnalysis": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "skill":     {"type": "string"},
          "relevance": {"type": "number"},
          "match":     {"type": "number"},
          "gap":       {"type": "number"}
        }
      }
    },
    "strengths":      {"type": ["array", "null"], "items": {"type": "string"}},
    "areasForGrowth": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var reportSchemaLoader = gojsonschema.NewStringLoader(reportSchema)

// SchemaError lists the fields whose types did not match.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("analysis response failed validation: %s", strings.Join(e.Problems, "; "))
}

func checkSchema(raw []byte) error {
	result, err := gojsonschema.Validate(reportSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate analysis response: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}
	return &SchemaError{Problems: problems}
}

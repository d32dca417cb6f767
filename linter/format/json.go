package format

import (
	"github.com/goccy/go-json"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonOutput struct {
	Results []jsonResult `json:"results"`
	Summary jsonSummary  `json:"summary"`
}

type jsonResult struct {
	Rule     string       `json:"rule"`
	Category string       `json:"category"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	Location jsonLocation `json:"location"`
	Document string       `json:"document,omitempty"`
}

type jsonLocation struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Pointer string `json:"pointer,omitempty"`
}

type jsonSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Hints    int `json:"hints"`
}

func (f *JSONFormatter) Format(results []error) (string, error) {
	output := jsonOutput{
		Results: make([]jsonResult, 0, len(results)),
	}

	var c counts
	for _, err := range results {
		vErr, ok := asValidationError(err)
		if !ok {
			output.Results = append(output.Results, jsonResult{
				Rule:     "internal",
				Category: "internal",
				Severity: "error",
				Message:  err.Error(),
			})
			c.errors++
			continue
		}

		result := jsonResult{
			Rule:     vErr.Rule,
			Category: ruleCategory(vErr.Rule),
			Severity: vErr.Severity.String(),
			Message:  vErr.GetMessage(),
			Location: jsonLocation{
				Line:   vErr.GetLineNumber(),
				Column: vErr.GetColumnNumber(),
			},
			Document: vErr.DocumentLocation,
		}
		if vErr.Path != nil {
			result.Location.Pointer = vErr.Path.ToJSONPointer().String()
		}

		output.Results = append(output.Results, result)
		c.add(vErr.Severity)
	}

	output.Summary = jsonSummary{
		Total:    len(results),
		Errors:   c.errors,
		Warnings: c.warnings,
		Hints:    c.hints,
	}

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

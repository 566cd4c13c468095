package model

import "encoding/json"

// Problem is owned by the problem repository and is immutable once the
// contest starts.
type Problem struct {
	ID           int               `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Subtitle     string            `json:"subtitle"`
	Description  string            `json:"description"`
	InputFormat  string            `json:"input_format"`
	OutputFormat string            `json:"output_format"`
	Constraints  string            `json:"constraints"`

	// Boilerplate per language. Each entry carries the harness that reads
	// one test case from stdin and prints the canonical result lines, plus
	// the slot where participant code is merged in.
	Boilerplate map[string]string `json:"boilerplate"`

	VisibleTestCases []TestCase `json:"visible_test_cases"`
	HiddenTestCases  []TestCase `json:"hidden_test_cases"`

	// HiddenMain holds reference solution scaffolding per language.
	// Never exposed to participants.
	HiddenMain map[string]string `json:"hidden_main,omitempty"`
}

// TestCase expected values may be a literal string or a JSON list whose
// elements each serialize to one output line, so the raw form is kept and
// normalized at comparison time.
type TestCase struct {
	Input       string          `json:"input"`
	Expected    json.RawMessage `json:"expected"`
	Explanation string          `json:"explanation,omitempty"`
}

// SafeProblem is the participant-facing view with hidden test cases and
// hidden reference fields stripped.
type SafeProblem struct {
	ID               int               `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Subtitle         string            `json:"subtitle"`
	Description      string            `json:"description"`
	InputFormat      string            `json:"input_format"`
	OutputFormat     string            `json:"output_format"`
	Constraints      string            `json:"constraints"`
	Boilerplate      map[string]string `json:"boilerplate"`
	VisibleTestCases []TestCase        `json:"visible_test_cases"`
}

func (p *Problem) Safe() SafeProblem {
	return SafeProblem{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Subtitle:         p.Subtitle,
		Description:      p.Description,
		InputFormat:      p.InputFormat,
		OutputFormat:     p.OutputFormat,
		Constraints:      p.Constraints,
		Boilerplate:      p.Boilerplate,
		VisibleTestCases: p.VisibleTestCases,
	}
}

// AllTestCases returns visible cases followed by hidden ones, the order a
// full submission is graded in.
func (p *Problem) AllTestCases() []TestCase {
	all := make([]TestCase, 0, len(p.VisibleTestCases)+len(p.HiddenTestCases))
	all = append(all, p.VisibleTestCases...)
	all = append(all, p.HiddenTestCases...)
	return all
}

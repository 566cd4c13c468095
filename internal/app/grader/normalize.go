package grader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

// Output comparison works on a canonical line sequence. Program stdout and
// the problem's expected-answer spec both funnel through canonicalize, so
// equality is well-defined: two values match iff their canonical sequences
// are identical.

// ParseOutput converts raw program stdout into canonical lines.
func ParseOutput(stdout string) []string {
	return canonicalize(strings.Split(stdout, "\n"))
}

// NormalizeExpected converts an expected-answer spec into the same canonical
// form. The spec may be a JSON string (possibly multi-line) or a list whose
// elements each become one line. Numbers keep their exact textual form, so
// "1.0" and "1" stay distinct unless the spec wrote them identically.
func NormalizeExpected(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("test case has no expected value: %w", common.ErrConfiguration)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("malformed expected value %q: %w", raw, common.ErrConfiguration)
	}

	switch v := value.(type) {
	case string:
		return canonicalize(strings.Split(v, "\n")), nil
	case []interface{}:
		lines := make([]string, 0, len(v))
		for _, elem := range v {
			line, err := expectedLine(elem)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return canonicalize(lines), nil
	default:
		line, err := expectedLine(value)
		if err != nil {
			return nil, err
		}
		return canonicalize([]string{line}), nil
	}
}

func expectedLine(v interface{}) (string, error) {
	switch e := v.(type) {
	case string:
		return e, nil
	case json.Number:
		return e.String(), nil
	case bool:
		return strconv.FormatBool(e), nil
	default:
		// Nested structures serialize to their compact JSON form.
		b, err := json.Marshal(e)
		if err != nil {
			return "", fmt.Errorf("unsupported expected value: %w", common.ErrConfiguration)
		}
		return string(b), nil
	}
}

// Compare is exact sequence equality of canonical lines; no partial credit.
func Compare(parsed, expected []string) bool {
	if len(parsed) != len(expected) {
		return false
	}
	for i := range parsed {
		if parsed[i] != expected[i] {
			return false
		}
	}
	return true
}

// canonicalize trims each line and drops wholly empty trailing lines.
func canonicalize(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimSpace(line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// BestDiagnostic picks the most actionable hint from an execution result
// when the program produced no comparable output: compiler text first, then
// runtime stderr, then the service's own message. Internal sandbox details
// are never added beyond what the service already reports.
func BestDiagnostic(res model.ExecutionResult) string {
	if s := strings.TrimSpace(res.CompileOutput); s != "" {
		return s
	}
	if s := strings.TrimSpace(res.Stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(res.Message); s != "" {
		return s
	}
	return "(no output — did your function return a value?)"
}

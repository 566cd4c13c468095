package grader_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/app/grader"
	"codeclash/internal/domain/model"
)

func TestParseOutputTrimsAndDropsTrailingBlankLines(t *testing.T) {
	parsed := grader.ParseOutput("  7  \nhello world\t\n\n\n")
	assert.Equal(t, []string{"7", "hello world"}, parsed)
}

func TestParseOutputEmpty(t *testing.T) {
	assert.Empty(t, grader.ParseOutput(""))
	assert.Empty(t, grader.ParseOutput("\n\n  \n"))
}

func TestNormalizeExpectedLiteral(t *testing.T) {
	lines, err := grader.NormalizeExpected(json.RawMessage(`"7"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, lines)
}

func TestNormalizeExpectedMultilineLiteral(t *testing.T) {
	lines, err := grader.NormalizeExpected(json.RawMessage(`"1\n2\n3\n"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, lines)
}

func TestNormalizeExpectedList(t *testing.T) {
	lines, err := grader.NormalizeExpected(json.RawMessage(`[1, 4, 9]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4", "9"}, lines)
}

func TestNormalizeExpectedNumberKeepsTextualForm(t *testing.T) {
	lines, err := grader.NormalizeExpected(json.RawMessage(`[1.0, 1]`))
	require.NoError(t, err)
	// "1.0" and "1" are distinct canonical lines; formatting is not
	// auto-equivalent.
	assert.Equal(t, []string{"1.0", "1"}, lines)
}

func TestNormalizeExpectedMalformed(t *testing.T) {
	_, err := grader.NormalizeExpected(json.RawMessage(`{invalid`))
	assert.Error(t, err)

	_, err = grader.NormalizeExpected(nil)
	assert.Error(t, err)
}

func TestCompareSymmetry(t *testing.T) {
	cases := []struct {
		name     string
		stdout   string
		expected string
		match    bool
	}{
		{"exact", "7", `"7"`, true},
		{"trailing whitespace", "7   \n\n", `"7"`, true},
		{"trailing blank lines in spec", "1\n2", `"1\n2\n\n"`, true},
		{"token mismatch", "8", `"7"`, false},
		{"formatting not equivalent", "1.0", `"1"`, false},
		{"missing line", "1", `"1\n2"`, false},
		{"extra line", "1\n2\n3", `"1\n2"`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expected, err := grader.NormalizeExpected(json.RawMessage(tc.expected))
			require.NoError(t, err)
			assert.Equal(t, tc.match, grader.Compare(grader.ParseOutput(tc.stdout), expected))
		})
	}
}

func TestCompareListAgainstLineOutput(t *testing.T) {
	expected, err := grader.NormalizeExpected(json.RawMessage(`[1, 4, 9]`))
	require.NoError(t, err)
	assert.True(t, grader.Compare(grader.ParseOutput("1\n4\n9\n"), expected))
	assert.False(t, grader.Compare(grader.ParseOutput("1\n4\n8\n"), expected))
}

func TestBestDiagnosticPriority(t *testing.T) {
	res := model.ExecutionResult{
		CompileOutput: "syntax error on line 3",
		Stderr:        "traceback",
		Message:       "exited with signal",
	}
	assert.Equal(t, "syntax error on line 3", grader.BestDiagnostic(res))

	res.CompileOutput = ""
	assert.Equal(t, "traceback", grader.BestDiagnostic(res))

	res.Stderr = "  "
	assert.Equal(t, "exited with signal", grader.BestDiagnostic(res))

	res.Message = ""
	assert.Equal(t, "(no output — did your function return a value?)", grader.BestDiagnostic(res))
}

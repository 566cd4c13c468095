package assembler_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/app/assembler"
	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

func testProblem() *model.Problem {
	return &model.Problem{
		ID: 1,
		Boilerplate: map[string]string{
			"python": "import sys\n\n{{USER_CODE}}\n\nprint(solve(sys.stdin.read()))\n",
			"broken": "no slot here\n",
		},
	}
}

func TestAssembleMergesUserCodeAtSlot(t *testing.T) {
	program, err := assembler.Assemble(testProblem(), "python", "def solve(s):\n    return s")
	require.NoError(t, err)

	assert.Contains(t, program, "def solve(s):")
	assert.Contains(t, program, "print(solve(sys.stdin.read()))")
	assert.NotContains(t, program, assembler.CodeSlot)
}

func TestAssembleMissingBoilerplateIsConfigurationError(t *testing.T) {
	_, err := assembler.Assemble(testProblem(), "java", "class Main {}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestAssembleBoilerplateWithoutSlotIsConfigurationError(t *testing.T) {
	_, err := assembler.Assemble(testProblem(), "broken", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestAssembleDoesNotInterpretUserCode(t *testing.T) {
	// User code is opaque text; even another slot marker inside it must
	// survive untouched.
	program, err := assembler.Assemble(testProblem(), "python", "x = \"{{USER_CODE}}\"")
	require.NoError(t, err)
	assert.Contains(t, program, "x = \"{{USER_CODE}}\"")
}

package problems_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/common"
	"codeclash/internal/problems"
)

const problemSet = `[
  {
    "id": 1,
    "title": "Sum of Two Numbers",
    "description": "Add them.",
    "boilerplate": {"python": "{{USER_CODE}}"},
    "visible_test_cases": [{"input": "3 4", "expected": "7"}],
    "hidden_test_cases": [{"input": "5 6", "expected": "11"}],
    "hidden_main": {"python": "def solve(a, b): return a + b"}
  },
  {
    "id": 2,
    "title": "First N Squares",
    "slug": "squares",
    "boilerplate": {"python": "{{USER_CODE}}"},
    "visible_test_cases": [{"input": "3", "expected": [1, 4, 9]}]
  }
]`

func TestParseAndLookup(t *testing.T) {
	repo, err := problems.Parse([]byte(problemSet))
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count())

	p, err := repo.GetProblem(1)
	require.NoError(t, err)
	assert.Equal(t, "Sum of Two Numbers", p.Title)
	assert.Equal(t, "sum-of-two-numbers", p.Slug, "slug is derived when omitted")

	p2, err := repo.GetProblem(2)
	require.NoError(t, err)
	assert.Equal(t, "squares", p2.Slug, "explicit slug wins")

	_, err = repo.GetProblem(99)
	assert.ErrorIs(t, err, common.ErrProblemNotFound)
}

func TestParseRejectsBadProblemSets(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{nope`},
		{"missing title", `[{"id": 1, "boilerplate": {"python": "x"}}]`},
		{"missing boilerplate", `[{"id": 1, "title": "T"}]`},
		{"duplicate id", `[
			{"id": 1, "title": "A", "boilerplate": {"python": "x"}},
			{"id": 1, "title": "B", "boilerplate": {"python": "x"}}
		]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := problems.Parse([]byte(tc.data))
			assert.ErrorIs(t, err, common.ErrConfiguration)
		})
	}
}

func TestListSafeProblemsStripsHiddenMaterial(t *testing.T) {
	repo, err := problems.Parse([]byte(problemSet))
	require.NoError(t, err)

	safe := repo.ListSafeProblems()
	require.Len(t, safe, 2)

	data, err := json.Marshal(safe)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.NotContains(t, string(data), "5 6")
	assert.Contains(t, string(data), "3 4", "visible cases survive")

	require.Len(t, safe[0].VisibleTestCases, 1)
	assert.Equal(t, "3 4", safe[0].VisibleTestCases[0].Input)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := problems.Load("/nonexistent/problems.json")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

// Package grader is the submission state machine. Per (participant,
// problem) pair it tracks open/attempting/solved state, enforces the sticky
// solved gate, and turns execution results into per-test-case verdicts.
package grader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"codeclash/internal/app/assembler"
	"codeclash/internal/app/judge"
	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
)

// Executor is the blocking execution client boundary. Implementations run
// the program in an external sandbox; an error means the sandbox service
// itself could not be reached, anything that happened inside it comes back
// in the result.
type Executor interface {
	Execute(ctx context.Context, source, language, stdin string) (model.ExecutionResult, error)
}

// ProblemSource is the read-only problem repository collaborator.
type ProblemSource interface {
	GetProblem(id int) (*model.Problem, error)
}

type Engine struct {
	problems ProblemSource
	subs     repository.SubmissionRepository
	exec     Executor
	logger   *slog.Logger

	// One mutex per (participant, problem) pair. The solved-mark check and
	// the resulting mutation must happen under the same lock, otherwise two
	// in-flight submissions can race and double-record a solve or corrupt
	// wrong_attempts. Different pairs proceed fully in parallel.
	locks *xsync.MapOf[string, *sync.Mutex]

	now func() time.Time
}

func NewEngine(problems ProblemSource, subs repository.SubmissionRepository, exec Executor, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		problems: problems,
		subs:     subs,
		exec:     exec,
		logger:   logger,
		locks:    xsync.NewMapOf[string, *sync.Mutex](),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) pairLock(participantID string, problemID int) *sync.Mutex {
	key := fmt.Sprintf("%s/%d", participantID, problemID)
	mu, _ := e.locks.LoadOrStore(key, &sync.Mutex{})
	return mu
}

// Open creates the submission slot for a pair if it does not exist yet.
// Idempotent; never executes code.
func (e *Engine) Open(ctx context.Context, participantID string, problemID int) error {
	if _, err := e.problems.GetProblem(problemID); err != nil {
		return err
	}
	return e.subs.Open(ctx, participantID, problemID, e.now())
}

// Save persists the latest code and language without executing anything and
// without touching attempt counters.
func (e *Engine) Save(ctx context.Context, participantID string, problemID int, language, code string) error {
	if _, err := e.problems.GetProblem(problemID); err != nil {
		return err
	}
	mu := e.pairLock(participantID, problemID)
	mu.Lock()
	defer mu.Unlock()
	return e.subs.SaveCode(ctx, participantID, problemID, language, code, e.now())
}

// Run grades the visible test cases only. It gives iteration feedback and
// records nothing, but the sticky solved gate still applies.
func (e *Engine) Run(ctx context.Context, participantID string, problemID int, language, code string) ([]model.TestResult, error) {
	solved, err := e.subs.IsSolved(ctx, participantID, problemID)
	if err != nil {
		return nil, err
	}
	if solved {
		return nil, common.ErrAlreadySolved
	}

	problem, program, err := e.prepare(problemID, language, code)
	if err != nil {
		return nil, err
	}
	return e.gradeCases(ctx, program, language, problem.VisibleTestCases, true)
}

// Submit grades visible plus hidden test cases and records the outcome.
// The whole check-then-act sequence for the pair runs under its lock, and
// nothing is written until every test case has resolved, so an aborted call
// never leaves a half-updated row.
func (e *Engine) Submit(ctx context.Context, participantID string, problemID int, language, code string, activeSeconds float64) (model.SubmitOutcome, error) {
	mu := e.pairLock(participantID, problemID)
	mu.Lock()
	defer mu.Unlock()

	solved, err := e.subs.IsSolved(ctx, participantID, problemID)
	if err != nil {
		return model.SubmitOutcome{}, err
	}
	if solved {
		return model.SubmitOutcome{}, common.ErrAlreadySolved
	}

	problem, program, err := e.prepare(problemID, language, code)
	if err != nil {
		return model.SubmitOutcome{}, err
	}

	results, err := e.gradeCases(ctx, program, language, problem.AllTestCases(), false)
	if err != nil {
		return model.SubmitOutcome{}, err
	}

	allPassed := true
	for _, r := range results {
		if !r.Passed {
			allPassed = false
			break
		}
	}

	now := e.now()
	if allPassed {
		if err := e.subs.RecordSolve(ctx, participantID, problemID, language, code, activeSeconds, now); err != nil {
			return model.SubmitOutcome{}, err
		}
		e.logger.Info("problem solved",
			"participant_id", participantID, "problem_id", problemID, "active_seconds", activeSeconds)
	} else {
		if err := e.subs.RecordFailure(ctx, participantID, problemID, language, code, now); err != nil {
			return model.SubmitOutcome{}, err
		}
	}

	return model.SubmitOutcome{AllPassed: allPassed, Results: results}, nil
}

func (e *Engine) prepare(problemID int, language, code string) (*model.Problem, string, error) {
	if !judge.Supported(language) {
		return nil, "", fmt.Errorf("%q: %w", language, common.ErrUnsupportedLanguage)
	}
	if strings.TrimSpace(code) == "" {
		return nil, "", fmt.Errorf("code must not be empty: %w", common.ErrValidation)
	}
	problem, err := e.problems.GetProblem(problemID)
	if err != nil {
		return nil, "", err
	}
	program, err := assembler.Assemble(problem, language, code)
	if err != nil {
		return nil, "", err
	}
	return problem, program, nil
}

// gradeCases executes every test case in order, deliberately without
// short-circuiting on the first failure, so participants always see the
// full diagnostic picture. An unreachable execution service aborts the
// whole grading pass instead of being silently graded as all failed.
func (e *Engine) gradeCases(ctx context.Context, program, language string, cases []model.TestCase, withDetail bool) ([]model.TestResult, error) {
	results := make([]model.TestResult, 0, len(cases))
	for i, tc := range cases {
		expected, err := NormalizeExpected(tc.Expected)
		if err != nil {
			return nil, err
		}

		res, err := e.exec.Execute(ctx, program, language, tc.Input)
		if err != nil {
			e.logger.Error("execution failed", "test_case", i, "err", err)
			return nil, err
		}

		parsed := ParseOutput(res.Stdout)
		got := strings.Join(parsed, "\n")
		if len(parsed) == 0 {
			got = BestDiagnostic(res)
		}

		result := model.TestResult{
			Expected: tc.Expected,
			Got:      got,
			Passed:   Compare(parsed, expected),
		}
		if withDetail {
			result.Input = tc.Input
			result.Explanation = tc.Explanation
		}
		results = append(results, result)
	}
	return results, nil
}

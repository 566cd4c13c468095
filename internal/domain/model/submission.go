package model

import (
	"encoding/json"
	"time"
)

// Submission is one row per (participant, problem) pair, not per attempt.
// Once PassedAll is set it is never reset by a later attempt.
type Submission struct {
	ID               string     `json:"id"`
	ParticipantID    string     `json:"participant_id"`
	ProblemID        int        `json:"problem_id"`
	Language         string     `json:"language"`
	Code             string     `json:"code"`
	PassedAll        bool       `json:"passed_all"`
	WrongAttempts    int        `json:"wrong_attempts"`
	FirstOpenedAt    time.Time  `json:"first_opened_at"`
	SolvedAt         *time.Time `json:"solved_at,omitempty"`
	TimeTakenSeconds *float64   `json:"time_taken_seconds,omitempty"`
	LastUpdated      time.Time  `json:"last_updated"`
}

// SubmissionDetail is the admin view of one submission joined with its
// solved mark.
type SubmissionDetail struct {
	Submission
	IsSolved bool `json:"is_solved"`
}

// TestResult is one graded test case in a run/submit response.
type TestResult struct {
	Input       string          `json:"input,omitempty"`
	Expected    json.RawMessage `json:"expected"`
	Got         string          `json:"got"`
	Passed      bool            `json:"passed"`
	Explanation string          `json:"explanation,omitempty"`
}

// SubmitOutcome is the full verdict of one submit call.
type SubmitOutcome struct {
	AllPassed bool         `json:"all_passed"`
	Results   []TestResult `json:"results"`
}

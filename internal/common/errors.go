package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource conflict")
	ErrValidation   = errors.New("validation failed")

	// Grading engine taxonomy.
	ErrAlreadySolved       = errors.New("problem already solved")
	ErrProblemNotFound     = errors.New("problem not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrContestInactive     = errors.New("contest is not active")

	// ErrExecUnavailable means the execution service could not be reached
	// at all. Surfaced as 503 so participants see an explicit outage
	// instead of a silent all-failed verdict.
	ErrExecUnavailable = errors.New("execution service unavailable")

	// ErrConfiguration marks server-side defects such as missing
	// boilerplate for a supported language. Never user-actionable.
	ErrConfiguration = errors.New("server configuration error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProblemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrAlreadySolved), errors.Is(err, ErrContestInactive):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrExecUnavailable):
		return http.StatusServiceUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

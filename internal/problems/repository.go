// Package problems is the read-only problem repository collaborator. The
// problem set is loaded once at startup and treated as immutable for the
// contest's duration, so it is read freely without locking.
package problems

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gosimple/slug"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type Repository struct {
	byID    map[int]*model.Problem
	ordered []*model.Problem
}

// Load reads the problem set from a JSON file. Malformed problem data is a
// server-side defect, not a user error.
func Load(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problems file %s: %w", path, common.ErrConfiguration)
	}
	return Parse(data)
}

func Parse(data []byte) (*Repository, error) {
	var list []*model.Problem
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse problems: %v: %w", err, common.ErrConfiguration)
	}

	repo := &Repository{byID: make(map[int]*model.Problem, len(list)), ordered: list}
	for _, p := range list {
		if p.Title == "" {
			return nil, fmt.Errorf("problem %d has no title: %w", p.ID, common.ErrConfiguration)
		}
		if len(p.Boilerplate) == 0 {
			return nil, fmt.Errorf("problem %d has no boilerplate: %w", p.ID, common.ErrConfiguration)
		}
		if _, dup := repo.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate problem id %d: %w", p.ID, common.ErrConfiguration)
		}
		if p.Slug == "" {
			p.Slug = slug.Make(p.Title)
		}
		repo.byID[p.ID] = p
	}
	return repo, nil
}

func (r *Repository) GetProblem(id int) (*model.Problem, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrProblemNotFound
	}
	return p, nil
}

// ListSafeProblems strips hidden test cases and hidden reference fields.
// Hidden material must never reach a participant-facing response.
func (r *Repository) ListSafeProblems() []model.SafeProblem {
	safe := make([]model.SafeProblem, 0, len(r.ordered))
	for _, p := range r.ordered {
		safe = append(safe, p.Safe())
	}
	return safe
}

func (r *Repository) Count() int { return len(r.ordered) }

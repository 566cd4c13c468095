// Package assembler merges participant code into problem boilerplate to
// produce the program handed to the execution service. User code is opaque
// text; it is never parsed, validated, or executed locally.
package assembler

import (
	"fmt"
	"strings"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

// CodeSlot is the marker inside each boilerplate where participant code is
// spliced in. The merge point is boilerplate-defined, not language-parsed.
const CodeSlot = "{{USER_CODE}}"

// Assemble is a pure function of its inputs. A missing boilerplate entry or
// a boilerplate without the code slot is a server-side defect.
func Assemble(problem *model.Problem, language, userCode string) (string, error) {
	boilerplate, ok := problem.Boilerplate[language]
	if !ok {
		return "", fmt.Errorf("problem %d has no %s boilerplate: %w", problem.ID, language, common.ErrConfiguration)
	}
	if !strings.Contains(boilerplate, CodeSlot) {
		return "", fmt.Errorf("problem %d %s boilerplate has no code slot: %w", problem.ID, language, common.ErrConfiguration)
	}
	return strings.Replace(boilerplate, CodeSlot, userCode, 1), nil
}

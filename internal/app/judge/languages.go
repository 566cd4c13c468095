package judge

import (
	"fmt"

	"codeclash/internal/common"
)

// languageIDs maps the fixed set of contest language identifiers 1:1 to the
// execution service's language-version ids.
var languageIDs = map[string]int{
	"python": 71,
	"cpp":    54,
	"c":      50,
	"java":   62,
}

func Supported(language string) bool {
	_, ok := languageIDs[language]
	return ok
}

func LanguageID(language string) (int, error) {
	id, ok := languageIDs[language]
	if !ok {
		return 0, fmt.Errorf("%q: %w", language, common.ErrUnsupportedLanguage)
	}
	return id, nil
}

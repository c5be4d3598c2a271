package ranking

import (
	"errors"
	"fmt"
)

// ErrEmptyVocabulary is reported when no document in a corpus yields a single
// term after normalization and stop-word removal.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or no words")

// InvalidInputError represents a request that cannot be ranked.
type InvalidInputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// IsInvalidInput reports whether err is, or wraps, an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

package progression

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuestionSet   = errors.New("no questions to score")
	ErrIncompleteAttempt  = errors.New("attempt has unchecked questions")
	ErrAlreadyFinished    = errors.New("attempt already finished")
	ErrNotFinished        = errors.New("attempt not finished")
	ErrAlreadyChecked     = errors.New("question already checked")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrOptionOutOfRange   = errors.New("option index out of range")
)

// ConfigurationError reports a malformed rank table. It is raised while
// loading configuration and must stop the process.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "rank table: " + e.Reason
}

// IncompleteAttemptError is returned by Finish while some questions are
// still unchecked.
type IncompleteAttemptError struct {
	Unchecked int
}

func (e *IncompleteAttemptError) Error() string {
	return fmt.Sprintf("%s: %d remaining", ErrIncompleteAttempt, e.Unchecked)
}

func (e *IncompleteAttemptError) Is(target error) bool {
	return target == ErrIncompleteAttempt
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveAttempt = errors.New("no active attempt")
	ErrNothingToRetry  = errors.New("no unsaved attempt to retry")
)

// PersistenceError wraps a store failure while saving a finished attempt.
// The computed result stays available so the caller can retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

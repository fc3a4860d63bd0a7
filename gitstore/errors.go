// Package gitstore wraps go-git with the operations the result publisher
// needs: opening or cloning the results repository, switching to the
// publishing branch, staging, committing, and force-pushing.
//
// All errors can be checked with errors.Is against the sentinels below.
package gitstore

import (
	"errors"
	"fmt"
)

// ErrAlreadyUpToDate is returned when a fetch or push results in no changes
// because local and remote are already synchronized.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrAuthRequired is returned when an operation needs authentication but no
// credentials were available.
var ErrAuthRequired = errors.New("authentication required")

// ErrNotFastForward is returned when a push cannot be performed as a
// fast-forward and force was not requested.
var ErrNotFastForward = errors.New("not a fast-forward")

// ErrEmptyCommit is returned when a commit is attempted with nothing staged
// and empty commits were not allowed.
var ErrEmptyCommit = errors.New("no changes staged for commit")

// ErrInvalidRef is returned when a reference name or option is malformed.
var ErrInvalidRef = errors.New("invalid reference")

// ErrResolveFailed is returned when a revision cannot be resolved.
var ErrResolveFailed = errors.New("cannot resolve revision")

// WrapError wraps an error with additional context while preserving
// errors.Is checks against the sentinels.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf is WrapError with formatting.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

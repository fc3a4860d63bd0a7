package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a concrete selector names a catalog entry
// that does not exist. Check with errors.Is; the concrete error value is a
// *NotFoundError carrying the missing level and name.
var ErrNotFound = errors.New("catalog entry not found")

// NotFoundError identifies the level and name of a missing catalog entry.
type NotFoundError struct {
	Level Level
	Name  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog entry not found: %s %q", e.Level, e.Name)
}

// Is makes errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

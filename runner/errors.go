package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HarshM0210/Config-Workflow/catalog"
)

// ErrSolverFailed is the sentinel for solver process failures. The concrete
// error value is a *SolverError.
var ErrSolverFailed = errors.New("solver run failed")

// ErrAssetsMissing is returned when a leaf's mesh assets are not reachable.
var ErrAssetsMissing = errors.New("mesh assets not reachable")

// SolverError records the failure of one leaf's solver run. A non-zero
// exit and a zero exit that produced no output files are both solver
// failures; the failure is scoped to the leaf and never aborts siblings.
type SolverError struct {
	Leaf     catalog.LeafJob
	ExitCode int
	Detail   string
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver run failed for %s (exit %d): %s", e.Leaf, e.ExitCode, e.Detail)
}

// Is makes errors.Is(err, ErrSolverFailed) match.
func (e *SolverError) Is(target error) bool {
	return target == ErrSolverFailed
}

// stderrTail returns the last few lines of solver stderr for diagnostics.
func stderrTail(stderr string) string {
	const maxLines = 5
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

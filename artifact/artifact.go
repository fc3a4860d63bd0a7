// Package artifact defines the generated-artifact vocabulary shared by the
// job runner (collection), the publisher (staging), and workspace cleanup
// (deletion): which files in a configuration directory are solver products
// rather than inputs.
package artifact

import (
	"errors"
	"os"
	"path"

	"github.com/gobwas/glob"

	"github.com/HarshM0210/Config-Workflow/fs"
)

// PlotsDir is the subdirectory plot images are gathered into.
const PlotsDir = "plots"

// ConfigFileName is the per-leaf config document materialized by the runner.
const ConfigFileName = "Config.cfg"

// generatedPatterns matches the transient file types a solver run produces
// in its configuration directory. Everything else in the directory is
// treated as pre-existing input.
var generatedPatterns = []string{
	"*.csv",
	"*.vtu",
	"*.dat",
	"*.su2",
	"*.png",
	"*.pdf",
	ConfigFileName,
}

var compiled = func() []glob.Glob {
	globs := make([]glob.Glob, 0, len(generatedPatterns))
	for _, p := range generatedPatterns {
		globs = append(globs, glob.MustCompile(p))
	}
	return globs
}()

// IsGenerated reports whether the base name belongs to the generated
// artifact set.
func IsGenerated(name string) bool {
	for _, g := range compiled {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Set is the collected artifact output of one leaf run. Paths are relative
// to Dir.
type Set struct {
	// Dir is the configuration directory the artifacts live in.
	Dir string
	// Files are the generated files directly under Dir.
	Files []string
	// HasPlots reports whether Dir contains a plots subdirectory.
	HasPlots bool
}

// Collect gathers the generated artifacts directly under dir, plus the
// plots subdirectory when present.
func Collect(fsys *fs.FS, dir string) (*Set, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	set := &Set{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() {
			if entry.Name() == PlotsDir {
				set.HasPlots = true
			}
			continue
		}
		if IsGenerated(entry.Name()) {
			set.Files = append(set.Files, entry.Name())
		}
	}
	return set, nil
}

// Remove deletes the set's files and plots directory from dir, best-effort:
// the first error is returned but a missing file is not an error.
func (s *Set) Remove(fsys *fs.FS) error {
	for _, name := range s.Files {
		if err := fsys.Remove(path.Join(s.Dir, name)); err != nil && !isNotExist(err) {
			return err
		}
	}
	if s.HasPlots {
		if err := fsys.RemoveAll(path.Join(s.Dir, PlotsDir)); err != nil {
			return err
		}
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

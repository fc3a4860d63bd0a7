// Package catalog models the four-level validation-case hierarchy
// (Category / Case / TurbulenceModel / Configuration) and resolves partial
// selectors over it into concrete leaf jobs.
//
// The catalog is a read-only view of a directory tree. It is built by a
// single enumeration pass at resolution start and never re-read mid-batch,
// so a running batch is decoupled from the live state of the checkout.
package catalog

import (
	"path"
	"strings"

	"github.com/HarshM0210/Config-Workflow/fs"
)

// Level identifies the depth of a node in the catalog hierarchy.
type Level int

const (
	LevelCategory Level = iota
	LevelCase
	LevelTurbulenceModel
	LevelConfiguration

	// NumLevels is the depth of the hierarchy.
	NumLevels = 4
)

// String returns a human-readable level name.
func (l Level) String() string {
	switch l {
	case LevelCategory:
		return "category"
	case LevelCase:
		return "case"
	case LevelTurbulenceModel:
		return "turbulence model"
	case LevelConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// configurationPrefix is the required name prefix for leaf directories.
// The match is case-insensitive.
const configurationPrefix = "configuration"

// Node is one directory in the catalog hierarchy. Children keep the
// directory-listing order of the backing filesystem; no sorting is applied.
type Node struct {
	Level    Level
	Name     string
	Children []*Node
}

// Child returns the direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Roots holds the base paths from which leaf job paths are derived.
type Roots struct {
	// Catalog is the root of the validation-case hierarchy.
	Catalog string
	// Assets is the root of the mesh/restart asset hierarchy, laid out in
	// parallel to the catalog and consumed read-only.
	Assets string
	// Results is the root mirroring the destination layout of the results
	// store.
	Results string
}

// Tree is an immutable in-memory snapshot of the catalog hierarchy.
type Tree struct {
	root  *Node
	roots Roots
}

// Load enumerates the four-level hierarchy under roots.Catalog and returns
// an in-memory snapshot. Hidden entries (name prefix ".") are excluded at
// every level, and Configuration-level directories must carry the
// "Configuration" name prefix. A missing catalog root is an error.
func Load(fsys *fs.FS, roots Roots) (*Tree, error) {
	root := &Node{Level: Level(-1), Name: roots.Catalog}
	if err := loadChildren(fsys, roots.Catalog, root, LevelCategory); err != nil {
		return nil, err
	}
	return &Tree{root: root, roots: roots}, nil
}

func loadChildren(fsys *fs.FS, dir string, parent *Node, level Level) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if level == LevelConfiguration && !strings.HasPrefix(strings.ToLower(name), configurationPrefix) {
			continue
		}

		node := &Node{Level: level, Name: name}
		if level < LevelConfiguration {
			if err := loadChildren(fsys, path.Join(dir, name), node, level+1); err != nil {
				return err
			}
		}
		parent.Children = append(parent.Children, node)
	}
	return nil
}

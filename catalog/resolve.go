package catalog

import (
	"context"
	"log/slog"

	slogctx "github.com/veqryn/slog-context"
)

// Resolve expands the selector into the concrete list of leaf jobs
// reachable under it, in catalog enumeration order.
//
// Expansion is uniform across all four levels: a wildcard descends into
// every child, a concrete name into exactly the named child. A concrete
// name missing on a fully concrete ancestry is a fatal *NotFoundError; the
// same miss underneath a wildcard-expanded ancestor is skipped, so an
// All-category sweep for a case that only some categories contain resolves
// to the categories that have it. An expansion that reaches zero leaves is
// a legitimate empty batch, not an error.
func (t *Tree) Resolve(ctx context.Context, sel Selector) ([]LeafJob, error) {
	want := sel.levels()
	leaves := []LeafJob{}

	var expand func(node *Node, level Level, picked [NumLevels]string, underWildcard bool) error
	expand = func(node *Node, level Level, picked [NumLevels]string, underWildcard bool) error {
		if level == NumLevels {
			leaves = append(leaves, newLeafJob(picked, t.roots))
			return nil
		}

		if IsAll(want[level]) {
			for _, child := range node.Children {
				picked[level] = child.Name
				if err := expand(child, level+1, picked, true); err != nil {
					return err
				}
			}
			return nil
		}

		child := node.Child(want[level])
		if child == nil {
			if underWildcard {
				slogctx.FromCtx(ctx).Debug("skipping missing catalog entry under wildcard",
					slog.String("level", level.String()),
					slog.String("name", want[level]),
					slog.String("under", picked[0]))
				return nil
			}
			return &NotFoundError{Level: level, Name: want[level]}
		}
		picked[level] = child.Name
		return expand(child, level+1, picked, underWildcard)
	}

	if err := expand(t.root, LevelCategory, [NumLevels]string{}, false); err != nil {
		return nil, err
	}
	return leaves, nil
}

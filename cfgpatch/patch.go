package cfgpatch

// Override is one key/value substitution.
type Override struct {
	Key   string
	Value string
}

// Overrides is one tier of ordered substitutions. Tier rank is positional:
// defaults first, case-specific second, caller-supplied custom last, so a
// later tier's value for the same key supersedes an earlier tier's.
type Overrides []Override

// Patch applies the tiers in order to a copy of the base document and
// returns the patched copy. Keys absent from the document are silently
// skipped at every tier. The base document is never mutated, so the same
// base can be patched per batch and shared read-only across leaves.
func Patch(base *Document, tiers ...Overrides) *Document {
	doc := base.Clone()
	for _, tier := range tiers {
		for _, o := range tier {
			doc.Set(o.Key, o.Value)
		}
	}
	return doc
}

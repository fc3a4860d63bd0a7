package catalog

import "strings"

// All is the wildcard sentinel. A selector field equal to All (matched
// case-insensitively) expands to every non-hidden child at that level.
const All = "All"

// IsAll reports whether the selector value is the wildcard sentinel.
func IsAll(value string) bool {
	return strings.EqualFold(value, All)
}

// Selector is a partial selection over the four catalog levels. Each field
// is either a concrete directory name or the All sentinel. Author is used
// only for naming published artifacts and branches, never for resolution.
type Selector struct {
	Category        string
	Case            string
	TurbulenceModel string
	Configuration   string
	Author          string
}

// levels returns the selector values in hierarchy order.
func (s Selector) levels() [NumLevels]string {
	return [NumLevels]string{s.Category, s.Case, s.TurbulenceModel, s.Configuration}
}

// RunTarget names the scope of the run for branch naming: the case code
// when the case is concrete, otherwise the category, otherwise "all".
func (s Selector) RunTarget() string {
	switch {
	case !IsAll(s.Case):
		return s.Case
	case !IsAll(s.Category):
		return s.Category
	default:
		return "all"
	}
}

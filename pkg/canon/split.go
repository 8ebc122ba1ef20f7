package canon

import "strings"

// splitComponents splits path on '/' and returns its non-empty components
// followed by rest. Empty components from leading, trailing, or doubled
// slashes are dropped, so "//a/./b" yields ["a", ".", "b"] ahead of rest.
// The rest slice is never modified in place.
func splitComponents(path string, rest []string) []string {
	parts := strings.Split(path, "/")

	run := make([]string, 0, len(parts)+len(rest))
	for _, p := range parts {
		if p != "" {
			run = append(run, p)
		}
	}
	return append(run, rest...)
}

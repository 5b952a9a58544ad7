package stringsx

import "strings"

// FirstNonEmpty returns the first string in vals that is non-empty when trimmed.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// SplitList splits each value on sep, trims the parts and drops empties.
// It flattens inputs such as []string{"doi,url", " abstract "}.
func SplitList(sep string, vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		for _, p := range strings.Split(v, sep) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

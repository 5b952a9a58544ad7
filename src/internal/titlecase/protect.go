package titlecase

import "strings"

// Unwrap strips a surrounding pair of quotes and every brace layer that
// encloses the whole value: `{{Foo}}` and `"{Foo}"` both give `Foo`, while
// `{A} and {B}` is left alone because its first brace closes early.
func Unwrap(raw string) string {
	v := strings.TrimSpace(raw)
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	for enclosed(v) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// enclosed reports whether v starts with '{' whose matching '}' is the last byte.
func enclosed(v string) bool {
	if len(v) < 2 || v[0] != '{' || v[len(v)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(v)-1
			}
		}
	}
	return false
}

// StripBraces drops case-protection braces inside a phrase so its words can
// be re-cased. Escaped braces and groups that start with a LaTeX command
// such as {\em ...} or {\"u} are kept verbatim.
func StripBraces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
		case c == '{' && i+1 < len(s) && s[i+1] == '\\':
			end := groupEnd(s, i)
			b.WriteString(s[i:end])
			i = end - 1
		case c == '{' || c == '}':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// groupEnd returns the offset just past the group opened at s[start].
func groupEnd(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// Protect wraps a phrase in the double braces BibTeX styles leave uncased.
func Protect(phrase string) string { return "{{" + phrase + "}}" }

// Rewrite turns a raw field value into its protected headline form. The
// second result is false when there is nothing to case (an empty value).
// Rewrite is idempotent: Rewrite(Rewrite(v)) == Rewrite(v).
func Rewrite(raw string) (string, bool) {
	phrase := Case(StripBraces(Unwrap(raw)))
	if phrase == "" {
		return raw, false
	}
	return Protect(phrase), true
}

package detector

import (
	"regexp"
	"strings"
)

// pipelinePattern recognises the stream vocabulary of a loop rewritten as a
// pipeline.
var pipelinePattern = regexp.MustCompile(`\.(stream|filter|forEach|collect|map|removeIf)\(`)

// assignmentPattern captures the target and right-hand side of a plain
// assignment statement.
var assignmentPattern = regexp.MustCompile(`^\s*([\w$.]+)\s*=([^=].*?);?\s*$`)

func usesPipeline(text string) bool {
	return pipelinePattern.MatchString(text)
}

// compact removes all whitespace so that layout differences do not affect
// textual comparisons.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// stripParens removes one pair of enclosing parentheses when they wrap the
// whole text.
func stripParens(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}

// negations returns the compacted texts a condition may take when inverted:
// `==` and `!=` swapped, a leading `!` added or removed, or a negated
// parenthesised form.
func negations(cond string) []string {
	c := compact(stripParens(cond))
	if c == "" {
		return nil
	}
	var out []string
	if strings.Contains(c, "==") || strings.Contains(c, "!=") {
		out = append(out, swapEquality(c))
	}
	switch {
	case strings.HasPrefix(c, "!(") && stripParens(c[1:]) != c[1:]:
		out = append(out, compact(stripParens(c[1:])))
	case strings.HasPrefix(c, "!") && !strings.HasPrefix(c, "!="):
		out = append(out, c[1:])
	default:
		out = append(out, "!"+c, "!("+c+")")
	}
	return out
}

// swapEquality exchanges every `==` with `!=` and the other way round.
func swapEquality(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) && s[i+1] == '=' && (i+2 >= len(s) || s[i+2] != '=') {
			switch s[i] {
			case '=':
				if i == 0 || !strings.ContainsRune("=!<>", rune(s[i-1])) {
					b.WriteString("!=")
					i++
					continue
				}
			case '!':
				b.WriteString("==")
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// inverted reports whether after is before with its condition inverted.
func inverted(before, after string) bool {
	target := compact(stripParens(after))
	for _, n := range negations(before) {
		if n == target {
			return true
		}
	}
	return false
}

// containsFragment reports whether text contains fragment verbatim, or with a
// leading `this.` receiver stripped from either side.
func containsFragment(text, fragment string) bool {
	f := compact(fragment)
	if f == "" {
		return false
	}
	t := compact(text)
	if strings.Contains(t, f) {
		return true
	}
	if trimmed := strings.TrimPrefix(f, "this."); trimmed != f && strings.Contains(t, trimmed) {
		return true
	}
	return strings.Contains(strings.ReplaceAll(t, "this.", ""), f)
}

// assignment splits a plain assignment statement into target and right-hand
// side.
func assignment(text string) (target, rhs string, ok bool) {
	m := assignmentPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// returned extracts the expression of a return statement.
func returned(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "return") {
		return ""
	}
	t = strings.TrimSpace(strings.TrimPrefix(t, "return"))
	return strings.TrimSpace(strings.TrimSuffix(t, ";"))
}

// ternaryOn reports whether text contains a conditional expression whose
// predicate is cond.
func ternaryOn(text, cond string) bool {
	t := compact(text)
	c := compact(stripParens(cond))
	if c == "" || !strings.Contains(t, "?") || !strings.Contains(t, ":") {
		return false
	}
	return strings.Contains(t, c+"?") || strings.Contains(t, c+")?")
}

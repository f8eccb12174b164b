package report

import "strings"

// TermSentinel is the raw flag value meaning "no terms requested".
const TermSentinel = "???"

// TermList is an ordered list of terms to check for. A disabled list adds
// no columns at all, which is different from an enabled list of terms.
type TermList struct {
	terms   []string
	enabled bool
}

// NoTerms returns a disabled TermList.
func NoTerms() TermList {
	return TermList{}
}

// Terms returns an enabled TermList holding terms in order.
func Terms(terms ...string) TermList {
	return TermList{terms: append([]string{}, terms...), enabled: true}
}

// ParseTerms splits a comma-delimited flag value into trimmed terms.
// TermSentinel yields a disabled list.
func ParseTerms(raw string) TermList {
	if raw == TermSentinel {
		return NoTerms()
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return TermList{terms: parts, enabled: true}
}

// Enabled reports whether term columns were requested.
func (l TermList) Enabled() bool { return l.enabled }

// Len returns the number of columns the list contributes.
func (l TermList) Len() int {
	if !l.enabled {
		return 0
	}
	return len(l.terms)
}

// Values returns a copy of the terms.
func (l TermList) Values() []string {
	return append([]string{}, l.terms...)
}

// flags returns "1" or "0" per term for whether it occurs in text.
func (l TermList) flags(text string) []string {
	if !l.enabled {
		return nil
	}
	out := make([]string, len(l.terms))
	for i, term := range l.terms {
		out[i] = "0"
		if strings.Contains(text, term) {
			out[i] = "1"
		}
	}
	return out
}

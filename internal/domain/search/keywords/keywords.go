package keywords

import "strings"

// MaxTerms caps the number of terms carried into the filter.
const MaxTerms = 32

var defaultTerms = []string{"レストラン", "食事"}

// Set is an ordered, de-duplicated list of concrete search terms.
type Set struct {
	terms []string
}

// New trims, drops empty entries, and de-duplicates (case-insensitive) preserving order.
func New(terms ...string) Set {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
		if len(out) == MaxTerms {
			break
		}
	}
	return Set{terms: out}
}

// Default returns the generic term set used when nothing concrete is known.
func Default() Set { return New(defaultTerms...) }

// Terms returns a copy of the terms.
func (s Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Len returns the number of terms.
func (s Set) Len() int { return len(s.terms) }

// IsEmpty reports whether the set has no terms.
func (s Set) IsEmpty() bool { return len(s.terms) == 0 }

// OrDefault returns s, or Default when s is empty.
func (s Set) OrDefault() Set {
	if s.IsEmpty() {
		return Default()
	}
	return s
}

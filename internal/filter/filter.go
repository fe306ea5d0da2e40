// Package filter narrows the hit list to the HSPs a user asked for
package filter

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"blastview/internal/domain"
)

// Matcher matches hits against a query string.
// A hit matches when its accession or description contains the query
// (case-insensitive), or when its accession is within MaxDistance edits of it.
type Matcher struct {
	Query       string
	MaxDistance int
}

// New creates a matcher for query
func New(query string, maxDistance int) Matcher {
	return Matcher{Query: strings.TrimSpace(query), MaxDistance: maxDistance}
}

// Active reports whether the matcher filters anything
func (m Matcher) Active() bool {
	return m.Query != ""
}

// Match reports whether hit passes the filter
func (m Matcher) Match(hit *domain.Hit) bool {
	if !m.Active() {
		return true
	}
	q := strings.ToLower(m.Query)
	acc := strings.ToLower(hit.Accession)

	if strings.Contains(acc, q) || strings.Contains(strings.ToLower(hit.Def), q) {
		return true
	}
	if m.MaxDistance > 0 {
		return levenshtein.ComputeDistance(acc, q) <= m.MaxDistance
	}
	return false
}

// Apply returns the HSPs of it whose hit passes the filter, in report order
func (m Matcher) Apply(it *domain.Iteration) []domain.HSPRef {
	var out []domain.HSPRef
	for _, ref := range it.HSPRefs() {
		if m.Match(ref.Hit) {
			out = append(out, ref)
		}
	}
	return out
}

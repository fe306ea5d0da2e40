package domain

// Result represents one parsed BLAST report
type Result struct {
	Source     string // file the result was read from
	Program    string
	Version    string
	Database   string
	QueryID    string
	QueryDef   string
	QueryLen   int
	Iterations []Iteration
}

// Iteration represents one BLAST iteration (one query, or one PSI-BLAST round)
type Iteration struct {
	Num      int
	QueryID  string
	QueryDef string
	QueryLen int
	Hits     []Hit
	Message  string // e.g. "No hits found"
}

// Hit represents one database sequence matched by the query
type Hit struct {
	Num       int
	ID        string
	Def       string
	Accession string
	Len       int
	HSPs      []HSP
}

// HSP represents a single local alignment between query and hit
type HSP struct {
	Num       int // 1-based ordinal within the hit
	BitScore  float64
	Score     int
	EValue    float64
	QueryFrom int
	QueryTo   int
	HitFrom   int
	HitTo     int
	Identity  int
	Positive  int
	Gaps      int
	AlignLen  int
	QSeq      string
	HSeq      string
	Midline   string
}

// HSPRef points at one HSP together with its hit
type HSPRef struct {
	Hit *Hit
	HSP *HSP
}

// IdentityPercent returns the identity as a percentage of the alignment length
func (h HSP) IdentityPercent() float64 {
	if h.AlignLen == 0 {
		return 0
	}
	return float64(h.Identity) * 100 / float64(h.AlignLen)
}

// Iteration returns the iteration at index i, or nil
func (r *Result) Iteration(i int) *Iteration {
	if r == nil || i < 0 || i >= len(r.Iterations) {
		return nil
	}
	return &r.Iterations[i]
}

// HSPRefs flattens the iteration into hit/HSP pairs in report order
func (it *Iteration) HSPRefs() []HSPRef {
	if it == nil {
		return nil
	}
	var refs []HSPRef
	for i := range it.Hits {
		hit := &it.Hits[i]
		for j := range hit.HSPs {
			refs = append(refs, HSPRef{Hit: hit, HSP: &hit.HSPs[j]})
		}
	}
	return refs
}

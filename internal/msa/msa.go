// Package msa lays out the HSPs of one iteration against the query so they
// can be shown as a multiple alignment grid.
package msa

import (
	"fmt"
	"sort"

	"blastview/internal/domain"
)

// RowKind distinguishes real HSP rows from the pseudo-rows
type RowKind int

const (
	RowQuery RowKind = iota
	RowConsensus
	RowHSP
)

const (
	noCoverage = ' '
	unknown    = '.'
)

// Row is one line of the grid
type Row struct {
	Kind      RowKind
	Label     string
	Accession string
	HSPNum    int
	Seq       []byte
}

// HasKey reports whether the row stands for a selectable HSP
func (r Row) HasKey() bool {
	return r.Kind == RowHSP
}

// Layout is the grid for one iteration. Rows[0] is the query and Rows[1]
// the consensus; HSP rows follow in report order.
type Layout struct {
	Width int
	Rows  []Row
}

// Build lays out every HSP of it on query coordinates. Residues inserted
// relative to the query are not shown.
func Build(it *domain.Iteration) Layout {
	if it == nil {
		return Layout{}
	}

	width := it.QueryLen
	refs := it.HSPRefs()
	for _, ref := range refs {
		_, to := span(ref.HSP)
		if to > width {
			width = to
		}
	}

	query := Row{Kind: RowQuery, Label: "query", Seq: filled(width, unknown)}
	rows := make([]Row, 0, len(refs)+2)
	rows = append(rows, query, Row{Kind: RowConsensus, Label: "consensus"})

	for _, ref := range refs {
		row := Row{
			Kind:      RowHSP,
			Label:     fmt.Sprintf("%s/%d", ref.Hit.Accession, ref.HSP.Num),
			Accession: ref.Hit.Accession,
			HSPNum:    ref.HSP.Num,
			Seq:       filled(width, noCoverage),
		}
		place(ref.HSP, query.Seq, row.Seq)
		rows = append(rows, row)
	}

	rows[1].Seq = consensus(width, rows[2:])
	return Layout{Width: width, Rows: rows}
}

func place(h *domain.HSP, query, row []byte) {
	from, _ := span(h)
	pos := from - 1
	n := len(h.QSeq)
	if len(h.HSeq) < n {
		n = len(h.HSeq)
	}
	for c := 0; c < n; c++ {
		q := h.QSeq[c]
		if q == '-' {
			continue
		}
		if pos >= 0 && pos < len(row) {
			row[pos] = h.HSeq[c]
			query[pos] = q
		}
		pos++
	}
}

func consensus(width int, rows []Row) []byte {
	out := filled(width, noCoverage)
	for col := 0; col < width; col++ {
		counts := make(map[byte]int)
		for _, r := range rows {
			b := r.Seq[col]
			if b == noCoverage || b == '-' {
				continue
			}
			counts[b]++
		}
		if len(counts) == 0 {
			continue
		}
		residues := make([]byte, 0, len(counts))
		for b := range counts {
			residues = append(residues, b)
		}
		sort.Slice(residues, func(i, j int) bool {
			if counts[residues[i]] != counts[residues[j]] {
				return counts[residues[i]] > counts[residues[j]]
			}
			return residues[i] < residues[j]
		})
		out[col] = residues[0]
	}
	return out
}

// span returns the 1-based query range of h with from <= to
func span(h *domain.HSP) (int, int) {
	if h.QueryFrom > h.QueryTo {
		return h.QueryTo, h.QueryFrom
	}
	return h.QueryFrom, h.QueryTo
}

func filled(n int, b byte) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = b
	}
	return s
}

// Package adapters binds each native widget family to the window's
// selection bus. Every adapter owns its view's key index and rebuilds it
// wholesale in Load whenever the view's data is swapped.
package adapters

import (
	"blastview/internal/domain"
	"blastview/internal/msa"
	"blastview/internal/selection"
	"blastview/internal/tree"
	"blastview/internal/ui/widgets"
)

// Kinds used in view ids
const (
	KindHitTable  = "hits"
	KindRowHeader = "msa"
	KindTree      = "tree"
	KindDetail    = "detail"
)

// KeyOf returns the selection key of an HSP
func KeyOf(ref domain.HSPRef) selection.HitKey {
	return selection.MakeKey(ref.Hit.Accession, ref.HSP.Num)
}

// HitTable connects the hit table to the bus
type HitTable struct {
	*selection.Adapter[int]
	widget *widgets.HitTable
}

// NewHitTable creates the hit table adapter
func NewHitTable(bus *selection.Bus, w *widgets.HitTable, opts ...selection.AdapterOption) *HitTable {
	return &HitTable{
		Adapter: selection.NewAdapter[int](KindHitTable, bus, w, opts...),
		widget:  w,
	}
}

// Load shows refs in the table and rebuilds the index
func (a *HitTable) Load(refs []domain.HSPRef) {
	a.widget.SetRows(widgets.HitRowsFrom(refs))
	a.Rebuild(HitTableEntries(refs))
}

// HitTableEntries maps each HSP to its table row
func HitTableEntries(refs []domain.HSPRef) []selection.Entry[int] {
	entries := make([]selection.Entry[int], 0, len(refs))
	for i, ref := range refs {
		entries = append(entries, selection.Entry[int]{Key: KeyOf(ref), Handle: i})
	}
	return entries
}

// RowHeader connects the MSA row header to the bus
type RowHeader struct {
	*selection.Adapter[int]
	widget *widgets.RowHeader
}

// NewRowHeader creates the MSA row-header adapter
func NewRowHeader(bus *selection.Bus, w *widgets.RowHeader, opts ...selection.AdapterOption) *RowHeader {
	return &RowHeader{
		Adapter: selection.NewAdapter[int](KindRowHeader, bus, w, opts...),
		widget:  w,
	}
}

// Load shows layout in the grid and rebuilds the index
func (a *RowHeader) Load(layout msa.Layout) {
	a.widget.SetLayout(layout)
	a.Rebuild(RowHeaderEntries(layout))
}

// RowHeaderEntries maps each HSP row to its index. The query and
// consensus pseudo-rows carry no key.
func RowHeaderEntries(layout msa.Layout) []selection.Entry[int] {
	entries := make([]selection.Entry[int], 0, len(layout.Rows))
	for i, row := range layout.Rows {
		if !row.HasKey() {
			continue
		}
		entries = append(entries, selection.Entry[int]{
			Key:    selection.MakeKey(row.Accession, row.HSPNum),
			Handle: i,
		})
	}
	return entries
}

// Tree connects the hit tree to the bus
type Tree struct {
	*selection.Adapter[*tree.Node]
	widget *widgets.TreeView
}

// NewTree creates the tree adapter
func NewTree(bus *selection.Bus, w *widgets.TreeView, opts ...selection.AdapterOption) *Tree {
	return &Tree{
		Adapter: selection.NewAdapter[*tree.Node](KindTree, bus, w, opts...),
		widget:  w,
	}
}

// Load shows root in the tree and rebuilds the index
func (a *Tree) Load(root *tree.Node) {
	a.widget.SetRoot(root)
	a.Rebuild(TreeEntries(root))
}

// TreeEntries maps each HSP leaf to its node. Inner nodes carry no key.
func TreeEntries(root *tree.Node) []selection.Entry[*tree.Node] {
	if root == nil {
		return nil
	}
	leaves := root.Leaves()
	entries := make([]selection.Entry[*tree.Node], 0, len(leaves))
	for _, n := range leaves {
		entries = append(entries, selection.Entry[*tree.Node]{
			Key:    selection.MakeKey(n.Accession, n.HSPNum),
			Handle: n,
		})
	}
	return entries
}

// Detail connects the single-HSP detail view to the bus
type Detail struct {
	*selection.Adapter[domain.HSPRef]
	widget *widgets.DetailView
}

// NewDetail creates the detail adapter. The detail view can show one HSP,
// so the adapter is single-valued unless the caller passes its own options.
func NewDetail(bus *selection.Bus, w *widgets.DetailView, opts ...selection.AdapterOption) *Detail {
	if len(opts) == 0 {
		opts = []selection.AdapterOption{selection.SingleValued()}
	}
	return &Detail{
		Adapter: selection.NewAdapter[domain.HSPRef](KindDetail, bus, w, opts...),
		widget:  w,
	}
}

// Load resets the view and indexes every HSP it may be asked to show
func (a *Detail) Load(refs []domain.HSPRef) {
	a.widget.Reset()
	a.Rebuild(DetailEntries(refs))
}

// DetailEntries maps each HSP key to the HSP itself
func DetailEntries(refs []domain.HSPRef) []selection.Entry[domain.HSPRef] {
	entries := make([]selection.Entry[domain.HSPRef], 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, selection.Entry[domain.HSPRef]{Key: KeyOf(ref), Handle: ref})
	}
	return entries
}

// Package tree builds the hit tree shown next to the alignment. Hits are
// grouped under the query; each HSP is a leaf. No clustering is done.
package tree

import (
	"fmt"

	"blastview/internal/domain"
)

// Node is one node of the hit tree. Only HSP leaves carry an accession.
type Node struct {
	Label     string
	Accession string
	HSPNum    int
	Parent    *Node
	Children  []*Node
}

// IsLeaf reports whether n stands for a single HSP
func (n *Node) IsLeaf() bool {
	return n.HSPNum > 0
}

// Depth returns the number of ancestors of n
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Ancestors returns the chain from the root down to n's parent
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		chain = append([]*Node{p}, chain...)
	}
	return chain
}

// Walk visits n and its descendants depth first
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns every HSP leaf under n in order
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(c *Node) {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
	})
	return leaves
}

// Build returns the tree for it, or nil when there is nothing to show
func Build(it *domain.Iteration) *Node {
	if it == nil {
		return nil
	}

	label := it.QueryDef
	if label == "" {
		label = it.QueryID
	}
	root := &Node{Label: label}

	for i := range it.Hits {
		hit := &it.Hits[i]
		hn := &Node{Label: hit.Accession, Parent: root}
		if hit.Def != "" {
			hn.Label = fmt.Sprintf("%s %s", hit.Accession, hit.Def)
		}
		for j := range hit.HSPs {
			hsp := &hit.HSPs[j]
			hn.Children = append(hn.Children, &Node{
				Label:     fmt.Sprintf("HSP %d  e=%.2g", hsp.Num, hsp.EValue),
				Accession: hit.Accession,
				HSPNum:    hsp.Num,
				Parent:    hn,
			})
		}
		root.Children = append(root.Children, hn)
	}

	return root
}

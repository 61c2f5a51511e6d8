// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/sebwouters/cmap/internal/morton"
)

// insert routes p from the root to its leaf and merges, appends or
// splits. Returns 1 if the map grew by one pair, 0 if p was merged into
// an existing pair.
//
// The descent marks every visited child slot occupied: whatever happens
// at the leaf, the subtree holds p.coord afterwards.
func (m *Map[C, V]) insert(p pair[C, V]) int {
	n := m.root
	for {
		if !n.isLeaf() {
			idx := n.childIndex(p.coord)
			n.occupied.Set(uint(idx))
			n = n.children[idx]
			continue
		}

		// pairs stay sorted by Morton code so leaf order is trie
		// iteration order
		at := len(n.pairs)
		for i := range n.pairs {
			c := morton.Compare(n.pairs[i].coord, p.coord)
			if c == 0 {
				m.mergeInto(&n.pairs[i].val, p.val)
				return 0
			}
			if c > 0 {
				at = i
				break
			}
		}

		if len(n.pairs) < m.fanout {
			n.pairs = slices.Insert(n.pairs, at, p)
			return 1
		}

		// overflow, split and retry against the routed child. The new
		// leaves sit one level lower, the loop terminates because a
		// level-0 leaf can receive at most 2^D distinct coordinates.
		m.split(n)
	}
}

// split converts the over-capacity leaf n into an internal node with
// 1<<dim fresh child leaves one level lower and routes every stored
// pair into its child.
func (m *Map[C, V]) split(n *node[C, V]) {
	if n.level == 0 {
		panic("cmap: logic error, leaf overflow at level 0")
	}

	children := make([]*node[C, V], m.fanout)
	occupied := bitset.New(uint(m.fanout))
	childLevel := n.level - 1

	for i := range children {
		children[i] = &node[C, V]{parent: n, level: childLevel}
	}

	// n is still tagged leaf here, childIndex routes with n.level
	for _, p := range n.pairs {
		idx := n.childIndex(p.coord)
		child := children[idx]
		child.pairs = append(child.pairs, p)
		occupied.Set(uint(idx))
	}

	n.pairs = nil
	n.children = children
	n.occupied = occupied
}

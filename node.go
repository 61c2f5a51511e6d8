// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"
)

// pair is one coordinate/value entry in a leaf. The coord slice is owned
// by the tree.
type pair[C constraints.Unsigned, V any] struct {
	coord []C
	val   V
}

// node is a level node in the 2^D-ary trie.
//
// A node is either a leaf holding an ordered sequence of pairs or an
// internal node holding exactly 2^D children, never both. The tag is the
// children slice: children == nil means leaf. A leaf's pairs slice may
// be nil or empty, both mean an empty leaf.
//
// level is the bit position, counting from the most significant bit of
// the coordinate scalar down to 0, that this node's children test to
// route coordinates. Every node carries a level, also leaves, so the
// position stays meaningful after future splits. A global resize
// decrements the level of every node by one.
//
// parent is purely navigational, it never manages lifetime. The children
// slice is allocated once at split time and never reallocated, so parent
// pointers held by cursors stay valid while siblings mutate.
//
// occupied tracks, for internal nodes, which child slots lead to a
// non-empty subtree. It serves the sibling scans of the cursor protocol,
// bit i is set iff children[i] holds at least one pair somewhere below.
type node[C constraints.Unsigned, V any] struct {
	parent   *node[C, V]
	pairs    []pair[C, V]   // leaf payload
	children []*node[C, V]  // 1<<dim slots
	occupied *bitset.BitSet // internal nodes only
	level    uint8
}

// isLeaf, the leaf-xor-children tag.
func (n *node[C, V]) isLeaf() bool {
	return n.children == nil
}

// childIndex packs bit n.level of every axis, axis 0 first, into a child
// slot in [0, 1<<dim). This defines the canonical child order and
// therefore the iteration order of the whole map.
func (n *node[C, V]) childIndex(coord []C) int {
	idx := 0
	for _, c := range coord {
		idx = idx<<1 | int((c>>n.level)&1)
	}
	return idx
}

// leafFor descends from the root to the leaf that coord routes to.
func (m *Map[C, V]) leafFor(coord []C) *node[C, V] {
	n := m.root
	for !n.isLeaf() {
		n = n.children[n.childIndex(coord)]
	}
	return n
}

// subtreeEmpty reports whether no pair is stored in or below n.
// For internal nodes this is just the occupancy bitset, maintained by
// the insert and erase paths.
func (n *node[C, V]) subtreeEmpty() bool {
	if n.isLeaf() {
		return len(n.pairs) == 0
	}
	return n.occupied.None()
}

// slot returns the index of child among n's children.
func (n *node[C, V]) slot(child *node[C, V]) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	panic("cmap: logic error, node not found among parent's children")
}

// leftmostLeaf returns the first non-empty leaf below n in child order,
// or n itself if n is a leaf. Must not be called on an empty subtree.
func leftmostLeaf[C constraints.Unsigned, V any](n *node[C, V]) *node[C, V] {
	for !n.isLeaf() {
		idx, ok := n.occupied.NextSet(0)
		if !ok {
			panic("cmap: logic error, internal node with empty occupancy")
		}
		n = n.children[idx]
	}
	return n
}

// rightmostLeaf, the mirror of leftmostLeaf.
func rightmostLeaf[C constraints.Unsigned, V any](n *node[C, V]) *node[C, V] {
	for !n.isLeaf() {
		idx, ok := prevSet(n.occupied, len(n.children)-1)
		if !ok {
			panic("cmap: logic error, internal node with empty occupancy")
		}
		n = n.children[idx]
	}
	return n
}

// prevSet scans the bitset downwards from i for the highest set bit,
// the counterpart of bitset.NextSet. The scan is bounded by the fanout.
func prevSet(b *bitset.BitSet, i int) (int, bool) {
	for ; i >= 0; i-- {
		if b.Test(uint(i)) {
			return i, true
		}
	}
	return 0, false
}

// countRec recounts the pairs in the subtree below n.
func (n *node[C, V]) countRec() int {
	if n.isLeaf() {
		return len(n.pairs)
	}
	count := 0
	for _, child := range n.children {
		count += child.countRec()
	}
	return count
}

// collectRec appends all pairs below n to dst in child order, the
// iteration order of the map.
func (n *node[C, V]) collectRec(dst []pair[C, V]) []pair[C, V] {
	if n.isLeaf() {
		return append(dst, n.pairs...)
	}
	for _, child := range n.children {
		dst = child.collectRec(dst)
	}
	return dst
}

// nodesRec counts the nodes in the subtree below n, including n.
func (n *node[C, V]) nodesRec() int {
	count := 1
	for _, child := range n.children {
		count += child.nodesRec()
	}
	return count
}

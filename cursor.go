// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Cursor points at one coordinate/value pair. The zero Cursor is the end
// sentinel on both sides of the map.
//
// A cursor is stateless-resumable: it holds only a leaf reference and a
// position and navigates via parent back-references, so advancing never
// touches map state. Any mutation of the map invalidates all outstanding
// cursors; node identity and pair positions change under split, prune
// and resize.
type Cursor[C constraints.Unsigned, V any] struct {
	n *node[C, V]
	i int
}

// Valid reports whether the cursor points at a pair.
func (c Cursor[C, V]) Valid() bool { return c.n != nil }

// Coord returns a copy of the coordinate at the cursor.
func (c Cursor[C, V]) Coord() []C {
	return slices.Clone(c.n.pairs[c.i].coord)
}

// Value returns the value at the cursor.
func (c Cursor[C, V]) Value() V {
	return c.n.pairs[c.i].val
}

// Ref returns a pointer to the value at the cursor for in-place
// mutation. Like the cursor itself, the pointer is invalidated by the
// next mutating map operation.
func (c Cursor[C, V]) Ref() *V {
	return &c.n.pairs[c.i].val
}

// Next advances the cursor to the following pair in trie order and
// reports whether one exists. Past the last pair the cursor becomes the
// end sentinel.
func (c *Cursor[C, V]) Next() bool {
	if c.n == nil {
		return false
	}

	if c.i+1 < len(c.n.pairs) {
		c.i++
		return true
	}

	c.n = nextLeaf(c.n)
	c.i = 0
	return c.n != nil
}

// Prev moves the cursor to the preceding pair in trie order, the mirror
// of Next.
func (c *Cursor[C, V]) Prev() bool {
	if c.n == nil {
		return false
	}

	if c.i > 0 {
		c.i--
		return true
	}

	c.n = prevLeaf(c.n)
	if c.n == nil {
		return false
	}
	c.i = len(c.n.pairs) - 1
	return true
}

// nextLeaf ascends via parent back-references, scanning later siblings
// for the first non-empty subtree and descending into its leftmost
// non-empty leaf. Reaching past the root yields nil, the end sentinel.
func nextLeaf[C constraints.Unsigned, V any](n *node[C, V]) *node[C, V] {
	for p := n.parent; p != nil; n, p = p, p.parent {
		if idx, ok := p.occupied.NextSet(uint(p.slot(n)) + 1); ok {
			return leftmostLeaf(p.children[idx])
		}
	}
	return nil
}

// prevLeaf, the mirror of nextLeaf: earlier siblings, rightmost descent.
func prevLeaf[C constraints.Unsigned, V any](n *node[C, V]) *node[C, V] {
	for p := n.parent; p != nil; n, p = p, p.parent {
		if idx, ok := prevSet(p.occupied, p.slot(n)-1); ok {
			return rightmostLeaf(p.children[idx])
		}
	}
	return nil
}

// Front returns a cursor at the first pair in trie order, or the end
// sentinel if the map is empty.
func (m *Map[C, V]) Front() Cursor[C, V] {
	if m.size == 0 {
		return Cursor[C, V]{}
	}
	return Cursor[C, V]{n: leftmostLeaf(m.root)}
}

// Back returns a cursor at the last pair in trie order, or the end
// sentinel if the map is empty.
func (m *Map[C, V]) Back() Cursor[C, V] {
	if m.size == 0 {
		return Cursor[C, V]{}
	}
	n := rightmostLeaf(m.root)
	return Cursor[C, V]{n: n, i: len(n.pairs) - 1}
}

// Find returns a cursor at coord, or the end sentinel if coord is not in
// the map. Find does not mutate the map.
func (m *Map[C, V]) Find(coord []C) Cursor[C, V] {
	m.checkCoord(coord)

	n := m.leafFor(coord)
	for i := range n.pairs {
		if slices.Equal(n.pairs[i].coord, coord) {
			return Cursor[C, V]{n: n, i: i}
		}
	}
	return Cursor[C, V]{}
}

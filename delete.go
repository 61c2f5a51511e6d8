// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import "slices"

// Delete removes coord from the map and reports whether it was present.
// After a removal the tree is pruned: any subtree whose remaining
// element count fits into one leaf collapses.
func (m *Map[C, V]) Delete(coord []C) bool {
	m.checkCoord(coord)

	if !m.deleteNoPrune(coord) {
		return false
	}
	m.prune(m.root)
	return true
}

// DeleteAt removes the pair the cursor points at and reports whether a
// pair was removed. The cursor must belong to this map; it is
// invalidated, as is every other outstanding cursor.
func (m *Map[C, V]) DeleteAt(cur Cursor[C, V]) bool {
	if cur.n == nil || !cur.n.isLeaf() || cur.i >= len(cur.n.pairs) {
		return false
	}

	m.removePair(cur.n, cur.i)
	m.prune(m.root)
	return true
}

// DeleteRange removes the half-open run of pairs [first, last) in
// forward iteration order and returns the number of pairs removed. The
// run may span several leaves. An invalid last cursor means "through the
// end of the map". first must not come after last.
//
// The tree is pruned once, after the whole run is removed.
func (m *Map[C, V]) DeleteRange(first, last Cursor[C, V]) int {
	if first.n == nil {
		return 0
	}

	// collect the coordinates first, removing while walking would
	// invalidate the cursor
	var coords [][]C
	for cur := first; cur.n != nil; cur.Next() {
		if cur.n == last.n && cur.i == last.i {
			break
		}
		coords = append(coords, slices.Clone(cur.n.pairs[cur.i].coord))
	}

	removed := 0
	for _, coord := range coords {
		if m.deleteNoPrune(coord) {
			removed++
		}
	}

	if removed > 0 {
		m.prune(m.root)
	}
	return removed
}

// deleteNoPrune removes coord, maintaining size and occupancy but
// leaving the tree shape to the caller.
func (m *Map[C, V]) deleteNoPrune(coord []C) bool {
	n := m.leafFor(coord)
	for i := range n.pairs {
		if slices.Equal(n.pairs[i].coord, coord) {
			m.removePair(n, i)
			return true
		}
	}
	return false
}

// removePair deletes the pair at index i from leaf n and clears the
// occupancy bits of emptied ancestors.
func (m *Map[C, V]) removePair(n *node[C, V], i int) {
	n.pairs = slices.Delete(n.pairs, i, i+1)
	m.size--

	// a subtree that ran empty disappears from its ancestors' sibling
	// scans
	for child := n; child.parent != nil && child.subtreeEmpty(); child = child.parent {
		child.parent.occupied.Clear(uint(child.parent.slot(child)))
	}
}

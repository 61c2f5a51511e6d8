// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

// All may be used in a for/range loop to iterate through all pairs in
// trie order, the axis-major Morton ordering of the coordinate space.
//
// The yielded coord slice is the tree's own storage and must not be
// modified or retained. Pairs must not be inserted or deleted during
// iteration, value updates via [Map.Update] or [Cursor.Ref] are
// permitted.
//
// If the yield function returns false, the iteration ends prematurely.
func (m *Map[C, V]) All(yield func(coord []C, val V) bool) {
	_ = m.root.allRec(yield)
}

// Backward is like [Map.All] but iterates in reverse trie order.
func (m *Map[C, V]) Backward(yield func(coord []C, val V) bool) {
	_ = m.root.backwardRec(yield)
}

// allRec runs the trie recursively in child order. A false return
// propagates the premature end of the yield.
func (n *node[C, V]) allRec(yield func([]C, V) bool) bool {
	if n.isLeaf() {
		for i := range n.pairs {
			if !yield(n.pairs[i].coord, n.pairs[i].val) {
				return false
			}
		}
		return true
	}

	for _, child := range n.children {
		if !child.allRec(yield) {
			return false
		}
	}
	return true
}

// backwardRec, the mirror of allRec.
func (n *node[C, V]) backwardRec(yield func([]C, V) bool) bool {
	if n.isLeaf() {
		for i := len(n.pairs) - 1; i >= 0; i-- {
			if !yield(n.pairs[i].coord, n.pairs[i].val) {
				return false
			}
		}
		return true
	}

	for i := len(n.children) - 1; i >= 0; i-- {
		if !n.children[i].backwardRec(yield) {
			return false
		}
	}
	return true
}

// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

// prune collapses the subtree below n back into a single leaf if its
// total element count fits into one, the structural inverse of split.
// Otherwise it recurses into each child independently. Once a subtree
// collapses, its former descendants are not visited again.
//
// Runs implicitly after every erase and on demand via the public Prune.
func (m *Map[C, V]) prune(n *node[C, V]) {
	if n.isLeaf() {
		return
	}

	if count := n.countRec(); count <= m.fanout {
		pairs := make([]pair[C, V], 0, count)
		pairs = n.collectRec(pairs)

		n.pairs = pairs
		n.children = nil
		n.occupied = nil
		return
	}

	for _, child := range n.children {
		m.prune(child)
	}
}

// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// coarsen advances the subtree below n by exactly one bit of coarsening
// and returns the number of pairs removed by merging. Called once per
// public Resize, bottom-up by recursion.
//
// Leaves shift their stored coordinates and merge in-leaf duplicates.
// An internal node at level 1 has leaf children at level 0 whose single
// remaining distinguishing bit collapses, so every child folds into at
// most one merged entry and the node becomes a leaf again. Internal
// nodes above level 1 keep their shape and recurse.
//
// Every node, also an empty leaf, ends one level lower.
func (m *Map[C, V]) coarsen(n *node[C, V]) int {
	if n.level == 0 {
		panic("cmap: logic error, resize at level 0")
	}

	removed := 0

	switch {
	case n.isLeaf():
		for i := range n.pairs {
			shiftCoord(n.pairs[i].coord)
		}
		removed = m.dedupe(n)

	case n.level == 1:
		pairs := make([]pair[C, V], 0, len(n.children))

		for _, child := range n.children {
			if !child.isLeaf() {
				panic("cmap: logic error, internal node below level 1")
			}
			if len(child.pairs) == 0 {
				continue
			}

			// the whole child leaf folds into its first pair
			target := child.pairs[0]
			shiftCoord(target.coord)
			for i := 1; i < len(child.pairs); i++ {
				m.mergeInto(&target.val, child.pairs[i].val)
				removed++
			}
			pairs = append(pairs, target)
		}

		n.pairs = pairs
		n.children = nil
		n.occupied = nil

	default:
		for _, child := range n.children {
			removed += m.coarsen(child)
		}
	}

	n.level--
	return removed
}

// dedupe merges duplicate coordinates within the leaf n after its
// coordinates have been shifted. Single stable partition pass: each pair
// in turn becomes the merge target, every later pair with an equal
// coordinate is folded into it and the sequence compacts in place.
// Quadratic comparisons, but a leaf holds at most 2^D pairs.
func (m *Map[C, V]) dedupe(n *node[C, V]) int {
	removed := 0
	pairs := n.pairs

	for t := 0; t < len(pairs); t++ {
		keep := t + 1
		for i := t + 1; i < len(pairs); i++ {
			if slices.Equal(pairs[t].coord, pairs[i].coord) {
				m.mergeInto(&pairs[t].val, pairs[i].val)
				removed++
			} else {
				pairs[keep] = pairs[i]
				keep++
			}
		}
		pairs = pairs[:keep]
	}

	n.pairs = pairs
	return removed
}

// shiftCoord divides every axis by two.
func shiftCoord[C constraints.Unsigned](coord []C) {
	for i := range coord {
		coord[i] >>= 1
	}
}

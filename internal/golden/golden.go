// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

// Package golden implements a deliberately simple reference coordinate
// map on top of a generic ordered map (google/btree) keyed by the Morton
// code of the coordinate. It mirrors the public contract of the cmap
// tree engine and is driven with identical inputs in differential tests:
// sizes, contents and iteration order must agree.
package golden

import (
	"slices"

	"github.com/google/btree"
	"golang.org/x/exp/constraints"

	"github.com/sebwouters/cmap/internal/morton"
)

// entry is one coordinate/value pair, ordered by its Morton code.
type entry[C constraints.Unsigned, V any] struct {
	code  []C
	coord []C
	val   V
}

// Map is the ordered-map baseline with payload V and dim-dimensional
// coordinates of scalar type C.
type Map[C constraints.Unsigned, V any] struct {
	tree  *btree.BTreeG[entry[C, V]]
	merge func(existing *V, incoming V)

	dim        int
	numResizes int
}

// New returns an empty baseline map, the counterpart of cmap.New.
func New[C constraints.Unsigned, V any](dim int, merge func(*V, V)) *Map[C, V] {
	less := func(a, b entry[C, V]) bool {
		return slices.Compare(a.code, b.code) < 0
	}
	return &Map[C, V]{
		tree:  btree.NewG(2, less),
		merge: merge,
		dim:   dim,
	}
}

func (m *Map[C, V]) mergeInto(existing *V, incoming V) {
	if m.merge != nil {
		m.merge(existing, incoming)
		return
	}
	*existing = incoming
}

// Insert adds coord with value val, merging on collision.
func (m *Map[C, V]) Insert(coord []C, val V) {
	key := entry[C, V]{code: morton.Interleave(coord)}

	if old, ok := m.tree.Get(key); ok {
		m.mergeInto(&old.val, val)
		m.tree.ReplaceOrInsert(old)
		return
	}

	key.coord = slices.Clone(coord)
	key.val = val
	m.tree.ReplaceOrInsert(key)
}

// Get returns the value at coord and whether it is present.
func (m *Map[C, V]) Get(coord []C) (val V, ok bool) {
	e, ok := m.tree.Get(entry[C, V]{code: morton.Interleave(coord)})
	if !ok {
		return val, false
	}
	return e.val, true
}

// Delete removes coord and reports whether it was present.
func (m *Map[C, V]) Delete(coord []C) bool {
	_, ok := m.tree.Delete(entry[C, V]{code: morton.Interleave(coord)})
	return ok
}

// Resize coarsens the map by one bit. Shifting the Morton code is
// order-preserving, so colliding entries are adjacent in the ascend and
// merge into the running current entry, first pair wins as merge target.
func (m *Map[C, V]) Resize() {
	m.numResizes++

	if m.tree.Len() == 0 {
		return
	}

	less := func(a, b entry[C, V]) bool {
		return slices.Compare(a.code, b.code) < 0
	}
	next := btree.NewG(2, less)

	var current entry[C, V]
	first := true

	m.tree.Ascend(func(e entry[C, V]) bool {
		morton.ShiftRight(e.code)
		for i := range e.coord {
			e.coord[i] >>= 1
		}

		switch {
		case first:
			current = e
			first = false
		case slices.Compare(current.code, e.code) == 0:
			m.mergeInto(&current.val, e.val)
		default:
			next.ReplaceOrInsert(current)
			current = e
		}
		return true
	})

	next.ReplaceOrInsert(current)
	m.tree = next
}

// All iterates over all pairs in Morton order.
func (m *Map[C, V]) All(yield func(coord []C, val V) bool) {
	m.tree.Ascend(func(e entry[C, V]) bool {
		return yield(e.coord, e.val)
	})
}

// Size returns the number of distinct coordinates.
func (m *Map[C, V]) Size() int { return m.tree.Len() }

// NumResizes returns the number of coarsening passes so far.
func (m *Map[C, V]) NumResizes() int { return m.numResizes }

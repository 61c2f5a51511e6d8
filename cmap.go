// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"fmt"
	"math/bits"
	"slices"

	"golang.org/x/exp/constraints"
)

// maxDim bounds the number of axes, the fanout 1<<maxDim must fit the
// child index of a node.
const maxDim = 8

// MergeFunc combines two values stored under the same coordinate. It is
// called on coordinate collisions during Insert and Emplace and for every
// collision produced by a coarsening pass. The incoming value is folded
// into existing in place.
//
// During a single Resize the combinator may be called repeatedly and in
// unspecified pairwise order, it must tolerate that.
type MergeFunc[V any] func(existing *V, incoming V)

// Map is a coordinate map with payload V, keyed by dim-dimensional
// coordinates of unsigned scalar type C.
//
// Map must be created with New. It is not safe for concurrent use.
type Map[C constraints.Unsigned, V any] struct {
	root  *node[C, V]
	merge MergeFunc[V]

	dim    int // number of axes, 1..maxDim
	fanout int // 1 << dim, children per node and pairs per leaf
	width  int // bits per coordinate scalar

	size       int
	numResizes int
}

// New returns an empty coordinate map with dim axes and the given merge
// combinator. New panics if dim is out of range [1, 8].
//
// A nil merge falls back to overwrite semantics: on a coordinate
// collision the incoming value replaces the stored one.
func New[C constraints.Unsigned, V any](dim int, merge MergeFunc[V]) *Map[C, V] {
	if dim < 1 || dim > maxDim {
		panic(fmt.Sprintf("cmap: dimension %d out of range [1, %d]", dim, maxDim))
	}

	w := scalarWidth[C]()

	m := &Map[C, V]{
		merge:  merge,
		dim:    dim,
		fanout: 1 << dim,
		width:  w,
	}
	m.root = &node[C, V]{level: uint8(w - 1)}

	return m
}

// scalarWidth, bit width of the unsigned scalar type C.
func scalarWidth[C constraints.Unsigned]() int {
	return bits.Len64(uint64(^C(0)))
}

// checkCoord, the number of axes is fixed at construction.
func (m *Map[C, V]) checkCoord(coord []C) {
	if len(coord) != m.dim {
		panic(fmt.Sprintf("cmap: coordinate has %d axes, map has %d", len(coord), m.dim))
	}
}

// mergeInto applies the merge combinator, or overwrites if none was given.
func (m *Map[C, V]) mergeInto(existing *V, incoming V) {
	if m.merge != nil {
		m.merge(existing, incoming)
		return
	}
	*existing = incoming
}

// Insert adds coord with value val to the map. If coord is already
// present, val is merged into the stored value and the size does not
// grow. The coord slice is copied, the caller keeps ownership.
func (m *Map[C, V]) Insert(coord []C, val V) {
	m.checkCoord(coord)
	m.size += m.insert(pair[C, V]{coord: slices.Clone(coord), val: val})
}

// Emplace adds coord with the value returned by build. The contract is
// identical to [Map.Insert]; build is evaluated exactly once, also on
// the merge path.
func (m *Map[C, V]) Emplace(coord []C, build func() V) {
	m.checkCoord(coord)
	m.size += m.insert(pair[C, V]{coord: slices.Clone(coord), val: build()})
}

// Update or set the value at coord via callback. The callback is called
// with the stored value and true, or the zero value and false if coord
// is not yet present. The returned value is stored and also returned to
// the caller.
func (m *Map[C, V]) Update(coord []C, cb func(val V, ok bool) V) V {
	m.checkCoord(coord)

	n := m.leafFor(coord)
	for i := range n.pairs {
		if slices.Equal(n.pairs[i].coord, coord) {
			n.pairs[i].val = cb(n.pairs[i].val, true)
			return n.pairs[i].val
		}
	}

	var zero V
	val := cb(zero, false)

	// coord is absent, the merge path in insert is unreachable
	m.size += m.insert(pair[C, V]{coord: slices.Clone(coord), val: val})

	return val
}

// Get returns the value stored at coord and true, or the zero value and
// false if coord is not in the map.
func (m *Map[C, V]) Get(coord []C) (val V, ok bool) {
	m.checkCoord(coord)

	n := m.leafFor(coord)
	for i := range n.pairs {
		if slices.Equal(n.pairs[i].coord, coord) {
			return n.pairs[i].val, true
		}
	}

	return val, false
}

// Contains reports whether coord is in the map.
func (m *Map[C, V]) Contains(coord []C) bool {
	_, ok := m.Get(coord)
	return ok
}

// At returns a pointer to the value stored at coord, inserting the zero
// value first if coord is absent.
//
// The pointer stays valid only until the next mutating operation on the
// map; splits, prunes and resizes relocate pair storage.
func (m *Map[C, V]) At(coord []C) *V {
	m.checkCoord(coord)

	n := m.leafFor(coord)
	for i := range n.pairs {
		if slices.Equal(n.pairs[i].coord, coord) {
			return &n.pairs[i].val
		}
	}

	var zero V
	m.size += m.insert(pair[C, V]{coord: slices.Clone(coord), val: zero})

	// the insert may have split the leaf, re-resolve
	n = m.leafFor(coord)
	for i := range n.pairs {
		if slices.Equal(n.pairs[i].coord, coord) {
			return &n.pairs[i].val
		}
	}

	panic("cmap: logic error, coordinate vanished after insert")
}

// Resize coarsens the map by one bit: every stored coordinate is
// right-shifted by one bit along every axis and colliding entries are
// merged. The resize counter increments by one per call, regardless of
// how many merges occurred.
func (m *Map[C, V]) Resize() {
	m.size -= m.coarsen(m.root)
	m.numResizes++
}

// Prune collapses every subtree whose total element count fits into a
// single leaf back into one leaf. Keys and values are unchanged. Erase
// operations prune implicitly, on-demand pruning is only needed after
// [Map.Resize].
func (m *Map[C, V]) Prune() {
	m.prune(m.root)
}

// Clear removes all entries and resets the resize counter. The map is
// ready for reuse at full resolution.
func (m *Map[C, V]) Clear() {
	m.root = &node[C, V]{level: uint8(m.width - 1)}
	m.size = 0
	m.numResizes = 0
}

// Size returns the number of distinct coordinates in the map.
func (m *Map[C, V]) Size() int { return m.size }

// IsEmpty reports whether the map holds no entries.
func (m *Map[C, V]) IsEmpty() bool { return m.size == 0 }

// NumResizes returns how often the map has been coarsened since
// construction or the last Clear.
func (m *Map[C, V]) NumResizes() int { return m.numResizes }

// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// addInts, merge combinator used throughout the tests. Addition is
// commutative, so differential checks are independent of merge order.
func addInts(existing *int, incoming int) { *existing += incoming }

func TestNewValidatesDimension(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { New[uint32, int](0, addInts) })
	require.Panics(t, func() { New[uint32, int](9, addInts) })
	require.NotPanics(t, func() { New[uint32, int](1, addInts) })
	require.NotPanics(t, func() { New[uint32, int](8, addInts) })
}

func TestCoordinateDimensionMismatchPanics(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](3, addInts)
	require.Panics(t, func() { m.Insert([]uint32{1, 2}, 1) })
	require.Panics(t, func() { m.Get([]uint32{1, 2, 3, 4}) })
}

func TestInsertGetContains(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](3, addInts)
	require.True(t, m.IsEmpty())

	m.Insert([]uint32{1, 2, 3}, 10)
	m.Insert([]uint32{4, 5, 6}, 20)
	require.Equal(t, 2, m.Size())
	require.False(t, m.IsEmpty())

	got, ok := m.Get([]uint32{1, 2, 3})
	require.True(t, ok)
	require.Equal(t, 10, got)

	require.True(t, m.Contains([]uint32{4, 5, 6}))
	require.False(t, m.Contains([]uint32{7, 8, 9}))

	_, ok = m.Get([]uint32{7, 8, 9})
	require.False(t, ok)
}

func TestInsertMergesOnCollision(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](2, addInts)

	m.Insert([]uint32{7, 7}, 1)
	m.Insert([]uint32{7, 7}, 2)
	m.Insert([]uint32{7, 7}, 4)

	require.Equal(t, 1, m.Size())

	got, _ := m.Get([]uint32{7, 7})
	require.Equal(t, 7, got)
}

func TestNilMergeOverwrites(t *testing.T) {
	t.Parallel()

	m := New[uint32, string](2, nil)
	m.Insert([]uint32{1, 1}, "old")
	m.Insert([]uint32{1, 1}, "new")

	got, _ := m.Get([]uint32{1, 1})
	require.Equal(t, "new", got)
	require.Equal(t, 1, m.Size())
}

func TestInsertDoesNotAliasCallerSlice(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](2, addInts)
	coord := []uint32{3, 4}
	m.Insert(coord, 1)

	coord[0] = 99
	require.True(t, m.Contains([]uint32{3, 4}))
	require.False(t, m.Contains([]uint32{99, 4}))
}

func TestEmplace(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](2, addInts)

	builds := 0
	build := func() int { builds++; return 5 }

	m.Emplace([]uint32{1, 2}, build)
	require.Equal(t, 1, builds)

	got, _ := m.Get([]uint32{1, 2})
	require.Equal(t, 5, got)

	// merge path, build is still evaluated exactly once
	m.Emplace([]uint32{1, 2}, build)
	require.Equal(t, 2, builds)
	require.Equal(t, 1, m.Size())

	got, _ = m.Get([]uint32{1, 2})
	require.Equal(t, 10, got)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](2, addInts)

	val := m.Update([]uint32{1, 1}, func(v int, ok bool) int {
		require.False(t, ok)
		return 42
	})
	require.Equal(t, 42, val)
	require.Equal(t, 1, m.Size())

	val = m.Update([]uint32{1, 1}, func(v int, ok bool) int {
		require.True(t, ok)
		return v + 1
	})
	require.Equal(t, 43, val)
	require.Equal(t, 1, m.Size())
}

func TestAtInsertsDefault(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](2, addInts)

	p := m.At([]uint32{5, 5})
	require.Equal(t, 0, *p)
	require.Equal(t, 1, m.Size())

	*p = 17
	got, _ := m.Get([]uint32{5, 5})
	require.Equal(t, 17, got)
}

// At must re-resolve the leaf when the default insert splits it.
func TestAtSurvivesSplit(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](1, addInts)

	// fill the root leaf to capacity 2^1
	m.Insert([]uint32{0}, 1)
	m.Insert([]uint32{1 << 31}, 2)

	p := m.At([]uint32{1}) // third distinct coordinate, splits
	require.Equal(t, 0, *p)
	require.Equal(t, 3, m.Size())

	*p = 9
	got, _ := m.Get([]uint32{1})
	require.Equal(t, 9, got)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](3, addInts)
	m.Insert([]uint32{1, 2, 3}, 1)
	m.Insert([]uint32{4, 5, 6}, 2)

	require.True(t, m.Delete([]uint32{1, 2, 3}))
	require.Equal(t, 1, m.Size())
	require.False(t, m.Contains([]uint32{1, 2, 3}))

	// deleting again is a no-op
	require.False(t, m.Delete([]uint32{1, 2, 3}))
	require.Equal(t, 1, m.Size())
}

func TestClear(t *testing.T) {
	t.Parallel()

	m := New[uint16, int](2, addInts)
	for i := uint16(0); i < 100; i++ {
		m.Insert([]uint16{i, i * 3}, int(i))
	}
	m.Resize()
	require.NotZero(t, m.Size())
	require.Equal(t, 1, m.NumResizes())

	m.Clear()
	require.Zero(t, m.Size())
	require.Zero(t, m.NumResizes())
	require.True(t, m.IsEmpty())
	require.True(t, m.root.isLeaf())
	require.Equal(t, uint8(15), m.root.level)

	// ready for reuse
	m.Insert([]uint16{1, 2}, 3)
	require.Equal(t, 1, m.Size())
}

// Eight distinct 3-D coordinates fit the root leaf, the ninth splits it,
// erasing five lets the implicit prune collapse the root again.
func TestSplitAndCollapseScenario(t *testing.T) {
	t.Parallel()

	m := New[uint32, int](3, addInts)

	// all eight top-bit octants, each routes to a distinct child
	var coords [][]uint32
	for a := uint32(0); a < 2; a++ {
		for b := uint32(0); b < 2; b++ {
			for c := uint32(0); c < 2; c++ {
				coords = append(coords, []uint32{a << 31, b << 31, c << 31})
			}
		}
	}
	for i, coord := range coords {
		m.Insert(coord, i)
	}

	require.Equal(t, 8, m.Size())
	require.True(t, m.root.isLeaf(), "eight pairs must not split the root")
	require.Equal(t, uint8(31), m.root.level)

	// the ninth distinct coordinate overflows the root leaf
	m.Insert([]uint32{1, 1, 1}, 100)
	require.Equal(t, 9, m.Size())
	require.False(t, m.root.isLeaf())
	require.Equal(t, 9, m.root.nodesRec(), "exactly one split")
	for _, child := range m.root.children {
		require.Equal(t, uint8(30), child.level)
	}

	// everything stays reachable
	for _, coord := range coords {
		require.True(t, m.Contains(coord))
	}
	require.True(t, m.Contains([]uint32{1, 1, 1}))

	// erase five of the nine, 4 <= 2^3 collapses the root back
	for _, coord := range coords[:5] {
		require.True(t, m.Delete(coord))
	}
	require.Equal(t, 4, m.Size())
	require.True(t, m.root.isLeaf())
	require.Equal(t, uint8(31), m.root.level)
}

// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// Prune is the structural inverse of split: erasing down to one leaf's
// capacity restores single-leaf shape without changing contents.
func TestPruneInverseOfSplit(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(3, 3))

	m := New[uint16, int](2, addInts)
	coords := make([][]uint16, 0, 64)
	seen := map[[2]uint16]bool{}
	for len(coords) < 64 {
		key := [2]uint16{uint16(prng.UintN(4096)), uint16(prng.UintN(4096))}
		if seen[key] {
			continue
		}
		seen[key] = true
		coords = append(coords, key[:])
	}

	for i, coord := range coords {
		m.Insert(coord, i)
	}
	require.False(t, m.root.isLeaf(), "64 spread coordinates must split")

	// erase down to the leaf capacity 2^2, the implicit prune of the
	// last delete collapses everything
	for _, coord := range coords[4:] {
		require.True(t, m.Delete(coord))
	}
	require.Equal(t, 4, m.Size())
	require.True(t, m.root.isLeaf())

	for _, coord := range coords[:4] {
		require.True(t, m.Contains(coord))
	}
}

func TestPrunePreservesSizeAndOrder(t *testing.T) {
	t.Parallel()

	prng := rand.New(rand.NewPCG(5, 5))

	m := New[uint16, int](2, addInts)
	for range 300 {
		m.Insert([]uint16{uint16(prng.UintN(8)), uint16(prng.UintN(8))}, 1)
	}

	// heavy merging, the tree is far too deep for its content now
	m.Resize()
	m.Resize()

	size := m.Size()
	nodes := m.root.nodesRec()
	before := collect(m)

	m.Prune()

	require.Equal(t, size, m.Size())
	require.LessOrEqual(t, m.root.nodesRec(), nodes)
	require.Equal(t, before, collect(m), "prune must not reorder pairs")
}

func TestPruneOnDemandCollapsesAfterResize(t *testing.T) {
	t.Parallel()

	m := New[uint16, int](3, addInts)

	// two populated octants far apart, some low-bit spread
	for i := uint16(0); i < 8; i++ {
		m.Insert([]uint16{i, 0, 0}, 1)
		m.Insert([]uint16{0x8000 | i, 0, 0}, 1)
	}
	require.False(t, m.root.isLeaf())

	// shift the low-bit spread away
	for range 3 {
		m.Resize()
	}
	require.Equal(t, 2, m.Size())

	// resize does not restructure above the bottom level, prune does
	m.Prune()
	require.True(t, m.root.isLeaf())
	require.Equal(t, 2, m.Size())
}

// collect returns all pairs in iteration order.
func collect(m *Map[uint16, int]) [][3]uint16 {
	var out [][3]uint16
	m.All(func(coord []uint16, val int) bool {
		entry := [3]uint16{}
		copy(entry[:], coord)
		entry[2] = uint16(val) // tag with the value to compare pairs, not keys
		out = append(out, entry)
		return true
	})
	return out
}

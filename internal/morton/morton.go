// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

// Package morton implements the bit-interleave transform between
// D-dimensional coordinates and a single Morton (Z-curve) code.
//
// The code is axis-major within each level: reading from the most
// significant end, the code carries bit W-1 of axis 0, bit W-1 of axis
// 1, ..., bit W-1 of axis D-1, then bit W-2 of axis 0, and so on. This
// is exactly the recursive child order of the cmap trie, so comparing
// codes as big-endian word vectors yields the trie's iteration order.
//
// A code spans D*W bits and is represented as D scalar words, word 0
// most significant.
package morton

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// scalarWidth, bit width of the unsigned scalar type C.
func scalarWidth[C constraints.Unsigned]() int {
	return bits.Len64(uint64(^C(0)))
}

// Interleave returns the Morton code of coord as a big-endian word
// vector of len(coord) words.
func Interleave[C constraints.Unsigned](coord []C) []C {
	w := scalarWidth[C]()
	dim := len(coord)
	code := make([]C, dim)

	// q counts code bits from the least significant end
	q := 0
	for level := 0; level < w; level++ {
		for axis := dim - 1; axis >= 0; axis-- {
			bit := (coord[axis] >> uint(level)) & 1
			code[dim-1-q/w] |= bit << uint(q%w)
			q++
		}
	}
	return code
}

// Deinterleave is the inverse of Interleave.
func Deinterleave[C constraints.Unsigned](code []C) []C {
	w := scalarWidth[C]()
	dim := len(code)
	coord := make([]C, dim)

	q := 0
	for level := 0; level < w; level++ {
		for axis := dim - 1; axis >= 0; axis-- {
			bit := (code[dim-1-q/w] >> uint(q%w)) & 1
			coord[axis] |= bit << uint(level)
			q++
		}
	}
	return coord
}

// Compare orders two coordinates of equal dimension by their Morton
// codes without materializing them. Equivalent to
// slices.Compare(Interleave(a), Interleave(b)).
func Compare[C constraints.Unsigned](a, b []C) int {
	for level := scalarWidth[C]() - 1; level >= 0; level-- {
		for axis := range a {
			x := (a[axis] >> uint(level)) & 1
			y := (b[axis] >> uint(level)) & 1
			if x != y {
				if x < y {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// ShiftRight drops the lowest level group of the code in place: shifting
// the whole big-endian word vector right by dim bits equals shifting
// every axis of the underlying coordinate right by one bit.
func ShiftRight[C constraints.Unsigned](code []C) {
	w := scalarWidth[C]()
	dim := len(code)

	for i := dim - 1; i >= 0; i-- {
		code[i] >>= uint(dim)
		if i > 0 {
			code[i] |= code[i-1] << uint(w-dim)
		}
	}
}

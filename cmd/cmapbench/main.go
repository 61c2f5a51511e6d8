// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

// Command cmapbench de-resolves a synthetic point cloud with the cmap
// tree engine and cross-checks size and contents against the ordered-map
// baseline.
package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sebwouters/cmap"
	"github.com/sebwouters/cmap/internal/golden"
)

type sample struct {
	s, p, m float64
}

func mergeSample(left *sample, right sample) {
	left.s += right.s
	left.p *= right.p
	left.m = math.Max(left.m, right.m)
}

var (
	points uint
	seed   uint64
	target uint
)

func main() {
	root := &cobra.Command{
		Use:   "cmapbench",
		Short: "benchmark the cmap tree engine against the ordered-map baseline",
		RunE: func(_ *cobra.Command, _ []string) error {
			return run()
		},
	}

	root.Flags().UintVarP(&points, "points", "n", 1_000_000, "number of samples in the point cloud")
	root.Flags().Uint64Var(&seed, "seed", 42, "PRNG seed")
	root.Flags().UintVarP(&target, "target", "t", 8, "resize until target*size <= points")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	prng := rand.New(rand.NewPCG(seed, seed))

	fmt.Printf("generating %d samples\n", points)
	coords, values := genSphere(prng, int(points))

	tree := cmap.New[uint32, sample](3, mergeSample)
	start := time.Now()
	for i := range coords {
		tree.Insert(coords[i], values[i])
	}
	fmt.Printf("inserting into cmap           : %v\n", time.Since(start))

	start = time.Now()
	for target*uint(tree.Size()) > points {
		tree.Resize()
	}
	fmt.Printf("resizing cmap                 : %v (%d resizes, %d entries)\n",
		time.Since(start), tree.NumResizes(), tree.Size())

	base := golden.New[uint32](3, mergeSample)
	start = time.Now()
	for i := range coords {
		base.Insert(coords[i], values[i])
	}
	fmt.Printf("inserting into baseline(btree): %v\n", time.Since(start))

	start = time.Now()
	for target*uint(base.Size()) > points {
		base.Resize()
	}
	fmt.Printf("resizing baseline(btree)      : %v (%d resizes, %d entries)\n",
		time.Since(start), base.NumResizes(), base.Size())

	return crossCheck(tree, base)
}

// genSphere draws points from a thin spherical shell around the center
// of the uint32 coordinate cube.
func genSphere(prng *rand.Rand, n int) ([][]uint32, []sample) {
	const center = 2147483648.0

	coords := make([][]uint32, 0, n)
	values := make([]sample, 0, n)

	for range n {
		radius := prng.NormFloat64()*100.0 + 100000.0
		phi := prng.Float64() * 2 * math.Pi
		cosTheta := prng.Float64()*2 - 1
		sinTheta := math.Sin(math.Acos(cosTheta))

		coords = append(coords, []uint32{
			uint32(center + radius*sinTheta*math.Cos(phi) + 0.5),
			uint32(center + radius*sinTheta*math.Sin(phi) + 0.5),
			uint32(center + radius*cosTheta + 0.5),
		})
		values = append(values, sample{
			s: prng.Float64() * 2,
			p: prng.Float64() * 2,
			m: prng.Float64() * 2,
		})
	}

	return coords, values
}

func crossCheck(tree *cmap.Map[uint32, sample], base *golden.Map[uint32, sample]) error {
	if tree.Size() != base.Size() {
		return fmt.Errorf("size mismatch: cmap %d, baseline %d", tree.Size(), base.Size())
	}
	if tree.NumResizes() != base.NumResizes() {
		return fmt.Errorf("resize count mismatch: cmap %d, baseline %d", tree.NumResizes(), base.NumResizes())
	}

	mismatches := 0
	base.All(func(coord []uint32, want sample) bool {
		got, ok := tree.Get(coord)
		if !ok || relDiff(got.s, want.s) > 1e-10 ||
			relDiff(got.p, want.p) > 1e-10 || relDiff(got.m, want.m) > 1e-10 {
			mismatches++
		}
		return true
	})
	if mismatches > 0 {
		return fmt.Errorf("%d entries differ between cmap and baseline", mismatches)
	}

	fmt.Println("cmap and baseline agree")
	return nil
}

func relDiff(a, b float64) float64 {
	if b == 0 {
		return math.Abs(a)
	}
	return math.Abs(a-b) / math.Abs(b)
}

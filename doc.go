// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

// Package cmap provides a collapsible hierarchically ordered coordinate
// map: an associative container keyed by D-dimensional unsigned integer
// coordinates, stored as a 2^D-ary trie so that spatially close
// coordinates stay close in storage and in iteration order.
//
// The distinguishing operation is [Map.Resize], a global coarsening pass
// that right-shifts every stored coordinate by one bit along every axis.
// Previously distinct keys collide and their values are combined through
// a caller-supplied merge combinator. Repeated resizing turns the map
// into a progressive level-of-detail index over point data, e.g. for
// de-resolving a point cloud or a spatial histogram as storage must
// shrink.
//
// A leaf holds at most 2^D pairs; the 2^D+1st distinct coordinate splits
// the leaf into 2^D children one level down. Erasing runs the inverse:
// any subtree whose total element count fits into one leaf collapses
// back into a single leaf.
//
// Iteration visits pairs in the trie's recursive child order, an
// axis-major Morton (Z-curve) ordering of the coordinate space. Forward
// and backward traversal are supported, both through cursors and
// through range-over-func iteration.
//
// After a resize the map operates in coarsened units: coordinates passed
// to Insert, Get, Find, Delete and friends are interpreted at the
// current resolution, they are not shifted by the accumulated resize
// count.
//
// The map is not safe for concurrent use, and any mutation invalidates
// outstanding cursors and value references.
package cmap

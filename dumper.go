// Copyright (c) 2020 Sebastian Wouters
// SPDX-License-Identifier: BSD-3-Clause

package cmap

import (
	"fmt"
	"io"
	"strings"
)

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// dumpString is just a wrapper for dump.
func (m *Map[C, V]) dumpString() string {
	w := new(strings.Builder)
	m.dump(w)

	return w.String()
}

// dump the map structure and all the nodes to w.
func (m *Map[C, V]) dump(w io.Writer) {
	if m == nil {
		return
	}

	fmt.Fprintf(w, "### cmap: dim(%d) width(%d) size(%d) resizes(%d) nodes(%d)\n",
		m.dim, m.width, m.size, m.numResizes, m.root.nodesRec())

	m.root.dumpRec(w, 0)
}

// dumpRec, rec-descent the trie.
func (n *node[C, V]) dumpRec(w io.Writer, depth int) {
	n.dump(w, depth)

	for i, child := range n.children {
		// skip fully empty child leaves, they dominate sparse trees
		if child.isLeaf() && len(child.pairs) == 0 {
			continue
		}
		fmt.Fprintf(w, "%schild[%d]:\n", strings.Repeat(".", depth+1), i)
		child.dumpRec(w, depth+1)
	}
}

// dump the node to w.
func (n *node[C, V]) dump(w io.Writer, depth int) {
	indent := strings.Repeat(".", depth)

	if n.isLeaf() {
		fmt.Fprintf(w, "%s[LEAF] depth: %d level: %d pairs(#%d):", indent, depth, n.level, len(n.pairs))
		for i := range n.pairs {
			fmt.Fprintf(w, " %v=>%v", n.pairs[i].coord, n.pairs[i].val)
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "%s[NODE] depth: %d level: %d children(#%d) occupied: %v\n",
		indent, depth, n.level, len(n.children), n.occupied)
}

package staticize

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// propagate marks every node reachable from the seed set and returns the
// marked bitmap over arena indices.
//
// Seeds are the nodes that intrinsically access instance data: every field
// node, every method node that is overridable (a subclass override might
// touch instance state, and the analysis cannot see overrides),
// constructors (they exist to initialize the instance), and any
// payload-less node, which is only ever the sentinel inherited member.
//
// The traversal is breadth-first over all seeds at once with an index-based
// queue; the bitmap doubles as the visited set, so each node is expanded at
// most once and cyclic call chains from mutual recursion terminate.
func (g *Graph) propagate() *roaring.Bitmap {
	marked := roaring.New()

	queue := make([]uint32, 0, len(g.nodes))
	for i := range g.nodes {
		if g.isSeed(&g.nodes[i]) {
			idx := uint32(i)
			marked.Add(idx)
			queue = append(queue, idx)
		}
	}

	head := 0
	for head < len(queue) {
		current := queue[head]
		head++

		for _, to := range g.nodes[current].Out {
			if !marked.Contains(to) {
				marked.Add(to)
				queue = append(queue, to)
			}
		}
	}

	return marked
}

func (g *Graph) isSeed(node *Node) bool {
	if node.Field != nil {
		return true
	}
	if node.Method != nil {
		return node.Method.Constructor || !node.Method.NonOverridable()
	}
	// payload-less: the sentinel inherited member
	return true
}

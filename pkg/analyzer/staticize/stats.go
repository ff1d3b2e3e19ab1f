package staticize

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// GraphStats summarizes the shape of one class's usage graph, mainly for
// debugging the analysis with the graph command.
type GraphStats struct {
	Nodes       int      `json:"nodes" toon:"nodes"`
	Edges       int      `json:"edges" toon:"edges"`
	MaxInDegree int      `json:"max_in_degree" toon:"max_in_degree"`
	Components  int      `json:"strongly_connected_components" toon:"strongly_connected_components"`
	CycleNodes  []string `json:"cycle_nodes,omitempty" toon:"cycle_nodes,omitempty"`
}

// Stats computes summary statistics over the usage graph.
func (g *Graph) Stats() GraphStats {
	stats := GraphStats{
		Nodes: g.Len(),
		Edges: g.EdgeCount(),
	}

	dg := simple.NewDirectedGraph()
	for i := range g.nodes {
		dg.AddNode(simple.Node(int64(i)))
	}
	for i := range g.nodes {
		if stats.MaxInDegree < g.nodes[i].InDegree {
			stats.MaxInDegree = g.nodes[i].InDegree
		}
		for _, to := range g.nodes[i].Out {
			if uint32(i) == to {
				continue
			}
			dg.SetEdge(dg.NewEdge(simple.Node(int64(i)), simple.Node(int64(to))))
		}
	}

	sccs := topo.TarjanSCC(dg)
	stats.Components = len(sccs)
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		for _, n := range scc {
			stats.CycleNodes = append(stats.CycleNodes, string(g.nodes[n.ID()].ID))
		}
	}

	return stats
}

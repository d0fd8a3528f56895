package index

import (
	"errors"
	"sort"

	"github.com/dominikbraun/graph"
)

// buildNamespaceGraph derives the namespace dependency graph from
// using-directives. Only namespaces declared somewhere in the tree
// become vertices; an edge A -> B means a file declaring namespace A
// imports namespace B.
func buildNamespaceGraph(idx *SolutionIndex, results []*fileResult) NamespaceGraph {
	declared := map[string]bool{}
	for ns := range idx.ByNamespace {
		if ns != "" {
			declared[ns] = true
		}
	}
	if len(declared) == 0 {
		return NamespaceGraph{}
	}

	g := graph.New(graph.StringHash, graph.Directed())
	for ns := range declared {
		_ = g.AddVertex(ns)
	}

	var edges []NamespaceEdge
	seen := map[NamespaceEdge]bool{}
	for _, res := range results {
		if res == nil || res.doc == nil || res.doc.Namespace == "" {
			continue
		}
		from := res.doc.Namespace
		if !declared[from] {
			continue
		}
		for _, to := range res.doc.Usings {
			if to == from || !declared[to] {
				continue
			}
			edge := NamespaceEdge{From: from, To: to}
			if seen[edge] {
				continue
			}
			seen[edge] = true
			if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				continue
			}
			edges = append(edges, edge)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	return NamespaceGraph{
		Edges:  edges,
		Cycles: findCycles(g),
	}
}

// findCycles reports strongly connected components with more than one
// namespace, each sorted for stable output.
func findCycles(g graph.Graph[string, string]) [][]string {
	components, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		sort.Strings(component)
		cycles = append(cycles, component)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// Package graph provides the cross-reference graph between articles,
// built from each article's Related Articles list.
package graph

import (
	"cmp"
	"slices"

	"github.com/fwojciec/kbase"
)

// Graph is a directed graph of article cross-references keyed by KB-ID.
// Graph is not safe for concurrent use; callers serialize writes.
type Graph struct {
	nodes map[string]bool
	out   map[string][]kbase.Edge
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]bool),
		out:   make(map[string][]kbase.Edge),
	}
}

// Build returns a graph over articles together with the references whose
// target is not among them.
func Build(articles []*kbase.Article) (*Graph, []kbase.Edge) {
	g := New()
	for _, a := range articles {
		g.SetArticle(a.ID, a.Related)
	}
	return g, g.Unresolved()
}

// SetArticle adds the article as a node and replaces its outgoing edges.
// Repeated targets keep their first occurrence; self-references are
// not added as edges.
func (g *Graph) SetArticle(id string, refs []kbase.Reference) {
	g.nodes[id] = true

	edges := make([]kbase.Edge, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if r.TargetID == id || seen[r.TargetID] {
			continue
		}
		seen[r.TargetID] = true
		edges = append(edges, kbase.Edge{From: id, To: r.TargetID, Text: r.Text})
	}
	g.out[id] = edges
}

// Has reports whether the article is a node of the graph.
func (g *Graph) Has(id string) bool {
	return g.nodes[id]
}

// HasEdge reports whether the graph contains the edge from → to.
func (g *Graph) HasEdge(from, to string) bool {
	for _, e := range g.out[from] {
		if e.To == to {
			return true
		}
	}
	return false
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Related returns the targets of the article's outgoing edges in
// Related Articles order. Returns an empty slice when there are none.
func (g *Graph) Related(id string) []string {
	ids := make([]string, 0, len(g.out[id]))
	for _, e := range g.out[id] {
		ids = append(ids, e.To)
	}
	return ids
}

// Backlinks returns the sorted IDs of articles referencing id.
func (g *Graph) Backlinks(id string) []string {
	var ids []string
	for from, edges := range g.out {
		for _, e := range edges {
			if e.To == id {
				ids = append(ids, from)
				break
			}
		}
	}
	slices.Sort(ids)
	return ids
}

// Edges returns every edge sorted by source then target.
func (g *Graph) Edges() []kbase.Edge {
	var edges []kbase.Edge
	for _, out := range g.out {
		edges = append(edges, out...)
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

// Unresolved returns the edges whose target is not a node, sorted by
// source then target. During an incremental build these may still resolve
// once the rest of the corpus is loaded.
func (g *Graph) Unresolved() []kbase.Edge {
	var edges []kbase.Edge
	for _, out := range g.out {
		for _, e := range out {
			if !g.nodes[e.To] {
				edges = append(edges, e)
			}
		}
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

func compareEdges(a, b kbase.Edge) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.To, b.To)
}

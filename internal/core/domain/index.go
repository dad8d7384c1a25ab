package domain

import (
	"time"
)

// CatalogEntry is the indexed summary of one asset document
type CatalogEntry struct {
	Handle       AssetHandle
	Type         TypeTag
	Origin       AssetHandle
	Dependencies []AssetHandle
}

// CatalogStats describes the last catalog rebuild
type CatalogStats struct {
	Assets       int
	Dependencies int
	Failed       int
	LastIndexed  time.Time
}

// GraphNode is an asset in a dependency graph
type GraphNode struct {
	Handle AssetHandle
	Type   TypeTag
	Depth  int
}

// GraphEdge is a hard reference from Source to Target
type GraphEdge struct {
	Source AssetHandle
	Target AssetHandle
}

// DependencyGraph is the transitive hard-reference graph below a root
type DependencyGraph struct {
	Root  AssetHandle
	Nodes []GraphNode
	Edges []GraphEdge
}

// NewDependencyGraph creates an empty graph rooted at root
func NewDependencyGraph(root AssetHandle) *DependencyGraph {
	return &DependencyGraph{Root: root}
}

// HasNode checks if h is part of the graph
func (g *DependencyGraph) HasNode(h AssetHandle) bool {
	for _, n := range g.Nodes {
		if n.Handle == h {
			return true
		}
	}
	return false
}

// Children returns the direct dependencies of h
func (g *DependencyGraph) Children(h AssetHandle) []AssetHandle {
	var out []AssetHandle
	for _, e := range g.Edges {
		if e.Source == h {
			out = append(out, e.Target)
		}
	}
	return out
}

// TypeOf returns the recorded type of a node
func (g *DependencyGraph) TypeOf(h AssetHandle) TypeTag {
	for _, n := range g.Nodes {
		if n.Handle == h {
			return n.Type
		}
	}
	return TypeUnknown
}

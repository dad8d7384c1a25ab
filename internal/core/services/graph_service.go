package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/pkg/config"
)

// GraphService builds dependency graphs for display
type GraphService struct {
	collector *ReferenceCollector
	config    *config.Config
}

// NewGraphService creates a new instance of GraphService with config
func NewGraphService(collector *ReferenceCollector, cfg *config.Config) *GraphService {
	return &GraphService{
		collector: collector,
		config:    cfg,
	}
}

// Build walks the in-project hard references below root breadth-first
func (s *GraphService) Build(ctx context.Context, root domain.AssetHandle, rootType domain.TypeTag) (*domain.DependencyGraph, error) {
	if !root.IsValid() {
		return nil, domain.ErrInvalidHandle
	}

	maxNodes := 0
	if s.config != nil {
		maxNodes = s.config.GraphMaxNodes
	}

	graph := domain.NewDependencyGraph(root)
	graph.Nodes = append(graph.Nodes, domain.GraphNode{Handle: root, Type: rootType, Depth: 0})
	visited := map[domain.AssetHandle]bool{root: true}

	queue := []domain.GraphNode{graph.Nodes[0]}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, ref := range s.collector.CollectHardReferences(ctx, node.Handle) {
			graph.Edges = append(graph.Edges, domain.GraphEdge{Source: node.Handle, Target: ref.Handle})
			if visited[ref.Handle] {
				continue
			}
			if maxNodes > 0 && len(graph.Nodes) >= maxNodes {
				continue
			}
			visited[ref.Handle] = true
			child := domain.GraphNode{Handle: ref.Handle, Type: ref.Type, Depth: node.Depth + 1}
			graph.Nodes = append(graph.Nodes, child)
			queue = append(queue, child)
		}
	}

	// Drop edges to nodes cut by the node limit
	edges := graph.Edges[:0]
	for _, e := range graph.Edges {
		if visited[e.Target] {
			edges = append(edges, e)
		}
	}
	graph.Edges = edges

	return graph, nil
}

// GenerateDOT renders a graph in Graphviz DOT format
func (s *GraphService) GenerateDOT(graph *domain.DependencyGraph) string {
	direction := "LR"
	if s.config != nil && s.config.GraphDirection != "" {
		direction = s.config.GraphDirection
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString(fmt.Sprintf("  rankdir=%s;\n", direction))
	sb.WriteString("  node [shape=box, style=filled, fillcolor=\"#f9f9f9\", fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [color=\"#555555\"];\n")

	for _, n := range graph.Nodes {
		sb.WriteString(fmt.Sprintf("  %q [label=\"%s\\n%s\"];\n", n.Handle.String(), n.Handle.LeafName(), n.Type))
	}
	for _, e := range graph.Edges {
		sb.WriteString(fmt.Sprintf("  %q -> %q;\n", e.Source.String(), e.Target.String()))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// RenderTree renders the graph as an indented tree. Nodes already printed are
// marked instead of expanded again.
func (s *GraphService) RenderTree(graph *domain.DependencyGraph) string {
	var sb strings.Builder
	printed := make(map[domain.AssetHandle]bool)

	var walk func(h domain.AssetHandle, prefix string, last bool, depth int)
	walk = func(h domain.AssetHandle, prefix string, last bool, depth int) {
		branch := "├── "
		next := prefix + "│   "
		if last {
			branch = "└── "
			next = prefix + "    "
		}
		if depth == 0 {
			branch = ""
			next = ""
		}

		line := fmt.Sprintf("%s%s%s (%s)", prefix, branch, h.String(), graph.TypeOf(h))
		if printed[h] {
			sb.WriteString(line + " *\n")
			return
		}
		sb.WriteString(line + "\n")
		printed[h] = true

		children := graph.Children(h)
		for i, child := range children {
			walk(child, next, i == len(children)-1, depth+1)
		}
	}

	walk(graph.Root, "", true, 0)
	return sb.String()
}

// RenderHTML writes a standalone force-layout page of the graph.
// Nodes are grouped into one legend category per asset type.
func (s *GraphService) RenderHTML(graph *domain.DependencyGraph, w io.Writer) error {
	var categories []*opts.GraphCategory
	categoryIndex := make(map[domain.TypeTag]int)
	for _, n := range graph.Nodes {
		if _, ok := categoryIndex[n.Type]; !ok {
			categoryIndex[n.Type] = len(categories)
			categories = append(categories, &opts.GraphCategory{Name: n.Type.String()})
		}
	}

	nodes := make([]opts.GraphNode, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		size := 14
		if n.Depth == 0 {
			size = 28
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       n.Handle.String(),
			Value:      float32(len(graph.Children(n.Handle))),
			Category:   categoryIndex[n.Type],
			SymbolSize: size,
		})
	}

	links := make([]opts.GraphLink, 0, len(graph.Edges))
	for _, e := range graph.Edges {
		links = append(links, opts.GraphLink{Source: e.Source.String(), Target: e.Target.String()})
	}

	chart := charts.NewGraph()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "fxlib - " + graph.Root.LeafName(),
			Width:     "1200px",
			Height:    "800px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    graph.Root.LeafName(),
			Subtitle: fmt.Sprintf("%d assets, %d references", len(graph.Nodes), len(graph.Edges)),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	chart.AddSeries("dependencies", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:     "force",
			Force:      &opts.GraphForce{Repulsion: 300, Gravity: 0.1, EdgeLength: 80},
			Roam:       opts.Bool(true),
			Draggable:  opts.Bool(true),
			EdgeSymbol: []string{"none", "arrow"},
			Categories: categories,
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("failed to render graph page: %w", err)
	}
	return nil
}

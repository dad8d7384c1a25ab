package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports/mocks"
	"github.com/kamal-hamza/fxlib/pkg/config"
)

func newTestGraphService(store *mocks.MockContentStore, cfg *config.Config) *GraphService {
	return NewGraphService(NewReferenceCollector(store, store, quietLogger), cfg)
}

func TestGraphService_Build(t *testing.T) {
	// Setup
	store := boomProject()
	svc := newTestGraphService(store, config.DefaultConfig())

	// Execute
	graph, err := svc.Build(context.Background(), handle(boomSrc), domain.TypeNiagaraSystem)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graph.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Edges) != 2 {
		t.Errorf("expected 2 edges, got %d", len(graph.Edges))
	}
	depths := map[domain.AssetHandle]int{}
	for _, n := range graph.Nodes {
		depths[n.Handle] = n.Depth
	}
	if depths[handle(fireMat)] != 1 || depths[handle(fireTex)] != 2 {
		t.Errorf("depths = %v", depths)
	}
	if graph.TypeOf(handle(fireTex)) != domain.TypeTexture2D {
		t.Errorf("texture type = %s", graph.TypeOf(handle(fireTex)))
	}
}

func TestGraphService_BuildSharedAndCyclic(t *testing.T) {
	store := mocks.NewMockContentStore()
	store.Add(newSystem("/Game/FX/NS_Twin", "/Game/FX/M_A", "/Game/FX/M_B"))
	a := newMaterial("/Game/FX/M_A", "/Game/FX/T_Shared")
	a.Links = []domain.AssetHandle{handle("/Game/FX/NS_Twin")}
	store.Add(a)
	store.Add(newMaterial("/Game/FX/M_B", "/Game/FX/T_Shared"))
	store.Add(newTexture("/Game/FX/T_Shared"))
	svc := newTestGraphService(store, config.DefaultConfig())

	graph, err := svc.Build(context.Background(), handle("/Game/FX/NS_Twin"), domain.TypeNiagaraSystem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(graph.Nodes) != 4 {
		t.Errorf("expected 4 nodes, got %d", len(graph.Nodes))
	}
	// NS->M_A, NS->M_B, M_A->T, M_A->NS, M_B->T
	if len(graph.Edges) != 5 {
		t.Errorf("expected 5 edges, got %d", len(graph.Edges))
	}
}

func TestGraphService_BuildNodeLimit(t *testing.T) {
	store := boomProject()
	cfg := config.DefaultConfig()
	cfg.GraphMaxNodes = 2
	svc := newTestGraphService(store, cfg)

	graph, err := svc.Build(context.Background(), handle(boomSrc), domain.TypeNiagaraSystem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graph.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(graph.Nodes))
	}
	for _, e := range graph.Edges {
		if !graph.HasNode(e.Target) {
			t.Errorf("edge to pruned node %s", e.Target)
		}
	}
}

func TestGraphService_BuildInvalidRoot(t *testing.T) {
	svc := newTestGraphService(mocks.NewMockContentStore(), nil)

	if _, err := svc.Build(context.Background(), domain.AssetHandle{}, ""); !errors.Is(err, domain.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}

func TestGraphService_GenerateDOT(t *testing.T) {
	store := boomProject()
	cfg := config.DefaultConfig()
	cfg.GraphDirection = "TB"
	svc := newTestGraphService(store, cfg)
	graph, _ := svc.Build(context.Background(), handle(boomSrc), domain.TypeNiagaraSystem)

	dot := svc.GenerateDOT(graph)

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"/Game/FX/NS_Boom.NS_Boom" -> "/Game/FX/M_Fire.M_Fire";`,
		`"/Game/FX/M_Fire.M_Fire" -> "/Game/FX/T_Fire.T_Fire";`,
		`label="T_Fire\nTexture2D"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestGraphService_RenderTree(t *testing.T) {
	store := mocks.NewMockContentStore()
	store.Add(newSystem("/Game/FX/NS_Twin", "/Game/FX/M_A", "/Game/FX/M_B"))
	store.Add(newMaterial("/Game/FX/M_A", "/Game/FX/T_Shared"))
	store.Add(newMaterial("/Game/FX/M_B", "/Game/FX/T_Shared"))
	store.Add(newTexture("/Game/FX/T_Shared"))
	svc := newTestGraphService(store, nil)
	graph, _ := svc.Build(context.Background(), handle("/Game/FX/NS_Twin"), domain.TypeNiagaraSystem)

	tree := svc.RenderTree(graph)

	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), tree)
	}
	if !strings.HasPrefix(lines[0], "/Game/FX/NS_Twin.NS_Twin (NiagaraSystem)") {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[4], "T_Shared.T_Shared (Texture2D) *") {
		t.Errorf("repeated node should be marked: %q", lines[4])
	}
	if !strings.HasPrefix(lines[3], "└── ") {
		t.Errorf("last child should use the closing branch: %q", lines[3])
	}
}

func TestGraphService_RenderHTML(t *testing.T) {
	store := boomProject()
	svc := newTestGraphService(store, nil)
	graph, _ := svc.Build(context.Background(), handle(boomSrc), domain.TypeNiagaraSystem)

	var buf strings.Builder
	if err := svc.RenderHTML(graph, &buf); err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}

	page := buf.String()
	for _, want := range []string{"<html", "echarts", "fxlib - NS_Boom", "/Game/FX/T_Fire.T_Fire", "Texture2D"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

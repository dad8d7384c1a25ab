package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
)

func handleOf(raw string) domain.AssetHandle {
	return domain.ParseHandle(raw)
}

func writeDoc(t *testing.T, root, rel, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

const materialDoc = `type: Material
expressions:
  - name: Sample0
    kind: TextureSample
    texture: /Game/FX/T_Fire.T_Fire
`

func TestFileContentStore_FilePath(t *testing.T) {
	store := NewFileContentStore("/content")

	path, err := store.FilePath(handleOf("/Game/FX/T_Fire.T_Fire"))
	if err != nil {
		t.Fatalf("FilePath() error = %v", err)
	}
	if want := filepath.Join("/content", "FX", "T_Fire.yaml"); path != want {
		t.Errorf("FilePath() = %q, want %q", path, want)
	}

	if _, err := store.FilePath(handleOf("/Engine/Basic/Cube")); !errors.Is(err, domain.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle for engine path, got %v", err)
	}
	if _, err := store.FilePath(handleOf("/Game/../Engine/Textures/T_Default")); !errors.Is(err, domain.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle for a path climbing out of /Game, got %v", err)
	}
}

func TestFileContentStore_DuplicateStaysInContentDir(t *testing.T) {
	// Setup
	base := t.TempDir()
	root := filepath.Join(base, "content")
	writeDoc(t, root, "FX/M_Fire.yaml", materialDoc)
	store := NewFileContentStore(root)
	ctx := context.Background()

	// Execute
	_, nameErr := store.Duplicate(ctx, handleOf("/Game/FX/M_Fire"), "/Game/FXLib", "../../../M_Escaped")
	_, folderErr := store.Duplicate(ctx, handleOf("/Game/FX/M_Fire"), "/Game/../../Outside", "M_Fire")

	// Assert
	if nameErr == nil || folderErr == nil {
		t.Fatalf("expected both escapes to fail, got %v and %v", nameErr, folderErr)
	}
	matches, _ := filepath.Glob(filepath.Join(base, "*.yaml"))
	if _, err := os.Stat(filepath.Join(base, "Outside")); err == nil || len(matches) > 0 {
		t.Error("a document was written outside the content directory")
	}
}

func TestFileContentStore_HandleForFile(t *testing.T) {
	store := NewFileContentStore("/content")

	got, err := store.HandleForFile(filepath.Join("/content", "FX", "Materials", "M_Fire.yaml"))
	if err != nil {
		t.Fatalf("HandleForFile() error = %v", err)
	}
	if want := handleOf("/Game/FX/Materials/M_Fire"); got != want {
		t.Errorf("HandleForFile() = %s, want %s", got, want)
	}

	if _, err := store.HandleForFile("/elsewhere/M_Fire.yaml"); err == nil {
		t.Error("expected error for file outside content directory")
	}
}

func TestFileContentStore_IndexQueries(t *testing.T) {
	// Setup
	root := t.TempDir()
	writeDoc(t, root, "FX/M_Fire.yaml", materialDoc)
	writeDoc(t, root, "FX/T_Fire.yaml", "type: Texture2D\n")
	writeDoc(t, root, "FX/readme.txt", "not an asset")
	store := NewFileContentStore(root)
	ctx := context.Background()

	// Execute & Assert
	tag, err := store.ResolveType(ctx, handleOf("/Game/FX/M_Fire"))
	if err != nil || tag != domain.TypeMaterial {
		t.Errorf("ResolveType() = %q, %v", tag, err)
	}

	deps, err := store.GetHardDependencies(ctx, handleOf("/Game/FX/M_Fire"))
	if err != nil {
		t.Fatalf("GetHardDependencies() error = %v", err)
	}
	if len(deps) != 1 || deps[0] != handleOf("/Game/FX/T_Fire") {
		t.Errorf("GetHardDependencies() = %v", deps)
	}

	children, err := store.ListChildrenOf(ctx, "/Game/FX")
	if err != nil {
		t.Fatalf("ListChildrenOf() error = %v", err)
	}
	if len(children) != 2 {
		t.Errorf("ListChildrenOf() = %v, want 2 assets", children)
	}

	if _, err := store.ResolveType(ctx, handleOf("/Game/FX/Missing")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Index queries never load
	if store.IsLoaded(handleOf("/Game/FX/M_Fire")) {
		t.Error("ResolveType should not load the asset")
	}
}

func TestFileContentStore_ListChildrenOfMissingFolder(t *testing.T) {
	store := NewFileContentStore(t.TempDir())

	children, err := store.ListChildrenOf(context.Background(), "/Game/Nowhere")
	if err != nil {
		t.Fatalf("ListChildrenOf() error = %v", err)
	}
	if len(children) != 0 {
		t.Errorf("expected no children, got %v", children)
	}
}

func TestFileContentStore_EnsureDirectory(t *testing.T) {
	root := t.TempDir()
	store := NewFileContentStore(root)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := store.EnsureDirectory(ctx, "/Game/FXLib/Textures"); err != nil {
			t.Fatalf("EnsureDirectory() call %d error = %v", i, err)
		}
	}

	info, err := os.Stat(filepath.Join(root, "FXLib", "Textures"))
	if err != nil || !info.IsDir() {
		t.Errorf("folder not created: %v", err)
	}
}

func TestFileContentStore_ListAll(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "FX/M_Fire.yaml", materialDoc)
	writeDoc(t, root, "A/T_Smoke.yaml", "type: Texture2D\n")
	writeDoc(t, root, ".trash/T_Old.yaml", "type: Texture2D\n")
	store := NewFileContentStore(root)

	all, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListAll() = %v, want 2 handles", all)
	}
	if all[0] != handleOf("/Game/A/T_Smoke") || all[1] != handleOf("/Game/FX/M_Fire") {
		t.Errorf("ListAll() not sorted: %v", all)
	}
}

func TestFileContentStore_ListAllMissingRoot(t *testing.T) {
	store := NewFileContentStore(filepath.Join(t.TempDir(), "absent"))

	all, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty list, got %v", all)
	}
}

func TestFileContentStore_LoadCaches(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "FX/T_Fire.yaml", "type: Texture2D\n")
	store := NewFileContentStore(root)
	ctx := context.Background()
	th := handleOf("/Game/FX/T_Fire")

	first, err := store.Load(ctx, th)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, _ := store.Load(ctx, th)
	if first != second {
		t.Error("Load() should return the cached object")
	}
	if !store.IsLoaded(th) {
		t.Error("IsLoaded() = false after Load")
	}
	if first.Handle != th {
		t.Errorf("handle = %s, want %s", first.Handle, th)
	}

	store.Unload(th)
	if store.IsLoaded(th) {
		t.Error("IsLoaded() = true after Unload")
	}
}

func TestFileContentStore_DocumentWithoutType(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "FX/Thing.yaml", "properties: []\n")
	store := NewFileContentStore(root)

	obj, err := store.ReadDocument(context.Background(), handleOf("/Game/FX/Thing"))
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if obj.Type != domain.TypeUnknown {
		t.Errorf("Type = %q, want Unknown", obj.Type)
	}
}

func TestFileContentStore_Duplicate(t *testing.T) {
	// Setup
	root := t.TempDir()
	writeDoc(t, root, "FX/M_Fire.yaml", materialDoc)
	store := NewFileContentStore(root)
	ctx := context.Background()

	var hooked []domain.AssetHandle
	store.OnChange(func(ctx context.Context, obj *domain.Object) {
		hooked = append(hooked, obj.Handle)
	})

	// Execute
	dup, err := store.Duplicate(ctx, handleOf("/Game/FX/M_Fire"), "/Game/FXLib/Materials", "M_Fire")

	// Assert
	if err != nil {
		t.Fatalf("Duplicate() error = %v", err)
	}
	if want := handleOf("/Game/FXLib/Materials/M_Fire"); dup.Handle != want {
		t.Errorf("copy handle = %s, want %s", dup.Handle, want)
	}
	if dup.Origin != handleOf("/Game/FX/M_Fire") {
		t.Errorf("copy origin = %s", dup.Origin)
	}
	if _, err := os.Stat(filepath.Join(root, "FXLib", "Materials", "M_Fire.yaml")); err != nil {
		t.Errorf("copy not written: %v", err)
	}
	if !store.IsLoaded(dup.Handle) || !store.IsLoaded(handleOf("/Game/FX/M_Fire")) {
		t.Error("source and copy should both be loaded")
	}
	if len(hooked) != 1 || hooked[0] != dup.Handle {
		t.Errorf("change hook calls = %v", hooked)
	}

	// Same target again
	if _, err := store.Duplicate(ctx, handleOf("/Game/FX/M_Fire"), "/Game/FXLib/Materials", "M_Fire"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Origin survives a round trip through disk
	store.Unload(dup.Handle)
	reread, err := store.ReadDocument(ctx, dup.Handle)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if reread.Origin != handleOf("/Game/FX/M_Fire") {
		t.Errorf("persisted origin = %s", reread.Origin)
	}
	if len(reread.Expressions) != 1 || reread.Expressions[0].Texture != handleOf("/Game/FX/T_Fire") {
		t.Errorf("persisted expressions = %+v", reread.Expressions)
	}
}

func TestFileContentStore_DuplicateMissingSource(t *testing.T) {
	store := NewFileContentStore(t.TempDir())

	_, err := store.Duplicate(context.Background(), handleOf("/Game/FX/Nope"), "/Game/FXLib", "Nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileContentStore_PersistAndCreate(t *testing.T) {
	root := t.TempDir()
	store := NewFileContentStore(root)
	ctx := context.Background()

	obj := &domain.Object{Handle: handleOf("/Game/FX/T_New"), Type: domain.TypeTexture2D}
	if err := store.Create(ctx, obj); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, obj); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists on second Create, got %v", err)
	}

	obj.Properties = []domain.Property{{Name: "LODBias", Kind: domain.KindScalar, Value: "2"}}
	if err := store.Persist(ctx, obj); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	reread, err := store.ReadDocument(ctx, obj.Handle)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if len(reread.Properties) != 1 || reread.Properties[0].Value != "2" {
		t.Errorf("persisted properties = %+v", reread.Properties)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports/mocks"
)

const (
	libRoot   = "/Game/FXLib/"
	boomDest  = "/Game/FXLib/Particles/Boom"
	boomSrc   = "/Game/FX/NS_Boom"
	fireMat   = "/Game/FX/M_Fire"
	fireTex   = "/Game/FX/T_Fire"
	libMat    = "/Game/FXLib/Materials/M_Fire"
	libTex    = "/Game/FXLib/Textures/T_Fire"
	libSystem = "/Game/FXLib/Particles/Boom/NS_Boom"
)

func newTestCopier(store *mocks.MockContentStore, policy OriginPolicy) *GraphCopier {
	return NewGraphCopier(store, store, CopierOptions{OriginPolicy: policy}, quietLogger)
}

func TestGraphCopier_CopyWithReferences(t *testing.T) {
	// Setup
	store := boomProject()
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	root, err := copier.CopyWithReferences(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != handle(libSystem) {
		t.Fatalf("root = %s, want %s", root, libSystem)
	}

	sys, ok := store.Get(root)
	if !ok {
		t.Fatal("root copy not stored")
	}
	if got := rendererMaterial(sys); got != handle(libMat) {
		t.Errorf("root copy renderer material = %s, want %s", got, libMat)
	}

	mat, ok := store.Get(handle(libMat))
	if !ok {
		t.Fatal("material copy not stored")
	}
	if got := mat.Expressions[0].Texture; got != handle(libTex) {
		t.Errorf("material copy texture = %s, want %s", got, libTex)
	}
	if mat.Origin != handle(fireMat) {
		t.Errorf("material copy origin = %s", mat.Origin)
	}

	if _, ok := store.Get(handle(libTex)); !ok {
		t.Error("texture copy not stored")
	}

	// Sources stay untouched
	src, _ := store.Get(handle(boomSrc))
	if rendererMaterial(src) != handle(fireMat) {
		t.Error("source system was modified")
	}
	srcMat, _ := store.Get(handle(fireMat))
	if srcMat.Expressions[0].Texture != handle(fireTex) {
		t.Error("source material was modified")
	}
}

func TestGraphCopier_ReportAndFolders(t *testing.T) {
	store := boomProject()
	copier := newTestCopier(store, OriginByProvenance)

	report, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.OperationID == "" {
		t.Error("missing operation id")
	}
	if len(report.Copied) != 2 || len(report.Reused) != 0 || len(report.Skipped) != 0 {
		t.Errorf("report = copied %d, reused %d, skipped %d", len(report.Copied), len(report.Reused), len(report.Skipped))
	}
	// depth-first: the material is reached before its texture
	if report.Copied[0].Source != handle(fireMat) || report.Copied[1].Source != handle(fireTex) {
		t.Errorf("copy order = %+v", report.Copied)
	}
	if report.Rewritten != 2 {
		t.Errorf("rewritten = %d, want 2", report.Rewritten)
	}
	if dest, ok := report.Map.Lookup(handle(fireTex)); !ok || dest != handle(libTex) {
		t.Errorf("map entry for texture = %s, %v", dest, ok)
	}

	ensured := map[string]bool{}
	for _, p := range store.GetEnsureCalls() {
		ensured[p] = true
	}
	for _, want := range []string{"/Game/FXLib/Materials", "/Game/FXLib/Textures", boomDest} {
		if !ensured[want] {
			t.Errorf("folder %s was not ensured (calls: %v)", want, store.GetEnsureCalls())
		}
	}
}

func TestGraphCopier_PartialFailure(t *testing.T) {
	// Setup
	store := boomProject()
	store.SetDuplicateFailure(handle(fireTex), errors.New("locked"))
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	report, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("a failed dependency must not fail the copy: %v", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Handle != handle(fireTex) {
		t.Errorf("skipped = %+v", report.Skipped)
	}
	mat, _ := store.Get(handle(libMat))
	if mat.Expressions[0].Texture != handle(fireTex) {
		t.Errorf("material copy should keep the original texture, got %s", mat.Expressions[0].Texture)
	}
	sys, _ := store.Get(report.Root)
	if rendererMaterial(sys) != handle(libMat) {
		t.Errorf("root copy renderer material = %s", rendererMaterial(sys))
	}
}

func TestGraphCopier_SecondRunReusesCopies(t *testing.T) {
	// Setup
	store := boomProject()
	copier := newTestCopier(store, OriginByProvenance)
	ctx := context.Background()
	if _, err := copier.CopyWithReferences(ctx, handle(boomSrc), boomDest, "NS_Boom", libRoot); err != nil {
		t.Fatal(err)
	}
	store.Reset()

	// Execute
	report, err := copier.CopyWithReport(ctx, handle(boomSrc), boomDest, "NS_Boom", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Copied) != 0 || len(report.Reused) != 2 {
		t.Errorf("copied %d, reused %d; want 0 and 2", len(report.Copied), len(report.Reused))
	}
	calls := store.GetDuplicateCalls()
	if len(calls) != 1 || calls[0].Source != handle(boomSrc) {
		t.Fatalf("expected only the root to be duplicated, got %+v", calls)
	}
	// The root name is taken, so the new root is numbered
	if want := handle(boomDest + "/NS_Boom_01"); report.Root != want {
		t.Errorf("root = %s, want %s", report.Root, want)
	}
	sys, _ := store.Get(report.Root)
	if rendererMaterial(sys) != handle(libMat) {
		t.Errorf("second root should point at the existing material copy, got %s", rendererMaterial(sys))
	}
}

func TestGraphCopier_UnrelatedNameCollision(t *testing.T) {
	// Setup
	store := boomProject()
	store.Add(newTexture(libTex)) // an unrelated texture already sits at the target path
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	report, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	numbered := handle("/Game/FXLib/Textures/T_Fire_01")
	if dest, _ := report.Map.Lookup(handle(fireTex)); dest != numbered {
		t.Errorf("texture copy = %s, want %s", dest, numbered)
	}
	mat, _ := store.Get(handle(libMat))
	if mat.Expressions[0].Texture != numbered {
		t.Errorf("material copy texture = %s", mat.Expressions[0].Texture)
	}
}

func TestGraphCopier_SharedDependencyCopiedOnce(t *testing.T) {
	// Setup: NS -> {M_A, M_B}, both -> T_Shared
	store := mocks.NewMockContentStore()
	store.Add(newSystem("/Game/FX/NS_Twin", "/Game/FX/M_A", "/Game/FX/M_B"))
	store.Add(newMaterial("/Game/FX/M_A", "/Game/FX/T_Shared"))
	store.Add(newMaterial("/Game/FX/M_B", "/Game/FX/T_Shared"))
	store.Add(newTexture("/Game/FX/T_Shared"))
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	report, err := copier.CopyWithReport(context.Background(), handle("/Game/FX/NS_Twin"), "/Game/FXLib/Particles/Twin", "NS_Twin", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	texCopies := 0
	for _, c := range store.GetDuplicateCalls() {
		if c.Source == handle("/Game/FX/T_Shared") {
			texCopies++
		}
	}
	if texCopies != 1 {
		t.Errorf("shared texture duplicated %d times", texCopies)
	}
	shared := handle("/Game/FXLib/Textures/T_Shared")
	for _, m := range []string{"/Game/FXLib/Materials/M_A", "/Game/FXLib/Materials/M_B"} {
		obj, ok := store.Get(handle(m))
		if !ok {
			t.Fatalf("%s not copied", m)
		}
		if obj.Expressions[0].Texture != shared {
			t.Errorf("%s texture = %s", m, obj.Expressions[0].Texture)
		}
	}
	if report.Map.Len() != 3 {
		t.Errorf("map size = %d, want 3", report.Map.Len())
	}
}

func TestGraphCopier_Cycle(t *testing.T) {
	// Setup: NS -> MF_A -> MF_B -> MF_A
	store := mocks.NewMockContentStore()
	store.Add(newSystem("/Game/FX/NS_Loop", "/Game/FX/MF_A"))
	store.Add(&domain.Object{
		Handle:      handle("/Game/FX/MF_A"),
		Type:        domain.TypeMaterialFunction,
		Expressions: []domain.Expression{{Name: "Call", Kind: domain.ExprFunctionCall, Function: handle("/Game/FX/MF_B")}},
	})
	store.Add(&domain.Object{
		Handle:      handle("/Game/FX/MF_B"),
		Type:        domain.TypeMaterialFunction,
		Expressions: []domain.Expression{{Name: "Call", Kind: domain.ExprFunctionCall, Function: handle("/Game/FX/MF_A")}},
	})
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	report, err := copier.CopyWithReport(context.Background(), handle("/Game/FX/NS_Loop"), "/Game/FXLib/Particles/Loop", "NS_Loop", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Copied) != 2 {
		t.Errorf("copied = %+v", report.Copied)
	}
	a, _ := store.Get(handle("/Game/FXLib/MaterialFunction/MF_A"))
	b, _ := store.Get(handle("/Game/FXLib/MaterialFunction/MF_B"))
	if a == nil || b == nil {
		t.Fatal("function copies missing")
	}
	if a.Expressions[0].Function != b.Handle {
		t.Errorf("MF_A copy calls %s", a.Expressions[0].Function)
	}
	if b.Expressions[0].Function != a.Handle {
		t.Errorf("MF_B copy calls %s", b.Expressions[0].Function)
	}
}

func TestGraphCopier_BackReferenceToRoot(t *testing.T) {
	// Setup: the material links back to the system using it
	store := boomProject()
	mat, _ := store.Get(handle(fireMat))
	mat.Links = []domain.AssetHandle{handle(boomSrc)}
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	report, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	matCopy, _ := store.Get(handle(libMat))
	if matCopy.Links[0] != report.Root {
		t.Errorf("material copy links to %s, want the new root %s", matCopy.Links[0], report.Root)
	}
	if len(report.Copied) != 2 {
		t.Errorf("root should not be copied as a dependency: %+v", report.Copied)
	}
}

func TestGraphCopier_EngineReferencesUntouched(t *testing.T) {
	store := mocks.NewMockContentStore()
	store.Add(newMaterial("/Game/FX/M_Plain", "/Engine/EngineMaterials/T_Default"))
	store.Add(newSystem("/Game/FX/NS_Plain", "/Game/FX/M_Plain"))
	copier := newTestCopier(store, OriginByProvenance)

	report, err := copier.CopyWithReport(context.Background(), handle("/Game/FX/NS_Plain"), "/Game/FXLib/Particles/Plain", "NS_Plain", libRoot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Copied) != 1 {
		t.Errorf("copied = %+v", report.Copied)
	}
	matCopy, _ := store.Get(handle("/Game/FXLib/Materials/M_Plain"))
	if matCopy.Expressions[0].Texture != handle("/Engine/EngineMaterials/T_Default") {
		t.Errorf("engine reference changed to %s", matCopy.Expressions[0].Texture)
	}
}

func TestGraphCopier_RootFailure(t *testing.T) {
	store := boomProject()
	store.SetDuplicateFailure(handle(boomSrc), errors.New("package locked"))
	copier := newTestCopier(store, OriginByProvenance)

	root, err := copier.CopyWithReferences(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	if !errors.Is(err, domain.ErrRootCopyFailed) {
		t.Errorf("expected ErrRootCopyFailed, got %v", err)
	}
	if root.IsValid() {
		t.Errorf("expected invalid handle, got %s", root)
	}
}

func TestGraphCopier_RootFolderFailure(t *testing.T) {
	store := boomProject()
	store.SetEnsureFailure(boomDest, errors.New("read-only"))
	copier := newTestCopier(store, OriginByProvenance)

	_, err := copier.CopyWithReferences(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	if !errors.Is(err, domain.ErrRootCopyFailed) {
		t.Errorf("expected ErrRootCopyFailed, got %v", err)
	}
}

func TestGraphCopier_InvalidSource(t *testing.T) {
	copier := newTestCopier(mocks.NewMockContentStore(), OriginByProvenance)

	_, err := copier.CopyWithReferences(context.Background(), domain.AssetHandle{}, boomDest, "X", libRoot)

	if !errors.Is(err, domain.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}

func TestGraphCopier_EmptyNameUsesSourceName(t *testing.T) {
	store := boomProject()
	copier := newTestCopier(store, OriginByProvenance)

	root, err := copier.CopyWithReferences(context.Background(), handle(boomSrc), boomDest, "", libRoot)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != handle(libSystem) {
		t.Errorf("root = %s", root)
	}
}

func TestGraphCopier_ReusedLinkIsRewrittenInFreshSession(t *testing.T) {
	// Setup: the texture copy exists from an earlier session and nothing is loaded
	store := mocks.NewMockContentStore()
	sys := &domain.Object{Handle: handle(boomSrc), Type: domain.TypeNiagaraSystem, Links: []domain.AssetHandle{handle(fireTex)}}
	store.Add(sys)
	store.Add(newTexture(fireTex))
	earlier := newTexture(fireTex).DuplicateAs(handle(libTex))
	store.Add(earlier)
	copier := newTestCopier(store, OriginByProvenance)

	// Execute
	report, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Reused) != 1 || report.Reused[0].Dest != handle(libTex) {
		t.Fatalf("reused = %+v, want the earlier texture copy", report.Reused)
	}
	root, _ := store.Get(report.Root)
	if len(root.Links) != 1 || root.Links[0] != handle(libTex) {
		t.Errorf("root copy links = %v, want [%s]", root.Links, libTex)
	}
}

func TestGraphCopier_UnloadableDependencyIsSkipped(t *testing.T) {
	store := boomProject()
	store.SetLoadFailure(handle(fireTex), errors.New("corrupt package"))
	copier := newTestCopier(store, OriginByProvenance)

	report, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "NS_Boom", libRoot)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Handle != handle(fireTex) {
		t.Errorf("skipped = %+v", report.Skipped)
	}
}

func TestGraphCopier_RejectsPathAsName(t *testing.T) {
	store := boomProject()
	copier := newTestCopier(store, OriginByProvenance)

	_, err := copier.CopyWithReport(context.Background(), handle(boomSrc), boomDest, "../../NS_Boom", libRoot)

	if !errors.Is(err, domain.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
	if calls := store.GetDuplicateCalls(); len(calls) != 0 {
		t.Errorf("nothing should be duplicated, got %+v", calls)
	}
}

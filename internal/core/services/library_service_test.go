package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports/mocks"
)

func TestLibraryService_AddCategory(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		icon        string
		wantCreated bool
		wantIcon    domain.AssetHandle
		expectError bool
	}{
		{
			name:        "new category with default icon",
			category:    "Magic",
			wantCreated: true,
			wantIcon:    domain.DefaultIcon("Magic"),
		},
		{
			name:        "new category with explicit icon",
			category:    "Ice",
			icon:        "/Game/UI/Custom/T_Ice",
			wantCreated: true,
			wantIcon:    handle("/Game/UI/Custom/T_Ice"),
		},
		{
			name:        "existing category",
			category:    "Fire",
			wantCreated: false,
			wantIcon:    domain.DefaultIcon("Fire"),
		},
		{
			name:        "blank name",
			category:    "   ",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			repo := mocks.NewMockLibraryRepository()
			svc := NewLibraryService(repo, mocks.NewMockContentStore())

			// Execute
			created, err := svc.AddCategory(context.Background(), tt.category, tt.icon)

			// Assert
			if tt.expectError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created != tt.wantCreated {
				t.Errorf("created = %v, want %v", created, tt.wantCreated)
			}
			c := repo.Library().FindCategory(tt.category)
			if c == nil {
				t.Fatal("category missing after save")
			}
			if c.Icon != tt.wantIcon {
				t.Errorf("icon = %s, want %s", c.Icon, tt.wantIcon)
			}
		})
	}
}

func TestLibraryService_RemoveAndRename(t *testing.T) {
	repo := mocks.NewMockLibraryRepository()
	svc := NewLibraryService(repo, mocks.NewMockContentStore())
	ctx := context.Background()

	if err := svc.RenameCategory(ctx, "Water", "Liquid"); err != nil {
		t.Fatalf("RenameCategory() error = %v", err)
	}
	if err := svc.RenameCategory(ctx, "Liquid", "Fire"); !errors.Is(err, domain.ErrCategoryExists) {
		t.Errorf("expected ErrCategoryExists, got %v", err)
	}
	if err := svc.RemoveCategory(ctx, "Smoke"); err != nil {
		t.Fatalf("RemoveCategory() error = %v", err)
	}
	if err := svc.RemoveCategory(ctx, "Smoke"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}

	names := repo.Library().Names()
	want := []string{"Fire", "Liquid", "Electric"}
	if len(names) != len(want) {
		t.Fatalf("categories = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("category[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLibraryService_SetIcon(t *testing.T) {
	repo := mocks.NewMockLibraryRepository()
	svc := NewLibraryService(repo, mocks.NewMockContentStore())
	ctx := context.Background()

	if err := svc.SetIcon(ctx, "Fire", "/Game/UI/T_Flame"); err != nil {
		t.Fatalf("SetIcon() error = %v", err)
	}
	if got := repo.Library().FindCategory("Fire").Icon; got != handle("/Game/UI/T_Flame") {
		t.Errorf("icon = %s", got)
	}
	if err := svc.SetIcon(ctx, "Fire", ""); !errors.Is(err, domain.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
	if err := svc.SetIcon(ctx, "Nope", "/Game/UI/T_Flame"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestLibraryService_RegisterAndUnregister(t *testing.T) {
	repo := mocks.NewMockLibraryRepository()
	svc := NewLibraryService(repo, mocks.NewMockContentStore())
	ctx := context.Background()
	fx := handle("/Game/FXLib/Particles/Fire/NS_Flame")

	if err := svc.RegisterAsset(ctx, "Fire", fx); err != nil {
		t.Fatalf("RegisterAsset() error = %v", err)
	}
	if err := svc.RegisterAsset(ctx, "Fire", fx); err != nil {
		t.Fatalf("second RegisterAsset() error = %v", err)
	}
	if n := len(repo.Library().FindCategory("Fire").Assets); n != 1 {
		t.Errorf("asset registered %d times", n)
	}
	if err := svc.RegisterAsset(ctx, "Nope", fx); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}

	removed, err := svc.UnregisterAsset(ctx, "Fire", fx)
	if err != nil || removed != 1 {
		t.Errorf("UnregisterAsset() = %d, %v", removed, err)
	}
}

func TestLibraryService_Cleanup(t *testing.T) {
	// Setup
	store := mocks.NewMockContentStore()
	alive := newSystem("/Game/FXLib/Particles/Fire/NS_Flame")
	store.Add(alive)

	repo := mocks.NewMockLibraryRepository()
	svc := NewLibraryService(repo, store)
	ctx := context.Background()
	if err := svc.RegisterAsset(ctx, "Fire", alive.Handle); err != nil {
		t.Fatal(err)
	}
	if err := svc.RegisterAsset(ctx, "Water", handle("/Game/FXLib/Particles/Water/NS_Gone")); err != nil {
		t.Fatal(err)
	}

	// Execute
	resp, err := svc.Cleanup(ctx, CleanupRequest{RemoveEmptyCategories: true})

	// Assert
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if resp.InvalidAssets != 1 {
		t.Errorf("invalid assets = %d, want 1", resp.InvalidAssets)
	}
	if resp.EmptyCategories != 3 {
		t.Errorf("empty categories = %d, want 3", resp.EmptyCategories)
	}
	names := repo.Library().Names()
	if len(names) != 1 || names[0] != "Fire" {
		t.Errorf("categories after cleanup = %v", names)
	}
}

func TestLibraryService_SaveFailure(t *testing.T) {
	repo := mocks.NewMockLibraryRepository()
	repo.SetShouldFail(nil, errors.New("disk full"))
	svc := NewLibraryService(repo, mocks.NewMockContentStore())

	if _, err := svc.AddCategory(context.Background(), "Magic", ""); err == nil {
		t.Error("expected save error")
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports/mocks"
)

func TestDestinationFolder(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		category string
		tag      domain.TypeTag
		expected string
	}{
		{"material", "/Game/FXLib/", "", domain.TypeMaterial, "/Game/FXLib/Materials"},
		{"material instance", "/Game/FXLib/", "", domain.TypeMaterialInstanceConstant, "/Game/FXLib/Materials"},
		{"texture", "/Game/FXLib", "", domain.TypeTexture2D, "/Game/FXLib/Textures"},
		{"mesh", "/Game/FXLib/", "", domain.TypeSkeletalMesh, "/Game/FXLib/Meshes"},
		{"vector field", "/Game/FXLib/", "", domain.TypeVectorFieldStatic, "/Game/FXLib/VectorFields"},
		{"niagara script", "/Game/FXLib/", "", domain.TypeNiagaraScript, "/Game/FXLib/NiagaraScripts"},
		{"system with category", "/Game/FXLib/", "Fire", domain.TypeNiagaraSystem, "/Game/FXLib/Particles/Fire"},
		{"unlisted type uses tag", "/Game/FXLib/", "", domain.TypeTag("SoundWave"), "/Game/FXLib/SoundWave"},
		{"category ignored for textures", "/Game/FXLib/", "Fire", domain.TypeTexture, "/Game/FXLib/Textures"},
		{"backslashes", "\\Game\\FXLib\\", "", domain.TypeMaterial, "/Game/FXLib/Materials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DestinationFolder(tt.root, tt.category, tt.tag); got != tt.expected {
				t.Errorf("DestinationFolder() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeFolder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/Game/FX", "/Game/FX"},
		{"/Game/FX/", "/Game/FX"},
		{"Game/FX", "/Game/FX"},
		{"FX\\Textures//", "/Game/FX/Textures"},
		{"FX", "/Game/FX"},
		{"", "/Game"},
		{"/Game", "/Game"},
		{"Game", "/Game"},
		{"/GameExtra/FX", "/Game/GameExtra/FX"},
		{"  /Game/FX  ", "/Game/FX"},
		{"/Game/FX/../../Engine", "/Game/Engine"},
		{"../../tmp", "/Game/tmp"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeFolder(tt.input); got != tt.expected {
				t.Errorf("NormalizeFolder(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFolderPolicy_EnsureFolderExists(t *testing.T) {
	// Setup
	store := mocks.NewMockContentStore()
	policy := NewFolderPolicy(store)
	ctx := context.Background()

	// Execute
	err := policy.EnsureFolderExists(ctx, "FXLib/Textures/")
	if err == nil {
		err = policy.EnsureFolderExists(ctx, "/Game/FXLib/Textures")
	}

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := store.GetEnsureCalls()
	if len(calls) != 2 || calls[0] != "/Game/FXLib/Textures" || calls[1] != "/Game/FXLib/Textures" {
		t.Errorf("EnsureDirectory calls = %v", calls)
	}
}

func TestFolderPolicy_EnsureFolderExistsFailure(t *testing.T) {
	store := mocks.NewMockContentStore()
	cause := errors.New("read-only")
	store.SetEnsureFailure("/Game/Locked", cause)

	err := NewFolderPolicy(store).EnsureFolderExists(context.Background(), "/Game/Locked")
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

package services

import (
	"io"
	"log/slog"

	"github.com/kamal-hamza/fxlib/internal/core/domain"
	"github.com/kamal-hamza/fxlib/internal/core/ports/mocks"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func handle(raw string) domain.AssetHandle {
	return domain.ParseHandle(raw)
}

func newTexture(path string) *domain.Object {
	return &domain.Object{Handle: handle(path), Type: domain.TypeTexture2D}
}

func newMaterial(path string, textures ...string) *domain.Object {
	obj := &domain.Object{Handle: handle(path), Type: domain.TypeMaterial}
	for i, tex := range textures {
		obj.Expressions = append(obj.Expressions, domain.Expression{
			Name:    "Sample" + string(rune('A'+i)),
			Kind:    domain.ExprTextureSample,
			Texture: handle(tex),
		})
	}
	return obj
}

func newSystem(path string, materials ...string) *domain.Object {
	obj := &domain.Object{Handle: handle(path), Type: domain.TypeNiagaraSystem}
	emitter := domain.Emitter{Name: "Core"}
	for i, mat := range materials {
		emitter.Renderers = append(emitter.Renderers, domain.Renderer{
			Name: "Sprite" + string(rune('A'+i)),
			Properties: []domain.Property{
				{Name: "Material", Kind: domain.KindRef, Ref: handle(mat)},
			},
		})
	}
	obj.Emitters = []domain.Emitter{emitter}
	return obj
}

// boomProject stores NS_Boom -> M_Fire -> T_Fire below /Game/FX
func boomProject() *mocks.MockContentStore {
	store := mocks.NewMockContentStore()
	store.Add(newSystem("/Game/FX/NS_Boom", "/Game/FX/M_Fire"))
	store.Add(newMaterial("/Game/FX/M_Fire", "/Game/FX/T_Fire"))
	store.Add(newTexture("/Game/FX/T_Fire"))
	return store
}

// rendererMaterial returns the material referenced by the first renderer
func rendererMaterial(obj *domain.Object) domain.AssetHandle {
	return obj.Emitters[0].Renderers[0].Properties[0].Ref
}

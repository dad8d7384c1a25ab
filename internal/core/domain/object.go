package domain

import "fmt"

// PropertyKind classifies a reflected field
type PropertyKind string

const (
	KindScalar   PropertyKind = "scalar"
	KindRef      PropertyKind = "ref"       // single hard reference
	KindRefArray PropertyKind = "ref_array" // array of hard references
	KindSoftRef  PropertyKind = "soft_ref"  // lazily resolved, not a hard dependency
)

// ExpressionKind is the node class of a material graph expression
type ExpressionKind string

const (
	ExprFunctionCall           ExpressionKind = "FunctionCall"
	ExprTextureSample          ExpressionKind = "TextureSample"
	ExprTextureSampleParameter ExpressionKind = "TextureSampleParameter"
)

// Property is one top-level reflected field of an object
type Property struct {
	Name  string        `yaml:"name"`
	Kind  PropertyKind  `yaml:"kind"`
	Value string        `yaml:"value,omitempty"`
	Ref   AssetHandle   `yaml:"ref,omitempty"`
	Refs  []AssetHandle `yaml:"refs,omitempty"`
}

// Renderer is a renderer module of a particle emitter
type Renderer struct {
	Name       string     `yaml:"name"`
	Properties []Property `yaml:"properties,omitempty"`
}

// Emitter is one emitter handle of a particle system
type Emitter struct {
	Name      string     `yaml:"name"`
	Renderers []Renderer `yaml:"renderers,omitempty"`
}

// Expression is a node of a material graph
type Expression struct {
	Name      string         `yaml:"name"`
	Kind      ExpressionKind `yaml:"kind"`
	Function  AssetHandle    `yaml:"function,omitempty"`
	Texture   AssetHandle    `yaml:"texture,omitempty"`
	Parameter string         `yaml:"parameter,omitempty"`
}

// FunctionInfo is an entry of a material's cached function table
type FunctionInfo struct {
	Function AssetHandle `yaml:"function"`
	StateID  string      `yaml:"state_id,omitempty"`
}

// ParameterOverride is a texture or function override on a material instance
type ParameterOverride struct {
	Name  string      `yaml:"name"`
	Value AssetHandle `yaml:"value"`
}

// Object is the loaded form of an asset document
type Object struct {
	Handle AssetHandle `yaml:"handle"`
	Type   TypeTag     `yaml:"type"`
	// Origin is the source this object was duplicated from. Empty for originals.
	Origin AssetHandle `yaml:"origin,omitempty"`

	Properties []Property `yaml:"properties,omitempty"`

	// NiagaraSystem
	Emitters []Emitter `yaml:"emitters,omitempty"`

	// Material, MaterialFunction and instances
	Expressions        []Expression        `yaml:"expressions,omitempty"`
	FunctionInfos      []FunctionInfo      `yaml:"function_infos,omitempty"`
	Parent             AssetHandle         `yaml:"parent,omitempty"`
	TextureParameters  []ParameterOverride `yaml:"texture_parameters,omitempty"`
	FunctionParameters []ParameterOverride `yaml:"function_parameters,omitempty"`

	// Links are embedded object references not exposed as fields
	Links []AssetHandle `yaml:"links,omitempty"`
}

// RefSlot addresses one reference-typed field of an object
type RefSlot struct {
	Field string
	Ref   *AssetHandle
	Soft  bool
}

// Clone returns a deep copy
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := *o
	c.Properties = cloneProperties(o.Properties)
	if o.Emitters != nil {
		c.Emitters = make([]Emitter, len(o.Emitters))
		for i, e := range o.Emitters {
			c.Emitters[i] = Emitter{Name: e.Name}
			if e.Renderers != nil {
				c.Emitters[i].Renderers = make([]Renderer, len(e.Renderers))
				for j, r := range e.Renderers {
					c.Emitters[i].Renderers[j] = Renderer{Name: r.Name, Properties: cloneProperties(r.Properties)}
				}
			}
		}
	}
	c.Expressions = append([]Expression(nil), o.Expressions...)
	c.FunctionInfos = append([]FunctionInfo(nil), o.FunctionInfos...)
	c.TextureParameters = append([]ParameterOverride(nil), o.TextureParameters...)
	c.FunctionParameters = append([]ParameterOverride(nil), o.FunctionParameters...)
	c.Links = append([]AssetHandle(nil), o.Links...)
	return &c
}

func cloneProperties(props []Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p
		out[i].Refs = append([]AssetHandle(nil), p.Refs...)
	}
	return out
}

// PropertySlots returns the reference slots of a property list
func PropertySlots(prefix string, props []Property) []RefSlot {
	var slots []RefSlot
	for i := range props {
		p := &props[i]
		switch p.Kind {
		case KindRef, KindSoftRef:
			slots = append(slots, RefSlot{
				Field: prefix + p.Name,
				Ref:   &p.Ref,
				Soft:  p.Kind == KindSoftRef,
			})
		case KindRefArray:
			for j := range p.Refs {
				slots = append(slots, RefSlot{
					Field: fmt.Sprintf("%s%s[%d]", prefix, p.Name, j),
					Ref:   &p.Refs[j],
				})
			}
		}
	}
	return slots
}

// RendererSlots walks every renderer of every emitter
func (o *Object) RendererSlots() []RefSlot {
	var slots []RefSlot
	for i := range o.Emitters {
		e := &o.Emitters[i]
		for j := range e.Renderers {
			r := &e.Renderers[j]
			prefix := fmt.Sprintf("emitters.%s.renderers.%s.", e.Name, r.Name)
			slots = append(slots, PropertySlots(prefix, r.Properties)...)
		}
	}
	return slots
}

// ExpressionSlots returns the referencing slots of material expressions
func (o *Object) ExpressionSlots() []RefSlot {
	var slots []RefSlot
	for i := range o.Expressions {
		x := &o.Expressions[i]
		switch x.Kind {
		case ExprFunctionCall:
			slots = append(slots, RefSlot{Field: "expressions." + x.Name + ".function", Ref: &x.Function})
		case ExprTextureSample, ExprTextureSampleParameter:
			slots = append(slots, RefSlot{Field: "expressions." + x.Name + ".texture", Ref: &x.Texture})
		}
	}
	return slots
}

// FunctionInfoSlots returns the cached function table entries
func (o *Object) FunctionInfoSlots() []RefSlot {
	slots := make([]RefSlot, 0, len(o.FunctionInfos))
	for i := range o.FunctionInfos {
		slots = append(slots, RefSlot{
			Field: fmt.Sprintf("function_infos[%d]", i),
			Ref:   &o.FunctionInfos[i].Function,
		})
	}
	return slots
}

// InstanceSlots returns parent and parameter override slots
func (o *Object) InstanceSlots() []RefSlot {
	slots := []RefSlot{{Field: "parent", Ref: &o.Parent}}
	for i := range o.TextureParameters {
		slots = append(slots, RefSlot{
			Field: "texture_parameters." + o.TextureParameters[i].Name,
			Ref:   &o.TextureParameters[i].Value,
		})
	}
	for i := range o.FunctionParameters {
		slots = append(slots, RefSlot{
			Field: "function_parameters." + o.FunctionParameters[i].Name,
			Ref:   &o.FunctionParameters[i].Value,
		})
	}
	return slots
}

// LinkSlots returns the raw embedded links
func (o *Object) LinkSlots() []RefSlot {
	slots := make([]RefSlot, 0, len(o.Links))
	for i := range o.Links {
		slots = append(slots, RefSlot{Field: fmt.Sprintf("links[%d]", i), Ref: &o.Links[i]})
	}
	return slots
}

// AllSlots enumerates every reference slot of the object, regardless of type
func (o *Object) AllSlots() []RefSlot {
	var slots []RefSlot
	slots = append(slots, PropertySlots("", o.Properties)...)
	slots = append(slots, o.RendererSlots()...)
	slots = append(slots, o.ExpressionSlots()...)
	slots = append(slots, o.FunctionInfoSlots()...)
	slots = append(slots, o.InstanceSlots()...)
	slots = append(slots, o.LinkSlots()...)
	return slots
}

// HardDependencies returns every distinct hard reference of the object in
// first-seen order, excluding itself and soft references.
func (o *Object) HardDependencies() []AssetHandle {
	seen := make(map[AssetHandle]bool)
	var deps []AssetHandle
	for _, slot := range o.AllSlots() {
		h := *slot.Ref
		if slot.Soft || !h.IsValid() || h == o.Handle || seen[h] {
			continue
		}
		seen[h] = true
		deps = append(deps, h)
	}
	return deps
}

// DuplicateAs returns a deep copy living at h. Internal references to the
// original are moved to the copy and the original is recorded as origin.
func (o *Object) DuplicateAs(h AssetHandle) *Object {
	c := o.Clone()
	c.Handle = h
	c.Origin = o.Handle
	for _, slot := range c.AllSlots() {
		if *slot.Ref == o.Handle {
			*slot.Ref = h
		}
	}
	return c
}

package services

import (
	"github.com/kamal-hamza/fxlib/internal/core/domain"
)

// FieldVisitor yields the reference slots of one structural part of an object
type FieldVisitor struct {
	Name  string
	Slots func(o *domain.Object) []domain.RefSlot
}

var (
	propertyVisitor = FieldVisitor{
		Name: "properties",
		Slots: func(o *domain.Object) []domain.RefSlot {
			return domain.PropertySlots("", o.Properties)
		},
	}
	rendererVisitor     = FieldVisitor{Name: "renderers", Slots: (*domain.Object).RendererSlots}
	expressionVisitor   = FieldVisitor{Name: "expressions", Slots: (*domain.Object).ExpressionSlots}
	functionInfoVisitor = FieldVisitor{Name: "function_infos", Slots: (*domain.Object).FunctionInfoSlots}
	instanceVisitor     = FieldVisitor{Name: "instance", Slots: (*domain.Object).InstanceSlots}
	linkVisitor         = FieldVisitor{Name: "links", Slots: (*domain.Object).LinkSlots}
)

var genericVisitors = []FieldVisitor{propertyVisitor}

var materialVisitors = []FieldVisitor{propertyVisitor, expressionVisitor, functionInfoVisitor}

var instanceVisitors = []FieldVisitor{propertyVisitor, expressionVisitor, functionInfoVisitor, instanceVisitor}

// visitorTable routes each type tag to the parts of an object that carry references.
// Tags without an entry use genericVisitors.
var visitorTable = map[domain.TypeTag][]FieldVisitor{
	domain.TypeNiagaraSystem:            {propertyVisitor, rendererVisitor},
	domain.TypeMaterial:                 materialVisitors,
	domain.TypeMaterialFunction:         materialVisitors,
	domain.TypeMaterialInstance:         instanceVisitors,
	domain.TypeMaterialInstanceConstant: instanceVisitors,
}

// VisitorsFor returns the visitors registered for tag
func VisitorsFor(tag domain.TypeTag) []FieldVisitor {
	if v, ok := visitorTable[tag]; ok {
		return v
	}
	return genericVisitors
}

// sweepVisitors covers every structure of an object, used after the typed pass
var sweepVisitors = []FieldVisitor{
	propertyVisitor,
	rendererVisitor,
	expressionVisitor,
	functionInfoVisitor,
	instanceVisitor,
	linkVisitor,
}

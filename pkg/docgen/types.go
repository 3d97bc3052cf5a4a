package docgen

import (
	"encoding/json"
	"fmt"
)

// PropType is the declared type of a property: a single constructor name or
// a list of alternatives. A nil *PropType means the property has no type.
type PropType struct {
	Literal      string   `msgpack:"literal,omitempty"`
	Alternatives []string `msgpack:"alternatives,omitempty"`
}

// LiteralType returns a single-name property type.
func LiteralType(name string) *PropType {
	return &PropType{Literal: name}
}

// UnionType returns a property type with alternatives.
func UnionType(names ...string) *PropType {
	return &PropType{Alternatives: names}
}

// IsUnion reports whether t lists alternatives.
func (t *PropType) IsUnion() bool {
	return t != nil && t.Alternatives != nil
}

// Names returns the type names, one for a literal type.
func (t *PropType) Names() []string {
	if t == nil {
		return nil
	}
	if t.IsUnion() {
		return t.Alternatives
	}
	return []string{t.Literal}
}

// MarshalJSON encodes a literal type as a string and a union as an array.
func (t PropType) MarshalJSON() ([]byte, error) {
	if t.Alternatives != nil {
		return json.Marshal(t.Alternatives)
	}
	return json.Marshal(t.Literal)
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (t *PropType) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		*t = PropType{Literal: literal}
		return nil
	}
	var alts []string
	if err := json.Unmarshal(data, &alts); err != nil {
		return fmt.Errorf("prop type must be a string or a string array: %w", err)
	}
	if alts == nil {
		alts = []string{}
	}
	*t = PropType{Alternatives: alts}
	return nil
}

// Property is a component input.
type Property struct {
	Name          string    `json:"name"`
	Type          *PropType `json:"type"`
	TypeDesc      []string  `json:"typeDesc,omitempty"`
	Required      *bool     `json:"required,omitempty"`
	Default       *string   `json:"default,omitempty"`
	DefaultDesc   []string  `json:"defaultDesc,omitempty"`
	Validator     string    `json:"validator,omitempty"`
	ValidatorDesc []string  `json:"validatorDesc,omitempty"`
	Description   []string  `json:"describe,omitempty"`
}

// IsRequired reports the required flag, false when unset.
func (p Property) IsRequired() bool {
	return p.Required != nil && *p.Required
}

// Event is something the component emits. Sync events follow the
// "update:<prop>" naming convention and pair with the property SyncProp.
type Event struct {
	Name        string   `json:"name"`
	IsSync      bool     `json:"isSync"`
	SyncProp    string   `json:"syncProp"`
	Description []string `json:"describe,omitempty"`
	Params      []string `json:"argumentsDesc,omitempty"`
}

// SlotOrigin records where a slot was declared.
type SlotOrigin string

const (
	OriginTemplate SlotOrigin = "template"
	OriginScript   SlotOrigin = "script"
)

// Slot is a content distribution outlet.
type Slot struct {
	Name        string            `json:"name"`
	Description string            `json:"describe"`
	BackerDesc  string            `json:"backerDesc"`
	Bindings    map[string]string `json:"bindings"`
	Scoped      bool              `json:"scoped"`
	Origin      SlotOrigin        `json:"target"`
}

// Method is a documented component method.
type Method struct {
	Name        string   `json:"name"`
	Description []string `json:"describe,omitempty"`
	Params      []string `json:"argumentsDesc,omitempty"`
}

// Computed is a documented computed value. FromStore is set when the value
// is read from a centralized store.
type Computed struct {
	Name        string   `json:"name"`
	Type        []string `json:"type,omitempty"`
	Description []string `json:"describe,omitempty"`
	FromStore   bool     `json:"isFromStore"`
}

// Data is a documented reactive data field.
type Data struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description []string `json:"describe,omitempty"`
	Default     string   `json:"default"`
}

// Watch is a documented watcher.
type Watch struct {
	Name        string   `json:"name"`
	Description []string `json:"describe,omitempty"`
	Params      []string `json:"argumentsDesc,omitempty"`
}

// Mixin is a mixin the component pulls in. Source is the module the mixin
// was imported from, when known.
type Mixin struct {
	Name   string `json:"mixIn"`
	Source string `json:"source,omitempty"`
}

// Getter is a documented store getter.
type Getter struct {
	Name        string   `json:"name"`
	Type        []string `json:"type,omitempty"`
	Description []string `json:"describe,omitempty"`
}

// Action is a documented store action.
type Action struct {
	Name        string   `json:"name"`
	Description []string `json:"describe,omitempty"`
	Params      []string `json:"argumentsDesc,omitempty"`
}

// Mutation is a documented store mutation.
type Mutation struct {
	Name        string   `json:"name"`
	Description []string `json:"describe,omitempty"`
	Params      []string `json:"argumentsDesc,omitempty"`
}

// State is a documented store state field.
type State struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description []string `json:"describe,omitempty"`
	Default     string   `json:"default"`
}

// Shape names the authoring style a component definition was written in.
type Shape int

const (
	// ShapeObject is a default-exported options object, possibly wrapped
	// in defineComponent or Vue.extend
	ShapeObject Shape = iota
	// ShapeClass is a decorated class
	ShapeClass
	// ShapeRender is a render option or method
	ShapeRender
)

// String returns the string representation of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeClass:
		return "class"
	case ShapeRender:
		return "render"
	default:
		return "unknown"
	}
}

// Component holds component-level facts.
type Component struct {
	Name        string   `json:"name,omitempty"`
	Description []string `json:"describe,omitempty"`
	// Style is "object" or "class", empty when no definition was found
	Style string `json:"style,omitempty"`
	// Functional is set for functional components and for render
	// functions reading children from their context argument
	Functional bool `json:"functional,omitempty"`
}

// Result is everything extracted from one component. A nil list means the
// component declares nothing of that kind. A Result is never modified after
// Parse returns it.
type Result struct {
	Component Component  `json:"component"`
	Props     []Property `json:"props,omitempty"`
	Events    []Event    `json:"events,omitempty"`
	Slots     []Slot     `json:"slots,omitempty"`
	Methods   []Method   `json:"methods,omitempty"`
	Computed  []Computed `json:"computed,omitempty"`
	Data      []Data     `json:"data,omitempty"`
	Watch     []Watch    `json:"watch,omitempty"`
	Mixins    []Mixin    `json:"mixIns,omitempty"`
	Getters   []Getter   `json:"getters,omitempty"`
	Actions   []Action   `json:"actions,omitempty"`
	Mutations []Mutation `json:"mutations,omitempty"`
	State     []State    `json:"state,omitempty"`
}

// IsEmpty reports whether nothing at all was extracted.
func (r *Result) IsEmpty() bool {
	return r.Component.Name == "" && len(r.Component.Description) == 0 && r.Component.Style == "" &&
		len(r.Props) == 0 && len(r.Events) == 0 && len(r.Slots) == 0 &&
		len(r.Methods) == 0 && len(r.Computed) == 0 && len(r.Data) == 0 &&
		len(r.Watch) == 0 && len(r.Mixins) == 0 && len(r.Getters) == 0 &&
		len(r.Actions) == 0 && len(r.Mutations) == 0 && len(r.State) == 0
}

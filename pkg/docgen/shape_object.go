package docgen

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// objectRecognizer handles the members of options objects.
type objectRecognizer struct {
	c *scriptContext
}

func (r objectRecognizer) extract(n *ts.Node) *partial {
	switch n.Kind() {
	case "pair", "method_definition", "shorthand_property_identifier":
	default:
		return nil
	}
	if !r.c.isOption(n) {
		return nil
	}

	c := r.c
	value := memberValue(n)
	switch keyName(n, c.source) {
	case "name":
		if s, ok := stringValue(value, c.source); ok {
			return &partial{name: s}
		}
	case "functional":
		if kindOf(value) == "true" {
			return &partial{functional: true}
		}
	case "props":
		return &partial{props: c.props(value)}
	case "mixins":
		return &partial{mixins: c.mixinList(value)}
	case "computed":
		return &partial{computed: c.computedMembers(n, value)}
	case "data":
		return &partial{data: c.dataMembers(n)}
	case "state":
		var state []State
		for _, d := range c.dataMembers(n) {
			state = append(state, State(d))
		}
		return &partial{state: state}
	case "methods":
		var methods []Method
		c.documented(value, func(name string, bag AnnotationBag) {
			methods = append(methods, Method{Name: name, Description: bag.Description, Params: bag.Params})
		})
		return &partial{methods: methods}
	case "watch":
		var watch []Watch
		c.documented(value, func(name string, bag AnnotationBag) {
			watch = append(watch, Watch{Name: name, Description: bag.Description, Params: bag.Params})
		})
		return &partial{watch: watch}
	case "actions":
		var actions []Action
		c.documented(value, func(name string, bag AnnotationBag) {
			actions = append(actions, Action{Name: name, Description: bag.Description, Params: bag.Params})
		})
		return &partial{actions: actions}
	case "mutations":
		var mutations []Mutation
		c.documented(value, func(name string, bag AnnotationBag) {
			mutations = append(mutations, Mutation{Name: name, Description: bag.Description, Params: bag.Params})
		})
		return &partial{mutations: mutations}
	case "getters":
		var getters []Getter
		c.documented(value, func(name string, bag AnnotationBag) {
			getters = append(getters, Getter{Name: name, Type: bag.Type, Description: bag.Description})
		})
		return &partial{getters: getters}
	}
	return nil
}

// props reads the props option: an array of names or an object of
// per-property declarations.
func (c *scriptContext) props(value *ts.Node) []Property {
	var props []Property
	switch kindOf(value) {
	case "array":
		for _, el := range namedChildren(value) {
			if name, ok := stringValue(el, c.source); ok {
				props = append(props, Property{Name: name})
			}
		}
	case "object":
		for _, m := range objectMembers(value) {
			switch m.Kind() {
			case "pair":
				p := Property{
					Name:        keyName(m, c.source),
					Description: c.comments.Describe(m).Description,
				}
				c.applyPropValue(field(m, "value"), &p)
				props = append(props, p)
			case "shorthand_property_identifier":
				props = append(props, Property{
					Name:        nodeText(m, c.source),
					Description: c.comments.Describe(m).Description,
				})
			}
		}
	}
	return props
}

func (c *scriptContext) mixinList(value *ts.Node) []Mixin {
	if kindOf(value) != "array" {
		return nil
	}
	var mixins []Mixin
	for _, el := range namedChildren(value) {
		el = unwrap(el)
		switch el.Kind() {
		case "identifier":
			name := nodeText(el, c.source)
			mixins = append(mixins, Mixin{Name: name, Source: c.imports[name]})
		case "member_expression":
			mixins = append(mixins, Mixin{Name: nodeText(el, c.source)})
		}
	}
	return mixins
}

// computedMembers reads the computed option. A spread of a store-mapping
// helper contributes one store-derived member per mapped name; the whole
// option may also be a single helper call.
func (c *scriptContext) computedMembers(option, value *ts.Node) []Computed {
	var computed []Computed
	switch kindOf(value) {
	case "call_expression":
		bag := c.comments.Extract(option)
		if !bag.Marked || !storeHelpers[calleeName(value, c.source)] {
			return nil
		}
		names, _ := storeMappedNames(value, c.source)
		for _, name := range names {
			computed = append(computed, Computed{Name: name, Type: bag.Type, Description: bag.Description, FromStore: true})
		}
		return computed
	case "object":
	default:
		return nil
	}

	for _, m := range objectMembers(value) {
		bag := c.comments.Extract(m)
		if !bag.Marked {
			continue
		}
		if m.Kind() == "spread_element" {
			names, ok := storeMappedNames(m, c.source)
			if !ok {
				continue
			}
			for _, name := range names {
				computed = append(computed, Computed{Name: name, Type: bag.Type, Description: bag.Description, FromStore: true})
			}
			continue
		}
		computed = append(computed, Computed{
			Name:        keyName(m, c.source),
			Type:        bag.Type,
			Description: bag.Description,
			FromStore:   computesFromStore(m, c.source),
		})
	}
	return computed
}

// dataObjects returns the object literals a data-like member provides:
// the object itself, or the objects its function returns.
func dataObjects(member *ts.Node) []*ts.Node {
	v := memberValue(member)
	if kindOf(v) == "object" {
		return []*ts.Node{v}
	}
	if !isFunction(v) && kindOf(v) != "method_definition" {
		return nil
	}
	var out []*ts.Node
	for _, ret := range returnedExpressions(v) {
		if ret.Kind() == "object" {
			out = append(out, ret)
		}
	}
	return out
}

// dataMembers reads the marked members of a data or state declaration.
// Members repeated across several return statements are reported once.
func (c *scriptContext) dataMembers(member *ts.Node) []Data {
	var data []Data
	seen := make(registry)
	for _, obj := range dataObjects(member) {
		for _, m := range objectMembers(obj) {
			if m.Kind() == "spread_element" {
				continue
			}
			bag := c.comments.Extract(m)
			if !bag.Marked {
				continue
			}
			name := keyName(m, c.source)
			if seen.seen(name) {
				continue
			}
			v := memberValue(m)
			if m.Kind() == "shorthand_property_identifier" {
				v = m
			}
			data = append(data, Data{
				Name:        name,
				Type:        valueType(v, c.source),
				Description: bag.Description,
				Default:     valueText(v, c.source),
			})
		}
	}
	return data
}

// documented calls fn for every marked member of an object option.
func (c *scriptContext) documented(obj *ts.Node, fn func(name string, bag AnnotationBag)) {
	if kindOf(obj) != "object" {
		return
	}
	for _, m := range objectMembers(obj) {
		if m.Kind() == "spread_element" {
			continue
		}
		bag := c.comments.Extract(m)
		if !bag.Marked {
			continue
		}
		fn(keyName(m, c.source), bag)
	}
}

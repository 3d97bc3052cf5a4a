package docgen

// registry is a per-parse set of names already emitted.
type registry map[string]struct{}

// seen marks name and reports whether it was marked before.
func (r registry) seen(name string) bool {
	if _, ok := r[name]; ok {
		return true
	}
	r[name] = struct{}{}
	return false
}

// partial is what one recognizer contributes for one node.
type partial struct {
	name        string
	description []string
	style       Shape
	hasStyle    bool
	functional  bool

	props     []Property
	events    []Event
	slots     []Slot
	methods   []Method
	computed  []Computed
	data      []Data
	watch     []Watch
	mixins    []Mixin
	getters   []Getter
	actions   []Action
	mutations []Mutation
	state     []State
}

// aggregator collects partials from both visitors. It owns the dedup
// registries and the slot buffers; finish applies the slot merge and hands
// out the Result.
type aggregator struct {
	opts Options

	seenEvents      registry
	seenScriptSlots registry

	templateSlots []Slot
	scriptSlots   []Slot

	res Result
}

func newAggregator(opts Options) *aggregator {
	return &aggregator{
		opts:            opts,
		seenEvents:      make(registry),
		seenScriptSlots: make(registry),
	}
}

func (a *aggregator) merge(p *partial) {
	if p == nil {
		return
	}
	if p.name != "" && a.res.Component.Name == "" {
		a.res.Component.Name = p.name
	}
	if len(p.description) > 0 && len(a.res.Component.Description) == 0 {
		a.res.Component.Description = p.description
	}
	if p.hasStyle && a.res.Component.Style == "" {
		a.res.Component.Style = p.style.String()
	}
	if p.functional {
		a.res.Component.Functional = true
	}

	for _, ev := range p.events {
		// excluded sync events still claim their name
		if ev.Name == "" || a.seenEvents.seen(ev.Name) {
			continue
		}
		if ev.IsSync && !a.opts.IncludeSyncEvents {
			continue
		}
		a.res.Events = append(a.res.Events, ev)
	}

	for _, s := range p.slots {
		if s.Origin == OriginTemplate {
			a.templateSlots = append(a.templateSlots, s)
			continue
		}
		if s.Name == "" || a.seenScriptSlots.seen(s.Name) {
			continue
		}
		a.scriptSlots = append(a.scriptSlots, s)
	}

	a.res.Props = append(a.res.Props, p.props...)
	a.res.Methods = append(a.res.Methods, p.methods...)
	a.res.Computed = append(a.res.Computed, p.computed...)
	a.res.Data = append(a.res.Data, p.data...)
	a.res.Watch = append(a.res.Watch, p.watch...)
	a.res.Mixins = append(a.res.Mixins, p.mixins...)
	a.res.Getters = append(a.res.Getters, p.getters...)
	a.res.Actions = append(a.res.Actions, p.actions...)
	a.res.Mutations = append(a.res.Mutations, p.mutations...)
	a.res.State = append(a.res.State, p.state...)
}

// finish merges slots and returns the result. Template slots come first and
// are deduplicated by name; a script slot survives only when no template
// slot has its name.
func (a *aggregator) finish() *Result {
	res := a.res

	var slots []Slot
	declared := make(registry)
	for _, s := range a.templateSlots {
		if declared.seen(s.Name) {
			continue
		}
		slots = append(slots, s)
	}
	for _, s := range a.scriptSlots {
		if _, ok := declared[s.Name]; ok {
			continue
		}
		slots = append(slots, s)
	}
	res.Slots = slots

	return &res
}

package docgen

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/parser/queries"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return NewEngine(pm, qm, logger, opts)
}

func parseSource(t *testing.T, filename, source string) *Result {
	t.Helper()
	return parseSourceWith(t, DefaultOptions(), filename, source)
}

func parseSourceWith(t *testing.T, opts Options, filename, source string) *Result {
	t.Helper()
	res, err := newTestEngine(t, opts).ParseSource([]byte(source), filename)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// ===========================================================================
// OPTIONS OBJECT
// ===========================================================================

func TestParse_ArrayProps(t *testing.T) {
	res := parseSource(t, "List.js", `export default {
  props: ['a', 'b']
}`)

	require.Len(t, res.Props, 2)
	for i, name := range []string{"a", "b"} {
		p := res.Props[i]
		assert.Equal(t, name, p.Name)
		assert.Nil(t, p.Type, "array props have no type")
		assert.Nil(t, p.Required, "array props leave required unset")
		assert.Nil(t, p.Default, "array props have no default")
	}
	assert.Equal(t, "object", res.Component.Style)
}

func TestParse_ObjectProps(t *testing.T) {
	res := parseSource(t, "Button.js", `export default {
  name: 'MyButton',
  props: {
    // The size of the button
    size: {
      type: String,
      default: 'small',
      validator: v => ['small', 'large'].includes(v)
    },
    disabled: Boolean,
    items: {
      type: [Array, Object],
      required: true,
      default: () => []
    },
    onClick: {
      type: Function,
      default: () => {}
    }
  }
}`)

	assert.Equal(t, "MyButton", res.Component.Name)
	require.Len(t, res.Props, 4)

	size := res.Props[0]
	assert.Equal(t, "size", size.Name)
	assert.Equal(t, LiteralType("String"), size.Type)
	require.NotNil(t, size.Default)
	assert.Equal(t, "small", *size.Default)
	assert.Equal(t, "v => ['small', 'large'].includes(v)", size.Validator)
	assert.Equal(t, []string{"The size of the button"}, size.Description)
	assert.False(t, size.IsRequired())

	disabled := res.Props[1]
	assert.Equal(t, LiteralType("Boolean"), disabled.Type)
	assert.Nil(t, disabled.Description)

	items := res.Props[2]
	assert.Equal(t, UnionType("Array", "Object"), items.Type)
	assert.True(t, items.IsRequired())
	require.NotNil(t, items.Default)
	assert.Equal(t, "[]", *items.Default)

	onClick := res.Props[3]
	require.NotNil(t, onClick.Default)
	assert.Equal(t, "() => {}", *onClick.Default, "function defaults of Function props keep their source")
}

func TestParse_GatedMembers(t *testing.T) {
	res := parseSource(t, "Counter.js", `import { mapState, mapGetters } from 'vuex'

export default {
  data() {
    return {
      /**
       * @vuese
       * Current count
       */
      count: 0,
      hidden: 'x'
    }
  },
  computed: {
    /**
     * @vuese
     * Count from the store
     */
    storeCount() {
      return this.$store.state.count
    },
    // @vuese
    // Doubled
    double() {
      return 2
    },
    ...mapGetters(['plain']),
    // @vuese
    ...mapState(['user', 'token'])
  },
  methods: {
    /**
     * @vuese
     * Resets the counter
     * @arg the new value
     */
    reset(value) {},
    internal() {}
  },
  watch: {
    // @vuese
    // Fires on count change
    count(val) {}
  }
}`)

	assert.Equal(t, []Data{{
		Name:        "count",
		Type:        "Number",
		Description: []string{"Current count"},
		Default:     "0",
	}}, res.Data)

	require.Len(t, res.Computed, 4)
	assert.Equal(t, "storeCount", res.Computed[0].Name)
	assert.True(t, res.Computed[0].FromStore)
	assert.Equal(t, "double", res.Computed[1].Name)
	assert.False(t, res.Computed[1].FromStore, "a literal-returning member is not store derived")
	assert.Equal(t, []string{"Doubled"}, res.Computed[1].Description)
	assert.Equal(t, "user", res.Computed[2].Name)
	assert.True(t, res.Computed[2].FromStore)
	assert.Equal(t, "token", res.Computed[3].Name)
	assert.True(t, res.Computed[3].FromStore)

	assert.Equal(t, []Method{{
		Name:        "reset",
		Description: []string{"Resets the counter"},
		Params:      []string{"the new value"},
	}}, res.Methods)

	assert.Equal(t, []Watch{{
		Name:        "count",
		Description: []string{"Fires on count change"},
	}}, res.Watch)
}

func TestParse_DataForms(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"object", `export default {
  data: {
    // @vuese
    open: false
  }
}`},
		{"arrow expression body", `export default {
  data: () => ({
    // @vuese
    open: false
  })
}`},
		{"function expression", `export default {
  data: function () {
    return {
      // @vuese
      open: false
    }
  }
}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parseSource(t, "Toggle.js", tc.source)
			assert.Equal(t, []Data{{Name: "open", Type: "Boolean", Default: "false"}}, res.Data)
		})
	}
}

func TestParse_DataNotObjectIsSkipped(t *testing.T) {
	res := parseSource(t, "Odd.js", `export default {
  data: 42,
  props: ['value']
}`)

	assert.Nil(t, res.Data)
	require.Len(t, res.Props, 1)
}

func TestParse_StoreKinds(t *testing.T) {
	res := parseSource(t, "store.js", `export default {
  state: {
    // @vuese
    // Logged in user
    user: null
  },
  getters: {
    // @vuese
    // @type boolean
    // Whether a user is logged in
    loggedIn: state => !!state.user
  },
  mutations: {
    /**
     * @vuese
     * Sets the user
     * @arg the user
     */
    setUser(state, u) {}
  },
  actions: {
    // @vuese
    login() {},
    logout() {}
  }
}`)

	assert.Equal(t, []State{{Name: "user", Type: "Null", Description: []string{"Logged in user"}, Default: "null"}}, res.State)
	assert.Equal(t, []Getter{{Name: "loggedIn", Type: []string{"boolean"}, Description: []string{"Whether a user is logged in"}}}, res.Getters)
	assert.Equal(t, []Mutation{{Name: "setUser", Description: []string{"Sets the user"}, Params: []string{"the user"}}}, res.Mutations)
	assert.Equal(t, []Action{{Name: "login"}}, res.Actions)
}

func TestParse_WrappedObjectAndMixins(t *testing.T) {
	res := parseSource(t, "Wrapped.js", `import Base from './base'
import { defineComponent } from 'vue'

/**
 * A wrapped component
 */
export default defineComponent({
  name: 'Wrapped',
  mixins: [Base, Other.mixin]
})`)

	assert.Equal(t, "Wrapped", res.Component.Name)
	assert.Equal(t, []string{"A wrapped component"}, res.Component.Description)
	assert.Equal(t, "object", res.Component.Style)
	assert.Equal(t, []Mixin{
		{Name: "Base", Source: "./base"},
		{Name: "Other.mixin"},
	}, res.Mixins)
}

func TestParse_VueExtend(t *testing.T) {
	res := parseSource(t, "Legacy.js", `import Vue from 'vue'
export default Vue.extend({
  props: { value: String }
})`)

	require.Len(t, res.Props, 1)
	assert.Equal(t, "value", res.Props[0].Name)
}

func TestParse_NoDefaultExport(t *testing.T) {
	res := parseSource(t, "helpers.js", `export const props = ['a']`)
	assert.True(t, res.IsEmpty())
}

// ===========================================================================
// EVENTS
// ===========================================================================

const eventsComponent = `<template>
  <div>
    <button @click="$emit('close')">x</button>
    <input v-on:input="$emit('update:value', $event.target.value)">
    <button @click="$emit('open')">o</button>
    <span @click="$emit('broken'))">bad</span>
  </div>
</template>

<script>
export default {
  methods: {
    onClose() {
      // Fired when the dialog closes
      this.$emit('close')
    },
    onSave() {
      // Fired after saving
      // @arg the saved item
      this.$emit('save', this.item)
    },
    sync(v) {
      this.$emit('update:value', v)
    }
  }
}
</script>
`

func TestParse_EventsInlineAndScriptDedup(t *testing.T) {
	res := parseSource(t, "Dialog.vue", eventsComponent)

	require.Len(t, res.Events, 3)
	assert.Equal(t, Event{Name: "close", Description: []string{"Fired when the dialog closes"}}, res.Events[0])
	assert.Equal(t, Event{Name: "save", Description: []string{"Fired after saving"}, Params: []string{"the saved item"}}, res.Events[1])
	assert.Equal(t, "open", res.Events[2].Name, "inline-only events are kept")
}

func TestParse_SyncEventsIncluded(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeSyncEvents = true
	res := parseSourceWith(t, opts, "Dialog.vue", eventsComponent)

	var names []string
	for _, ev := range res.Events {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{"close", "save", "update:value", "open"}, names)

	sync := res.Events[2]
	assert.True(t, sync.IsSync)
	assert.Equal(t, "value", sync.SyncProp)
}

func TestParse_DynamicEventName(t *testing.T) {
	res := parseSource(t, "Dyn.js", `const EVENT = 'pick'
export default {
  methods: {
    pick() {
      this.$emit(EVENT)
    }
  }
}`)

	require.Len(t, res.Events, 1)
	assert.Equal(t, "`EVENT`", res.Events[0].Name)
}

// ===========================================================================
// SLOTS
// ===========================================================================

func TestParse_TemplateAndScriptSlots(t *testing.T) {
	res := parseSource(t, "Card.vue", `<template>
  <div>
    <!-- Foo desc -->
    <slot name="header" :title="title" v-if="show"></slot>
    <slot>
      <!-- Default content -->
      <span>fallback</span>
    </slot>
  </div>
</template>

<script>
export default {
  mounted() {
    console.log(this.$slots.header)
    this.$scopedSlots.item({ row: this.row })
  }
}
</script>
`)

	require.Len(t, res.Slots, 3)

	header := res.Slots[0]
	assert.Equal(t, "header", header.Name)
	assert.Equal(t, "Foo desc", header.Description)
	assert.Equal(t, map[string]string{"title": "title"}, header.Bindings)
	assert.True(t, header.Scoped)
	assert.Equal(t, OriginTemplate, header.Origin, "template declarations win over script access")

	def := res.Slots[1]
	assert.Equal(t, "default", def.Name)
	assert.Equal(t, "Default content", def.BackerDesc)
	assert.Empty(t, def.Description)
	assert.False(t, def.Scoped)

	item := res.Slots[2]
	assert.Equal(t, "item", item.Name)
	assert.Equal(t, OriginScript, item.Origin)
	assert.True(t, item.Scoped)
	assert.Equal(t, map[string]string{"row": "this.row"}, item.Bindings)
}

func TestParse_ConditionalSlotBranches(t *testing.T) {
	res := parseSource(t, "Switch.vue", `<template>
  <div>
    <slot v-if="a" name="one"></slot>
    <slot v-else-if="b" name="two"></slot>
    <slot v-else name="three"></slot>
  </div>
</template>
`)

	var names []string
	for _, s := range res.Slots {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)
	assert.Empty(t, res.Component.Style, "no script means no definition")
}

func TestParse_ScriptSlotComments(t *testing.T) {
	res := parseSource(t, "Panel.js", `export default {
  render(h) {
    // Panel title
    // @content Untitled
    this.$slots.title
    return h('div')
  }
}`)

	require.Len(t, res.Slots, 1)
	assert.Equal(t, Slot{
		Name:        "title",
		Description: "Panel title",
		BackerDesc:  "Untitled",
		Bindings:    map[string]string{},
		Origin:      OriginScript,
	}, res.Slots[0])
}

// ===========================================================================
// RENDER FUNCTIONS
// ===========================================================================

func TestParse_RenderChildren(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"context argument", `export default {
  functional: true,
  render(h, ctx) {
    return h('div', ctx.children)
  }
}`},
		{"destructured", `export default {
  render: (h, { children }) => h('div', children)
}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parseSource(t, "Fn.js", tc.source)
			assert.True(t, res.Component.Functional)
			require.Len(t, res.Slots, 1)
			assert.Equal(t, "default", res.Slots[0].Name)
			assert.Equal(t, OriginScript, res.Slots[0].Origin)
		})
	}
}

func TestParse_RenderWithoutChildren(t *testing.T) {
	res := parseSource(t, "Fn.js", `export default {
  render(h, ctx) {
    return h('div', ctx.props.label)
  }
}`)

	assert.False(t, res.Component.Functional)
	assert.Nil(t, res.Slots)
}

// ===========================================================================
// DECORATED CLASS
// ===========================================================================

const classComponent = `import { Component, Prop, Emit } from 'vue-property-decorator'
import { mixins } from 'vue-class-component'
import Validation from './mixins/validation'

/**
 * A fancy input
 */
@Component
export default class FancyInput extends mixins(Validation) {
  /** The label text */
  @Prop({ type: String, default: 'Name' }) readonly label!: string;

  @Prop(Number) size: number | undefined;

  @Prop({ type: [String, Number] }) value;

  /**
   * @vuese
   * Local counter
   */
  count = 0;

  @Emit()
  saveItem(item: object) {
    return item
  }

  @Emit('reset-all')
  reset() {}

  /**
   * @vuese
   * Doubles the count
   */
  get double() {
    return this.count * 2
  }

  /**
   * @vuese
   * Focuses the input
   */
  focus() {}
}
`

func TestParse_ClassComponent(t *testing.T) {
	res := parseSource(t, "FancyInput.ts", classComponent)

	assert.Equal(t, "class", res.Component.Style)
	assert.Equal(t, []string{"A fancy input"}, res.Component.Description)

	require.Len(t, res.Props, 3)
	label := res.Props[0]
	assert.Equal(t, "label", label.Name)
	assert.Equal(t, LiteralType("string"), label.Type, "the annotation wins over the decorator type")
	require.NotNil(t, label.Default)
	assert.Equal(t, "Name", *label.Default)
	assert.Equal(t, []string{"The label text"}, label.Description)

	assert.Equal(t, "size", res.Props[1].Name)
	assert.Equal(t, LiteralType("number | undefined"), res.Props[1].Type)

	assert.Equal(t, "value", res.Props[2].Name)
	assert.Equal(t, UnionType("String", "Number"), res.Props[2].Type)

	require.Len(t, res.Events, 2)
	assert.Equal(t, "save-item", res.Events[0].Name)
	assert.Equal(t, "reset-all", res.Events[1].Name)

	assert.Equal(t, []Data{{Name: "count", Type: "Number", Description: []string{"Local counter"}, Default: "0"}}, res.Data)
	assert.Equal(t, []Computed{{Name: "double", Description: []string{"Doubles the count"}}}, res.Computed)
	assert.Equal(t, []Method{{Name: "focus", Description: []string{"Focuses the input"}}}, res.Methods)
	assert.Equal(t, []Mixin{{Name: "Validation", Source: "./mixins/validation"}}, res.Mixins)
}

func TestParse_ComponentDecoratorOptions(t *testing.T) {
	res := parseSource(t, "Named.ts", `import { Component, Vue } from 'vue-property-decorator'

@Component({
  name: 'Named',
  props: ['title']
})
export default class Named extends Vue {}
`)

	assert.Equal(t, "Named", res.Component.Name)
	assert.Equal(t, "class", res.Component.Style)
	require.Len(t, res.Props, 1)
	assert.Equal(t, "title", res.Props[0].Name)
}

// ===========================================================================
// ENGINE
// ===========================================================================

func TestParse_Deterministic(t *testing.T) {
	engine := newTestEngine(t, DefaultOptions())

	first, err := engine.ParseSource([]byte(eventsComponent), "Dialog.vue")
	require.NoError(t, err)
	second, err := engine.ParseSource([]byte(eventsComponent), "Dialog.vue")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_MalformedInlineHandlerIsSkipped(t *testing.T) {
	res := parseSource(t, "Broken.vue", `<template>
  <div>
    <a @click="$emit('first'))">bad</a>
    <a @click="$emit('second')">good</a>
    <slot name="kept"></slot>
  </div>
</template>
`)

	require.Len(t, res.Events, 1)
	assert.Equal(t, "second", res.Events[0].Name)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, "kept", res.Slots[0].Name)
}

func TestParse_ScriptOnlyComponent(t *testing.T) {
	res := parseSource(t, "Plain.vue", `<script>
export default {
  props: ['a']
}
</script>
`)

	require.Len(t, res.Props, 1)
	assert.Nil(t, res.Slots)
	assert.Nil(t, res.Events)
}

func TestParse_TypeScriptBlock(t *testing.T) {
	res := parseSource(t, "Typed.vue", `<script lang="ts">
import { defineComponent, PropType } from 'vue'

export default defineComponent({
  props: {
    items: { type: Array as PropType<string[]>, required: true }
  }
})
</script>
`)

	require.Len(t, res.Props, 1)
	assert.Equal(t, LiteralType("Array"), res.Props[0].Type)
	assert.True(t, res.Props[0].IsRequired())
}

func TestParseSource_Errors(t *testing.T) {
	engine := newTestEngine(t, DefaultOptions())

	_, err := engine.ParseSource([]byte("body {}"), "style.css")
	assert.Error(t, err)

	_, err = engine.ParseSource([]byte(`<script lang="coffee">x = 1</script>`), "Coffee.vue")
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	engine := newTestEngine(t, DefaultOptions())
	path := filepath.Join(t.TempDir(), "List.js")
	require.NoError(t, os.WriteFile(path, []byte(`export default { props: ['a'] }`), 0o644))

	res, err := engine.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, res.Props, 1)

	_, err = engine.ParseFile(filepath.Join(t.TempDir(), "missing.js"))
	assert.Error(t, err)
}

func TestParse_NilScriptAndTemplate(t *testing.T) {
	res := Parse(Input{}, nil, DefaultOptions(), nil)
	require.NotNil(t, res)
	assert.True(t, res.IsEmpty())
}

func TestParse_EscapedInlineHandler(t *testing.T) {
	res := parseSource(t, "Search.vue", `<template>
  <input v-on:input="$emit(&quot;q&quot;, $event.target.value)">
</template>
<script>
export default {}
</script>
`)

	require.Len(t, res.Events, 1)
	assert.Equal(t, "q", res.Events[0].Name)
}

func TestParse_ClassMarkedRender(t *testing.T) {
	res := parseSource(t, "Box.ts", `import { Component, Vue } from 'vue-property-decorator'

@Component
export default class Box extends Vue {
  /**
   * @vuese
   * Renders the box
   */
  render(h) {
    return h('div')
  }

}
`)

	assert.Equal(t, "class", res.Component.Style)
	assert.Equal(t, []Method{{Name: "render", Description: []string{"Renders the box"}}}, res.Methods)
}

func TestParse_ClassEmitExplicitEmptyName(t *testing.T) {
	res := parseSource(t, "Silent.ts", `import { Component, Emit, Vue } from 'vue-property-decorator'

@Component
export default class Silent extends Vue {
  @Emit('')
  quiet() {}

  @Emit()
  loudOne() {}
}
`)

	require.Len(t, res.Events, 1)
	assert.Equal(t, "loud-one", res.Events[0].Name)
}

package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/vuespec/pkg/parser"
	"github.com/gnana997/vuespec/pkg/util"
)

func newTestSplitter(t *testing.T) *Splitter {
	t.Helper()
	pm := parser.NewParserManager(util.NewDiscardLogger())
	t.Cleanup(func() { pm.Close() })
	return NewSplitter(pm, util.NewDiscardLogger())
}

func TestSplit_ScriptAndTemplate(t *testing.T) {
	source := `<template>
  <div class="btn" @click="$emit('click')">
    <!-- Button label -->
    <slot></slot>
  </div>
</template>

<script lang="ts">
export default {}
</script>

<style scoped>
.btn { color: red; }
</style>`

	desc, err := newTestSplitter(t).Split([]byte(source))
	require.NoError(t, err)

	require.NotNil(t, desc.Script)
	assert.Equal(t, "ts", desc.Script.Lang)
	assert.Contains(t, desc.Script.Content, "export default {}")
	assert.Equal(t, uint(8), desc.Script.Line)
	assert.Equal(t, desc.Script.Content, source[desc.Script.Offset:desc.Script.Offset+uint(len(desc.Script.Content))])

	tpl := desc.Template
	require.NotNil(t, tpl)
	assert.True(t, tpl.IsElement("template"))
	require.Len(t, tpl.Children, 1)

	div := tpl.Children[0]
	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, "btn", div.Attrs["class"])
	assert.Equal(t, "$emit('click')", div.Attrs["@click"])
	assert.Same(t, tpl, div.Parent)

	require.Len(t, div.Children, 2)
	assert.Equal(t, NodeComment, div.Children[0].Kind)
	assert.Equal(t, "Button label", div.Children[0].Text)
	assert.True(t, div.Children[1].IsElement("slot"))
}

func TestSplit_NoTemplate(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<script>
export default { render (h) { return h('div') } }
</script>`))
	require.NoError(t, err)

	assert.Nil(t, desc.Template)
	require.NotNil(t, desc.Script)
	assert.Equal(t, "", desc.Script.Lang)
}

func TestSplit_NoScript(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template><slot /></template>`))
	require.NoError(t, err)

	assert.Nil(t, desc.Script)
	require.NotNil(t, desc.Template)
	require.Len(t, desc.Template.Children, 1)
	assert.True(t, desc.Template.Children[0].IsElement("slot"))
}

func TestSplit_SkipsScriptSetup(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<script setup>
const a = 1
</script>
<script>
export default { name: 'Legacy' }
</script>`))
	require.NoError(t, err)

	require.NotNil(t, desc.Script)
	assert.Contains(t, desc.Script.Content, "Legacy")
}

func TestSplit_SkipsPugTemplate(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template lang="pug">
div
</template>`))
	require.NoError(t, err)
	assert.Nil(t, desc.Template)
}

func TestSplit_Attributes(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template>
<slot name="item" :item="row" v-bind:index="i" v-bind="$attrs" disabled v-if="show"></slot>
</template>`))
	require.NoError(t, err)
	require.NotNil(t, desc.Template)
	require.Len(t, desc.Template.Children, 1)

	slot := desc.Template.Children[0]
	assert.Equal(t, map[string]string{
		"name":         "item",
		":item":        "row",
		"v-bind:index": "i",
		"v-bind":       "$attrs",
		"disabled":     "",
		"v-if":         "show",
	}, slot.Attrs)

	v, ok := slot.Attr("disabled")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = slot.Attr("missing")
	assert.False(t, ok)
}

func TestSplit_ConditionalBranches(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template>
<div>
  <span v-if="a"><slot name="a"></slot></span>
  <!-- dropped between branches -->
  <span v-else-if="b"><slot name="b"></slot></span>
  <span v-else><slot name="c"></slot></span>
  <p>after</p>
</div>
</template>`))
	require.NoError(t, err)
	require.NotNil(t, desc.Template)

	div := desc.Template.Children[0]
	require.Len(t, div.Children, 2)

	ifEl := div.Children[0]
	assert.Equal(t, "span", ifEl.Tag)
	require.Len(t, ifEl.Branches, 2)
	assert.Contains(t, ifEl.Branches[0].Attrs, "v-else-if")
	assert.Contains(t, ifEl.Branches[1].Attrs, "v-else")
	assert.Same(t, div, ifEl.Branches[0].Parent)

	assert.Equal(t, "p", div.Children[1].Tag)

	var slots []string
	desc.Template.Walk(func(n *TemplateNode) bool {
		if n.IsElement("slot") {
			slots = append(slots, n.Attrs["name"])
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, slots)
}

func TestSplit_ElseWithoutIf(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template><div><p>x</p><span v-else>y</span></div></template>`))
	require.NoError(t, err)

	div := desc.Template.Children[0]
	require.Len(t, div.Children, 2)
	assert.Empty(t, div.Children[0].Branches)
}

func TestWalk_StopsEarly(t *testing.T) {
	root := &TemplateNode{Kind: NodeElement, Tag: "template"}
	root.appendChild(&TemplateNode{Kind: NodeElement, Tag: "a", Attrs: map[string]string{}})
	root.appendChild(&TemplateNode{Kind: NodeElement, Tag: "b", Attrs: map[string]string{}})

	var seen []string
	root.Walk(func(n *TemplateNode) bool {
		seen = append(seen, n.Tag)
		return n.Tag != "a"
	})
	assert.Equal(t, []string{"template", "a"}, seen)
}

func TestCommentText(t *testing.T) {
	assert.Equal(t, "Foo desc", commentText("<!-- Foo desc -->"))
	assert.Equal(t, "", commentText("<!---->"))
	assert.Equal(t, "multi\n  line", commentText("<!--\n  multi\n  line\n-->"))
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "element", NodeElement.String())
	assert.Equal(t, "text", NodeText.String())
	assert.Equal(t, "comment", NodeComment.String())
	assert.Equal(t, "unknown", NodeKind(9).String())

	assert.True(t, (&TemplateNode{Kind: NodeText, Text: " \n "}).IsBlank())
	assert.False(t, (&TemplateNode{Kind: NodeText, Text: "x"}).IsBlank())
}

func TestSplit_AttrNamesInSourceOrder(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template><div @b="x" :a="y" c @b="z"></div></template>`))
	require.NoError(t, err)

	div := desc.Template.Children[0]
	assert.Equal(t, []string{"@b", ":a", "c"}, div.AttrNames)
	assert.Equal(t, "z", div.Attrs["@b"])
}

func TestSplit_DecodesAttributeEntities(t *testing.T) {
	desc, err := newTestSplitter(t).Split([]byte(`<template>
<input v-on:input="$emit(&quot;q&quot;, $event)" title="a &amp; b" :x='&#39;y&#39;'>
</template>`))
	require.NoError(t, err)
	require.NotNil(t, desc.Template)
	require.Len(t, desc.Template.Children, 1)

	input := desc.Template.Children[0]
	assert.Equal(t, `$emit("q", $event)`, input.Attrs["v-on:input"])
	assert.Equal(t, "a & b", input.Attrs["title"])
	assert.Equal(t, "'y'", input.Attrs[":x"])
}

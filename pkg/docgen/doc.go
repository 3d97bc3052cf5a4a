// Package docgen extracts documentation from component sources.
//
// A component arrives as two trees: the tree-sitter syntax tree of its script
// and, for single-file components, the element tree of its template. The
// script visitor walks the first in document order and offers every node to
// a fixed set of recognizers:
//
//   - objectRecognizer: members of options objects (export default {...},
//     defineComponent({...}), Vue.extend({...}), @Component({...}))
//   - classRecognizer: members of a decorated component class
//   - renderRecognizer: render functions reading children from their context
//   - emitScanner: $emit calls anywhere in the script
//   - slotScanner: this.$slots.x and this.$scopedSlots.x(...)
//
// The template visitor then collects <slot> declarations and re-parses inline
// handlers such as @click="$emit('close')" so they yield the same events as
// script calls.
//
// Both visitors merge what they find into one aggregator owned by the Parse
// call. Events and script slots are deduplicated by name, first one wins.
// Template slots always beat script slots of the same name.
//
// Props, events and slots are documented from their leading comments
// whether or not they are marked. Methods, computed values, data, watchers
// and the store kinds appear only when their comment carries the marker tag:
//
//	methods: {
//	  /**
//	   * @vuese
//	   * Resets the form
//	   * @arg the field to keep
//	   */
//	  reset(keep) {}
//	}
package docgen

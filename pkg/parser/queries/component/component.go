// Package component holds the tree-sitter query that locates the component
// definition of a script block.
package component

// Queries matches the default export of a script in every authoring shape
// the docgen engine understands.
//
// Captures:
//   - @component.export   the export_statement (carries the component description)
//   - @component.options  a declarative options object
//   - @component.wrapper  the callee wrapping the options (defineComponent, Vue.extend)
//   - @component.class    a class-style component
const Queries = `
; export default { ... }
(export_statement
  value: (object) @component.options) @component.export

; export default defineComponent({ ... })
(export_statement
  value: (call_expression
    function: (identifier) @component.wrapper
    arguments: (arguments . (object) @component.options))) @component.export

; export default Vue.extend({ ... })
(export_statement
  value: (call_expression
    function: (member_expression
      property: (property_identifier) @component.wrapper)
    arguments: (arguments . (object) @component.options))) @component.export

; @Component export default class Button extends Vue { ... }
(export_statement
  declaration: (class_declaration) @component.class) @component.export

; export default class extends Vue { ... }
(export_statement
  value: (class) @component.class) @component.export
`

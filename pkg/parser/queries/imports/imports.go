// Package imports holds the tree-sitter query that maps local import
// bindings to the module they come from. The docgen engine uses it to
// record where each mixin was imported from.
package imports

// Queries matches ES module imports and CommonJS requires. The JavaScript
// and TypeScript grammars share these node shapes, so one query serves both.
//
// Every match carries exactly two captures:
//   - @import.<kind>  the local binding (default, named, alias, namespace, require)
//   - @import.source  the module specifier without quotes
const Queries = `
; import Focus from './mixins/focus'
(import_statement
  (import_clause
    (identifier) @import.default)
  source: (string (string_fragment) @import.source))

; import { focus } from './mixins'
(import_statement
  (import_clause
    (named_imports
      (import_specifier
        name: (identifier) @import.named
        !alias)))
  source: (string (string_fragment) @import.source))

; import { focus as focusMixin } from './mixins'
(import_statement
  (import_clause
    (named_imports
      (import_specifier
        alias: (identifier) @import.alias)))
  source: (string (string_fragment) @import.source))

; import * as mixins from './mixins'
(import_statement
  (import_clause
    (namespace_import
      (identifier) @import.namespace))
  source: (string (string_fragment) @import.source))

; const focus = require('./mixins/focus')
(variable_declarator
  name: (identifier) @import.require
  value: (call_expression
    function: (identifier) @_require (#eq? @_require "require")
    arguments: (arguments
      (string (string_fragment) @import.source))))
`

// Package diag defines the diagnostic model shared by the lexer, parser and
// rude-edit analyzer.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – numeric identifier with a stable string form (codes.go). Codes
//     5000..5999 are rude edits and render as ENC5xxx; Name gives the kind
//     name used in case files ("ActiveStatementUpdate").
//   - Primary – span in the after document. Detached diagnostics have none:
//     their declaration vanished together with every enclosing type.
//   - Arg – the descriptive argument substituted into the message template
//     ("try block", "field", "lambda").
//   - Category – ordering bucket for diagnostics that share a start offset.
//
// # Emitting diagnostics
//
// Phases report through a Reporter. ReportRude / ReportDetached build a
// rude edit whose message is filled from the code template on Emit.
// BagReporter collects into a Bag, which supports the canonical Sort and
// Dedup by (code, span, arg).
//
// Package diag does not format for terminals; see internal/diagfmt.
package diag

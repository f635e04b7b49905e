// Package token defines lexical token kinds and trivia for the C# subset analysed by encrude.
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Reserved keywords have their own kinds; contextual keywords (var, yield, await,
//     async, from, where, select, let, join, on, equals, into, orderby, group, by,
//     when, get, set, init) are identifiers and are recognised by the parser.
//   - Comments, whitespace and preprocessor lines are leading trivia and never
//     appear in the token stream, so token sequences compare equal across
//     formatting-only edits.
package token

// Package expr evaluates expressions for the expression register and
// the insert-mode expression prompt.
//
// Expressions are Lua. The evaluator runs a single sandboxed Lua state
// with only the base, table, string, and math libraries open; the
// loading functions (load, loadstring, dofile, loadfile) are removed.
// Evaluation is bounded by a timeout so a runaway expression cannot
// hang the editor.
//
// Results convert to register text as follows: strings are used
// verbatim, numbers render without a trailing ".0" when integral,
// booleans render as "true" and "false", and an array-style table
// becomes one line per element. A nil result is reported as an error
// so a mistyped variable name is not silently inserted as nothing.
//
// The embedding editor exposes state to expressions through SetGlobal
// and RegisterFunc, for example a line() function returning the cursor
// line or a getline(n) function returning buffer text.
package expr

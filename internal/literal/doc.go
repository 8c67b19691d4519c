// Package literal renders Go values as Starlark source literals.
//
// Recorded instruction arguments are converted into the sealed Value type
// with FromGo and written out with Render. The output is deterministic:
// floats are fixed-point with a bounded number of decimals, maps are
// emitted in sorted key order, and containers are never truncated.
//
// Parsing the rendered text with go.starlark.net yields a value equal to
// the input, up to the configured float precision.
package literal

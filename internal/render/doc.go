// Package render converts diagram markup into vector artifacts. It parses
// the six markup dialects into a shared intermediate model, lays the model
// out as SVG via graphviz, and tracks progress through an explicit render
// state machine whose single correctness-critical invariant is that a stale
// asynchronous render result can never overwrite the state set by a newer
// one. Rendered output is wrapped in a bounded pan/zoom viewport transform.
package render

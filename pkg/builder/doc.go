// Package builder composes the two form stages: a collector that defines
// fields and the generated list those definitions configure. Frontends (the
// HTTP server and the terminal prompts) drive a Builder and redraw from
// State after every call.
package builder

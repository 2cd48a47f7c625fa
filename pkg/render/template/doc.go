// Package template defines the renderer-agnostic template contract used by
// the HTML renderer.
package template

// Package field defines the descriptor produced by the field definition
// collector and consumed by the generated form list.
package field

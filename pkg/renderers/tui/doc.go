// Package tui is a terminal frontend for the form builder. A Runner shows
// the generated form, offers the actions that currently apply and writes
// the submitted record in the configured output format.
package tui

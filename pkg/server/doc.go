// Package server exposes the form builder over net/http. Pages are rendered
// server side and work without JavaScript; scripted clients can ask for the
// JSON view with ?format=json or an Accept header.
package server

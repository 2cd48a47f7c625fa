// Package html renders the form builder page as a server-side HTML document
// using the pongo2 engine and an embedded template bundle. The page works
// without JavaScript: every action is a plain form POST.
package html

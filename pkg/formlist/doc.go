// Package formlist holds the ordered descriptors behind the generated form.
//
// Every operation is a synchronous state transition. Presenters read a
// snapshot with Fields and redraw after each change, either by polling after
// their own calls or by registering a Listener through Subscribe.
//
// The move action is deliberately asymmetric: moving the first row cycles it
// to the bottom instead of being disabled, every other row moves up by one.
package formlist

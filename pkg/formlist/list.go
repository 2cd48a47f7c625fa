package formlist

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/result"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Op names the mutation that produced an Event.
type Op string

const (
	OpAppend Op = "append"
	OpRemove Op = "remove"
	OpSwap   Op = "swap"
	OpUpdate Op = "update"
	OpSubmit Op = "submit"
)

// Event is delivered to listeners after every state change. Fields is a
// snapshot; listeners may keep it.
type Event struct {
	Op     Op
	Fields []field.Descriptor
	Errors validation.Errors
}

// Listener observes list changes. Listeners run synchronously on the
// goroutine that performed the mutation, after the list lock is released.
type Listener func(Event)

// Option configures a List.
type Option func(*List)

// WithReorder toggles the swap/move actions. Disabled lists treat Swap and
// Move as no-ops.
func WithReorder(enabled bool) Option {
	return func(l *List) {
		l.reorder = enabled
	}
}

// List is the ordered collection of descriptors backing the generated form.
type List struct {
	mu        sync.RWMutex
	fields    []field.Descriptor
	errors    validation.Errors
	reorder   bool
	listeners map[int]Listener
	order     []int
	nextID    int
}

// New constructs an empty list.
func New(options ...Option) *List {
	l := &List{
		reorder:   true,
		listeners: make(map[int]Listener),
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Subscribe registers fn and returns a function that removes it.
func (l *List) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.order = append(l.order, id)
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.listeners, id)
			for i, candidate := range l.order {
				if candidate == id {
					l.order = append(l.order[:i], l.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Append adds descriptor to the end of the list. Descriptors without an ID
// receive one.
func (l *List) Append(descriptor field.Descriptor) (field.Descriptor, error) {
	if err := descriptor.Validate(); err != nil {
		return field.Descriptor{}, fmt.Errorf("formlist: append: %w", err)
	}
	if descriptor.ID == "" {
		descriptor.ID = field.NewID()
	}

	l.mu.Lock()
	l.fields = append(l.fields, descriptor)
	event, listeners := l.eventLocked(OpAppend)
	l.mu.Unlock()

	notify(listeners, event)
	return descriptor, nil
}

// Remove deletes the descriptor at index. Out of range indices are ignored.
func (l *List) Remove(index int) bool {
	l.mu.Lock()
	if index < 0 || index >= len(l.fields) {
		l.mu.Unlock()
		return false
	}
	removed := l.fields[index]
	l.fields = append(l.fields[:index], l.fields[index+1:]...)
	l.errors = l.errors.Without(removed.ID)
	event, listeners := l.eventLocked(OpRemove)
	l.mu.Unlock()

	notify(listeners, event)
	return true
}

// Swap exchanges the descriptors at a and b. Invalid or identical indices
// are ignored, as is any call on a list with reordering disabled.
func (l *List) Swap(a, b int) bool {
	l.mu.Lock()
	if !l.swapLocked(a, b) {
		l.mu.Unlock()
		return false
	}
	event, listeners := l.eventLocked(OpSwap)
	l.mu.Unlock()

	notify(listeners, event)
	return true
}

// Move performs the per-row move action: index 0 trades places with the
// last element, any other index trades places with its predecessor. The
// action is not available on lists shorter than two.
func (l *List) Move(index int) bool {
	l.mu.Lock()
	target, ok := moveTarget(index, len(l.fields))
	if !ok || !l.swapLocked(index, target) {
		l.mu.Unlock()
		return false
	}
	event, listeners := l.eventLocked(OpSwap)
	l.mu.Unlock()

	notify(listeners, event)
	return true
}

// MoveTarget reports the index Move(index) would swap with.
func (l *List) MoveTarget(index int) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.reorder {
		return 0, false
	}
	return moveTarget(index, len(l.fields))
}

// Snapshot is a copy of the list state taken under a single lock.
type Snapshot struct {
	Fields []field.Descriptor
	Errors validation.Errors
	// MoveTargets[i] is the index Move(i) swaps with. It is nil when the
	// move action is not offered.
	MoveTargets []int
}

// Snapshot returns the fields, stored errors and move targets together.
func (l *List) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snap := Snapshot{
		Fields: cloneFields(l.fields),
		Errors: append(validation.Errors(nil), l.errors...),
	}
	if l.reorder && len(l.fields) >= 2 {
		snap.MoveTargets = make([]int, len(l.fields))
		for i := range l.fields {
			snap.MoveTargets[i], _ = moveTarget(i, len(l.fields))
		}
	}
	return snap
}

// CanMove reports whether the move action is offered at all.
func (l *List) CanMove() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reorder && len(l.fields) >= 2
}

// UpdateValue overwrites the value at index and clears any submit error on
// that descriptor.
func (l *List) UpdateValue(index int, value string) bool {
	l.mu.Lock()
	if index < 0 || index >= len(l.fields) {
		l.mu.Unlock()
		return false
	}
	l.fields[index].Value = value
	if !validation.IsEmpty(value) {
		l.errors = l.errors.Without(l.fields[index].ID)
	}
	event, listeners := l.eventLocked(OpUpdate)
	l.mu.Unlock()

	notify(listeners, event)
	return true
}

// UpdateValueByID is UpdateValue keyed by descriptor identity.
func (l *List) UpdateValueByID(id, value string) bool {
	index := l.IndexOf(id)
	if index < 0 {
		return false
	}
	return l.UpdateValue(index, value)
}

// IndexOf returns the position of the descriptor with id, or -1.
func (l *List) IndexOf(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexLocked(id)
}

// Submit validates every value and snapshots the list. Empty values yield
// one required error per descriptor, keyed by descriptor ID.
func (l *List) Submit() (result.Record, error) {
	l.mu.Lock()
	var errs validation.Errors
	for _, descriptor := range l.fields {
		if validation.IsEmpty(descriptor.Value) {
			errs = append(errs, validation.Required(descriptor.ID, descriptor.Label+" is required"))
		}
	}
	l.errors = errs
	record := result.FromFields(l.fields)
	event, listeners := l.eventLocked(OpSubmit)
	l.mu.Unlock()

	notify(listeners, event)
	if len(errs) > 0 {
		return result.Record{}, errs
	}
	return record, nil
}

// Fields returns a copy of the current descriptors.
func (l *List) Fields() []field.Descriptor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneFields(l.fields)
}

// Len returns the number of descriptors.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.fields)
}

// Errors returns the errors recorded by the last submit that are still
// outstanding.
func (l *List) Errors() validation.Errors {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append(validation.Errors(nil), l.errors...)
}

// ErrorsFor returns the messages attached to the descriptor with id.
func (l *List) ErrorsFor(id string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.errors.ForField(id)
}

func (l *List) swapLocked(a, b int) bool {
	if !l.reorder || a == b {
		return false
	}
	n := len(l.fields)
	if a < 0 || b < 0 || a >= n || b >= n {
		return false
	}
	l.fields[a], l.fields[b] = l.fields[b], l.fields[a]
	return true
}

func (l *List) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, descriptor := range l.fields {
		if descriptor.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) eventLocked(op Op) (Event, []Listener) {
	if len(l.order) == 0 {
		return Event{}, nil
	}
	listeners := make([]Listener, 0, len(l.order))
	for _, id := range l.order {
		listeners = append(listeners, l.listeners[id])
	}
	return Event{
		Op:     op,
		Fields: cloneFields(l.fields),
		Errors: append(validation.Errors(nil), l.errors...),
	}, listeners
}

func notify(listeners []Listener, event Event) {
	for _, fn := range listeners {
		fn(event)
	}
}

func moveTarget(index, length int) (int, bool) {
	if length < 2 || index < 0 || index >= length {
		return 0, false
	}
	if index == 0 {
		return length - 1, true
	}
	return index - 1, true
}

func cloneFields(fields []field.Descriptor) []field.Descriptor {
	if len(fields) == 0 {
		return nil
	}
	out := make([]field.Descriptor, len(fields))
	copy(out, fields)
	return out
}

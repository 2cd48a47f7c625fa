package notify

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Level tags a notification for presenters.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient message handed to whatever presents toasts.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Notifier is the presentation boundary for transient messages. The core
// never knows how a notification is displayed.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a function into a Notifier.
type Func func(ctx context.Context, n Notification) error

func (f Func) Notify(ctx context.Context, n Notification) error {
	if f == nil {
		return nil
	}
	return f(ctx, n)
}

// Nop discards every notification.
var Nop Notifier = Func(func(context.Context, Notification) error { return nil })

// Queue buffers notifications until a presenter drains them, matching the
// flash-message flow of a redirect-after-post page.
type Queue struct {
	mu      sync.Mutex
	pending []Notification
	limit   int
}

// NewQueue constructs a queue that keeps at most limit notifications
// (oldest dropped first). A non-positive limit keeps everything.
func NewQueue(limit int) *Queue {
	return &Queue{limit: limit}
}

// Notify enqueues a sanitised copy of n.
func (q *Queue) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, Sanitize(n))
	if q.limit > 0 && len(q.pending) > q.limit {
		q.pending = append([]Notification(nil), q.pending[len(q.pending)-q.limit:]...)
	}
	return nil
}

// Drain returns and clears the pending notifications.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Len reports the number of pending notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// WriterNotifier prints notifications as single lines.
type WriterNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	prefix map[Level]string
}

// NewWriterNotifier writes to w using prefixes per level.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{
		w: w,
		prefix: map[Level]string{
			LevelSuccess: "✔",
			LevelError:   "✖",
			LevelInfo:    "ℹ",
		},
	}
}

// WithPrefix overrides the prefix printed for level.
func (n *WriterNotifier) WithPrefix(level Level, prefix string) *WriterNotifier {
	n.mu.Lock()
	n.prefix[level] = prefix
	n.mu.Unlock()
	return n
}

func (n *WriterNotifier) Notify(ctx context.Context, msg Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg = Sanitize(msg)

	n.mu.Lock()
	defer n.mu.Unlock()

	var b strings.Builder
	if prefix := n.prefix[msg.Level]; prefix != "" {
		b.WriteString(prefix)
		b.WriteString(" ")
	}
	if msg.Title != "" {
		b.WriteString(msg.Title)
		b.WriteString(": ")
	}
	b.WriteString(msg.Message)
	if _, err := fmt.Fprintln(n.w, b.String()); err != nil {
		return fmt.Errorf("notify: write: %w", err)
	}
	return nil
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips markup from the title and message. Labels and values are
// user supplied and must never reach a presenter as markup.
func Sanitize(n Notification) Notification {
	p := sanitizer()
	n.Title = plainText(p, n.Title)
	n.Message = plainText(p, n.Message)
	return n
}

// plainText strips tags and undoes the entity escaping bluemonday applies so
// presenters escape exactly once.
func plainText(p *bluemonday.Policy, raw string) string {
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(raw)))
}

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

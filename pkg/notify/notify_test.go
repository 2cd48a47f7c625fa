package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitize_StripsMarkup(t *testing.T) {
	got := Sanitize(Notification{Level: LevelInfo, Title: "<i>Hi</i>", Message: "<b>Ada</b> & co"})
	want := Notification{Level: LevelInfo, Title: "Hi", Message: "Ada & co"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitize mismatch (-want +got):\n%s", diff)
	}
}

func TestQueue_DrainAndLimit(t *testing.T) {
	q := NewQueue(2)
	ctx := context.Background()
	for _, msg := range []string{"one", "two", "three"} {
		if err := q.Notify(ctx, Notification{Level: LevelSuccess, Message: msg}); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if q.Len() != 2 {
		t.Fatalf("expected limit to apply, got %d", q.Len())
	}

	got := q.Drain()
	if len(got) != 2 || got[0].Message != "two" || got[1].Message != "three" {
		t.Fatalf("unexpected drain: %#v", got)
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}

func TestQueue_RespectsCancelledContext(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Notify(ctx, Notification{Message: "late"}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf).WithPrefix(LevelSuccess, "[ok]")

	err := n.Notify(context.Background(), Notification{Level: LevelSuccess, Title: "Submitted", Message: "Name: Ada, Age: 0"})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got := buf.String(); got != "[ok] Submitted: Name: Ada, Age: 0\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestFuncAndNop(t *testing.T) {
	var seen Notification
	f := Func(func(_ context.Context, n Notification) error {
		seen = n
		return nil
	})
	_ = f.Notify(context.Background(), Notification{Message: "x"})
	if seen.Message != "x" {
		t.Fatalf("func adapter not invoked")
	}
	if err := Nop.Notify(context.Background(), Notification{}); err != nil {
		t.Fatalf("nop returned error: %v", err)
	}
}

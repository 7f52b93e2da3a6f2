package conversation

import (
	"context"
	"testing"
)

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{" Y ", true},
		{"no", false},
		{"", false},
		{"sure", false},
	}
	for _, tt := range tests {
		lines := make(chan string, 1)
		lines <- tt.answer
		var prompts []string
		c := NewLineConfirmer(func(format string, a ...interface{}) { prompts = append(prompts, format) }, lines)
		if got := c.Confirm(context.Background(), "Delete?"); got != tt.want {
			t.Fatalf("answer %q: got %v, want %v", tt.answer, got, tt.want)
		}
		if len(prompts) != 1 {
			t.Fatalf("expected one prompt, got %d", len(prompts))
		}
	}
}

func TestLineConfirmerClosedOrCancelled(t *testing.T) {
	noop := func(string, ...interface{}) {}

	closed := make(chan string)
	close(closed)
	if NewLineConfirmer(noop, closed).Confirm(context.Background(), "?") {
		t.Fatal("closed input must not confirm")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if NewLineConfirmer(noop, make(chan string)).Confirm(ctx, "?") {
		t.Fatal("cancelled context must not confirm")
	}
}

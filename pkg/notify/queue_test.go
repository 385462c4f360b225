package notify

import (
	"fmt"
	"testing"
)

func TestPublishAndDrainInOrder(t *testing.T) {
	q := NewQueue(4)
	q.Publish("uno")
	q.Publish("dos")

	got := q.Drain()
	if len(got) != 2 || got[0] != "uno" || got[1] != "dos" {
		t.Fatalf("unexpected drain result %v", got)
	}
	if q.Drain() != nil {
		t.Fatal("second drain should be empty")
	}
}

func TestPublishDropsOldestWhenFull(t *testing.T) {
	q := NewQueue(3)
	for i := 1; i <= 5; i++ {
		q.Publish(fmt.Sprintf("msg-%d", i))
	}
	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	if got[0] != "msg-3" || got[2] != "msg-5" {
		t.Fatalf("expected oldest dropped, got %v", got)
	}
}

func TestLen(t *testing.T) {
	q := NewQueue(2)
	if q.Len() != 0 {
		t.Fatal("expected empty queue")
	}
	q.Publish("uno")
	if q.Len() != 1 {
		t.Fatalf("unexpected length %d", q.Len())
	}
}

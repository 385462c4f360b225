package notify

import "sync"

// Queue is a bounded fire-and-forget notification channel for transient
// user-facing messages. Publish never blocks: when the buffer is full the
// oldest message is dropped. Messages are consumed at most once.
type Queue struct {
	mu       sync.Mutex
	messages []string
	capacity int
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 16
	}
	return &Queue{capacity: capacity}
}

// Publish enqueues a message, evicting the oldest when full.
func (q *Queue) Publish(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.messages) >= q.capacity {
		q.messages = q.messages[1:]
	}
	q.messages = append(q.messages, message)
}

// Drain removes and returns every queued message in publish order.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.messages) == 0 {
		return nil
	}
	out := q.messages
	q.messages = nil
	return out
}

// Len reports the number of undelivered messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

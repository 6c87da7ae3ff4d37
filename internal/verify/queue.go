// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

import "sync"

// Queue holds guesses waiting to be hashed. The coordinator appends, the
// worker drains.
type Queue struct {
	mu     sync.Mutex
	items  []string
	signal chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Append adds batch and wakes the consumer.
func (q *Queue) Append(batch []string) {
	if len(batch) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, batch...)
	q.mu.Unlock()
	q.wake()
}

// Drain takes everything queued, leaving the queue empty.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len - number of queued guesses
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Signal is readable after an Append. Wake-ups coalesce, so a receiver must
// drain everything once woken.
func (q *Queue) Signal() <-chan struct{} { return q.signal }

func (q *Queue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

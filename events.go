// Copyright 2026 workturnedplay
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"sync"
	"sync/atomic"
)

/* ---------------- Event fabric ---------------- */

type eventKind uint8

const (
	eventWindowChanged eventKind = iota
	eventKey
	eventShutdown
)

// event is the single currency of the daemon: both OS subscriptions and the
// console ctrl handler reduce to this.
type event struct {
	kind eventKind
	mods Modifiers // eventKey only
	key  Key       // eventKey only
}

// eventQueue is a multi-producer, single-consumer queue with an elastic
// buffer. send never blocks and never drops: hook callbacks run inside OS
// input dispatch, where blocking freezes the user's keyboard and dropping
// loses keystrokes. Neither is acceptable, so the backlog grows instead.
type eventQueue struct {
	mu      sync.Mutex
	backlog []event
	wake    chan struct{}
	out     chan event

	maxQueued atomic.Uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		wake: make(chan struct{}, 1),
		out:  make(chan event),
	}
	go q.pump()
	return q
}

// send enqueues from any thread. The wake send is non-blocking: one pending
// wakeup is enough, the pump drains the whole backlog per wakeup.
func (q *eventQueue) send(ev event) {
	q.mu.Lock()
	q.backlog = append(q.backlog, ev)
	depth := uint64(len(q.backlog))
	q.mu.Unlock()

	if depth > q.maxQueued.Load() {
		q.maxQueued.Store(depth)
	}

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// close stops the pump after the backlog drains and closes out. Only the
// producer side may call it, and only once.
func (q *eventQueue) close() {
	close(q.wake)
}

func (q *eventQueue) pump() {
	for range q.wake {
		q.drain()
	}
	// wake closed: flush whatever raced in, then release the consumer.
	q.drain()
	close(q.out)
}

func (q *eventQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.backlog) == 0 {
			q.mu.Unlock()
			return
		}
		ev := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.mu.Unlock()

		q.out <- ev
	}
}

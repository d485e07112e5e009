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
	"testing"
	"time"
)

func TestEventQueuePreservesOrder(t *testing.T) {
	q := newEventQueue()

	const n = 100
	for i := 0; i < n; i++ {
		q.send(event{kind: eventKey, key: Key(i)})
	}
	q.close()

	i := 0
	for ev := range q.out {
		if ev.key != Key(i) {
			t.Fatalf("event %d has key %d", i, ev.key)
		}
		i++
	}
	if i != n {
		t.Fatalf("received %d events, want %d", i, n)
	}
}

func TestEventQueueSendNeverBlocksWithoutConsumer(t *testing.T) {
	q := newEventQueue()

	done := make(chan struct{})
	go func() {
		// Way past any channel capacity; must finish without a consumer.
		for i := 0; i < 10000; i++ {
			q.send(event{kind: eventWindowChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("send blocked with no consumer")
	}

	q.close()
	count := 0
	for range q.out {
		count++
	}
	if count != 10000 {
		t.Fatalf("drained %d events, want 10000", count)
	}
}

func TestEventQueueHandlesConcurrentProducers(t *testing.T) {
	q := newEventQueue()

	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.send(event{kind: eventWindowChanged})
			}
		}()
	}

	received := make(chan int)
	go func() {
		count := 0
		for range q.out {
			count++
		}
		received <- count
	}()

	wg.Wait()
	q.close()

	if count := <-received; count != producers*perProducer {
		t.Fatalf("received %d events, want %d", count, producers*perProducer)
	}
}

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
	"time"
)

/* ---------------- Window-event debouncer ---------------- */

// Opening a menu or launching an app produces dozens of raw accessibility
// events back to back. One snapshot per burst is plenty.
const windowHookCooldown = 200 * time.Millisecond

// debouncer collapses bursts of ticks into at most one notify per cooldown,
// trailing edge included: the last tick of a burst always ends up notifying,
// possibly after a deferred re-check.
//
// tick is safe from any thread; lastEmit is the only shared state.
type debouncer struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastEmit time.Time
	notify   func()
}

func newDebouncer(cooldown time.Duration, notify func()) *debouncer {
	return &debouncer{
		cooldown: cooldown,
		lastEmit: time.Now(),
		notify:   notify,
	}
}

func (d *debouncer) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tickLocked()
}

func (d *debouncer) tickLocked() {
	elapsed := time.Since(d.lastEmit)
	if elapsed > d.cooldown {
		d.lastEmit = time.Now()
		// notify must not block: it feeds the elastic event queue.
		d.notify()
		return
	}

	// Inside the cooldown. Re-check once the remainder elapses; if another
	// tick emitted in the meantime, lastEmit moved and this timer is stale.
	armed := d.lastEmit
	time.AfterFunc(d.cooldown-elapsed, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.lastEmit.Equal(armed) {
			d.tickLocked()
		}
	})
}

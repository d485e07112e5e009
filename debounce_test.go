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
	"sync/atomic"
	"testing"
	"time"
)

const testCooldown = 50 * time.Millisecond

func TestDebouncerEmitsImmediatelyAfterQuietPeriod(t *testing.T) {
	var count atomic.Int32
	d := newDebouncer(testCooldown, func() { count.Add(1) })

	// lastEmit starts at construction time; wait it out first.
	time.Sleep(testCooldown + 20*time.Millisecond)

	d.tick()
	if got := count.Load(); got != 1 {
		t.Fatalf("emissions after lone tick = %d, want 1", got)
	}
}

func TestDebouncerCollapsesBurstToLeadingAndTrailingEdge(t *testing.T) {
	var count atomic.Int32
	d := newDebouncer(testCooldown, func() { count.Add(1) })

	time.Sleep(testCooldown + 20*time.Millisecond)

	// A burst tighter than the cooldown: first tick emits right away, the
	// rest collapse into one trailing emission.
	for i := 0; i < 10; i++ {
		d.tick()
		time.Sleep(4 * time.Millisecond)
	}

	time.Sleep(3 * testCooldown)

	if got := count.Load(); got != 2 {
		t.Fatalf("emissions for burst = %d, want 2 (leading + trailing)", got)
	}
}

func TestDebouncerTrailingEdgeLiveness(t *testing.T) {
	var count atomic.Int32
	d := newDebouncer(testCooldown, func() { count.Add(1) })

	time.Sleep(testCooldown + 20*time.Millisecond)

	d.tick() // emits
	d.tick() // inside cooldown: must still produce a deferred emission

	deadline := time.Now().Add(testCooldown + 100*time.Millisecond)
	for time.Now().Before(deadline) {
		if count.Load() == 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("trailing emission never arrived, emissions = %d", count.Load())
}

func TestDebouncerStaleTimerDoesNotDoubleEmit(t *testing.T) {
	var count atomic.Int32
	d := newDebouncer(testCooldown, func() { count.Add(1) })

	time.Sleep(testCooldown + 20*time.Millisecond)

	d.tick() // emit #1, arms nothing
	d.tick() // defers a re-check

	// Wait for the trailing emission, then tick again after a fresh quiet
	// period: the stale timer from the second tick must not add extras.
	time.Sleep(2*testCooldown + 20*time.Millisecond)
	d.tick() // emit #3

	time.Sleep(2 * testCooldown)

	if got := count.Load(); got != 3 {
		t.Fatalf("emissions = %d, want 3", got)
	}
}

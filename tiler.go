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
	"errors"
	"math"
)

/* ---------------- Scroll tiler ---------------- */

// Handle identifies a top-level window. It is the platform's HWND widened to
// uintptr so the tiler state machine stays free of the Win32 surface.
type Handle uintptr

// platform is the slice of the adapter the tiler needs. The real
// implementation lives in window.go; tests substitute a fake.
type platform interface {
	ScreenSize() (width, height int32)
	IsFocused(h Handle) bool
	Move(h Handle, x, y, width, height int32) error
	Focus(h Handle) error
}

// windowItem is one slot in the strip. width is decided once, at insertion,
// and survives until the window leaves the strip; a later per-app width
// policy can mutate it without touching anything else here.
type windowItem struct {
	handle Handle
	width  int32
}

// snapshot is the set of currently managed windows plus the order the
// enumeration produced them in, so appends are deterministic per run.
type snapshot struct {
	set   map[Handle]struct{}
	order []Handle
}

func newSnapshot() *snapshot {
	return &snapshot{set: make(map[Handle]struct{})}
}

func (s *snapshot) add(h Handle) {
	if _, ok := s.set[h]; ok {
		return
	}
	s.set[h] = struct{}{}
	s.order = append(s.order, h)
}

func (s *snapshot) contains(h Handle) bool {
	_, ok := s.set[h]
	return ok
}

func (s *snapshot) len() int { return len(s.set) }

// scrollTiler owns the horizontal strip of managed windows and the scroll
// offset that keeps the focused one visible. All state is mutated from the
// orchestrator goroutine only.
type scrollTiler struct {
	plat         platform
	items        []windowItem
	padding      int32
	scrollOffset int32
}

func newScrollTiler(plat platform, padding int32) *scrollTiler {
	return &scrollTiler{plat: plat, padding: padding}
}

// initialWidth is the width assigned to every newly managed window: two
// thirds of the screen, so the focused window dominates but its neighbours
// stay visible at the edges.
func (t *scrollTiler) initialWidth() int32 {
	screenW, _ := t.plat.ScreenSize()
	return int32(math.Round(float64(screenW) / 1.5))
}

// handleSnapshot reconciles the strip with the observed window set.
// Survivors keep their relative order, newcomers append at the tail, and the
// strip scrolls just enough to keep the focused window fully on screen.
func (t *scrollTiler) handleSnapshot(snap *snapshot) {
	if snap.len() == 0 {
		t.items = t.items[:0]
		return
	}

	lenBeforeDeletion := len(t.items)

	kept := t.items[:0]
	for _, item := range t.items {
		if snap.contains(item.handle) {
			kept = append(kept, item)
		}
	}
	t.items = kept

	// Nothing added or removed: only focus can have changed, so skip the
	// layout unless the scroll offset actually moved.
	if snap.len() == len(t.items) && lenBeforeDeletion == len(t.items) {
		positions := t.windowsPositions()
		if t.adjustScroll(positions) {
			t.layoutWindows(positions)
		}
		return
	}

	t.appendNewWindows(snap)

	positions := t.windowsPositions()
	t.adjustScroll(positions)
	t.layoutWindows(positions)
}

func (t *scrollTiler) appendNewWindows(snap *snapshot) {
	width := t.initialWidth()
	for _, h := range snap.order {
		if !t.containsHandle(h) {
			t.items = append(t.items, windowItem{handle: h, width: width})
		}
	}
}

func (t *scrollTiler) containsHandle(h Handle) bool {
	for _, item := range t.items {
		if item.handle == h {
			return true
		}
	}
	return false
}

// windowsPositions returns the logical left edge of every strip item, before
// the scroll offset is applied. Consecutive positions differ by the previous
// item's width plus padding on both sides.
func (t *scrollTiler) windowsPositions() []int32 {
	positions := make([]int32, 0, len(t.items))
	current := int32(0)

	for _, item := range t.items {
		current += t.padding
		positions = append(positions, current)
		current += item.width + t.padding
	}

	return positions
}

// adjustScroll moves scrollOffset the minimal amount that brings the focused
// window (padding included) fully on screen, and reports whether the offset
// changed. A window wider than the screen gets its nearer edge aligned and
// clips on the other side.
func (t *scrollTiler) adjustScroll(positions []int32) bool {
	index := t.focusedIndex()
	if index < 0 {
		return false
	}

	screenW, _ := t.plat.ScreenSize()

	left := positions[index] - t.padding - t.scrollOffset
	right := left + t.items[index].width + t.padding*2

	if left >= 0 && right <= screenW {
		return false
	}

	distLeft := abs32(left)
	distRight := abs32(right - screenW)

	if distLeft < distRight {
		t.scrollOffset -= distLeft
		return distLeft != 0
	}
	t.scrollOffset += distRight
	return distRight != 0
}

func (t *scrollTiler) layoutWindows(positions []int32) {
	_, screenH := t.plat.ScreenSize()
	y := t.padding
	height := screenH - t.padding*2

	for i, item := range t.items {
		x := positions[i] - t.scrollOffset
		err := t.plat.Move(item.handle, x, y, item.width, height)
		if err != nil && !errors.Is(err, errInvalidHandle) {
			// A window that closed mid-layout just gets skipped; the next
			// snapshot removes it.
			warnf("failed to move window 0x%X: %v", uintptr(item.handle), err)
		}
	}
}

func (t *scrollTiler) focusedIndex() int {
	for i, item := range t.items {
		if t.plat.IsFocused(item.handle) {
			return i
		}
	}
	return -1
}

// focusLeft/focusRight hand focus to the neighbour and stop there; the OS
// focus event that follows drives the next snapshot cycle and any scrolling.
func (t *scrollTiler) focusLeft()  { t.focusNeighbour(-1) }
func (t *scrollTiler) focusRight() { t.focusNeighbour(+1) }

func (t *scrollTiler) focusNeighbour(dir int) {
	index := t.focusedIndex()
	if index < 0 {
		return
	}
	target := index + dir
	if target < 0 || target >= len(t.items) {
		return
	}
	if err := t.plat.Focus(t.items[target].handle); err != nil {
		warnf("failed to focus window 0x%X: %v", uintptr(t.items[target].handle), err)
	}
}

// swapLeft/swapRight reorder the strip in place. The caller refreshes the
// snapshot right after, which recomputes positions and lays out from the new
// order.
func (t *scrollTiler) swapLeft()  { t.swapNeighbour(-1) }
func (t *scrollTiler) swapRight() { t.swapNeighbour(+1) }

func (t *scrollTiler) swapNeighbour(dir int) {
	index := t.focusedIndex()
	if index < 0 {
		return
	}
	target := index + dir
	if target < 0 || target >= len(t.items) {
		return
	}
	t.items[index], t.items[target] = t.items[target], t.items[index]
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

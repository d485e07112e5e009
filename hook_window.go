//go:build windows

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
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sys/windows"
)

/* ---------------- Window-lifecycle hook ---------------- */

var errAlreadyLaunched = errors.New("window hook already launched")

// One WinEvent hook per process. The callback has no context parameter, so
// its targets live in package state behind a singleton slot; installing a
// second hook would make ticks ambiguous.
var (
	windowHookMu       sync.Mutex
	windowHookLaunched bool

	windowDebouncer *debouncer
	windowHook      windows.Handle
	windowThreadID  uint32

	logWindowEvents bool

	winEventCallback = windows.NewCallback(winEventProc)
)

// launchWindowHook subscribes to object-create through object-focus on every
// process but our own and debounces the resulting storm into WindowChanged
// events on the queue. Fails with errAlreadyLaunched on re-entry.
func launchWindowHook(queue *eventQueue, logEvents bool) error {
	windowHookMu.Lock()
	defer windowHookMu.Unlock()
	if windowHookLaunched {
		return errAlreadyLaunched
	}

	logWindowEvents = logEvents
	windowDebouncer = newDebouncer(windowHookCooldown, func() {
		queue.send(event{kind: eventWindowChanged})
	})

	ready := make(chan error)
	go windowWorker(ready)
	if err := <-ready; err != nil {
		windowDebouncer = nil
		return err
	}

	windowHookLaunched = true
	return nil
}

func windowWorker(ready chan<- error) {
	// WINEVENT_OUTOFCONTEXT callbacks are delivered through the installing
	// thread's message queue, same deal as the keyboard grab.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	windowThreadID = windows.GetCurrentThreadId()

	h, _, err := procSetWinEventHook.Call(
		EVENT_OBJECT_CREATE,
		EVENT_OBJECT_FOCUS,
		0, // out-of-context callback, no module
		winEventCallback,
		0, // all processes
		0, // all threads
		WINEVENT_OUTOFCONTEXT|WINEVENT_SKIPOWNPROCESS,
	)
	if h == 0 {
		ready <- fmt.Errorf("SetWinEventHook failed: %v", err)
		return
	}
	windowHook = windows.Handle(h)
	ready <- nil

	logf("window hook installed, thread %d", windowThreadID)
	messagePump()

	// Pump unblocked: unhook and release the singleton slot so a relaunch
	// within this process can succeed.
	procUnhookWinEvent.Call(uintptr(windowHook))
	windowHook = 0

	windowHookMu.Lock()
	windowHookLaunched = false
	windowDebouncer = nil
	windowHookMu.Unlock()
	logf("window hook removed")
}

func stopWindowHook() {
	postQuitTo(windowThreadID)
}

// winEventProc runs on the hook thread for every raw accessibility event in
// range. It only pokes the debouncer; snapshots happen on the orchestrator.
func winEventProc(hWinEventHook windows.Handle, eventID uint32, hwnd windows.Handle, idObject int32, idChild int32, dwEventThread uint32, dwmsEventTime uint32) uintptr {
	if logWindowEvents {
		w := Window{hwnd: hwnd}
		title, _ := w.Title()
		class, _ := w.ClassName()
		logf("winevent 0x%04X hwnd=%s objId=%d childId=%d [%s] class=[%s]",
			eventID, w, idObject, idChild, title, class)
	}

	windowHookMu.Lock()
	d := windowDebouncer
	windowHookMu.Unlock()
	if d != nil {
		d.tick()
	}
	return 0
}

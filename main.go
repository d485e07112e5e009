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

// winscroll is a scrolling tiled window manager that runs alongside the
// native shell. Managed windows form a horizontal strip; the strip scrolls
// so the focused window is always fully visible. WIN+Left/Right focuses a
// neighbour, WIN+CTRL+Left/Right swaps with it.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"unsafe"

	"golang.org/x/sys/windows"
)

func init() {
	// Four execution contexts are enough: orchestrator, log worker, and the
	// two hook pumps. More just invites GC workers to fight the hooks for
	// cache.
	runtime.GOMAXPROCS(4)
}

/* ---------------- Exit discipline ---------------- */

type exitStatus struct {
	Code    int
	Message string
}

var currentExitCode int

// exitf unwinds via panic so the deferred cleanup chain runs (hooks
// unhooked, mutex released, log drained) before the process dies.
func exitf(code int, format string, a ...any) {
	panic(exitStatus{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	})
}

func primaryDefer() {
	if r := recover(); r != nil {
		if status, ok := r.(exitStatus); ok {
			currentExitCode = status.Code
			logf("exiting with code %d: %s", status.Code, status.Message)
		} else {
			currentExitCode = 1
			logf("--- CRASH: %v ---\n%s--- END ---", r, debug.Stack())
		}
	}

	stopKeyboardHook()
	stopWindowHook()
	releaseSingleInstance()

	closeAndFlushLog()
	os.Exit(currentExitCode)
}

// Runs only if primaryDefer itself panics; last line of defense so a broken
// teardown still exits instead of hanging.
func secondaryDefer() {
	exitcode := 121
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr, "panic during teardown: %v\n%s", r, debug.Stack())
		exitcode = 120
	}
	os.Exit(exitcode)
}

/* ---------------- Single instance ---------------- */

var instanceMutex uintptr

// ensureSingleInstance holds a per-session named mutex for the process
// lifetime. Two tilers fighting over window positions helps nobody.
func ensureSingleInstance(name string) {
	namePtr, err := windows.UTF16PtrFromString("Local\\" + name)
	if err != nil {
		exitf(3, "UTF16PtrFromString for mutex name failed: %v", err)
	}

	ret, _, callErr := procCreateMutex.Call(0, 1, uintptr(unsafe.Pointer(namePtr)))
	if errors.Is(callErr, windows.ERROR_ALREADY_EXISTS) {
		exitf(5, "another winscroll instance is already running")
	}
	if ret == 0 {
		exitf(2, "CreateMutex failed: %v", callErr)
	}
	instanceMutex = ret
}

func releaseSingleInstance() {
	if instanceMutex == 0 {
		return
	}
	procReleaseMutex.Call(instanceMutex)
	procCloseHandle.Call(instanceMutex)
	instanceMutex = 0
}

/* ---------------- Console ctrl handler ---------------- */

var mainQueue *eventQueue

var ctrlHandler = windows.NewCallback(func(ctrlType uint32) uintptr {
	// Runs on a system-spawned thread; just route into the event loop and
	// let the orchestrator shut down in order.
	if mainQueue != nil {
		mainQueue.send(event{kind: eventShutdown})
		return 1
	}
	return 0
})

func installCtrlHandlerIfConsole() {
	if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd == 0 {
		return // windowsgui build or detached: no console, no Ctrl+C
	}
	procSetConsoleCtrlHandler.Call(ctrlHandler, 1)
}

/* ---------------- Orchestrator ---------------- */

func main() {
	// Reserve this thread: everything below runs here, hooks elsewhere.
	runtime.LockOSThread()

	go logWorker()

	defer secondaryDefer()
	defer primaryDefer()

	installCtrlHandlerIfConsole()
	ensureSingleInstance("winscroll_single_instance")

	if err := runDaemon(); err != nil {
		exitf(2, "%v", err)
	}
}

func runDaemon() error {
	initDPIAwareness()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	filter := newWindowFilter(cfg.ClassBlacklist, cfg.ProcessBlacklist)
	tiler := newScrollTiler(win32Platform{}, cfg.Padding)

	screenW, screenH := screenSize()
	logf("started on %dx%d screen, padding %d", screenW, screenH, cfg.Padding)

	tiler.handleSnapshot(openedWindows(filter))

	queue := newEventQueue()
	mainQueue = queue

	if err := launchWindowHook(queue, cfg.LogWindowEvents); err != nil {
		return fmt.Errorf("window hook: %w", err)
	}
	if err := launchKeyboardHook(queue); err != nil {
		return fmt.Errorf("keyboard grab: %w", err)
	}

	// Sole consumer. Tiler state is owned here; platform calls may be slow
	// and blocking this loop while servicing an event is fine.
	for ev := range queue.out {
		switch ev.kind {
		case eventWindowChanged:
			tiler.handleSnapshot(openedWindows(filter))
		case eventKey:
			dispatchKey(tiler, filter, ev)
		case eventShutdown:
			logf("shutdown requested")
			return nil
		}
	}
	return errors.New("event channel closed unexpectedly")
}

// dispatchKey maps chords to tiler commands. Swaps refresh the snapshot so
// layout reruns with the new order. Focus moves do not refresh: the OS focus
// event that follows drives the next cycle.
func dispatchKey(tiler *scrollTiler, filter *windowFilter, ev event) {
	switch {
	case ev.mods == modWin|modCtrl && ev.key == VK_LEFT:
		tiler.swapLeft()
		tiler.handleSnapshot(openedWindows(filter))
	case ev.mods == modWin|modCtrl && ev.key == VK_RIGHT:
		tiler.swapRight()
		tiler.handleSnapshot(openedWindows(filter))
	case ev.mods == modWin && ev.key == VK_LEFT:
		tiler.focusLeft()
	case ev.mods == modWin && ev.key == VK_RIGHT:
		tiler.focusRight()
	}
}

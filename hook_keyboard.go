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
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

/* ---------------- Keyboard grab ---------------- */

// All of this state is touched only by the hook thread: the OS serializes
// low-level hook callbacks onto the installing thread, so no locking.
var (
	keyboardQueue    *eventQueue
	keyboardMods     modifierTracker
	keyboardHook     windows.Handle
	keyboardThreadID uint32
)

// launchKeyboardHook installs the low-level keyboard grab on a dedicated
// locked thread and reports whether the install succeeded before returning.
func launchKeyboardHook(queue *eventQueue) error {
	keyboardQueue = queue
	ready := make(chan error)
	go keyboardWorker(ready)
	return <-ready
}

func keyboardWorker(ready chan<- error) {
	// The hook is serviced through this thread's message queue; if the
	// goroutine migrates, callbacks stop arriving.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	keyboardThreadID = windows.GetCurrentThreadId()

	cb := windows.NewCallback(keyboardProc)
	h, _, err := procSetWindowsHookEx.Call(WH_KEYBOARD_LL, cb, 0, 0)
	if h == 0 {
		ready <- fmt.Errorf("SetWindowsHookEx(WH_KEYBOARD_LL) failed: %v", err)
		return
	}
	keyboardHook = windows.Handle(h)
	ready <- nil

	logf("keyboard grab installed, thread %d", keyboardThreadID)
	messagePump()

	procUnhookWindowsHookEx.Call(uintptr(keyboardHook))
	keyboardHook = 0
	logf("keyboard grab removed")
}

func stopKeyboardHook() {
	postQuitTo(keyboardThreadID)
}

// keyboardProc is the WH_KEYBOARD_LL callback. It must stay fast: Windows
// drops the whole hook if a callback overruns LowLevelHooksTimeout. All it
// does is update the modifier set and push an event; returning 1 eats the
// keystroke, anything else forwards it down the chain.
func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode < 0 {
		// Contract: negative codes pass through without processing.
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return ret
	}

	k := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))

	if k.Flags&LLKHF_INJECTED != 0 {
		// Generated by SendInput somewhere; not user input, not ours to judge.
		ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return ret
	}

	switch wParam {
	case WM_KEYDOWN, WM_SYSKEYDOWN:
		if keyboardMods.press(k.VkCode) {
			// Modifier presses update state and are forwarded, never emitted.
			break
		}
		keyboardQueue.send(event{
			kind: eventKey,
			mods: keyboardMods.mods,
			key:  Key(k.VkCode),
		})
		if keyboardMods.swallow() {
			// WIN chord: ours alone. Do not call CallNextHookEx; a non-zero
			// return consumes the event before the OS or any app sees it.
			return 1
		}

	case WM_KEYUP, WM_SYSKEYUP:
		// Releases only maintain the modifier set; no events.
		keyboardMods.release(k.VkCode)
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

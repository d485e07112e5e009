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
	"unsafe"

	"golang.org/x/sys/windows"
)

/* ---------------- DLLs & Procs ---------------- */

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	dwmapi   = windows.NewLazySystemDLL("dwmapi.dll")
	shcore   = windows.NewLazySystemDLL("shcore.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowText            = user32.NewProc("GetWindowTextW")
	procGetWindowTextLength      = user32.NewProc("GetWindowTextLengthW")
	procGetClassName             = user32.NewProc("GetClassNameW")
	procGetAncestor              = user32.NewProc("GetAncestor")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procAttachThreadInput        = user32.NewProc("AttachThreadInput")
	procMoveWindow               = user32.NewProc("MoveWindow")
	procShowWindow               = user32.NewProc("ShowWindow")
	procGetSystemMetrics         = user32.NewProc("GetSystemMetrics")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procSetWinEventHook     = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent      = user32.NewProc("UnhookWinEvent")

	procGetMessage        = user32.NewProc("GetMessageW")
	procTranslateMessage  = user32.NewProc("TranslateMessage")
	procDispatchMessage   = user32.NewProc("DispatchMessageW")
	procPostThreadMessage = user32.NewProc("PostThreadMessageW")

	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDpiAwareness        = shcore.NewProc("SetProcessDpiAwareness")

	procCreateMutex              = kernel32.NewProc("CreateMutexW")
	procReleaseMutex             = kernel32.NewProc("ReleaseMutex")
	procCloseHandle              = kernel32.NewProc("CloseHandle")
	procSetConsoleCtrlHandler    = kernel32.NewProc("SetConsoleCtrlHandler")
	procGetConsoleWindow         = kernel32.NewProc("GetConsoleWindow")
	procCreateToolhelp32Snapshot = kernel32.NewProc("CreateToolhelp32Snapshot")
	procProcess32First           = kernel32.NewProc("Process32FirstW")
	procProcess32Next            = kernel32.NewProc("Process32NextW")

	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

/* ---------------- Constants ---------------- */

const (
	WM_KEYDOWN    = 0x0100
	WM_KEYUP      = 0x0101
	WM_SYSKEYDOWN = 0x0104
	WM_SYSKEYUP   = 0x0105
	WM_QUIT       = 0x0012

	WH_KEYBOARD_LL = 13

	// Low-level keyboard hook flag: event came from SendInput, not hardware.
	LLKHF_INJECTED = 0x00000010

	GA_ROOT = 2

	SW_RESTORE = 9

	SM_CXSCREEN = 0
	SM_CYSCREEN = 1

	EVENT_OBJECT_CREATE = 0x8000
	EVENT_OBJECT_FOCUS  = 0x8005

	WINEVENT_OUTOFCONTEXT   = 0x0000
	WINEVENT_SKIPOWNPROCESS = 0x0002

	DWMWA_CLOAKED               = 14
	DWMWA_EXTENDED_FRAME_BOUNDS = 9

	TH32CS_SNAPPROCESS = 0x00000002

	CTRL_C_EVENT     = 0
	CTRL_BREAK_EVENT = 1
	CTRL_CLOSE_EVENT = 2

	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = (HANDLE)-4
	DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = ^uintptr(3)
	PROCESS_PER_MONITOR_DPI_AWARE              = 2
)

/* ---------------- Types ---------------- */

type POINT struct {
	X, Y int32
}

type RECT struct {
	Left, Top, Right, Bottom int32
}

type MSG struct {
	HWnd    windows.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      POINT
}

type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

/* ---------------- Small shared helpers ---------------- */

// messagePump services the calling thread's queue until WM_QUIT. Both hook
// workers need one: low-level hooks and out-of-context event hooks are
// delivered while their installing thread sits inside GetMessage.
func messagePump() {
	var msg MSG
	for {
		r, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		// 0 is WM_QUIT, -1 is an error; either way the pump is done.
		if int32(r) <= 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

func postQuitTo(threadID uint32) {
	if threadID != 0 {
		procPostThreadMessage.Call(uintptr(threadID), WM_QUIT, 0, 0)
	}
}

func initDPIAwareness() {
	// Modern API first (Win10 1607+), shcore fallback for 8.1.
	if procSetProcessDpiAwarenessContext.Find() == nil {
		r, _, _ := procSetProcessDpiAwarenessContext.Call(
			DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2,
		)
		if r != 0 {
			return
		}
	}
	if procSetProcessDpiAwareness.Find() == nil {
		procSetProcessDpiAwareness.Call(PROCESS_PER_MONITOR_DPI_AWARE)
	}
}

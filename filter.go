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

import "errors"

/* ---------------- Window filter ---------------- */

// errInvalidHandle marks queries against a window that disappeared between
// snapshot and query. Routine: windows close whenever they like.
var errInvalidHandle = errors.New("invalid window handle")

// Shell furniture and XAML host shells that enumerate as top-level windows
// but must never be tiled.
var defaultClassBlacklist = []string{
	"Progman",
	"TopLevelWindowForOverflowXamlIsland",
	"XamlExplorerHostIslandWindow",
	"Xaml_WindowedPopupClass",
	"Shell_TrayWnd",
}

// Launcher/overlay/clipboard utilities whose windows pass every structural
// check yet make no sense in a strip.
var defaultProcessBlacklist = []string{
	"Microsoft.CmdPal.UI.exe",
	"PowerToys.MeasureToolUI.exe",
	"ShareX.exe",
	"SnippingTool.exe",
	"PowerToys.PowerLauncher.exe",
	"Ditto.exe",
}

// windowProbe is the per-window query surface the filter needs. Window (the
// Win32 adapter) implements it; tests use a recording fake.
type windowProbe interface {
	IsVisible() (bool, error)
	IsCloaked() (bool, error)
	IsRootAncestor() (bool, error)
	Title() (string, error)
	ClassName() (string, error)
	ProcessName() (string, error)
}

type windowFilter struct {
	classBlacklist   map[string]struct{}
	processBlacklist map[string]struct{}
}

func newWindowFilter(classes, processes []string) *windowFilter {
	if len(classes) == 0 {
		classes = defaultClassBlacklist
	}
	if len(processes) == 0 {
		processes = defaultProcessBlacklist
	}
	return &windowFilter{
		classBlacklist:   toSet(classes),
		processBlacklist: toSet(processes),
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// isManaged runs the predicate chain in order, first false wins. The order
// matters: the cheap style checks come first and the expensive process-name
// lookup last, and short-circuiting keeps snapshots fast. An error from any
// query makes the window unmanaged for this cycle.
func (f *windowFilter) isManaged(w windowProbe) (bool, error) {
	visible, err := w.IsVisible()
	if err != nil || !visible {
		return false, err
	}

	cloaked, err := w.IsCloaked()
	if err != nil || cloaked {
		return false, err
	}

	root, err := w.IsRootAncestor()
	if err != nil || !root {
		return false, err
	}

	title, err := w.Title()
	if err != nil || title == "" {
		return false, err
	}

	class, err := w.ClassName()
	if err != nil {
		return false, err
	}
	if _, junk := f.classBlacklist[class]; junk {
		return false, nil
	}

	process, err := w.ProcessName()
	if err != nil {
		return false, err
	}
	if _, junk := f.processBlacklist[process]; junk {
		return false, nil
	}

	return true, nil
}

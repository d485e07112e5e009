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
	"testing"
)

// fakeProbe answers the filter's queries from fields and records which
// queries ran, so tests can pin down the short-circuit order.
type fakeProbe struct {
	visible bool
	cloaked bool
	root    bool
	title   string
	class   string
	process string

	errOn map[string]error
	calls []string
}

func managedProbe() *fakeProbe {
	return &fakeProbe{
		visible: true,
		root:    true,
		title:   "Document - Editor",
		class:   "Chrome_WidgetWin_1",
		process: "firefox.exe",
	}
}

func (p *fakeProbe) query(name string) error {
	p.calls = append(p.calls, name)
	return p.errOn[name]
}

func (p *fakeProbe) IsVisible() (bool, error)      { return p.visible, p.query("IsVisible") }
func (p *fakeProbe) IsCloaked() (bool, error)      { return p.cloaked, p.query("IsCloaked") }
func (p *fakeProbe) IsRootAncestor() (bool, error) { return p.root, p.query("IsRootAncestor") }
func (p *fakeProbe) Title() (string, error)        { return p.title, p.query("Title") }
func (p *fakeProbe) ClassName() (string, error)    { return p.class, p.query("ClassName") }
func (p *fakeProbe) ProcessName() (string, error)  { return p.process, p.query("ProcessName") }

func TestOrdinaryWindowIsManaged(t *testing.T) {
	f := newWindowFilter(nil, nil)
	managed, err := f.isManaged(managedProbe())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !managed {
		t.Fatal("ordinary window rejected")
	}
}

func TestInvisibleWindowShortCircuits(t *testing.T) {
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.visible = false

	managed, err := f.isManaged(p)
	if err != nil || managed {
		t.Fatalf("managed=%v err=%v, want false/nil", managed, err)
	}
	if len(p.calls) != 1 || p.calls[0] != "IsVisible" {
		t.Fatalf("queries ran past the first failure: %v", p.calls)
	}
}

func TestCloakedWindowRejected(t *testing.T) {
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.cloaked = true

	if managed, _ := f.isManaged(p); managed {
		t.Fatal("cloaked window accepted")
	}
}

func TestOwnedPopupRejected(t *testing.T) {
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.root = false

	if managed, _ := f.isManaged(p); managed {
		t.Fatal("non-root window accepted")
	}
}

func TestUntitledWindowRejected(t *testing.T) {
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.title = ""

	managed, _ := f.isManaged(p)
	if managed {
		t.Fatal("untitled window accepted")
	}
	for _, call := range p.calls {
		if call == "ClassName" {
			t.Fatal("class queried after title already failed")
		}
	}
}

func TestDefaultClassBlacklistApplies(t *testing.T) {
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.class = "Shell_TrayWnd"

	managed, err := f.isManaged(p)
	if err != nil || managed {
		t.Fatalf("managed=%v err=%v, want false/nil", managed, err)
	}
	for _, call := range p.calls {
		if call == "ProcessName" {
			t.Fatal("process queried after class already failed")
		}
	}
}

func TestDefaultProcessBlacklistApplies(t *testing.T) {
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.process = "ShareX.exe"

	if managed, _ := f.isManaged(p); managed {
		t.Fatal("blacklisted process accepted")
	}
}

func TestCustomBlacklistsReplaceDefaults(t *testing.T) {
	f := newWindowFilter([]string{"MyJunkClass"}, []string{"junk.exe"})

	p := managedProbe()
	p.class = "Shell_TrayWnd" // default entry, no longer active
	if managed, _ := f.isManaged(p); !managed {
		t.Fatal("default class blacklist still active after replacement")
	}

	p = managedProbe()
	p.class = "MyJunkClass"
	if managed, _ := f.isManaged(p); managed {
		t.Fatal("custom class blacklist not applied")
	}
}

func TestQueryErrorMakesWindowUnmanaged(t *testing.T) {
	wantErr := errors.New("window evaporated")
	f := newWindowFilter(nil, nil)
	p := managedProbe()
	p.errOn = map[string]error{"Title": wantErr}

	managed, err := f.isManaged(p)
	if managed {
		t.Fatal("window with failing query accepted")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

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
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfigFrom(dir)
	if err != nil {
		t.Fatalf("loadConfigFrom: %v", err)
	}

	if cfg.Padding != 10 {
		t.Fatalf("Padding = %d, want 10", cfg.Padding)
	}
	if len(cfg.ClassBlacklist) != 0 || len(cfg.ProcessBlacklist) != 0 {
		t.Fatalf("default blacklists should stay empty in the file, got %v / %v",
			cfg.ClassBlacklist, cfg.ProcessBlacklist)
	}

	if _, err := os.Stat(filepath.Join(dir, configFileName)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()

	want := config{
		Padding:          24,
		ClassBlacklist:   []string{"Progman", "CustomShell"},
		ProcessBlacklist: []string{"overlay.exe"},
		LogWindowEvents:  true,
	}
	if err := writeConfigTo(dir, &want); err != nil {
		t.Fatalf("writeConfigTo: %v", err)
	}

	got, err := loadConfigFrom(dir)
	if err != nil {
		t.Fatalf("loadConfigFrom: %v", err)
	}

	if got.Padding != want.Padding || got.LogWindowEvents != want.LogWindowEvents {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.ClassBlacklist) != 2 || got.ClassBlacklist[1] != "CustomShell" {
		t.Fatalf("ClassBlacklist = %v", got.ClassBlacklist)
	}
	if len(got.ProcessBlacklist) != 1 || got.ProcessBlacklist[0] != "overlay.exe" {
		t.Fatalf("ProcessBlacklist = %v", got.ProcessBlacklist)
	}
}

func TestNegativePaddingFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte("Padding = -5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFrom(dir)
	if err != nil {
		t.Fatalf("loadConfigFrom: %v", err)
	}
	if cfg.Padding != 10 {
		t.Fatalf("Padding = %d, want default 10", cfg.Padding)
	}
}

func TestGarbageConfigFails(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte("Padding = {nope"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfigFrom(dir); err == nil {
		t.Fatal("garbage config parsed without error")
	}
}

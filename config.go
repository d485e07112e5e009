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
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

/* ---------------- Config ---------------- */

const configFileName = "winscroll.toml"

type config struct {
	// Padding is the gap, in pixels, between windows and around the screen
	// edges.
	Padding int32

	// ClassBlacklist and ProcessBlacklist replace the built-in defaults when
	// non-empty. Leave them empty to keep the defaults.
	ClassBlacklist   []string
	ProcessBlacklist []string

	// LogWindowEvents logs every raw accessibility event the window hook
	// sees. Noisy; debugging only.
	LogWindowEvents bool
}

func defaultConfig() config {
	return config{
		Padding:          10,
		ClassBlacklist:   nil,
		ProcessBlacklist: nil,
		LogWindowEvents:  false,
	}
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no user config dir: %w", err)
	}
	return filepath.Join(base, "winscroll"), nil
}

// loadConfig reads the config file, writing one with defaults first if none
// exists yet so the user has something to edit.
func loadConfig() (config, error) {
	dir, err := configDir()
	if err != nil {
		return config{}, err
	}
	return loadConfigFrom(dir)
}

func loadConfigFrom(dir string) (config, error) {
	if err := initializeConfigIfNot(dir); err != nil {
		return config{}, err
	}

	var cfg config
	path := filepath.Join(dir, configFileName)
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Padding < 0 {
		warnf("config: negative padding %d, using default", cfg.Padding)
		cfg.Padding = defaultConfig().Padding
	}

	return cfg, nil
}

func initializeConfigIfNot(dir string) error {
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	logf("writing initial config to %s", path)
	cfg := defaultConfig()
	return writeConfigTo(dir, &cfg)
}

func writeConfigTo(dir string, cfg *config) error {
	f, err := os.Create(filepath.Join(dir, configFileName))
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

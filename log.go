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
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

/* ---------------- Logging ---------------- */

// Producers (hook callbacks included) must never block on logging, so logf
// only formats and does a non-blocking send; a dedicated worker goroutine
// does the actual writes. Drops are counted and reported at shutdown.

const logFileName = "winscroll.log"

var (
	logChan       = make(chan string, 4096)
	logWorkerDone = make(chan struct{})

	droppedLogEvents   atomic.Uint64
	maxQueuedLogEvents atomic.Uint64

	useStderr bool
	logFile   *os.File
)

func init() {
	// A real terminal gets the log stream directly; a detached daemon
	// (windowsgui build, service wrapper) falls back to a file.
	useStderr = term.IsTerminal(int(os.Stderr.Fd()))
}

func logf(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	now := time.Now().Format("Mon Jan 2 15:04:05.000000000 MST 2006")
	finalMsg := fmt.Sprintf("[%s] %s\n", now, s)

	if depth := uint64(len(logChan)); depth > maxQueuedLogEvents.Load() {
		maxQueuedLogEvents.Store(depth)
	}

	select {
	case logChan <- finalMsg:
	default:
		// Buffer full. Dropping a log line beats lagging a hook callback.
		droppedLogEvents.Add(1)
	}
}

func warnf(format string, args ...any) {
	logf("WARN: "+format, args...)
}

func logWorker() {
	defer close(logWorkerDone)

	for msg := range logChan {
		writeLogLine(msg)
	}

	if drops := droppedLogEvents.Load(); drops > 0 {
		writeLogLine(fmt.Sprintf("dropped %d log lines under pressure\n", drops))
	}
	if peak := maxQueuedLogEvents.Load(); peak > 1 {
		writeLogLine(fmt.Sprintf("peak queued log lines: %d of %d\n", peak, cap(logChan)))
	}
}

func writeLogLine(msg string) {
	if useStderr {
		fmt.Fprint(os.Stderr, msg)
		return
	}
	if logFile == nil {
		initLogFile()
		if logFile == nil {
			return
		}
	}
	fmt.Fprint(logFile, msg)
	logFile.Sync()
}

func initLogFile() {
	dir, err := configDir()
	if err != nil {
		dir = "."
	}
	f, err := os.OpenFile(
		filepath.Join(dir, logFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err == nil {
		logFile = f
	}
}

// closeAndFlushLog tells the worker no more lines are coming, then waits for
// it to drain the backlog. Must be the last thing before os.Exit.
func closeAndFlushLog() {
	close(logChan)
	<-logWorkerDone
}

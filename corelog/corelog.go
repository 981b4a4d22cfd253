// Copyright 2024 The go-solana Authors
// This file is part of the go-solana library.

// Package corelog is the validator core's leveled logger. It keeps the
// teacher's console-first style but adds level tags so the orchestrator,
// RPC dispatcher and SVM pipeline can be told apart in a running log
// stream.
package corelog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) tag() string {
	switch l {
	case LevelDebug:
		return color.New(color.FgCyan).Sprint("DEBUG")
	case LevelInfo:
		return color.New(color.FgGreen).Sprint("INFO")
	case LevelWarn:
		return color.New(color.FgYellow).Sprint("WARN")
	case LevelError:
		return color.New(color.FgRed, color.Bold).Sprint("ERROR")
	default:
		return "????"
	}
}

// Logger writes leveled, component-tagged lines to an underlying writer.
// A process constructs one per component (orchestrator, rpcserver, svm, ...)
// sharing the same minimum level and sink.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	component string
	min       Level
}

func New(component string) *Logger {
	return &Logger{out: os.Stderr, component: component, min: LevelInfo}
}

// SetMinLevel raises or lowers the floor below which lines are dropped.
func (l *Logger) SetMinLevel(min Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.min = min
}

// SetOutput redirects the logger's sink, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) log(level Level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.min {
		return
	}
	line := fmt.Sprintf(msg, args...)
	fmt.Fprintf(l.out, "%s [%s] %s: %s\n", time.Now().UTC().Format(time.RFC3339Nano), level.tag(), l.component, line)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

// Dump renders v with go-spew and attaches it to an error-level line. Used
// by the RPC dispatcher and the SVM pipeline to capture a malformed
// request or a rejected transaction's full shape without hand-rolling a
// formatter for every payload type.
func (l *Logger) Dump(msg string, v interface{}) {
	l.log(LevelError, "%s\n%s", msg, spew.Sdump(v))
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package debug provides a debug logger that is silent until enabled,
// either programmatically or through the ENABLE_DEBUG environment variable.
package debug

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Debugger wraps a zap logger whose level gates debug output.
type Debugger struct {
	log   *zap.SugaredLogger
	level zap.AtomicLevel
}

var std *Debugger

// EnableEnvVar is the name of an environment variable that, if set, will
// enable this package's functionality.
const EnableEnvVar = "ENABLE_DEBUG"

func init() {
	std = NewDebugger(os.Stderr)

	if os.Getenv(EnableEnvVar) != "" {
		Enable()
	}
}

func newLogger(out io.Writer, level zap.AtomicLevel) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.ConsoleSeparator = " "
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(out), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()
}

// NewDebugger creates a new *Debugger which logs to the supplied io.Writer
func NewDebugger(out io.Writer) *Debugger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	return &Debugger{
		log:   newLogger(out, level),
		level: level,
	}
}

// Enabled indicates whether or not debugging is enabled
func (d *Debugger) Enabled() bool {
	return d.level.Enabled(zap.DebugLevel)
}

// Enable turns on debug logging
func (d *Debugger) Enable() {
	d.level.SetLevel(zap.DebugLevel)
}

// Disable turns off debug logging
func (d *Debugger) Disable() {
	d.level.SetLevel(zap.InfoLevel)
}

// SetOutput configures the output writer for the debugger's logger
func (d *Debugger) SetOutput(out io.Writer) {
	d.log = newLogger(out, d.level)
}

func (d *Debugger) output(msg string) {
	d.log.Debug(msg)
}

// Printf outputs formatted arguments
func (d *Debugger) Printf(f string, v ...interface{}) {
	if !d.Enabled() {
		return
	}
	d.output(fmt.Sprintf(f, v...))
}

// Print outputs the arguments
func (d *Debugger) Print(v ...interface{}) {
	if !d.Enabled() {
		return
	}
	d.output(fmt.Sprint(v...))
}

// package-level functions follow

// SetOutput configures the output writer for the debug logger
func SetOutput(out io.Writer) {
	std.SetOutput(out)
}

// Enable enables debug logging
func Enable() {
	std.Enable()
}

// Disable disables debug logging
func Disable() {
	std.Disable()
}

// Enabled returns a bool indicating whether or not debugging is enabled
func Enabled() bool {
	return std.Enabled()
}

// Printf prints message if debug logging is enabled.
func Printf(f string, v ...interface{}) {
	if !std.Enabled() {
		return
	}
	std.output(fmt.Sprintf(f, v...))
}

// Print prints arguments if debug logging is enabled.
func Print(v ...interface{}) {
	if !std.Enabled() {
		return
	}
	std.output(fmt.Sprint(v...))
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package alert logs conditions an operator must see. Fatal variants exit
// the process.
package alert

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger with some convenience methods
type Logger struct {
	log  *zap.SugaredLogger
	out  io.Writer
	exit func(int)
}

var std *Logger

func init() {
	std = NewLogger(os.Stderr)
}

func newLogger(out io.Writer, caller bool) *zap.SugaredLogger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " "
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(out), zap.WarnLevel)
	opts := []zap.Option{zap.AddCallerSkip(2)}
	if caller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...).Sugar()
}

// NewLogger returns a *Logger
func NewLogger(out io.Writer) *Logger {
	return &Logger{
		log:  newLogger(out, true),
		out:  out,
		exit: os.Exit,
	}
}

// SetOutput updates the embedded logger's output
func (l *Logger) SetOutput(out io.Writer) {
	l.out = out
	l.log = newLogger(out, true)
}

func (l *Logger) output(msg string) {
	l.log.Warn(msg)
}

// Warnf outputs a formatted log message from the arguments
func (l *Logger) Warnf(f string, v ...interface{}) {
	l.output(fmt.Sprintf(f, v...))
}

// Fatal outputs a log message from the arguments, then exits
func (l *Logger) Fatal(v ...interface{}) {
	l.output(fmt.Sprint(v...))
	l.exit(1)
}

// Abort prints error trace and exits
func (l *Logger) Abort(err error) {
	// Where the abort was called from is noise here.
	log := newLogger(l.out, false)
	log.Warn("Aborting program execution due to error(s):\n" + fmt.Sprintf("%+v", err))
	l.exit(1)
}

// package-level functions follow

// SetOutput configures the output writer for the logger
func SetOutput(out io.Writer) {
	std.SetOutput(out)
}

// Warnf outputs a formatted log message from the arguments
func Warnf(f string, v ...interface{}) {
	std.output(fmt.Sprintf(f, v...))
}

// Fatal outputs a log message from the arguments, then exits
func Fatal(v ...interface{}) {
	std.output(fmt.Sprint(v...))
	std.exit(1)
}

// Abort prints error trace and exits
func Abort(err error) {
	std.Abort(err)
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when a string passed to the library
	// contains a NUL byte and so cannot be represented as a C string.
	ErrInvalidArgument = errors.New("argument contains a NUL byte")

	// ErrInvalidText is returned when bytes returned by the library as
	// text are not valid UTF-8.
	ErrInvalidText = errors.New("library returned text that is not valid UTF-8")

	// ErrReleased is returned by any operation on a handle that has
	// already been released or closed.
	ErrReleased = errors.New("handle has been released")

	// ErrNotConnected matches the failure of any operation that needs a
	// mounted filesystem on a handle that is not mounted.
	ErrNotConnected error = syscall.ENOTCONN
)

// Error is a failure reported by libcephfs.
type Error struct {
	Op    string
	Errno syscall.Errno
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Errno.Error())
}

// Unwrap returns the errno so that errors.Is(err, syscall.ENOENT) works.
func (e *Error) Unwrap() error {
	return e.Errno
}

// Cause satisfies the github.com/pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.Errno
}

// isError translates a libcephfs return code.
func isError(op string, rc int) error {
	if rc < 0 {
		return &Error{Op: op, Errno: syscall.Errno(-rc)}
	}
	return nil
}

// IsNotExist reports whether err is a libcephfs ENOENT.
func IsNotExist(err error) bool {
	return errors.Is(err, syscall.ENOENT)
}

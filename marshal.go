// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"bytes"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
	"github.com/intel-hpdd/go-cephfs/native"
)

const (
	// initial buffer for extended attribute values and name lists
	xattrBufferSize = 4096

	// initial buffer for pool names and CRUSH locations
	nameBufferSize = 1024

	// ceph_conf_get has no size probe, so a short buffer is retried once
	// with the larger size.
	confBufferSize    = 4096
	confMaxBufferSize = 64 * 1024

	pathMax = 4096
)

// checkText fails with ErrInvalidArgument if any of the strings cannot be
// passed as a C string.
func checkText(op string, s ...string) error {
	for _, v := range s {
		if strings.IndexByte(v, 0) >= 0 {
			return errors.Wrap(ErrInvalidArgument, op)
		}
	}
	return nil
}

func toText(op string, b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.Wrap(ErrInvalidText, op)
	}
	return string(b), nil
}

// cString returns the text before the first NUL.
func cString(op string, b []byte) (string, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return toText(op, b)
}

// splitNames splits a sequence of NUL terminated names.
func splitNames(op string, b []byte) ([]string, error) {
	var names []string
	for len(b) > 0 {
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			i = len(b)
		}
		name, err := toText(op, b[:i])
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if i == len(b) {
			break
		}
		b = b[i+1:]
	}
	return names, nil
}

// sizedCall runs fn with a buffer of initial bytes. If libcephfs answers
// ERANGE, fn is called with an empty buffer to learn the exact size and
// then once more with a buffer of that size. Failure of either follow-up
// call is returned as is.
func (m *MountInfo) sizedCall(op string, initial int, fn func(native.Mount, []byte) int) ([]byte, error) {
	buf := make([]byte, initial)
	n, err := m.run(op, func(mnt native.Mount) int { return fn(mnt, buf) })
	if err == nil {
		return buf[:n], nil
	}
	if n != -int(syscall.ERANGE) {
		return nil, err
	}

	size, err := m.run(op, func(mnt native.Mount) int { return fn(mnt, nil) })
	if err != nil {
		return nil, err
	}
	debug.Printf("%s: %d byte buffer too small, retrying with %d", op, initial, size)

	buf = make([]byte, size)
	n, err = m.run(op, func(mnt native.Mount) int { return fn(mnt, buf) })
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		return nil, &Error{Op: op, Errno: syscall.ERANGE}
	}
	return buf[:n], nil
}

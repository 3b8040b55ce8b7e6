// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intel-hpdd/go-cephfs/native"
)

var _ native.Mount = (*flakyMount)(nil)

// nativeMount lets flakyMount embed the interface without its field name
// hiding the Mount method.
type nativeMount = native.Mount

// flakyMount answers Getxattr with a scripted sequence of return codes.
type flakyMount struct {
	nativeMount
	rcs   []int
	sizes []int
	calls int
}

func (f *flakyMount) Getxattr(path, name string, buf []byte) int {
	f.sizes = append(f.sizes, len(buf))
	rc := f.rcs[f.calls]
	f.calls++
	return rc
}

func TestSizedCall(t *testing.T) {
	tests := []struct {
		name  string
		rcs   []int
		calls int
		sizes []int
		errno syscall.Errno
		size  int
	}{
		{
			name:  "fits",
			rcs:   []int{3},
			calls: 1,
			sizes: []int{xattrBufferSize},
			size:  3,
		},
		{
			name:  "probe and retry",
			rcs:   []int{-int(syscall.ERANGE), 10, 10},
			calls: 3,
			sizes: []int{xattrBufferSize, 0, 10},
			size:  10,
		},
		{
			name:  "no retry",
			rcs:   []int{-int(syscall.ENODATA)},
			calls: 1,
			sizes: []int{xattrBufferSize},
			errno: syscall.ENODATA,
		},
		{
			name:  "probe fails",
			rcs:   []int{-int(syscall.ERANGE), -int(syscall.EIO)},
			calls: 2,
			sizes: []int{xattrBufferSize, 0},
			errno: syscall.EIO,
		},
		{
			name:  "grew again",
			rcs:   []int{-int(syscall.ERANGE), 10, -int(syscall.ERANGE)},
			calls: 3,
			sizes: []int{xattrBufferSize, 0, 10},
			errno: syscall.ERANGE,
		},
		{
			name:  "overlong answer",
			rcs:   []int{-int(syscall.ERANGE), 10, 20},
			calls: 3,
			sizes: []int{xattrBufferSize, 0, 10},
			errno: syscall.ERANGE,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flaky := &flakyMount{rcs: tc.rcs}
			m := &MountInfo{mnt: flaky}

			val, err := m.GetXattr("/f", "user.x")
			assert.Equal(t, tc.calls, flaky.calls)
			assert.Equal(t, tc.sizes, flaky.sizes)
			if tc.errno != 0 {
				require.Error(t, err)
				var cerr *Error
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, "getxattr", cerr.Op)
				assert.Equal(t, tc.errno, cerr.Errno)
				return
			}
			require.NoError(t, err)
			assert.Len(t, val, tc.size)
		})
	}
}

func TestSplitNames(t *testing.T) {
	names, err := splitNames("op", []byte("a\x00bc\x00"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bc"}, names)

	names, err = splitNames("op", []byte("a\x00tail"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "tail"}, names)

	names, err = splitNames("op", nil)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = splitNames("op", []byte("ok\x00\xc3\x28\x00"))
	require.ErrorIs(t, err, ErrInvalidText)
}

func TestCString(t *testing.T) {
	s, err := cString("op", []byte("value\x00garbage"))
	require.NoError(t, err)
	assert.Equal(t, "value", s)

	s, err = cString("op", []byte("unterminated"))
	require.NoError(t, err)
	assert.Equal(t, "unterminated", s)

	_, err = cString("op", []byte{0xff, 0})
	require.ErrorIs(t, err, ErrInvalidText)
}

func TestCheckText(t *testing.T) {
	assert.NoError(t, checkText("op", "a", "", "b/c"))
	err := checkText("op", "a", "b\x00c")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "op")
}

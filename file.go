// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"io"
	"syscall"

	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/native"
)

// File is an open libcephfs file descriptor. It implements io.Reader,
// io.Writer, io.ReaderAt, io.WriterAt, io.Seeker and io.Closer.
//
// A File must not be used from more than one goroutine at a time.
type File struct {
	m      *MountInfo
	fd     int
	name   string
	closed bool
}

var (
	_ io.ReadWriteSeeker = (*File)(nil)
	_ io.ReaderAt        = (*File)(nil)
	_ io.WriterAt        = (*File)(nil)
	_ io.Closer          = (*File)(nil)
)

// OpenLayoutParams describe the striping of a file created by OpenLayout.
// Zero values and an empty Pool select the defaults of the parent
// directory.
type OpenLayoutParams struct {
	StripeUnit  int
	StripeCount int
	ObjectSize  int
	Pool        string
}

// Open opens path with the open(2) flags, creating it with mode when
// flags include O_CREAT.
func (m *MountInfo) Open(path string, flags int, mode uint32) (*File, error) {
	if err := checkText("open", path); err != nil {
		return nil, err
	}
	fd, err := m.run("open", func(mnt native.Mount) int { return mnt.Open(path, flags, mode) })
	if err != nil {
		return nil, err
	}
	return &File{m: m, fd: fd, name: path}, nil
}

// OpenLayout opens path like Open. If the file is created, it is given
// the layout in p.
func (m *MountInfo) OpenLayout(path string, flags int, mode uint32, p OpenLayoutParams) (*File, error) {
	if err := checkText("open_layout", path, p.Pool); err != nil {
		return nil, err
	}
	fd, err := m.run("open_layout", func(mnt native.Mount) int {
		return mnt.OpenLayout(path, flags, mode, p.StripeUnit, p.StripeCount, p.ObjectSize, p.Pool)
	})
	if err != nil {
		return nil, err
	}
	return &File{m: m, fd: fd, name: path}, nil
}

func (f *File) run(op string, fn func(mnt native.Mount, fd int) int) (int, error) {
	if f.closed {
		return 0, errors.Wrap(ErrReleased, op)
	}
	return f.m.run(op, func(mnt native.Mount) int { return fn(mnt, f.fd) })
}

func (f *File) call(op string, fn func(mnt native.Mount, fd int) int) error {
	_, err := f.run(op, fn)
	return err
}

// Fd returns the libcephfs descriptor number.
func (f *File) Fd() int {
	return f.fd
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Close closes the descriptor. Closing twice returns ErrReleased.
func (f *File) Close() error {
	if err := f.call("close", func(mnt native.Mount, fd int) int { return mnt.Close(fd) }); err != nil {
		return err
	}
	f.closed = true
	return nil
}

// Fsync flushes the file to the cluster.
func (f *File) Fsync(flags SyncFlags) error {
	return f.call("fsync", func(mnt native.Mount, fd int) int {
		return mnt.Fsync(fd, flags == SyncDataOnly)
	})
}

// Sync flushes data and metadata.
func (f *File) Sync() error {
	return f.Fsync(SyncAll)
}

// Fstatx returns the attributes of the open file selected by want.
func (f *File) Fstatx(want StatxMask, flags AtFlags) (*Statx, error) {
	var stx native.Statx
	err := f.call("fstatx", func(mnt native.Mount, fd int) int {
		return mnt.Fstatx(fd, &stx, uint32(want), uint32(flags))
	})
	if err != nil {
		return nil, err
	}
	return newStatx(&stx), nil
}

// Stat returns the basic attributes of the open file.
func (f *File) Stat() (*Statx, error) {
	return f.Fstatx(StatxBasicStats, 0)
}

// Read reads from the current position. It returns io.EOF at end of
// file.
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := f.run("read", func(mnt native.Mount, fd int) int { return mnt.Read(fd, p, -1) })
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadAt reads len(p) bytes at off without moving the file position. A
// short read returns io.EOF.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, &Error{Op: "read", Errno: syscall.EINVAL}
	}
	var total int
	for len(p) > 0 {
		n, err := f.run("read", func(mnt native.Mount, fd int) int { return mnt.Read(fd, p, off) })
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
		total += n
		p = p[n:]
		off += int64(n)
	}
	return total, nil
}

// Write writes at the current position, or at end of file for a file
// opened with O_APPEND.
func (f *File) Write(p []byte) (int, error) {
	var total int
	for len(p) > 0 {
		n, err := f.run("write", func(mnt native.Mount, fd int) int { return mnt.Write(fd, p, -1) })
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		total += n
		p = p[n:]
	}
	return total, nil
}

// WriteAt writes p at off without moving the file position.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, &Error{Op: "write", Errno: syscall.EINVAL}
	}
	var total int
	for len(p) > 0 {
		n, err := f.run("write", func(mnt native.Mount, fd int) int { return mnt.Write(fd, p, off) })
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		total += n
		p = p[n:]
		off += int64(n)
	}
	return total, nil
}

// Seek sets the file position, interpreting whence as io.Seeker does.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.run("lseek", func(mnt native.Mount, fd int) int {
		return int(mnt.Lseek(fd, offset, whence))
	})
	if err != nil {
		return 0, err
	}
	return int64(pos), nil
}

// Truncate sets the size of the file.
func (f *File) Truncate(size int64) error {
	return f.call("ftruncate", func(mnt native.Mount, fd int) int { return mnt.Ftruncate(fd, size) })
}

// Fchmod changes the permission bits of the file.
func (f *File) Fchmod(mode uint32) error {
	return f.call("fchmod", func(mnt native.Mount, fd int) int { return mnt.Fchmod(fd, mode) })
}

// Fchown changes the owner of the file. A uid or gid of -1 is left
// unchanged.
func (f *File) Fchown(uid, gid int) error {
	return f.call("fchown", func(mnt native.Mount, fd int) int { return mnt.Fchown(fd, uid, gid) })
}

func (f *File) sizedCall(op string, initial int, fn func(mnt native.Mount, fd int, buf []byte) int) ([]byte, error) {
	if f.closed {
		return nil, errors.Wrap(ErrReleased, op)
	}
	return f.m.sizedCall(op, initial, func(mnt native.Mount, buf []byte) int { return fn(mnt, f.fd, buf) })
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

type (
	// Statx holds inode attributes. Only the fields named in Mask are
	// valid.
	Statx struct {
		Mask    StatxMask
		Blksize uint32
		Nlink   uint32
		UID     uint32
		GID     uint32
		Mode    uint32
		Inode   uint64
		Size    uint64
		Blocks  uint64
		Dev     uint64
		Rdev    uint64
		Atime   time.Time
		Mtime   time.Time
		Ctime   time.Time
		Btime   time.Time
		Version uint64
	}

	// SetAttrs carries the values applied by SetAttr. Only the fields
	// selected by the SetAttrMask are used.
	SetAttrs struct {
		Mode  uint32
		UID   uint32
		GID   uint32
		Size  uint64
		Atime time.Time
		Mtime time.Time
		Ctime time.Time
		Btime time.Time
	}

	// StatFS holds filesystem statistics.
	StatFS struct {
		BlockSize       uint64
		FragmentSize    uint64
		Blocks          uint64
		BlocksFree      uint64
		BlocksAvailable uint64
		Files           uint64
		FilesFree       uint64
		FilesAvailable  uint64
		FSID            uint64
		Flag            uint64
		NameMax         uint64
	}
)

func toTime(ts native.Timespec) time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}

func fromTime(t time.Time) native.Timespec {
	if t.IsZero() {
		return native.Timespec{}
	}
	return native.Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

func newStatx(stx *native.Statx) *Statx {
	return &Statx{
		Mask:    StatxMask(stx.Mask),
		Blksize: stx.Blksize,
		Nlink:   stx.Nlink,
		UID:     stx.UID,
		GID:     stx.GID,
		Mode:    uint32(stx.Mode),
		Inode:   stx.Ino,
		Size:    stx.Size,
		Blocks:  stx.Blocks,
		Dev:     stx.Dev,
		Rdev:    stx.Rdev,
		Atime:   toTime(stx.Atime),
		Mtime:   toTime(stx.Mtime),
		Ctime:   toTime(stx.Ctime),
		Btime:   toTime(stx.Btime),
		Version: stx.Version,
	}
}

func (a *SetAttrs) native() *native.Statx {
	return &native.Statx{
		Mode:  uint16(a.Mode),
		UID:   a.UID,
		GID:   a.GID,
		Size:  a.Size,
		Atime: fromTime(a.Atime),
		Mtime: fromTime(a.Mtime),
		Ctime: fromTime(a.Ctime),
		Btime: fromTime(a.Btime),
	}
}

func newStatFS(st *native.StatVFS) *StatFS {
	return &StatFS{
		BlockSize:       st.Bsize,
		FragmentSize:    st.Frsize,
		Blocks:          st.Blocks,
		BlocksFree:      st.Bfree,
		BlocksAvailable: st.Bavail,
		Files:           st.Files,
		FilesFree:       st.Ffree,
		FilesAvailable:  st.Favail,
		FSID:            st.Fsid,
		Flag:            st.Flag,
		NameMax:         st.Namemax,
	}
}

// IsDir reports whether the inode is a directory.
func (s *Statx) IsDir() bool {
	return s.Mode&unix.S_IFMT == unix.S_IFDIR
}

// FileMode converts Mode to an os.FileMode.
func (s *Statx) FileMode() os.FileMode {
	mode := os.FileMode(s.Mode & 0777)
	switch s.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= os.ModeDir
	case unix.S_IFLNK:
		mode |= os.ModeSymlink
	case unix.S_IFIFO:
		mode |= os.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= os.ModeSocket
	case unix.S_IFCHR:
		mode |= os.ModeDevice | os.ModeCharDevice
	case unix.S_IFBLK:
		mode |= os.ModeDevice
	}
	if s.Mode&unix.S_ISUID != 0 {
		mode |= os.ModeSetuid
	}
	if s.Mode&unix.S_ISGID != 0 {
		mode |= os.ModeSetgid
	}
	if s.Mode&unix.S_ISVTX != 0 {
		mode |= os.ModeSticky
	}
	return mode
}

// Used returns the bytes in use, BlocksFree subtracted from Blocks.
func (s *StatFS) Used() uint64 {
	return (s.Blocks - s.BlocksFree) * s.FragmentSize
}

// Total returns the capacity of the filesystem in bytes.
func (s *StatFS) Total() uint64 {
	return s.Blocks * s.FragmentSize
}

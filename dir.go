// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"math"
	"syscall"

	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/native"
)

type (
	// DirEntry is one entry of a directory listing.
	DirEntry struct {
		Inode  uint64
		Offset int64
		Type   DType
		Name   string
	}

	// DirEntryPlus is a directory entry together with the attributes of
	// the inode it names.
	DirEntryPlus struct {
		DirEntry
		Statx *Statx
	}

	// Directory is an open directory cursor. Entries are returned in the
	// order libcephfs provides them, "." and ".." included.
	//
	// A Directory must not be used from more than one goroutine at a time.
	Directory struct {
		m         *MountInfo
		dir       native.Dir
		fromInode bool
		closed    bool
	}
)

// OpenDir opens a directory for reading.
func (m *MountInfo) OpenDir(path string) (*Directory, error) {
	if err := checkText("opendir", path); err != nil {
		return nil, err
	}
	var dir native.Dir
	err := m.call("opendir", func(mnt native.Mount) int {
		var rc int
		dir, rc = mnt.OpenDir(path)
		return rc
	})
	if err != nil {
		return nil, err
	}
	return &Directory{m: m, dir: dir}, nil
}

func (d *Directory) run(op string, fn func(mnt native.Mount, dir native.Dir) int) (int, error) {
	if d.closed {
		return 0, errors.Wrap(ErrReleased, op)
	}
	return d.m.run(op, func(mnt native.Mount) int { return fn(mnt, d.dir) })
}

func newDirEntry(op string, de *native.Dirent) (DirEntry, error) {
	name, err := toText(op, []byte(de.Name))
	if err != nil {
		return DirEntry{}, err
	}
	return DirEntry{
		Inode:  de.Ino,
		Offset: de.Off,
		Type:   DType(de.Type),
		Name:   name,
	}, nil
}

// ReadDir returns the next entry, or nil at the end of the directory.
func (d *Directory) ReadDir() (*DirEntry, error) {
	var de native.Dirent
	rc, err := d.run("readdir", func(mnt native.Mount, dir native.Dir) int {
		return mnt.ReadDir(dir, &de)
	})
	if err != nil || rc == 0 {
		return nil, err
	}
	entry, err := newDirEntry("readdir", &de)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReadDirPlus returns the next entry with the attributes selected by
// want, or nil at the end of the directory.
func (d *Directory) ReadDirPlus(want StatxMask, flags AtFlags) (*DirEntryPlus, error) {
	var de native.Dirent
	var stx native.Statx
	rc, err := d.run("readdirplus", func(mnt native.Mount, dir native.Dir) int {
		return mnt.ReadDirPlus(dir, &de, &stx, uint32(want), uint32(flags))
	})
	if err != nil || rc == 0 {
		return nil, err
	}
	entry, err := newDirEntry("readdirplus", &de)
	if err != nil {
		return nil, err
	}
	return &DirEntryPlus{DirEntry: entry, Statx: newStatx(&stx)}, nil
}

// maxDents bounds GetDents so the record buffer size fits in an int.
const maxDents = math.MaxInt32 / native.DirentSize

// GetDents returns up to max entries. An empty result marks the end of
// the directory.
func (d *Directory) GetDents(max int) ([]DirEntry, error) {
	if max < 1 {
		max = 1
	}
	if max > maxDents {
		return nil, &Error{Op: "getdents", Errno: syscall.EINVAL}
	}
	buf := make([]byte, max*native.DirentSize)
	n, err := d.run("getdents", func(mnt native.Mount, dir native.Dir) int {
		return mnt.GetDents(dir, buf)
	})
	if err != nil {
		return nil, err
	}

	raw := native.DecodeDirents(buf[:n])
	entries := make([]DirEntry, 0, len(raw))
	for i := range raw {
		entry, err := newDirEntry("getdents", &raw[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetDNames returns as many entry names as fit in bufSize bytes, each
// name taking its length plus one. An empty result marks the end of the
// directory.
func (d *Directory) GetDNames(bufSize int) ([]string, error) {
	if bufSize < 0 {
		return nil, &Error{Op: "getdnames", Errno: syscall.EINVAL}
	}
	buf := make([]byte, bufSize)
	n, err := d.run("getdnames", func(mnt native.Mount, dir native.Dir) int {
		return mnt.GetDNames(dir, buf)
	})
	if err != nil {
		return nil, err
	}
	return splitNames("getdnames", buf[:n])
}

// Tell returns the position of the cursor for use with Seek.
func (d *Directory) Tell() (int64, error) {
	pos, err := d.run("telldir", func(mnt native.Mount, dir native.Dir) int {
		return int(mnt.TellDir(dir))
	})
	return int64(pos), err
}

// Seek moves the cursor to a position returned by Tell.
func (d *Directory) Seek(offset int64) error {
	_, err := d.run("seekdir", func(mnt native.Mount, dir native.Dir) int {
		mnt.SeekDir(dir, offset)
		return 0
	})
	return err
}

// Rewind moves the cursor back to the first entry.
func (d *Directory) Rewind() error {
	_, err := d.run("rewinddir", func(mnt native.Mount, dir native.Dir) int {
		mnt.RewindDir(dir)
		return 0
	})
	return err
}

// Close releases the cursor. Closing twice returns ErrReleased.
func (d *Directory) Close() error {
	op := "closedir"
	if d.fromInode {
		op = "ll_releasedir"
	}
	_, err := d.run(op, func(mnt native.Mount, dir native.Dir) int {
		if d.fromInode {
			return mnt.ReleaseDir(dir)
		}
		return mnt.CloseDir(dir)
	})
	if err != nil {
		return err
	}
	d.closed = true
	return nil
}

// ListDir returns the entries of the directory at path, without "." and
// "..".
func (m *MountInfo) ListDir(path string) (entries []DirEntry, err error) {
	dir, err := m.OpenDir(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := dir.Close(); err == nil {
			err = cerr
		}
	}()

	for {
		entry, err := dir.ReadDir()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return entries, nil
		}
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		entries = append(entries, *entry)
	}
}

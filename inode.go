// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/native"
)

// Inode is a low-level reference to an inode, held until Release.
//
// An Inode must not be used from more than one goroutine at a time.
type Inode struct {
	m        *MountInfo
	in       native.Inode
	ino      uint64
	released bool
}

func (m *MountInfo) lookup(op string, ino uint64, fn func(native.Mount) (native.Inode, int)) (*Inode, error) {
	var in native.Inode
	err := m.call(op, func(mnt native.Mount) int {
		var rc int
		in, rc = fn(mnt)
		return rc
	})
	if err != nil {
		return nil, err
	}
	return &Inode{m: m, in: in, ino: ino}, nil
}

// LookupRoot returns a reference to the root inode of the mount.
func (m *MountInfo) LookupRoot() (*Inode, error) {
	return m.lookup("ll_lookup_root", 0, func(mnt native.Mount) (native.Inode, int) {
		return mnt.LookupRoot()
	})
}

// LookupInode returns a reference to inode number ino, asking the MDS if
// it is not cached.
func (m *MountInfo) LookupInode(ino uint64) (*Inode, error) {
	return m.lookup("ll_lookup_inode", ino, func(mnt native.Mount) (native.Inode, int) {
		return mnt.LookupInode(ino)
	})
}

// GetInode returns a reference to a cached inode. Use NoSnap for the live
// version.
func (m *MountInfo) GetInode(ino, snap uint64) (*Inode, error) {
	return m.lookup("ll_get_inode", ino, func(mnt native.Mount) (native.Inode, int) {
		return mnt.GetInode(ino, snap)
	})
}

// Number returns the inode number the reference was obtained with, or
// zero for LookupRoot.
func (i *Inode) Number() uint64 {
	return i.ino
}

func (i *Inode) call(op string, fn func(native.Mount) int) error {
	if i.released {
		return errors.Wrap(ErrReleased, op)
	}
	return i.m.call(op, fn)
}

// OpenDir opens the directory this inode refers to.
func (i *Inode) OpenDir() (*Directory, error) {
	var dir native.Dir
	err := i.call("ll_opendir", func(mnt native.Mount) int {
		var rc int
		dir, rc = mnt.InodeOpenDir(i.in)
		return rc
	})
	if err != nil {
		return nil, err
	}
	return &Directory{m: i.m, dir: dir, fromInode: true}, nil
}

// Release drops the reference. Releasing twice returns ErrReleased.
func (i *Inode) Release() error {
	if err := i.call("ll_put", func(mnt native.Mount) int { return mnt.PutInode(i.in) }); err != nil {
		return err
	}
	i.released = true
	return nil
}

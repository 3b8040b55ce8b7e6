// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"time"

	"github.com/intel-hpdd/go-cephfs/native"
)

// MakeDir creates a directory.
func (m *MountInfo) MakeDir(path string, mode uint32) error {
	if err := checkText("mkdir", path); err != nil {
		return err
	}
	return m.call("mkdir", func(mnt native.Mount) int { return mnt.Mkdir(path, mode) })
}

// MakeDirs creates a directory and any missing parents.
func (m *MountInfo) MakeDirs(path string, mode uint32) error {
	if err := checkText("mkdirs", path); err != nil {
		return err
	}
	return m.call("mkdirs", func(mnt native.Mount) int { return mnt.Mkdirs(path, mode) })
}

// RemoveDir removes an empty directory.
func (m *MountInfo) RemoveDir(path string) error {
	if err := checkText("rmdir", path); err != nil {
		return err
	}
	return m.call("rmdir", func(mnt native.Mount) int { return mnt.Rmdir(path) })
}

// Link creates newname as a hard link to oldname.
func (m *MountInfo) Link(oldname, newname string) error {
	if err := checkText("link", oldname, newname); err != nil {
		return err
	}
	return m.call("link", func(mnt native.Mount) int { return mnt.Link(oldname, newname) })
}

// Symlink creates newname as a symbolic link to existing.
func (m *MountInfo) Symlink(existing, newname string) error {
	if err := checkText("symlink", existing, newname); err != nil {
		return err
	}
	return m.call("symlink", func(mnt native.Mount) int { return mnt.Symlink(existing, newname) })
}

// Readlink returns the target of a symbolic link.
func (m *MountInfo) Readlink(path string) (string, error) {
	if err := checkText("readlink", path); err != nil {
		return "", err
	}
	buf := make([]byte, pathMax)
	n, err := m.run("readlink", func(mnt native.Mount) int { return mnt.Readlink(path, buf) })
	if err != nil {
		return "", err
	}
	return toText("readlink", buf[:n])
}

// Unlink removes a name. The inode is freed once no names or open files
// refer to it.
func (m *MountInfo) Unlink(path string) error {
	if err := checkText("unlink", path); err != nil {
		return err
	}
	return m.call("unlink", func(mnt native.Mount) int { return mnt.Unlink(path) })
}

// Rename moves from to to, replacing to if it exists.
func (m *MountInfo) Rename(from, to string) error {
	if err := checkText("rename", from, to); err != nil {
		return err
	}
	return m.call("rename", func(mnt native.Mount) int { return mnt.Rename(from, to) })
}

// Statx returns the attributes of path selected by want.
func (m *MountInfo) Statx(path string, want StatxMask, flags AtFlags) (*Statx, error) {
	if err := checkText("statx", path); err != nil {
		return nil, err
	}
	var stx native.Statx
	err := m.call("statx", func(mnt native.Mount) int {
		return mnt.Statx(path, &stx, uint32(want), uint32(flags))
	})
	if err != nil {
		return nil, err
	}
	return newStatx(&stx), nil
}

// Stat returns the basic attributes of path, following symlinks.
func (m *MountInfo) Stat(path string) (*Statx, error) {
	return m.Statx(path, StatxBasicStats, 0)
}

// Lstat returns the basic attributes of path without following a trailing
// symlink.
func (m *MountInfo) Lstat(path string) (*Statx, error) {
	return m.Statx(path, StatxBasicStats, AtSymlinkNofollow)
}

// SetAttr applies the attributes selected by mask.
func (m *MountInfo) SetAttr(path string, attrs *SetAttrs, mask SetAttrMask, flags AtFlags) error {
	if err := checkText("setattrx", path); err != nil {
		return err
	}
	stx := attrs.native()
	return m.call("setattrx", func(mnt native.Mount) int {
		return mnt.Setattrx(path, stx, int(mask), int(flags))
	})
}

// Chmod changes the permission bits of path.
func (m *MountInfo) Chmod(path string, mode uint32) error {
	if err := checkText("chmod", path); err != nil {
		return err
	}
	return m.call("chmod", func(mnt native.Mount) int { return mnt.Chmod(path, mode) })
}

// Chown changes the owner of path. A uid or gid of -1 is left unchanged.
func (m *MountInfo) Chown(path string, uid, gid int) error {
	if err := checkText("chown", path); err != nil {
		return err
	}
	return m.call("chown", func(mnt native.Mount) int { return mnt.Chown(path, uid, gid) })
}

// Lchown is Chown without following a trailing symlink.
func (m *MountInfo) Lchown(path string, uid, gid int) error {
	if err := checkText("lchown", path); err != nil {
		return err
	}
	return m.call("lchown", func(mnt native.Mount) int { return mnt.Lchown(path, uid, gid) })
}

// Utime sets the access and modification times of path, to the second.
func (m *MountInfo) Utime(path string, atime, mtime time.Time) error {
	if err := checkText("utime", path); err != nil {
		return err
	}
	return m.call("utime", func(mnt native.Mount) int {
		return mnt.Utime(path, atime.Unix(), mtime.Unix())
	})
}

// Mknod creates a file system node. mode carries the file type bits.
func (m *MountInfo) Mknod(path string, mode uint32, rdev uint64) error {
	if err := checkText("mknod", path); err != nil {
		return err
	}
	return m.call("mknod", func(mnt native.Mount) int { return mnt.Mknod(path, mode, rdev) })
}

// Truncate sets the size of path.
func (m *MountInfo) Truncate(path string, size int64) error {
	if err := checkText("truncate", path); err != nil {
		return err
	}
	return m.call("truncate", func(mnt native.Mount) int { return mnt.Truncate(path, size) })
}

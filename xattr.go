// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"github.com/intel-hpdd/go-cephfs/native"
)

func (m *MountInfo) getXattr(op, path, name string, get func(native.Mount, []byte) int) ([]byte, error) {
	if err := checkText(op, path, name); err != nil {
		return nil, err
	}
	return m.sizedCall(op, xattrBufferSize, get)
}

func (m *MountInfo) listXattr(op, path string, list func(native.Mount, []byte) int) ([]string, error) {
	if err := checkText(op, path); err != nil {
		return nil, err
	}
	buf, err := m.sizedCall(op, xattrBufferSize, list)
	if err != nil {
		return nil, err
	}
	return splitNames(op, buf)
}

// GetXattr returns the value of the extended attribute name of path.
func (m *MountInfo) GetXattr(path, name string) ([]byte, error) {
	return m.getXattr("getxattr", path, name, func(mnt native.Mount, buf []byte) int {
		return mnt.Getxattr(path, name, buf)
	})
}

// LGetXattr is GetXattr without following a trailing symlink.
func (m *MountInfo) LGetXattr(path, name string) ([]byte, error) {
	return m.getXattr("lgetxattr", path, name, func(mnt native.Mount, buf []byte) int {
		return mnt.Lgetxattr(path, name, buf)
	})
}

// ListXattr returns the names of the extended attributes of path.
func (m *MountInfo) ListXattr(path string) ([]string, error) {
	return m.listXattr("listxattr", path, func(mnt native.Mount, buf []byte) int {
		return mnt.Listxattr(path, buf)
	})
}

// LListXattr is ListXattr without following a trailing symlink.
func (m *MountInfo) LListXattr(path string) ([]string, error) {
	return m.listXattr("llistxattr", path, func(mnt native.Mount, buf []byte) int {
		return mnt.Llistxattr(path, buf)
	})
}

// SetXattr sets the extended attribute name of path.
func (m *MountInfo) SetXattr(path, name string, value []byte, flags XattrFlags) error {
	if err := checkText("setxattr", path, name); err != nil {
		return err
	}
	return m.call("setxattr", func(mnt native.Mount) int {
		return mnt.Setxattr(path, name, value, int(flags))
	})
}

// LSetXattr is SetXattr without following a trailing symlink.
func (m *MountInfo) LSetXattr(path, name string, value []byte, flags XattrFlags) error {
	if err := checkText("lsetxattr", path, name); err != nil {
		return err
	}
	return m.call("lsetxattr", func(mnt native.Mount) int {
		return mnt.Lsetxattr(path, name, value, int(flags))
	})
}

// RemoveXattr removes the extended attribute name of path.
func (m *MountInfo) RemoveXattr(path, name string) error {
	if err := checkText("removexattr", path, name); err != nil {
		return err
	}
	return m.call("removexattr", func(mnt native.Mount) int { return mnt.Removexattr(path, name) })
}

// LRemoveXattr is RemoveXattr without following a trailing symlink.
func (m *MountInfo) LRemoveXattr(path, name string) error {
	if err := checkText("lremovexattr", path, name); err != nil {
		return err
	}
	return m.call("lremovexattr", func(mnt native.Mount) int { return mnt.Lremovexattr(path, name) })
}

// GetXattr returns the value of the extended attribute name.
func (f *File) GetXattr(name string) ([]byte, error) {
	if err := checkText("fgetxattr", name); err != nil {
		return nil, err
	}
	return f.sizedCall("fgetxattr", xattrBufferSize, func(mnt native.Mount, fd int, buf []byte) int {
		return mnt.Fgetxattr(fd, name, buf)
	})
}

// ListXattr returns the names of the extended attributes of the file.
func (f *File) ListXattr() ([]string, error) {
	buf, err := f.sizedCall("flistxattr", xattrBufferSize, func(mnt native.Mount, fd int, buf []byte) int {
		return mnt.Flistxattr(fd, buf)
	})
	if err != nil {
		return nil, err
	}
	return splitNames("flistxattr", buf)
}

// SetXattr sets the extended attribute name.
func (f *File) SetXattr(name string, value []byte, flags XattrFlags) error {
	if err := checkText("fsetxattr", name); err != nil {
		return err
	}
	return f.call("fsetxattr", func(mnt native.Mount, fd int) int {
		return mnt.Fsetxattr(fd, name, value, int(flags))
	})
}

// RemoveXattr removes the extended attribute name.
func (f *File) RemoveXattr(name string) error {
	if err := checkText("fremovexattr", name); err != nil {
		return err
	}
	return f.call("fremovexattr", func(mnt native.Mount, fd int) int {
		return mnt.Fremovexattr(fd, name)
	})
}

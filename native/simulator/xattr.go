// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"sort"

	"golang.org/x/sys/unix"
)

// sized copies value into buf following the libcephfs convention: an empty
// buf asks for the size, a short buf fails with ERANGE.
func sized(value []byte, buf []byte) int {
	if len(buf) == 0 {
		return len(value)
	}
	if len(buf) < len(value) {
		return errno(unix.ERANGE)
	}
	return copy(buf, value)
}

func getxattr(in *inode, name string, buf []byte) int {
	value, ok := in.xattrs[name]
	if !ok {
		return errno(unix.ENODATA)
	}
	return sized(value, buf)
}

func listxattr(in *inode, buf []byte) int {
	names := make([]string, 0, len(in.xattrs))
	for name := range in.xattrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var list []byte
	for _, name := range names {
		list = append(list, name...)
		list = append(list, 0)
	}
	return sized(list, buf)
}

func (m *mount) setxattr(in *inode, name string, value []byte, flags int) int {
	if name == "" {
		return errno(unix.EINVAL)
	}
	if len(value) > MaxXattrSize {
		return errno(unix.E2BIG)
	}
	_, exists := in.xattrs[name]
	if flags&unix.XATTR_CREATE != 0 && exists {
		return errno(unix.EEXIST)
	}
	if flags&unix.XATTR_REPLACE != 0 && !exists {
		return errno(unix.ENODATA)
	}
	in.xattrs[name] = append([]byte(nil), value...)
	in.ctime = m.sim.now()
	in.version++
	return 0
}

func (m *mount) removexattr(in *inode, name string) int {
	if _, ok := in.xattrs[name]; !ok {
		return errno(unix.ENODATA)
	}
	delete(in.xattrs, name)
	in.ctime = m.sim.now()
	in.version++
	return 0
}

func (m *mount) pathInode(p string, follow bool) (*inode, int) {
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	return m.resolve(p, follow)
}

func (m *mount) Getxattr(p, name string, buf []byte) int {
	defer m.enter("ceph_getxattr")()
	in, rc := m.pathInode(p, true)
	if rc < 0 {
		return rc
	}
	return getxattr(in, name, buf)
}

func (m *mount) Lgetxattr(p, name string, buf []byte) int {
	defer m.enter("ceph_lgetxattr")()
	in, rc := m.pathInode(p, false)
	if rc < 0 {
		return rc
	}
	return getxattr(in, name, buf)
}

func (m *mount) Fgetxattr(fd int, name string, buf []byte) int {
	defer m.enter("ceph_fgetxattr")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return getxattr(in, name, buf)
}

func (m *mount) Listxattr(p string, buf []byte) int {
	defer m.enter("ceph_listxattr")()
	in, rc := m.pathInode(p, true)
	if rc < 0 {
		return rc
	}
	return listxattr(in, buf)
}

func (m *mount) Llistxattr(p string, buf []byte) int {
	defer m.enter("ceph_llistxattr")()
	in, rc := m.pathInode(p, false)
	if rc < 0 {
		return rc
	}
	return listxattr(in, buf)
}

func (m *mount) Flistxattr(fd int, buf []byte) int {
	defer m.enter("ceph_flistxattr")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return listxattr(in, buf)
}

func (m *mount) Setxattr(p, name string, value []byte, flags int) int {
	defer m.enter("ceph_setxattr")()
	in, rc := m.pathInode(p, true)
	if rc < 0 {
		return rc
	}
	return m.setxattr(in, name, value, flags)
}

func (m *mount) Lsetxattr(p, name string, value []byte, flags int) int {
	defer m.enter("ceph_lsetxattr")()
	in, rc := m.pathInode(p, false)
	if rc < 0 {
		return rc
	}
	return m.setxattr(in, name, value, flags)
}

func (m *mount) Fsetxattr(fd int, name string, value []byte, flags int) int {
	defer m.enter("ceph_fsetxattr")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return m.setxattr(in, name, value, flags)
}

func (m *mount) Removexattr(p, name string) int {
	defer m.enter("ceph_removexattr")()
	in, rc := m.pathInode(p, true)
	if rc < 0 {
		return rc
	}
	return m.removexattr(in, name)
}

func (m *mount) Lremovexattr(p, name string) int {
	defer m.enter("ceph_lremovexattr")()
	in, rc := m.pathInode(p, false)
	if rc < 0 {
		return rc
	}
	return m.removexattr(in, name)
}

func (m *mount) Fremovexattr(fd int, name string) int {
	defer m.enter("ceph_fremovexattr")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return m.removexattr(in, name)
}

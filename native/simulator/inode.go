// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

// inodeRef is a counted reference handed out by the low-level lookups.
type inodeRef struct {
	ino      uint64
	released bool
}

func (m *mount) ref(in *inode) *inodeRef {
	in.refs++
	return &inodeRef{ino: in.ino}
}

func (m *mount) LookupRoot() (native.Inode, int) {
	defer m.enter("ceph_ll_lookup_root")()
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	return m.ref(m.sim.inodes[m.root]), 0
}

func (m *mount) LookupInode(ino uint64) (native.Inode, int) {
	defer m.enter("ceph_ll_lookup_inode")()
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	in, ok := m.sim.inodes[ino]
	if !ok {
		return nil, errno(unix.ESTALE)
	}
	return m.ref(in), 0
}

func (m *mount) GetInode(ino, snap uint64) (native.Inode, int) {
	defer m.enter("ceph_ll_get_inode")()
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	in, ok := m.sim.inodes[ino]
	if !ok || snap != NoSnap {
		return nil, errno(unix.ENOENT)
	}
	return m.ref(in), 0
}

func (m *mount) inodeOf(h native.Inode) (*inode, *inodeRef, int) {
	r, ok := h.(*inodeRef)
	if !ok || r.released {
		return nil, nil, errno(unix.EINVAL)
	}
	in, ok := m.sim.inodes[r.ino]
	if !ok {
		return nil, nil, errno(unix.ESTALE)
	}
	return in, r, 0
}

func (m *mount) InodeOpenDir(h native.Inode) (native.Dir, int) {
	defer m.enter("ceph_ll_opendir")()
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	in, _, rc := m.inodeOf(h)
	if rc < 0 {
		return nil, rc
	}
	if !in.isDir() {
		return nil, errno(unix.ENOTDIR)
	}
	return m.snapshot(in), 0
}

func (m *mount) ReleaseDir(d native.Dir) int {
	defer m.enter("ceph_ll_releasedir")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return rc
	}
	delete(m.dirs, c)
	return 0
}

func (m *mount) PutInode(h native.Inode) int {
	defer m.enter("ceph_ll_put")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, r, rc := m.inodeOf(h)
	if rc < 0 {
		return rc
	}
	r.released = true
	in.refs--
	if in.refs == 0 && in.nlink == 0 && !m.sim.isOpen(in.ino) {
		delete(m.sim.inodes, in.ino)
	}
	return 0
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

// dirCursor snapshots the directory listing when it is opened.
type dirCursor struct {
	ino     uint64
	entries []native.Dirent
	pos     int
}

func (m *mount) snapshot(in *inode) *dirCursor {
	parent := in.parent
	if in.ino == m.root {
		parent = in.ino
	}
	entries := []native.Dirent{
		{Ino: in.ino, Type: fileType(unix.S_IFDIR), Name: "."},
		{Ino: parent, Type: fileType(unix.S_IFDIR), Name: ".."},
	}
	for _, name := range in.sortedChildren() {
		child := m.sim.inodes[in.children[name]]
		entries = append(entries, native.Dirent{
			Ino:  child.ino,
			Type: fileType(child.mode),
			Name: name,
		})
	}
	for i := range entries {
		entries[i].Off = int64(i + 1)
		entries[i].Reclen = 1
	}
	c := &dirCursor{ino: in.ino, entries: entries}
	m.dirs[c] = struct{}{}
	return c
}

func (m *mount) cursor(d native.Dir) (*dirCursor, int) {
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	c, ok := d.(*dirCursor)
	if !ok {
		return nil, errno(unix.EBADF)
	}
	if _, ok := m.dirs[c]; !ok {
		return nil, errno(unix.EBADF)
	}
	return c, 0
}

func (m *mount) OpenDir(p string) (native.Dir, int) {
	defer m.enter("ceph_opendir")()
	if rc := m.mounted(); rc < 0 {
		return nil, rc
	}
	in, rc := m.resolve(p, true)
	if rc < 0 {
		return nil, rc
	}
	if !in.isDir() {
		return nil, errno(unix.ENOTDIR)
	}
	return m.snapshot(in), 0
}

func (m *mount) CloseDir(d native.Dir) int {
	defer m.enter("ceph_closedir")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return rc
	}
	delete(m.dirs, c)
	return 0
}

func (m *mount) ReadDir(d native.Dir, de *native.Dirent) int {
	defer m.enter("ceph_readdir_r")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return rc
	}
	if c.pos >= len(c.entries) {
		return 0
	}
	*de = c.entries[c.pos]
	c.pos++
	return 1
}

func (m *mount) ReadDirPlus(d native.Dir, de *native.Dirent, stx *native.Statx, want, flags uint32) int {
	defer m.enter("ceph_readdirplus_r")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return rc
	}
	for c.pos < len(c.entries) {
		entry := c.entries[c.pos]
		c.pos++
		in, ok := m.sim.inodes[entry.Ino]
		if !ok {
			// removed since the cursor was opened
			continue
		}
		*de = entry
		in.statx(stx)
		return 1
	}
	return 0
}

func (m *mount) GetDents(d native.Dir, buf []byte) int {
	defer m.enter("ceph_getdents")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return rc
	}

	var n int
	for c.pos < len(c.entries) {
		if len(buf)-n < native.DirentSize {
			if n == 0 {
				return errno(unix.ERANGE)
			}
			break
		}
		native.EncodeDirent(buf[n:], &c.entries[c.pos])
		n += native.DirentSize
		c.pos++
	}
	return n
}

func (m *mount) GetDNames(d native.Dir, buf []byte) int {
	defer m.enter("ceph_getdnames")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return rc
	}

	var n int
	for c.pos < len(c.entries) {
		name := c.entries[c.pos].Name
		if len(buf)-n < len(name)+1 {
			if n == 0 {
				return errno(unix.ERANGE)
			}
			break
		}
		n += copy(buf[n:], name)
		buf[n] = 0
		n++
		c.pos++
	}
	return n
}

func (m *mount) TellDir(d native.Dir) int64 {
	defer m.enter("ceph_telldir")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return int64(rc)
	}
	return int64(c.pos)
}

func (m *mount) SeekDir(d native.Dir, offset int64) {
	defer m.enter("ceph_seekdir")()
	c, rc := m.cursor(d)
	if rc < 0 {
		return
	}
	switch {
	case offset < 0:
		c.pos = 0
	case offset > int64(len(c.entries)):
		c.pos = len(c.entries)
	default:
		c.pos = int(offset)
	}
}

func (m *mount) RewindDir(d native.Dir) {
	defer m.enter("ceph_rewinddir")()
	if c, rc := m.cursor(d); rc == 0 {
		c.pos = 0
	}
}

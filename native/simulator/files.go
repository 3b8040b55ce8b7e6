// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"io"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

func errno(e unix.Errno) int {
	return -int(e)
}

func (m *mount) create(p string, mode uint32) (*inode, int) {
	dir, name, rc := m.resolveParent(p)
	if rc < 0 {
		return nil, rc
	}
	if _, ok := dir.children[name]; ok {
		return nil, errno(unix.EEXIST)
	}
	in := m.sim.allocInode(mode, dir.ino)
	dir.children[name] = in.ino
	if in.isDir() {
		dir.nlink++
	}
	dir.touch(m.sim.now())
	return in, 0
}

func (m *mount) Mkdir(p string, mode uint32) int {
	defer m.enter("ceph_mkdir")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	_, rc := m.create(p, unix.S_IFDIR|(mode&07777))
	return rc
}

func (m *mount) Mkdirs(p string, mode uint32) int {
	defer m.enter("ceph_mkdirs")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}

	parts := splitPath(p)
	if len(parts) == 0 {
		return errno(unix.EEXIST)
	}
	prefix := ""
	if p[0] == '/' {
		prefix = "/"
	}
	for i := range parts {
		sub := prefix + strings.Join(parts[:i+1], "/")
		in, rc := m.resolve(sub, true)
		if rc == 0 {
			if !in.isDir() {
				return errno(unix.ENOTDIR)
			}
			if i == len(parts)-1 {
				return errno(unix.EEXIST)
			}
			continue
		}
		if rc != errno(unix.ENOENT) {
			return rc
		}
		if _, rc := m.create(sub, unix.S_IFDIR|(mode&07777)); rc < 0 {
			return rc
		}
	}
	return 0
}

func (m *mount) Rmdir(p string) int {
	defer m.enter("ceph_rmdir")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	dir, name, rc := m.resolveParent(p)
	if rc == errno(unix.EEXIST) {
		return errno(unix.EBUSY)
	}
	if rc < 0 {
		return rc
	}
	ino, ok := dir.children[name]
	if !ok {
		return errno(unix.ENOENT)
	}
	in := m.sim.inodes[ino]
	if !in.isDir() {
		return errno(unix.ENOTDIR)
	}
	if len(in.children) > 0 {
		return errno(unix.ENOTEMPTY)
	}
	if in.ino == m.root || in.ino == m.cwd {
		return errno(unix.EBUSY)
	}
	delete(dir.children, name)
	dir.nlink--
	dir.touch(m.sim.now())
	m.dropLink(in)
	return 0
}

// dropLink removes one name of in and frees it when the last name is gone
// and nothing holds a reference.
func (m *mount) dropLink(in *inode) {
	if in.isDir() {
		in.nlink = 0
	} else {
		in.nlink--
	}
	in.ctime = m.sim.now()
	if in.nlink == 0 && in.refs == 0 && !m.sim.isOpen(in.ino) {
		delete(m.sim.inodes, in.ino)
	}
}

func (s *Simulator) isOpen(ino uint64) bool {
	for _, m := range s.mounts {
		for _, f := range m.fds {
			if f.ino == ino {
				return true
			}
		}
	}
	return false
}

func (m *mount) Link(oldname, newname string) int {
	defer m.enter("ceph_link")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(oldname, false)
	if rc < 0 {
		return rc
	}
	if in.isDir() {
		return errno(unix.EPERM)
	}
	dir, name, rc := m.resolveParent(newname)
	if rc < 0 {
		return rc
	}
	if _, ok := dir.children[name]; ok {
		return errno(unix.EEXIST)
	}
	dir.children[name] = in.ino
	in.nlink++
	now := m.sim.now()
	in.ctime = now
	dir.touch(now)
	return 0
}

func (m *mount) Symlink(existing, newname string) int {
	defer m.enter("ceph_symlink")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	if existing == "" {
		return errno(unix.ENOENT)
	}
	in, rc := m.create(newname, unix.S_IFLNK|0777)
	if rc < 0 {
		return rc
	}
	in.target = existing
	return 0
}

func (m *mount) Readlink(p string, buf []byte) int {
	defer m.enter("ceph_readlink")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, false)
	if rc < 0 {
		return rc
	}
	if !in.isLink() {
		return errno(unix.EINVAL)
	}
	return copy(buf, in.target)
}

func (m *mount) Unlink(p string) int {
	defer m.enter("ceph_unlink")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	dir, name, rc := m.resolveParent(p)
	if rc < 0 {
		return rc
	}
	ino, ok := dir.children[name]
	if !ok {
		return errno(unix.ENOENT)
	}
	in := m.sim.inodes[ino]
	if in.isDir() {
		return errno(unix.EISDIR)
	}
	delete(dir.children, name)
	dir.touch(m.sim.now())
	m.dropLink(in)
	return 0
}

func (m *mount) isAncestor(ancestor, ino uint64) bool {
	for {
		if ino == ancestor {
			return true
		}
		if ino == m.root || ino == rootIno {
			return false
		}
		ino = m.sim.inodes[ino].parent
	}
}

func (m *mount) Rename(from, to string) int {
	defer m.enter("ceph_rename")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	srcDir, srcName, rc := m.resolveParent(from)
	if rc < 0 {
		return rc
	}
	ino, ok := srcDir.children[srcName]
	if !ok {
		return errno(unix.ENOENT)
	}
	in := m.sim.inodes[ino]

	dstDir, dstName, rc := m.resolveParent(to)
	if rc < 0 {
		return rc
	}
	if in.isDir() && m.isAncestor(in.ino, dstDir.ino) {
		return errno(unix.EINVAL)
	}

	if existing, ok := dstDir.children[dstName]; ok {
		if existing == ino {
			return 0
		}
		target := m.sim.inodes[existing]
		switch {
		case target.isDir() && !in.isDir():
			return errno(unix.EISDIR)
		case !target.isDir() && in.isDir():
			return errno(unix.ENOTDIR)
		case target.isDir() && len(target.children) > 0:
			return errno(unix.ENOTEMPTY)
		}
		if target.isDir() {
			dstDir.nlink--
		}
		m.dropLink(target)
	}

	delete(srcDir.children, srcName)
	dstDir.children[dstName] = ino
	if in.isDir() {
		in.parent = dstDir.ino
		srcDir.nlink--
		dstDir.nlink++
	}
	now := m.sim.now()
	srcDir.touch(now)
	dstDir.touch(now)
	in.ctime = now
	return 0
}

func (m *mount) Statx(p string, stx *native.Statx, want, flags uint32) int {
	defer m.enter("ceph_statx")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, flags&unix.AT_SYMLINK_NOFOLLOW == 0)
	if rc < 0 {
		return rc
	}
	in.statx(stx)
	return 0
}

func fromTimespec(ts native.Timespec) time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}

func (m *mount) setattr(in *inode, stx *native.Statx, mask int) int {
	if mask&native.SetattrSize != 0 {
		if in.isDir() {
			return errno(unix.EISDIR)
		}
		resize(in, int64(stx.Size))
	}
	if mask&native.SetattrMode != 0 {
		in.mode = in.mode&unix.S_IFMT | uint32(stx.Mode)&07777
	}
	if mask&native.SetattrUID != 0 {
		in.uid = stx.UID
	}
	if mask&native.SetattrGID != 0 {
		in.gid = stx.GID
	}
	if mask&native.SetattrAtime != 0 {
		in.atime = fromTimespec(stx.Atime)
	}
	if mask&native.SetattrMtime != 0 {
		in.mtime = fromTimespec(stx.Mtime)
	}
	if mask&native.SetattrBtime != 0 {
		in.btime = fromTimespec(stx.Btime)
	}
	in.ctime = m.sim.now()
	if mask&native.SetattrCtime != 0 {
		in.ctime = fromTimespec(stx.Ctime)
	}
	in.version++
	return 0
}

func (m *mount) Setattrx(p string, stx *native.Statx, mask, flags int) int {
	defer m.enter("ceph_setattrx")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, flags&unix.AT_SYMLINK_NOFOLLOW == 0)
	if rc < 0 {
		return rc
	}
	return m.setattr(in, stx, mask)
}

func (m *mount) Chmod(p string, mode uint32) int {
	defer m.enter("ceph_chmod")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, true)
	if rc < 0 {
		return rc
	}
	return m.setattr(in, &native.Statx{Mode: uint16(mode)}, native.SetattrMode)
}

func (m *mount) chown(in *inode, uid, gid int) int {
	mask := 0
	stx := &native.Statx{}
	if uid != -1 {
		mask |= native.SetattrUID
		stx.UID = uint32(uid)
	}
	if gid != -1 {
		mask |= native.SetattrGID
		stx.GID = uint32(gid)
	}
	return m.setattr(in, stx, mask)
}

func (m *mount) Chown(p string, uid, gid int) int {
	defer m.enter("ceph_chown")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, true)
	if rc < 0 {
		return rc
	}
	return m.chown(in, uid, gid)
}

func (m *mount) Lchown(p string, uid, gid int) int {
	defer m.enter("ceph_lchown")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, false)
	if rc < 0 {
		return rc
	}
	return m.chown(in, uid, gid)
}

func (m *mount) Utime(p string, atime, mtime int64) int {
	defer m.enter("ceph_utime")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, true)
	if rc < 0 {
		return rc
	}
	stx := &native.Statx{
		Atime: native.Timespec{Sec: atime},
		Mtime: native.Timespec{Sec: mtime},
	}
	return m.setattr(in, stx, native.SetattrAtime|native.SetattrMtime)
}

func (m *mount) Mknod(p string, mode uint32, rdev uint64) int {
	defer m.enter("ceph_mknod")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	switch mode & unix.S_IFMT {
	case 0:
		mode |= unix.S_IFREG
	case unix.S_IFREG, unix.S_IFIFO, unix.S_IFCHR, unix.S_IFBLK, unix.S_IFSOCK:
	default:
		return errno(unix.EINVAL)
	}
	in, rc := m.create(p, mode)
	if rc < 0 {
		return rc
	}
	in.rdev = rdev
	return 0
}

func resize(in *inode, size int64) {
	if size < int64(len(in.data)) {
		in.data = in.data[:size]
	} else {
		in.data = append(in.data, make([]byte, size-int64(len(in.data)))...)
	}
}

func (m *mount) Truncate(p string, size int64) int {
	defer m.enter("ceph_truncate")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	if size < 0 {
		return errno(unix.EINVAL)
	}
	in, rc := m.resolve(p, true)
	if rc < 0 {
		return rc
	}
	return m.setattr(in, &native.Statx{Size: uint64(size)}, native.SetattrSize)
}

func (m *mount) open(p string, flags int, mode uint32) (*inode, int) {
	in, rc := m.resolve(p, flags&unix.O_NOFOLLOW == 0)
	switch {
	case rc == errno(unix.ENOENT) && flags&unix.O_CREAT != 0:
		in, rc = m.create(p, unix.S_IFREG|(mode&07777))
		if rc < 0 {
			return nil, rc
		}
	case rc < 0:
		return nil, rc
	case flags&(unix.O_CREAT|unix.O_EXCL) == unix.O_CREAT|unix.O_EXCL:
		return nil, errno(unix.EEXIST)
	}

	if in.isLink() {
		return nil, errno(unix.ELOOP)
	}
	if flags&unix.O_DIRECTORY != 0 && !in.isDir() {
		return nil, errno(unix.ENOTDIR)
	}
	if in.isDir() && flags&unix.O_ACCMODE != unix.O_RDONLY {
		return nil, errno(unix.EISDIR)
	}
	if flags&unix.O_TRUNC != 0 && flags&unix.O_ACCMODE != unix.O_RDONLY {
		resize(in, 0)
		in.touch(m.sim.now())
	}
	return in, 0
}

func (m *mount) newFd(in *inode, flags int) int {
	fd := m.nextFd
	m.nextFd++
	m.fds[fd] = &openFile{ino: in.ino, flags: flags}
	return fd
}

func (m *mount) Open(p string, flags int, mode uint32) int {
	defer m.enter("ceph_open")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.open(p, flags, mode)
	if rc < 0 {
		return rc
	}
	return m.newFd(in, flags)
}

func (m *mount) validLayout(stripeUnit, stripeCount, objectSize int, pool string) (native.Layout, int) {
	l := m.sim.defaultLayout()
	if stripeUnit > 0 {
		if stripeUnit%StripeUnitGranularity != 0 {
			return l, errno(unix.EINVAL)
		}
		l.StripeUnit = stripeUnit
	}
	if stripeCount > 0 {
		l.StripeCount = stripeCount
	}
	if objectSize > 0 {
		l.ObjectSize = objectSize
	}
	if l.ObjectSize%l.StripeUnit != 0 {
		return l, errno(unix.EINVAL)
	}
	if pool != "" {
		p := m.sim.poolByName(pool)
		if p == nil {
			return l, errno(unix.EINVAL)
		}
		l.Pool = p.ID
	}
	return l, 0
}

func (m *mount) OpenLayout(p string, flags int, mode uint32, stripeUnit, stripeCount, objectSize int, pool string) int {
	defer m.enter("ceph_open_layout")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	layout, rc := m.validLayout(stripeUnit, stripeCount, objectSize, pool)
	if rc < 0 {
		return rc
	}

	_, exists := m.resolve(p, true)
	in, rc := m.open(p, flags, mode)
	if rc < 0 {
		return rc
	}
	if exists < 0 {
		in.layout = layout
	}
	return m.newFd(in, flags)
}

func (m *mount) file(fd int) (*openFile, *inode, int) {
	if rc := m.mounted(); rc < 0 {
		return nil, nil, rc
	}
	f, ok := m.fds[fd]
	if !ok {
		return nil, nil, errno(unix.EBADF)
	}
	return f, m.sim.inodes[f.ino], 0
}

func (m *mount) Close(fd int) int {
	defer m.enter("ceph_close")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	delete(m.fds, fd)
	if in.nlink == 0 && in.refs == 0 && !m.sim.isOpen(in.ino) {
		delete(m.sim.inodes, in.ino)
	}
	return 0
}

func (m *mount) Fsync(fd int, dataOnly bool) int {
	defer m.enter("ceph_fsync")()
	_, _, rc := m.file(fd)
	return rc
}

func (m *mount) Fstatx(fd int, stx *native.Statx, want, flags uint32) int {
	defer m.enter("ceph_fstatx")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	in.statx(stx)
	return 0
}

func (m *mount) Fchmod(fd int, mode uint32) int {
	defer m.enter("ceph_fchmod")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return m.setattr(in, &native.Statx{Mode: uint16(mode)}, native.SetattrMode)
}

func (m *mount) Fchown(fd int, uid, gid int) int {
	defer m.enter("ceph_fchown")()
	_, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return m.chown(in, uid, gid)
}

func (m *mount) Ftruncate(fd int, size int64) int {
	defer m.enter("ceph_ftruncate")()
	f, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	if f.flags&unix.O_ACCMODE == unix.O_RDONLY {
		return errno(unix.EBADF)
	}
	if size < 0 {
		return errno(unix.EINVAL)
	}
	return m.setattr(in, &native.Statx{Size: uint64(size)}, native.SetattrSize)
}

func (m *mount) Read(fd int, buf []byte, offset int64) int {
	defer m.enter("ceph_read")()
	f, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	if f.flags&unix.O_ACCMODE == unix.O_WRONLY {
		return errno(unix.EBADF)
	}
	if in.isDir() {
		return errno(unix.EISDIR)
	}

	pos := offset
	if offset < 0 {
		pos = f.pos
	}
	var n int
	if pos < int64(len(in.data)) {
		n = copy(buf, in.data[pos:])
	}
	if offset < 0 {
		f.pos += int64(n)
	}
	in.atime = m.sim.now()
	return n
}

func (m *mount) Write(fd int, buf []byte, offset int64) int {
	defer m.enter("ceph_write")()
	f, in, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	if f.flags&unix.O_ACCMODE == unix.O_RDONLY {
		return errno(unix.EBADF)
	}

	pos := offset
	switch {
	case f.flags&unix.O_APPEND != 0:
		pos = int64(len(in.data))
	case offset < 0:
		pos = f.pos
	}
	if end := pos + int64(len(buf)); end > int64(len(in.data)) {
		resize(in, end)
	}
	n := copy(in.data[pos:], buf)
	if offset < 0 || f.flags&unix.O_APPEND != 0 {
		f.pos = pos + int64(n)
	}
	in.touch(m.sim.now())
	return n
}

func (m *mount) Lseek(fd int, offset int64, whence int) int64 {
	defer m.enter("ceph_lseek")()
	f, in, rc := m.file(fd)
	if rc < 0 {
		return int64(rc)
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.pos + offset
	case io.SeekEnd:
		pos = int64(len(in.data)) + offset
	default:
		return int64(errno(unix.EINVAL))
	}
	if pos < 0 {
		return int64(errno(unix.EINVAL))
	}
	f.pos = pos
	return pos
}

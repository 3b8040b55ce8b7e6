// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

func mounted(t *testing.T) (*Simulator, native.Mount) {
	s := New()
	m, rc := s.Create("test")
	require.Equal(t, 0, rc)
	require.Equal(t, 0, m.Init())
	require.Equal(t, 0, m.Mount("/"))
	return s, m
}

func TestLifecycle(t *testing.T) {
	s := New()
	m, rc := s.Create("")
	require.Equal(t, 0, rc)

	assert.False(t, m.IsMounted())
	assert.Equal(t, -int(unix.ENOTCONN), m.Mkdir("/a", 0755))
	assert.Equal(t, 0, m.Mount(""))
	assert.True(t, m.IsMounted())
	assert.Equal(t, -int(unix.EISCONN), m.Mount("/"))
	assert.Equal(t, -int(unix.EISCONN), m.Release())
	assert.Equal(t, 0, m.Unmount())
	assert.Equal(t, 0, m.Release())
	assert.Equal(t, -int(unix.ENOTCONN), m.Release())

	assert.Equal(t, []string{
		"ceph_create", "ceph_is_mounted", "ceph_mkdir", "ceph_mount",
		"ceph_is_mounted", "ceph_mount", "ceph_release", "ceph_unmount",
		"ceph_release", "ceph_release",
	}, s.Calls())
}

func TestMountSubtree(t *testing.T) {
	s, m := mounted(t)
	require.Equal(t, 0, m.Mkdirs("/volumes/a", 0755))

	sub, _ := s.Create("other")
	require.Equal(t, 0, sub.Mount("/volumes"))
	cwd, ok := sub.Getcwd()
	require.True(t, ok)
	assert.Equal(t, "/", cwd)

	var stx native.Statx
	require.Equal(t, 0, sub.Statx("/a", &stx, native.StatxBasicStats, 0))
	assert.Equal(t, uint32(unix.S_IFDIR), uint32(stx.Mode)&unix.S_IFMT)

	// ".." never escapes the mount root
	require.Equal(t, 0, sub.Statx("/../../a", &stx, native.StatxBasicStats, 0))
}

func TestConf(t *testing.T) {
	s := New()
	m, _ := s.Create("")

	assert.Equal(t, -int(unix.ENOENT), m.ConfSet("no_such_option", "1"))
	require.Equal(t, 0, m.ConfSet("client_quota", "false"))

	buf := make([]byte, 6)
	require.Equal(t, 0, m.ConfGet("client_quota", buf))
	assert.Equal(t, "false\x00", string(buf))

	assert.Equal(t, -int(unix.ENAMETOOLONG), m.ConfGet("client_quota", buf[:5]))

	require.Equal(t, 0, m.ConfParseArgv([]string{"prog", "--debug-client=20", "--log_file", "/tmp/x"}))
	buf = make([]byte, 64)
	require.Equal(t, 0, m.ConfGet("debug_client", buf))
	assert.Equal(t, "20", string(buf[:2]))
	require.Equal(t, 0, m.ConfGet("log_file", buf))
	assert.Equal(t, "/tmp/x", string(buf[:6]))
}

func TestFileIO(t *testing.T) {
	s, m := mounted(t)

	fd := m.Open("/f", unix.O_CREAT|unix.O_RDWR, 0644)
	require.True(t, fd > 0)
	assert.Equal(t, 5, m.Write(fd, []byte("hello"), -1))
	assert.Equal(t, 6, m.Write(fd, []byte(" world"), -1))
	assert.Equal(t, int64(0), m.Lseek(fd, 0, 0))

	buf := make([]byte, 32)
	n := m.Read(fd, buf, -1)
	assert.Equal(t, "hello world", string(buf[:n]))
	assert.Equal(t, 5, m.Read(fd, buf, 6))
	assert.Equal(t, 0, m.Read(fd, buf, 100))

	var stx native.Statx
	require.Equal(t, 0, m.Fstatx(fd, &stx, native.StatxBasicStats, 0))
	assert.Equal(t, uint64(11), stx.Size)

	require.Equal(t, 0, m.Ftruncate(fd, 5))
	require.Equal(t, 0, m.Close(fd))
	assert.Equal(t, -int(unix.EBADF), m.Close(fd))
	assert.Equal(t, 0, s.OpenFiles())

	assert.Equal(t, -int(unix.EEXIST), m.Open("/f", unix.O_CREAT|unix.O_EXCL|unix.O_WRONLY, 0644))
	assert.Equal(t, -int(unix.ENOENT), m.Open("/missing", unix.O_RDONLY, 0))
}

func TestUnlinkOpenFile(t *testing.T) {
	_, m := mounted(t)

	fd := m.Open("/f", unix.O_CREAT|unix.O_RDWR, 0644)
	require.True(t, fd > 0)
	m.Write(fd, []byte("data"), 0)
	require.Equal(t, 0, m.Unlink("/f"))

	buf := make([]byte, 4)
	assert.Equal(t, 4, m.Read(fd, buf, 0))
	require.Equal(t, 0, m.Close(fd))

	var stx native.Statx
	assert.Equal(t, -int(unix.ENOENT), m.Statx("/f", &stx, 0, 0))
}

func TestNamespace(t *testing.T) {
	_, m := mounted(t)

	require.Equal(t, 0, m.Mkdir("/d", 0755))
	assert.Equal(t, -int(unix.EEXIST), m.Mkdir("/d", 0755))
	assert.Equal(t, -int(unix.ENOENT), m.Mkdir("/x/y", 0755))
	require.Equal(t, 0, m.Mkdirs("/x/y/z", 0755))

	require.Equal(t, 0, m.Mknod("/d/f", 0644, 0))
	require.Equal(t, 0, m.Link("/d/f", "/d/g"))
	assert.Equal(t, -int(unix.EPERM), m.Link("/d", "/e"))
	require.Equal(t, 0, m.Symlink("f", "/d/l"))

	buf := make([]byte, 16)
	n := m.Readlink("/d/l", buf)
	assert.Equal(t, "f", string(buf[:n]))
	assert.Equal(t, -int(unix.EINVAL), m.Readlink("/d/f", buf))

	var stx native.Statx
	require.Equal(t, 0, m.Statx("/d/l", &stx, 0, unix.AT_SYMLINK_NOFOLLOW))
	assert.Equal(t, uint32(unix.S_IFLNK), uint32(stx.Mode)&unix.S_IFMT)
	require.Equal(t, 0, m.Statx("/d/l", &stx, 0, 0))
	assert.Equal(t, uint32(unix.S_IFREG), uint32(stx.Mode)&unix.S_IFMT)
	assert.Equal(t, uint32(2), stx.Nlink)

	assert.Equal(t, -int(unix.ENOTEMPTY), m.Rmdir("/d"))
	assert.Equal(t, -int(unix.ENOTDIR), m.Rmdir("/d/f"))
	assert.Equal(t, -int(unix.EISDIR), m.Unlink("/d"))
	assert.Equal(t, -int(unix.EINVAL), m.Rename("/x", "/x/y/z/w"))

	require.Equal(t, 0, m.Rename("/d/g", "/x/g"))
	require.Equal(t, 0, m.Chdir("/x/y/z"))
	cwd, _ := m.Getcwd()
	assert.Equal(t, "/x/y/z", cwd)
	require.Equal(t, 0, m.Statx("../../g", &stx, 0, 0))
	assert.Equal(t, -int(unix.EBUSY), m.Rmdir("/x/y/z"))

	require.Equal(t, 0, m.Symlink("/loop", "/loop"))
	assert.Equal(t, -int(unix.ELOOP), m.Statx("/loop", &stx, 0, 0))
}

func TestSetattr(t *testing.T) {
	_, m := mounted(t)
	require.Equal(t, 0, m.Mknod("/f", 0600, 0))

	require.Equal(t, 0, m.Chmod("/f", 0640))
	require.Equal(t, 0, m.Chown("/f", 100, -1))
	require.Equal(t, 0, m.Utime("/f", 1000, 2000))

	var stx native.Statx
	require.Equal(t, 0, m.Statx("/f", &stx, native.StatxAllStats, 0))
	assert.Equal(t, uint16(unix.S_IFREG|0640), stx.Mode)
	assert.Equal(t, uint32(100), stx.UID)
	assert.Equal(t, uint32(0), stx.GID)
	assert.Equal(t, int64(1000), stx.Atime.Sec)
	assert.Equal(t, int64(2000), stx.Mtime.Sec)

	require.Equal(t, 0, m.Truncate("/f", 4096))
	require.Equal(t, 0, m.Statx("/f", &stx, native.StatxSize, 0))
	assert.Equal(t, uint64(4096), stx.Size)
}

func TestXattrSizing(t *testing.T) {
	_, m := mounted(t)
	require.Equal(t, 0, m.Mknod("/f", 0644, 0))

	value := bytes.Repeat([]byte("v"), 5000)
	require.Equal(t, 0, m.Setxattr("/f", "user.big", value, 0))
	require.Equal(t, 0, m.Setxattr("/f", "user.a", []byte("1"), 0))

	assert.Equal(t, -int(unix.ERANGE), m.Getxattr("/f", "user.big", make([]byte, 4096)))
	assert.Equal(t, 5000, m.Getxattr("/f", "user.big", nil))
	assert.Equal(t, 5000, m.Getxattr("/f", "user.big", make([]byte, 5000)))
	assert.Equal(t, -int(unix.ENODATA), m.Getxattr("/f", "user.none", nil))

	buf := make([]byte, 64)
	n := m.Listxattr("/f", buf)
	assert.Equal(t, "user.a\x00user.big\x00", string(buf[:n]))

	assert.Equal(t, -int(unix.EEXIST), m.Setxattr("/f", "user.a", nil, unix.XATTR_CREATE))
	assert.Equal(t, -int(unix.ENODATA), m.Setxattr("/f", "user.b", nil, unix.XATTR_REPLACE))
	assert.Equal(t, -int(unix.E2BIG), m.Setxattr("/f", "user.c", make([]byte, MaxXattrSize+1), 0))

	require.Equal(t, 0, m.Removexattr("/f", "user.a"))
	assert.Equal(t, -int(unix.ENODATA), m.Removexattr("/f", "user.a"))
}

func TestDirectoryCursor(t *testing.T) {
	s, m := mounted(t)
	for _, name := range []string{"/c", "/a", "/b"} {
		require.Equal(t, 0, m.Mknod(name, 0644, 0))
	}

	d, rc := m.OpenDir("/")
	require.Equal(t, 0, rc)

	var names []string
	var de native.Dirent
	for m.ReadDir(d, &de) == 1 {
		names = append(names, de.Name)
	}
	assert.Equal(t, []string{".", "..", "a", "b", "c"}, names)
	assert.Equal(t, int64(5), m.TellDir(d))

	m.SeekDir(d, 2)
	buf := make([]byte, native.DirentSize*2+10)
	n := m.GetDents(d, buf)
	require.Equal(t, native.DirentSize*2, n)
	ents := native.DecodeDirents(buf[:n])
	assert.Equal(t, "a", ents[0].Name)
	assert.Equal(t, "b", ents[1].Name)

	m.RewindDir(d)
	assert.Equal(t, -int(unix.ERANGE), m.GetDNames(d, make([]byte, 1)))
	buf = make([]byte, 6)
	n = m.GetDNames(d, buf)
	assert.Equal(t, ".\x00..\x00", string(buf[:n]))

	require.Equal(t, 0, m.CloseDir(d))
	assert.Equal(t, -int(unix.EBADF), m.CloseDir(d))
	assert.Equal(t, 0, s.OpenDirs())
}

func TestLayout(t *testing.T) {
	s, m := mounted(t)
	s.AddPool(Pool{ID: 7, Name: "fast", Replication: 2})

	assert.Equal(t, -int(unix.EINVAL), m.OpenLayout("/f", unix.O_CREAT|unix.O_WRONLY, 0644, 1000, 1, 0, ""))
	assert.Equal(t, -int(unix.EINVAL), m.OpenLayout("/f", unix.O_CREAT|unix.O_WRONLY, 0644, 0, 1, 0, "nope"))

	fd := m.OpenLayout("/f", unix.O_CREAT|unix.O_WRONLY, 0644, 1<<20, 2, 4<<20, "fast")
	require.True(t, fd > 0)

	var l native.Layout
	require.Equal(t, 0, m.GetFileLayout(fd, &l))
	assert.Equal(t, native.Layout{StripeUnit: 1 << 20, StripeCount: 2, ObjectSize: 4 << 20, Pool: 7}, l)
	assert.Equal(t, 2, m.GetPathReplication("/f"))
	assert.Equal(t, 7, m.GetPoolID("fast"))
	assert.Equal(t, -int(unix.ENOENT), m.GetPoolID("slow"))

	assert.Equal(t, 4, m.GetFilePoolName(fd, nil))
	assert.Equal(t, -int(unix.ERANGE), m.GetFilePoolName(fd, make([]byte, 2)))

	buf := make([]byte, 64)
	n := m.GetDefaultDataPoolName(buf)
	assert.Equal(t, "cephfs_data", string(buf[:n]))

	n = m.GetOSDCrushLocation(2, buf)
	assert.Equal(t, "host\x00node-b\x00rack\x00rack2\x00root\x00default\x00", string(buf[:n]))
	assert.Equal(t, -int(unix.ENOENT), m.GetOSDCrushLocation(9, buf))

	assert.Equal(t, StripeUnitGranularity, m.GetStripeUnitGranularity())
	assert.True(t, m.DebugGetFdCaps(fd) > 0)
	assert.Equal(t, -int(unix.EBADF), m.DebugGetFdCaps(fd+1))
}

func TestInodeRefs(t *testing.T) {
	s, m := mounted(t)
	require.Equal(t, 0, m.Mkdir("/d", 0755))

	root, rc := m.LookupRoot()
	require.Equal(t, 0, rc)

	var stx native.Statx
	require.Equal(t, 0, m.Statx("/d", &stx, native.StatxIno, 0))
	in, rc := m.GetInode(stx.Ino, NoSnap)
	require.Equal(t, 0, rc)
	_, rc = m.GetInode(stx.Ino, 3)
	assert.Equal(t, -int(unix.ENOENT), rc)
	_, rc = m.LookupInode(999)
	assert.Equal(t, -int(unix.ESTALE), rc)
	assert.Equal(t, 2, s.InodeRefs())

	d, rc := m.InodeOpenDir(in)
	require.Equal(t, 0, rc)
	var de native.Dirent
	assert.Equal(t, 1, m.ReadDir(d, &de))
	require.Equal(t, 0, m.ReleaseDir(d))

	require.Equal(t, 0, m.PutInode(in))
	assert.Equal(t, -int(unix.EINVAL), m.PutInode(in))
	require.Equal(t, 0, m.PutInode(root))
	assert.Equal(t, 0, s.InodeRefs())
}

func TestMdsCommand(t *testing.T) {
	_, m := mounted(t)

	out, _, rc := m.MdsCommand("*", []string{`{"prefix": "session ls"}`}, nil)
	require.Equal(t, 0, rc)
	assert.Contains(t, string(out), `"entity":"client.test"`)

	_, status, rc := m.MdsCommand("*", []string{`{"prefix": "bogus"}`}, nil)
	assert.Equal(t, -int(unix.EINVAL), rc)
	assert.Contains(t, status, "bogus")
}

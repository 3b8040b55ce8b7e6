// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package native is the narrow adapter between Go and libcephfs.
//
// Every method mirrors one libcephfs entry point: arguments are Go strings
// and byte slices, and the result is the raw libcephfs return code (a
// negative errno on failure). No translation of return codes happens here;
// that is the job of the cephfs package. Only the cgo implementation in
// this package ever holds a C pointer.
//
// None of the handles are safe for concurrent use.
package native

import "unsafe"

type (
	// Library is the set of entry points that do not require a mount handle.
	Library interface {
		// Version returns the major, minor and patch numbers and the
		// version string of the library.
		Version() (major, minor, patch int, version string)

		// Create allocates a new mount handle for the client id. An
		// empty id selects the library default.
		Create(id string) (Mount, int)

		// CreateFromRados allocates a mount handle sharing an existing
		// rados_t cluster handle.
		CreateFromRados(cluster unsafe.Pointer) (Mount, int)
	}

	// Mount is one ceph_mount_info handle.
	Mount interface {
		Init() int
		Mount(root string) int
		Unmount() int
		Release() int
		IsMounted() bool
		Context() unsafe.Pointer
		MdsCommand(spec string, cmd []string, input []byte) (out []byte, status string, rc int)

		ConfReadFile(path string) int
		ConfParseArgv(argv []string) int
		ConfParseEnv(name string) int
		ConfSet(option, value string) int
		ConfGet(option string, buf []byte) int

		StatFS(path string, st *StatVFS) int
		SyncFS() int
		Getcwd() (string, bool)
		Chdir(path string) int

		OpenDir(path string) (Dir, int)
		CloseDir(d Dir) int
		ReadDir(d Dir, de *Dirent) int
		ReadDirPlus(d Dir, de *Dirent, stx *Statx, want, flags uint32) int
		GetDents(d Dir, buf []byte) int
		GetDNames(d Dir, buf []byte) int
		TellDir(d Dir) int64
		SeekDir(d Dir, offset int64)
		RewindDir(d Dir)

		Mkdir(path string, mode uint32) int
		Mkdirs(path string, mode uint32) int
		Rmdir(path string) int
		Link(oldname, newname string) int
		Symlink(existing, newname string) int
		Readlink(path string, buf []byte) int
		Unlink(path string) int
		Rename(from, to string) int
		Statx(path string, stx *Statx, want, flags uint32) int
		Setattrx(path string, stx *Statx, mask, flags int) int
		Chmod(path string, mode uint32) int
		Chown(path string, uid, gid int) int
		Lchown(path string, uid, gid int) int
		Utime(path string, atime, mtime int64) int
		Mknod(path string, mode uint32, rdev uint64) int
		Truncate(path string, size int64) int

		Open(path string, flags int, mode uint32) int
		OpenLayout(path string, flags int, mode uint32, stripeUnit, stripeCount, objectSize int, pool string) int
		Close(fd int) int
		Fsync(fd int, dataOnly bool) int
		Fstatx(fd int, stx *Statx, want, flags uint32) int
		Fchmod(fd int, mode uint32) int
		Fchown(fd int, uid, gid int) int
		Ftruncate(fd int, size int64) int
		Read(fd int, buf []byte, offset int64) int
		Write(fd int, buf []byte, offset int64) int
		Lseek(fd int, offset int64, whence int) int64

		Getxattr(path, name string, buf []byte) int
		Lgetxattr(path, name string, buf []byte) int
		Fgetxattr(fd int, name string, buf []byte) int
		Listxattr(path string, buf []byte) int
		Llistxattr(path string, buf []byte) int
		Flistxattr(fd int, buf []byte) int
		Setxattr(path, name string, value []byte, flags int) int
		Lsetxattr(path, name string, value []byte, flags int) int
		Fsetxattr(fd int, name string, value []byte, flags int) int
		Removexattr(path, name string) int
		Lremovexattr(path, name string) int
		Fremovexattr(fd int, name string) int

		GetFileStripeUnit(fd int) int
		GetPathStripeUnit(path string) int
		GetFileStripeCount(fd int) int
		GetPathStripeCount(path string) int
		GetFileObjectSize(fd int) int
		GetPathObjectSize(path string) int
		GetFilePool(fd int) int
		GetPathPool(path string) int
		GetFilePoolName(fd int, buf []byte) int
		GetPathPoolName(path string, buf []byte) int
		GetPoolName(pool int, buf []byte) int
		GetDefaultDataPoolName(buf []byte) int
		GetFileLayout(fd int, l *Layout) int
		GetPathLayout(path string, l *Layout) int
		GetFileReplication(fd int) int
		GetPathReplication(path string) int
		GetPoolID(name string) int
		GetPoolReplication(pool int) int
		GetOSDCrushLocation(osd int, buf []byte) int
		GetStripeUnitGranularity() int
		LocalizeReads(val int) int
		DebugGetFdCaps(fd int) int

		LookupRoot() (Inode, int)
		LookupInode(ino uint64) (Inode, int)
		GetInode(ino, snap uint64) (Inode, int)
		InodeOpenDir(in Inode) (Dir, int)
		ReleaseDir(d Dir) int
		PutInode(in Inode) int
	}

	// Dir is an opaque ceph_dir_result cursor owned by the library.
	Dir interface{}

	// Inode is an opaque Inode reference owned by the library.
	Inode interface{}
)

type (
	// Timespec mirrors struct timespec.
	Timespec struct {
		Sec  int64
		Nsec int64
	}

	// Statx mirrors struct ceph_statx.
	Statx struct {
		Mask    uint32
		Blksize uint32
		Nlink   uint32
		UID     uint32
		GID     uint32
		Mode    uint16
		Ino     uint64
		Size    uint64
		Blocks  uint64
		Dev     uint64
		Rdev    uint64
		Atime   Timespec
		Ctime   Timespec
		Mtime   Timespec
		Btime   Timespec
		Version uint64
	}

	// StatVFS mirrors struct statvfs.
	StatVFS struct {
		Bsize   uint64
		Frsize  uint64
		Blocks  uint64
		Bfree   uint64
		Bavail  uint64
		Files   uint64
		Ffree   uint64
		Favail  uint64
		Fsid    uint64
		Flag    uint64
		Namemax uint64
	}

	// Dirent mirrors struct dirent.
	Dirent struct {
		Ino    uint64
		Off    int64
		Reclen uint16
		Type   uint8
		Name   string
	}

	// Layout is the file layout triple plus data pool id.
	Layout struct {
		StripeUnit  int
		StripeCount int
		ObjectSize  int
		Pool        int
	}
)

// Statx mask bits (CEPH_STATX_*).
const (
	StatxMode       = 0x00000001
	StatxNlink      = 0x00000002
	StatxUID        = 0x00000004
	StatxGID        = 0x00000008
	StatxRdev       = 0x00000010
	StatxAtime      = 0x00000020
	StatxMtime      = 0x00000040
	StatxCtime      = 0x00000080
	StatxIno        = 0x00000100
	StatxSize       = 0x00000200
	StatxBlocks     = 0x00000400
	StatxBasicStats = 0x000007ff
	StatxBtime      = 0x00000800
	StatxVersion    = 0x00001000
	StatxAllStats   = 0x00001fff
)

// Setattr mask bits (CEPH_SETATTR_*).
const (
	SetattrMode  = 1 << 0
	SetattrUID   = 1 << 1
	SetattrGID   = 1 << 2
	SetattrMtime = 1 << 3
	SetattrAtime = 1 << 4
	SetattrSize  = 1 << 5
	SetattrCtime = 1 << 6
	SetattrBtime = 1 << 9
)

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build cgo && !nocephfs

package native

//
// #cgo LDFLAGS: -lcephfs
// #cgo CPPFLAGS: -D_FILE_OFFSET_BITS=64
// #include <stdlib.h>
// #include <dirent.h>
// #include <utime.h>
// #include <sys/statvfs.h>
// #include <cephfs/libcephfs.h>
//
// _Static_assert(sizeof(struct dirent) == 280, "unexpected struct dirent size");
//
// /* inodeno_t and vinodeno_t are passed by value; build them in C. */
// static int _ll_lookup_inode(struct ceph_mount_info *cmount, uint64_t ino, struct Inode **out) {
//     inodeno_t i;
//     i.val = ino;
//     return ceph_ll_lookup_inode(cmount, i, out);
// }
//
// static struct Inode *_ll_get_inode(struct ceph_mount_info *cmount, uint64_t ino, uint64_t snap) {
//     vinodeno_t vino;
//     vino.ino.val = ino;
//     vino.snapid.val = snap;
//     return ceph_ll_get_inode(cmount, vino);
// }
//
// static int _ll_opendir(struct ceph_mount_info *cmount, struct Inode *in, struct ceph_dir_result **dirpp) {
//     return ceph_ll_opendir(cmount, in, dirpp, ceph_mount_perms(cmount));
// }
import "C"
import (
	"syscall"
	"unsafe"
)

type (
	libcephfs struct{}

	cMount struct {
		p *C.struct_ceph_mount_info
	}

	cDir struct {
		p *C.struct_ceph_dir_result
	}

	cInode struct {
		p *C.struct_Inode
	}
)

// Libcephfs returns the Library backed by the system libcephfs.
func Libcephfs() Library {
	return libcephfs{}
}

func bufPtr(buf []byte) *C.char {
	if len(buf) == 0 {
		return nil
	}
	return (*C.char)(unsafe.Pointer(&buf[0]))
}

// optString returns NULL for the empty string. Callers free the result.
func optString(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

// cStringArray copies strs into a C-allocated char** array.
func cStringArray(strs []string) (**C.char, func()) {
	if len(strs) == 0 {
		return nil, func() {}
	}
	ptrSize := C.size_t(unsafe.Sizeof((*C.char)(nil)))
	arr := unsafe.Slice((**C.char)(C.malloc(ptrSize*C.size_t(len(strs)))), len(strs))
	for i, s := range strs {
		arr[i] = C.CString(s)
	}
	return &arr[0], func() {
		for _, p := range arr {
			C.free(unsafe.Pointer(p))
		}
		C.free(unsafe.Pointer(&arr[0]))
	}
}

func timespecFromC(ts C.struct_timespec) Timespec {
	return Timespec{Sec: int64(ts.tv_sec), Nsec: int64(ts.tv_nsec)}
}

func timespecToC(ts Timespec) C.struct_timespec {
	return C.struct_timespec{tv_sec: C.time_t(ts.Sec), tv_nsec: C.long(ts.Nsec)}
}

func statxFromC(cstx *C.struct_ceph_statx, stx *Statx) {
	stx.Mask = uint32(cstx.stx_mask)
	stx.Blksize = uint32(cstx.stx_blksize)
	stx.Nlink = uint32(cstx.stx_nlink)
	stx.UID = uint32(cstx.stx_uid)
	stx.GID = uint32(cstx.stx_gid)
	stx.Mode = uint16(cstx.stx_mode)
	stx.Ino = uint64(cstx.stx_ino)
	stx.Size = uint64(cstx.stx_size)
	stx.Blocks = uint64(cstx.stx_blocks)
	stx.Dev = uint64(cstx.stx_dev)
	stx.Rdev = uint64(cstx.stx_rdev)
	stx.Atime = timespecFromC(cstx.stx_atime)
	stx.Ctime = timespecFromC(cstx.stx_ctime)
	stx.Mtime = timespecFromC(cstx.stx_mtime)
	stx.Btime = timespecFromC(cstx.stx_btime)
	stx.Version = uint64(cstx.stx_version)
}

func statxToC(stx *Statx, cstx *C.struct_ceph_statx) {
	cstx.stx_mask = C.uint32_t(stx.Mask)
	cstx.stx_mode = C.uint16_t(stx.Mode)
	cstx.stx_uid = C.uint32_t(stx.UID)
	cstx.stx_gid = C.uint32_t(stx.GID)
	cstx.stx_size = C.uint64_t(stx.Size)
	cstx.stx_atime = timespecToC(stx.Atime)
	cstx.stx_mtime = timespecToC(stx.Mtime)
	cstx.stx_ctime = timespecToC(stx.Ctime)
	cstx.stx_btime = timespecToC(stx.Btime)
}

func direntFromC(cde *C.struct_dirent, de *Dirent) {
	de.Ino = uint64(cde.d_ino)
	de.Off = int64(cde.d_off)
	de.Reclen = uint16(cde.d_reclen)
	de.Type = uint8(cde.d_type)
	de.Name = C.GoString(&cde.d_name[0])
}

func (libcephfs) Version() (int, int, int, string) {
	var major, minor, patch C.int
	v := C.ceph_version(&major, &minor, &patch)
	return int(major), int(minor), int(patch), C.GoString(v)
}

func (libcephfs) Create(id string) (Mount, int) {
	cid := optString(id)
	defer C.free(unsafe.Pointer(cid))

	m := &cMount{}
	rc := C.ceph_create(&m.p, cid)
	if rc < 0 {
		return nil, int(rc)
	}
	return m, 0
}

func (libcephfs) CreateFromRados(cluster unsafe.Pointer) (Mount, int) {
	if cluster == nil {
		return nil, -int(syscall.EINVAL)
	}
	m := &cMount{}
	rc := C.ceph_create_from_rados(&m.p, C.rados_t(cluster))
	if rc < 0 {
		return nil, int(rc)
	}
	return m, 0
}

func (m *cMount) Init() int {
	return int(C.ceph_init(m.p))
}

func (m *cMount) Mount(root string) int {
	croot := optString(root)
	defer C.free(unsafe.Pointer(croot))
	return int(C.ceph_mount(m.p, croot))
}

func (m *cMount) Unmount() int {
	return int(C.ceph_unmount(m.p))
}

func (m *cMount) Release() int {
	rc := int(C.ceph_release(m.p))
	if rc == 0 {
		m.p = nil
	}
	return rc
}

func (m *cMount) IsMounted() bool {
	return C.ceph_is_mounted(m.p) == 1
}

func (m *cMount) Context() unsafe.Pointer {
	return unsafe.Pointer(C.ceph_get_mount_context(m.p))
}

func (m *cMount) MdsCommand(spec string, cmd []string, input []byte) ([]byte, string, int) {
	cspec := C.CString(spec)
	defer C.free(unsafe.Pointer(cspec))
	ccmd, freeCmd := cStringArray(cmd)
	defer freeCmd()

	var (
		outbuf, outs       *C.char
		outbufLen, outsLen C.size_t
	)
	rc := C.ceph_mds_command(m.p, cspec, ccmd, C.size_t(len(cmd)),
		bufPtr(input), C.size_t(len(input)),
		&outbuf, &outbufLen, &outs, &outsLen)

	var out []byte
	var status string
	if outbuf != nil {
		out = C.GoBytes(unsafe.Pointer(outbuf), C.int(outbufLen))
		C.ceph_buffer_free(outbuf)
	}
	if outs != nil {
		status = C.GoStringN(outs, C.int(outsLen))
		C.ceph_buffer_free(outs)
	}
	return out, status, int(rc)
}

func (m *cMount) ConfReadFile(path string) int {
	cpath := optString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_conf_read_file(m.p, cpath))
}

func (m *cMount) ConfParseArgv(argv []string) int {
	cargv, freeArgv := cStringArray(argv)
	defer freeArgv()
	return int(C.ceph_conf_parse_argv(m.p, C.int(len(argv)), cargv))
}

func (m *cMount) ConfParseEnv(name string) int {
	cname := optString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_conf_parse_env(m.p, cname))
}

func (m *cMount) ConfSet(option, value string) int {
	copt := C.CString(option)
	defer C.free(unsafe.Pointer(copt))
	cval := C.CString(value)
	defer C.free(unsafe.Pointer(cval))
	return int(C.ceph_conf_set(m.p, copt, cval))
}

func (m *cMount) ConfGet(option string, buf []byte) int {
	copt := C.CString(option)
	defer C.free(unsafe.Pointer(copt))
	return int(C.ceph_conf_get(m.p, copt, bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) StatFS(path string, st *StatVFS) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var cst C.struct_statvfs
	rc := C.ceph_statfs(m.p, cpath, &cst)
	if rc < 0 {
		return int(rc)
	}
	*st = StatVFS{
		Bsize:   uint64(cst.f_bsize),
		Frsize:  uint64(cst.f_frsize),
		Blocks:  uint64(cst.f_blocks),
		Bfree:   uint64(cst.f_bfree),
		Bavail:  uint64(cst.f_bavail),
		Files:   uint64(cst.f_files),
		Ffree:   uint64(cst.f_ffree),
		Favail:  uint64(cst.f_favail),
		Fsid:    uint64(cst.f_fsid),
		Flag:    uint64(cst.f_flag),
		Namemax: uint64(cst.f_namemax),
	}
	return int(rc)
}

func (m *cMount) SyncFS() int {
	return int(C.ceph_sync_fs(m.p))
}

func (m *cMount) Getcwd() (string, bool) {
	cwd := C.ceph_getcwd(m.p)
	if cwd == nil {
		return "", false
	}
	return C.GoString(cwd), true
}

func (m *cMount) Chdir(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_chdir(m.p, cpath))
}

func (m *cMount) OpenDir(path string) (Dir, int) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	d := &cDir{}
	rc := C.ceph_opendir(m.p, cpath, &d.p)
	if rc < 0 {
		return nil, int(rc)
	}
	return d, 0
}

func (m *cMount) CloseDir(d Dir) int {
	return int(C.ceph_closedir(m.p, d.(*cDir).p))
}

func (m *cMount) ReadDir(d Dir, de *Dirent) int {
	var cde C.struct_dirent
	rc := C.ceph_readdir_r(m.p, d.(*cDir).p, &cde)
	if rc == 1 {
		direntFromC(&cde, de)
	}
	return int(rc)
}

func (m *cMount) ReadDirPlus(d Dir, de *Dirent, stx *Statx, want, flags uint32) int {
	var cde C.struct_dirent
	var cstx C.struct_ceph_statx
	rc := C.ceph_readdirplus_r(m.p, d.(*cDir).p, &cde, &cstx, C.uint(want), C.uint(flags), nil)
	if rc == 1 {
		direntFromC(&cde, de)
		statxFromC(&cstx, stx)
	}
	return int(rc)
}

func (m *cMount) GetDents(d Dir, buf []byte) int {
	return int(C.ceph_getdents(m.p, d.(*cDir).p, bufPtr(buf), C.int(len(buf))))
}

func (m *cMount) GetDNames(d Dir, buf []byte) int {
	return int(C.ceph_getdnames(m.p, d.(*cDir).p, bufPtr(buf), C.int(len(buf))))
}

func (m *cMount) TellDir(d Dir) int64 {
	return int64(C.ceph_telldir(m.p, d.(*cDir).p))
}

func (m *cMount) SeekDir(d Dir, offset int64) {
	C.ceph_seekdir(m.p, d.(*cDir).p, C.int64_t(offset))
}

func (m *cMount) RewindDir(d Dir) {
	C.ceph_rewinddir(m.p, d.(*cDir).p)
}

func (m *cMount) Mkdir(path string, mode uint32) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_mkdir(m.p, cpath, C.mode_t(mode)))
}

func (m *cMount) Mkdirs(path string, mode uint32) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_mkdirs(m.p, cpath, C.mode_t(mode)))
}

func (m *cMount) Rmdir(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_rmdir(m.p, cpath))
}

func (m *cMount) Link(oldname, newname string) int {
	cold := C.CString(oldname)
	defer C.free(unsafe.Pointer(cold))
	cnew := C.CString(newname)
	defer C.free(unsafe.Pointer(cnew))
	return int(C.ceph_link(m.p, cold, cnew))
}

func (m *cMount) Symlink(existing, newname string) int {
	cexisting := C.CString(existing)
	defer C.free(unsafe.Pointer(cexisting))
	cnew := C.CString(newname)
	defer C.free(unsafe.Pointer(cnew))
	return int(C.ceph_symlink(m.p, cexisting, cnew))
}

func (m *cMount) Readlink(path string, buf []byte) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_readlink(m.p, cpath, bufPtr(buf), C.int64_t(len(buf))))
}

func (m *cMount) Unlink(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_unlink(m.p, cpath))
}

func (m *cMount) Rename(from, to string) int {
	cfrom := C.CString(from)
	defer C.free(unsafe.Pointer(cfrom))
	cto := C.CString(to)
	defer C.free(unsafe.Pointer(cto))
	return int(C.ceph_rename(m.p, cfrom, cto))
}

func (m *cMount) Statx(path string, stx *Statx, want, flags uint32) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var cstx C.struct_ceph_statx
	rc := C.ceph_statx(m.p, cpath, &cstx, C.uint(want), C.uint(flags))
	if rc == 0 {
		statxFromC(&cstx, stx)
	}
	return int(rc)
}

func (m *cMount) Setattrx(path string, stx *Statx, mask, flags int) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var cstx C.struct_ceph_statx
	statxToC(stx, &cstx)
	return int(C.ceph_setattrx(m.p, cpath, &cstx, C.int(mask), C.int(flags)))
}

func (m *cMount) Chmod(path string, mode uint32) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_chmod(m.p, cpath, C.mode_t(mode)))
}

func (m *cMount) Chown(path string, uid, gid int) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_chown(m.p, cpath, C.int(uid), C.int(gid)))
}

func (m *cMount) Lchown(path string, uid, gid int) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_lchown(m.p, cpath, C.int(uid), C.int(gid)))
}

func (m *cMount) Utime(path string, atime, mtime int64) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	buf := C.struct_utimbuf{actime: C.time_t(atime), modtime: C.time_t(mtime)}
	return int(C.ceph_utime(m.p, cpath, &buf))
}

func (m *cMount) Mknod(path string, mode uint32, rdev uint64) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_mknod(m.p, cpath, C.mode_t(mode), C.dev_t(rdev)))
}

func (m *cMount) Truncate(path string, size int64) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_truncate(m.p, cpath, C.int64_t(size)))
}

func (m *cMount) Open(path string, flags int, mode uint32) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_open(m.p, cpath, C.int(flags), C.mode_t(mode)))
}

func (m *cMount) OpenLayout(path string, flags int, mode uint32, stripeUnit, stripeCount, objectSize int, pool string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cpool := optString(pool)
	defer C.free(unsafe.Pointer(cpool))
	return int(C.ceph_open_layout(m.p, cpath, C.int(flags), C.mode_t(mode),
		C.int(stripeUnit), C.int(stripeCount), C.int(objectSize), cpool))
}

func (m *cMount) Close(fd int) int {
	return int(C.ceph_close(m.p, C.int(fd)))
}

func (m *cMount) Fsync(fd int, dataOnly bool) int {
	var syncDataOnly C.int
	if dataOnly {
		syncDataOnly = 1
	}
	return int(C.ceph_fsync(m.p, C.int(fd), syncDataOnly))
}

func (m *cMount) Fstatx(fd int, stx *Statx, want, flags uint32) int {
	var cstx C.struct_ceph_statx
	rc := C.ceph_fstatx(m.p, C.int(fd), &cstx, C.uint(want), C.uint(flags))
	if rc == 0 {
		statxFromC(&cstx, stx)
	}
	return int(rc)
}

func (m *cMount) Fchmod(fd int, mode uint32) int {
	return int(C.ceph_fchmod(m.p, C.int(fd), C.mode_t(mode)))
}

func (m *cMount) Fchown(fd int, uid, gid int) int {
	return int(C.ceph_fchown(m.p, C.int(fd), C.int(uid), C.int(gid)))
}

func (m *cMount) Ftruncate(fd int, size int64) int {
	return int(C.ceph_ftruncate(m.p, C.int(fd), C.int64_t(size)))
}

func (m *cMount) Read(fd int, buf []byte, offset int64) int {
	return int(C.ceph_read(m.p, C.int(fd), bufPtr(buf), C.int64_t(len(buf)), C.int64_t(offset)))
}

func (m *cMount) Write(fd int, buf []byte, offset int64) int {
	return int(C.ceph_write(m.p, C.int(fd), bufPtr(buf), C.int64_t(len(buf)), C.int64_t(offset)))
}

func (m *cMount) Lseek(fd int, offset int64, whence int) int64 {
	return int64(C.ceph_lseek(m.p, C.int(fd), C.int64_t(offset), C.int(whence)))
}

func (m *cMount) Getxattr(path, name string, buf []byte) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_getxattr(m.p, cpath, cname, unsafe.Pointer(bufPtr(buf)), C.size_t(len(buf))))
}

func (m *cMount) Lgetxattr(path, name string, buf []byte) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_lgetxattr(m.p, cpath, cname, unsafe.Pointer(bufPtr(buf)), C.size_t(len(buf))))
}

func (m *cMount) Fgetxattr(fd int, name string, buf []byte) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_fgetxattr(m.p, C.int(fd), cname, unsafe.Pointer(bufPtr(buf)), C.size_t(len(buf))))
}

func (m *cMount) Listxattr(path string, buf []byte) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_listxattr(m.p, cpath, bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) Llistxattr(path string, buf []byte) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_llistxattr(m.p, cpath, bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) Flistxattr(fd int, buf []byte) int {
	return int(C.ceph_flistxattr(m.p, C.int(fd), bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) Setxattr(path, name string, value []byte, flags int) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_setxattr(m.p, cpath, cname, unsafe.Pointer(bufPtr(value)), C.size_t(len(value)), C.int(flags)))
}

func (m *cMount) Lsetxattr(path, name string, value []byte, flags int) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_lsetxattr(m.p, cpath, cname, unsafe.Pointer(bufPtr(value)), C.size_t(len(value)), C.int(flags)))
}

func (m *cMount) Fsetxattr(fd int, name string, value []byte, flags int) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_fsetxattr(m.p, C.int(fd), cname, unsafe.Pointer(bufPtr(value)), C.size_t(len(value)), C.int(flags)))
}

func (m *cMount) Removexattr(path, name string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_removexattr(m.p, cpath, cname))
}

func (m *cMount) Lremovexattr(path, name string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_lremovexattr(m.p, cpath, cname))
}

func (m *cMount) Fremovexattr(fd int, name string) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_fremovexattr(m.p, C.int(fd), cname))
}

func (m *cMount) GetFileStripeUnit(fd int) int {
	return int(C.ceph_get_file_stripe_unit(m.p, C.int(fd)))
}

func (m *cMount) GetPathStripeUnit(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_get_path_stripe_unit(m.p, cpath))
}

func (m *cMount) GetFileStripeCount(fd int) int {
	return int(C.ceph_get_file_stripe_count(m.p, C.int(fd)))
}

func (m *cMount) GetPathStripeCount(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_get_path_stripe_count(m.p, cpath))
}

func (m *cMount) GetFileObjectSize(fd int) int {
	return int(C.ceph_get_file_object_size(m.p, C.int(fd)))
}

func (m *cMount) GetPathObjectSize(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_get_path_object_size(m.p, cpath))
}

func (m *cMount) GetFilePool(fd int) int {
	return int(C.ceph_get_file_pool(m.p, C.int(fd)))
}

func (m *cMount) GetPathPool(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_get_path_pool(m.p, cpath))
}

func (m *cMount) GetFilePoolName(fd int, buf []byte) int {
	return int(C.ceph_get_file_pool_name(m.p, C.int(fd), bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) GetPathPoolName(path string, buf []byte) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_get_path_pool_name(m.p, cpath, bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) GetPoolName(pool int, buf []byte) int {
	return int(C.ceph_get_pool_name(m.p, C.int(pool), bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) GetDefaultDataPoolName(buf []byte) int {
	return int(C.ceph_get_default_data_pool_name(m.p, bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) GetFileLayout(fd int, l *Layout) int {
	var su, sc, os, pool C.int
	rc := C.ceph_get_file_layout(m.p, C.int(fd), &su, &sc, &os, &pool)
	if rc == 0 {
		*l = Layout{StripeUnit: int(su), StripeCount: int(sc), ObjectSize: int(os), Pool: int(pool)}
	}
	return int(rc)
}

func (m *cMount) GetPathLayout(path string, l *Layout) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var su, sc, os, pool C.int
	rc := C.ceph_get_path_layout(m.p, cpath, &su, &sc, &os, &pool)
	if rc == 0 {
		*l = Layout{StripeUnit: int(su), StripeCount: int(sc), ObjectSize: int(os), Pool: int(pool)}
	}
	return int(rc)
}

func (m *cMount) GetFileReplication(fd int) int {
	return int(C.ceph_get_file_replication(m.p, C.int(fd)))
}

func (m *cMount) GetPathReplication(path string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	return int(C.ceph_get_path_replication(m.p, cpath))
}

func (m *cMount) GetPoolID(name string) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.ceph_get_pool_id(m.p, cname))
}

func (m *cMount) GetPoolReplication(pool int) int {
	return int(C.ceph_get_pool_replication(m.p, C.int(pool)))
}

func (m *cMount) GetOSDCrushLocation(osd int, buf []byte) int {
	return int(C.ceph_get_osd_crush_location(m.p, C.int(osd), bufPtr(buf), C.size_t(len(buf))))
}

func (m *cMount) GetStripeUnitGranularity() int {
	return int(C.ceph_get_stripe_unit_granularity(m.p))
}

func (m *cMount) LocalizeReads(val int) int {
	return int(C.ceph_localize_reads(m.p, C.int(val)))
}

func (m *cMount) DebugGetFdCaps(fd int) int {
	return int(C.ceph_debug_get_fd_caps(m.p, C.int(fd)))
}

func (m *cMount) LookupRoot() (Inode, int) {
	in := &cInode{}
	rc := C.ceph_ll_lookup_root(m.p, &in.p)
	if rc < 0 {
		return nil, int(rc)
	}
	return in, 0
}

func (m *cMount) LookupInode(ino uint64) (Inode, int) {
	in := &cInode{}
	rc := C._ll_lookup_inode(m.p, C.uint64_t(ino), &in.p)
	if rc < 0 {
		return nil, int(rc)
	}
	return in, 0
}

func (m *cMount) GetInode(ino, snap uint64) (Inode, int) {
	p := C._ll_get_inode(m.p, C.uint64_t(ino), C.uint64_t(snap))
	if p == nil {
		return nil, -int(syscall.ENOENT)
	}
	return &cInode{p: p}, 0
}

func (m *cMount) InodeOpenDir(in Inode) (Dir, int) {
	d := &cDir{}
	rc := C._ll_opendir(m.p, in.(*cInode).p, &d.p)
	if rc < 0 {
		return nil, int(rc)
	}
	return d, 0
}

func (m *cMount) ReleaseDir(d Dir) int {
	return int(C.ceph_ll_releasedir(m.p, d.(*cDir).p))
}

func (m *cMount) PutInode(in Inode) int {
	return int(C.ceph_ll_put(m.p, in.(*cInode).p))
}

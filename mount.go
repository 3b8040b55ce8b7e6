// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"syscall"
	"time"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
	"github.com/intel-hpdd/go-cephfs/native"
)

var defaultLibrary = native.Libcephfs()

// VersionInfo identifies the libcephfs release in use.
type VersionInfo struct {
	Major   int
	Minor   int
	Patch   int
	Version string
}

func (v VersionInfo) String() string {
	return v.Version
}

// Version returns the version of the linked libcephfs.
func Version() VersionInfo {
	return LibraryVersion(defaultLibrary)
}

// LibraryVersion returns the version reported by lib.
func LibraryVersion(lib native.Library) VersionInfo {
	start := time.Now()
	major, minor, patch, s := lib.Version()
	observe("version", start, 0)
	return VersionInfo{Major: major, Minor: minor, Patch: patch, Version: s}
}

// MountInfo is a libcephfs mount handle. It is created unmounted, must be
// configured and mounted before filesystem operations succeed, and is
// freed by Release.
//
// A MountInfo must not be used from more than one goroutine at a time.
type MountInfo struct {
	mnt native.Mount
	id  string
}

// CreateMount creates a mount handle for the default client id.
func CreateMount() (*MountInfo, error) {
	return CreateMountWith(defaultLibrary, "")
}

// CreateMountWithID creates a mount handle for the client id, for example
// "admin" to authenticate as client.admin.
func CreateMountWithID(id string) (*MountInfo, error) {
	return CreateMountWith(defaultLibrary, id)
}

// CreateMountWith creates a mount handle from lib. An empty id selects the
// library default.
func CreateMountWith(lib native.Library, id string) (*MountInfo, error) {
	if err := checkText("create", id); err != nil {
		return nil, err
	}
	start := time.Now()
	mnt, rc := lib.Create(id)
	observe("create", start, rc)
	if err := isError("create", rc); err != nil {
		return nil, err
	}
	debug.Printf("created mount handle for client %q", id)
	return &MountInfo{mnt: mnt, id: id}, nil
}

// CreateFromRados creates a mount handle that shares an existing rados_t
// cluster connection.
func CreateFromRados(cluster unsafe.Pointer) (*MountInfo, error) {
	return CreateFromRadosWith(defaultLibrary, cluster)
}

// CreateFromRadosWith is CreateFromRados over an explicit library.
func CreateFromRadosWith(lib native.Library, cluster unsafe.Pointer) (*MountInfo, error) {
	start := time.Now()
	mnt, rc := lib.CreateFromRados(cluster)
	observe("create_from_rados", start, rc)
	if err := isError("create_from_rados", rc); err != nil {
		return nil, err
	}
	return &MountInfo{mnt: mnt}, nil
}

// run invokes fn on the live handle, timing it and translating its
// return code.
func (m *MountInfo) run(op string, fn func(native.Mount) int) (int, error) {
	if m.mnt == nil {
		return 0, errors.Wrap(ErrReleased, op)
	}
	start := time.Now()
	rc := fn(m.mnt)
	observe(op, start, rc)
	return rc, isError(op, rc)
}

// call is run for operations whose only result is success or failure.
func (m *MountInfo) call(op string, fn func(native.Mount) int) error {
	_, err := m.run(op, fn)
	return err
}

// Init initializes the client without mounting.
func (m *MountInfo) Init() error {
	return m.call("init", func(mnt native.Mount) int { return mnt.Init() })
}

// Mount mounts the root of the filesystem.
func (m *MountInfo) Mount() error {
	return m.MountWithRoot("")
}

// MountWithRoot mounts the filesystem subtree at root.
func (m *MountInfo) MountWithRoot(root string) error {
	if err := checkText("mount", root); err != nil {
		return err
	}
	err := m.call("mount", func(mnt native.Mount) int { return mnt.Mount(root) })
	if err == nil {
		debug.Printf("client %q mounted %q", m.id, root)
	}
	return err
}

// IsMounted reports whether the handle is mounted.
func (m *MountInfo) IsMounted() (bool, error) {
	var mounted bool
	err := m.call("is_mounted", func(mnt native.Mount) int {
		mounted = mnt.IsMounted()
		return 0
	})
	return mounted, err
}

// Unmount unmounts the filesystem. Open files and directories of this
// handle become invalid.
func (m *MountInfo) Unmount() error {
	err := m.call("unmount", func(mnt native.Mount) int { return mnt.Unmount() })
	if err == nil {
		debug.Printf("client %q unmounted", m.id)
	}
	return err
}

// Release frees the handle. It fails, leaving the handle usable, while the
// handle is mounted. After a successful Release every method returns
// ErrReleased.
func (m *MountInfo) Release() error {
	if err := m.call("release", func(mnt native.Mount) int { return mnt.Release() }); err != nil {
		return err
	}
	m.mnt = nil
	debug.Printf("client %q released", m.id)
	return nil
}

// Context returns the CephContext of the handle for use with other Ceph
// libraries.
func (m *MountInfo) Context() (unsafe.Pointer, error) {
	var ctx unsafe.Pointer
	err := m.call("get_mount_context", func(mnt native.Mount) int {
		ctx = mnt.Context()
		return 0
	})
	return ctx, err
}

// MdsCommand sends a JSON command to the MDS daemons matching spec. The
// status string is returned even when the command fails.
func (m *MountInfo) MdsCommand(spec string, args []string, input []byte) ([]byte, string, error) {
	if err := checkText("mds_command", append([]string{spec}, args...)...); err != nil {
		return nil, "", err
	}
	var out []byte
	var status string
	err := m.call("mds_command", func(mnt native.Mount) int {
		var rc int
		out, status, rc = mnt.MdsCommand(spec, args, input)
		return rc
	})
	return out, status, err
}

// ReadConfigFile loads configuration from path, which may be a comma
// separated list of candidate files.
func (m *MountInfo) ReadConfigFile(path string) error {
	if err := checkText("conf_read_file", path); err != nil {
		return err
	}
	return m.call("conf_read_file", func(mnt native.Mount) int { return mnt.ConfReadFile(path) })
}

// ReadDefaultConfigFile loads configuration from the default search path.
func (m *MountInfo) ReadDefaultConfigFile() error {
	return m.ReadConfigFile("")
}

// ParseConfigArgv applies configuration options from a command line.
// argv[0] is the program name.
func (m *MountInfo) ParseConfigArgv(argv []string) error {
	if len(argv) == 0 {
		return &Error{Op: "conf_parse_argv", Errno: syscall.EINVAL}
	}
	if err := checkText("conf_parse_argv", argv...); err != nil {
		return err
	}
	return m.call("conf_parse_argv", func(mnt native.Mount) int { return mnt.ConfParseArgv(argv) })
}

// ParseConfigEnv applies configuration options from the environment
// variable name.
func (m *MountInfo) ParseConfigEnv(name string) error {
	if err := checkText("conf_parse_env", name); err != nil {
		return err
	}
	return m.call("conf_parse_env", func(mnt native.Mount) int { return mnt.ConfParseEnv(name) })
}

// ParseDefaultConfigEnv applies configuration options from CEPH_ARGS.
func (m *MountInfo) ParseDefaultConfigEnv() error {
	return m.ParseConfigEnv("")
}

// SetConfigOption sets a configuration option.
func (m *MountInfo) SetConfigOption(option, value string) error {
	if err := checkText("conf_set", option, value); err != nil {
		return err
	}
	return m.call("conf_set", func(mnt native.Mount) int { return mnt.ConfSet(option, value) })
}

// GetConfigOption returns the value of a configuration option.
func (m *MountInfo) GetConfigOption(option string) (string, error) {
	if err := checkText("conf_get", option); err != nil {
		return "", err
	}

	buf := make([]byte, confBufferSize)
	get := func(mnt native.Mount) int { return mnt.ConfGet(option, buf) }
	rc, err := m.run("conf_get", get)
	if rc == -int(syscall.ENAMETOOLONG) {
		debug.Printf("conf_get %s: value exceeds %d bytes, retrying", option, confBufferSize)
		buf = make([]byte, confMaxBufferSize)
		_, err = m.run("conf_get", get)
	}
	if err != nil {
		return "", err
	}
	return cString("conf_get", buf)
}

// StatFS returns filesystem statistics for the filesystem holding path.
func (m *MountInfo) StatFS(path string) (*StatFS, error) {
	if err := checkText("statfs", path); err != nil {
		return nil, err
	}
	var st native.StatVFS
	if err := m.call("statfs", func(mnt native.Mount) int { return mnt.StatFS(path, &st) }); err != nil {
		return nil, err
	}
	return newStatFS(&st), nil
}

// SyncFS flushes all dirty data and metadata of the mount.
func (m *MountInfo) SyncFS() error {
	return m.call("sync_fs", func(mnt native.Mount) int { return mnt.SyncFS() })
}

// CurrentDir returns the working directory of the mount.
func (m *MountInfo) CurrentDir() (string, error) {
	var cwd string
	err := m.call("getcwd", func(mnt native.Mount) int {
		var ok bool
		if cwd, ok = mnt.Getcwd(); !ok {
			return -int(syscall.ENOTCONN)
		}
		return 0
	})
	if err != nil {
		return "", err
	}
	return toText("getcwd", []byte(cwd))
}

// ChangeDir changes the working directory of the mount.
func (m *MountInfo) ChangeDir(path string) error {
	if err := checkText("chdir", path); err != nil {
		return err
	}
	return m.call("chdir", func(mnt native.Mount) int { return mnt.Chdir(path) })
}

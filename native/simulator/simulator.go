// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package simulator provides an in-memory native.Library that follows the
// libcephfs calling conventions closely enough to exercise the cephfs
// bindings without a cluster: the same mount state machine, the same
// negative errno return codes, and the same buffer sizing behaviour.
//
// All mounts created from one Simulator share a single filesystem tree,
// pool table and OSD map.
package simulator

import (
	"sort"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

const (
	rootIno = 1

	// StripeUnitGranularity is the smallest stripe unit the simulator accepts.
	StripeUnitGranularity = 65536

	// MaxXattrSize bounds a single extended attribute value.
	MaxXattrSize = 65536

	defaultObjectSize = 4 << 20

	// NoSnap is the snapshot id of the live (head) version of an inode.
	NoSnap = ^uint64(0) - 1

	maxSymlinks = 40
	maxNameLen  = 255

	capacityBlocks = 1 << 20
)

type (
	// Pool is a simulated RADOS data pool.
	Pool struct {
		ID          int
		Name        string
		Replication int
	}

	// CrushPair is one (bucket type, bucket name) element of an OSD's
	// CRUSH location.
	CrushPair struct {
		Type string
		Name string
	}

	inode struct {
		ino      uint64
		mode     uint32
		uid, gid uint32
		nlink    uint32
		rdev     uint64
		data     []byte
		target   string
		children map[string]uint64
		parent   uint64
		xattrs   map[string][]byte
		layout   native.Layout
		atime    time.Time
		mtime    time.Time
		ctime    time.Time
		btime    time.Time
		version  uint64
		refs     int
	}

	// Simulator is an in-memory stand-in for libcephfs.
	Simulator struct {
		mu       sync.Mutex
		inodes   map[uint64]*inode
		nextIno  uint64
		pools    map[int]*Pool
		osds     map[int][]CrushPair
		defaults map[string]string
		mounts   []*mount
		calls    []string
		fsid     uint64
		clock    func() time.Time
	}
)

var _ native.Library = (*Simulator)(nil)

// New returns a Simulator holding an empty filesystem, a replicated data
// pool (id 1) and a metadata pool (id 2), and three OSDs on two hosts.
func New() *Simulator {
	s := &Simulator{
		inodes:  make(map[uint64]*inode),
		nextIno: rootIno + 1,
		pools: map[int]*Pool{
			1: {ID: 1, Name: "cephfs_data", Replication: 3},
			2: {ID: 2, Name: "cephfs_metadata", Replication: 3},
		},
		osds: map[int][]CrushPair{
			0: {{"host", "node-a"}, {"rack", "rack1"}, {"root", "default"}},
			1: {{"host", "node-a"}, {"rack", "rack1"}, {"root", "default"}},
			2: {{"host", "node-b"}, {"rack", "rack2"}, {"root", "default"}},
		},
		defaults: map[string]string{
			"mon_host":             "v2:127.0.0.1:3300",
			"client_mount_uid":     "-1",
			"client_mount_gid":     "-1",
			"client_permissions":   "true",
			"client_quota":         "true",
			"log_file":             "",
			"debug_client":         "0/5",
			"client_mount_timeout": "300.000000",
			"keyring":              "/etc/ceph/$cluster.$name.keyring",
		},
		fsid:  0x5eedf00d,
		clock: time.Now,
	}

	now := s.clock()
	s.inodes[rootIno] = &inode{
		ino:      rootIno,
		mode:     unix.S_IFDIR | 0755,
		nlink:    2,
		children: make(map[string]uint64),
		parent:   rootIno,
		xattrs:   make(map[string][]byte),
		layout:   s.defaultLayout(),
		atime:    now,
		mtime:    now,
		ctime:    now,
		btime:    now,
	}
	return s
}

// AddPool registers a data pool.
func (s *Simulator) AddPool(p Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool := p
	s.pools[p.ID] = &pool
}

// SetCrushLocation replaces the CRUSH location of an OSD.
func (s *Simulator) SetCrushLocation(osd int, loc []CrushPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.osds[osd] = loc
}

// SetClock overrides the time source used for inode timestamps.
func (s *Simulator) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// Calls returns the names of the native entry points invoked so far, in
// order.
func (s *Simulator) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// ResetCalls clears the call log.
func (s *Simulator) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// OpenFiles returns the number of descriptors still open across all mounts.
func (s *Simulator) OpenFiles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, m := range s.mounts {
		n += len(m.fds)
	}
	return n
}

// OpenDirs returns the number of directory cursors still open across all
// mounts.
func (s *Simulator) OpenDirs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, m := range s.mounts {
		n += len(m.dirs)
	}
	return n
}

// InodeRefs returns the number of outstanding low-level inode references.
func (s *Simulator) InodeRefs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, in := range s.inodes {
		n += in.refs
	}
	return n
}

func (s *Simulator) record(op string) {
	s.calls = append(s.calls, op)
}

// Version reports a fixed reef release.
func (s *Simulator) Version() (int, int, int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ceph_version")
	return 18, 2, 4, "18.2.4"
}

// Create returns a new unmounted handle.
func (s *Simulator) Create(id string) (native.Mount, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ceph_create")

	if id == "" {
		id = "admin"
	}
	m := &mount{
		sim:    s,
		id:     id,
		state:  stateCreated,
		cwd:    rootIno,
		conf:   make(map[string]string),
		fds:    make(map[int]*openFile),
		dirs:   make(map[*dirCursor]struct{}),
		nextFd: 1,
	}
	for k, v := range s.defaults {
		m.conf[k] = v
	}
	s.mounts = append(s.mounts, m)
	return m, 0
}

// CreateFromRados behaves like Create; the cluster handle must be non-nil.
func (s *Simulator) CreateFromRados(cluster unsafe.Pointer) (native.Mount, int) {
	if cluster == nil {
		s.mu.Lock()
		s.record("ceph_create_from_rados")
		s.mu.Unlock()
		return nil, -int(unix.EINVAL)
	}
	m, rc := s.Create("")
	if rc == 0 {
		s.mu.Lock()
		s.calls[len(s.calls)-1] = "ceph_create_from_rados"
		s.mu.Unlock()
	}
	return m, rc
}

func (s *Simulator) now() time.Time {
	return s.clock()
}

func (s *Simulator) defaultLayout() native.Layout {
	return native.Layout{
		StripeUnit:  defaultObjectSize,
		StripeCount: 1,
		ObjectSize:  defaultObjectSize,
		Pool:        1,
	}
}

func (s *Simulator) allocInode(mode uint32, parent uint64) *inode {
	now := s.now()
	in := &inode{
		ino:    s.nextIno,
		mode:   mode,
		nlink:  1,
		parent: parent,
		xattrs: make(map[string][]byte),
		layout: s.defaultLayout(),
		atime:  now,
		mtime:  now,
		ctime:  now,
		btime:  now,
	}
	if p, ok := s.inodes[parent]; ok {
		in.layout = p.layout
	}
	if mode&unix.S_IFMT == unix.S_IFDIR {
		in.nlink = 2
		in.children = make(map[string]uint64)
	}
	s.nextIno++
	s.inodes[in.ino] = in
	return in
}

func (s *Simulator) usedBytes() uint64 {
	var n uint64
	for _, in := range s.inodes {
		n += uint64(len(in.data))
	}
	return n
}

func (in *inode) isDir() bool {
	return in.mode&unix.S_IFMT == unix.S_IFDIR
}

func (in *inode) isLink() bool {
	return in.mode&unix.S_IFMT == unix.S_IFLNK
}

func (in *inode) size() uint64 {
	switch {
	case in.isLink():
		return uint64(len(in.target))
	case in.isDir():
		return uint64(len(in.children))
	}
	return uint64(len(in.data))
}

func (in *inode) touch(now time.Time) {
	in.mtime = now
	in.ctime = now
	in.version++
}

func (in *inode) sortedChildren() []string {
	names := make([]string, 0, len(in.children))
	for name := range in.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fileType(mode uint32) uint8 {
	return uint8((mode & unix.S_IFMT) >> 12)
}

func timespec(t time.Time) native.Timespec {
	return native.Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

func (in *inode) statx(stx *native.Statx) {
	*stx = native.Statx{
		Mask:    native.StatxBasicStats | native.StatxBtime | native.StatxVersion,
		Blksize: uint32(in.layout.ObjectSize),
		Nlink:   in.nlink,
		UID:     in.uid,
		GID:     in.gid,
		Mode:    uint16(in.mode),
		Ino:     in.ino,
		Size:    in.size(),
		Blocks:  (uint64(len(in.data)) + 511) / 512,
		Dev:     0,
		Rdev:    in.rdev,
		Atime:   timespec(in.atime),
		Ctime:   timespec(in.ctime),
		Mtime:   timespec(in.mtime),
		Btime:   timespec(in.btime),
		Version: in.version,
	}
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

// Capabilities reported for every open descriptor: pin, auth shared,
// link shared, xattr shared, file shared/cache/read/write/buffer.
const openFileCaps = 0x1 | 0x4 | 0x10 | 0x40 | 0x100 | 0x200 | 0x400 | 0x800 | 0x1000

func (s *Simulator) poolByName(name string) *Pool {
	for _, p := range s.pools {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (m *mount) fileLayout(fd int) (native.Layout, int) {
	_, in, rc := m.file(fd)
	if rc < 0 {
		return native.Layout{}, rc
	}
	return in.layout, 0
}

func (m *mount) pathLayout(p string) (native.Layout, int) {
	in, rc := m.pathInode(p, true)
	if rc < 0 {
		return native.Layout{}, rc
	}
	return in.layout, 0
}

func field(l native.Layout, rc int, get func(native.Layout) int) int {
	if rc < 0 {
		return rc
	}
	return get(l)
}

func stripeUnit(l native.Layout) int  { return l.StripeUnit }
func stripeCount(l native.Layout) int { return l.StripeCount }
func objectSize(l native.Layout) int  { return l.ObjectSize }
func poolID(l native.Layout) int      { return l.Pool }

func (m *mount) GetFileStripeUnit(fd int) int {
	defer m.enter("ceph_get_file_stripe_unit")()
	l, rc := m.fileLayout(fd)
	return field(l, rc, stripeUnit)
}

func (m *mount) GetPathStripeUnit(p string) int {
	defer m.enter("ceph_get_path_stripe_unit")()
	l, rc := m.pathLayout(p)
	return field(l, rc, stripeUnit)
}

func (m *mount) GetFileStripeCount(fd int) int {
	defer m.enter("ceph_get_file_stripe_count")()
	l, rc := m.fileLayout(fd)
	return field(l, rc, stripeCount)
}

func (m *mount) GetPathStripeCount(p string) int {
	defer m.enter("ceph_get_path_stripe_count")()
	l, rc := m.pathLayout(p)
	return field(l, rc, stripeCount)
}

func (m *mount) GetFileObjectSize(fd int) int {
	defer m.enter("ceph_get_file_object_size")()
	l, rc := m.fileLayout(fd)
	return field(l, rc, objectSize)
}

func (m *mount) GetPathObjectSize(p string) int {
	defer m.enter("ceph_get_path_object_size")()
	l, rc := m.pathLayout(p)
	return field(l, rc, objectSize)
}

func (m *mount) GetFilePool(fd int) int {
	defer m.enter("ceph_get_file_pool")()
	l, rc := m.fileLayout(fd)
	return field(l, rc, poolID)
}

func (m *mount) GetPathPool(p string) int {
	defer m.enter("ceph_get_path_pool")()
	l, rc := m.pathLayout(p)
	return field(l, rc, poolID)
}

func (m *mount) poolName(id int, buf []byte) int {
	pool, ok := m.sim.pools[id]
	if !ok {
		return errno(unix.ENOENT)
	}
	return sized([]byte(pool.Name), buf)
}

func (m *mount) GetFilePoolName(fd int, buf []byte) int {
	defer m.enter("ceph_get_file_pool_name")()
	l, rc := m.fileLayout(fd)
	if rc < 0 {
		return rc
	}
	return m.poolName(l.Pool, buf)
}

func (m *mount) GetPathPoolName(p string, buf []byte) int {
	defer m.enter("ceph_get_path_pool_name")()
	l, rc := m.pathLayout(p)
	if rc < 0 {
		return rc
	}
	return m.poolName(l.Pool, buf)
}

func (m *mount) GetPoolName(pool int, buf []byte) int {
	defer m.enter("ceph_get_pool_name")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	return m.poolName(pool, buf)
}

func (m *mount) GetDefaultDataPoolName(buf []byte) int {
	defer m.enter("ceph_get_default_data_pool_name")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	return m.poolName(m.sim.inodes[rootIno].layout.Pool, buf)
}

func (m *mount) GetFileLayout(fd int, l *native.Layout) int {
	defer m.enter("ceph_get_file_layout")()
	layout, rc := m.fileLayout(fd)
	if rc < 0 {
		return rc
	}
	*l = layout
	return 0
}

func (m *mount) GetPathLayout(p string, l *native.Layout) int {
	defer m.enter("ceph_get_path_layout")()
	layout, rc := m.pathLayout(p)
	if rc < 0 {
		return rc
	}
	*l = layout
	return 0
}

func (m *mount) replication(id int) int {
	pool, ok := m.sim.pools[id]
	if !ok {
		return errno(unix.ENOENT)
	}
	return pool.Replication
}

func (m *mount) GetFileReplication(fd int) int {
	defer m.enter("ceph_get_file_replication")()
	l, rc := m.fileLayout(fd)
	if rc < 0 {
		return rc
	}
	return m.replication(l.Pool)
}

func (m *mount) GetPathReplication(p string) int {
	defer m.enter("ceph_get_path_replication")()
	l, rc := m.pathLayout(p)
	if rc < 0 {
		return rc
	}
	return m.replication(l.Pool)
}

func (m *mount) GetPoolID(name string) int {
	defer m.enter("ceph_get_pool_id")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	pool := m.sim.poolByName(name)
	if pool == nil {
		return errno(unix.ENOENT)
	}
	return pool.ID
}

func (m *mount) GetPoolReplication(pool int) int {
	defer m.enter("ceph_get_pool_replication")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	return m.replication(pool)
}

func (m *mount) GetOSDCrushLocation(osd int, buf []byte) int {
	defer m.enter("ceph_get_osd_crush_location")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	loc, ok := m.sim.osds[osd]
	if !ok {
		return errno(unix.ENOENT)
	}
	var out []byte
	for _, pair := range loc {
		out = append(out, pair.Type...)
		out = append(out, 0)
		out = append(out, pair.Name...)
		out = append(out, 0)
	}
	return sized(out, buf)
}

func (m *mount) GetStripeUnitGranularity() int {
	defer m.enter("ceph_get_stripe_unit_granularity")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	return StripeUnitGranularity
}

func (m *mount) LocalizeReads(val int) int {
	defer m.enter("ceph_localize_reads")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	m.localizeReads = val != 0
	return 0
}

func (m *mount) DebugGetFdCaps(fd int) int {
	defer m.enter("ceph_debug_get_fd_caps")()
	_, _, rc := m.file(fd)
	if rc < 0 {
		return rc
	}
	return openFileCaps
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"github.com/intel-hpdd/go-cephfs/native"
)

type (
	// Layout describes how a file is striped over RADOS objects.
	Layout struct {
		StripeUnit  int
		StripeCount int
		ObjectSize  int
		PoolID      int
	}

	// CrushLocation is one level of an OSD's position in the CRUSH
	// hierarchy, for example {"host", "node-a"}.
	CrushLocation struct {
		Type string
		Name string
	}
)

func newLayout(l *native.Layout) *Layout {
	return &Layout{
		StripeUnit:  l.StripeUnit,
		StripeCount: l.StripeCount,
		ObjectSize:  l.ObjectSize,
		PoolID:      l.Pool,
	}
}

func (m *MountInfo) pathInt(op, path string, fn func(native.Mount) int) (int, error) {
	if err := checkText(op, path); err != nil {
		return 0, err
	}
	return m.run(op, fn)
}

func (m *MountInfo) name(op string, fn func(native.Mount, []byte) int) (string, error) {
	buf, err := m.sizedCall(op, nameBufferSize, fn)
	if err != nil {
		return "", err
	}
	return cString(op, buf)
}

// PathStripeUnit returns the stripe unit of path in bytes.
func (m *MountInfo) PathStripeUnit(path string) (int, error) {
	return m.pathInt("get_path_stripe_unit", path, func(mnt native.Mount) int {
		return mnt.GetPathStripeUnit(path)
	})
}

// PathStripeCount returns the number of objects path is striped over.
func (m *MountInfo) PathStripeCount(path string) (int, error) {
	return m.pathInt("get_path_stripe_count", path, func(mnt native.Mount) int {
		return mnt.GetPathStripeCount(path)
	})
}

// PathObjectSize returns the object size of path in bytes.
func (m *MountInfo) PathObjectSize(path string) (int, error) {
	return m.pathInt("get_path_object_size", path, func(mnt native.Mount) int {
		return mnt.GetPathObjectSize(path)
	})
}

// PathPoolID returns the id of the data pool of path.
func (m *MountInfo) PathPoolID(path string) (int, error) {
	return m.pathInt("get_path_pool", path, func(mnt native.Mount) int {
		return mnt.GetPathPool(path)
	})
}

// PathReplication returns the replication factor of the data pool of
// path.
func (m *MountInfo) PathReplication(path string) (int, error) {
	return m.pathInt("get_path_replication", path, func(mnt native.Mount) int {
		return mnt.GetPathReplication(path)
	})
}

// PathPoolName returns the name of the data pool of path.
func (m *MountInfo) PathPoolName(path string) (string, error) {
	if err := checkText("get_path_pool_name", path); err != nil {
		return "", err
	}
	return m.name("get_path_pool_name", func(mnt native.Mount, buf []byte) int {
		return mnt.GetPathPoolName(path, buf)
	})
}

// PathLayout returns the full layout of path.
func (m *MountInfo) PathLayout(path string) (*Layout, error) {
	if err := checkText("get_path_layout", path); err != nil {
		return nil, err
	}
	var l native.Layout
	if err := m.call("get_path_layout", func(mnt native.Mount) int { return mnt.GetPathLayout(path, &l) }); err != nil {
		return nil, err
	}
	return newLayout(&l), nil
}

// PoolID returns the id of the pool called name.
func (m *MountInfo) PoolID(name string) (int, error) {
	if err := checkText("get_pool_id", name); err != nil {
		return 0, err
	}
	return m.run("get_pool_id", func(mnt native.Mount) int { return mnt.GetPoolID(name) })
}

// PoolName returns the name of pool id.
func (m *MountInfo) PoolName(id int) (string, error) {
	return m.name("get_pool_name", func(mnt native.Mount, buf []byte) int {
		return mnt.GetPoolName(id, buf)
	})
}

// DefaultDataPoolName returns the name of the default data pool.
func (m *MountInfo) DefaultDataPoolName() (string, error) {
	return m.name("get_default_data_pool_name", func(mnt native.Mount, buf []byte) int {
		return mnt.GetDefaultDataPoolName(buf)
	})
}

// PoolReplication returns the replication factor of pool id.
func (m *MountInfo) PoolReplication(id int) (int, error) {
	return m.run("get_pool_replication", func(mnt native.Mount) int { return mnt.GetPoolReplication(id) })
}

// OSDCrushLocation returns the CRUSH location of an OSD, innermost level
// first.
func (m *MountInfo) OSDCrushLocation(osd int) ([]CrushLocation, error) {
	buf, err := m.sizedCall("get_osd_crush_location", nameBufferSize, func(mnt native.Mount, buf []byte) int {
		return mnt.GetOSDCrushLocation(osd, buf)
	})
	if err != nil {
		return nil, err
	}
	return parseCrushLocation(buf)
}

// parseCrushLocation decodes NUL terminated type, name pairs.
func parseCrushLocation(buf []byte) ([]CrushLocation, error) {
	names, err := splitNames("get_osd_crush_location", buf)
	if err != nil {
		return nil, err
	}
	loc := make([]CrushLocation, 0, len(names)/2)
	for i := 0; i+1 < len(names); i += 2 {
		loc = append(loc, CrushLocation{Type: names[i], Name: names[i+1]})
	}
	return loc, nil
}

// StripeUnitGranularity returns the granularity every stripe unit must be
// a multiple of.
func (m *MountInfo) StripeUnitGranularity() (int, error) {
	return m.run("get_stripe_unit_granularity", func(mnt native.Mount) int {
		return mnt.GetStripeUnitGranularity()
	})
}

// LocalizeReads directs reads of replicated data to the nearest OSD.
func (m *MountInfo) LocalizeReads(enable bool) error {
	val := 0
	if enable {
		val = 1
	}
	return m.call("localize_reads", func(mnt native.Mount) int { return mnt.LocalizeReads(val) })
}

// StripeUnit returns the stripe unit of the file in bytes.
func (f *File) StripeUnit() (int, error) {
	return f.run("get_file_stripe_unit", func(mnt native.Mount, fd int) int {
		return mnt.GetFileStripeUnit(fd)
	})
}

// StripeCount returns the number of objects the file is striped over.
func (f *File) StripeCount() (int, error) {
	return f.run("get_file_stripe_count", func(mnt native.Mount, fd int) int {
		return mnt.GetFileStripeCount(fd)
	})
}

// ObjectSize returns the object size of the file in bytes.
func (f *File) ObjectSize() (int, error) {
	return f.run("get_file_object_size", func(mnt native.Mount, fd int) int {
		return mnt.GetFileObjectSize(fd)
	})
}

// PoolID returns the id of the data pool of the file.
func (f *File) PoolID() (int, error) {
	return f.run("get_file_pool", func(mnt native.Mount, fd int) int {
		return mnt.GetFilePool(fd)
	})
}

// PoolName returns the name of the data pool of the file.
func (f *File) PoolName() (string, error) {
	buf, err := f.sizedCall("get_file_pool_name", nameBufferSize, func(mnt native.Mount, fd int, buf []byte) int {
		return mnt.GetFilePoolName(fd, buf)
	})
	if err != nil {
		return "", err
	}
	return cString("get_file_pool_name", buf)
}

// Layout returns the full layout of the file.
func (f *File) Layout() (*Layout, error) {
	var l native.Layout
	if err := f.call("get_file_layout", func(mnt native.Mount, fd int) int { return mnt.GetFileLayout(fd, &l) }); err != nil {
		return nil, err
	}
	return newLayout(&l), nil
}

// Replication returns the replication factor of the data pool of the
// file.
func (f *File) Replication() (int, error) {
	return f.run("get_file_replication", func(mnt native.Mount, fd int) int {
		return mnt.GetFileReplication(fd)
	})
}

// DebugCaps returns the capability bits the client holds for the file.
func (f *File) DebugCaps() (int, error) {
	return f.run("debug_get_fd_caps", func(mnt native.Mount, fd int) int {
		return mnt.DebugGetFdCaps(fd)
	})
}

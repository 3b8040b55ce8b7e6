// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"math"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, m *MountInfo) {
	require.NoError(t, m.MakeDir("/d", 0755))
	require.NoError(t, m.MakeDir("/d/sub", 0755))
	writeFile(t, m, "/d/a", []byte("aaaa"))
	writeFile(t, m, "/d/b", []byte("bb"))
	require.NoError(t, m.Symlink("a", "/d/c"))
}

func TestReadDir(t *testing.T) {
	m, sim, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	dir, err := m.OpenDir("/d")
	require.NoError(t, err)

	var names []string
	var types []DType
	for {
		entry, err := dir.ReadDir()
		require.NoError(t, err)
		if entry == nil {
			break
		}
		names = append(names, entry.Name)
		types = append(types, entry.Type)
	}
	assert.Equal(t, []string{".", "..", "a", "b", "c", "sub"}, names)
	assert.Equal(t, []DType{DTypeDir, DTypeDir, DTypeReg, DTypeReg, DTypeLnk, DTypeDir}, types)
	assert.Equal(t, "symlink", DTypeLnk.String())

	pos, err := dir.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	require.NoError(t, dir.Seek(3))
	entry, err := dir.ReadDir()
	require.NoError(t, err)
	assert.Equal(t, "b", entry.Name)

	require.NoError(t, dir.Rewind())
	entry, err = dir.ReadDir()
	require.NoError(t, err)
	assert.Equal(t, ".", entry.Name)

	require.NoError(t, dir.Close())
	require.ErrorIs(t, dir.Close(), ErrReleased)
	_, err = dir.ReadDir()
	require.ErrorIs(t, err, ErrReleased)
	assert.Equal(t, 0, sim.OpenDirs())
}

func TestReadDirPlus(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	dir, err := m.OpenDir("/d")
	require.NoError(t, err)
	defer dir.Close()

	sizes := make(map[string]uint64)
	for {
		entry, err := dir.ReadDirPlus(StatxBasicStats, 0)
		require.NoError(t, err)
		if entry == nil {
			break
		}
		assert.Equal(t, entry.Inode, entry.Statx.Inode)
		sizes[entry.Name] = entry.Statx.Size
	}
	assert.Equal(t, uint64(4), sizes["a"])
	assert.Equal(t, uint64(2), sizes["b"])
	assert.Equal(t, uint64(1), sizes["c"])
}

func TestGetDents(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	dir, err := m.OpenDir("/d")
	require.NoError(t, err)
	defer dir.Close()

	var batches [][]string
	for {
		entries, err := dir.GetDents(4)
		require.NoError(t, err)
		if len(entries) == 0 {
			break
		}
		var batch []string
		for _, e := range entries {
			batch = append(batch, e.Name)
		}
		batches = append(batches, batch)
	}
	assert.Equal(t, [][]string{{".", "..", "a", "b"}, {"c", "sub"}}, batches)
}

func TestBadBufferSizes(t *testing.T) {
	m, sim, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	dir, err := m.OpenDir("/d")
	require.NoError(t, err)
	defer dir.Close()

	sim.ResetCalls()
	_, err = dir.GetDNames(-1)
	require.ErrorIs(t, err, syscall.EINVAL)
	_, err = dir.GetDents(math.MaxInt)
	require.ErrorIs(t, err, syscall.EINVAL)
	assert.Empty(t, sim.Calls())

	// the cursor is untouched
	names, err := dir.GetDNames(256)
	require.NoError(t, err)
	assert.Equal(t, []string{".", "..", "a", "b", "c", "sub"}, names)
}

func TestGetDNames(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	dir, err := m.OpenDir("/d")
	require.NoError(t, err)
	defer dir.Close()

	_, err = dir.GetDNames(1)
	require.ErrorIs(t, err, syscall.ERANGE)

	names, err := dir.GetDNames(9)
	require.NoError(t, err)
	assert.Equal(t, []string{".", "..", "a", "b"}, names)

	names, err = dir.GetDNames(256)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "sub"}, names)

	names, err = dir.GetDNames(256)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListDir(t *testing.T) {
	m, sim, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	entries, err := m.ListDir("/d")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "sub"}, names)
	assert.Equal(t, 0, sim.OpenDirs())

	_, err = m.ListDir("/d/a")
	require.ErrorIs(t, err, syscall.ENOTDIR)
}

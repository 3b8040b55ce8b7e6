// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInodes(t *testing.T) {
	m, sim, cleanup := testMount(t)
	defer cleanup()
	populate(t, m)

	root, err := m.LookupRoot()
	require.NoError(t, err)
	dir, err := root.OpenDir()
	require.NoError(t, err)
	entry, err := dir.ReadDir()
	require.NoError(t, err)
	assert.Equal(t, ".", entry.Name)
	require.NoError(t, dir.Close())
	assert.Equal(t, 0, sim.OpenDirs())

	st, err := m.Stat("/d")
	require.NoError(t, err)
	in, err := m.LookupInode(st.Inode)
	require.NoError(t, err)
	assert.Equal(t, st.Inode, in.Number())

	cached, err := m.GetInode(st.Inode, NoSnap)
	require.NoError(t, err)
	assert.Equal(t, 3, sim.InodeRefs())

	_, err = m.LookupInode(1 << 40)
	require.ErrorIs(t, err, syscall.ESTALE)

	fst, err := m.Stat("/d/a")
	require.NoError(t, err)
	file, err := m.GetInode(fst.Inode, NoSnap)
	require.NoError(t, err)
	_, err = file.OpenDir()
	require.ErrorIs(t, err, syscall.ENOTDIR)

	for _, ref := range []*Inode{root, in, cached, file} {
		require.NoError(t, ref.Release())
		require.ErrorIs(t, ref.Release(), ErrReleased)
	}
	assert.Equal(t, 0, sim.InodeRefs())

	_, err = in.OpenDir()
	require.ErrorIs(t, err, ErrReleased)
}

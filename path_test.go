// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDirectories(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()

	require.NoError(t, m.MakeDir("/d", 0750))
	require.ErrorIs(t, m.MakeDir("/d", 0750), syscall.EEXIST)
	require.ErrorIs(t, m.MakeDir("/x/y", 0750), syscall.ENOENT)
	require.NoError(t, m.MakeDirs("/x/y", 0750))

	st, err := m.Stat("/d")
	require.NoError(t, err)
	assert.True(t, st.IsDir())
	assert.Equal(t, os.ModeDir|0750, st.FileMode())

	require.ErrorIs(t, m.RemoveDir("/x"), syscall.ENOTEMPTY)
	require.NoError(t, m.RemoveDir("/x/y"))
	require.NoError(t, m.RemoveDir("/x"))
	_, err = m.Stat("/x")
	assert.True(t, IsNotExist(err))
}

func TestLinks(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()

	writeFile(t, m, "/f", []byte("data"))
	require.NoError(t, m.Link("/f", "/hard"))
	require.NoError(t, m.Symlink("f", "/soft"))

	target, err := m.Readlink("/soft")
	require.NoError(t, err)
	assert.Equal(t, "f", target)
	_, err = m.Readlink("/f")
	require.ErrorIs(t, err, syscall.EINVAL)

	st, err := m.Stat("/soft")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), st.Nlink)
	assert.Equal(t, uint64(4), st.Size)

	lst, err := m.Lstat("/soft")
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink|0777, lst.FileMode())
	assert.NotEqual(t, st.Inode, lst.Inode)

	require.NoError(t, m.Unlink("/f"))
	_, err = m.Stat("/soft")
	require.ErrorIs(t, err, syscall.ENOENT)
	st, err = m.Stat("/hard")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), st.Nlink)

	require.NoError(t, m.Rename("/hard", "/renamed"))
	_, err = m.Stat("/renamed")
	require.NoError(t, err)
	require.ErrorIs(t, m.Unlink("/hard"), syscall.ENOENT)
}

func TestAttributes(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()

	require.NoError(t, m.Mknod("/f", unix.S_IFREG|0600, 0))
	require.NoError(t, m.Chmod("/f", 0644))
	require.NoError(t, m.Chown("/f", 1000, 1000))
	require.NoError(t, m.Chown("/f", -1, 2000))

	atime := time.Unix(1500000000, 0)
	mtime := time.Unix(1600000000, 0)
	require.NoError(t, m.Utime("/f", atime, mtime))
	require.NoError(t, m.Truncate("/f", 100))

	st, err := m.Statx("/f", StatxAllStats, 0)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), st.FileMode())
	assert.Equal(t, uint32(1000), st.UID)
	assert.Equal(t, uint32(2000), st.GID)
	assert.True(t, atime.Equal(st.Atime))
	assert.True(t, mtime.Equal(st.Mtime))
	assert.Equal(t, uint64(100), st.Size)
	assert.NotZero(t, st.Mask&StatxBtime)

	btime := time.Unix(1400000000, 500)
	attrs := &SetAttrs{Mode: 0400, Size: 10, Btime: btime}
	require.NoError(t, m.SetAttr("/f", attrs, SetAttrMode|SetAttrSize|SetAttrBtime, 0))
	st, err = m.Statx("/f", StatxAllStats, 0)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0400), st.FileMode())
	assert.Equal(t, uint64(10), st.Size)
	assert.True(t, btime.Equal(st.Btime))

	require.NoError(t, m.Symlink("/f", "/l"))
	require.NoError(t, m.Lchown("/l", 7, 7))
	lst, err := m.Lstat("/l")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), lst.UID)
	st, err = m.Stat("/l")
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), st.UID)

	require.NoError(t, m.Mknod("/fifo", unix.S_IFIFO|0600, 0))
	st, err = m.Stat("/fifo")
	require.NoError(t, err)
	assert.Equal(t, os.ModeNamedPipe|0600, st.FileMode())
}

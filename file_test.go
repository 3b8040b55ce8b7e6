// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"bytes"
	"io"
	"io/ioutil"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFileReadWrite(t *testing.T) {
	m, sim, cleanup := testMount(t)
	defer cleanup()

	f, err := m.Open("/f", oCreat|oRdwr, 0644)
	require.NoError(t, err)
	assert.Equal(t, "/f", f.Name())
	assert.True(t, f.Fd() > 0)

	n, err := io.WriteString(f, "hello, world")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	pos, err := f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pos)

	data, err := ioutil.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello, world", string(data))

	buf := make([]byte, 5)
	n, err = f.ReadAt(buf, 7)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))

	n, err = f.ReadAt(make([]byte, 10), 7)
	assert.Equal(t, 5, n)
	assert.Equal(t, io.EOF, err)

	_, err = f.WriteAt([]byte("HELLO"), 0)
	require.NoError(t, err)
	pos, err = f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(12), pos)

	_, err = f.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, syscall.EINVAL)
	_, err = f.ReadAt(buf, -1)
	require.ErrorIs(t, err, syscall.EINVAL)

	require.NoError(t, f.Truncate(5))
	st, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), st.Size)

	require.NoError(t, f.Fsync(SyncDataOnly))
	require.NoError(t, f.Sync())
	require.NoError(t, f.Fchmod(0600))
	require.NoError(t, f.Fchown(10, -1))
	st, err = f.Fstatx(StatxMode|StatxUID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(unix.S_IFREG|0600), st.Mode)
	assert.Equal(t, uint32(10), st.UID)

	require.NoError(t, f.Close())
	assert.Equal(t, 0, sim.OpenFiles())

	sim.ResetCalls()
	require.ErrorIs(t, f.Close(), ErrReleased)
	_, err = f.Read(buf)
	require.ErrorIs(t, err, ErrReleased)
	_, err = f.GetXattr("user.a")
	require.ErrorIs(t, err, ErrReleased)
	assert.Empty(t, sim.Calls())
}

func TestFileAppend(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()

	writeFile(t, m, "/log", []byte("one\n"))
	f, err := m.Open("/log", oWronly|unix.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = m.Open("/log", unix.O_RDONLY, 0)
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	_, err = io.Copy(&out, f)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out.String())

	_, err = f.Write([]byte("x"))
	require.ErrorIs(t, err, syscall.EBADF)
}

func TestOpenErrors(t *testing.T) {
	m, _, cleanup := testMount(t)
	defer cleanup()

	_, err := m.Open("/missing", unix.O_RDONLY, 0)
	assert.True(t, IsNotExist(err))

	writeFile(t, m, "/f", nil)
	_, err = m.Open("/f", oCreat|unix.O_EXCL|oWronly, 0644)
	require.ErrorIs(t, err, syscall.EEXIST)

	require.NoError(t, m.MakeDir("/d", 0755))
	_, err = m.Open("/d", oWronly, 0)
	require.ErrorIs(t, err, syscall.EISDIR)
}

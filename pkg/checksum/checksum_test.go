// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package checksum

import (
	"bytes"
	"crypto/sha1"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intel-hpdd/go-cephfs/internal/testhelpers"
)

func TestSha1HashWriter(t *testing.T) {
	defer testhelpers.ChdirTemp(t)()

	fp, err := os.Create("dest")
	require.NoError(t, err)
	defer fp.Close()

	data := bytes.Repeat([]byte("0123456789"), 1000)
	cw := NewSha1HashWriter(fp)
	for off := 0; off < len(data); off += 4096 {
		end := off + 4096
		if end > len(data) {
			end = len(data)
		}
		n, err := cw.WriteAt(data[off:end], int64(off))
		require.NoError(t, err)
		assert.Equal(t, end-off, n)
	}

	want := sha1.Sum(data)
	assert.Equal(t, want[:], cw.Sum())
	assert.Equal(t, Hex(want[:]), Hex(cw.Sum()))

	fp.Seek(0, 0)
	sum, err := Sha1Sum(fp)
	require.NoError(t, err)
	assert.Equal(t, want[:], sum)
}

func TestSha1HashWriterOutOfOrder(t *testing.T) {
	defer testhelpers.ChdirTemp(t)()

	fp, err := os.Create("dest")
	require.NoError(t, err)
	defer fp.Close()

	cw := NewSha1HashWriter(fp)
	_, err = cw.WriteAt([]byte("late"), 10)
	require.Error(t, err)
}

func TestNoopHashWriter(t *testing.T) {
	defer testhelpers.ChdirTemp(t)()

	fp, err := os.Create("dest")
	require.NoError(t, err)
	defer fp.Close()

	cw := NewNoopHashWriter(fp)
	_, err = cw.WriteAt([]byte("anywhere"), 100)
	require.NoError(t, err)
	assert.Empty(t, cw.Sum())
}

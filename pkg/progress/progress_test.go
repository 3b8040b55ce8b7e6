// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package progress

import (
	"bytes"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intel-hpdd/go-cephfs/internal/testhelpers"
)

type memFile struct {
	data []byte
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(m.data) {
		m.data = append(m.data, make([]byte, end-len(m.data))...)
	}
	return copy(m.data[off:], p), nil
}

func TestWriterCounts(t *testing.T) {
	defer leaktest.Check(t)()

	var updates int64
	dst := &memFile{}
	w := NewWriter(dst, time.Millisecond, func(last, delta uint64) error {
		atomic.AddInt64(&updates, 1)
		return nil
	})

	for i := 0; i < 4; i++ {
		_, err := w.WriteAt([]byte("abcd"), int64(i*4))
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(16), w.BytesCopied())

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&updates) > 0 }, time.Second, time.Millisecond)
	w.StopUpdates()
	w.StopUpdates()
	assert.Equal(t, "abcdabcdabcdabcd", string(dst.data))
}

func TestReaderWithoutUpdates(t *testing.T) {
	defer leaktest.Check(t)()

	r := NewReader(bytes.NewReader([]byte("hello world")), 0, nil)
	buf := make([]byte, 5)
	n, err := r.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, uint64(5), r.BytesCopied())
	r.StopUpdates()
}

func TestCopyWithProgress(t *testing.T) {
	defer leaktest.Check(t)()

	data := bytes.Repeat([]byte("0123456789abcdef"), 1000)

	tests := []struct {
		name          string
		start, length int64
		want          []byte
		updates       []int64
	}{
		{"whole", 0, -1, data, []int64{4096, 8192, 12288, 16000}},
		{"exact length", 0, 16000, data, []int64{4096, 8192, 12288, 16000}},
		{"range", 100, 5000, data[100:5100], []int64{4096, 5000}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dst := &memFile{}
			var updates []int64
			n, err := CopyWithProgress(dst, bytes.NewReader(data), tc.start, tc.length, 4096, func(copied int64) error {
				updates = append(updates, copied)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), n)
			assert.Equal(t, tc.want, dst.data[tc.start:])
			assert.Equal(t, tc.updates, updates)
		})
	}
}

func TestCopyWithProgressShortSource(t *testing.T) {
	dst := &memFile{}
	n, err := CopyWithProgress(dst, bytes.NewReader([]byte("tiny")), 0, 10, 0, nil)
	require.Error(t, err)
	assert.Equal(t, int64(4), n)
}

func TestCopyAtFiles(t *testing.T) {
	defer testhelpers.ChdirTemp(t)()

	src, cleanup := testhelpers.TempFile(t, 8192)
	defer cleanup()
	in, err := os.Open(src)
	require.NoError(t, err)
	defer in.Close()

	out, err := os.Create("dst")
	require.NoError(t, err)
	defer out.Close()

	n, err := CopyAt(out, in, 4096, 4096)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), n)

	n, err = CopyAt(out, in, 8000, 4096)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, int64(192), n)
}

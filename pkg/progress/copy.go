// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package progress

import (
	"io"

	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
)

// DefaultBlockSize is used when CopyWithProgress is given no block size.
const DefaultBlockSize = 4 * 1024 * 1024

// CopyAt copies n bytes from src to dst, reading and writing at the same
// offset. It returns the number of bytes copied and io.EOF if src ended
// first.
func CopyAt(dst io.WriterAt, src io.ReaderAt, offset int64, n int64) (written int64, err error) {
	buf := make([]byte, n)
	nr, er := src.ReadAt(buf, offset)
	if nr > 0 {
		nw, ew := dst.WriteAt(buf[0:nr], offset)
		if nw > 0 {
			written += int64(nw)
		}
		if ew != nil {
			err = ew
		} else if nr != nw {
			err = io.ErrShortWrite
		}
	}
	if er != nil && err == nil {
		err = er
	}
	return written, err
}

// CopyWithProgress copies length bytes starting at start in blocks of
// blockSize, calling update after each block with the running total. A
// length below zero copies to the end of src.
func CopyWithProgress(dst io.WriterAt, src io.ReaderAt, start, length int64, blockSize int64, update func(copied int64) error) (int64, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	var copied int64
	for length < 0 || copied < length {
		want := blockSize
		if length >= 0 && length-copied < want {
			want = length - copied
		}

		n, err := CopyAt(dst, src, start+copied, want)
		copied += n
		if err == io.EOF {
			if n > 0 && update != nil {
				if err := update(copied); err != nil {
					return copied, err
				}
			}
			if length >= 0 && copied < length {
				return copied, errors.Errorf("short copy: %d of %d bytes", copied, length)
			}
			break
		}
		if err != nil {
			return copied, errors.Wrapf(err, "copy at %d failed", start+copied)
		}

		if update != nil {
			if err := update(copied); err != nil {
				return copied, err
			}
		}
	}

	debug.Printf("copied %d bytes from offset %d", copied, start)
	return copied, nil
}

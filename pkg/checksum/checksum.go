// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package checksum

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"io"

	"github.com/pkg/errors"
)

// XattrName is the extended attribute holding the hex SHA1 of a file's
// contents, as recorded by an upload.
const XattrName = "user.cephfs.sha1"

type (
	// Writer wraps an io.WriterAt and updates the checksum
	// with every write. Writes must arrive in order.
	Writer interface {
		io.WriterAt
		Sum() []byte
	}

	// Sha1HashWriter implements Writer and uses the SHA1
	// algorithm to calculate the file checksum
	Sha1HashWriter struct {
		dest  io.WriterAt
		cksum hash.Hash
		next  int64
	}

	// NoopHashWriter implements Writer but doesn't
	// actually calculate a checksum
	NoopHashWriter struct {
		dest io.WriterAt
	}
)

// NewSha1HashWriter returns a new Sha1HashWriter
func NewSha1HashWriter(dest io.WriterAt) Writer {
	return &Sha1HashWriter{
		dest:  dest,
		cksum: sha1.New(),
	}
}

// WriteAt updates the checksum and writes the byte slice at offset
func (hw *Sha1HashWriter) WriteAt(b []byte, off int64) (int, error) {
	if off != hw.next {
		return 0, errors.Errorf("checksum write at %d, expected %d", off, hw.next)
	}
	n, err := hw.dest.WriteAt(b, off)
	hw.cksum.Write(b[:n])
	hw.next += int64(n)
	return n, err
}

// Sum returns the checksum
func (hw *Sha1HashWriter) Sum() []byte {
	return hw.cksum.Sum(nil)
}

// NewNoopHashWriter returns a new NoopHashWriter
func NewNoopHashWriter(dest io.WriterAt) Writer {
	return &NoopHashWriter{
		dest: dest,
	}
}

// WriteAt writes the byte slice at offset
func (hw *NoopHashWriter) WriteAt(b []byte, off int64) (int, error) {
	return hw.dest.WriteAt(b, off)
}

// Sum returns a dummy checksum
func (hw *NoopHashWriter) Sum() []byte {
	return []byte{}
}

// Sha1Sum returns the SHA1 checksum of everything read from r.
func Sha1Sum(r io.Reader) ([]byte, error) {
	hash := sha1.New()
	if _, err := io.Copy(hash, r); err != nil {
		return nil, errors.Wrap(err, "Failed to compute checksum")
	}
	return hash.Sum(nil), nil
}

// Hex formats a checksum the way it is stored in XattrName.
func Hex(sum []byte) string {
	return hex.EncodeToString(sum)
}

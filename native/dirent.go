// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package native

import (
	"bytes"
	"encoding/binary"
)

// ceph_getdents fills the caller's buffer with an array of glibc
// struct dirent records. The record stride is sizeof(struct dirent), not
// d_reclen, which libcephfs leaves at 1.
const (
	direntInoOff    = 0
	direntOffOff    = 8
	direntReclenOff = 16
	direntTypeOff   = 18
	direntNameOff   = 19
	direntNameLen   = 256

	// DirentSize is sizeof(struct dirent) on linux.
	DirentSize = 280
)

// DecodeDirents decodes every complete struct dirent record in buf.
func DecodeDirents(buf []byte) []Dirent {
	var entries []Dirent
	for len(buf) >= DirentSize {
		rec := buf[:DirentSize]
		name := rec[direntNameOff : direntNameOff+direntNameLen]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		entries = append(entries, Dirent{
			Ino:    binary.NativeEndian.Uint64(rec[direntInoOff:]),
			Off:    int64(binary.NativeEndian.Uint64(rec[direntOffOff:])),
			Reclen: binary.NativeEndian.Uint16(rec[direntReclenOff:]),
			Type:   rec[direntTypeOff],
			Name:   string(name),
		})
		buf = buf[DirentSize:]
	}
	return entries
}

// EncodeDirent writes de into rec using the struct dirent layout. Names
// longer than 255 bytes are truncated, matching libcephfs.
func EncodeDirent(rec []byte, de *Dirent) {
	for i := range rec[:DirentSize] {
		rec[i] = 0
	}
	binary.NativeEndian.PutUint64(rec[direntInoOff:], de.Ino)
	binary.NativeEndian.PutUint64(rec[direntOffOff:], uint64(de.Off))
	binary.NativeEndian.PutUint16(rec[direntReclenOff:], de.Reclen)
	rec[direntTypeOff] = de.Type
	copy(rec[direntNameOff:direntNameOff+direntNameLen-1], de.Name)
}

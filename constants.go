// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

// StatxMask selects the fields a Statx call must fill in.
type StatxMask uint32

// Statx field selectors.
const (
	StatxMode       StatxMask = native.StatxMode
	StatxNlink      StatxMask = native.StatxNlink
	StatxUID        StatxMask = native.StatxUID
	StatxGID        StatxMask = native.StatxGID
	StatxRdev       StatxMask = native.StatxRdev
	StatxAtime      StatxMask = native.StatxAtime
	StatxMtime      StatxMask = native.StatxMtime
	StatxCtime      StatxMask = native.StatxCtime
	StatxIno        StatxMask = native.StatxIno
	StatxSize       StatxMask = native.StatxSize
	StatxBlocks     StatxMask = native.StatxBlocks
	StatxBasicStats StatxMask = native.StatxBasicStats
	StatxBtime      StatxMask = native.StatxBtime
	StatxVersion    StatxMask = native.StatxVersion
	StatxAllStats   StatxMask = native.StatxAllStats
)

// AtFlags modify path resolution.
type AtFlags uint32

// AtSymlinkNofollow operates on a trailing symlink itself.
const AtSymlinkNofollow AtFlags = unix.AT_SYMLINK_NOFOLLOW

// SetAttrMask selects the fields SetAttr applies.
type SetAttrMask int

// SetAttr field selectors.
const (
	SetAttrMode  SetAttrMask = native.SetattrMode
	SetAttrUID   SetAttrMask = native.SetattrUID
	SetAttrGID   SetAttrMask = native.SetattrGID
	SetAttrMtime SetAttrMask = native.SetattrMtime
	SetAttrAtime SetAttrMask = native.SetattrAtime
	SetAttrSize  SetAttrMask = native.SetattrSize
	SetAttrCtime SetAttrMask = native.SetattrCtime
	SetAttrBtime SetAttrMask = native.SetattrBtime
)

// XattrFlags control how SetXattr treats an existing attribute.
type XattrFlags int

const (
	// XattrDefault creates or replaces.
	XattrDefault XattrFlags = 0
	// XattrCreate fails if the attribute exists.
	XattrCreate XattrFlags = unix.XATTR_CREATE
	// XattrReplace fails if the attribute does not exist.
	XattrReplace XattrFlags = unix.XATTR_REPLACE
)

// SyncFlags select what Fsync flushes.
type SyncFlags int

const (
	// SyncAll flushes data and metadata.
	SyncAll SyncFlags = iota
	// SyncDataOnly flushes data only, like fdatasync.
	SyncDataOnly
)

// NoSnap names the live (head) version of an inode in GetInode.
const NoSnap = ^uint64(0) - 1

// DType is the file type reported by directory entries.
type DType uint8

// Directory entry types.
const (
	DTypeUnknown DType = unix.DT_UNKNOWN
	DTypeFIFO    DType = unix.DT_FIFO
	DTypeChr     DType = unix.DT_CHR
	DTypeDir     DType = unix.DT_DIR
	DTypeBlk     DType = unix.DT_BLK
	DTypeReg     DType = unix.DT_REG
	DTypeLnk     DType = unix.DT_LNK
	DTypeSock    DType = unix.DT_SOCK
)

func (t DType) String() string {
	switch t {
	case DTypeFIFO:
		return "fifo"
	case DTypeChr:
		return "char"
	case DTypeDir:
		return "dir"
	case DTypeBlk:
		return "block"
	case DTypeReg:
		return "file"
	case DTypeLnk:
		return "symlink"
	case DTypeSock:
		return "socket"
	}
	return "unknown"
}

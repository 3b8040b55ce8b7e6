// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !cgo || nocephfs

package native

import (
	"syscall"
	"unsafe"
)

type libcephfs struct{}

// Libcephfs returns a Library whose entry points all fail with ENOSYS.
// Builds without cgo (or with the nocephfs tag) use it so that the rest of
// the module still compiles and can run against the simulator.
func Libcephfs() Library {
	return libcephfs{}
}

func (libcephfs) Version() (int, int, int, string) {
	return 0, 0, 0, ""
}

func (libcephfs) Create(id string) (Mount, int) {
	return nil, -int(syscall.ENOSYS)
}

func (libcephfs) CreateFromRados(cluster unsafe.Pointer) (Mount, int) {
	return nil, -int(syscall.ENOSYS)
}

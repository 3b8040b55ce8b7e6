// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Package cephfs binds libcephfs, the CephFS client library.

A session starts with a MountInfo, which is configured and then mounted:

	mount, err := cephfs.CreateMountWithID("admin")
	if err != nil {
		return err
	}
	if err := mount.ReadDefaultConfigFile(); err != nil {
		return err
	}
	if err := mount.Mount(); err != nil {
		return err
	}
	defer mount.Release()
	defer mount.Unmount()

Operations return a *Error carrying the errno reported by libcephfs, so
errors.Is(err, syscall.ENOENT) works as expected. Strings are passed to
libcephfs as C strings, so an argument holding a NUL byte fails with
ErrInvalidArgument before libcephfs is called. Handles are released exactly
once; any use afterwards fails with ErrReleased.

None of the handle types are safe for concurrent use.

Every libcephfs call is timed in the go-metrics registry returned by
MetricsRegistry.
*/
package cephfs

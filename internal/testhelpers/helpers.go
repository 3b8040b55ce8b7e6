// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testhelpers

import (
	"io/ioutil"
	"os"
	"testing"
)

var testPrefix = "cephfs-test"

// TempDir creates a scratch directory and returns a func that removes it.
func TempDir(t *testing.T) (string, func()) {
	tdir, err := ioutil.TempDir("", testPrefix)
	if err != nil {
		t.Fatal(err)
	}
	return tdir, func() {
		err = os.RemoveAll(tdir)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// ChdirTemp changes into a scratch directory until the returned func is
// called.
func ChdirTemp(t *testing.T) func() {
	tdir, cleanDir := TempDir(t)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	err = os.Chdir(tdir)
	if err != nil {
		t.Fatal(err)
	}

	return func() {
		err := os.Chdir(cwd)
		if err != nil {
			t.Fatal(err)
		}
		cleanDir()
	}
}

// Fill writes size bytes of a repeating pattern to fp.
func Fill(t *testing.T, fp *os.File, size uint64) {
	var bs uint64 = 64 * 1024
	buf := make([]byte, bs)

	for i := 0; i < len(buf); i++ {
		buf[i] = byte(i)
	}

	for remaining := size; remaining > 0; {
		n := bs
		if remaining < n {
			n = remaining
		}
		if _, err := fp.Write(buf[:n]); err != nil {
			t.Fatal(err)
		}
		remaining -= n
	}
}

// TempFile creates a local file of size pattern bytes in the current
// directory.
func TempFile(t *testing.T, size uint64) (string, func()) {
	fp, err := ioutil.TempFile(".", testPrefix)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()

	if size > 0 {
		Fill(t, fp, size)
	}
	name := fp.Name()
	return name, func() {
		err := os.Remove(name)
		if err != nil {
			t.Fatal(err)
		}
	}
}

// CopyFile copies src to dest, creating dest with mode.
func CopyFile(t *testing.T, src string, dest string, mode os.FileMode) {
	buf, err := ioutil.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	err = ioutil.WriteFile(dest, buf, mode)
	if err != nil {
		t.Fatal(err)
	}
}

// TempCopy copies src to a temporary file with exactly mode, as config
// files are checked for their permissions.
func TempCopy(t *testing.T, src string, mode os.FileMode) (string, func()) {
	tmpFile, cleanup := TempFile(t, 0)
	CopyFile(t, src, tmpFile, mode)

	/* ensure file has correct mode, in case we're overwriting */
	err := os.Chmod(tmpFile, mode)
	if err != nil {
		t.Fatal(err)
	}

	return tmpFile, cleanup
}

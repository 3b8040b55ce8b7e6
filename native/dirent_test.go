// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package native

import (
	"reflect"
	"strings"
	"testing"
)

func TestDirentRoundTrip(t *testing.T) {
	in := []Dirent{
		{Ino: 1, Off: 1, Reclen: 1, Type: 4, Name: "."},
		{Ino: 1099511627776, Off: 2, Reclen: 1, Type: 8, Name: "file.dat"},
	}

	buf := make([]byte, DirentSize*len(in)+DirentSize/2)
	for i := range in {
		EncodeDirent(buf[i*DirentSize:], &in[i])
	}

	got := DecodeDirents(buf)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("\nexpected: %#v\ngot: %#v", in, got)
	}
}

func TestEncodeDirentTruncatesName(t *testing.T) {
	long := strings.Repeat("x", 300)
	buf := make([]byte, DirentSize)
	EncodeDirent(buf, &Dirent{Name: long})

	got := DecodeDirents(buf)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if len(got[0].Name) != 255 {
		t.Fatalf("expected name truncated to 255 bytes, got %d", len(got[0].Name))
	}
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alert

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func testLogger() (*Logger, *bytes.Buffer, *int) {
	var buf bytes.Buffer
	code := -1
	l := NewLogger(&buf)
	l.exit = func(c int) { code = c }
	return l, &buf, &code
}

func TestWarnf(t *testing.T) {
	l, buf, code := testLogger()
	l.Warnf("disk %s is full", "sda")

	if !strings.Contains(buf.String(), "disk sda is full") {
		t.Fatalf("expected message in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected level in %q", buf.String())
	}
	if *code != -1 {
		t.Fatalf("Warnf must not exit")
	}
}

func TestFatal(t *testing.T) {
	l, buf, code := testLogger()
	l.Fatal("giving up after ", 3, " tries")

	if *code != 1 {
		t.Fatalf("expected exit code 1, got %d", *code)
	}
	if !strings.Contains(buf.String(), "giving up after 3 tries") {
		t.Fatalf("expected message in %q", buf.String())
	}
}

func TestAbort(t *testing.T) {
	l, buf, code := testLogger()
	l.Abort(errors.Wrap(errors.New("root cause"), "mount failed"))

	if *code != 1 {
		t.Fatalf("expected exit code 1, got %d", *code)
	}
	for _, want := range []string{"Aborting", "root cause", "mount failed"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in %q", want, buf.String())
		}
	}
}

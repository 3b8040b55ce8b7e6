// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebuggerGate(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugger(&buf)

	d.Printf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("disabled debugger wrote %q", buf.String())
	}

	d.Enable()
	d.Printf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Fatalf("expected message in %q", buf.String())
	}
	if !strings.Contains(buf.String(), "debug_test.go") {
		t.Fatalf("expected caller in %q", buf.String())
	}

	d.Disable()
	buf.Reset()
	d.Print("hidden again")
	if buf.Len() != 0 {
		t.Fatalf("disabled debugger wrote %q", buf.String())
	}
}

// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cephfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intel-hpdd/go-cephfs/native/simulator"
)

// testMount returns a mounted handle on a fresh simulator.
func testMount(t *testing.T) (*MountInfo, *simulator.Simulator, func()) {
	sim := simulator.New()
	m, err := CreateMountWith(sim, "test")
	require.NoError(t, err)
	require.NoError(t, m.Init())
	require.NoError(t, m.Mount())

	return m, sim, func() {
		if m.mnt == nil {
			return
		}
		m.Unmount()
		m.Release()
	}
}

// writeFile creates path holding data.
func writeFile(t *testing.T, m *MountInfo, path string, data []byte) {
	f, err := m.Open(path, oCreat|oWronly|oTrunc, 0644)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

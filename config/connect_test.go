// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cephfs "github.com/intel-hpdd/go-cephfs"
	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
	"github.com/intel-hpdd/go-cephfs/internal/testhelpers"
	"github.com/intel-hpdd/go-cephfs/native"
	"github.com/intel-hpdd/go-cephfs/native/simulator"
)

type nativeMount = native.Mount

// stuckMount refuses to localize reads or unmount.
type stuckMount struct {
	nativeMount
}

func (m *stuckMount) LocalizeReads(val int) int {
	return -int(syscall.EIO)
}

func (m *stuckMount) Unmount() int {
	return -int(syscall.EBUSY)
}

type stuckLibrary struct {
	*simulator.Simulator
}

func (l *stuckLibrary) Create(id string) (native.Mount, int) {
	mnt, rc := l.Simulator.Create(id)
	if rc < 0 {
		return nil, rc
	}
	return &stuckMount{mnt}, rc
}

// cephConf writes a minimal ceph.conf and returns its path.
func cephConf(t *testing.T) (string, func()) {
	dir, cleanup := testhelpers.TempDir(t)
	conf := path.Join(dir, "ceph.conf")
	data := "[global]\nmon host = 10.0.0.1:6789\n\n[client.admin]\nclient mount timeout = 30\n"
	require.NoError(t, ioutil.WriteFile(conf, []byte(data), 0644))
	return conf, cleanup
}

func makeSubtree(t *testing.T, sim *simulator.Simulator, conf, dir string) {
	m, err := cephfs.CreateMountWith(sim, "")
	require.NoError(t, err)
	require.NoError(t, m.ReadConfigFile(conf))
	require.NoError(t, m.Mount())
	require.NoError(t, m.MakeDirs(dir, 0755))
	require.NoError(t, m.Unmount())
	require.NoError(t, m.Release())
}

func TestConnect(t *testing.T) {
	conf, cleanup := cephConf(t)
	defer cleanup()
	sim := simulator.New()
	makeSubtree(t, sim, conf, "/volumes/group")

	os.Setenv("CEPHFS_TEST_ARGS", "--client_quota=false")
	defer os.Unsetenv("CEPHFS_TEST_ARGS")

	cfg := &Client{
		ID:            "admin",
		CephConfig:    "/nonexistent/ceph.conf," + conf,
		Root:          "/volumes/group",
		Options:       map[string]string{"client_permissions": "false"},
		Argv:          []string{"--debug_client", "2/5"},
		EnvVar:        "CEPHFS_TEST_ARGS",
		LocalizeReads: true,
	}
	m, err := Connect(sim, cfg)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, m.Unmount())
		require.NoError(t, m.Release())
	}()

	mounted, err := m.IsMounted()
	require.NoError(t, err)
	assert.True(t, mounted)

	for option, want := range map[string]string{
		"mon_host":             "10.0.0.1:6789",
		"client_mount_timeout": "30",
		"client_permissions":   "false",
		"client_quota":         "false",
		"debug_client":         "2/5",
	} {
		got, err := m.GetConfigOption(option)
		require.NoError(t, err)
		assert.Equal(t, want, got, option)
	}

	cwd, err := m.CurrentDir()
	require.NoError(t, err)
	assert.Equal(t, "/", cwd)
}

func TestConnectReleasesOnFailure(t *testing.T) {
	conf, cleanup := cephConf(t)
	defer cleanup()

	tests := []struct {
		name  string
		cfg   *Client
		errno syscall.Errno
	}{
		{
			name:  "missing config file",
			cfg:   &Client{CephConfig: "/nonexistent/ceph.conf"},
			errno: syscall.ENOENT,
		},
		{
			name:  "unknown option",
			cfg:   &Client{CephConfig: conf, Options: map[string]string{"no_such_option": "1"}},
			errno: syscall.ENOENT,
		},
		{
			name:  "dangling argument",
			cfg:   &Client{CephConfig: conf, Argv: []string{"--debug_client"}},
			errno: syscall.EINVAL,
		},
		{
			name:  "missing root",
			cfg:   &Client{CephConfig: conf, Root: "/missing"},
			errno: syscall.ENOENT,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sim := simulator.New()
			m, err := Connect(sim, tc.cfg)
			require.Error(t, err)
			require.ErrorIs(t, err, tc.errno)
			assert.Nil(t, m)

			calls := sim.Calls()
			require.NotEmpty(t, calls)
			assert.Equal(t, "ceph_release", calls[len(calls)-1])
		})
	}
}

func TestConnectLogsTeardownFailures(t *testing.T) {
	conf, cleanup := cephConf(t)
	defer cleanup()

	var buf bytes.Buffer
	debug.SetOutput(&buf)
	debug.Enable()
	defer func() {
		debug.Disable()
		debug.SetOutput(os.Stderr)
	}()

	m, err := Connect(&stuckLibrary{simulator.New()}, &Client{
		CephConfig:    conf,
		LocalizeReads: true,
	})
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "localize reads failed")

	assert.Contains(t, buf.String(), "unmount after failed connect")
	assert.Contains(t, buf.String(), "release after failed connect")
}

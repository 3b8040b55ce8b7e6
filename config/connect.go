// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"sort"

	"github.com/pkg/errors"

	cephfs "github.com/intel-hpdd/go-cephfs"
	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
	"github.com/intel-hpdd/go-cephfs/native"
)

// Connect creates a mount handle from lib, configures it from cfg and
// mounts cfg.Root. On failure the handle is released and nil returned.
func Connect(lib native.Library, cfg *Client) (m *cephfs.MountInfo, err error) {
	m, err = cephfs.CreateMountWith(lib, cfg.ID)
	if err != nil {
		return nil, errors.Wrap(err, "create mount failed")
	}
	defer func() {
		if err == nil {
			return
		}
		if mounted, _ := m.IsMounted(); mounted {
			if uerr := m.Unmount(); uerr != nil {
				debug.Printf("unmount after failed connect: %v", uerr)
			}
		}
		if rerr := m.Release(); rerr != nil {
			debug.Printf("release after failed connect: %v", rerr)
		}
		m = nil
	}()

	if err = configure(m, cfg); err != nil {
		return
	}

	if err = m.MountWithRoot(cfg.Root); err != nil {
		err = errors.Wrapf(err, "mount %q failed", cfg.Root)
		return
	}

	if cfg.LocalizeReads {
		if err = m.LocalizeReads(true); err != nil {
			err = errors.Wrap(err, "localize reads failed")
			return
		}
	}

	return m, nil
}

func configure(m *cephfs.MountInfo, cfg *Client) error {
	if cfg.CephConfig != "" {
		if err := m.ReadConfigFile(cfg.CephConfig); err != nil {
			return errors.Wrapf(err, "read %s failed", cfg.CephConfig)
		}
	} else if err := m.ReadDefaultConfigFile(); err != nil {
		if !cephfs.IsNotExist(err) {
			return errors.Wrap(err, "read default ceph config failed")
		}
		debug.Print("no default ceph config found")
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetConfigOption(k, cfg.Options[k]); err != nil {
			return errors.Wrapf(err, "set option %s failed", k)
		}
	}

	if err := m.ParseConfigEnv(cfg.EnvVar); err != nil {
		return errors.Wrap(err, "parse config environment failed")
	}

	if len(cfg.Argv) > 0 {
		argv := append([]string{os.Args[0]}, cfg.Argv...)
		if err := m.ParseConfigArgv(argv); err != nil {
			return errors.Wrap(err, "parse config arguments failed")
		}
	}

	return nil
}

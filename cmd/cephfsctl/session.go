// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	cephfs "github.com/intel-hpdd/go-cephfs"
	"github.com/intel-hpdd/go-cephfs/config"
	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
	"github.com/intel-hpdd/go-cephfs/native"
	"github.com/intel-hpdd/go-cephfs/native/simulator"
)

// simulated lives for the whole process so that successive commands run
// by one process see the same filesystem.
var simulated *simulator.Simulator

type mountAction func(*cli.Context, *cephfs.MountInfo) error

func library(c *cli.Context) native.Library {
	if c.GlobalBool("simulate") {
		if simulated == nil {
			simulated = simulator.New()
		}
		return simulated
	}
	return native.Libcephfs()
}

func clientConfig(c *cli.Context) (*config.Client, error) {
	var cfg *config.Client
	var err error

	if cfgFile := c.GlobalString("config"); cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, errors.Wrap(err, "load client config failed")
	}

	return cfg.Merge(&config.Client{
		ID:   c.GlobalString("id"),
		Root: c.GlobalString("root"),
	}), nil
}

// withMount runs fn with a mounted session that is torn down afterwards.
func withMount(fn mountAction) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		logContext(c)

		cfg, err := clientConfig(c)
		if err != nil {
			return err
		}
		if debug.Enabled() {
			debug.Printf("client config: %s", cfg)
		}

		m, err := config.Connect(library(c), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if uerr := m.Unmount(); uerr != nil && err == nil {
				err = uerr
			}
			if rerr := m.Release(); rerr != nil && err == nil {
				err = rerr
			}
		}()

		return fn(c, m)
	}
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		return errors.Errorf("%s requires at least %d argument(s): %s", c.Command.Name, n, c.Command.ArgsUsage)
	}
	return nil
}

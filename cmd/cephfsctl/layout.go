// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	cephfs "github.com/intel-hpdd/go-cephfs"
)

func init() {
	layoutCommands := []cli.Command{
		{
			Name:      "layout",
			Usage:     "Display the striping of paths",
			ArgsUsage: "path [path...]",
			Action:    withMount(layoutAction),
		},
		{
			Name:      "pool",
			Usage:     "Display a data pool, by name or id (default: the default data pool)",
			ArgsUsage: "[name|id]",
			Action:    withMount(poolAction),
		},
		{
			Name:      "crush",
			Usage:     "Display the CRUSH location of an OSD",
			ArgsUsage: "osd",
			Action:    withMount(crushAction),
		},
	}
	commands = append(commands, layoutCommands...)
}

type pathLayout struct {
	Path        string `json:"path" yaml:"path"`
	StripeUnit  int    `json:"stripe_unit" yaml:"stripe_unit"`
	StripeCount int    `json:"stripe_count" yaml:"stripe_count"`
	ObjectSize  int    `json:"object_size" yaml:"object_size"`
	PoolID      int    `json:"pool_id" yaml:"pool_id"`
	Pool        string `json:"pool" yaml:"pool"`
	Replication int    `json:"replication" yaml:"replication"`
}

func layoutAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	var layouts []pathLayout
	for _, p := range c.Args() {
		l, err := m.PathLayout(p)
		if err != nil {
			return errors.Wrap(err, p)
		}
		pool, err := m.PathPoolName(p)
		if err != nil {
			return errors.Wrap(err, p)
		}
		repl, err := m.PathReplication(p)
		if err != nil {
			return errors.Wrap(err, p)
		}
		layouts = append(layouts, pathLayout{
			Path:        p,
			StripeUnit:  l.StripeUnit,
			StripeCount: l.StripeCount,
			ObjectSize:  l.ObjectSize,
			PoolID:      l.PoolID,
			Pool:        pool,
			Replication: repl,
		})
	}

	return render(c, layouts, func(w io.Writer) error {
		for _, l := range layouts {
			fmt.Fprintf(w, "%s: stripe_unit=%s stripe_count=%d object_size=%s pool=%s(%d) replicas=%d\n",
				l.Path, humanize.IBytes(uint64(l.StripeUnit)), l.StripeCount,
				humanize.IBytes(uint64(l.ObjectSize)), l.Pool, l.PoolID, l.Replication)
		}
		return nil
	})
}

type poolInfo struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Replication int    `json:"replication" yaml:"replication"`
}

func poolAction(c *cli.Context, m *cephfs.MountInfo) error {
	var info poolInfo
	var err error

	switch arg := c.Args().First(); {
	case arg == "":
		if info.Name, err = m.DefaultDataPoolName(); err != nil {
			return err
		}
		if info.ID, err = m.PoolID(info.Name); err != nil {
			return err
		}
	default:
		if id, perr := strconv.Atoi(arg); perr == nil {
			info.ID = id
			info.Name, err = m.PoolName(id)
		} else {
			info.Name = arg
			info.ID, err = m.PoolID(arg)
		}
		if err != nil {
			return errors.Wrapf(err, "pool %s", arg)
		}
	}

	if info.Replication, err = m.PoolReplication(info.ID); err != nil {
		return err
	}

	return render(c, info, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d %s replicas=%d\n", info.ID, info.Name, info.Replication)
		return err
	})
}

func crushAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	osd, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return errors.Wrapf(err, "invalid osd %q", c.Args().First())
	}

	loc, err := m.OSDCrushLocation(osd)
	if err != nil {
		return errors.Wrapf(err, "osd.%d", osd)
	}

	return render(c, loc, func(w io.Writer) error {
		for _, l := range loc {
			fmt.Fprintf(w, "%s=%s\n", l.Type, l.Name)
		}
		return nil
	})
}

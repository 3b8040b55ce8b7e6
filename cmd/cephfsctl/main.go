// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/intel-hpdd/go-cephfs/internal/logging/alert"
	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
)

var commands []cli.Command
var version string // Set by build environment

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "cephfsctl"
	app.Usage = "CephFS client actions"
	app.Commands = commands
	app.Version = version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Display debug logging to console",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "Client config file (default: $CEPHFS_CONFIG_DIR/client)",
		},
		cli.StringFlag{
			Name:  "id, i",
			Usage: "Client id to authenticate as",
		},
		cli.StringFlag{
			Name:  "root, r",
			Usage: "Filesystem subtree to mount",
		},
		cli.BoolFlag{
			Name:  "simulate",
			Usage: "Run against an in-memory filesystem instead of libcephfs",
		},
		cli.StringFlag{
			Name:  "format, f",
			Usage: "Output format (text, json, yaml)",
			Value: "text",
		},
		cli.BoolFlag{
			Name:  "stats",
			Usage: "Report libcephfs call statistics on exit",
		},
	}
	app.Before = configureLogging
	app.After = reportStats
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		alert.Fatal(err)
	}
}

func configureLogging(c *cli.Context) error {
	out := c.App.ErrWriter
	if out == nil {
		out = os.Stderr
	}
	debug.SetOutput(out)
	alert.SetOutput(out)

	if c.Bool("debug") {
		debug.Enable()
	} else {
		debug.Disable()
	}

	return nil
}

func logContext(c *cli.Context) {
	for {
		if c.Parent() == nil {
			break
		}
		c = c.Parent()
	}

	debug.Printf("Context: %s", strings.Join(c.Args(), " "))
}

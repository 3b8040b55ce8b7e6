// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	cephfs "github.com/intel-hpdd/go-cephfs"
)

func init() {
	fsCommands := []cli.Command{
		{
			Name:   "version",
			Usage:  "Display the libcephfs version",
			Action: versionAction,
		},
		{
			Name:      "statfs",
			Usage:     "Display filesystem usage",
			ArgsUsage: "[path]",
			Action:    withMount(statfsAction),
		},
		{
			Name:      "mds",
			Usage:     "Send a JSON command to the MDS daemons matching spec",
			ArgsUsage: "spec command [command...]",
			Action:    withMount(mdsAction),
		},
		{
			Name:  "conf",
			Usage: "Inspect or change client configuration of a session",
			Subcommands: []cli.Command{
				{
					Name:      "get",
					Usage:     "Display configuration options",
					ArgsUsage: "option [option...]",
					Action:    withMount(confGetAction),
				},
				{
					Name:      "set",
					Usage:     "Set a configuration option and display the result",
					ArgsUsage: "option value",
					Action:    withMount(confSetAction),
				},
			},
		},
	}
	commands = append(commands, fsCommands...)
}

func versionAction(c *cli.Context) error {
	logContext(c)

	v := cephfs.LibraryVersion(library(c))
	return render(c, v, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "libcephfs %s\n", v)
		return err
	})
}

type usage struct {
	Path           string `json:"path" yaml:"path"`
	Size           uint64 `json:"size" yaml:"size"`
	Used           uint64 `json:"used" yaml:"used"`
	Available      uint64 `json:"available" yaml:"available"`
	Files          uint64 `json:"files" yaml:"files"`
	FilesAvailable uint64 `json:"files_available" yaml:"files_available"`
	FSID           uint64 `json:"fsid" yaml:"fsid"`
}

func statfsAction(c *cli.Context, m *cephfs.MountInfo) error {
	p := "/"
	if c.NArg() > 0 {
		p = c.Args().First()
	}

	st, err := m.StatFS(p)
	if err != nil {
		return err
	}

	u := usage{
		Path:           p,
		Size:           st.Total(),
		Used:           st.Used(),
		Available:      st.BlocksAvailable * st.FragmentSize,
		Files:          st.Files,
		FilesAvailable: st.FilesAvailable,
		FSID:           st.FSID,
	}
	return render(c, u, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s: size %s used %s avail %s files %s fsid %#x\n",
			u.Path, humanize.IBytes(u.Size), humanize.IBytes(u.Used),
			humanize.IBytes(u.Available), humanize.Comma(int64(u.Files)), u.FSID)
		return err
	})
}

func mdsAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}

	out, status, err := m.MdsCommand(c.Args().First(), c.Args().Tail(), nil)
	if err != nil {
		if status != "" {
			return errors.Wrap(err, status)
		}
		return err
	}
	if status != "" {
		fmt.Fprintln(c.App.Writer, status)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

type option struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func renderOptions(c *cli.Context, options []option) error {
	return render(c, options, func(w io.Writer) error {
		for _, o := range options {
			fmt.Fprintf(w, "%s = %s\n", o.Name, o.Value)
		}
		return nil
	})
}

func confGetAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	var options []option
	for _, name := range c.Args() {
		value, err := m.GetConfigOption(name)
		if err != nil {
			return err
		}
		options = append(options, option{Name: name, Value: value})
	}
	return renderOptions(c, options)
}

func confSetAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}

	name := c.Args().Get(0)
	if err := m.SetConfigOption(name, c.Args().Get(1)); err != nil {
		return err
	}
	value, err := m.GetConfigOption(name)
	if err != nil {
		return err
	}
	return renderOptions(c, []option{{Name: name, Value: value}})
}

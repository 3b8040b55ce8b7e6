// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	cephfs "github.com/intel-hpdd/go-cephfs"
)

func init() {
	noFollow := cli.BoolFlag{
		Name:  "no-dereference",
		Usage: "Operate on a symlink rather than its target",
	}

	xattrCommands := []cli.Command{
		{
			Name:  "xattr",
			Usage: "Manage extended attributes",
			Subcommands: []cli.Command{
				{
					Name:      "get",
					Usage:     "Display the value of an attribute",
					ArgsUsage: "name path",
					Action:    withMount(xattrGetAction),
					Flags:     []cli.Flag{noFollow},
				},
				{
					Name:      "set",
					Usage:     "Set the value of an attribute",
					ArgsUsage: "name value path",
					Action:    withMount(xattrSetAction),
					Flags: []cli.Flag{
						noFollow,
						cli.BoolFlag{
							Name:  "create",
							Usage: "Fail if the attribute exists",
						},
						cli.BoolFlag{
							Name:  "replace",
							Usage: "Fail if the attribute does not exist",
						},
					},
				},
				{
					Name:      "ls",
					Usage:     "List attribute names",
					ArgsUsage: "path",
					Action:    withMount(xattrListAction),
					Flags:     []cli.Flag{noFollow},
				},
				{
					Name:      "rm",
					Usage:     "Remove an attribute",
					ArgsUsage: "name path",
					Action:    withMount(xattrRemoveAction),
					Flags:     []cli.Flag{noFollow},
				},
			},
		},
	}
	commands = append(commands, xattrCommands...)
}

type xattr struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func quoteValue(value []byte) string {
	if utf8.Valid(value) {
		return string(value)
	}
	return strconv.Quote(string(value))
}

func xattrGetAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	name, p := c.Args().Get(0), c.Args().Get(1)

	get := m.GetXattr
	if c.Bool("no-dereference") {
		get = m.LGetXattr
	}
	value, err := get(p, name)
	if err != nil {
		return errors.Wrap(err, p)
	}

	x := xattr{Name: name, Value: quoteValue(value)}
	return render(c, x, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s=%s\n", x.Name, x.Value)
		return err
	})
}

func xattrSetAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 3); err != nil {
		return err
	}
	name, value, p := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	flags := cephfs.XattrDefault
	switch {
	case c.Bool("create") && c.Bool("replace"):
		return errors.New("--create and --replace are mutually exclusive")
	case c.Bool("create"):
		flags = cephfs.XattrCreate
	case c.Bool("replace"):
		flags = cephfs.XattrReplace
	}

	set := m.SetXattr
	if c.Bool("no-dereference") {
		set = m.LSetXattr
	}
	return errors.Wrap(set(p, name, []byte(value), flags), p)
}

func xattrListAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	p := c.Args().First()

	list, get := m.ListXattr, m.GetXattr
	if c.Bool("no-dereference") {
		list, get = m.LListXattr, m.LGetXattr
	}
	names, err := list(p)
	if err != nil {
		return errors.Wrap(err, p)
	}

	xattrs := make([]xattr, 0, len(names))
	for _, name := range names {
		value, err := get(p, name)
		if err != nil {
			return errors.Wrapf(err, "%s: %s", p, name)
		}
		xattrs = append(xattrs, xattr{Name: name, Value: quoteValue(value)})
	}

	return render(c, xattrs, func(w io.Writer) error {
		for _, x := range xattrs {
			fmt.Fprintf(w, "%s=%s\n", x.Name, x.Value)
		}
		return nil
	})
}

func xattrRemoveAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	name, p := c.Args().Get(0), c.Args().Get(1)

	remove := m.RemoveXattr
	if c.Bool("no-dereference") {
		remove = m.LRemoveXattr
	}
	return errors.Wrap(remove(p, name), p)
}

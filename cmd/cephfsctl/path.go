// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os/user"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"gopkg.in/urfave/cli.v1"

	cephfs "github.com/intel-hpdd/go-cephfs"
)

func init() {
	pathCommands := []cli.Command{
		{
			Name:      "ls",
			Usage:     "List directory contents",
			ArgsUsage: "[path]",
			Action:    withMount(lsAction),
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "long, l",
					Usage: "Show mode, owner, size and modification time",
				},
			},
		},
		{
			Name:      "stat",
			Usage:     "Display attributes of paths",
			ArgsUsage: "path [path...]",
			Action:    withMount(statAction),
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "dereference, L",
					Usage: "Follow a trailing symlink",
				},
			},
		},
		{
			Name:      "mkdir",
			Usage:     "Create directories",
			ArgsUsage: "path [path...]",
			Action:    withMount(mkdirAction),
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "parents, p",
					Usage: "Create missing parents",
				},
				cli.StringFlag{
					Name:  "mode, m",
					Value: "0755",
					Usage: "Octal permission bits",
				},
			},
		},
		{
			Name:      "rmdir",
			Usage:     "Remove empty directories",
			ArgsUsage: "path [path...]",
			Action:    withMount(rmdirAction),
		},
		{
			Name:      "rm",
			Usage:     "Remove names",
			ArgsUsage: "path [path...]",
			Action:    withMount(rmAction),
		},
		{
			Name:      "mv",
			Usage:     "Rename a path",
			ArgsUsage: "source target",
			Action:    withMount(mvAction),
		},
		{
			Name:      "ln",
			Usage:     "Create a link",
			ArgsUsage: "target name",
			Action:    withMount(lnAction),
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "symbolic, s",
					Usage: "Create a symbolic link",
				},
			},
		},
		{
			Name:      "readlink",
			Usage:     "Display the target of a symbolic link",
			ArgsUsage: "path",
			Action:    withMount(readlinkAction),
		},
		{
			Name:      "chmod",
			Usage:     "Change permission bits",
			ArgsUsage: "mode path [path...]",
			Action:    withMount(chmodAction),
		},
		{
			Name:      "chown",
			Usage:     "Change owner and group",
			ArgsUsage: "owner[:group] path [path...]",
			Action:    withMount(chownAction),
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "no-dereference",
					Usage: "Change a symlink rather than its target",
				},
			},
		},
	}
	commands = append(commands, pathCommands...)
}

type fileInfo struct {
	Name    string    `json:"name" yaml:"name"`
	Inode   uint64    `json:"inode" yaml:"inode"`
	Type    string    `json:"type" yaml:"type"`
	Mode    string    `json:"mode,omitempty" yaml:"mode,omitempty"`
	Nlink   uint32    `json:"nlink,omitempty" yaml:"nlink,omitempty"`
	UID     uint32    `json:"uid,omitempty" yaml:"uid,omitempty"`
	GID     uint32    `json:"gid,omitempty" yaml:"gid,omitempty"`
	Size    uint64    `json:"size,omitempty" yaml:"size,omitempty"`
	Mtime   time.Time `json:"mtime,omitempty" yaml:"mtime,omitempty"`
	Btime   time.Time `json:"btime,omitempty" yaml:"btime,omitempty"`
	Version uint64    `json:"version,omitempty" yaml:"version,omitempty"`
}

func newFileInfo(name string, st *cephfs.Statx) fileInfo {
	return fileInfo{
		Name:    name,
		Inode:   st.Inode,
		Type:    fileType(st),
		Mode:    st.FileMode().String(),
		Nlink:   st.Nlink,
		UID:     st.UID,
		GID:     st.GID,
		Size:    st.Size,
		Mtime:   st.Mtime,
		Btime:   st.Btime,
		Version: st.Version,
	}
}

func fileType(st *cephfs.Statx) string {
	return cephfs.DType((st.Mode & unix.S_IFMT) >> 12).String()
}

func lsAction(c *cli.Context, m *cephfs.MountInfo) error {
	dir := "."
	if c.NArg() > 0 {
		dir = c.Args().First()
	}

	entries, err := m.ListDir(dir)
	if err != nil {
		return err
	}

	infos := make([]fileInfo, 0, len(entries))
	for _, e := range entries {
		info := fileInfo{Name: e.Name, Inode: e.Inode, Type: e.Type.String()}
		if c.Bool("long") {
			st, err := m.Lstat(path.Join(dir, e.Name))
			if err != nil {
				return err
			}
			info = newFileInfo(e.Name, st)
		}
		infos = append(infos, info)
	}

	return render(c, infos, func(w io.Writer) error {
		for _, info := range infos {
			if !c.Bool("long") {
				fmt.Fprintln(w, info.Name)
				continue
			}
			fmt.Fprintf(w, "%s %3d %5d %5d %8s %-14s %s\n",
				info.Mode, info.Nlink, info.UID, info.GID,
				humanize.IBytes(info.Size), humanize.Time(info.Mtime), info.Name)
		}
		return nil
	})
}

func statAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}

	flags := cephfs.AtSymlinkNofollow
	if c.Bool("dereference") {
		flags = 0
	}

	var infos []fileInfo
	for _, p := range c.Args() {
		st, err := m.Statx(p, cephfs.StatxBasicStats|cephfs.StatxBtime|cephfs.StatxVersion, flags)
		if err != nil {
			return errors.Wrap(err, p)
		}
		infos = append(infos, newFileInfo(p, st))
	}

	return render(c, infos, func(w io.Writer) error {
		for _, info := range infos {
			fmt.Fprintf(w, "  File: %s\n", info.Name)
			fmt.Fprintf(w, "  Size: %d (%s)\tType: %s\n", info.Size, humanize.IBytes(info.Size), info.Type)
			fmt.Fprintf(w, " Inode: %d\tLinks: %d\tVersion: %d\n", info.Inode, info.Nlink, info.Version)
			fmt.Fprintf(w, "Access: %s\tUid: %d\tGid: %d\n", info.Mode, info.UID, info.GID)
			fmt.Fprintf(w, "Modify: %s\n", info.Mtime.Format(time.RFC3339Nano))
			fmt.Fprintf(w, " Birth: %s\n", info.Btime.Format(time.RFC3339Nano))
		}
		return nil
	})
}

func parseMode(s string) (uint32, error) {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid mode %q", s)
	}
	return uint32(mode), nil
}

func mkdirAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	mode, err := parseMode(c.String("mode"))
	if err != nil {
		return err
	}

	for _, p := range c.Args() {
		if c.Bool("parents") {
			err = m.MakeDirs(p, mode)
		} else {
			err = m.MakeDir(p, mode)
		}
		if err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

func rmdirAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	for _, p := range c.Args() {
		if err := m.RemoveDir(p); err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

func rmAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	for _, p := range c.Args() {
		if err := m.Unlink(p); err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

func mvAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	return m.Rename(c.Args().Get(0), c.Args().Get(1))
}

func lnAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	if c.Bool("symbolic") {
		return m.Symlink(c.Args().Get(0), c.Args().Get(1))
	}
	return m.Link(c.Args().Get(0), c.Args().Get(1))
}

func readlinkAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 1); err != nil {
		return err
	}
	target, err := m.Readlink(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, target)
	return err
}

func chmodAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}
	mode, err := parseMode(c.Args().First())
	if err != nil {
		return err
	}
	for _, p := range c.Args().Tail() {
		if err := m.Chmod(p, mode); err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

func lookupUser(s string) (int, error) {
	if s == "" {
		return -1, nil
	}

	if val, err := strconv.Atoi(s); err == nil {
		return val, nil
	}

	u, err := user.Lookup(s)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(u.Uid)
}

func lookupGroup(s string) (int, error) {
	if s == "" {
		return -1, nil
	}

	if val, err := strconv.Atoi(s); err == nil {
		return val, nil
	}

	g, err := user.LookupGroup(s)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(g.Gid)
}

func chownAction(c *cli.Context, m *cephfs.MountInfo) error {
	if err := requireArgs(c, 2); err != nil {
		return err
	}

	owner := strings.SplitN(c.Args().First(), ":", 2)
	uid, err := lookupUser(owner[0])
	if err != nil {
		return err
	}
	gid := -1
	if len(owner) == 2 {
		if gid, err = lookupGroup(owner[1]); err != nil {
			return err
		}
	}

	for _, p := range c.Args().Tail() {
		if c.Bool("no-dereference") {
			err = m.Lchown(p, uid, gid)
		} else {
			err = m.Chown(p, uid, gid)
		}
		if err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

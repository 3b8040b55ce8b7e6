// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	cephfs "github.com/intel-hpdd/go-cephfs"
	"github.com/intel-hpdd/go-cephfs/internal/logging/debug"
	"github.com/intel-hpdd/go-cephfs/pkg/checksum"
	"github.com/intel-hpdd/go-cephfs/pkg/progress"
)

var progressFlag = cli.DurationFlag{
	Name:  "progress",
	Usage: "Report transfer progress at this interval (0 disables)",
}

func init() {
	dataCommands := []cli.Command{
		{
			Name:      "put",
			Usage:     "Upload a local file",
			ArgsUsage: "local remote",
			Action:    withMount(putAction),
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "stripe_unit",
					Usage: "Stripe unit in bytes (default: inherited)",
				},
				cli.IntFlag{
					Name:  "stripe_count",
					Usage: "Number of objects to stripe over (default: inherited)",
				},
				cli.IntFlag{
					Name:  "object_size",
					Usage: "Object size in bytes (default: inherited)",
				},
				cli.StringFlag{
					Name:  "pool",
					Usage: "Data pool (default: inherited)",
				},
				cli.StringFlag{
					Name:  "mode",
					Value: "0644",
					Usage: "Octal permission bits",
				},
				cli.BoolFlag{
					Name:  "checksum",
					Usage: "Record the SHA1 of the data in " + checksum.XattrName,
				},
				progressFlag,
			},
		},
		{
			Name:      "get",
			Usage:     "Download a file",
			ArgsUsage: "remote local",
			Action:    withMount(getAction),
			Flags: []cli.Flag{
				cli.Int64Flag{
					Name:  "offset",
					Usage: "First byte to download",
				},
				cli.Int64Flag{
					Name:  "length",
					Usage: "Number of bytes to download (default: to end of file)",
				},
				cli.BoolFlag{
					Name:  "checksum",
					Usage: "Verify the data against " + checksum.XattrName,
				},
				progressFlag,
			},
		},
	}
	commands = append(commands, dataCommands...)
}

// reporter returns the progress callback for --progress. Updates go to
// the app's error writer.
func reporter(c *cli.Context, name string) (time.Duration, progress.Func) {
	every := c.Duration("progress")
	if every <= 0 {
		return 0, nil
	}
	out := c.App.ErrWriter
	if out == nil {
		out = os.Stderr
	}
	return every, func(last, delta uint64) error {
		rate := float64(delta) / every.Seconds()
		_, err := fmt.Fprintf(out, "%s: %s (%s/s)\n", name,
			humanize.IBytes(last+delta), humanize.IBytes(uint64(rate)))
		return err
	}
}

func blockProgress(name string) func(int64) error {
	return func(copied int64) error {
		debug.Printf("%s: %d bytes", name, copied)
		return nil
	}
}

// putAction writes to a hidden temporary name next to the target and
// renames it into place once the data is synced.
func putAction(c *cli.Context, m *cephfs.MountInfo) (err error) {
	if err = requireArgs(c, 2); err != nil {
		return err
	}
	local, remote := c.Args().Get(0), c.Args().Get(1)

	mode, err := parseMode(c.String("mode"))
	if err != nil {
		return err
	}

	src, err := os.Open(local)
	if err != nil {
		return errors.Wrap(err, "open local file failed")
	}
	defer src.Close()

	tmp := path.Join(path.Dir(remote), fmt.Sprintf(".%s.part", uuid.New()))
	debug.Printf("uploading %s to %s via %s", local, remote, tmp)

	dst, err := m.OpenLayout(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode, cephfs.OpenLayoutParams{
		StripeUnit:  c.Int("stripe_unit"),
		StripeCount: c.Int("stripe_count"),
		ObjectSize:  c.Int("object_size"),
		Pool:        c.String("pool"),
	})
	if err != nil {
		return errors.Wrapf(err, "create %s failed", tmp)
	}
	defer func() {
		if err != nil {
			dst.Close()
			if uerr := m.Unlink(tmp); uerr != nil {
				debug.Printf("remove %s: %v", tmp, uerr)
			}
		}
	}()

	blockSize, err := dst.ObjectSize()
	if err != nil {
		return err
	}

	every, update := reporter(c, remote)
	pw := progress.NewWriter(dst, every, update)
	var cw checksum.Writer
	if c.Bool("checksum") {
		cw = checksum.NewSha1HashWriter(pw)
	} else {
		cw = checksum.NewNoopHashWriter(pw)
	}

	n, err := progress.CopyWithProgress(cw, src, 0, -1, int64(blockSize), blockProgress(tmp))
	pw.StopUpdates()
	if err != nil {
		return errors.Wrap(err, "copy failed")
	}
	if err = dst.Sync(); err != nil {
		return err
	}
	if c.Bool("checksum") {
		sum := checksum.Hex(cw.Sum())
		if err = dst.SetXattr(checksum.XattrName, []byte(sum), 0); err != nil {
			return err
		}
		debug.Printf("%s: sha1 %s", remote, sum)
	}
	if err = dst.Close(); err != nil {
		return err
	}
	if err = m.Rename(tmp, remote); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s -> %s (%s)\n", local, remote, humanize.IBytes(uint64(n)))
	return nil
}

func getAction(c *cli.Context, m *cephfs.MountInfo) (err error) {
	if err = requireArgs(c, 2); err != nil {
		return err
	}
	remote, local := c.Args().Get(0), c.Args().Get(1)

	offset, length := c.Int64("offset"), c.Int64("length")
	if offset < 0 || length < 0 {
		return errors.New("offset and length must not be negative")
	}
	partial := offset > 0 || length > 0
	if c.Bool("checksum") && partial {
		return errors.New("--checksum requires a whole-file download")
	}

	src, err := m.Open(remote, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer src.Close()

	st, err := src.Stat()
	if err != nil {
		return err
	}
	size := int64(st.Size)
	if offset > size {
		offset = size
	}
	if length == 0 || offset+length > size {
		length = size - offset
	}

	var want []byte
	if c.Bool("checksum") {
		want, err = src.GetXattr(checksum.XattrName)
		if err != nil {
			if !errors.Is(err, syscall.ENODATA) {
				return err
			}
			debug.Printf("%s has no recorded checksum", remote)
		}
	}

	blockSize, err := src.ObjectSize()
	if err != nil {
		return err
	}

	dst, err := os.Create(local)
	if err != nil {
		return errors.Wrap(err, "create local file failed")
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	every, update := reporter(c, remote)
	pr := progress.NewReader(io.NewSectionReader(src, offset, length), every, update)
	cw := checksum.NewSha1HashWriter(dst)

	n, err := progress.CopyWithProgress(cw, pr, 0, length, int64(blockSize), blockProgress(local))
	pr.StopUpdates()
	if err != nil {
		return errors.Wrap(err, "copy failed")
	}

	if want != nil {
		got := checksum.Hex(cw.Sum())
		if !bytes.Equal([]byte(got), want) {
			return errors.Errorf("checksum mismatch for %s: recorded %s, got %s", remote, want, got)
		}
		debug.Printf("%s: sha1 %s verified", remote, got)
	}

	fmt.Fprintf(c.App.Writer, "%s -> %s (%s)\n", remote, local, humanize.IBytes(uint64(n)))
	return nil
}

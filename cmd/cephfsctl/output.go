// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v2"

	cephfs "github.com/intel-hpdd/go-cephfs"
)

// render writes v in the selected output format. text produces the
// plain text form.
func render(c *cli.Context, v interface{}, text func(io.Writer) error) error {
	w := c.App.Writer

	switch format := c.GlobalString("format"); format {
	case "", "text":
		return text(w)
	case "json":
		data, err := json.MarshalIndent(v, "", "\t")
		if err != nil {
			return errors.Wrap(err, "marshal json failed")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "marshal yaml failed")
		}
		_, err = w.Write(data)
		return err
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

type callStats struct {
	Op     string        `json:"op" yaml:"op"`
	Calls  int64         `json:"calls" yaml:"calls"`
	Errors int64         `json:"errors" yaml:"errors"`
	Mean   time.Duration `json:"mean" yaml:"mean"`
	Max    time.Duration `json:"max" yaml:"max"`
}

func collectStats(r metrics.Registry) []callStats {
	errs := make(map[string]int64)
	var stats []callStats

	r.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case metrics.Timer:
			stats = append(stats, callStats{
				Op:    name,
				Calls: m.Count(),
				Mean:  time.Duration(m.Mean()),
				Max:   time.Duration(m.Max()),
			})
		case metrics.Counter:
			errs[name] = m.Count()
		}
	})

	for i := range stats {
		stats[i].Errors = errs[stats[i].Op+".errors"]
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Op < stats[j].Op })
	return stats
}

func reportStats(c *cli.Context) error {
	if !c.Bool("stats") {
		return nil
	}

	stats := collectStats(cephfs.MetricsRegistry())
	return render(c, stats, func(w io.Writer) error {
		for _, s := range stats {
			fmt.Fprintf(w, "%-40s %8s calls %6s errors  mean %-12s max %s\n",
				s.Op, humanize.Comma(s.Calls), humanize.Comma(s.Errors), s.Mean, s.Max)
		}
		return nil
	})
}

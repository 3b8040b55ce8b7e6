// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/hashicorp/hcl"
	"github.com/pkg/errors"

	"github.com/intel-hpdd/go-cephfs/internal/logging/alert"
)

const (
	// DefaultConfigDir is the default client config directory
	DefaultConfigDir = "/etc/cephfs"
	// ClientConfigFile is the client config file in config dir
	ClientConfigFile = "client"

	// ConfigDirEnvVar is the name of an environment variable which
	// can be set to change the location of config files
	// (e.g. for development)
	ConfigDirEnvVar = "CEPHFS_CONFIG_DIR"

	// ClientIDEnvVar overrides the client id of the loaded config
	ClientIDEnvVar = "CEPHFS_CLIENT_ID"

	// RootEnvVar overrides the subtree mounted by the client
	RootEnvVar = "CEPHFS_ROOT"
)

// Client describes how to create and mount a CephFS client session.
type Client struct {
	// ID is the cephx client id, "admin" for client.admin. Empty
	// selects the library default.
	ID string `hcl:"id" json:"id,omitempty"`

	// CephConfig is a comma separated list of ceph.conf candidates.
	// Empty reads the default search path.
	CephConfig string `hcl:"ceph_config" json:"ceph_config,omitempty"`

	// Root is the filesystem subtree to mount.
	Root string `hcl:"root" json:"root,omitempty"`

	// Options are applied with conf_set after the config file is read.
	Options map[string]string `hcl:"options" json:"options,omitempty"`

	// Argv is parsed as a command line after Options, argv[0] excluded.
	Argv []string `hcl:"argv" json:"argv,omitempty"`

	// EnvVar names an environment variable holding extra options, in
	// the manner of CEPH_ARGS. Empty selects CEPH_ARGS.
	EnvVar string `hcl:"env_var" json:"env_var,omitempty"`

	LocalizeReads bool `hcl:"localize_reads" json:"localize_reads,omitempty"`
}

// DefaultPath returns the location of the client config file, honoring
// ConfigDirEnvVar.
func DefaultPath() string {
	dir := os.Getenv(ConfigDirEnvVar)
	if dir == "" {
		dir = DefaultConfigDir
	}
	return path.Join(dir, ClientConfigFile)
}

// Load reads the client config file at cfgFile and applies the
// environment overrides.
func Load(cfgFile string) (*Client, error) {
	// Ensure config file is private
	fi, err := os.Stat(cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "stat config file failed")
	}
	if (int(fi.Mode()) & 077) != 0 {
		return nil, errors.Errorf("config file %s permissions are insecure", cfgFile)
	}

	data, err := ioutil.ReadFile(cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "read config file failed")
	}

	cfg := &Client{}
	if err := hcl.Decode(cfg, string(data)); err != nil {
		return nil, errors.Wrap(err, "decode config file failed")
	}
	cfg.applyEnv()

	return cfg, nil
}

// LoadDefault loads the config at DefaultPath. A missing file yields an
// empty config with the environment overrides applied.
func LoadDefault() (*Client, error) {
	cfg, err := Load(DefaultPath())
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			cfg = &Client{}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Client) applyEnv() {
	if id := os.Getenv(ClientIDEnvVar); id != "" {
		c.ID = id
	}
	if root := os.Getenv(RootEnvVar); root != "" {
		c.Root = root
	}
}

// Merge returns a copy of c with the non-zero fields of other replacing
// its own. Options are merged key by key.
func (c *Client) Merge(other *Client) *Client {
	result := *c
	result.Options = make(map[string]string, len(c.Options))
	for k, v := range c.Options {
		result.Options[k] = v
	}
	if other == nil {
		return &result
	}

	if other.ID != "" {
		result.ID = other.ID
	}
	if other.CephConfig != "" {
		result.CephConfig = other.CephConfig
	}
	if other.Root != "" {
		result.Root = other.Root
	}
	for k, v := range other.Options {
		result.Options[k] = v
	}
	if len(other.Argv) > 0 {
		result.Argv = other.Argv
	}
	if other.EnvVar != "" {
		result.EnvVar = other.EnvVar
	}
	if other.LocalizeReads {
		result.LocalizeReads = true
	}

	return &result
}

func (c *Client) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		alert.Abort(errors.Wrap(err, "marshal config failed"))
	}

	var out bytes.Buffer
	json.Indent(&out, data, "", "\t")
	return out.String()
}

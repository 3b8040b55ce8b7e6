// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path"
	"reflect"
	"strings"
	"testing"

	"github.com/intel-hpdd/go-cephfs/internal/testhelpers"
)

func loadFixture(t *testing.T, name string) (*Client, error) {
	cfgFile, cleanup := testhelpers.TempCopy(t, path.Join("./test-fixtures", name), 0600)
	defer cleanup()
	return Load(cfgFile)
}

func TestLoadConfig(t *testing.T) {
	loaded, err := loadFixture(t, "client.test")
	if err != nil {
		t.Fatalf("err: %s", err)
	}

	expected := &Client{
		ID:         "admin",
		CephConfig: "/etc/ceph/ceph.conf,/etc/ceph/alt.conf",
		Root:       "/volumes/group",
		Options: map[string]string{
			"client_permissions": "false",
			"debug_client":       "1/5",
		},
		Argv:          []string{"--client_quota", "false"},
		EnvVar:        "CEPHFS_TEST_ARGS",
		LocalizeReads: true,
	}

	if !reflect.DeepEqual(loaded, expected) {
		t.Fatalf("\nexpected: \n\n%#v\ngot: \n\n%#v\n\n", expected, loaded)
	}
}

func TestLoadMinimalConfig(t *testing.T) {
	loaded, err := loadFixture(t, "client-minimal")
	if err != nil {
		t.Fatalf("err: %s", err)
	}

	expected := &Client{ID: "guest"}
	if !reflect.DeepEqual(loaded, expected) {
		t.Fatalf("\nexpected: \n\n%#v\ngot: \n\n%#v\n\n", expected, loaded)
	}
}

func TestLoadBadConfig(t *testing.T) {
	if _, err := loadFixture(t, "client-bad"); err == nil {
		t.Fatal("expected decode of client-bad to fail")
	}
}

func TestInsecureConfig(t *testing.T) {
	cfgFile, cleanup := testhelpers.TempCopy(t, "./test-fixtures/client.test", 0644)
	defer cleanup()

	_, err := Load(cfgFile)
	if err == nil || !strings.Contains(err.Error(), "insecure") {
		t.Fatalf("expected insecure permissions error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	os.Setenv(ClientIDEnvVar, "override")
	os.Setenv(RootEnvVar, "/elsewhere")
	defer os.Unsetenv(ClientIDEnvVar)
	defer os.Unsetenv(RootEnvVar)

	loaded, err := loadFixture(t, "client.test")
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if loaded.ID != "override" || loaded.Root != "/elsewhere" {
		t.Fatalf("env overrides not applied: %s", loaded)
	}
}

func TestLoadDefault(t *testing.T) {
	dir, cleanup := testhelpers.TempDir(t)
	defer cleanup()
	os.Setenv(ConfigDirEnvVar, dir)
	defer os.Unsetenv(ConfigDirEnvVar)

	if got := DefaultPath(); got != path.Join(dir, ClientConfigFile) {
		t.Fatalf("unexpected default path %q", got)
	}

	loaded, err := LoadDefault()
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if !reflect.DeepEqual(loaded, &Client{}) {
		t.Fatalf("expected empty config, got %s", loaded)
	}

	testhelpers.CopyFile(t, "./test-fixtures/client-minimal", DefaultPath(), 0600)
	loaded, err = LoadDefault()
	if err != nil {
		t.Fatalf("err: %s", err)
	}
	if loaded.ID != "guest" {
		t.Fatalf("expected id guest, got %s", loaded)
	}
}

func TestMergedConfig(t *testing.T) {
	base := &Client{
		ID:      "admin",
		Root:    "/a",
		Options: map[string]string{"debug_client": "1/5", "client_quota": "true"},
	}
	merged := base.Merge(&Client{
		Root:          "/b",
		Options:       map[string]string{"client_quota": "false"},
		LocalizeReads: true,
	})

	expected := &Client{
		ID:            "admin",
		Root:          "/b",
		Options:       map[string]string{"debug_client": "1/5", "client_quota": "false"},
		LocalizeReads: true,
	}
	if !reflect.DeepEqual(merged, expected) {
		t.Fatalf("\nexpected: \n\n%#v\ngot: \n\n%#v\n\n", expected, merged)
	}
	if base.Options["client_quota"] != "true" || base.Root != "/a" {
		t.Fatalf("merge modified its receiver: %s", base)
	}
}

func TestDisplayConfig(t *testing.T) {
	s := (&Client{ID: "admin", Root: "/r"}).String()
	for _, want := range []string{`"id": "admin"`, `"root": "/r"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

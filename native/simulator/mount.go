// Copyright (c) 2018 DDN. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simulator

import (
	"bufio"
	"encoding/json"
	"os"
	"path"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/intel-hpdd/go-cephfs/native"
)

type mountState int

const (
	stateCreated mountState = iota
	stateInitialized
	stateMounted
	stateUnmounted
	stateReleased
)

type (
	openFile struct {
		ino   uint64
		flags int
		pos   int64
	}

	mount struct {
		sim           *Simulator
		id            string
		state         mountState
		root          uint64
		cwd           uint64
		conf          map[string]string
		fds           map[int]*openFile
		dirs          map[*dirCursor]struct{}
		nextFd        int
		localizeReads bool
	}
)

var _ native.Mount = (*mount)(nil)

// enter records the call and takes the simulator lock. The returned func
// releases it.
func (m *mount) enter(op string) func() {
	m.sim.mu.Lock()
	m.sim.record(op)
	return m.sim.mu.Unlock
}

func (m *mount) mounted() int {
	if m.state != stateMounted {
		return -int(unix.ENOTCONN)
	}
	return 0
}

func (m *mount) Init() int {
	defer m.enter("ceph_init")()
	switch m.state {
	case stateReleased:
		return -int(unix.ENOTCONN)
	case stateCreated:
		m.state = stateInitialized
	}
	return 0
}

func (m *mount) Mount(root string) int {
	defer m.enter("ceph_mount")()
	switch m.state {
	case stateMounted:
		return -int(unix.EISCONN)
	case stateReleased:
		return -int(unix.ENOTCONN)
	}
	if m.conf["mon_host"] == "" {
		return -int(unix.ENOENT)
	}

	if root == "" {
		root = "/"
	}
	if !strings.HasPrefix(root, "/") {
		return -int(unix.EINVAL)
	}
	m.root = rootIno
	in, rc := m.walk(m.sim.inodes[rootIno], root, true, 0)
	if rc < 0 {
		return rc
	}
	if !in.isDir() {
		return -int(unix.ENOTDIR)
	}
	m.root = in.ino
	m.cwd = in.ino
	m.state = stateMounted
	return 0
}

func (m *mount) Unmount() int {
	defer m.enter("ceph_unmount")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	m.fds = make(map[int]*openFile)
	m.dirs = make(map[*dirCursor]struct{})
	m.state = stateUnmounted
	return 0
}

func (m *mount) Release() int {
	defer m.enter("ceph_release")()
	switch m.state {
	case stateMounted:
		return -int(unix.EISCONN)
	case stateReleased:
		return -int(unix.ENOTCONN)
	}
	m.state = stateReleased
	for i, other := range m.sim.mounts {
		if other == m {
			m.sim.mounts = append(m.sim.mounts[:i], m.sim.mounts[i+1:]...)
			break
		}
	}
	return 0
}

func (m *mount) IsMounted() bool {
	defer m.enter("ceph_is_mounted")()
	return m.state == stateMounted
}

func (m *mount) Context() unsafe.Pointer {
	defer m.enter("ceph_get_mount_context")()
	if m.state == stateReleased {
		return nil
	}
	return unsafe.Pointer(m)
}

type mdsCommand struct {
	Prefix string `json:"prefix"`
}

type mdsSession struct {
	ID     int    `json:"id"`
	Entity string `json:"entity"`
	Root   string `json:"root"`
}

// MdsCommand answers "session ls" and "get subtrees"; other prefixes are
// rejected the way an MDS rejects an unknown command.
func (m *mount) MdsCommand(spec string, cmd []string, input []byte) ([]byte, string, int) {
	defer m.enter("ceph_mds_command")()
	if rc := m.mounted(); rc < 0 {
		return nil, "", rc
	}
	if spec != "*" && spec != "0" && spec != "a" {
		return nil, "mds_spec '" + spec + "' does not match any MDS", -int(unix.ENOENT)
	}
	if len(cmd) == 0 {
		return nil, "no command", -int(unix.EINVAL)
	}

	var c mdsCommand
	if err := json.Unmarshal([]byte(cmd[0]), &c); err != nil {
		return nil, "unparseable JSON " + cmd[0], -int(unix.EINVAL)
	}

	switch c.Prefix {
	case "session ls":
		var sessions []mdsSession
		for i, other := range m.sim.mounts {
			if other.state != stateMounted {
				continue
			}
			sessions = append(sessions, mdsSession{
				ID:     4100 + i,
				Entity: "client." + other.id,
				Root:   other.pathOf(other.root),
			})
		}
		out, err := json.Marshal(sessions)
		if err != nil {
			return nil, err.Error(), -int(unix.EIO)
		}
		return out, "", 0
	case "get subtrees":
		return []byte("[]"), "", 0
	}
	return nil, "unrecognized command! " + c.Prefix, -int(unix.EINVAL)
}

func normalizeOption(option string) string {
	return strings.Replace(strings.Replace(strings.TrimSpace(option), "-", "_", -1), " ", "_", -1)
}

func (m *mount) ConfReadFile(paths string) int {
	defer m.enter("ceph_conf_read_file")()
	if m.state == stateReleased {
		return -int(unix.ENOTCONN)
	}
	if paths == "" {
		paths = "/etc/ceph/ceph.conf"
	}

	for _, p := range strings.Split(paths, ",") {
		f, err := os.Open(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		rc := m.parseConf(f)
		f.Close()
		return rc
	}
	return -int(unix.ENOENT)
}

// parseConf reads the [global] and [client] sections of an ini-style
// ceph.conf.
func (m *mount) parseConf(f *os.File) int {
	section := "global"
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return -int(unix.EINVAL)
			}
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		if section != "global" && section != "client" && section != "client."+m.id {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			return -int(unix.EINVAL)
		}
		m.conf[normalizeOption(kv[0])] = strings.TrimSpace(kv[1])
	}
	if scanner.Err() != nil {
		return -int(unix.EIO)
	}
	return 0
}

func (m *mount) ConfParseArgv(argv []string) int {
	defer m.enter("ceph_conf_parse_argv")()
	if m.state == stateReleased {
		return -int(unix.ENOTCONN)
	}
	return m.parseArgs(argv)
}

// parseArgs applies --option=value and --option value pairs. Arguments
// that are not options are skipped, as libcephfs leaves them for the
// caller.
func (m *mount) parseArgs(argv []string) int {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		arg = strings.TrimPrefix(arg, "--")
		if kv := strings.SplitN(arg, "=", 2); len(kv) == 2 {
			m.conf[normalizeOption(kv[0])] = kv[1]
			continue
		}
		if i+1 >= len(argv) {
			return -int(unix.EINVAL)
		}
		m.conf[normalizeOption(arg)] = argv[i+1]
		i++
	}
	return 0
}

func (m *mount) ConfParseEnv(name string) int {
	defer m.enter("ceph_conf_parse_env")()
	if m.state == stateReleased {
		return -int(unix.ENOTCONN)
	}
	if name == "" {
		name = "CEPH_ARGS"
	}
	return m.parseArgs(strings.Fields(os.Getenv(name)))
}

func (m *mount) ConfSet(option, value string) int {
	defer m.enter("ceph_conf_set")()
	if m.state == stateReleased {
		return -int(unix.ENOTCONN)
	}
	key := normalizeOption(option)
	if _, ok := m.conf[key]; !ok {
		return -int(unix.ENOENT)
	}
	m.conf[key] = value
	return 0
}

func (m *mount) ConfGet(option string, buf []byte) int {
	defer m.enter("ceph_conf_get")()
	if m.state == stateReleased {
		return -int(unix.ENOTCONN)
	}
	value, ok := m.conf[normalizeOption(option)]
	if !ok {
		return -int(unix.ENOENT)
	}
	if len(value)+1 > len(buf) {
		return -int(unix.ENAMETOOLONG)
	}
	n := copy(buf, value)
	buf[n] = 0
	return 0
}

func (m *mount) StatFS(p string, st *native.StatVFS) int {
	defer m.enter("ceph_statfs")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	if _, rc := m.resolve(p, true); rc < 0 {
		return rc
	}

	used := (m.sim.usedBytes() + defaultObjectSize - 1) / defaultObjectSize
	files := uint64(len(m.sim.inodes))
	*st = native.StatVFS{
		Bsize:   defaultObjectSize,
		Frsize:  defaultObjectSize,
		Blocks:  capacityBlocks,
		Bfree:   capacityBlocks - used,
		Bavail:  capacityBlocks - used,
		Files:   files,
		Ffree:   ^uint64(0) - files,
		Favail:  ^uint64(0) - files,
		Fsid:    m.sim.fsid,
		Namemax: maxNameLen,
	}
	return 0
}

func (m *mount) SyncFS() int {
	defer m.enter("ceph_sync_fs")()
	return m.mounted()
}

func (m *mount) Getcwd() (string, bool) {
	defer m.enter("ceph_getcwd")()
	if m.mounted() < 0 {
		return "", false
	}
	return m.pathOf(m.cwd), true
}

func (m *mount) Chdir(p string) int {
	defer m.enter("ceph_chdir")()
	if rc := m.mounted(); rc < 0 {
		return rc
	}
	in, rc := m.resolve(p, true)
	if rc < 0 {
		return rc
	}
	if !in.isDir() {
		return -int(unix.ENOTDIR)
	}
	m.cwd = in.ino
	return 0
}

// pathOf builds the mount-relative absolute path of a directory inode.
func (m *mount) pathOf(ino uint64) string {
	var parts []string
	for ino != m.root && ino != rootIno {
		in := m.sim.inodes[ino]
		parent := m.sim.inodes[in.parent]
		for name, child := range parent.children {
			if child == ino {
				parts = append([]string{name}, parts...)
				break
			}
		}
		ino = in.parent
	}
	return "/" + path.Join(parts...)
}

func splitPath(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// resolve looks up p relative to the current directory.
func (m *mount) resolve(p string, follow bool) (*inode, int) {
	return m.walk(m.sim.inodes[m.cwd], p, follow, 0)
}

// walk resolves p starting at dir. Absolute paths start at the mount
// root. A trailing symlink is followed only when follow is set.
func (m *mount) walk(dir *inode, p string, follow bool, depth int) (*inode, int) {
	if p == "" {
		return nil, -int(unix.ENOENT)
	}
	cur := dir
	if strings.HasPrefix(p, "/") {
		cur = m.sim.inodes[m.root]
	}

	parts := splitPath(p)
	for i, name := range parts {
		if !cur.isDir() {
			return nil, -int(unix.ENOTDIR)
		}
		if len(name) > maxNameLen {
			return nil, -int(unix.ENAMETOOLONG)
		}

		var next *inode
		switch name {
		case ".":
			next = cur
		case "..":
			if cur.ino == m.root {
				next = cur
			} else {
				next = m.sim.inodes[cur.parent]
			}
		default:
			ino, ok := cur.children[name]
			if !ok {
				return nil, -int(unix.ENOENT)
			}
			next = m.sim.inodes[ino]
		}

		last := i == len(parts)-1
		if next.isLink() && (follow || !last) {
			if depth >= maxSymlinks {
				return nil, -int(unix.ELOOP)
			}
			target, rc := m.walk(cur, next.target, true, depth+1)
			if rc < 0 {
				return nil, rc
			}
			next = target
		}
		cur = next
	}
	return cur, 0
}

// resolveParent returns the directory that holds the last component of p
// and that component's name.
func (m *mount) resolveParent(p string) (*inode, string, int) {
	parts := splitPath(p)
	if len(parts) == 0 {
		return nil, "", -int(unix.EEXIST)
	}
	name := parts[len(parts)-1]
	if name == "." || name == ".." {
		return nil, "", -int(unix.EINVAL)
	}
	if len(name) > maxNameLen {
		return nil, "", -int(unix.ENAMETOOLONG)
	}

	dirPath := strings.Join(parts[:len(parts)-1], "/")
	if strings.HasPrefix(p, "/") {
		dirPath = "/" + dirPath
	} else if dirPath == "" {
		dirPath = "."
	}
	dir, rc := m.resolve(dirPath, true)
	if rc < 0 {
		return nil, "", rc
	}
	if !dir.isDir() {
		return nil, "", -int(unix.ENOTDIR)
	}
	return dir, name, 0
}

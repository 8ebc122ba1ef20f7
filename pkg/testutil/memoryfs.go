// Package testutil provides test infrastructure for canonpath, most
// importantly an in-memory filesystem.FS with symlink support, error
// injection, and open/close accounting for leak detection.
package testutil

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/canonpath/canonpath/pkg/filesystem"
)

// MemoryFS implements filesystem.FS with in-memory storage. Fixtures are
// built with MkdirAll, WriteFile, and Symlink against lexical absolute
// paths; lookups then go through directory handles the way the OS
// implementation does. Every handle open and close is counted so tests
// can assert that no error path leaks a handle.
type MemoryFS struct {
	mu   sync.Mutex
	root *fileNode
	cwd  string

	// Error injection, keyed by the absolute path of the node
	openErrors     map[string]error
	readlinkErrors map[string]error
	getwdError     error

	opens  int
	closes int
}

// fileNode represents a file, directory, or symlink in memory
type fileNode struct {
	name     string
	parent   *fileNode
	isDir    bool
	isLink   bool
	linkDest string
	children map[string]*fileNode
}

// NewMemoryFS creates an empty in-memory filesystem rooted at "/"
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		name:     "/",
		isDir:    true,
		children: make(map[string]*fileNode),
	}
	return &MemoryFS{
		root:           root,
		cwd:            "/",
		openErrors:     make(map[string]error),
		readlinkErrors: make(map[string]error),
	}
}

// path returns the absolute path of a node
func (n *fileNode) path() string {
	if n.parent == nil {
		return "/"
	}
	parts := []string{}
	for cur := n; cur.parent != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// walk descends from the root along the lexical components of an
// absolute path, without following symlinks. Used for fixture building.
func (m *MemoryFS) walk(path string, mkdirs bool) (*fileNode, error) {
	cur := m.root
	for _, name := range strings.Split(path, "/") {
		if name == "" || name == "." {
			continue
		}
		if !cur.isDir {
			return nil, &os.PathError{Op: "walk", Path: path, Err: unix.ENOTDIR}
		}
		child, ok := cur.children[name]
		if !ok {
			if !mkdirs {
				return nil, &os.PathError{Op: "walk", Path: path, Err: unix.ENOENT}
			}
			child = &fileNode{
				name:     name,
				parent:   cur,
				isDir:    true,
				children: make(map[string]*fileNode),
			}
			cur.children[name] = child
		}
		cur = child
	}
	return cur, nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.walk(path, true)
	return err
}

// WriteFile creates an empty regular file, creating parent directories
func (m *MemoryFS) WriteFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.create(path, &fileNode{})
}

// Symlink creates a symbolic link at link pointing to target, creating
// parent directories. The target need not exist.
func (m *MemoryFS) Symlink(target, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.create(link, &fileNode{isLink: true, linkDest: target})
}

func (m *MemoryFS) create(path string, node *fileNode) error {
	dir, base := splitLast(path)
	parent, err := m.walk(dir, true)
	if err != nil {
		return err
	}
	if _, exists := parent.children[base]; exists {
		return &os.PathError{Op: "create", Path: path, Err: unix.EEXIST}
	}
	node.name = base
	node.parent = parent
	parent.children[base] = node
	return nil
}

func splitLast(path string) (dir, base string) {
	trimmed := strings.TrimRight(path, "/")
	i := strings.LastIndex(trimmed, "/")
	return trimmed[:i+1], trimmed[i+1:]
}

// Chdir sets the working directory string returned by Getwd
func (m *MemoryFS) Chdir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cwd = dir
}

// Getwd returns the current working directory
func (m *MemoryFS) Getwd() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getwdError != nil {
		return "", m.getwdError
	}
	return m.cwd, nil
}

// WithGetwdError injects an error for Getwd
func (m *MemoryFS) WithGetwdError(err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getwdError = err
	return m
}

// OpenRoot opens a handle to the root directory
func (m *MemoryFS) OpenRoot() (filesystem.Dir, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.openErrors["/"]; err != nil {
		return nil, &os.PathError{Op: "open", Path: "/", Err: err}
	}
	m.opens++
	return &memDir{fs: m, node: m.root}, nil
}

// WithOpenError injects an error for handle opens of the node at path
func (m *MemoryFS) WithOpenError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErrors[path] = err
	return m
}

// WithReadlinkError injects an error for readlink of the node at path
func (m *MemoryFS) WithReadlinkError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readlinkErrors[path] = err
	return m
}

// HandleBalance returns the number of handles opened and closed so far.
// Equal counts mean no handle is still live.
func (m *MemoryFS) HandleBalance() (opens, closes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens, m.closes
}

// memDir is a handle to an open in-memory directory
type memDir struct {
	fs     *MemoryFS
	node   *fileNode
	closed bool
}

func (d *memDir) Open(name string) (filesystem.Dir, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	if d.closed {
		return nil, &os.PathError{Op: "openat", Path: name, Err: unix.EBADF}
	}

	var target *fileNode
	switch name {
	case ".":
		target = d.node
	case "..":
		// Root is its own parent
		target = d.node.parent
		if target == nil {
			target = d.node
		}
	default:
		if !d.node.isDir {
			return nil, &os.PathError{Op: "openat", Path: name, Err: unix.ENOTDIR}
		}
		child, ok := d.node.children[name]
		if !ok {
			return nil, &os.PathError{Op: "openat", Path: name, Err: unix.ENOENT}
		}
		// The resolver always readlinks a name before opening it, so
		// handle lookups never land on a symlink; hand the node back
		// as-is rather than modeling openat's follow behavior.
		target = child
	}

	if err := d.fs.openErrors[target.path()]; err != nil {
		return nil, &os.PathError{Op: "openat", Path: name, Err: err}
	}

	d.fs.opens++
	return &memDir{fs: d.fs, node: target}, nil
}

func (d *memDir) Readlink(name string, buf []byte) (int, error) {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	if d.closed {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: unix.EBADF}
	}
	if name == "." || name == ".." {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: unix.EINVAL}
	}
	if !d.node.isDir {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: unix.ENOTDIR}
	}

	child, ok := d.node.children[name]
	if !ok {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: unix.ENOENT}
	}
	if err := d.fs.readlinkErrors[child.path()]; err != nil {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: err}
	}
	if !child.isLink {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: unix.EINVAL}
	}

	// Truncates silently at len(buf), as readlinkat(2) does
	return copy(buf, child.linkDest), nil
}

func (d *memDir) Close() error {
	d.fs.mu.Lock()
	defer d.fs.mu.Unlock()

	if d.closed {
		return &os.PathError{Op: "close", Path: d.node.path(), Err: unix.EBADF}
	}
	d.closed = true
	d.fs.closes++
	return nil
}

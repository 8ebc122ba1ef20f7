// Package filesystem defines the directory-handle primitives that path
// canonicalization runs on, plus their OS implementation.
//
// The canonicalization engine never touches the filesystem directly. It
// works through two small interfaces: FS hands out a handle to the
// filesystem root (and the current working directory), and Dir performs
// lookups relative to an open directory, mirroring the openat(2) and
// readlinkat(2) system calls. Keeping the engine on this seam lets tests
// run against an in-memory filesystem with full symlink support.
package filesystem

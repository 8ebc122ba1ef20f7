package filesystem

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Dir is an open directory used as the base for relative lookups.
// A Dir is not safe for concurrent use; callers hold exactly one live
// handle at a time and close it when replacing it.
type Dir interface {
	// Open opens name relative to the directory and returns a handle to
	// it. Name must be a single path component; ".", ".." and plain names
	// are all valid. The receiver stays open.
	Open(name string) (Dir, error)

	// Readlink reads the target of the symbolic link name, relative to
	// the directory, into buf and returns the number of bytes written.
	// If name exists but is not a symlink the error unwraps to EINVAL;
	// if it does not exist, to ENOENT. Targets longer than buf are
	// truncated to len(buf), as readlinkat(2) does.
	Readlink(name string, buf []byte) (int, error)

	// Close releases the handle. Closing twice is an error.
	Close() error
}

// FS supplies the entry points canonicalization needs from a filesystem.
type FS interface {
	// OpenRoot opens a handle to the filesystem root.
	OpenRoot() (Dir, error)

	// Getwd returns the absolute path of the current working directory.
	Getwd() (string, error)
}

// IsNotSymlink reports whether err from Dir.Readlink means the name
// exists but is not a symbolic link.
func IsNotSymlink(err error) bool {
	return errors.Is(err, unix.EINVAL)
}

// IsNotExist reports whether err means the name does not exist. This is
// strictly ENOENT: ENOTDIR (a non-directory in the middle of the path)
// is not "does not exist" for resolution purposes, since the lookup base
// itself was bad.
func IsNotExist(err error) bool {
	return errors.Is(err, unix.ENOENT)
}

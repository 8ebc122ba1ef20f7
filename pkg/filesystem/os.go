package filesystem

import (
	"os"

	"golang.org/x/sys/unix"
)

// osFS implements FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() FS {
	return &osFS{}
}

func (o *osFS) OpenRoot() (Dir, error) {
	fd, err := unix.Open("/", unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: "/", Err: err}
	}
	return &osDir{fd: fd}, nil
}

func (o *osFS) Getwd() (string, error) {
	return os.Getwd()
}

// osDir wraps a directory file descriptor
type osDir struct {
	fd int
}

func (d *osDir) Open(name string) (Dir, error) {
	fd, err := unix.Openat(d.fd, name, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "openat", Path: name, Err: err}
	}
	return &osDir{fd: fd}, nil
}

func (d *osDir) Readlink(name string, buf []byte) (int, error) {
	n, err := unix.Readlinkat(d.fd, name, buf)
	if err != nil {
		return 0, &os.PathError{Op: "readlinkat", Path: name, Err: err}
	}
	return n, nil
}

func (d *osDir) Close() error {
	if err := unix.Close(d.fd); err != nil {
		return &os.PathError{Op: "close", Path: "", Err: err}
	}
	return nil
}

// Package canon resolves path strings into canonical absolute form: all
// "." and ".." components removed and every symbolic link followed.
//
// Resolution is iterative, not recursive. A pending worklist holds the
// components still to be processed and a resolved list holds the
// components already committed to the answer; discovering a symlink
// splices its target onto the front of the pending list, so transitively
// nested links cost iterations rather than stack frames. A fixed
// iteration budget bounds the total work and turns symlink cycles into a
// clean ELOOP failure.
package canon

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/canonpath/canonpath/pkg/errors"
	"github.com/canonpath/canonpath/pkg/filesystem"
	"github.com/canonpath/canonpath/pkg/logging"
)

const (
	// maxComponentVisits bounds the total number of pending components
	// consumed in one call. It caps symlink expansion as a whole, not
	// just nesting depth, so cyclic and adversarial inputs terminate.
	maxComponentVisits = 9999

	// maxTargetLen is the size of the per-hop symlink target buffer. A
	// target that fills the buffer entirely is rejected as too long.
	maxTargetLen = 4096
)

// Abs canonicalizes path against the OS filesystem. See Canonicalize.
func Abs(path string, exact bool) (string, error) {
	return Canonicalize(filesystem.NewOS(), path, exact)
}

// Canonicalize resolves path into its canonical absolute form: absolute,
// free of "." and ".." components, with every symlink followed. When
// exact is true the final component must exist; when false a missing
// final component is tolerated and kept literally, though a missing
// intermediate component is always an error.
//
// On failure the returned error carries a stable code and wraps the
// underlying *os.PathError, so the OS error stays inspectable through
// errors.Is and errors.As.
func Canonicalize(fsys filesystem.FS, path string, exact bool) (string, error) {
	logger := logging.GetLogger("canon")

	pending, err := seed(fsys, path)
	if err != nil {
		return "", err
	}

	cur, err := fsys.OpenRoot()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot open filesystem root")
	}
	defer func() {
		if cur != nil {
			_ = cur.Close()
		}
	}()

	var resolved []string
	budget := maxComponentVisits
	buf := make([]byte, maxTargetLen)

	for len(pending) > 0 {
		if budget == 0 {
			return "", errors.Wrap(
				&os.PathError{Op: "canonicalize", Path: path, Err: unix.ELOOP},
				errors.ErrSymlinkLoop, "too many levels of symbolic links")
		}
		budget--

		name := pending[0]
		pending = pending[1:]

		if name == "." {
			continue
		}
		if name == ".." {
			// Root is its own parent; with nothing resolved the
			// component is a no-op apart from reopening "..".
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
			parent, oerr := cur.Open("..")
			if oerr != nil {
				return "", wrapLookup(oerr, "cannot open parent directory")
			}
			_ = cur.Close()
			cur = parent
			continue
		}

		n, rerr := cur.Readlink(name, buf)
		if rerr == nil {
			if n >= maxTargetLen {
				return "", errors.Wrap(
					&os.PathError{Op: "readlink", Path: name, Err: unix.ENAMETOOLONG},
					errors.ErrTargetTooLong, "symlink target too long")
			}
			target := string(buf[:n])
			logger.Trace().Str("name", name).Str("target", target).Msg("Expanding symlink")

			// An absolute target supersedes everything resolved so
			// far: drop the prefix and restart the cursor at root.
			if strings.HasPrefix(target, "/") {
				resolved = resolved[:0]
				root, oerr := fsys.OpenRoot()
				if oerr != nil {
					return "", errors.Wrap(oerr, errors.ErrFileAccess, "cannot reopen filesystem root")
				}
				_ = cur.Close()
				cur = root
			}

			// Front-splice so the target resolves before whatever
			// followed the link. A target of exactly "/" splits to
			// zero components and leaves pending as the remainder.
			pending = splitComponents(target, pending)
			continue
		}

		// Not a symlink, or the lookup failed.
		terminal := len(pending) == 0
		notLink := filesystem.IsNotSymlink(rerr)

		if (exact || !terminal) && !notLink {
			return "", wrapLookup(rerr, "cannot resolve path component")
		}

		resolved = append(resolved, name)

		if notLink && terminal {
			// Exists and is not a symlink; nothing left to descend into.
			break
		}

		next, oerr := cur.Open(name)
		if oerr != nil {
			if exact || !terminal || !filesystem.IsNotExist(oerr) {
				return "", wrapLookup(oerr, "cannot open path component")
			}
			// Terminal component absent and not required to exist:
			// keep the literal name and stop.
			break
		}
		_ = cur.Close()
		cur = next
	}

	result := assemble(resolved)
	logger.Debug().Str("path", path).Str("canonical", result).Bool("exact", exact).Msg("Canonicalized path")
	return result, nil
}

// seed builds the initial pending list. Relative inputs are interpreted
// against the current working directory, whose components precede the
// input's own.
func seed(fsys filesystem.FS, path string) ([]string, error) {
	if strings.HasPrefix(path, "/") {
		return splitComponents(path, nil), nil
	}

	cwd, err := fsys.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCwd, "cannot determine working directory")
	}
	return splitComponents(cwd, splitComponents(path, nil)), nil
}

// assemble joins the resolved components into the final string. An empty
// list degenerates to the root itself.
func assemble(resolved []string) string {
	if len(resolved) == 0 {
		return "/"
	}

	size := 0
	for _, c := range resolved {
		size += len(c) + 1
	}

	var b strings.Builder
	b.Grow(size)
	for _, c := range resolved {
		b.WriteByte('/')
		b.WriteString(c)
	}
	return b.String()
}

// wrapLookup classifies a lookup failure into a coded error, keeping the
// original error in the chain.
func wrapLookup(err error, message string) *errors.CanonError {
	code := errors.ErrFileAccess
	if filesystem.IsNotExist(err) {
		code = errors.ErrFileNotFound
	}
	return errors.Wrap(err, code, message)
}

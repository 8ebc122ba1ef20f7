package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/canonpath/canonpath/pkg/filesystem"
	"github.com/canonpath/canonpath/pkg/testutil"
)

func TestMemoryFSLookups(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/a/b"))
	require.NoError(t, fsys.WriteFile("/a/f"))
	require.NoError(t, fsys.Symlink("target", "/a/l"))

	root, err := fsys.OpenRoot()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, root.Close())
	}()

	a, err := root.Open("a")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, a.Close())
	}()

	buf := make([]byte, 64)

	t.Run("readlink_symlink", func(t *testing.T) {
		n, err := a.Readlink("l", buf)
		require.NoError(t, err)
		assert.Equal(t, "target", string(buf[:n]))
	})

	t.Run("readlink_dir_is_einval", func(t *testing.T) {
		_, err := a.Readlink("b", buf)
		assert.True(t, filesystem.IsNotSymlink(err))
	})

	t.Run("readlink_missing_is_enoent", func(t *testing.T) {
		_, err := a.Readlink("nope", buf)
		assert.True(t, filesystem.IsNotExist(err))
	})

	t.Run("readlink_truncates", func(t *testing.T) {
		small := make([]byte, 3)
		n, err := a.Readlink("l", small)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, "tar", string(small))
	})

	t.Run("open_dot_and_dotdot", func(t *testing.T) {
		self, err := a.Open(".")
		require.NoError(t, err)
		up, err := a.Open("..")
		require.NoError(t, err)
		require.NoError(t, self.Close())
		require.NoError(t, up.Close())
	})

	t.Run("root_parent_is_root", func(t *testing.T) {
		up, err := root.Open("..")
		require.NoError(t, err)
		require.NoError(t, up.Close())
	})

	t.Run("open_through_file_is_enotdir", func(t *testing.T) {
		f, err := a.Open("f")
		require.NoError(t, err)
		_, err = f.Open("below")
		assert.ErrorIs(t, err, unix.ENOTDIR)
		require.NoError(t, f.Close())
	})
}

func TestMemoryFSErrorInjection(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/a/b"))
	fsys.WithOpenError("/a/b", unix.EACCES)
	fsys.WithReadlinkError("/a/b", unix.EIO)

	root, err := fsys.OpenRoot()
	require.NoError(t, err)
	a, err := root.Open("a")
	require.NoError(t, err)

	_, err = a.Open("b")
	assert.ErrorIs(t, err, unix.EACCES)

	_, err = a.Readlink("b", make([]byte, 8))
	assert.ErrorIs(t, err, unix.EIO)

	require.NoError(t, a.Close())
	require.NoError(t, root.Close())
}

func TestMemoryFSHandleAccounting(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/a"))

	root, err := fsys.OpenRoot()
	require.NoError(t, err)
	a, err := root.Open("a")
	require.NoError(t, err)

	opens, closes := fsys.HandleBalance()
	assert.Equal(t, 2, opens)
	assert.Equal(t, 0, closes)

	require.NoError(t, root.Close())
	require.NoError(t, a.Close())

	opens, closes = fsys.HandleBalance()
	assert.Equal(t, opens, closes)

	// Double close is an error and is not counted twice
	require.Error(t, a.Close())
	_, closes = fsys.HandleBalance()
	assert.Equal(t, 2, closes)
}

func TestMemoryFSUseAfterClose(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.MkdirAll("/a"))

	root, err := fsys.OpenRoot()
	require.NoError(t, err)
	require.NoError(t, root.Close())

	_, err = root.Open("a")
	assert.ErrorIs(t, err, unix.EBADF)

	_, err = root.Readlink("a", make([]byte, 8))
	assert.ErrorIs(t, err, unix.EBADF)
}

func TestMemoryFSGetwd(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	wd, err := fsys.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/", wd)

	fsys.Chdir("/x/y")
	wd, err = fsys.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "/x/y", wd)
}

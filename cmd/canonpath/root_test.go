package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonpath/canonpath/pkg/canon"
	"github.com/canonpath/canonpath/pkg/config"
	"github.com/canonpath/canonpath/pkg/errors"
)

func TestRootResolvesPaths(t *testing.T) {
	t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	tmp := t.TempDir()
	want, err := canon.Abs(tmp, true)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--no-color", tmp})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, want+"\n", buf.String())
}

func TestRootExactMissingPath(t *testing.T) {
	t.Setenv(config.EnvConfigFile, filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	missing := filepath.Join(t.TempDir(), "missing")
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--exact", missing})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

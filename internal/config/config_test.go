package config

import (
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	homedir.DisableCache = true
}

func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	inDir(t, t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	inDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terrascape.yaml"), []byte(
		"title: Test\nwidth: 640\nupdate_rate: 60\nmulti_threaded: true\n"), 0o600))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Test", c.Title)
	assert.Equal(t, 640, c.Width)
	assert.Equal(t, 720, c.Height)
	assert.Equal(t, 60.0, c.UpdateRate)
	assert.True(t, c.MultiThreaded)
	assert.True(t, c.VSync)
}

func TestLoadFromHomeDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	inDir(t, t.TempDir())
	require.NoError(t, os.Mkdir(filepath.Join(home, ".terrascape"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".terrascape", "terrascape.json"), []byte(
		`{"frame_rate": 144, "assets": "~/assets"}`), 0o600))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 144.0, c.FrameRate)
	assert.Equal(t, filepath.Join(home, "assets"), c.Assets)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	inDir(t, dir)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("height = 480\nvsync = false\n"), 0o600))
	t.Setenv("TERRASCAPE_HEIGHT", "600")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 600, c.Height)
	assert.False(t, c.VSync)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	inDir(t, t.TempDir())

	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsEmptyWindow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	inDir(t, t.TempDir())
	t.Setenv("TERRASCAPE_WIDTH", "0")

	_, err := Load("")
	assert.EqualError(t, err, "window size 0x720 must be positive")
}

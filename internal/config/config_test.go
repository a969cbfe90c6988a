package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ";", c.Delimiter)
	assert.Equal(t, "utf-8", c.Encoding)
	assert.True(t, c.HasHeader)
	assert.Equal(t, 1, c.StartRow)
	assert.Equal(t, "numerical", c.GroupingMode)
	assert.Equal(t, 3, c.Bins)
	assert.Equal(t, "#ff0000", c.EndColor)
	assert.Equal(t, 100, c.Opacity)
	assert.Equal(t, 4000, c.JenksMaxSamples)
	assert.Equal(t, "geojson", c.OutputFormat)

	assert.Equal(t, *Default(), *c)

	o := c.TableOptions()
	assert.Equal(t, ';', o.Delimiter)
	assert.True(t, o.HasHeader)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "tabmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bins: 5\ndelimiter: tab\nencoding: cp1251\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Bins)
	assert.Equal(t, '\t', c.TableOptions().Delimiter)
	assert.Equal(t, "cp1251", c.TableOptions().Encoding)

	t.Setenv("TABMAP_BINS", "7")
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Bins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABMAP_OPACITY", "150")
	_, err := Load("")
	assert.ErrorContains(t, err, "opacity")

	t.Setenv("TABMAP_OPACITY", "50")
	t.Setenv("TABMAP_END_COLOR", "nope")
	_, err = Load("")
	assert.ErrorContains(t, err, "end_color")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	c.Bins = 6
	c.GroupingMode = "categorical"
	require.NoError(t, Save(c, ""))

	_, err = os.Stat(filepath.Join(home, ".tabmap", "config.yaml"))
	require.NoError(t, err)
	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, again.Bins)
	assert.Equal(t, "categorical", again.GroupingMode)
}

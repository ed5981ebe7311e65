// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/hmdview/viewer"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, image.Pt(1280, 800), c.Window())
	assert.Equal(t, float32(0.25), c.Control)
	assert.Equal(t, viewer.StereoWithDistortion, c.Mode)
	assert.True(t, c.VSync)
	assert.False(t, c.Fullscreen)
	assert.Equal(t, image.Rect(0, 0, 320, 200), c.ControlRect(c.Window()))
	c.Control = 0
	assert.True(t, c.ControlRect(c.Window()).Empty())
}

func TestRead(t *testing.T) {
	c := New()
	err := c.Read(strings.NewReader(`
Width = 1920
Height = 10
Mode = "Stereo"
Tunables = "tune.toml"
Listen = "localhost:9090"
`))
	require.NoError(t, err)
	assert.Equal(t, 1920, c.Width)
	assert.Equal(t, 64, c.Height, "clamped to min")
	assert.Equal(t, viewer.Stereo, c.Mode)
	assert.Equal(t, "tune.toml", c.Tunables)
	assert.Equal(t, "localhost:9090", c.Listen)
	assert.True(t, c.VSync, "untouched defaults kept")

	assert.Error(t, New().Read(strings.NewReader(`Colour = "red"`)))
	assert.Error(t, New().Read(strings.NewReader(`Mode = "Mono"`)))
}

func TestOpenSave(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "hmdview.toml")
	_, err := Open(fn)
	assert.ErrorIs(t, err, os.ErrNotExist)

	c := New()
	c.Fullscreen = true
	c.Recording = "head.yaml"
	c.Mode = viewer.SingleEye
	require.NoError(t, c.Save(fn))

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(b), "SingleEye")

	o, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, c, o)
}

func TestExpandPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	c := New()
	require.NoError(t, c.Read(strings.NewReader(`
Recording = "~/head.yaml"
Tunables = "rel/tune.toml"
`)))
	assert.Equal(t, filepath.Join(home, "head.yaml"), c.Recording)
	assert.Equal(t, "rel/tune.toml", c.Tunables)

	require.NoError(t, c.Save(filepath.Join(home, "hmdview.toml")))
	o, err := Open("~/hmdview.toml")
	require.NoError(t, err)
	assert.Equal(t, c.Recording, o.Recording)
}

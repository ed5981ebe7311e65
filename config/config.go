// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the hmdview app, which
// is read from a TOML file and can be overridden by command line flags.
package config

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/tune"
	"cogentcore.org/hmdview/viewer"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Config is the configuration of the app.
type Config struct {

	// Width is the width of the window in pixels.
	Width int `default:"1280" min:"64" max:"16384"`

	// Height is the height of the window in pixels.
	Height int `default:"800" min:"64" max:"16384"`

	// Fullscreen opens the window fullscreen on the monitor of the HMD.
	Fullscreen bool

	// Control is the width of the control view inset relative to the
	// window; 0 hides it.
	Control float32 `default:"0.25" min:"0" max:"1" step:"0.05"`

	// Mode is the initial display mode.
	Mode viewer.DisplayModes

	// Recording is a YAML orientation recording to play back as the
	// HMD device; none means no device.
	Recording string

	// Tunables is a TOML file of tunable values that is watched
	// and applied whenever it changes.
	Tunables string

	// Listen is the address on which to serve the tunables over a
	// websocket; none means not to serve them.
	Listen string

	// Gamepad is the index of the joystick to use as a gamepad.
	Gamepad int `default:"0" min:"0" max:"15"`

	// VSync synchronizes buffer swaps with the display refresh.
	VSync bool `default:"true"`
}

// New returns a new [Config] with default values.
func New() *Config {
	c := &Config{Mode: viewer.StereoWithDistortion}
	errors.Log(tune.SetDefaults(c))
	return c
}

// Read reads TOML config values from the given reader over the current
// values. Unknown keys are an error, and numeric values are limited to
// their bounds.
func (c *Config) Read(r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	tune.Clamp(c)
	return c.ExpandPaths()
}

// ExpandPaths expands a leading ~ in the file names of the config
// to the home directory of the user.
func (c *Config) ExpandPaths() error {
	var err error
	if c.Recording, err = homedir.Expand(c.Recording); err != nil {
		return fmt.Errorf("config: recording: %w", err)
	}
	if c.Tunables, err = homedir.Expand(c.Tunables); err != nil {
		return fmt.Errorf("config: tunables: %w", err)
	}
	return nil
}

// Load reads the given TOML file over the current values.
// A leading ~ in the file name is expanded to the home directory.
func (c *Config) Load(filename string) error {
	filename, err := homedir.Expand(filename)
	if err != nil {
		return err
	}
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := c.Read(f); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// Open returns the default config overridden by the given TOML file.
func Open(filename string) (*Config, error) {
	c := New()
	return c, c.Load(filename)
}

// Save writes the config to the given TOML file.
func (c *Config) Save(filename string) error {
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(filename, b.Bytes(), 0666)
}

// Window returns the size of the window.
func (c *Config) Window() image.Point {
	return image.Pt(c.Width, c.Height)
}

// ControlRect returns the rectangle of the control view inset in a
// window of the given size, in the lower left corner, with the aspect
// ratio of the window.
func (c *Config) ControlRect(window image.Point) image.Rectangle {
	if c.Control <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, int(c.Control*float32(window.X)), int(c.Control*float32(window.Y)))
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"fmt"
	"strings"
)

// DisplayModes are the ways the HMD surface is rendered.
type DisplayModes int32

const (
	// SingleEye renders the control view with a monitor projection.
	SingleEye DisplayModes = iota

	// Stereo renders one view per eye side by side, without distortion.
	Stereo

	// StereoWithDistortion renders one view per eye and warps each
	// through the lens distortion.
	StereoWithDistortion

	DisplayModesN
)

var displayModesNames = [DisplayModesN]string{"SingleEye", "Stereo", "StereoWithDistortion"}

// String returns the name of the mode.
func (m DisplayModes) String() string {
	if m < 0 || m >= DisplayModesN {
		return fmt.Sprintf("DisplayModes(%d)", int32(m))
	}
	return displayModesNames[m]
}

// SetString sets the mode from its name, ignoring case.
func (m *DisplayModes) SetString(s string) error {
	for i, n := range displayModesNames {
		if strings.EqualFold(n, s) {
			*m = DisplayModes(i)
			return nil
		}
	}
	return fmt.Errorf("%q is not a valid value for type DisplayModes; valid values are %s", s, strings.Join(displayModesNames[:], ", "))
}

// MarshalText implements [encoding.TextMarshaler].
func (m DisplayModes) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *DisplayModes) UnmarshalText(text []byte) error {
	return m.SetString(string(text))
}

// Set implements the pflag.Value interface, so that the mode can be
// given as a command line flag.
func (m *DisplayModes) Set(s string) error { return m.SetString(s) }

// Type implements the pflag.Value interface.
func (m *DisplayModes) Type() string { return "mode" }

// Surfaces are the presentation surfaces.
type Surfaces int32

const (
	// HMD is the surface shown on the head-mounted display.
	HMD Surfaces = iota

	// Control is the monitoring surface, which always shows the
	// third person control view.
	Control

	SurfacesN
)

func (s Surfaces) String() string {
	switch s {
	case HMD:
		return "HMD"
	case Control:
		return "Control"
	}
	return fmt.Sprintf("Surfaces(%d)", int32(s))
}

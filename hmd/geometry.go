// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmd describes the physical head-mounted display: its static
// screen and lens geometry, and the sources of head orientation samples.
package hmd

import (
	"fmt"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/math32"
)

// Geometry holds the static physical parameters of a head-mounted display.
// It is populated once per session, from a [Device] or from [DefaultGeometry],
// and is read-only thereafter. Distances are in meters.
type Geometry struct {

	// HResolution is the horizontal resolution of the whole panel in pixels.
	HResolution int `yaml:"h_resolution" toml:"h_resolution"`

	// VResolution is the vertical resolution of the panel in pixels.
	VResolution int `yaml:"v_resolution" toml:"v_resolution"`

	// HScreenSize is the physical width of the whole panel.
	HScreenSize float32 `yaml:"h_screen_size" toml:"h_screen_size"`

	// VScreenSize is the physical height of the panel.
	VScreenSize float32 `yaml:"v_screen_size" toml:"v_screen_size"`

	// VScreenCenter is the vertical position of the eye center on the panel.
	VScreenCenter float32 `yaml:"v_screen_center" toml:"v_screen_center"`

	// EyeToScreenDistance is the distance from the eye to the panel.
	EyeToScreenDistance float32 `yaml:"eye_to_screen_distance" toml:"eye_to_screen_distance"`

	// InterpupillaryDistance is the distance between the pupils of the user.
	InterpupillaryDistance float32 `yaml:"interpupillary_distance" toml:"interpupillary_distance"`

	// LensSeparationDistance is the distance between the lens centers.
	LensSeparationDistance float32 `yaml:"lens_separation_distance" toml:"lens_separation_distance"`

	// DistortionK are the radial distortion coefficients of the lenses,
	// applied as K0 + K1 r² + K2 r⁴ + K3 r⁶.
	DistortionK [4]float32 `yaml:"distortion_k,flow" toml:"distortion_k"`
}

// DefaultGeometry returns the geometry of the 7 inch development kit panel,
// used when no device reports its own. DistortionK is the one the kit
// itself reports, (1, 0.22, 0.24, 0), rather than the (1, 0.5, 0.25, 0)
// hardcoded by older no-device fallbacks, so that the derived distortion
// scale matches the kit.
func DefaultGeometry() Geometry {
	return Geometry{
		HResolution:            1280,
		VResolution:            800,
		HScreenSize:            0.14976,
		VScreenSize:            0.0936,
		VScreenCenter:          0.0468,
		EyeToScreenDistance:    0.041,
		InterpupillaryDistance: 0.064,
		LensSeparationDistance: 0.0635,
		DistortionK:            [4]float32{1.0, 0.22, 0.24, 0.0},
	}
}

// ErrInvalidGeometry is returned by [Geometry.Validate] for unusable geometry.
var ErrInvalidGeometry = errors.New("hmd: invalid geometry")

// Validate returns an error wrapping [ErrInvalidGeometry] if any field that
// the projection math divides by is zero, negative, or not finite.
func (g *Geometry) Validate() error {
	if g.HResolution <= 0 || g.VResolution <= 0 {
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidGeometry, g.HResolution, g.VResolution)
	}
	pos := []struct {
		name string
		v    float32
	}{
		{"HScreenSize", g.HScreenSize},
		{"VScreenSize", g.VScreenSize},
		{"EyeToScreenDistance", g.EyeToScreenDistance},
	}
	for _, f := range pos {
		if !math32.IsFinite(f.v) || f.v <= 0 {
			return fmt.Errorf("%w: %s = %g", ErrInvalidGeometry, f.name, f.v)
		}
	}
	if !math32.IsFinite(g.VScreenCenter) || !math32.IsFinite(g.InterpupillaryDistance) ||
		!math32.IsFinite(g.LensSeparationDistance) || g.InterpupillaryDistance < 0 || g.LensSeparationDistance < 0 {
		return fmt.Errorf("%w: non-finite or negative lens distances", ErrInvalidGeometry)
	}
	for i, k := range g.DistortionK {
		if !math32.IsFinite(k) {
			return fmt.Errorf("%w: DistortionK[%d] = %g", ErrInvalidGeometry, i, k)
		}
	}
	// the warp divides by the radial factor at the fit point, and a
	// non-positive factor at the center folds the image through the lens
	r := g.FitRadius()
	if k0, kf := g.Radial(0), g.Radial(r*r); k0 <= 0 || kf <= 0 || !math32.IsFinite(kf) {
		return fmt.Errorf("%w: DistortionK %v has radial factor %g at the center and %g at the fit point", ErrInvalidGeometry, g.DistortionK, k0, kf)
	}
	return nil
}

// Radial returns the radial distortion factor K0 + K1 r² + K2 r⁴ + K3 r⁶
// for the squared radius rsq.
func (g *Geometry) Radial(rsq float32) float32 {
	k := g.DistortionK
	return k[0] + rsq*(k[1]+rsq*(k[2]+rsq*k[3]))
}

// FitRadius returns the distance from the lens center of the left eye to
// the point of the panel that the distorted image must reach, in the
// units of the eye half: the left edge for panels wider than 0.140 m,
// and the top edge otherwise.
func (g *Geometry) FitRadius() float32 {
	fitX, fitY := float32(0), float32(1)
	if g.HScreenSize > 0.140 {
		fitX, fitY = -1, 0
	}
	offset := 4 * (g.HScreenSize*0.25 - g.LensSeparationDistance*0.5) / g.HScreenSize
	dx := fitX - offset
	dy := fitY / g.Aspect()
	return math32.Sqrt(dx*dx + dy*dy)
}

// Aspect returns the aspect ratio of one eye's half of the panel.
func (g *Geometry) Aspect() float32 {
	return float32(g.HResolution) * 0.5 / float32(g.VResolution)
}

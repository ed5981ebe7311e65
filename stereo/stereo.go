// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stereo derives the per-eye projections, view offsets, and
// viewports of a split-screen head-mounted display from its physical
// geometry.
package stereo

import (
	"image"
	"log/slog"

	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
)

// Clip planes of the immersive and monitor projections.
const (
	Near        = 0.3
	Far         = 1000
	MonitorNear = 0.004
	MonitorFar  = 500
)

// Options are the user options for the stereo derivation.
type Options struct {

	// Flatten sets the eye separation to zero, so both eyes see the same view.
	Flatten bool

	// Near is the near clip plane distance of the eye projections.
	Near float32 `default:"0.3" min:"0.001" max:"10" step:"0.01"`

	// Far is the far clip plane distance of the eye projections.
	Far float32 `default:"1000" min:"1" max:"100000" step:"10"`
}

// DefaultOptions returns the default [Options].
func DefaultOptions() Options {
	return Options{Near: Near, Far: Far}
}

// Stereo is the result of [Derive]: the shared stereo parameters of both eyes.
type Stereo struct {

	// Geometry is the geometry actually used, which is [hmd.DefaultGeometry]
	// if the given one was invalid.
	Geometry hmd.Geometry

	// Aspect is the aspect ratio of one eye's half of the panel.
	Aspect float32

	// YFov is the vertical field of view in radians.
	YFov float32

	// ProjectionCenterOffset is the horizontal shift of the projection
	// center to the lens center, in viewport coordinates.
	ProjectionCenterOffset float32

	// HalfIPD is half of the interpupillary distance, or zero when flattened.
	HalfIPD float32

	// Center is the projection of a centered eye, from which both
	// eye projections are derived.
	Center math32.Matrix4
}

// Derive computes the stereo parameters for the given geometry.
// Invalid geometry is replaced by [hmd.DefaultGeometry], so the results
// are always finite.
func Derive(g hmd.Geometry, opts Options) Stereo {
	if err := g.Validate(); err != nil {
		slog.Warn("stereo: invalid geometry, using default geometry", "err", err)
		g = hmd.DefaultGeometry()
	}
	near, far := opts.Near, opts.Far
	if !(near > 0) || !(far > near) || !math32.IsFinite(far) {
		near, far = Near, Far
	}
	st := Stereo{Geometry: g}
	st.Aspect = g.Aspect()
	st.YFov = 2 * math32.Atan((g.VScreenSize/2)/g.EyeToScreenDistance)

	// The center of the left viewport is at a quarter of the screen width
	// and has to move to the lens center. The shift is computed in meters
	// and rescaled to viewport coordinates.
	shift := g.HScreenSize*0.25 - g.LensSeparationDistance*0.5
	st.ProjectionCenterOffset = 4 * shift / g.HScreenSize

	if !opts.Flatten {
		st.HalfIPD = g.InterpupillaryDistance * 0.5
	}
	st.Center = math32.PerspectiveRH(st.YFov, st.Aspect, near, far)
	return st
}

// Projection returns the projection of the given eye: the center
// projection translated toward the lens center.
func (st *Stereo) Projection(eye hmd.Eye) math32.Matrix4 {
	return math32.Translation(eye.Sign()*st.ProjectionCenterOffset, 0, 0).Mul(st.Center)
}

// EyeView returns the view of the given eye from the view of the eye center.
func (st *Stereo) EyeView(eye hmd.Eye, center math32.Matrix4) math32.Matrix4 {
	return math32.Translation(eye.Sign()*st.HalfIPD, 0, 0).Mul(center)
}

// MonitorProjection returns the projection used when rendering without
// stereo, for a window of the given size. A zero height window uses
// an aspect ratio of 1.
func MonitorProjection(viewAngleDeg float32, size image.Point, near, far float32) math32.Matrix4 {
	aspect := float32(1)
	if size.X > 0 && size.Y > 0 {
		aspect = float32(size.X) / float32(size.Y)
	}
	fov := math32.DegToRad(math32.Clamp(viewAngleDeg, 1, 179))
	return math32.PerspectiveRH(fov, aspect, near, far)
}

// DistortionScale returns the factor by which the radial distortion
// magnifies the fit point of the panel: the left edge of the left eye for
// wide panels, and the top edge otherwise. Rendering at this scale keeps
// the warped image covering the whole eye viewport.
func DistortionScale(g hmd.Geometry) float32 {
	if g.Validate() != nil {
		g = hmd.DefaultGeometry()
	}
	r := g.FitRadius()
	return g.Radial(r * r)
}


// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package distort implements the lens distortion pass: the scene is
// rendered into an offscreen buffer, which is then drawn to the display
// as one quad per eye, sampled through a radial warp that cancels the
// pincushion distortion of the lenses.
package distort

import (
	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/stereo"
)

// Params are the live-tunable parameters of the distortion pass. There is
// one instance per session; the per-eye values are derived from it at draw
// time by [EyeUniforms]. Coordinates are in texture space of the whole
// buffer, where the left eye covers [0, 0.5] x [0, 1].
type Params struct {

	// LensCenter is the lens center of the left eye before [Params.LensOffset].
	LensCenter math32.Vector2 `min:"0" max:"1" step:"0.001"`

	// ScreenCenter is the center of the left eye's half of the buffer.
	ScreenCenter math32.Vector2 `min:"0" max:"1" step:"0.001"`

	// Scale maps the warped radius back to texture coordinates.
	Scale math32.Vector2 `min:"0.01" max:"1" step:"0.001"`

	// ScaleIn maps texture coordinates to the unit radius of the lens.
	ScaleIn math32.Vector2 `min:"0.1" max:"10" step:"0.01"`

	// K are the radial distortion coefficients.
	K [4]float32 `min:"-2" max:"2" step:"0.01"`

	// BufferScale is the size of the offscreen buffer relative to the window.
	// It is at least 1 so that the warp never samples past the rendered image.
	BufferScale float32 `min:"1" max:"4" step:"0.01"`

	// LensOffset is the horizontal offset of the lens center from the
	// screen center, added for the left eye and subtracted for the right.
	LensOffset float32 `min:"-0.25" max:"0.25" step:"0.001"`
}

// NewParams returns the parameters derived from the given geometry.
// Invalid geometry is replaced by [hmd.DefaultGeometry].
//
// The lens center is offset from the eye center by the difference between
// a quarter screen and half the lens separation. ScaleIn maps the eye half
// to [-1, 1] horizontally, and Scale divides by the distortion scale so
// that the fit point of the panel lands on the edge of the eye.
func NewParams(g hmd.Geometry) *Params {
	if g.Validate() != nil {
		g = hmd.DefaultGeometry()
	}
	aspect := g.Aspect()
	s := stereo.DistortionScale(g)
	return &Params{
		LensCenter:   math32.Vec2(0.25, 0.5),
		ScreenCenter: math32.Vec2(0.25, 0.5),
		Scale:        math32.Vec2(0.25/s, 0.5*aspect/s),
		ScaleIn:      math32.Vec2(4, 2/aspect),
		K:            g.DistortionK,
		BufferScale:  math32.Max(1, s),
		LensOffset:   0.25 - g.LensSeparationDistance/(2*g.HScreenSize),
	}
}

// Defaults returns the parameters for [hmd.DefaultGeometry].
func Defaults() *Params {
	return NewParams(hmd.DefaultGeometry())
}

// Reset overwrites p with the parameters derived from the given geometry.
func (p *Params) Reset(g hmd.Geometry) {
	*p = *NewParams(g)
}

// Uniforms are the warp uniform values of one eye.
type Uniforms struct {
	LensCenter   math32.Vector2
	ScreenCenter math32.Vector2
	Scale        math32.Vector2
	ScaleIn      math32.Vector2
	K            [4]float32
}

// EyeUniforms returns the uniforms of the given eye. The right eye mirrors
// the lens center and screen center of the left eye about 0.5.
func EyeUniforms(eye hmd.Eye, p *Params) Uniforms {
	u := Uniforms{
		LensCenter:   math32.Vec2(p.LensCenter.X+p.LensOffset, p.LensCenter.Y),
		ScreenCenter: p.ScreenCenter,
		Scale:        p.Scale,
		ScaleIn:      p.ScaleIn,
		K:            p.K,
	}
	if eye == hmd.Right {
		u.LensCenter.X = 1 - u.LensCenter.X
		u.ScreenCenter.X = 1 - u.ScreenCenter.X
	}
	return u
}

// EyeQuad returns the quad of the given eye: the left eye covers clip
// space [-1, 0] x [-1, 1] sampling texture [0, 0.5] x [0, 1], and the
// right eye is shifted by 1 in X and 0.5 in U.
func EyeQuad(eye hmd.Eye) gpu.Quad {
	q := gpu.Quad{
		Pos: [4]math32.Vector2{{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 1}},
		Tex: [4]math32.Vector2{{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 0.5, Y: 1}, {X: 0, Y: 1}},
	}
	if eye == hmd.Right {
		for i := range q.Pos {
			q.Pos[i].X += 1
			q.Tex[i].X += 0.5
		}
	}
	return q
}

// PresentQuad returns the quad covering a buffer of the given size in
// pixel coordinates, for use with [math32.Ortho2D].
func PresentQuad(w, h float32) gpu.Quad {
	return gpu.Quad{
		Pos: [4]math32.Vector2{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}},
		Tex: [4]math32.Vector2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
	}
}

// Warp is the warp of the distortion shader computed on the CPU: it
// returns the texture coordinate sampled for the given output coordinate,
// and false if that falls outside the eye's half of the buffer, where the
// shader draws black.
func Warp(u Uniforms, tc math32.Vector2) (math32.Vector2, bool) {
	theta := tc.Sub(u.LensCenter).Mul(u.ScaleIn)
	rsq := theta.X*theta.X + theta.Y*theta.Y
	k := u.K
	theta1 := theta.MulScalar(k[0] + rsq*(k[1]+rsq*(k[2]+rsq*k[3])))
	out := u.LensCenter.Add(u.Scale.Mul(theta1))
	lo := u.ScreenCenter.Sub(math32.Vec2(0.25, 0.5))
	hi := u.ScreenCenter.Add(math32.Vec2(0.25, 0.5))
	in := out.X >= lo.X && out.Y >= lo.Y && out.X <= hi.X && out.Y <= hi.Y
	return out, in
}

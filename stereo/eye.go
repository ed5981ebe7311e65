// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stereo

import (
	"image"

	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
)

// EyeParams are the render parameters of one eye within the offscreen buffer.
// They only change with the stereo options, buffer size, or gutter.
type EyeParams struct {
	Eye hmd.Eye

	// Viewport is the half of the buffer the eye is drawn into.
	Viewport image.Rectangle

	// Scissor is the viewport inset by the gutter; pixels outside it are
	// lost to the distortion anyway and are not drawn.
	Scissor image.Rectangle

	// HalfIPD is the offset of the eye from the eye center.
	HalfIPD float32

	// Projection is the asymmetric projection of the eye.
	Projection math32.Matrix4
}

// View returns the view of this eye from the view of the eye center.
func (ep *EyeParams) View(center math32.Matrix4) math32.Matrix4 {
	return math32.Translation(ep.Eye.Sign()*ep.HalfIPD, 0, 0).Mul(center)
}

// clampGutter keeps the scissor of each eye non-empty.
func clampGutter(half image.Point, gutter int) int {
	lim := (min(half.X, half.Y) - 1) / 2
	return max(0, min(gutter, lim))
}

// Eye returns the render parameters of the given eye for a buffer of
// the given size. The left eye gets the left half of the buffer and the
// right eye the right half; both halves are buffer.X/2 wide.
func (st *Stereo) Eye(eye hmd.Eye, buffer image.Point, gutter int) EyeParams {
	half := image.Pt(buffer.X/2, buffer.Y)
	g := clampGutter(half, gutter)
	x0 := 0
	if eye == hmd.Right {
		x0 = half.X
	}
	vp := image.Rect(x0, 0, x0+half.X, half.Y)
	return EyeParams{
		Eye:        eye,
		Viewport:   vp,
		Scissor:    vp.Inset(g),
		HalfIPD:    st.HalfIPD,
		Projection: st.Projection(eye),
	}
}

// MegaPixels returns the number of pixels drawn per frame into a buffer
// of the given size with the given gutter, in units of 2^20 pixels.
func MegaPixels(buffer image.Point, gutter int) float32 {
	half := image.Pt(buffer.X/2, buffer.Y)
	g := clampGutter(half, gutter)
	w := max(0, half.X-2*g)
	h := max(0, half.Y-2*g)
	return 2 * float32(w) * float32(h) / (1024 * 1024)
}

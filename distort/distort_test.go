// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distort

import (
	"image"
	"strings"
	"testing"

	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/gpu/gputest"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	p := Defaults()
	// these match the values measured from the vendor demo at runtime
	assert.InDelta(t, 0.287994-0.25, p.LensOffset, 1e-5)
	assert.InDelta(t, 0.145806, p.Scale.X, 1e-4)
	assert.InDelta(t, 0.233290, p.Scale.Y, 1e-4)
	assert.InDelta(t, 4, p.ScaleIn.X, 1e-6)
	assert.InDelta(t, 2.5, p.ScaleIn.Y, 1e-5)
	assert.InDelta(t, 1.71461, p.BufferScale, 1e-3)
	assert.Equal(t, hmd.DefaultGeometry().DistortionK, p.K)
	assert.Equal(t, math32.Vec2(0.25, 0.5), p.ScreenCenter)

	bad := hmd.DefaultGeometry()
	bad.EyeToScreenDistance = 0
	assert.Equal(t, p, NewParams(bad))

	for _, k := range [][4]float32{{}, {-1, 0.22, 0.24, 0}} {
		bad = hmd.DefaultGeometry()
		bad.DistortionK = k
		q := NewParams(bad)
		assert.Equal(t, p, q, "K %v", k)
		assert.True(t, math32.IsFinite(q.Scale.X) && math32.IsFinite(q.Scale.Y))
	}
}

func TestBufferScaleAtLeastOne(t *testing.T) {
	g := hmd.DefaultGeometry()
	g.DistortionK = [4]float32{0.5, 0, 0, 0}
	assert.Equal(t, float32(1), NewParams(g).BufferScale)
}

func TestResetAfterEdits(t *testing.T) {
	p := Defaults()
	p.LensOffset = 0.1
	p.K[1] = -1
	p.Scale = math32.Vec2(0.9, 0.9)
	p.BufferScale = 3.5
	p.ScreenCenter.X = 0.3
	p.Reset(hmd.DefaultGeometry())
	assert.Equal(t, Defaults(), p)
}

func TestEyeMirror(t *testing.T) {
	p := Defaults()
	for _, off := range []float32{-0.25, -0.1, 0, 0.037994, 0.1, 0.25} {
		for _, sc := range []float32{0.2, 0.25, 0.3} {
			p.LensOffset = off
			p.ScreenCenter.X = sc
			l := EyeUniforms(hmd.Left, p)
			r := EyeUniforms(hmd.Right, p)
			assert.InDelta(t, 1, l.ScreenCenter.X+r.ScreenCenter.X, 1e-6)
			assert.InDelta(t, 1, l.LensCenter.X+r.LensCenter.X, 1e-6)
			assert.Equal(t, l.LensCenter.Y, r.LensCenter.Y)
			assert.Equal(t, l.Scale, r.Scale)
		}
	}
	p = Defaults()
	l := EyeUniforms(hmd.Left, p)
	r := EyeUniforms(hmd.Right, p)
	assert.InDelta(t, 0.287994, l.LensCenter.X, 1e-5)
	assert.InDelta(t, 0.75-0.037994, r.LensCenter.X, 1e-5)
	assert.Equal(t, float32(0.75), r.ScreenCenter.X)
}

func TestEyeQuad(t *testing.T) {
	l := EyeQuad(hmd.Left)
	r := EyeQuad(hmd.Right)
	assert.Equal(t, math32.Vec2(-1, -1), l.Pos[0])
	assert.Equal(t, math32.Vec2(0, 1), l.Pos[2])
	assert.Equal(t, math32.Vec2(0.5, 1), l.Tex[2])
	for i := range l.Pos {
		assert.Equal(t, l.Pos[i].X+1, r.Pos[i].X)
		assert.Equal(t, l.Tex[i].X+0.5, r.Tex[i].X)
		assert.Equal(t, l.Tex[i].Y, r.Tex[i].Y)
	}
}

func TestWarp(t *testing.T) {
	p := Defaults()
	l := EyeUniforms(hmd.Left, p)

	// the lens center is a fixed point
	out, ok := Warp(l, l.LensCenter)
	assert.True(t, ok)
	assert.Equal(t, l.LensCenter, out)

	// identity coefficients with matching scales is the identity
	id := l
	id.K = [4]float32{1, 0, 0, 0}
	id.Scale = math32.Vec2(1/id.ScaleIn.X, 1/id.ScaleIn.Y)
	out, ok = Warp(id, math32.Vec2(0.1, 0.7))
	assert.True(t, ok)
	assert.InDelta(t, 0.1, out.X, 1e-6)
	assert.InDelta(t, 0.7, out.Y, 1e-6)

	// the fit point (left edge of the left eye) samples the edge of the
	// buffer: the buffer scale makes the warp cover the whole eye
	out, ok = Warp(l, math32.Vec2(0.001, l.LensCenter.Y))
	assert.True(t, ok)
	assert.InDelta(t, 0, out.X, 0.01)

	// corners warp outside and draw black
	_, ok = Warp(l, math32.Vec2(0, 0))
	assert.False(t, ok)

	// the right eye mirrors the left
	r := EyeUniforms(hmd.Right, p)
	lo, _ := Warp(l, math32.Vec2(0.1, 0.3))
	ro, _ := Warp(r, math32.Vec2(0.9, 0.3))
	assert.InDelta(t, 1, lo.X+ro.X, 1e-5)
	assert.InDelta(t, lo.Y, ro.Y, 1e-6)
}

func TestShaders(t *testing.T) {
	for _, name := range []string{"warp.vert", "warp.frag", "present.vert", "present.frag"} {
		src, err := Shader(name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(src, "#version 410 core"), name)
	}
	frag, _ := Shader("warp.frag")
	for _, u := range []string{"LensCenter", "ScreenCenter", "Scale", "ScaleIn", "HmdWarpParam", "Texture0"} {
		assert.Contains(t, frag, u)
	}
	_, err := Shader("missing.frag")
	assert.Error(t, err)
}

func newTarget(t *testing.T) (*gputest.Device, *gpu.RenderTarget) {
	dev := gputest.NewDevice()
	rt := gpu.NewRenderTarget(dev)
	require.NoError(t, rt.SetSize(image.Pt(2194, 1371)))
	dev.Reset()
	return dev, rt
}

func TestPresentDistorted(t *testing.T) {
	dev, rt := newTarget(t)
	c := NewCompositor(dev, 10, 20)
	p := Defaults()
	require.NoError(t, c.Present(rt, p, Distorted))
	require.Len(t, dev.Draws, 2)

	for i, eye := range hmd.Eyes {
		dr := dev.Draws[i]
		u := EyeUniforms(eye, p)
		assert.Equal(t, gpu.Program(10), dr.Program)
		assert.Equal(t, rt.Color, dr.Texture)
		assert.Equal(t, EyeQuad(eye), dr.Quad)
		assert.Equal(t, [2]float32{u.LensCenter.X, u.LensCenter.Y}, dr.Uniforms["LensCenter"])
		assert.Equal(t, [2]float32{u.ScreenCenter.X, u.ScreenCenter.Y}, dr.Uniforms["ScreenCenter"])
		assert.Equal(t, [2]float32{p.Scale.X, p.Scale.Y}, dr.Uniforms["Scale"])
		assert.Equal(t, [2]float32{p.ScaleIn.X, p.ScaleIn.Y}, dr.Uniforms["ScaleIn"])
		assert.Equal(t, [4]float32(p.K), dr.Uniforms["HmdWarpParam"])
		assert.Equal(t, int32(0), dr.Uniforms["Texture0"])
		assert.Equal(t, math32.Identity4().ColumnMajor(), dr.Uniforms["View"])
		assert.Equal(t, math32.Identity4().ColumnMajor(), dr.Uniforms["Texm"])
	}
	assert.Zero(t, dev.Program)
	assert.False(t, dev.DepthTest)
}

func TestPresentReadsLiveParams(t *testing.T) {
	dev, rt := newTarget(t)
	c := NewCompositor(dev, 10, 20)
	p := Defaults()
	require.NoError(t, c.Present(rt, p, Distorted))
	p.LensOffset = 0.05
	p.K[1] = 0.5
	dev.Reset()
	require.NoError(t, c.Present(rt, p, Distorted))
	lc := dev.Draws[0].Uniforms["LensCenter"].([2]float32)
	assert.InDelta(t, 0.3, lc[0], 1e-6)
	assert.InDelta(t, 0.5, lc[1], 1e-6)
	assert.Equal(t, float32(0.5), dev.Draws[1].Uniforms["HmdWarpParam"].([4]float32)[1])
}

func TestPresentUndistorted(t *testing.T) {
	dev, rt := newTarget(t)
	c := NewCompositor(dev, 10, 20)
	require.NoError(t, c.Present(rt, Defaults(), Undistorted))
	require.Len(t, dev.Draws, 1)
	dr := dev.Draws[0]
	assert.Equal(t, gpu.Program(20), dr.Program)
	assert.Equal(t, math32.Ortho2D(2194, 1371).ColumnMajor(), dr.Uniforms["prmtx"])
	assert.Equal(t, int32(0), dr.Uniforms["fboTex"])
	assert.Equal(t, PresentQuad(2194, 1371), dr.Quad)
	assert.Equal(t, math32.Vec2(2194, 1371), dr.Quad.Pos[2])
}

func TestPresentNeedsTarget(t *testing.T) {
	dev := gputest.NewDevice()
	c := NewCompositor(dev, 10, 20)
	rt := gpu.NewRenderTarget(dev)
	assert.ErrorIs(t, c.Present(rt, Defaults(), Distorted), gpu.ErrNoTarget)

	require.NoError(t, rt.SetSize(image.Pt(64, 64)))
	require.NoError(t, rt.Bind())
	assert.ErrorIs(t, c.Present(rt, Defaults(), Distorted), gpu.ErrBound)
	assert.Empty(t, dev.Draws)
}

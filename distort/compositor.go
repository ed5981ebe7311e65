// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distort

import (
	"embed"
	"fmt"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
)

//go:embed shaders/*
var shaders embed.FS

// Shader returns the source of the named shader, one of warp.vert,
// warp.frag, present.vert, and present.frag.
func Shader(name string) (string, error) {
	b, err := shaders.ReadFile("shaders/" + name)
	if err != nil {
		return "", fmt.Errorf("distort: shader %q: %w", name, err)
	}
	return string(b), nil
}

// Modes are the ways of presenting the offscreen buffer.
type Modes int32

const (
	// Undistorted draws the whole buffer as one quad.
	Undistorted Modes = iota

	// Distorted draws one warped quad per eye.
	Distorted
)

func (m Modes) String() string {
	switch m {
	case Undistorted:
		return "Undistorted"
	case Distorted:
		return "Distorted"
	}
	return "Modes(invalid)"
}

// Compositor draws the offscreen buffer to the current framebuffer.
type Compositor struct {
	Device gpu.Device

	// WarpProgram is the program built from warp.vert and warp.frag.
	WarpProgram gpu.Program

	// PresentProgram is the program built from present.vert and present.frag.
	PresentProgram gpu.Program
}

// NewCompositor returns a new [Compositor] using the given programs.
func NewCompositor(dev gpu.Device, warp, present gpu.Program) *Compositor {
	return &Compositor{Device: dev, WarpProgram: warp, PresentProgram: present}
}

// Present draws the color buffer of src in the given mode. The params are
// read on every call, so edits take effect on the next frame. It returns
// [gpu.ErrNoTarget] when src is not allocated and [gpu.ErrBound] when it
// is still bound.
func (c *Compositor) Present(src *gpu.RenderTarget, p *Params, mode Modes) error {
	if src.State() != gpu.Allocated {
		return gpu.ErrNoTarget
	}
	if src.IsBound() {
		return gpu.ErrBound
	}
	d := c.Device
	d.SetDepthTest(false)
	d.DisableScissor()
	switch mode {
	case Distorted:
		for _, eye := range hmd.Eyes {
			c.presentEye(src, eye, EyeUniforms(eye, p))
		}
	case Undistorted:
		c.presentWhole(src)
	default:
		return errors.Log(fmt.Errorf("distort: unknown mode %v", mode))
	}
	d.UseProgram(0)
	return nil
}

func (c *Compositor) presentEye(src *gpu.RenderTarget, eye hmd.Eye, u Uniforms) {
	d, prog := c.Device, c.WarpProgram
	d.UseProgram(prog)
	ident := math32.Identity4()
	gpu.SetMatrix(d, prog, "View", ident)
	gpu.SetMatrix(d, prog, "Texm", ident)
	gpu.SetVector2(d, prog, "LensCenter", u.LensCenter)
	gpu.SetVector2(d, prog, "ScreenCenter", u.ScreenCenter)
	gpu.SetVector2(d, prog, "Scale", u.Scale)
	gpu.SetVector2(d, prog, "ScaleIn", u.ScaleIn)
	d.SetUniform4f(prog, "HmdWarpParam", u.K[0], u.K[1], u.K[2], u.K[3])
	d.BindTexture(0, src.Color)
	d.SetUniform1i(prog, "Texture0", 0)
	d.DrawQuad(EyeQuad(eye))
}

func (c *Compositor) presentWhole(src *gpu.RenderTarget) {
	d, prog := c.Device, c.PresentProgram
	w, h := float32(src.Size.X), float32(src.Size.Y)
	d.UseProgram(prog)
	gpu.SetMatrix(d, prog, "prmtx", math32.Ortho2D(w, h))
	d.BindTexture(0, src.Color)
	d.SetUniform1i(prog, "fboTex", 0)
	d.DrawQuad(PresentQuad(w, h))
}

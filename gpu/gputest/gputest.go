// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gputest provides a [gpu.Device] that records calls instead of
// drawing, for testing code that drives the GPU without a context.
package gputest

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/gpu"
)

// ErrInjected is returned by creation calls that are set to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Draw is one recorded [gpu.Device.DrawQuad] call, with the state it used.
type Draw struct {
	Program     gpu.Program
	Framebuffer gpu.Framebuffer
	Texture     gpu.Texture
	Viewport    image.Rectangle
	Quad        gpu.Quad

	// Uniforms are the uniforms of the program at the time of the draw.
	Uniforms map[string]any
}

// Device is a recording [gpu.Device]. It tracks live resources, the
// bound state, and uniform values per program, and appends each call
// to Calls.
type Device struct {

	// FailTexture, FailDepth, and FailFramebuffer make the
	// corresponding creation calls fail.
	FailTexture     bool
	FailDepth       bool
	FailFramebuffer bool

	// Calls has a short description of every call, in order.
	Calls []string

	// Draws has every draw call.
	Draws []Draw

	// Textures, Renderbuffers, and Framebuffers are the live resources and their sizes.
	Textures      map[gpu.Texture]image.Point
	Renderbuffers map[gpu.Renderbuffer]image.Point
	Framebuffers  map[gpu.Framebuffer]bool

	// Uniforms has the last value set for each program and uniform name.
	Uniforms map[gpu.Program]map[string]any

	// Bound is the currently bound framebuffer.
	Bound gpu.Framebuffer

	Viewport    image.Rectangle
	Scissor     image.Rectangle
	ScissorOn   bool
	DepthTest   bool
	Program     gpu.Program
	TextureUnit map[int]gpu.Texture

	nextID uint32
}

// NewDevice returns a new recording [Device].
func NewDevice() *Device {
	return &Device{
		Textures:      map[gpu.Texture]image.Point{},
		Renderbuffers: map[gpu.Renderbuffer]image.Point{},
		Framebuffers:  map[gpu.Framebuffer]bool{},
		Uniforms:      map[gpu.Program]map[string]any{},
		TextureUnit:   map[int]gpu.Texture{},
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// Live returns the number of live resources of all kinds.
func (d *Device) Live() int {
	return len(d.Textures) + len(d.Renderbuffers) + len(d.Framebuffers)
}

// Reset clears the recorded calls and draws.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
}

func (d *Device) CreateColorTexture(size image.Point) (gpu.Texture, error) {
	d.record("CreateColorTexture %v", size)
	if d.FailTexture {
		return 0, ErrInjected
	}
	t := gpu.Texture(d.id())
	d.Textures[t] = size
	return t, nil
}

func (d *Device) CreateDepthBuffer(size image.Point) (gpu.Renderbuffer, error) {
	d.record("CreateDepthBuffer %v", size)
	if d.FailDepth {
		return 0, ErrInjected
	}
	r := gpu.Renderbuffer(d.id())
	d.Renderbuffers[r] = size
	return r, nil
}

func (d *Device) CreateFramebuffer(color gpu.Texture, depth gpu.Renderbuffer) (gpu.Framebuffer, error) {
	d.record("CreateFramebuffer %d %d", color, depth)
	if d.FailFramebuffer {
		return 0, ErrInjected
	}
	if _, ok := d.Textures[color]; !ok {
		return 0, fmt.Errorf("gputest: framebuffer color texture %d does not exist", color)
	}
	if _, ok := d.Renderbuffers[depth]; !ok {
		return 0, fmt.Errorf("gputest: framebuffer depth buffer %d does not exist", depth)
	}
	f := gpu.Framebuffer(d.id())
	d.Framebuffers[f] = true
	return f, nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	d.record("DeleteTexture %d", t)
	delete(d.Textures, t)
}

func (d *Device) DeleteRenderbuffer(r gpu.Renderbuffer) {
	d.record("DeleteRenderbuffer %d", r)
	delete(d.Renderbuffers, r)
}

func (d *Device) DeleteFramebuffer(f gpu.Framebuffer) {
	d.record("DeleteFramebuffer %d", f)
	delete(d.Framebuffers, f)
}

func (d *Device) BindFramebuffer(f gpu.Framebuffer) {
	d.record("BindFramebuffer %d", f)
	d.Bound = f
}

func (d *Device) SetViewport(r image.Rectangle) {
	d.record("SetViewport %v", r)
	d.Viewport = r
}

func (d *Device) SetScissor(r image.Rectangle) {
	d.record("SetScissor %v", r)
	d.Scissor = r
	d.ScissorOn = true
}

func (d *Device) DisableScissor() {
	d.record("DisableScissor")
	d.ScissorOn = false
}

func (d *Device) SetDepthTest(on bool) {
	d.record("SetDepthTest %v", on)
	d.DepthTest = on
}

func (d *Device) Clear(c color.RGBA, depth bool) {
	d.record("Clear %v %v", c, depth)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.record("UseProgram %d", p)
	d.Program = p
}

func (d *Device) setUniform(p gpu.Program, name string, v any) {
	d.record("Uniform %d %s", p, name)
	u := d.Uniforms[p]
	if u == nil {
		u = map[string]any{}
		d.Uniforms[p] = u
	}
	u[name] = v
}

func (d *Device) SetUniformMatrix4(p gpu.Program, name string, m [16]float32) {
	d.setUniform(p, name, m)
}

func (d *Device) SetUniform1i(p gpu.Program, name string, v int32) {
	d.setUniform(p, name, v)
}

func (d *Device) SetUniform2f(p gpu.Program, name string, x, y float32) {
	d.setUniform(p, name, [2]float32{x, y})
}

func (d *Device) SetUniform4f(p gpu.Program, name string, x, y, z, w float32) {
	d.setUniform(p, name, [4]float32{x, y, z, w})
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.record("BindTexture %d %d", unit, t)
	d.TextureUnit[unit] = t
}

func (d *Device) DrawQuad(q gpu.Quad) {
	d.record("DrawQuad")
	u := map[string]any{}
	for k, v := range d.Uniforms[d.Program] {
		u[k] = v
	}
	d.Draws = append(d.Draws, Draw{
		Program:     d.Program,
		Framebuffer: d.Bound,
		Texture:     d.TextureUnit[0],
		Viewport:    d.Viewport,
		Quad:        q,
		Uniforms:    u,
	})
}

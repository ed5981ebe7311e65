// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

// Package glgpu implements [gpu.Device] on OpenGL 4.1 core profile,
// with windows and contexts provided by glfw.
package glgpu

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"unsafe"

	"cogentcore.org/hmdview/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device is the OpenGL [gpu.Device]. It must only be used on the thread
// on which its context is current.
type Device struct {

	// locations caches uniform locations per program.
	locations map[gpu.Program]map[string]int32

	// vao, vbo, and ebo hold the quad drawn by DrawQuad.
	vao, vbo, ebo uint32
}

var _ gpu.Device = (*Device)(nil)

// quadIndexes are the two triangles of a quad.
var quadIndexes = [6]uint32{0, 1, 2, 0, 3, 2}

// NewDevice initializes OpenGL for the current context and returns
// a new [Device].
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	slog.Info("glgpu: OpenGL", "version", gl.GoStr(gl.GetString(gl.VERSION)), "renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	d := &Device{locations: map[gpu.Program]map[string]int32{}}

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 16*4, nil, gl.DYNAMIC_DRAW)
	gl.GenBuffers(1, &d.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(quadIndexes)*4, gl.Ptr(&quadIndexes[0]), gl.STATIC_DRAW)

	// interleaved x, y, u, v at locations 0 and 1
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.BindVertexArray(0)
	return d, glError("NewDevice")
}

// glError returns an error for any pending OpenGL error.
func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glgpu: %s: OpenGL error 0x%x", op, code)
	}
	return nil
}

func (d *Device) CreateColorTexture(size image.Point) (gpu.Texture, error) {
	var t uint32
	gl.GenTextures(1, &t)
	gl.BindTexture(gl.TEXTURE_2D, t)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := glError("CreateColorTexture"); err != nil {
		gl.DeleteTextures(1, &t)
		return 0, err
	}
	return gpu.Texture(t), nil
}

func (d *Device) CreateDepthBuffer(size image.Point) (gpu.Renderbuffer, error) {
	var r uint32
	gl.GenRenderbuffers(1, &r)
	gl.BindRenderbuffer(gl.RENDERBUFFER, r)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(size.X), int32(size.Y))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	if err := glError("CreateDepthBuffer"); err != nil {
		gl.DeleteRenderbuffers(1, &r)
		return 0, err
	}
	return gpu.Renderbuffer(r), nil
}

func (d *Device) CreateFramebuffer(color gpu.Texture, depth gpu.Renderbuffer) (gpu.Framebuffer, error) {
	var f uint32
	gl.GenFramebuffers(1, &f)
	gl.BindFramebuffer(gl.FRAMEBUFFER, f)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(color), 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, uint32(depth))
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &f)
		return 0, fmt.Errorf("glgpu: framebuffer not complete: status 0x%x", status)
	}
	return gpu.Framebuffer(f), nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

func (d *Device) DeleteRenderbuffer(r gpu.Renderbuffer) {
	h := uint32(r)
	gl.DeleteRenderbuffers(1, &h)
}

func (d *Device) DeleteFramebuffer(f gpu.Framebuffer) {
	h := uint32(f)
	gl.DeleteFramebuffers(1, &h)
}

func (d *Device) BindFramebuffer(f gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

func (d *Device) SetViewport(r image.Rectangle) {
	gl.Viewport(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
}

func (d *Device) SetScissor(r image.Rectangle) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()))
}

func (d *Device) DisableScissor() {
	gl.Disable(gl.SCISSOR_TEST)
}

func (d *Device) SetDepthTest(on bool) {
	if on {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

func (d *Device) Clear(c color.RGBA, depth bool) {
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	mask := uint32(gl.COLOR_BUFFER_BIT)
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

// location returns the location of the named uniform, or -1 if the
// program has no such active uniform, in which case setting it is a no-op.
func (d *Device) location(p gpu.Program, name string) int32 {
	locs := d.locations[p]
	if locs == nil {
		locs = map[string]int32{}
		d.locations[p] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
	if loc < 0 {
		slog.Debug("glgpu: uniform not found", "program", p, "name", name)
	}
	locs[name] = loc
	return loc
}

func (d *Device) SetUniformMatrix4(p gpu.Program, name string, m [16]float32) {
	gl.UniformMatrix4fv(d.location(p, name), 1, false, &m[0])
}

func (d *Device) SetUniform1i(p gpu.Program, name string, v int32) {
	gl.Uniform1i(d.location(p, name), v)
}

func (d *Device) SetUniform2f(p gpu.Program, name string, x, y float32) {
	gl.Uniform2f(d.location(p, name), x, y)
}

func (d *Device) SetUniform4f(p gpu.Program, name string, x, y, z, w float32) {
	gl.Uniform4f(d.location(p, name), x, y, z, w)
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DrawQuad(q gpu.Quad) {
	var verts [16]float32
	for i := 0; i < 4; i++ {
		verts[i*4+0] = q.Pos[i].X
		verts[i*4+1] = q.Pos[i].Y
		verts[i*4+2] = q.Tex[i].X
		verts[i*4+3] = q.Tex[i].Y
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, int(unsafe.Sizeof(verts)), gl.Ptr(&verts[0]))
	gl.DrawElements(gl.TRIANGLES, int32(len(quadIndexes)), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Compile compiles and links a program from vertex and fragment shader
// source, which must be GLSL version 410.
func (d *Device) Compile(name, vert, frag string) (gpu.Program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vert)
	if err != nil {
		return 0, fmt.Errorf("glgpu: program %s: vertex shader: %w", name, err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl.FRAGMENT_SHADER, frag)
	if err != nil {
		return 0, fmt.Errorf("glgpu: program %s: fragment shader: %w", name, err)
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)
	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(handle, n, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return 0, fmt.Errorf("glgpu: program %s: failed to link: %s", name, strings.TrimRight(msg, "\x00"))
	}
	return gpu.Program(handle), nil
}

func compileShader(typ uint32, src string) (uint32, error) {
	handle := gl.CreateShader(typ)
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(handle, n, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("failed to compile: %s", strings.TrimRight(msg, "\x00"))
	}
	return handle, nil
}

// DeleteProgram deletes a program made by [Device.Compile].
func (d *Device) DeleteProgram(p gpu.Program) {
	delete(d.locations, p)
	gl.DeleteProgram(uint32(p))
}

// Release deletes the quad buffers of the device.
func (d *Device) Release() {
	gl.DeleteBuffers(1, &d.ebo)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
}

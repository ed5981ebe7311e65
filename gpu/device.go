// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu defines the GPU device interface used by the viewer, the
// offscreen [RenderTarget] that the scene is rendered into before the
// distortion pass, and helpers for uploading uniforms.
//
// Resources are referred to by opaque handles, and uniforms are set by
// name, so that the viewer only decides which values go where. The
// OpenGL implementation is in package glgpu, and a recording
// implementation for tests is in package gputest.
package gpu

import (
	"image"
	"image/color"

	"cogentcore.org/hmdview/math32"
)

// Texture is an opaque handle to a GPU texture. Zero is no texture.
type Texture uint32

// Renderbuffer is an opaque handle to a GPU renderbuffer, used for depth.
type Renderbuffer uint32

// Framebuffer is an opaque handle to a GPU framebuffer. Zero is the
// default framebuffer of the current window.
type Framebuffer uint32

// Program is an opaque handle to a compiled and linked shader program.
type Program uint32

// Quad is a quad to draw: four corner positions and their texture
// coordinates, drawn as the two triangles 0,1,2 and 0,3,2.
type Quad struct {
	Pos [4]math32.Vector2
	Tex [4]math32.Vector2
}

// Device is the GPU device. All calls must be made on the thread that
// owns the graphics context.
type Device interface {

	// CreateColorTexture creates an RGBA color texture of the given size,
	// with linear filtering and clamp-to-edge wrapping.
	CreateColorTexture(size image.Point) (Texture, error)

	// CreateDepthBuffer creates a depth renderbuffer of the given size.
	CreateDepthBuffer(size image.Point) (Renderbuffer, error)

	// CreateFramebuffer creates a framebuffer with the given color
	// and depth attachments, and checks that it is complete.
	CreateFramebuffer(color Texture, depth Renderbuffer) (Framebuffer, error)

	DeleteTexture(t Texture)
	DeleteRenderbuffer(r Renderbuffer)
	DeleteFramebuffer(f Framebuffer)

	// BindFramebuffer makes f the target of drawing; zero is the window.
	BindFramebuffer(f Framebuffer)

	SetViewport(r image.Rectangle)

	// SetScissor enables the scissor test with the given rectangle.
	SetScissor(r image.Rectangle)
	DisableScissor()

	SetDepthTest(on bool)

	// Clear clears the color buffer, and the depth buffer if depth is true.
	Clear(c color.RGBA, depth bool)

	UseProgram(p Program)

	// SetUniformMatrix4 sets a mat4 uniform from column-major data.
	SetUniformMatrix4(p Program, name string, m [16]float32)
	SetUniform1i(p Program, name string, v int32)
	SetUniform2f(p Program, name string, x, y float32)
	SetUniform4f(p Program, name string, x, y, z, w float32)

	// BindTexture binds t to the given texture unit.
	BindTexture(unit int, t Texture)

	// DrawQuad draws the quad with the current program.
	DrawQuad(q Quad)
}

// SetMatrix uploads a row-major matrix to a mat4 uniform. The matrix is
// transposed into the column-major order that the GPU expects; setting
// the row-major data directly would make the result appear rotated.
func SetMatrix(d Device, p Program, name string, m math32.Matrix4) {
	d.SetUniformMatrix4(p, name, m.ColumnMajor())
}

// SetVector2 uploads a [math32.Vector2] to a vec2 uniform.
func SetVector2(d Device, p Program, name string, v math32.Vector2) {
	d.SetUniform2f(p, name, v.X, v.Y)
}

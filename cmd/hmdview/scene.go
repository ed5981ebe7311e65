// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	_ "embed"
	"unsafe"

	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/gpu/glgpu"
	"cogentcore.org/hmdview/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	//go:embed shaders/line.vert
	lineVert string

	//go:embed shaders/line.frag
	lineFrag string
)

// vertex is a colored line vertex.
type vertex struct {
	Pos   math32.Vector3
	Color math32.Vector3
}

// span is a range of vertices drawn as lines.
type span struct {
	first, count int32
}

// gridScene draws a ground grid with a row of posts that bob up and
// down, and the user's head as axes and a view frustum.
type gridScene struct {
	dev  *glgpu.Device
	prog gpu.Program

	vao, vbo uint32
	grid     span
	post     span
	axes     span
	frustum  span

	// Phase is the animation time in seconds.
	Phase float32

	// Amplitude is the height of the post motion.
	Amplitude float32
}

func lineSeg(vs []vertex, a, b, color math32.Vector3) []vertex {
	return append(vs, vertex{a, color}, vertex{b, color})
}

func newGridScene(dev *glgpu.Device) (*gridScene, error) {
	prog, err := dev.Compile("line", lineVert, lineFrag)
	if err != nil {
		return nil, err
	}
	sc := &gridScene{dev: dev, prog: prog, Amplitude: 0.2}

	var vs []vertex
	gray := math32.Vec3(0.6, 0.6, 0.6)
	sc.grid.first = 0
	for i := -20; i <= 20; i++ {
		f := float32(i)
		vs = lineSeg(vs, math32.Vec3(f, 0, -20), math32.Vec3(f, 0, 20), gray)
		vs = lineSeg(vs, math32.Vec3(-20, 0, f), math32.Vec3(20, 0, f), gray)
	}
	sc.grid.count = int32(len(vs))

	// a unit post standing on the ground
	sc.post.first = int32(len(vs))
	yellow := math32.Vec3(1, 0.8, 0.2)
	corners := []math32.Vector3{{-0.2, 0, -0.2}, {0.2, 0, -0.2}, {0.2, 0, 0.2}, {-0.2, 0, 0.2}}
	for i, c := range corners {
		n := corners[(i+1)%len(corners)]
		top, ntop := c.Add(math32.Vec3(0, 1, 0)), n.Add(math32.Vec3(0, 1, 0))
		vs = lineSeg(vs, c, n, yellow)
		vs = lineSeg(vs, top, ntop, yellow)
		vs = lineSeg(vs, c, top, yellow)
	}
	sc.post.count = int32(len(vs)) - sc.post.first

	sc.axes.first = int32(len(vs))
	vs = lineSeg(vs, math32.Vector3{}, math32.Vector3X, math32.Vec3(1, 0, 0))
	vs = lineSeg(vs, math32.Vector3{}, math32.Vector3Y, math32.Vec3(0, 1, 0))
	vs = lineSeg(vs, math32.Vector3{}, math32.Vector3Z, math32.Vec3(0, 0, 1))
	sc.axes.count = int32(len(vs)) - sc.axes.first

	// a frustum of unit aspect looking down -Z, scaled by aspect in X when drawn
	sc.frustum.first = int32(len(vs))
	white := math32.Vec3(1, 1, 1)
	far := []math32.Vector3{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}}
	for i, c := range far {
		vs = lineSeg(vs, math32.Vector3{}, c, white)
		vs = lineSeg(vs, c, far[(i+1)%len(far)], white)
	}
	sc.frustum.count = int32(len(vs)) - sc.frustum.first

	gl.GenVertexArrays(1, &sc.vao)
	gl.BindVertexArray(sc.vao)
	gl.GenBuffers(1, &sc.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, sc.vbo)
	stride := int32(unsafe.Sizeof(vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(vs)*int(stride), gl.Ptr(&vs[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.BindVertexArray(0)
	return sc, nil
}

func (sc *gridScene) draw(model, view, projection math32.Matrix4, s span) {
	gpu.SetMatrix(sc.dev, sc.prog, "mvmtx", view.Mul(model))
	gpu.SetMatrix(sc.dev, sc.prog, "prmtx", projection)
	gl.DrawArrays(gl.LINES, s.first, s.count)
}

func (sc *gridScene) RenderForEye(view, projection *math32.Matrix4) {
	sc.dev.UseProgram(sc.prog)
	gl.BindVertexArray(sc.vao)
	sc.draw(math32.Identity4(), *view, *projection, sc.grid)
	for i := 0; i < 9; i++ {
		x := float32(i-4) * 2
		y := sc.Amplitude * math32.Sin(5*sc.Phase+float32(i))
		sc.draw(math32.Translation(x, y, 4), *view, *projection, sc.post)
	}
	gl.BindVertexArray(0)
	sc.dev.UseProgram(0)
}

func (sc *gridScene) RenderAvatar(view, projection, avatar *math32.Matrix4, aspect float32) {
	sc.dev.UseProgram(sc.prog)
	gl.BindVertexArray(sc.vao)
	gl.LineWidth(1)
	sc.draw(*avatar, *view, *projection, sc.axes)
	scale := math32.Identity4()
	scale.M[0][0] = 0.5 * aspect
	scale.M[1][1] = 0.5
	scale.M[2][2] = 0.5
	sc.draw(avatar.Mul(scale), *view, *projection, sc.frustum)
	gl.BindVertexArray(0)
	sc.dev.UseProgram(0)
}

func (sc *gridScene) release() {
	gl.DeleteBuffers(1, &sc.vbo)
	gl.DeleteVertexArrays(1, &sc.vao)
	sc.dev.DeleteProgram(sc.prog)
}

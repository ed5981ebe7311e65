// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/math32"
)

// TargetStates are the states of a [RenderTarget].
type TargetStates int32

const (
	// Uninitialized is the state before the first allocation.
	Uninitialized TargetStates = iota

	// Allocated has a complete color texture, depth buffer, and framebuffer.
	Allocated

	// Releasing is the state while the resources are being deleted.
	Releasing

	// Released has no resources, after [RenderTarget.Release]
	// or a failed allocation.
	Released
)

func (s TargetStates) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Allocated:
		return "Allocated"
	case Releasing:
		return "Releasing"
	case Released:
		return "Released"
	}
	return "TargetStates(invalid)"
}

var (
	// ErrNoTarget is returned when drawing needs a target that is not allocated.
	ErrNoTarget = errors.New("gpu: render target not allocated")

	// ErrBound is returned for operations that are invalid while the
	// target is bound.
	ErrBound = errors.New("gpu: render target is bound")

	// ErrNotBound is returned when unbinding a target that is not bound.
	ErrNotBound = errors.New("gpu: render target is not bound")
)

// RenderTarget is an offscreen rendering target: a color texture and a
// depth renderbuffer attached to a framebuffer. The three resources are
// allocated and released as one unit, so a partially allocated target
// is never observable.
type RenderTarget struct {

	// Size is the current size of the target, zero when not allocated.
	Size image.Point

	// Color is the color texture, which the scene is rendered into.
	Color Texture

	// Depth is the depth renderbuffer.
	Depth Renderbuffer

	// Framebuffer has Color and Depth attached.
	Framebuffer Framebuffer

	// device, which we do NOT own.
	device Device

	state TargetStates
	bound bool
}

// NewRenderTarget returns a new [Uninitialized] render target on the given device.
// Call [RenderTarget.SetSize] to allocate it.
func NewRenderTarget(dev Device) *RenderTarget {
	return &RenderTarget{device: dev}
}

// State returns the current state.
func (rt *RenderTarget) State() TargetStates { return rt.state }

// IsBound returns whether the target is currently bound.
func (rt *RenderTarget) IsBound() bool { return rt.bound }

// SetSize allocates the target at the given size, releasing any previous
// allocation first. It does nothing if already allocated at that size.
// On failure all partially created resources are deleted, the target is
// [Released], and the error is returned; a later SetSize retries.
func (rt *RenderTarget) SetSize(size image.Point) error {
	if rt.bound {
		return ErrBound
	}
	if rt.state == Allocated && rt.Size == size {
		return nil
	}
	if size.X <= 0 || size.Y <= 0 {
		rt.release()
		rt.state = Released
		return fmt.Errorf("gpu: invalid render target size %v", size)
	}
	rt.release()
	if err := rt.allocate(size); err != nil {
		rt.state = Released
		return fmt.Errorf("gpu: allocating %dx%d render target: %w", size.X, size.Y, err)
	}
	slog.Debug("gpu: allocated render target", "size", size)
	return nil
}

func (rt *RenderTarget) allocate(size image.Point) error {
	color, err := rt.device.CreateColorTexture(size)
	if err != nil {
		return err
	}
	depth, err := rt.device.CreateDepthBuffer(size)
	if err != nil {
		rt.device.DeleteTexture(color)
		return err
	}
	fb, err := rt.device.CreateFramebuffer(color, depth)
	if err != nil {
		rt.device.DeleteRenderbuffer(depth)
		rt.device.DeleteTexture(color)
		return err
	}
	rt.Color, rt.Depth, rt.Framebuffer = color, depth, fb
	rt.Size = size
	rt.state = Allocated
	return nil
}

// release deletes all resources if allocated, leaving the target [Released].
func (rt *RenderTarget) release() {
	if rt.state == Allocated {
		rt.state = Releasing
		rt.device.DeleteFramebuffer(rt.Framebuffer)
		rt.device.DeleteRenderbuffer(rt.Depth)
		rt.device.DeleteTexture(rt.Color)
	}
	rt.Color, rt.Depth, rt.Framebuffer = 0, 0, 0
	rt.Size = image.Point{}
	if rt.state != Uninitialized {
		rt.state = Released
	}
}

// Bind makes the target the destination of drawing, with a viewport
// covering all of it. Every Bind must be paired with [RenderTarget.Unbind].
func (rt *RenderTarget) Bind() error {
	if rt.state != Allocated {
		return ErrNoTarget
	}
	if rt.bound {
		return ErrBound
	}
	rt.device.BindFramebuffer(rt.Framebuffer)
	rt.device.SetViewport(image.Rectangle{Max: rt.Size})
	rt.bound = true
	return nil
}

// Unbind restores drawing to the window.
func (rt *RenderTarget) Unbind() error {
	if !rt.bound {
		return ErrNotBound
	}
	rt.device.BindFramebuffer(0)
	rt.bound = false
	return nil
}

// Release deletes all resources, unbinding first if needed.
func (rt *RenderTarget) Release() {
	if rt.bound {
		errors.Log(rt.Unbind())
	}
	rt.release()
	rt.state = Released
}

// BufferSize returns the size of the offscreen buffer for a window of
// the given size rendered at the given scale. Each dimension is
// trunc(scale * window), and never less than the window dimension.
// Scales below 1 or not finite are treated as 1.
func BufferSize(window image.Point, scale float32) image.Point {
	if !math32.IsFinite(scale) || scale < 1 {
		scale = 1
	}
	dim := func(w int) int {
		return max(w, int(float64(scale)*float64(w)))
	}
	return image.Pt(dim(window.X), dim(window.Y))
}

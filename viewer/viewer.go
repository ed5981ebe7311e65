// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer composes the head-mounted display pipeline: each tick,
// [Viewer.Update] integrates input into the head pose and returns a
// [FrameState] snapshot, which [Viewer.Render] then draws to each
// surface. The scene is rendered into an offscreen buffer, one viewport
// per eye, which is then presented through the lens distortion pass.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/distort"
	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/motion"
	"cogentcore.org/hmdview/stereo"
	"cogentcore.org/hmdview/tune"
	"cogentcore.org/hmdview/view"
)

// Standing and crouching eye heights, in meters.
const (
	StandingHeight = 1.78
	CrouchHeight   = 0.6
)

// ClearColor is the background color of the scene.
var ClearColor = color.RGBA{R: 77, G: 102, B: 128, A: 0}

// Scene is the content drawn in the views. RenderForEye is called once
// per eye in stereo modes, and once per surface otherwise, with the
// offscreen buffer bound and the viewport set.
type Scene interface {
	RenderForEye(view, projection *math32.Matrix4)
}

// AvatarRenderer is implemented by scenes that can draw the user's head
// in the third person control view. The avatar matrix places the head in
// world space, and aspect is that of one eye, for drawing the view frustum.
type AvatarRenderer interface {
	RenderAvatar(view, projection, avatar *math32.Matrix4, aspect float32)
}

// Options are the options for [New].
type Options struct {

	// Device is the GPU device; required.
	Device gpu.Device

	// WarpProgram and PresentProgram are the compiled programs for the
	// distortion pass, from the shaders of package distort.
	WarpProgram    gpu.Program
	PresentProgram gpu.Program

	// HMD is the head-mounted display, or nil for none.
	HMD hmd.Device

	// Window is the size of the HMD surface.
	Window image.Point

	// Control is the rectangle of the control surface in window
	// coordinates; empty for none.
	Control image.Rectangle

	// Mode is the initial display mode.
	Mode DisplayModes

	// Scene is the scene to draw; required.
	Scene Scene

	// Queue, if set, has tunable edits from other goroutines, which are
	// applied at the start of each [Viewer.Update].
	Queue *tune.Queue

	// Registry, if set, is updated with the tunables after each [Viewer.Update].
	Registry *tune.Registry
}

// FrameState is the state of one tick, from which all surfaces are
// drawn, so that they are consistent with each other.
type FrameState struct {
	State motion.State
	Views view.Views
	Mode  DisplayModes

	// Eyes are the render parameters of each eye.
	Eyes [hmd.EyeN]stereo.EyeParams

	// Monitor are the monitor projections of each surface.
	Monitor [SurfacesN]math32.Matrix4

	// Surfaces are the rectangles of each surface in window coordinates.
	Surfaces [SurfacesN]image.Rectangle

	// Distortion is a copy of the distortion parameters.
	Distortion distort.Params

	// Aspect is the aspect ratio of one eye.
	Aspect float32

	// SceneInControl is whether the scene is drawn on the control surface.
	SceneInControl bool

	// MegaPixels is the number of pixels drawn per eye pair, in units of 2^20.
	MegaPixels float32

	// FPS is the frame rate measured over the last second.
	FPS float32
}

// eyeKey is what the cached eye parameters depend on.
type eyeKey struct {
	buffer image.Point
	gutter int
	opts   stereo.Options
}

// Viewer drives the head-mounted display pipeline. It must only be used
// from the goroutine that owns the graphics context.
type Viewer struct {

	// Tunables are the live parameters.
	Tunables Tunables

	// Geometry is the display geometry for the session.
	Geometry hmd.Geometry

	// Mode is the display mode of the HMD surface.
	Mode DisplayModes

	// State is the head pose.
	State motion.State

	Integrator *motion.Integrator
	Assembler  *view.Assembler
	Stereo     stereo.Stereo
	Target     *gpu.RenderTarget
	Compositor *distort.Compositor
	Scene      Scene
	Device     gpu.Device
	Queue      *tune.Queue
	Registry   *tune.Registry

	surfaces [SurfacesN]image.Rectangle

	// scale is the buffer scale the target was last allocated for.
	scale float32

	eyes    [hmd.EyeN]stereo.EyeParams
	eyesKey eyeKey
	eyesOK  bool

	// reported is whether the missing target has been logged since the
	// last allocation attempt.
	reported bool

	fps       float32
	fpsFrames int
	fpsTime   float32
}

// New returns a new [Viewer] for the given options, with the offscreen
// target allocated. A missing HMD is not an error: the default geometry
// is used with no orientation sensor. A failed target allocation is
// logged, and retried on the next resize or change of buffer scale.
func New(opts Options) (*Viewer, error) {
	if opts.Device == nil {
		return nil, errors.New("viewer: no GPU device")
	}
	if opts.Scene == nil {
		return nil, errors.New("viewer: no scene")
	}
	if opts.Mode < 0 || opts.Mode >= DisplayModesN {
		return nil, fmt.Errorf("viewer: invalid display mode %v", opts.Mode)
	}
	g, src := hmd.Open(opts.HMD)
	v := &Viewer{
		Geometry:   g,
		Mode:       opts.Mode,
		State:      motion.InitialState(),
		Integrator: motion.NewIntegrator(src),
		Assembler:  view.NewAssembler(),
		Target:     gpu.NewRenderTarget(opts.Device),
		Compositor: distort.NewCompositor(opts.Device, opts.WarpProgram, opts.PresentProgram),
		Scene:      opts.Scene,
		Device:     opts.Device,
		Queue:      opts.Queue,
		Registry:   opts.Registry,
	}
	v.Tunables = DefaultTunables(g)
	v.Stereo = stereo.Derive(g, v.Tunables.Stereo)
	v.surfaces[HMD] = image.Rectangle{Max: opts.Window}
	v.surfaces[Control] = opts.Control
	v.allocate()
	if v.Registry != nil {
		v.Registry.Publish(&v.Tunables, tune.Info{Name: "FPS"})
	}
	slog.Info("viewer: started", "mode", v.Mode, "sensor", src.Kind(), "buffer", v.bufferSize())
	return v, nil
}

// bufferSize returns the size of the offscreen buffer for the current
// window and buffer scale.
func (v *Viewer) bufferSize() image.Point {
	return gpu.BufferSize(v.surfaces[HMD].Size(), v.Tunables.Distortion.BufferScale)
}

// allocate sizes the target for the current window and buffer scale.
func (v *Viewer) allocate() {
	v.scale = v.Tunables.Distortion.BufferScale
	v.reported = false
	errors.Log(v.Target.SetSize(v.bufferSize()))
}

// Update advances the viewer by dt seconds with the given inputs and
// returns the state to draw. Queued tunable edits are applied first and
// the tunables are clamped to their bounds. The target is reallocated
// before returning if the buffer scale changed.
func (v *Viewer) Update(dt float32, in motion.Inputs) FrameState {
	if v.Queue != nil {
		v.Queue.Apply(&v.Tunables)
	}
	if changed := tune.Clamp(&v.Tunables); len(changed) > 0 {
		slog.Debug("viewer: clamped tunables", "fields", changed)
	}
	t := &v.Tunables

	v.Integrator.MoveSpeed = t.MoveSpeed
	v.Assembler.Head = t.Head
	v.Assembler.FollowCam = t.FollowCam
	v.Integrator.Step(&v.State, dt, in)

	if t.Distortion.BufferScale != v.scale {
		v.allocate()
	}
	v.refreshEyes()
	v.countFrame(dt)
	if v.Registry != nil {
		v.Registry.Publish(t, tune.Info{Name: "FPS", Value: float64(v.fps)})
	}

	fs := FrameState{
		State:          v.State,
		Views:          v.Assembler.Assemble(v.State),
		Mode:           v.Mode,
		Eyes:           v.eyes,
		Surfaces:       v.surfaces,
		Distortion:     t.Distortion,
		Aspect:         v.Stereo.Aspect,
		SceneInControl: t.SceneInControl,
		MegaPixels:     stereo.MegaPixels(v.eyesKey.buffer, v.eyesKey.gutter),
		FPS:            v.fps,
	}
	for s := Surfaces(0); s < SurfacesN; s++ {
		fs.Monitor[s] = stereo.MonitorProjection(t.ViewAngle, v.surfaces[s].Size(), stereo.MonitorNear, stereo.MonitorFar)
	}
	return fs
}

// FPSWindow is the time in seconds over which the frame rate is measured.
const FPSWindow = 1

// countFrame counts a frame of dt seconds toward the frame rate, which
// is updated once per [FPSWindow].
func (v *Viewer) countFrame(dt float32) {
	if !math32.IsFinite(dt) || dt < 0 {
		return
	}
	v.fpsFrames++
	v.fpsTime += dt
	if v.fpsTime >= FPSWindow {
		v.fps = float32(v.fpsFrames) / v.fpsTime
		v.fpsFrames = 0
		v.fpsTime = 0
	}
}

// FPS returns the frame rate measured over the last [FPSWindow].
func (v *Viewer) FPS() float32 { return v.fps }

// refreshEyes recomputes the eye parameters if anything they depend on changed.
func (v *Viewer) refreshEyes() {
	key := eyeKey{buffer: v.bufferSize(), gutter: v.Tunables.Gutter, opts: v.Tunables.Stereo}
	if v.Target.State() == gpu.Allocated {
		key.buffer = v.Target.Size
	}
	if v.eyesOK && key == v.eyesKey {
		return
	}
	if key.opts != v.eyesKey.opts || !v.eyesOK {
		v.Stereo = stereo.Derive(v.Geometry, key.opts)
	}
	for _, eye := range hmd.Eyes {
		v.eyes[eye] = v.Stereo.Eye(eye, key.buffer, key.gutter)
	}
	v.eyesKey = key
	v.eyesOK = true
}

// Render draws the given frame state to the given surface. The HMD
// surface is drawn in the current display mode and the control surface
// always shows the control view. It returns [gpu.ErrNoTarget], after
// logging it once, when the offscreen target could not be allocated.
func (v *Viewer) Render(fs *FrameState, s Surfaces) error {
	rect := fs.Surfaces[s]
	if rect.Empty() {
		return nil
	}
	d := v.Device
	mode := fs.Mode
	if s == Control {
		mode = SingleEye
		if !fs.SceneInControl {
			d.BindFramebuffer(0)
			d.SetViewport(rect)
			d.SetScissor(rect)
			d.Clear(ClearColor, false)
			d.DisableScissor()
			return nil
		}
	}
	if err := v.Target.Bind(); err != nil {
		if errors.Is(err, gpu.ErrNoTarget) && !v.reported {
			slog.Error("viewer: no offscreen target, skipping presentation", "surface", s)
			v.reported = true
		}
		return fmt.Errorf("viewer: rendering %v: %w", s, err)
	}
	d.SetDepthTest(true)
	d.Clear(ClearColor, true)
	if mode == SingleEye {
		v.drawMonitor(fs, s)
	} else {
		v.drawStereo(fs)
	}
	errors.Log(v.Target.Unbind())

	d.SetViewport(rect)
	pm := distort.Undistorted
	if mode == StereoWithDistortion {
		pm = distort.Distorted
	}
	return v.Compositor.Present(v.Target, &fs.Distortion, pm)
}

func (v *Viewer) drawStereo(fs *FrameState) {
	d := v.Device
	for _, eye := range hmd.Eyes {
		ep := &fs.Eyes[eye]
		d.SetViewport(ep.Viewport)
		d.SetScissor(ep.Scissor)
		view := ep.View(fs.Views.Immersive)
		proj := ep.Projection
		v.Scene.RenderForEye(&view, &proj)
	}
	d.DisableScissor()
}

func (v *Viewer) drawMonitor(fs *FrameState, s Surfaces) {
	view := fs.Views.Control
	proj := fs.Monitor[s]
	v.Scene.RenderForEye(&view, &proj)
	if ar, ok := v.Scene.(AvatarRenderer); ok {
		avatar := fs.Views.Avatar
		ar.RenderAvatar(&view, &proj, &avatar, fs.Aspect)
	}
}

// Resize sets the size of the HMD surface and reallocates the target.
func (v *Viewer) Resize(window image.Point) {
	v.surfaces[HMD] = image.Rectangle{Max: window}
	v.allocate()
}

// SetControl sets the rectangle of the control surface in window
// coordinates. An empty rectangle hides it.
func (v *Viewer) SetControl(r image.Rectangle) {
	v.surfaces[Control] = r
}

// SetMode sets the display mode of the HMD surface.
func (v *Viewer) SetMode(m DisplayModes) error {
	if m < 0 || m >= DisplayModesN {
		return fmt.Errorf("viewer: invalid display mode %v", m)
	}
	v.Mode = m
	return nil
}

// ResetEyePosition returns the head to its initial pose.
func (v *Viewer) ResetEyePosition() {
	v.State = motion.InitialState()
}

// ResetDistortion restores the distortion parameters derived from the
// geometry, discarding any edits. The target follows on the next Update.
func (v *Viewer) ResetDistortion() {
	v.Tunables.Distortion.Reset(v.Geometry)
}

// SetCrouch lowers the eye to crouching height, or raises it back to
// standing height.
func (v *Viewer) SetCrouch(crouch bool) {
	if crouch {
		v.State.Pos.Y = CrouchHeight
	} else {
		v.State.Pos.Y = StandingHeight
	}
}

// ZoomFollowCam moves the control camera in or out by a mouse wheel delta.
func (v *Viewer) ZoomFollowCam(delta float32) {
	v.Assembler.FollowCam = v.Tunables.FollowCam
	v.Assembler.Zoom(delta)
	v.Tunables.FollowCam = v.Assembler.FollowCam
}

// ToggleSceneInControl switches drawing the scene on the control surface.
func (v *Viewer) ToggleSceneInControl() {
	v.Tunables.SceneInControl = !v.Tunables.SceneInControl
}

// Release frees the GPU resources of the viewer.
func (v *Viewer) Release() {
	v.Target.Release()
}

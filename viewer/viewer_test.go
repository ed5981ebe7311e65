// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"fmt"
	"image"
	"testing"

	"cogentcore.org/hmdview/distort"
	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/gpu/gputest"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/motion"
	"cogentcore.org/hmdview/tune"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScene struct {
	views, projs []math32.Matrix4
}

func (s *testScene) RenderForEye(view, projection *math32.Matrix4) {
	s.views = append(s.views, *view)
	s.projs = append(s.projs, *projection)
}

type avatarScene struct {
	testScene
	avatars []math32.Matrix4
	aspect  float32
}

func (s *avatarScene) RenderAvatar(view, projection, avatar *math32.Matrix4, aspect float32) {
	s.avatars = append(s.avatars, *avatar)
	s.aspect = aspect
}

const (
	warpProgram    gpu.Program = 7
	presentProgram gpu.Program = 8
)

var window = image.Pt(1280, 800)

func newViewer(t *testing.T, sc Scene, mode DisplayModes) (*Viewer, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	v, err := New(Options{
		Device:         dev,
		WarpProgram:    warpProgram,
		PresentProgram: presentProgram,
		Window:         window,
		Control:        image.Rect(0, 0, 320, 200),
		Mode:           mode,
		Scene:          sc,
		Queue:          &tune.Queue{},
		Registry:       &tune.Registry{},
	})
	require.NoError(t, err)
	return v, dev
}

func TestNew(t *testing.T) {
	_, err := New(Options{Scene: &testScene{}})
	assert.Error(t, err)
	_, err = New(Options{Device: gputest.NewDevice()})
	assert.Error(t, err)
	_, err = New(Options{Device: gputest.NewDevice(), Scene: &testScene{}, Mode: DisplayModesN})
	assert.Error(t, err)

	v, dev := newViewer(t, &testScene{}, StereoWithDistortion)
	assert.Equal(t, hmd.DefaultGeometry(), v.Geometry)
	assert.Equal(t, hmd.NoneFallback, v.Integrator.Source.Kind())
	assert.Equal(t, gpu.Allocated, v.Target.State())
	assert.Equal(t, gpu.BufferSize(window, v.Tunables.Distortion.BufferScale), v.Target.Size)
	assert.Greater(t, v.Target.Size.X, window.X)
	assert.Equal(t, 3, dev.Live())
	assert.NotEmpty(t, v.Registry.Snapshot())

	v.Release()
	assert.Equal(t, gpu.Released, v.Target.State())
	assert.Zero(t, dev.Live())
}

func TestUpdateNoInput(t *testing.T) {
	v, _ := newViewer(t, &testScene{}, StereoWithDistortion)
	for _, dt := range []float32{0, 0.016, 1, 100} {
		fs := v.Update(dt, motion.Inputs{})
		assert.Equal(t, motion.InitialState(), fs.State)
	}
}

func TestRenderStereoWithDistortion(t *testing.T) {
	sc := &testScene{}
	v, dev := newViewer(t, sc, StereoWithDistortion)
	v.Tunables.Gutter = 10
	fs := v.Update(0.016, motion.Inputs{})
	dev.Reset()
	require.NoError(t, v.Render(&fs, HMD))

	require.Len(t, sc.views, 2)
	assert.Equal(t, fs.Eyes[hmd.Left].View(fs.Views.Immersive), sc.views[0])
	assert.Equal(t, fs.Eyes[hmd.Right].View(fs.Views.Immersive), sc.views[1])
	assert.NotEqual(t, sc.views[0], sc.views[1])
	assert.Equal(t, v.Stereo.Projection(hmd.Left), sc.projs[0])

	half := v.Target.Size.X / 2
	assert.Equal(t, image.Rect(0, 0, half, v.Target.Size.Y), fs.Eyes[hmd.Left].Viewport)
	assert.Equal(t, image.Rect(half, 0, 2*half, v.Target.Size.Y), fs.Eyes[hmd.Right].Viewport)
	assert.Contains(t, dev.Calls, "SetScissor "+fs.Eyes[hmd.Left].Viewport.Inset(10).String())
	assert.Contains(t, dev.Calls, "SetScissor "+fs.Eyes[hmd.Right].Viewport.Inset(10).String())

	require.Len(t, dev.Draws, 2)
	for _, d := range dev.Draws {
		assert.Equal(t, warpProgram, d.Program)
		assert.Equal(t, gpu.Framebuffer(0), d.Framebuffer)
		assert.Equal(t, v.Target.Color, d.Texture)
		assert.Equal(t, image.Rectangle{Max: window}, d.Viewport)
	}
	assert.False(t, v.Target.IsBound())
	assert.False(t, dev.ScissorOn)
}

func TestRenderModes(t *testing.T) {
	sc := &avatarScene{}
	v, dev := newViewer(t, sc, Stereo)
	fs := v.Update(0, motion.Inputs{})
	dev.Reset()
	require.NoError(t, v.Render(&fs, HMD))
	assert.Len(t, sc.views, 2)
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, presentProgram, dev.Draws[0].Program)
	assert.Empty(t, sc.avatars)

	require.NoError(t, v.SetMode(SingleEye))
	assert.Error(t, v.SetMode(-1))
	fs = v.Update(0, motion.Inputs{})
	sc.views = nil
	require.NoError(t, v.Render(&fs, HMD))
	require.Len(t, sc.views, 1)
	assert.Equal(t, fs.Views.Control, sc.views[0])
	assert.Equal(t, fs.Monitor[HMD], sc.projs[0])
	require.Len(t, sc.avatars, 1)
	assert.Equal(t, fs.Views.Avatar, sc.avatars[0])
	assert.InDelta(t, 0.8, sc.aspect, 1e-6)
}

func TestRenderControl(t *testing.T) {
	sc := &testScene{}
	v, dev := newViewer(t, sc, StereoWithDistortion)
	fs := v.Update(0, motion.Inputs{})
	dev.Reset()
	require.NoError(t, v.Render(&fs, Control))
	require.Len(t, sc.views, 1)
	assert.Equal(t, fs.Views.Control, sc.views[0])
	require.Len(t, dev.Draws, 1)
	assert.Equal(t, presentProgram, dev.Draws[0].Program)
	assert.Equal(t, image.Rect(0, 0, 320, 200), dev.Draws[0].Viewport)

	v.ToggleSceneInControl()
	fs = v.Update(0, motion.Inputs{})
	dev.Reset()
	sc.views = nil
	require.NoError(t, v.Render(&fs, Control))
	assert.Empty(t, sc.views)
	assert.Empty(t, dev.Draws)
	assert.Contains(t, dev.Calls, fmt.Sprintf("Clear %v false", ClearColor))

	v.SetControl(image.Rectangle{})
	fs = v.Update(0, motion.Inputs{})
	dev.Reset()
	require.NoError(t, v.Render(&fs, Control))
	assert.Empty(t, dev.Calls)
}

func TestSnapshotConsistency(t *testing.T) {
	v, _ := newViewer(t, &testScene{}, StereoWithDistortion)
	fs := v.Update(0.016, motion.Inputs{Keyboard: motion.Vectors{Move: math32.Vec3(0, 0, -1)}})
	state := fs.State
	dist := fs.Distortion

	v.Queue.Push(tune.Edit{Name: "Distortion.LensOffset", Value: 0.1})
	v.Update(0.016, motion.Inputs{Keyboard: motion.Vectors{Move: math32.Vec3(0, 0, -1)}})
	assert.Equal(t, state, fs.State)
	assert.Equal(t, dist, fs.Distortion)
	assert.NotEqual(t, state.Pos, v.State.Pos)
	assert.InDelta(t, 0.1, v.Tunables.Distortion.LensOffset, 1e-6)
}

func TestEditsThenReset(t *testing.T) {
	v, dev := newViewer(t, &testScene{}, StereoWithDistortion)
	v.Queue.Push(
		tune.Edit{Name: "Distortion.K.1", Value: 0.5},
		tune.Edit{Name: "Distortion.Scale.X", Value: 0.3},
		tune.Edit{Name: "Distortion.BufferScale", Value: 2},
		tune.Edit{Name: "Distortion.LensOffset", Value: 5}, // clamped
		tune.Edit{Name: "NoSuchField", Value: 1},
	)
	fs := v.Update(0, motion.Inputs{})
	assert.Equal(t, float32(0.5), fs.Distortion.K[1])
	assert.Equal(t, float32(0.25), fs.Distortion.LensOffset)
	assert.Equal(t, image.Pt(2560, 1600), v.Target.Size)
	assert.Equal(t, 3, dev.Live())
	assert.Equal(t, image.Pt(1280, 1600), fs.Eyes[hmd.Right].Viewport.Size())

	v.ResetDistortion()
	fs = v.Update(0, motion.Inputs{})
	assert.Equal(t, *distort.Defaults(), v.Tunables.Distortion)
	assert.Equal(t, *distort.Defaults(), fs.Distortion)
	assert.Equal(t, gpu.BufferSize(window, distort.Defaults().BufferScale), v.Target.Size)
	assert.Equal(t, 3, dev.Live())
}

func TestFlatten(t *testing.T) {
	v, _ := newViewer(t, &testScene{}, StereoWithDistortion)
	fs := v.Update(0, motion.Inputs{})
	assert.NotEqual(t, fs.Eyes[hmd.Left].View(fs.Views.Immersive), fs.Eyes[hmd.Right].View(fs.Views.Immersive))

	v.Queue.Push(tune.Edit{Name: "Stereo.Flatten", Value: 1})
	fs = v.Update(0, motion.Inputs{})
	assert.Equal(t, fs.Eyes[hmd.Left].View(fs.Views.Immersive), fs.Eyes[hmd.Right].View(fs.Views.Immersive))
	assert.Zero(t, v.Stereo.HalfIPD)
}

func TestAllocationFailure(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailFramebuffer = true
	sc := &testScene{}
	v, err := New(Options{Device: dev, Window: window, Mode: StereoWithDistortion, Scene: sc})
	require.NoError(t, err)
	assert.Equal(t, gpu.Released, v.Target.State())
	assert.Zero(t, dev.Live())

	fs := v.Update(0, motion.Inputs{})
	assert.ErrorIs(t, v.Render(&fs, HMD), gpu.ErrNoTarget)
	assert.Empty(t, sc.views)
	assert.Empty(t, dev.Draws)

	dev.FailFramebuffer = false
	fs = v.Update(0, motion.Inputs{})
	assert.ErrorIs(t, v.Render(&fs, HMD), gpu.ErrNoTarget, "no retry until resize")

	v.Resize(image.Pt(1000, 600))
	assert.Equal(t, gpu.Allocated, v.Target.State())
	fs = v.Update(0, motion.Inputs{})
	assert.NoError(t, v.Render(&fs, HMD))
	assert.Equal(t, image.Rect(0, 0, 1000, 600), fs.Surfaces[HMD])
}

func TestPoseControls(t *testing.T) {
	v, _ := newViewer(t, &testScene{}, StereoWithDistortion)
	v.SetCrouch(true)
	assert.Equal(t, float32(CrouchHeight), v.State.Pos.Y)
	v.SetCrouch(false)
	assert.Equal(t, float32(StandingHeight), v.State.Pos.Y)

	v.ZoomFollowCam(10)
	assert.InDelta(t, 4, v.Tunables.FollowCam.Z, 1e-6)
	assert.InDelta(t, 0.8, v.Tunables.FollowCam.Y, 1e-6)
	fs := v.Update(0, motion.Inputs{})
	assert.Equal(t, v.Tunables.FollowCam, v.Assembler.FollowCam)
	assert.NotEqual(t, fs.Views.Control, fs.Views.Immersive)

	v.Update(1, motion.Inputs{Mouse: motion.Vectors{Rotate: math32.Vec3(1, 100, 0)}})
	assert.InDelta(t, -motion.PitchLimit, v.State.Pitch, 1e-6)
	v.ResetEyePosition()
	assert.Equal(t, motion.InitialState(), v.State)
}

func TestFrameRate(t *testing.T) {
	v, _ := newViewer(t, &testScene{}, StereoWithDistortion)
	fpsInfo := func() tune.Info {
		infos := v.Registry.Snapshot()
		return infos[len(infos)-1]
	}
	assert.Equal(t, tune.Info{Name: "FPS", ReadOnly: true}, fpsInfo())

	var fs FrameState
	for i := 0; i < 90; i++ {
		fs = v.Update(1.0/60, motion.Inputs{})
	}
	assert.InDelta(t, 60, fs.FPS, 0.5)
	assert.Equal(t, fs.FPS, v.FPS())
	assert.InDelta(t, 60, fpsInfo().Value, 0.5)
	assert.True(t, fpsInfo().ReadOnly)

	v.Update(math32.NaN(), motion.Inputs{})
	assert.InDelta(t, 60, v.FPS(), 0.5)

	// remote edits cannot change it
	v.Queue.Push(tune.Edit{Name: "FPS", Value: 1000})
	fs = v.Update(0, motion.Inputs{})
	assert.InDelta(t, 60, fs.FPS, 0.5)
}

func TestDisplayModesText(t *testing.T) {
	var m DisplayModes
	require.NoError(t, m.UnmarshalText([]byte("stereowithdistortion")))
	assert.Equal(t, StereoWithDistortion, m)
	b, err := Stereo.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Stereo", string(b))
	assert.Error(t, m.Set("TripleEye"))
	assert.Equal(t, "DisplayModes(9)", DisplayModes(9).String())
	assert.Equal(t, "Control", Control.String())
	assert.Equal(t, "Surfaces(5)", Surfaces(5).String())
	assert.Equal(t, "mode", m.Type())
}

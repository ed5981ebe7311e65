// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/config"
	"cogentcore.org/hmdview/distort"
	"cogentcore.org/hmdview/gpu"
	"cogentcore.org/hmdview/gpu/glgpu"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/input"
	"cogentcore.org/hmdview/motion"
	"cogentcore.org/hmdview/tune"
	"cogentcore.org/hmdview/viewer"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// glfw and OpenGL must be called from the main thread.
	runtime.LockOSThread()
}

// app is the running viewer with its window and input state.
type app struct {
	cfg    *config.Config
	win    *glfw.Window
	dev    *glgpu.Device
	viewer *viewer.Viewer
	scene  *gridScene

	queue    tune.Queue
	registry tune.Registry

	mouse   input.Mouse
	keys    input.Keyboard
	gamepad input.Gamepad
	padName string
}

// compileDistortion compiles the warp and present programs.
func compileDistortion(dev *glgpu.Device) (warp, present gpu.Program, err error) {
	src := func(name string) string {
		if err != nil {
			return ""
		}
		var s string
		s, err = distort.Shader(name)
		return s
	}
	wv, wf := src("warp.vert"), src("warp.frag")
	pv, pf := src("present.vert"), src("present.frag")
	if err != nil {
		return
	}
	if warp, err = dev.Compile("warp", wv, wf); err != nil {
		return
	}
	present, err = dev.Compile("present", pv, pf)
	return
}

// run opens the window and runs the viewer until the window is closed.
func run(cfg *config.Config) error {
	var dev hmd.Device
	if cfg.Recording != "" {
		rec, err := hmd.OpenRecording(cfg.Recording)
		if err != nil {
			return err
		}
		dev = rec
	}

	if err := glgpu.Init(); err != nil {
		return err
	}
	defer glgpu.Terminate()
	win, err := glgpu.CreateWindow(glgpu.WindowOptions{
		Title:      "hmdview",
		Size:       cfg.Window(),
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	a := &app{cfg: cfg, win: win}
	a.dev, err = glgpu.NewDevice()
	if err != nil {
		return err
	}
	defer a.dev.Release()
	warp, present, err := compileDistortion(a.dev)
	if err != nil {
		return err
	}
	defer a.dev.DeleteProgram(warp)
	defer a.dev.DeleteProgram(present)
	a.scene, err = newGridScene(a.dev)
	if err != nil {
		return err
	}
	defer a.scene.release()

	size := glgpu.FramebufferSize(win)
	a.viewer, err = viewer.New(viewer.Options{
		Device:         a.dev,
		WarpProgram:    warp,
		PresentProgram: present,
		HMD:            dev,
		Window:         size,
		Control:        cfg.ControlRect(size),
		Mode:           cfg.Mode,
		Scene:          a.scene,
		Queue:          &a.queue,
		Registry:       &a.registry,
	})
	if err != nil {
		return err
	}
	defer a.viewer.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Tunables != "" {
		w, err := tune.Watch(cfg.Tunables, &a.queue)
		if err != nil {
			return fmt.Errorf("watching tunables: %w", err)
		}
		defer w.Close()
	}
	if cfg.Listen != "" {
		srv := tune.NewServer(&a.queue, &a.registry)
		go func() {
			errors.Log(srv.ListenAndServe(ctx, cfg.Listen))
		}()
	}

	a.setCallbacks()
	a.loop()
	return nil
}

func (a *app) setCallbacks() {
	a.win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		size := glgpu.FramebufferSize(w)
		a.viewer.Resize(size)
		a.viewer.SetControl(a.cfg.ControlRect(size))
	})
	a.win.SetKeyCallback(a.key)
	a.win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			a.mouse.Release()
			return
		}
		switch button {
		case glfw.MouseButtonLeft:
			a.mouse.Press(input.LeftButton)
		case glfw.MouseButtonRight:
			a.mouse.Press(input.RightButton)
		}
	})
	a.win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		a.mouse.Move(float32(x), float32(y))
	})
	a.win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		a.viewer.ZoomFollowCam(float32(yoff))
	})
}

func (a *app) key(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	down := action == glfw.Press
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		a.keys.Set(rune('A'+key-glfw.KeyA), down)
	}
	switch key {
	case glfw.KeyLeftShift:
		a.viewer.SetCrouch(down)
		return
	}
	if !down {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyZ:
		a.viewer.ToggleSceneInControl()
	case glfw.KeyR:
		a.viewer.ResetEyePosition()
	case glfw.KeyBackspace:
		a.viewer.ResetDistortion()
	case glfw.Key1, glfw.Key2, glfw.Key3:
		errors.Log(a.viewer.SetMode(viewer.DisplayModes(key - glfw.Key1)))
		slog.Info("display mode", "mode", a.viewer.Mode)
	}
}

// pollGamepad returns the gamepad vectors, or zero if none is connected.
func (a *app) pollGamepad() motion.Vectors {
	joy := glfw.Joystick(a.cfg.Gamepad)
	if !joy.Present() {
		a.padName = ""
		return motion.Vectors{}
	}
	axes := joy.GetAxes()
	acts := joy.GetButtons()
	buttons := make([]bool, len(acts))
	for i, act := range acts {
		buttons[i] = act == glfw.Press
	}
	if name := joy.GetName(); name != a.padName {
		a.padName = name
		a.gamepad.SwapAxes = input.SwapAxesFor(len(axes), len(buttons))
		slog.Info("gamepad connected", "name", name, "axes", len(axes), "buttons", len(buttons))
	}
	return a.gamepad.Decode(axes, buttons)
}

// loop ticks then draws, once per frame.
func (a *app) loop() {
	last := glfw.GetTime()
	for !a.win.ShouldClose() {
		glfw.PollEvents()
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		in := motion.Inputs{
			Gamepad:  a.pollGamepad(),
			Mouse:    a.mouse.Vectors(),
			Keyboard: a.keys.Vectors(),
		}
		fs := a.viewer.Update(dt, in)
		a.scene.Phase += dt

		for _, s := range []viewer.Surfaces{viewer.HMD, viewer.Control} {
			if err := a.viewer.Render(&fs, s); err != nil && !errors.Is(err, gpu.ErrNoTarget) {
				slog.Error("render", "surface", s, "err", err)
			}
		}
		a.win.SwapBuffers()
	}
}

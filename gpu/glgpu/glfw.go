// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !offscreen && ((darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd)

package glgpu

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/hmdview/base/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// note: this file contains the glfw dependencies, for desktop platform builds.

// Init initializes glfw. Must be called before creating any windows.
// IMPORTANT: must be called on the main initial thread!
func Init() error {
	return errors.Log(glfw.Init())
}

// Terminate shuts down glfw; call as the last thing before quitting.
// IMPORTANT: must be called on the main initial thread!
func Terminate() {
	glfw.Terminate()
}

// WindowOptions are the options for [CreateWindow].
type WindowOptions struct {
	Title string
	Size  image.Point

	// Fullscreen opens the window fullscreen on the last monitor, which
	// is where an HMD is usually attached as an extended display.
	Fullscreen bool

	// VSync synchronizes buffer swaps with the display refresh.
	VSync bool
}

// CreateWindow creates a window with an OpenGL 4.1 core context and
// makes the context current. [Init] must have been called.
func CreateWindow(opts WindowOptions) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	size := opts.Size
	var monitor *glfw.Monitor
	if opts.Fullscreen {
		if mons := glfw.GetMonitors(); len(mons) > 0 {
			monitor = mons[len(mons)-1]
			mode := monitor.GetVideoMode()
			size = image.Pt(mode.Width, mode.Height)
			slog.Info("glgpu: fullscreen", "monitor", monitor.GetName(), "size", size)
		}
	}
	win, err := glfw.CreateWindow(size.X, size.Y, opts.Title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("glgpu: creating window: %w", err)
	}
	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return win, nil
}

// FramebufferSize returns the size of the framebuffer of the window in
// pixels, which differs from the window size on high density displays.
func FramebufferSize(win *glfw.Window) image.Point {
	w, h := win.GetFramebufferSize()
	return image.Pt(w, h)
}

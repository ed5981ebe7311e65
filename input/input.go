// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package input decodes raw gamepad, mouse, and keyboard state into the
// normalized per-source [motion.Vectors] consumed by the integrator.
// Deadzones and sensitivities are applied here.
package input

import (
	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/motion"
)

// signedSquare returns x*x with the sign of x, for a finer response near zero.
func signedSquare(x float32) float32 {
	if x > 0 {
		return x * x
	}
	return -x * x
}

// Deadzone is the stick magnitude below which an axis reads as zero.
const Deadzone = 0.2

// Gamepad decodes joystick axes and buttons.
type Gamepad struct {

	// SwapAxes swaps the right stick axes and remaps the face buttons,
	// for pads that report them in the other order.
	SwapAxes bool
}

// SwapAxesFor reports whether a pad with the given counts of axes and
// buttons uses the swapped layout.
func SwapAxesFor(numAxes, numButtons int) bool {
	return numAxes == 4 && numButtons == 12
}

func deadzone(x float32) float32 {
	if math32.Abs(x) < Deadzone {
		return 0
	}
	return x
}

// Decode returns the rotate and move vectors for the given state.
// The left stick rotates; the right stick and the four face buttons move
// in the horizontal plane; the shoulder buttons move up and down.
// Two axis pads have only the left stick.
func (gp *Gamepad) Decode(axes []float32, buttons []bool) motion.Vectors {
	var v motion.Vectors
	if len(axes) >= 2 {
		lx, ly := deadzone(axes[0]), deadzone(axes[1])
		v.Rotate = math32.Vec3(2*lx, -2*ly, 0)
	}
	if len(axes) >= 4 {
		rx, ry := axes[2], axes[3]
		if gp.SwapAxes {
			rx, ry = ry, rx
		}
		rx, ry = deadzone(rx), deadzone(ry)
		v.Move = math32.Vec3(2*ry, 0, 2*rx)
	}
	if len(buttons) >= 4 {
		press := func(i int, val float32) float32 {
			if buttons[i] {
				return val
			}
			return 0
		}
		b := [4]float32{press(0, -1), press(1, -1), press(2, 1), press(3, 1)}
		if gp.SwapAxes {
			b[0], b[3] = -b[3], -b[0]
			b[2], b[1] = -b[1], -b[2]
		}
		x := b[0] + b[2]
		z := b[1] + b[3]
		v.Move.SetAdd(math32.Vec3(signedSquare(x), 0, -signedSquare(z)))

		if len(buttons) > 7 {
			up := press(4, 1) + press(5, 1) + press(6, -1) + press(7, -1)
			v.Move.SetAdd(math32.Vec3(0, signedSquare(up), 0))
		}
	}
	return v
}

// MouseButtons are the mouse buttons that drive the view.
type MouseButtons int32

const (
	// NoButton means no button is held.
	NoButton MouseButtons = iota

	// LeftButton drag rotates the view.
	LeftButton

	// RightButton drag moves the viewer.
	RightButton
)

// MouseThreshold is the drag distance in pixels that maps to a unit vector.
const MouseThreshold = 32

// Mouse decodes mouse drags. The vectors of the last drag stay in effect
// until the mouse moves again or the button is released.
type Mouse struct {
	button  MouseButtons
	x, y    float32
	vectors motion.Vectors
}

// Press records a button press at the current position.
func (m *Mouse) Press(b MouseButtons) {
	m.button = b
}

// Release records that all buttons are released, and stops any drag.
func (m *Mouse) Release() {
	m.button = NoButton
	m.vectors = motion.Vectors{}
}

// Move records a move of the pointer to x, y.
func (m *Mouse) Move(x, y float32) {
	rx := (x - m.x) / MouseThreshold
	ry := (y - m.y) / MouseThreshold
	m.x, m.y = x, y
	m.vectors = motion.Vectors{}
	switch m.button {
	case LeftButton:
		m.vectors.Rotate = math32.Vec3(rx, ry, 0)
	case RightButton:
		m.vectors.Move = math32.Vec3(signedSquare(rx), 0, signedSquare(ry))
	}
}

// Vectors returns the current mouse vectors.
func (m *Mouse) Vectors() motion.Vectors {
	return m.vectors
}

// Keyboard decodes held movement keys: W and S move forward and back,
// A and D move left and right, Q and E move down and up.
type Keyboard struct {
	held map[rune]bool
}

// Set records whether the given key is held. Letters are case insensitive.
func (kb *Keyboard) Set(key rune, down bool) {
	if kb.held == nil {
		kb.held = map[rune]bool{}
	}
	if key >= 'a' && key <= 'z' {
		key -= 'a' - 'A'
	}
	kb.held[key] = down
}

var keyMoves = map[rune]math32.Vector3{
	'W': {X: 0, Y: 0, Z: -1},
	'S': {X: 0, Y: 0, Z: 1},
	'A': {X: -1, Y: 0, Z: 0},
	'D': {X: 1, Y: 0, Z: 0},
	'Q': {X: 0, Y: -1, Z: 0},
	'E': {X: 0, Y: 1, Z: 0},
}

// Vectors returns the move vector for the held keys.
func (kb *Keyboard) Vectors() motion.Vectors {
	var v motion.Vectors
	for k, mv := range keyMoves {
		if kb.held[k] {
			v.Move.SetAdd(mv)
		}
	}
	return v
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package input

import (
	"testing"

	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/motion"
	"github.com/stretchr/testify/assert"
)

func TestGamepadDeadzone(t *testing.T) {
	gp := &Gamepad{}
	v := gp.Decode([]float32{0.1, -0.19, 0.05, 0.15}, nil)
	assert.Equal(t, motion.Vectors{}, v)

	v = gp.Decode([]float32{0.5, -0.5, 0.25, -1}, nil)
	assert.Equal(t, math32.Vec3(1, 1, 0), v.Rotate)
	assert.Equal(t, math32.Vec3(-2, 0, 0.5), v.Move)
}

func TestGamepadTwoAxes(t *testing.T) {
	gp := &Gamepad{}
	v := gp.Decode([]float32{0.5, 0.25}, nil)
	assert.Equal(t, math32.Vec3(1, -0.5, 0), v.Rotate)
	assert.Equal(t, math32.Vector3{}, v.Move)

	v = gp.Decode([]float32{0.5, 0.25, 1}, nil)
	assert.Equal(t, math32.Vec3(1, -0.5, 0), v.Rotate, "three axes")
	assert.Equal(t, math32.Vector3{}, v.Move)

	assert.Equal(t, motion.Vectors{}, gp.Decode([]float32{1}, nil))
}

func TestGamepadSwap(t *testing.T) {
	assert.True(t, SwapAxesFor(4, 12))
	assert.False(t, SwapAxesFor(5, 12))

	gp := &Gamepad{SwapAxes: true}
	v := gp.Decode([]float32{0, 0, 0.25, -1}, nil)
	assert.Equal(t, math32.Vec3(0.5, 0, -2), v.Move)
}

func TestGamepadButtons(t *testing.T) {
	gp := &Gamepad{}
	buttons := make([]bool, 8)
	buttons[0] = true // left
	v := gp.Decode(nil, buttons)
	assert.Equal(t, math32.Vec3(-1, 0, 0), v.Move)

	buttons = make([]bool, 8)
	buttons[3] = true // forward
	buttons[4] = true // up
	buttons[5] = true
	v = gp.Decode(nil, buttons)
	assert.Equal(t, math32.Vec3(0, 4, -1), v.Move)

	// fewer than 8 buttons: no shoulder buttons
	v = gp.Decode(nil, []bool{false, false, true, false, true})
	assert.Equal(t, math32.Vec3(1, 0, 0), v.Move)
}

func TestMouse(t *testing.T) {
	m := &Mouse{}
	m.Move(10, 10)
	assert.Equal(t, motion.Vectors{}, m.Vectors())

	m.Press(LeftButton)
	m.Move(42, -6)
	assert.Equal(t, math32.Vec3(1, -0.5, 0), m.Vectors().Rotate)
	assert.True(t, m.Vectors().Move.IsNil())

	m.Press(RightButton)
	m.Move(42+64, -6-16)
	assert.Equal(t, math32.Vec3(4, 0, -0.25), m.Vectors().Move)

	m.Release()
	assert.Equal(t, motion.Vectors{}, m.Vectors())
}

func TestKeyboard(t *testing.T) {
	kb := &Keyboard{}
	assert.Equal(t, motion.Vectors{}, kb.Vectors())
	kb.Set('w', true)
	kb.Set('D', true)
	assert.Equal(t, math32.Vec3(1, 0, -1), kb.Vectors().Move)
	kb.Set('W', false)
	kb.Set('S', true)
	kb.Set('E', true)
	assert.Equal(t, math32.Vec3(1, 1, 1), kb.Vectors().Move)
	kb.Set('A', true)
	kb.Set('D', false)
	kb.Set('Q', true)
	kb.Set('E', false)
	assert.Equal(t, math32.Vec3(-1, -1, 1), kb.Vectors().Move)
}

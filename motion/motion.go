// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package motion integrates head orientation samples and user input
// into the position and orientation of the viewer each tick.
package motion

import (
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
)

// PitchLimit is the largest pitch magnitude reachable from user input
// when no orientation sensor is active.
const PitchLimit float32 = math32.Pi / 2 * 0.98

// State is the position and orientation of the viewer's head pivot.
type State struct {

	// Yaw is the rotation about the world Y axis, in radians.
	Yaw float32

	// Pitch is the rotation about the local X axis, in radians.
	Pitch float32

	// Roll is the rotation about the local Z axis, in radians.
	Roll float32

	// Pos is the position of the head pivot in world space.
	Pos math32.Vector3
}

// InitialState returns the starting pose: standing five meters back
// from the origin at eye height, facing it.
func InitialState() State {
	return State{Yaw: math32.Pi, Pos: math32.Vec3(0, 1.78, -5)}
}

// Rotation returns RotationY(yaw) * RotationX(pitch) * RotationZ(roll).
func (s *State) Rotation() math32.Matrix4 {
	return math32.YawPitchRoll(s.Yaw, s.Pitch, s.Roll)
}

// Vectors are the normalized rotate and move vectors from one input
// source for one tick, with any deadzone already applied.
type Vectors struct {
	Rotate math32.Vector3
	Move   math32.Vector3
}

// Inputs are the per-source input vectors for one tick.
type Inputs struct {
	Gamepad  Vectors
	Mouse    Vectors
	Keyboard Vectors
}

// Integrator advances a [State] from orientation samples and [Inputs].
type Integrator struct {

	// MoveSpeed is the movement speed in meters per second for a unit move vector.
	MoveSpeed float32

	// Source provides head orientation samples.
	Source hmd.Source

	// lastYaw is the sensor yaw of the previous sample.
	lastYaw float32

	// sensing is whether the last step used a sensor sample.
	sensing bool
}

// NewIntegrator returns a new [Integrator] reading from the given source,
// which may be nil for no sensor.
func NewIntegrator(src hmd.Source) *Integrator {
	if src == nil {
		src = hmd.NoneSource{}
	}
	return &Integrator{MoveSpeed: 3, Source: src}
}

// SensorActive returns whether orientation is currently driven by a sensor.
func (ig *Integrator) SensorActive() bool {
	return ig.sensing
}

// Step advances s by dt seconds. When an absolute sensor is active,
// pitch and roll come from the sensor and only the change in sensor yaw
// since the previous step is added to the yaw, so manual yaw offsets are
// kept. Otherwise mouse and gamepad rotate the view, with pitch clamped
// to [PitchLimit]. Move vectors are rotated by the yaw only.
func (ig *Integrator) Step(s *State, dt float32, in Inputs) {
	if !math32.IsFinite(dt) || dt < 0 {
		dt = 0
	}
	gp := sanitize(in.Gamepad)
	ms := sanitize(in.Mouse)
	kb := sanitize(in.Keyboard)

	sensor := false
	if ig.Source != nil && ig.Source.Kind() == hmd.AbsoluteSensor {
		if q, ok := ig.Source.Sample(); ok {
			yaw, pitch, roll := q.EulerYXZ()
			s.Yaw += yaw - ig.lastYaw
			ig.lastYaw = yaw
			s.Pitch = pitch
			s.Roll = roll
			sensor = true
		}
	}

	ig.sensing = sensor

	s.Yaw -= gp.Rotate.X * dt
	if !sensor {
		s.Pitch -= gp.Rotate.Y * dt
		s.Pitch -= ms.Rotate.Y * dt
		s.Yaw -= ms.Rotate.X * dt
		s.Pitch = math32.Clamp(s.Pitch, -PitchLimit, PitchLimit)
	}

	yawRot := math32.RotationY(s.Yaw)
	for _, mv := range []math32.Vector3{gp.Move, ms.Move, kb.Move} {
		if mv.LengthSquared() > 0 {
			s.Pos.SetAdd(yawRot.MulVector3AsVector(mv).MulScalar(ig.MoveSpeed * dt))
		}
	}
}

// sanitize zeroes any vector with a non-finite component.
func sanitize(v Vectors) Vectors {
	if !v.Rotate.IsFinite() {
		v.Rotate = math32.Vector3{}
	}
	if !v.Move.IsFinite() {
		v.Move = math32.Vector3{}
	}
	return v
}

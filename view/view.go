// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package view assembles the immersive, control, and avatar matrices
// from the integrated head pose.
package view

import (
	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/motion"
)

// HeadModel is the offset of the eye center from the neck pivot.
type HeadModel struct {

	// Height is the height of the eyes above the neck pivot.
	Height float32 `default:"0.15" min:"0" max:"0.5" step:"0.01"`

	// Protrusion is how far the eyes are in front of the neck pivot.
	Protrusion float32 `default:"0.09" min:"0" max:"0.5" step:"0.01"`
}

// DefaultHeadModel returns the head model of an average adult.
func DefaultHeadModel() HeadModel {
	return HeadModel{Height: 0.15, Protrusion: 0.09}
}

// Views are the matrices assembled for one tick.
type Views struct {

	// Immersive is the view matrix of the eye center, for the HMD.
	Immersive math32.Matrix4

	// Control is the third person view matrix, for the control surface.
	Control math32.Matrix4

	// Avatar is the world transform of the head, drawn in the control view.
	Avatar math32.Matrix4

	// Eye is the world position of the eye center.
	Eye math32.Vector3
}

// Assembler turns a [motion.State] into [Views].
type Assembler struct {
	Head HeadModel

	// FollowCam is the displacement of the control camera from the head,
	// in head space.
	FollowCam math32.Vector3
}

// DefaultFollowCam is the control camera displacement: behind and above the head.
var DefaultFollowCam = math32.Vec3(0, 1, 3)

// NewAssembler returns a new [Assembler] with the default head model
// and follow camera.
func NewAssembler() *Assembler {
	return &Assembler{Head: DefaultHeadModel(), FollowCam: DefaultFollowCam}
}

// Assemble returns the views for the given state.
func (as *Assembler) Assemble(s motion.State) Views {
	rot := s.Rotation()
	up := rot.MulVector3AsVector(math32.Vector3Y)
	forward := rot.MulVector3AsVector(math32.Vec3(0, 0, -1))

	// the eye sits above and in front of the pivot; the pivot height is
	// then removed so that Pos.Y is the eye height when looking level.
	eye := s.Pos.Add(rot.MulVector3AsVector(math32.Vec3(0, as.Head.Height, -as.Head.Protrusion)))
	eye.Y -= as.Head.Height

	var v Views
	v.Eye = eye
	v.Immersive = math32.LookAtRH(eye, eye.Add(forward), up)

	follow := s.Pos.Add(rot.MulVector3AsVector(as.FollowCam))
	v.Control = math32.LookAtRH(follow, s.Pos, up)

	v.Avatar = math32.TranslationVector(s.Pos).Mul(rot)
	return v
}

// Zoom moves the follow camera in or out by the given mouse wheel delta,
// keeping it on a line that rises as it recedes.
func (as *Assembler) Zoom(delta float32) {
	as.FollowCam.Z += delta * 0.1
	as.FollowCam.Y = 0.2 * as.FollowCam.Z
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/distort"
	"cogentcore.org/hmdview/hmd"
	"cogentcore.org/hmdview/math32"
	"cogentcore.org/hmdview/stereo"
	"cogentcore.org/hmdview/tune"
	"cogentcore.org/hmdview/view"
)

// Tunables are the parameters of the viewer that can be edited live,
// through package tune. They are owned by the [Viewer] and only change
// in [Viewer.Update] or through its methods.
type Tunables struct {

	// Distortion are the lens distortion parameters.
	Distortion distort.Params

	// Stereo are the stereo options.
	Stereo stereo.Options

	// Head is the head model used to place the eye.
	Head view.HeadModel

	// FollowCam is the displacement of the control camera from the head.
	FollowCam math32.Vector3 `min:"-30" max:"30" step:"0.01"`

	// ViewAngle is the vertical field of view of the monitor
	// projection, in degrees.
	ViewAngle float32 `default:"45" min:"30" max:"90" step:"0.1"`

	// Gutter is the number of pixels around each eye that are not drawn.
	Gutter int `default:"0" min:"0" max:"256" step:"1"`

	// MoveSpeed is the movement speed in meters per second.
	MoveSpeed float32 `default:"3" min:"0" max:"20" step:"0.1"`

	// SceneInControl is whether the scene is drawn on the control surface.
	// Turning it off saves the cost of a second scene render.
	SceneInControl bool `default:"true"`
}

// DefaultTunables returns the default tunables for the given geometry.
func DefaultTunables(g hmd.Geometry) Tunables {
	t := Tunables{}
	errors.Log(tune.SetDefaults(&t))
	t.Distortion = *distort.NewParams(g)
	t.Head = view.DefaultHeadModel()
	t.FollowCam = view.DefaultFollowCam
	return t
}

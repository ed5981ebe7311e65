// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmd

// Eye identifies one of the two eyes.
type Eye int32

const (
	// Left is the left eye, drawn in the left half of the panel.
	Left Eye = iota

	// Right is the right eye, drawn in the right half of the panel.
	Right

	EyeN
)

// Eyes lists both eyes in draw order.
var Eyes = [EyeN]Eye{Left, Right}

func (e Eye) String() string {
	switch e {
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return "Eye(invalid)"
}

// Sign is +1 for the left eye and -1 for the right eye.
func (e Eye) Sign() float32 {
	if e == Right {
		return -1
	}
	return 1
}

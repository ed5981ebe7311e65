// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmd

import (
	"fmt"
	"io"
	"os"

	"cogentcore.org/hmdview/math32"
	"gopkg.in/yaml.v3"
)

// Sample is one recorded head orientation, in degrees.
type Sample struct {
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
	Roll  float32 `yaml:"roll"`

	// Missed marks a tick on which the sensor did not answer.
	Missed bool `yaml:"missed,omitempty"`
}

// Quat returns the orientation of the sample.
func (s Sample) Quat() math32.Quat {
	return math32.NewQuatEulerYXZ(math32.DegToRad(s.Yaw), math32.DegToRad(s.Pitch), math32.DegToRad(s.Roll))
}

// Recording is a [Device] that plays back recorded orientation samples,
// one per call to Orientation. It is used to run the viewer without
// hardware and to replay head motion in tests.
type Recording struct {

	// Display is the recorded display geometry; nil when the device
	// did not report one.
	Display *Geometry `yaml:"geometry,omitempty"`

	// Samples are played back in order.
	Samples []Sample `yaml:"samples"`

	// Loop restarts playback from the first sample after the last one.
	Loop bool `yaml:"loop,omitempty"`

	next int
}

func (r *Recording) Geometry() (Geometry, bool) {
	if r.Display == nil {
		return Geometry{}, false
	}
	return *r.Display, true
}

func (r *Recording) Orientation() (math32.Quat, bool) {
	if r.next >= len(r.Samples) {
		if !r.Loop || len(r.Samples) == 0 {
			return math32.Quat{}, false
		}
		r.next = 0
	}
	s := r.Samples[r.next]
	r.next++
	if s.Missed {
		return math32.Quat{}, false
	}
	return s.Quat(), true
}

// Rewind restarts playback from the first sample.
func (r *Recording) Rewind() {
	r.next = 0
}

// ReadRecording reads a YAML recording from the given reader.
func ReadRecording(rd io.Reader) (*Recording, error) {
	r := &Recording{}
	if err := yaml.NewDecoder(rd).Decode(r); err != nil {
		return nil, fmt.Errorf("hmd: reading recording: %w", err)
	}
	if r.Display != nil {
		if err := r.Display.Validate(); err != nil {
			return nil, fmt.Errorf("hmd: recording geometry: %w", err)
		}
	}
	return r, nil
}

// OpenRecording reads a YAML recording from the given file.
func OpenRecording(filename string) (*Recording, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecording(f)
}

// WriteRecording writes the recording as YAML to the given writer.
func WriteRecording(w io.Writer, r *Recording) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmd

import (
	"bytes"
	"strings"
	"testing"

	"cogentcore.org/hmdview/base/errors"
	"cogentcore.org/hmdview/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGeometry(t *testing.T) {
	g := DefaultGeometry()
	assert.NoError(t, g.Validate())
	assert.Equal(t, 1280, g.HResolution)
	assert.Equal(t, float32(0.041), g.EyeToScreenDistance)
	assert.InDelta(t, 0.8, g.Aspect(), 1e-6)
}

func TestValidate(t *testing.T) {
	g := DefaultGeometry()
	g.EyeToScreenDistance = 0
	assert.True(t, errors.Is(g.Validate(), ErrInvalidGeometry))

	g = DefaultGeometry()
	g.HScreenSize = math32.NaN()
	assert.Error(t, g.Validate())

	g = DefaultGeometry()
	g.VResolution = 0
	assert.Error(t, g.Validate())

	g = DefaultGeometry()
	g.DistortionK[2] = math32.Inf(-1)
	assert.Error(t, g.Validate())

	g = DefaultGeometry()
	g.DistortionK = [4]float32{}
	assert.True(t, errors.Is(g.Validate(), ErrInvalidGeometry), "zero K")

	g = DefaultGeometry()
	g.DistortionK[0] = -1
	assert.Error(t, g.Validate(), "negative K0")

	// positive at the center but folded over at the edge of the eye
	g = DefaultGeometry()
	g.DistortionK = [4]float32{1, -2, 0, 0}
	assert.Error(t, g.Validate())
}

func TestRadial(t *testing.T) {
	g := DefaultGeometry()
	assert.Equal(t, float32(1), g.Radial(0))
	assert.InDelta(t, 1+0.22*4+0.24*16, g.Radial(4), 1e-5)
	r := g.FitRadius()
	assert.InDelta(t, 1.71461, g.Radial(r*r), 1e-3)
}

func TestEye(t *testing.T) {
	assert.Equal(t, "Left", Left.String())
	assert.Equal(t, "Right", Right.String())
	assert.Equal(t, float32(1), Left.Sign())
	assert.Equal(t, float32(-1), Right.Sign())
}

func TestOpenFallback(t *testing.T) {
	g, src := Open(nil)
	assert.Equal(t, DefaultGeometry(), g)
	assert.Equal(t, NoneFallback, src.Kind())
	_, ok := src.Sample()
	assert.False(t, ok)

	bad := DefaultGeometry()
	bad.HScreenSize = 0
	g, src = Open(&Recording{Display: &bad})
	assert.Equal(t, DefaultGeometry(), g)
	assert.Equal(t, AbsoluteSensor, src.Kind())

	g, _ = Open(&Recording{})
	assert.Equal(t, DefaultGeometry(), g)

	noK := DefaultGeometry()
	noK.DistortionK = [4]float32{}
	g, _ = Open(&Recording{Display: &noK})
	assert.Equal(t, DefaultGeometry(), g)
}

func TestSensorSourceReusesLastSample(t *testing.T) {
	rec := &Recording{Samples: []Sample{{Yaw: 30}, {Missed: true}, {Yaw: -10, Pitch: 5}}}
	src := NewSensorSource(rec)

	q, ok := src.Sample()
	require.True(t, ok)
	yaw, _, _ := q.EulerYXZ()
	assert.InDelta(t, math32.DegToRad(30), yaw, 1e-5)

	q2, ok := src.Sample()
	assert.True(t, ok)
	assert.Equal(t, q, q2)

	q3, ok := src.Sample()
	assert.True(t, ok)
	yaw, pitch, _ := q3.EulerYXZ()
	assert.InDelta(t, math32.DegToRad(-10), yaw, 1e-5)
	assert.InDelta(t, math32.DegToRad(5), pitch, 1e-5)

	// exhausted, not looping: keep the last sample
	q4, ok := src.Sample()
	assert.True(t, ok)
	assert.Equal(t, q3, q4)
}

func TestSensorSourceNoSampleYet(t *testing.T) {
	src := NewSensorSource(&Recording{})
	_, ok := src.Sample()
	assert.False(t, ok)
}

const recordingYAML = `
geometry:
  h_resolution: 1920
  v_resolution: 1080
  h_screen_size: 0.12576
  v_screen_size: 0.07074
  v_screen_center: 0.03537
  eye_to_screen_distance: 0.041
  interpupillary_distance: 0.0635
  lens_separation_distance: 0.0635
  distortion_k: [1, 0.22, 0.24, 0]
loop: true
samples:
  - {yaw: 10, pitch: 0, roll: 0}
  - {yaw: 20, pitch: 0, roll: 0}
`

func TestRecordingYAML(t *testing.T) {
	rec, err := ReadRecording(strings.NewReader(recordingYAML))
	require.NoError(t, err)
	g, ok := rec.Geometry()
	require.True(t, ok)
	assert.Equal(t, 1920, g.HResolution)
	assert.Equal(t, [4]float32{1, 0.22, 0.24, 0}, g.DistortionK)
	assert.Len(t, rec.Samples, 2)

	for i := 0; i < 3; i++ {
		_, ok = rec.Orientation()
		assert.True(t, ok, "looping sample %d", i)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecording(&buf, rec))
	back, err := ReadRecording(&buf)
	require.NoError(t, err)
	assert.Equal(t, rec.Samples, back.Samples)
	assert.Equal(t, *rec.Display, *back.Display)

	_, err = ReadRecording(strings.NewReader("geometry:\n  h_resolution: 0\n"))
	assert.Error(t, err)

	noK := strings.Replace(recordingYAML, "  distortion_k: [1, 0.22, 0.24, 0]\n", "", 1)
	require.NotEqual(t, recordingYAML, noK)
	_, err = ReadRecording(strings.NewReader(noK))
	assert.True(t, errors.Is(err, ErrInvalidGeometry), "recording without distortion_k")
}

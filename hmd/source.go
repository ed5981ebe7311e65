// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hmd

import (
	"log/slog"

	"cogentcore.org/hmdview/math32"
)

// Device is a connected display that reports its geometry and
// absolute head orientation. Either call may report false when
// the hardware does not answer; callers never block on it.
type Device interface {
	Geometry() (Geometry, bool)
	Orientation() (math32.Quat, bool)
}

// SourceKinds are the kinds of orientation [Source].
type SourceKinds int32

const (
	// AbsoluteSensor sources report an absolute head orientation.
	AbsoluteSensor SourceKinds = iota

	// NoneFallback sources have no sensor; orientation comes from user input.
	NoneFallback
)

func (k SourceKinds) String() string {
	switch k {
	case AbsoluteSensor:
		return "AbsoluteSensor"
	case NoneFallback:
		return "NoneFallback"
	}
	return "SourceKinds(invalid)"
}

// Source provides head orientation samples once per tick.
type Source interface {

	// Kind returns the kind of the source.
	Kind() SourceKinds

	// Sample returns the current absolute orientation, and false
	// if no orientation has ever been available.
	Sample() (math32.Quat, bool)
}

// SensorSource is an [AbsoluteSensor] reading from a [Device].
// A missed sample returns the last good one.
type SensorSource struct {
	Device Device

	last    math32.Quat
	hasLast bool
	misses  int
}

// NewSensorSource returns a new [SensorSource] for the given device.
func NewSensorSource(dev Device) *SensorSource {
	return &SensorSource{Device: dev}
}

func (s *SensorSource) Kind() SourceKinds { return AbsoluteSensor }

func (s *SensorSource) Sample() (math32.Quat, bool) {
	q, ok := s.Device.Orientation()
	if ok && q.IsFinite() {
		s.last = q.Normal()
		s.hasLast = true
		s.misses = 0
		return s.last, true
	}
	s.misses++
	if s.misses == 1 {
		slog.Debug("hmd: missed orientation sample, reusing previous")
	}
	return s.last, s.hasLast
}

// NoneSource is the [NoneFallback] source: it never has a sample.
type NoneSource struct{}

func (NoneSource) Kind() SourceKinds { return NoneFallback }

func (NoneSource) Sample() (math32.Quat, bool) { return math32.QuatIdentity(), false }

// Open determines the session geometry and orientation source from the
// given device, which may be nil. A missing device, or one that does not
// report valid geometry, degrades to [DefaultGeometry]; a missing device
// also degrades to [NoneSource].
func Open(dev Device) (Geometry, Source) {
	if dev == nil {
		slog.Info("hmd: no device found, using default geometry and no orientation sensor")
		return DefaultGeometry(), NoneSource{}
	}
	g, ok := dev.Geometry()
	if !ok {
		slog.Info("hmd: device did not report geometry, using default geometry")
		g = DefaultGeometry()
	} else if err := g.Validate(); err != nil {
		slog.Warn("hmd: device geometry rejected, using default geometry", "err", err)
		g = DefaultGeometry()
	}
	return g, NewSensorSource(dev)
}

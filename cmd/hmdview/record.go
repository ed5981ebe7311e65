// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"os"

	"cogentcore.org/hmdview/hmd"
	"github.com/spf13/cobra"
)

// sweep returns a recording of n samples at the given rate in which the
// head looks left and right once every period seconds, nodding at twice
// that rate, using the default geometry.
func sweep(n int, rate, period, yawDeg, pitchDeg float64) *hmd.Recording {
	g := hmd.DefaultGeometry()
	r := &hmd.Recording{Display: &g, Loop: true, Samples: make([]hmd.Sample, n)}
	for i := range r.Samples {
		ph := 2 * math.Pi * float64(i) / (rate * period)
		r.Samples[i] = hmd.Sample{
			Yaw:   float32(yawDeg * math.Sin(ph)),
			Pitch: float32(pitchDeg * math.Sin(2*ph)),
		}
	}
	return r
}

func newRecordCmd() *cobra.Command {
	var n int
	var rate, period, yaw, pitch float64
	cmd := &cobra.Command{
		Use:   "record <file.yaml>",
		Short: "Write a synthetic looping head motion recording for use with --recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return hmd.WriteRecording(f, sweep(n, rate, period, yaw, pitch))
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&n, "samples", "n", 600, "number of samples")
	fl.Float64Var(&rate, "rate", 60, "samples per second")
	fl.Float64Var(&period, "period", 4, "seconds per left-right sweep")
	fl.Float64Var(&yaw, "yaw", 45, "yaw amplitude in degrees")
	fl.Float64Var(&pitch, "pitch", 10, "pitch amplitude in degrees")
	return cmd
}

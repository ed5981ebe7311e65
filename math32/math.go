// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 is a small float32 based vector, matrix, and math package
// for the head-mounted display pipeline.
//
// Matrices are row-major: element M[r][c] is row r, column c, and vectors
// are column vectors multiplied on the right. GPU uniforms expect
// column-major data, so [Matrix4.ColumnMajor] must be used for upload.
package math32

import (
	"math"

	"github.com/chewxy/math32"
)

// These are mostly just wrappers around chewxy/math32, which has
// some optimized implementations.

// Mathematical constants.
const (
	Pi = math.Pi

	// DegToRadFactor is the number of radians per degree.
	DegToRadFactor = Pi / 180

	// RadToDegFactor is the number of degrees per radian.
	RadToDegFactor = 180 / Pi
)

// DegToRad converts a number from degrees to radians
func DegToRad(degrees float32) float32 {
	return degrees * DegToRadFactor
}

// RadToDeg converts a number from radians to degrees
func RadToDeg(radians float32) float32 {
	return radians * RadToDegFactor
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// Sin returns the sine of the radian argument x.
func Sin(x float32) float32 {
	return math32.Sin(x)
}

// Cos returns the cosine of the radian argument x.
func Cos(x float32) float32 {
	return math32.Cos(x)
}

// Tan returns the tangent of the radian argument x.
func Tan(x float32) float32 {
	return math32.Tan(x)
}

// Asin returns the arcsine, in radians, of x.
//
// Special case is:
//
//	Asin(x) = NaN if x < -1 or x > 1
func Asin(x float32) float32 {
	return math32.Asin(x)
}

// Atan returns the arctangent, in radians, of x.
func Atan(x float32) float32 {
	return math32.Atan(x)
}

// Atan2 returns the arc tangent of y/x, using
// the signs of the two to determine the quadrant
// of the return value.
func Atan2(y, x float32) float32 {
	return math32.Atan2(y, x)
}

// IsNaN reports whether f is an IEEE 754 “not-a-number” value.
func IsNaN(x float32) bool {
	return math32.IsNaN(x)
}

// IsInf reports whether f is an infinity, according to sign.
// If sign > 0, IsInf reports whether f is positive infinity.
// If sign < 0, IsInf reports whether f is negative infinity.
// If sign == 0, IsInf reports whether f is either infinity.
func IsInf(x float32, sign int) bool {
	return math32.IsInf(x, sign)
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) float32 {
	return math32.Inf(sign)
}

// NaN returns an IEEE 754 “not-a-number” value.
func NaN() float32 {
	return math32.NaN()
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// Clamp clamps x to the provided closed interval [a, b]
func Clamp(x, a, b float32) float32 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// Max returns the larger of a or b.
func Max(a, b float32) float32 {
	return math32.Max(a, b)
}

// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Vector2 is a 2D vector/point with X and Y components.
type Vector2 struct {
	X float32
	Y float32
}

// Vec2 returns a new [Vector2] with the given x and y components.
func Vec2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add adds other vector to this one and returns result in a new vector.
func (v Vector2) Add(other Vector2) Vector2 {
	return Vector2{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts other vector from this one and returns result in new vector.
func (v Vector2) Sub(other Vector2) Vector2 {
	return Vector2{v.X - other.X, v.Y - other.Y}
}

// Mul multiplies each component of this vector by the corresponding one from other
// and returns resulting vector.
func (v Vector2) Mul(other Vector2) Vector2 {
	return Vector2{v.X * other.X, v.Y * other.Y}
}

// MulScalar multiplies each component of this vector by the scalar s
// and returns resulting vector.
func (v Vector2) MulScalar(s float32) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Vector3 is a 3D vector/point with X, Y and Z components.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// Vec3 returns a new [Vector3] with the given x, y and z components.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Unit axis vectors of the right-handed world: Y up, Z back, X right.
var (
	Vector3X = Vector3{1, 0, 0}
	Vector3Y = Vector3{0, 1, 0}
	Vector3Z = Vector3{0, 0, 1}
)

// Set sets this vector X, Y and Z components.
func (v *Vector3) Set(x, y, z float32) {
	v.X = x
	v.Y = y
	v.Z = z
}

// Add adds other vector to this one and returns result in a new vector.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// SetAdd sets this to addition with other vector (i.e., += or plus-equals).
func (v *Vector3) SetAdd(other Vector3) {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
}

// Sub subtracts other vector from this one and returns result in new vector.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// MulScalar multiplies each component of this vector by the scalar s
// and returns resulting vector.
func (v Vector3) MulScalar(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns vector with each component negated.
func (v Vector3) Negate() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of this vector with other.
func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of this vector with other.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{v.Y*other.Z - v.Z*other.Y, v.Z*other.X - v.X*other.Z, v.X*other.Y - v.Y*other.X}
}

// LengthSquared returns the length squared of this vector.
// LengthSquared can be used to compare the lengths of vectors.
func (v Vector3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the length of this vector.
func (v Vector3) Length() float32 {
	return Sqrt(v.LengthSquared())
}

// Normal returns this vector divided by its length (its unit vector).
// A zero vector is returned unchanged.
func (v Vector3) Normal() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

// IsNil returns true if all values are 0 (uninitialized).
func (v Vector3) IsNil() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite returns true if no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

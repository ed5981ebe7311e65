// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Quat is quaternion with X,Y,Z and W components.
type Quat struct {
	X float32
	Y float32
	Z float32
	W float32
}

// NewQuat returns a new quaternion from the specified components.
func NewQuat(x, y, z, w float32) Quat {
	return Quat{X: x, Y: y, Z: z, W: w}
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// NewQuatAxisAngle returns a quaternion rotating by angle radians
// about the given unit axis.
func NewQuatAxisAngle(axis Vector3, angle float32) Quat {
	hs := Sin(angle / 2)
	return Quat{X: axis.X * hs, Y: axis.Y * hs, Z: axis.Z * hs, W: Cos(angle / 2)}
}

// NewQuatEulerYXZ returns the rotation yaw about Y, then pitch about the
// local X, then roll about the local Z, matching [YawPitchRoll].
func NewQuatEulerYXZ(yaw, pitch, roll float32) Quat {
	qy := NewQuatAxisAngle(Vector3Y, yaw)
	qx := NewQuatAxisAngle(Vector3X, pitch)
	qz := NewQuatAxisAngle(Vector3Z, roll)
	return qy.Mul(qx).Mul(qz)
}

// Mul returns the Hamilton product q * other: the rotation other followed by q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Length returns the length of this quaternion
func (q Quat) Length() float32 {
	return Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normal returns the normalized quaternion. A zero quaternion
// normalizes to the identity.
func (q Quat) Normal() Quat {
	l := q.Length()
	if l == 0 {
		return QuatIdentity()
	}
	il := 1 / l
	return Quat{q.X * il, q.Y * il, q.Z * il, q.W * il}
}

// IsFinite returns true if no component is NaN or infinite.
func (q Quat) IsFinite() bool {
	return IsFinite(q.X) && IsFinite(q.Y) && IsFinite(q.Z) && IsFinite(q.W)
}

// Matrix4 returns the rotation matrix for the normalized quaternion.
func (q Quat) Matrix4() Matrix4 {
	q = q.Normal()
	x, y, z, w := q.X, q.Y, q.Z, q.W
	m := Identity4()
	m.M[0][0] = 1 - 2*(y*y+z*z)
	m.M[0][1] = 2 * (x*y - z*w)
	m.M[0][2] = 2 * (x*z + y*w)
	m.M[1][0] = 2 * (x*y + z*w)
	m.M[1][1] = 1 - 2*(x*x+z*z)
	m.M[1][2] = 2 * (y*z - x*w)
	m.M[2][0] = 2 * (x*z - y*w)
	m.M[2][1] = 2 * (y*z + x*w)
	m.M[2][2] = 1 - 2*(x*x+y*y)
	return m
}

// EulerYXZ decomposes the rotation into yaw (about Y), pitch (about X)
// and roll (about Z) such that the rotation equals
// YawPitchRoll(yaw, pitch, roll). At the pitch singularity
// (looking straight up or down) roll is reported as zero.
func (q Quat) EulerYXZ() (yaw, pitch, roll float32) {
	m := q.Matrix4()
	sp := Clamp(-m.M[1][2], -1, 1)
	pitch = Asin(sp)
	if Abs(sp) < 0.99999 {
		yaw = Atan2(m.M[0][2], m.M[2][2])
		roll = Atan2(m.M[1][0], m.M[1][1])
		return
	}
	yaw = Atan2(-m.M[2][0], m.M[0][0])
	return
}

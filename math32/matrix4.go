// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix4 is a 4x4 row-major matrix: M[r][c] addresses row r, column c.
// Transforms compose right-to-left: A.Mul(B) applies B first.
type Matrix4 struct {
	M [4][4]float32
}

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{M: [4][4]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Translation returns a matrix that translates by x, y, z.
func Translation(x, y, z float32) Matrix4 {
	m := Identity4()
	m.M[0][3] = x
	m.M[1][3] = y
	m.M[2][3] = z
	return m
}

// TranslationVector returns a matrix that translates by v.
func TranslationVector(v Vector3) Matrix4 {
	return Translation(v.X, v.Y, v.Z)
}

// RotationX returns a right-handed rotation about the X axis by angle radians.
func RotationX(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	m := Identity4()
	m.M[1][1] = c
	m.M[1][2] = -s
	m.M[2][1] = s
	m.M[2][2] = c
	return m
}

// RotationY returns a right-handed rotation about the Y axis by angle radians.
func RotationY(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	m := Identity4()
	m.M[0][0] = c
	m.M[0][2] = s
	m.M[2][0] = -s
	m.M[2][2] = c
	return m
}

// RotationZ returns a right-handed rotation about the Z axis by angle radians.
func RotationZ(angle float32) Matrix4 {
	c, s := Cos(angle), Sin(angle)
	m := Identity4()
	m.M[0][0] = c
	m.M[0][1] = -s
	m.M[1][0] = s
	m.M[1][1] = c
	return m
}

// YawPitchRoll returns RotationY(yaw) * RotationX(pitch) * RotationZ(roll):
// roll is applied first, then pitch, then yaw.
func YawPitchRoll(yaw, pitch, roll float32) Matrix4 {
	return RotationY(yaw).Mul(RotationX(pitch)).Mul(RotationZ(roll))
}

// PerspectiveRH returns a right-handed perspective projection for OpenGL
// clip space (z in [-1, 1]). yfov is the full vertical field of view in radians.
func PerspectiveRH(yfov, aspect, near, far float32) Matrix4 {
	f := 1 / Tan(yfov*0.5)
	var m Matrix4
	m.M[0][0] = f / aspect
	m.M[1][1] = f
	m.M[2][2] = (far + near) / (near - far)
	m.M[2][3] = (2 * far * near) / (near - far)
	m.M[3][2] = -1
	return m
}

// Ortho2D returns an orthographic projection mapping pixel coordinates
// (origin top-left, Y down) of a w x h area into clip space.
func Ortho2D(w, h float32) Matrix4 {
	m := Identity4()
	m.M[0][0] = 2 / w
	m.M[1][1] = -2 / h
	m.M[0][3] = -1
	m.M[1][3] = 1
	m.M[2][2] = 0
	return m
}

// LookAtRH returns a right-handed view matrix for a camera at eye,
// looking at target, with the given up direction.
func LookAtRH(eye, target, up Vector3) Matrix4 {
	z := eye.Sub(target).Normal()
	x := up.Cross(z).Normal()
	y := z.Cross(x)
	return Matrix4{M: [4][4]float32{
		{x.X, x.Y, x.Z, -x.Dot(eye)},
		{y.X, y.Y, y.Z, -y.Dot(eye)},
		{z.X, z.Y, z.Z, -z.Dot(eye)},
		{0, 0, 0, 1},
	}}
}

// Mul returns the matrix product m * other.
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var r Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = m.M[i][0]*other.M[0][j] + m.M[i][1]*other.M[1][j] +
				m.M[i][2]*other.M[2][j] + m.M[i][3]*other.M[3][j]
		}
	}
	return r
}

// MulVector3AsPoint returns m * (v, 1), dropping the W component.
func (m Matrix4) MulVector3AsPoint(v Vector3) Vector3 {
	return Vector3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z + m.M[0][3],
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z + m.M[1][3],
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z + m.M[2][3],
	}
}

// MulVector3AsVector returns m * (v, 0): a direction, unaffected by translation.
func (m Matrix4) MulVector3AsVector(v Vector3) Vector3 {
	return Vector3{
		m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

// Transpose returns the transpose of m.
func (m Matrix4) Transpose() Matrix4 {
	var r Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r.M[i][j] = m.M[j][i]
		}
	}
	return r
}

// RowMajor returns the elements of m in row-major order.
func (m Matrix4) RowMajor() [16]float32 {
	var a [16]float32
	for i := 0; i < 4; i++ {
		copy(a[i*4:i*4+4], m.M[i][:])
	}
	return a
}

// ColumnMajor returns the elements of m in column-major order,
// which is the row-major order of its transpose. This is the layout
// expected by GPU matrix uniforms.
func (m Matrix4) ColumnMajor() [16]float32 {
	return m.Transpose().RowMajor()
}

// IsFinite returns true if no element is NaN or infinite.
func (m Matrix4) IsFinite() bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if !IsFinite(m.M[i][j]) {
				return false
			}
		}
	}
	return true
}

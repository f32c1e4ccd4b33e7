package math

import "github.com/chewxy/math32"

type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	s, c := math32.Sincos(angle / 2)
	axis = axis.Normalize()
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuaternionFromEuler builds a rotation from angles about X, Y and Z in
// radians (applied Z, then Y, then X); it is the inverse of ToEuler.
func QuaternionFromEuler(euler Vec3) Quaternion {
	sx, cx := math32.Sincos(euler.X / 2)
	sy, cy := math32.Sincos(euler.Y / 2)
	sz, cz := math32.Sincos(euler.Z / 2)

	return Quaternion{
		X: sx*cy*cz - cx*sy*sz,
		Y: cx*sy*cz + sx*cy*sz,
		Z: cx*cy*sz - sx*sy*cz,
		W: cx*cy*cz + sx*sy*sz,
	}
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qVec := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qVec.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qVec.Cross(t))
}

// ToMat4 returns the row-vector rotation matrix.
func (q Quaternion) ToMat4() Mat4 {
	xx := q.X * q.X
	yy := q.Y * q.Y
	zz := q.Z * q.Z
	xy := q.X * q.Y
	xz := q.X * q.Z
	yz := q.Y * q.Z
	wx := q.W * q.X
	wy := q.W * q.Y
	wz := q.W * q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

func (q Quaternion) ToEuler() Vec3 {
	sinRCosP := 2 * (q.W*q.X + q.Y*q.Z)
	cosRCosP := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := math32.Atan2(sinRCosP, cosRCosP)

	sinP := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float32
	if math32.Abs(sinP) >= 1 {
		pitch = math32.Copysign(math32.Pi/2, sinP)
	} else {
		pitch = math32.Asin(sinP)
	}

	sinYCosR := 2 * (q.W*q.Z + q.X*q.Y)
	cosYCosR := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := math32.Atan2(sinYCosR, cosYCosR)

	return Vec3{X: roll, Y: pitch, Z: yaw}
}

package core

import (
	"fmt"

	"sculpt-engine/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Hex returns the color as #rrggbbaa, clamping each channel to [0,1].
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

type Transform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

func NewTransform() Transform {
	return Transform{
		Position: math.Vec3Zero,
		Rotation: math.QuaternionIdentity(),
		Scale:    math.Vec3One,
	}
}

// GetMatrix composes scale, then rotation, then translation.
func (t Transform) GetMatrix() math.Mat4 {
	scale := math.Mat4Scale(t.Scale)
	rotation := t.Rotation.ToMat4()
	translation := math.Mat4Translation(t.Position)
	return scale.Mul(rotation).Mul(translation)
}

// Euler returns the rotation as angles about X, Y and Z in radians.
func (t Transform) Euler() math.Vec3 {
	return t.Rotation.ToEuler()
}

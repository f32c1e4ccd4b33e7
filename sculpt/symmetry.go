package sculpt

import "sculpt-engine/math"

// Symmetry mirrors brush applications across the local axis planes of the
// sculpted mesh.
type Symmetry struct {
	X, Y, Z bool
}

// Enabled reports whether any axis is mirrored.
func (s Symmetry) Enabled() bool {
	return s.X || s.Y || s.Z
}

func (s Symmetry) axes() []int {
	var out []int
	for axis, on := range [3]bool{s.X, s.Y, s.Z} {
		if on {
			out = append(out, axis)
		}
	}
	return out
}

// Mirror is one image of a brush application.
type Mirror struct {
	Center math.Vec3
	Mode   Mode
}

// Mirrors returns the original application followed by its reflections
// across every combination of enabled axes. Reflections that land on an
// earlier center, because the brush sits on a mirror plane, are dropped.
func (s Symmetry) Mirrors(center math.Vec3, mode Mode) []Mirror {
	axes := s.axes()
	out := make([]Mirror, 0, 1<<len(axes))

	for combo := 0; combo < 1<<len(axes); combo++ {
		c, m := center, mode
		for bit, axis := range axes {
			if combo&(1<<bit) != 0 {
				c = reflect(c, axis)
				m = reflectMode(m, axis)
			}
		}
		if !containsCenter(out, c) {
			out = append(out, Mirror{Center: c, Mode: m})
		}
	}
	return out
}

func reflect(v math.Vec3, axis int) math.Vec3 {
	return v.WithComponent(axis, -v.Component(axis))
}

func reflectMode(m Mode, axis int) Mode {
	switch mode := m.(type) {
	case Grab:
		return Grab{Direction: reflect(mode.Direction, axis)}
	case Flatten:
		return Flatten{Normal: reflect(mode.Normal, axis)}
	}
	return m
}

func containsCenter(list []Mirror, c math.Vec3) bool {
	for _, m := range list {
		if m.Center == c {
			return true
		}
	}
	return false
}

package scene

import (
	"github.com/chewxy/math32"
)

// CreatePlane generates a flat plane in the XZ plane facing +Y, with
// (subdivisions+1)² shared vertices laid out row by row along X.
func CreatePlane(width, depth float32, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var positions []float32
	var indices []uint32

	halfW := width / 2.0
	halfD := depth / 2.0

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			positions = append(positions, -halfW+u*width, 0, -halfD+v*depth)
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return NewMesh("Plane", positions, indices)
}

// CreateCube generates a cube with 8 shared corners so that brush edits
// keep the surface closed.
func CreateCube(size float32) *Mesh {
	s := size / 2

	positions := make([]float32, 0, 24)
	for i := 0; i < 8; i++ {
		x, y, z := -s, -s, -s
		if i&1 != 0 {
			x = s
		}
		if i&2 != 0 {
			y = s
		}
		if i&4 != 0 {
			z = s
		}
		positions = append(positions, x, y, z)
	}

	indices := []uint32{
		4, 5, 7, 4, 7, 6, // +Z
		0, 2, 3, 0, 3, 1, // -Z
		1, 3, 7, 1, 7, 5, // +X
		0, 4, 6, 0, 6, 2, // -X
		2, 6, 7, 2, 7, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}

	return NewMesh("Cube", positions, indices)
}

// CreateSphere generates a closed UV sphere. Unlike a texture-mapped sphere
// it has no seam duplicates: each pole is a single vertex and every ring
// wraps around onto its first vertex.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	positions := []float32{0, radius, 0}
	for ring := 1; ring < rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)
		for seg := 0; seg < segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)
			positions = append(positions,
				radius*sinPhi*cosTheta, radius*cosPhi, radius*sinPhi*sinTheta)
		}
	}
	positions = append(positions, 0, -radius, 0)

	top := uint32(0)
	bottom := uint32(1 + (rings-1)*segments)
	at := func(ring, seg int) uint32 {
		return uint32(1 + (ring-1)*segments + seg%segments)
	}

	var indices []uint32
	for seg := 0; seg < segments; seg++ {
		indices = append(indices, top, at(1, seg+1), at(1, seg))
	}
	for ring := 1; ring < rings-1; ring++ {
		for seg := 0; seg < segments; seg++ {
			a, b := at(ring, seg), at(ring, seg+1)
			c, d := at(ring+1, seg), at(ring+1, seg+1)
			indices = append(indices, a, b, c)
			indices = append(indices, b, d, c)
		}
	}
	for seg := 0; seg < segments; seg++ {
		indices = append(indices, at(rings-1, seg), at(rings-1, seg+1), bottom)
	}

	return NewMesh("Sphere", positions, indices)
}

package scene

import (
	"strconv"
	"strings"

	"sculpt-engine/math"
)

// Signature fingerprints a list of objects by name, position, rotation,
// scale and material. Two scenes with equal signatures are treated as the
// same state by snapshot history. Vertex positions are not part of it.
func Signature(nodes []*Node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Quote(n.Name))
		sb.WriteByte('|')
		writeVec3(&sb, n.Transform.Position)
		sb.WriteByte('|')
		writeVec3(&sb, n.Transform.Euler())
		sb.WriteByte('|')
		writeVec3(&sb, n.Transform.Scale)
		sb.WriteByte('|')
		if n.Mesh != nil {
			sb.WriteString(n.Mesh.Material.Fingerprint())
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func writeVec3(sb *strings.Builder, v math.Vec3) {
	sb.WriteString(strconv.FormatFloat(float64(v.X), 'g', -1, 32))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatFloat(float64(v.Y), 'g', -1, 32))
	sb.WriteByte(',')
	sb.WriteString(strconv.FormatFloat(float64(v.Z), 'g', -1, 32))
}

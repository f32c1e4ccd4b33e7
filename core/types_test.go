package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sculpt-engine/math"
)

func TestTransformMatrixOrder(t *testing.T) {
	tr := NewTransform()
	tr.Position = math.NewVec3(10, 0, 0)
	tr.Scale = math.NewVec3(2, 2, 2)

	// Scale applies before translation.
	got := tr.GetMatrix().MulVec3(math.NewVec3(1, 0, 0))
	assert.True(t, got.ApproxEqual(math.NewVec3(12, 0, 0), 1e-5), "got %v", got)
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		color Color
		want  string
	}{
		{ColorWhite, "#ffffffff"},
		{ColorBlack, "#000000ff"},
		{Color{R: 0.5, G: -1, B: 2, A: 0}, "#8000ff00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.color.Hex())
	}
}

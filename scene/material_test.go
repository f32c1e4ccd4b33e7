package scene

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialFingerprint(t *testing.T) {
	var nilMat *Material
	assert.Equal(t, DefaultMaterial().Fingerprint(), nilMat.Fingerprint())

	m := DefaultMaterial()
	fp := m.Fingerprint()
	assert.Len(t, fp, 16)

	m.Roughness = 0.51
	assert.NotEqual(t, fp, m.Fingerprint())

	fp = m.Fingerprint()
	m.Textures = map[string]string{SlotNormal: "n.png", SlotBaseColor: "c.png"}
	withMaps := m.Fingerprint()
	assert.NotEqual(t, fp, withMaps)
	assert.Equal(t, withMaps, m.Fingerprint(), "slot order does not matter")

	m.Textures[SlotNormal] = "n2.png"
	assert.NotEqual(t, withMaps, m.Fingerprint())
}

func TestMaterialCloneIsDeep(t *testing.T) {
	m := NewPBRMaterial("clay", DefaultMaterial().Albedo, 0, 0.8)
	m.Textures = map[string]string{SlotBaseColor: "clay.png"}

	c := m.Clone()
	require.NotSame(t, m, c)
	assert.Equal(t, m, c)

	c.Textures[SlotBaseColor] = "other.png"
	c.Roughness = 0.1
	assert.Equal(t, "clay.png", m.Textures[SlotBaseColor])
	assert.Equal(t, float32(0.8), m.Roughness)

	assert.Nil(t, DefaultMaterial().Clone().Textures)
}

func TestSetTexture(t *testing.T) {
	doc := &gltf.Document{
		Images: []*gltf.Image{
			{URI: "albedo.png"},
			{Name: "packed", URI: "data:image/png;base64,AAAA"},
		},
		Textures: []*gltf.Texture{
			{Source: gltf.Index(0)},
			{Source: gltf.Index(1)},
			{},
		},
	}
	mat := DefaultMaterial()

	setTexture(doc, mat, SlotBaseColor, 0)
	setTexture(doc, mat, SlotNormal, 1)
	setTexture(doc, mat, SlotEmissive, 2)
	setTexture(doc, mat, SlotMetallicRoughness, 7)

	assert.Equal(t, map[string]string{
		SlotBaseColor: "albedo.png",
		SlotNormal:    "packed",
	}, mat.Textures)
}

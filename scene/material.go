package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"sculpt-engine/core"
	"sculpt-engine/internal/logger"
)

// Texture slots filled by the glTF importer.
const (
	SlotBaseColor         = "baseColor"
	SlotMetallicRoughness = "metallicRoughness"
	SlotNormal            = "normal"
	SlotEmissive          = "emissive"
)

// Material describes surface appearance properties for a mesh.
type Material struct {
	Name      string
	Albedo    core.Color // base diffuse color
	Specular  core.Color // Phong specular highlight color (ignored when UsePBR = true)
	Shininess float32    // Phong shininess exponent (1–256+; ignored when UsePBR = true)
	Unlit     bool       // skip lighting calculation

	UsePBR        bool    // switch to Cook-Torrance BRDF instead of Phong
	Metallic      float32 // 0 = dielectric, 1 = fully metallic
	Roughness     float32 // 0 = perfectly smooth, 1 = fully rough
	EmissiveColor core.Color

	// Textures maps a slot to an image reference (URI or image name).
	// Nothing here samples them; they travel with the material.
	Textures map[string]string
}

// DefaultMaterial returns a plain white matte Phong material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "Default",
		Albedo:    core.ColorWhite,
		Specular:  core.Color{R: 0.3, G: 0.3, B: 0.3, A: 1},
		Shininess: 32,
		Roughness: 0.5,
	}
}

// NewMaterial creates a Phong material with the given albedo color.
func NewMaterial(name string, albedo core.Color) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Specular:  core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1},
		Shininess: 32,
		Roughness: 0.5,
	}
}

// NewPBRMaterial creates a PBR material with the given albedo, metallic, and roughness.
func NewPBRMaterial(name string, albedo core.Color, metallic, roughness float32) *Material {
	return &Material{
		Name:      name,
		Albedo:    albedo,
		Metallic:  metallic,
		Roughness: roughness,
		UsePBR:    true,
	}
}

// Clone returns a deep copy of the material.
func (m *Material) Clone() *Material {
	out := &Material{}
	if err := copier.CopyWithOption(out, m, copier.Option{DeepCopy: true}); err != nil {
		logger.Error("material clone", zap.String("material", m.Name), zap.Error(err))
	}
	if m.Textures == nil {
		out.Textures = nil
	}
	return out
}

// Fingerprint is a short stable digest of every shading parameter. A nil
// material fingerprints as the default material.
func (m *Material) Fingerprint() string {
	if m == nil {
		m = DefaultMaterial()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s|%s|%g|%t|%t|%g|%g|%s",
		m.Name, m.Albedo.Hex(), m.Specular.Hex(), m.Shininess, m.Unlit,
		m.UsePBR, m.Metallic, m.Roughness, m.EmissiveColor.Hex())
	slots := make([]string, 0, len(m.Textures))
	for slot := range m.Textures {
		slots = append(slots, slot)
	}
	slices.Sort(slots)
	for _, slot := range slots {
		fmt.Fprintf(&sb, "|%s=%s", slot, m.Textures[slot])
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String()))
}

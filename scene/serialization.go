package scene

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"sculpt-engine/core"
	"sculpt-engine/math"
)

// ── JSON data structures ──────────────────────────────────────────────────────

type vec3JSON struct {
	X, Y, Z float32
}

type colorJSON struct {
	R, G, B, A float32
}

type transformJSON struct {
	Position vec3JSON
	Scale    vec3JSON
	// Quaternion stored as (X, Y, Z, W)
	RotX, RotY, RotZ, RotW float32
}

type materialJSON struct {
	Name      string
	Albedo    colorJSON
	Specular  colorJSON
	Shininess float32
	Unlit     bool
	UsePBR    bool
	Metallic  float32
	Roughness float32
	Emissive  colorJSON
	Textures  map[string]string `json:",omitempty"`
}

type meshJSON struct {
	ID        string
	Name      string
	Topology  uint64
	Positions []float32
	Indices   []uint32 `json:",omitempty"`
	Material  *materialJSON
}

type nodeJSON struct {
	Name        string
	Transform   transformJSON
	Visible     bool
	UserContent bool
	Mesh        *meshJSON
	Children    []nodeJSON
}

// MarshalNode serialises a node subtree, including mesh geometry, for whole
// object replay.
func MarshalNode(n *Node) ([]byte, error) {
	data, err := json.Marshal(nodeToJSON(n))
	if err != nil {
		return nil, fmt.Errorf("marshal node %q: %w", n.Name, err)
	}
	return data, nil
}

// UnmarshalNode rebuilds a detached node subtree written by MarshalNode.
// Nodes get fresh Ids; meshes keep their geometry identity.
func UnmarshalNode(data []byte) (*Node, error) {
	var nj nodeJSON
	if err := json.Unmarshal(data, &nj); err != nil {
		return nil, fmt.Errorf("unmarshal node: %w", err)
	}
	return jsonToNode(nj)
}

// ── conversion helpers ────────────────────────────────────────────────────────

func vec3ToJSON(v math.Vec3) vec3JSON    { return vec3JSON{v.X, v.Y, v.Z} }
func jsonToVec3(v vec3JSON) math.Vec3    { return math.Vec3{X: v.X, Y: v.Y, Z: v.Z} }
func colorToJSON(c core.Color) colorJSON { return colorJSON{c.R, c.G, c.B, c.A} }
func jsonToColor(c colorJSON) core.Color { return core.Color{R: c.R, G: c.G, B: c.B, A: c.A} }

func transformToJSON(t core.Transform) transformJSON {
	return transformJSON{
		Position: vec3ToJSON(t.Position),
		Scale:    vec3ToJSON(t.Scale),
		RotX:     t.Rotation.X,
		RotY:     t.Rotation.Y,
		RotZ:     t.Rotation.Z,
		RotW:     t.Rotation.W,
	}
}

func jsonToTransform(tj transformJSON) core.Transform {
	t := core.NewTransform()
	t.Position = jsonToVec3(tj.Position)
	t.Scale = jsonToVec3(tj.Scale)
	t.Rotation = math.Quaternion{X: tj.RotX, Y: tj.RotY, Z: tj.RotZ, W: tj.RotW}
	return t
}

func materialToJSON(m *Material) *materialJSON {
	if m == nil {
		return nil
	}
	return &materialJSON{
		Name:      m.Name,
		Albedo:    colorToJSON(m.Albedo),
		Specular:  colorToJSON(m.Specular),
		Shininess: m.Shininess,
		Unlit:     m.Unlit,
		UsePBR:    m.UsePBR,
		Metallic:  m.Metallic,
		Roughness: m.Roughness,
		Emissive:  colorToJSON(m.EmissiveColor),
		Textures:  m.Textures,
	}
}

func jsonToMaterial(mj *materialJSON) *Material {
	if mj == nil {
		return nil
	}
	return &Material{
		Name:          mj.Name,
		Albedo:        jsonToColor(mj.Albedo),
		Specular:      jsonToColor(mj.Specular),
		Shininess:     mj.Shininess,
		Unlit:         mj.Unlit,
		UsePBR:        mj.UsePBR,
		Metallic:      mj.Metallic,
		Roughness:     mj.Roughness,
		EmissiveColor: jsonToColor(mj.Emissive),
		Textures:      mj.Textures,
	}
}

func nodeToJSON(n *Node) nodeJSON {
	nj := nodeJSON{
		Name:        n.Name,
		Transform:   transformToJSON(n.Transform),
		Visible:     n.Visible,
		UserContent: n.UserContent,
	}
	if m := n.Mesh; m != nil {
		nj.Mesh = &meshJSON{
			ID:        m.ID.String(),
			Name:      m.Name,
			Topology:  m.topology,
			Positions: m.Positions,
			Indices:   m.Indices,
			Material:  materialToJSON(m.Material),
		}
	}
	for _, c := range n.Children {
		nj.Children = append(nj.Children, nodeToJSON(c))
	}
	return nj
}

func jsonToNode(nj nodeJSON) (*Node, error) {
	n := NewNode(nj.Name)
	n.Transform = jsonToTransform(nj.Transform)
	n.Visible = nj.Visible
	n.UserContent = nj.UserContent

	if mj := nj.Mesh; mj != nil {
		id, err := uuid.Parse(mj.ID)
		if err != nil {
			return nil, fmt.Errorf("mesh %q id: %w", mj.Name, err)
		}
		m := &Mesh{
			ID:        id,
			Name:      mj.Name,
			Positions: mj.Positions,
			Indices:   mj.Indices,
			Material:  jsonToMaterial(mj.Material),
			topology:  mj.Topology,
		}
		m.RecomputeNormals()
		m.RecomputeBounds()
		n.Mesh = m
	}

	for _, cj := range nj.Children {
		child, err := jsonToNode(cj)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

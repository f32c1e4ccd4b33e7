package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"sculpt-engine/core"
	"sculpt-engine/internal/logger"
	"sculpt-engine/math"
)

// LoadGLTF opens a .glb or .gltf file and returns its top-level nodes, ready
// to be added to a scene. Geometry, base-colour materials and the node
// hierarchy are populated and every node is tagged as user content.
// Primitives that cannot be decoded are skipped with a warning.
func LoadGLTF(path string) ([]*Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	log := logger.Named("gltf").With(zap.String("path", path))

	// ── 1. Materials ─────────────────────────────────────────────────────────
	matCache := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name

		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Albedo = core.Color{
				R: float32(cf[0]), G: float32(cf[1]),
				B: float32(cf[2]), A: float32(cf[3]),
			}
			mat.UsePBR = true
			mat.Metallic = float32(pbr.MetallicFactorOrDefault())
			mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
			if pbr.BaseColorTexture != nil {
				setTexture(doc, mat, SlotBaseColor, pbr.BaseColorTexture.Index)
			}
			if pbr.MetallicRoughnessTexture != nil {
				setTexture(doc, mat, SlotMetallicRoughness, pbr.MetallicRoughnessTexture.Index)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			setTexture(doc, mat, SlotNormal, *gm.NormalTexture.Index)
		}
		if gm.EmissiveTexture != nil {
			setTexture(doc, mat, SlotEmissive, gm.EmissiveTexture.Index)
		}
		matCache[i] = mat
	}

	// ── 2. Mesh primitives ────────────────────────────────────────────────────
	meshPrims := make([][]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				log.Warn("skipping primitive",
					zap.Int("mesh", mi),
					zap.Int("primitive", pi),
					zap.Error(err))
				continue
			}
			if prim.Material != nil && *prim.Material < len(matCache) {
				m.Material = matCache[*prim.Material].Clone()
			}
			meshPrims[mi] = append(meshPrims[mi], m)
		}
	}

	// ── 3. Nodes ──────────────────────────────────────────────────────────────
	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(name)
		n.UserContent = true

		t := gn.TranslationOrDefault()
		n.SetPosition(math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])})

		sc := gn.ScaleOrDefault()
		n.SetScale(math.Vec3{X: float32(sc[0]), Y: float32(sc[1]), Z: float32(sc[2])})

		r := gn.RotationOrDefault() // [x, y, z, w]
		n.SetRotation(math.Quaternion{
			X: float32(r[0]), Y: float32(r[1]),
			Z: float32(r[2]), W: float32(r[3]),
		})

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			switch len(prims) {
			case 0:
				// no geometry
			case 1:
				n.Mesh = prims[0]
			default:
				// Multiple primitives → one child node per primitive
				for pi, p := range prims {
					n.AddChild(NewMeshNode(fmt.Sprintf("%s_prim%d", name, pi), p))
				}
			}
		}
		nodes[i] = n
	}

	// Wire up parent-child relationships
	for i, gn := range doc.Nodes {
		for _, childIdx := range gn.Children {
			if childIdx < len(nodes) && nodes[childIdx] != nil {
				nodes[i].AddChild(nodes[childIdx])
			}
		}
	}

	// ── 4. Root nodes ─────────────────────────────────────────────────────────
	var roots []*Node
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if rootIdx < len(nodes) {
				roots = append(roots, nodes[rootIdx])
			}
		}
	} else {
		for _, n := range nodes {
			if n.Parent == nil {
				roots = append(roots, n)
			}
		}
	}

	log.Info("imported",
		zap.Int("roots", len(roots)),
		zap.Int("meshes", len(doc.Meshes)))
	return roots, nil
}

// loadGLTFPrimitive converts one glTF triangle primitive into a scene.Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %d", prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	flat := make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		flat = append(flat, p[0], p[1], p[2])
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	return NewMesh(name, flat, indices), nil
}

// setTexture records the image behind texture index under slot. Embedded
// images have no URI and are referenced by name.
func setTexture(doc *gltf.Document, mat *Material, slot string, index int) {
	if index < 0 || index >= len(doc.Textures) {
		return
	}
	src := doc.Textures[index].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return
	}
	img := doc.Images[*src]
	ref := img.URI
	if ref == "" || img.IsEmbeddedResource() {
		ref = img.Name
	}
	if ref == "" {
		return
	}
	if mat.Textures == nil {
		mat.Textures = make(map[string]string)
	}
	mat.Textures[slot] = ref
}

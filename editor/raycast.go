package editor

import (
	"github.com/chewxy/math32"

	"sculpt-engine/math"
	"sculpt-engine/scene"
	"sculpt-engine/sculpt"
)

// RayFunc turns a screen position into a world-space ray. It is supplied by
// the host, which owns the camera and viewport.
type RayFunc func(screen math.Vec2) scene.Ray

// HitResult stores the result of a ray intersection test
type HitResult struct {
	Hit      bool
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Node     *scene.Node
	FaceIdx  int // triangle index in the mesh
}

// ScenePicker implements sculpt.Picker over the user objects of a scene.
type ScenePicker struct {
	Scene *scene.Scene
	Ray   RayFunc
}

func NewScenePicker(s *scene.Scene, ray RayFunc) *ScenePicker {
	return &ScenePicker{Scene: s, Ray: ray}
}

// CastRay returns the nearest user-content surface under screen.
func (p *ScenePicker) CastRay(screen math.Vec2) (sculpt.Hit, bool) {
	if p.Ray == nil {
		return sculpt.Hit{}, false
	}
	hit := RaycastScene(p.Ray(screen), p.Scene)
	if !hit.Hit {
		return sculpt.Hit{}, false
	}
	return sculpt.Hit{Node: hit.Node, Point: hit.Point, Normal: hit.Normal}, true
}

// RaycastScene tests a ray against all visible user meshes in the scene,
// returns closest hit
func RaycastScene(ray scene.Ray, s *scene.Scene) HitResult {
	closestHit := HitResult{Distance: math32.MaxFloat32, FaceIdx: -1}

	for _, node := range s.GetVisibleNodes() {
		if !node.UserContent || !node.Mesh.HasGeometry() {
			continue
		}

		// Broad phase: world-space AABB test
		bounds := node.Mesh.Bounds.Transform(node.GetWorldMatrix())
		t, hit := bounds.IntersectRay(ray)
		if !hit || t > closestHit.Distance {
			continue
		}

		// Narrow phase: triangle test
		result := rayMeshIntersect(ray, node)
		if result.Hit && result.Distance < closestHit.Distance {
			closestHit = result
		}
	}

	return closestHit
}

// rayMeshIntersect tests the ray in the node's local space, through the
// mesh's BVH when one is current and triangle by triangle otherwise.
func rayMeshIntersect(ray scene.Ray, node *scene.Node) HitResult {
	mesh := node.Mesh
	world := node.GetWorldMatrix()
	local := ray.Transform(world.Inverse())

	var (
		dist float32
		tri  int
		ok   bool
	)
	if bvh := mesh.BVH(); bvh != nil && bvh.Topology() == mesh.TopologyVersion() {
		dist, tri, ok = bvh.Intersect(mesh, local)
	} else {
		dist, tri, ok = bruteForce(mesh, local)
	}
	if !ok {
		return HitResult{FaceIdx: -1}
	}

	i0, i1, i2, _ := mesh.Triangle(tri)
	v0, v1, v2 := mesh.Position(i0), mesh.Position(i1), mesh.Position(i2)
	point := world.MulVec3(local.At(dist))
	normal := world.MulDir(v1.Sub(v0).Cross(v2.Sub(v0))).Normalize()

	return HitResult{
		Hit:      true,
		Distance: point.Distance(ray.Origin),
		Point:    point,
		Normal:   normal,
		Node:     node,
		FaceIdx:  tri,
	}
}

func bruteForce(mesh *scene.Mesh, r scene.Ray) (dist float32, tri int, ok bool) {
	dist = math32.Inf(1)
	tri = -1
	for t := 0; t < mesh.TriangleCount(); t++ {
		i0, i1, i2, valid := mesh.Triangle(t)
		if !valid {
			continue
		}
		if d, hit := scene.IntersectTriangle(r, mesh.Position(i0), mesh.Position(i1), mesh.Position(i2)); hit && d < dist {
			dist, tri = d, t
		}
	}
	return dist, tri, tri >= 0
}

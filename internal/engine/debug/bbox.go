// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/pcviz/pkg/pointcloud"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoundsWireframe returns the wireframe of b, or nil if b is empty.
// padding grows the box on every side so a flat cloud still shows a
// visible outline.
func BoundsWireframe(b pointcloud.BoundingBox, padding float32) []float32 {
	if !b.Valid() {
		return nil
	}
	return GenerateBBoxWireframeVertices(
		b.XMin-padding, b.YMin-padding, b.ZMin-padding,
		b.XMax+padding, b.YMax+padding, b.ZMax+padding,
	)
}

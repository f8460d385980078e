// Package clouds tracks the point-cloud files open in a scene.
package clouds

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/config"
	"github.com/Faultbox/pcviz/internal/engine/mesh"
	"github.com/Faultbox/pcviz/internal/engine/scene"
	"github.com/Faultbox/pcviz/internal/logger"
	"github.com/Faultbox/pcviz/pkg/formats"
	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// LoadFunc reads a point-cloud file.
type LoadFunc func(path string) (pointcloud.Source, error)

// Set tracks which scene slot each opened file occupies.
type Set struct {
	scene *scene.Scene
	load  LoadFunc
	paths []string
	index map[string]int
}

// New returns an empty Set adding to sc. A nil load uses formats.Load.
func New(sc *scene.Scene, load LoadFunc) *Set {
	if load == nil {
		load = formats.Load
	}
	return &Set{scene: sc, load: load, index: make(map[string]int)}
}

// Paths returns the files that loaded, in scene order.
func (c *Set) Paths() []string {
	return c.paths
}

// Open loads every path into the scene with the given placement. A file
// that fails to load is skipped; the returned error joins all failures.
func (c *Set) Open(paths []string, placement config.MeshConfig) error {
	var failed []error
	for _, p := range paths {
		src, err := c.load(p)
		if err != nil {
			logger.Error("failed to load point cloud", zap.String("path", p), zap.Error(err))
			failed = append(failed, fmt.Errorf("%s: %w", p, err))
			continue
		}
		if _, dup := c.index[p]; dup {
			continue
		}
		m := c.scene.Add(src)
		Place(m, placement)
		c.index[p] = c.scene.Len() - 1
		c.paths = append(c.paths, p)
		describe(p, m)
	}
	return errors.Join(failed...)
}

// Reload replaces the mesh loaded from path, keeping its placement.
// The new source is triangulated first; if loading or triangulation
// fails the previous mesh stays in the scene.
func (c *Set) Reload(path string) error {
	i, ok := c.index[path]
	if !ok {
		return fmt.Errorf("%s: not open", path)
	}
	src, err := c.load(path)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", path, err)
	}
	m := mesh.New(src)
	if _, err := m.Geometry(); err != nil {
		return fmt.Errorf("reloading %s: %w", path, err)
	}
	if err := c.scene.ReplaceMesh(i, m); err != nil {
		return err
	}
	describe(path, m)
	return nil
}

// Place applies the configured placement to m.
func Place(m *mesh.Mesh, cfg config.MeshConfig) {
	m.Position = math.Vec3FromArray(cfg.Position)
	m.Scale = math.Vec3FromArray(cfg.Scale)
	m.Rotation = math.Vec3FromArray(cfg.Rotation)
	m.Tint = cfg.Tint
}

// describe triangulates m and logs its size.
func describe(path string, m *mesh.Mesh) {
	g, err := m.Geometry()
	if err != nil {
		logger.Warn("point cloud has no geometry", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("point cloud loaded",
		zap.String("path", path),
		zap.Int("samples", m.Source().Len()),
		zap.Int("triangles", g.TriangleCount()),
		zap.Stringer("bounds", g.Bounds),
	)
}

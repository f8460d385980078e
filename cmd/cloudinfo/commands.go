package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/pcviz/pkg/formats"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

var errNoFiles = errors.New("no files given")

// cmdInfo loads and triangulates each file. A failing file is reported
// inline and the rest are still shown.
func cmdInfo(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return errNoFiles
	}
	var failed []error
	for i, p := range paths {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := describe(w, p); err != nil {
			fmt.Fprintf(w, "  error:     %v\n", err)
			failed = append(failed, err)
		}
	}
	return errors.Join(failed...)
}

func describe(w io.Writer, path string) error {
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  loader:    %s\n", formats.KindForPath(path))

	src, err := formats.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  source:    %s\n", sourceShape(src))

	geo, err := pointcloud.Triangulate(src)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  vertices:  %d\n", geo.VertexCount())
	fmt.Fprintf(w, "  triangles: %d\n", geo.TriangleCount())
	if geo.Bounds.Valid() {
		b := geo.Bounds
		fmt.Fprintf(w, "  bounds:    %s\n", b)
		fmt.Fprintf(w, "  size:      %.3f x %.3f x %.3f\n", b.Width(), b.Height(), b.Depth())
	} else {
		fmt.Fprintf(w, "  bounds:    empty\n")
	}
	return nil
}

func sourceShape(src pointcloud.Source) string {
	switch s := src.(type) {
	case *pointcloud.GridSamples:
		return fmt.Sprintf("grid %dx%d", s.Rows, s.Cols)
	case *pointcloud.RaggedMatrix:
		return fmt.Sprintf("matrix %d rows, width %d", len(s.Rows), s.Width())
	case *pointcloud.FlatPoints:
		return fmt.Sprintf("%d points", len(s.Points))
	default:
		return fmt.Sprintf("%T", src)
	}
}

func cmdHeader(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return errNoFiles
	}
	for i, p := range paths {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := printHeader(w, p); err != nil {
			return err
		}
	}
	return nil
}

func printHeader(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pcd, err := formats.ParsePCD(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	h := pcd.Header

	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintf(w, "  VERSION    %s\n", h.Version)
	fmt.Fprintf(w, "  FIELDS     %s\n", strings.Join(h.Fields, " "))
	fmt.Fprintf(w, "  SIZE       %s\n", joinInts(h.Size))
	fmt.Fprintf(w, "  TYPE       %s\n", strings.Join(h.Type, " "))
	fmt.Fprintf(w, "  COUNT      %s\n", joinInts(h.Count))
	fmt.Fprintf(w, "  WIDTH      %d\n", h.Width)
	fmt.Fprintf(w, "  HEIGHT     %d\n", h.Height)
	fmt.Fprintf(w, "  VIEWPOINT  %v\n", h.Viewpoint)
	fmt.Fprintf(w, "  POINTS     %d\n", h.Points)
	fmt.Fprintf(w, "  DATA       %s\n", h.Data)
	fmt.Fprintf(w, "  rows read  %d\n", len(pcd.Rows))
	return nil
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

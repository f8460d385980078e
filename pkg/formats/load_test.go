package formats

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Kind
	}{
		{"depth.png", KindImage},
		{"DEPTH.JPG", KindImage},
		{"scan.Tiff", KindImage},
		{"height.tga", KindImage},
		{"cloud.pcd", KindPCD},
		{"cloud.PCD", KindPCD},
		{"points.csv", KindDelimited},
		{"points.txt", KindDelimited},
		{"noext", KindDelimited},
		{"dir.png/points", KindDelimited},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := KindForPath(tt.path); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_PCD(t *testing.T) {
	path := writeFile(t, "cloud.pcd", []byte("DATA ascii\n1 2 3\n4 5 6\n7 8 9\n"))

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m, ok := src.(*pointcloud.RaggedMatrix)
	if !ok {
		t.Fatalf("expected *RaggedMatrix, got %T", src)
	}
	if len(m.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(m.Rows))
	}
}

func TestLoad_Delimited(t *testing.T) {
	path := writeFile(t, "points.csv", []byte("0,0,0\n1,0,0\n0,1,0\n1,1,0\n"))

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	pts, ok := src.(*pointcloud.FlatPoints)
	if !ok {
		t.Fatalf("expected *FlatPoints, got %T", src)
	}
	if len(pts.Points) != 4 {
		t.Errorf("expected 4 points, got %d", len(pts.Points))
	}
}

func TestLoad_Image(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "depth.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	grid, ok := src.(*pointcloud.GridSamples)
	if !ok {
		t.Fatalf("expected *GridSamples, got %T", src)
	}
	if grid.Rows != 3 || grid.Cols != 4 {
		t.Errorf("expected 3x4 grid, got %dx%d", grid.Rows, grid.Cols)
	}
}

func TestLoad_TGA(t *testing.T) {
	data := append(tgaHeader(TGATypeGray, 2, 2, 8, 0), 1, 2, 3, 4)
	path := writeFile(t, "height.TGA", data)

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := src.(*pointcloud.GridSamples); !ok {
		t.Fatalf("expected *GridSamples, got %T", src)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.pcd")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}

	bad := writeFile(t, "bad.png", []byte("not a png"))
	if _, err := Load(bad); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}

	pcd := writeFile(t, "bad.pcd", []byte("DATA ascii\n1 x 3\n"))
	var perr *ParseError
	if _, err := Load(pcd); !errors.As(err, &perr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

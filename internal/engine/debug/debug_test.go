package debug

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/pcviz/pkg/formats"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

func TestBoundsWireframe(t *testing.T) {
	b := pointcloud.BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 2, ZMin: -1, ZMax: 0}

	verts := BoundsWireframe(b, 0)
	if len(verts) != BBoxWireframeVertexCount*3 {
		t.Fatalf("expected %d floats, got %d", BBoxWireframeVertexCount*3, len(verts))
	}
	for i := 0; i < len(verts); i += 3 {
		x, y, z := verts[i], verts[i+1], verts[i+2]
		if (x != 0 && x != 1) || (y != 0 && y != 2) || (z != -1 && z != 0) {
			t.Errorf("vertex %d (%v,%v,%v) is not a box corner", i/3, x, y, z)
		}
	}
}

func TestBoundsWireframePadding(t *testing.T) {
	b := pointcloud.BoundingBox{XMin: 0, XMax: 1, YMin: 0, YMax: 1, ZMin: 0, ZMax: 0}

	verts := BoundsWireframe(b, 0.5)
	if verts[0] != -0.5 || verts[2] != -0.5 {
		t.Errorf("expected padded min corner, got %v", verts[:3])
	}
}

func TestBoundsWireframeEmpty(t *testing.T) {
	if verts := BoundsWireframe(pointcloud.EmptyBoundingBox(), 1); verts != nil {
		t.Errorf("expected nil for empty box, got %d floats", len(verts))
	}
}

func TestNextFilename(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "png", 3)

	name, err := sc.NextFilename()
	if err != nil {
		t.Fatalf("NextFilename failed: %v", err)
	}
	if name != filepath.Join(dir, "screenshot_0.png") {
		t.Errorf("unexpected first name %s", name)
	}

	// Gaps are filled first.
	for _, n := range []string{"screenshot_0.png", "screenshot_2.png"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	name, _ = sc.NextFilename()
	if name != filepath.Join(dir, "screenshot_1.png") {
		t.Errorf("expected screenshot_1.png, got %s", name)
	}

	if err := os.WriteFile(filepath.Join(dir, "screenshot_1.png"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := sc.NextFilename(); !errors.Is(err, ErrScreenshotLimit) {
		t.Errorf("expected ErrScreenshotLimit, got %v", err)
	}
}

func TestCaptureFromPixelsFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "png", 500)

	// 1x2 image: bottom row red, top row green (OpenGL order).
	pixels := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
	}
	name, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels failed: %v", err)
	}

	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode screenshot: %v", err)
	}

	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	bottom := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA)
	if top.G != 255 || bottom.R != 255 {
		t.Errorf("expected top green and bottom red, got %v %v", top, bottom)
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "png", 0)
	if _, err := sc.CaptureFromPixels(make([]byte, 7), 1, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCaptureFormats(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"png", ".png"},
		{"JPEG", ".jpg"},
		{"jpg", ".jpg"},
		{"tga", ".tga"},
		{"unknown", ".png"},
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			sc := NewScreenshotCapture(t.TempDir(), tt.format, 10)
			name, err := sc.CaptureFromImage(img)
			if err != nil {
				t.Fatalf("CaptureFromImage failed: %v", err)
			}
			if filepath.Ext(name) != tt.ext {
				t.Errorf("expected %s, got %s", tt.ext, name)
			}

			src, err := formats.Load(name)
			if err != nil {
				t.Fatalf("screenshot does not load back: %v", err)
			}
			if src.Len() != 16 {
				t.Errorf("expected 16 samples, got %d", src.Len())
			}
		})
	}
}

func TestCaptureSequence(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "png", 500)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	for i := 0; i < 3; i++ {
		if _, err := sc.CaptureFromImage(img); err != nil {
			t.Fatalf("capture %d failed: %v", i, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "screenshot_2.png")); err != nil {
		t.Errorf("expected third screenshot: %v", err)
	}
}

package debug

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/pcviz/pkg/formats"
)

// ErrScreenshotLimit is returned when every numbered file name is taken.
var ErrScreenshotLimit = errors.New("screenshot limit reached")

// ScreenshotCapture writes numbered screenshots: <prefix>_<n>.<ext>, using
// the lowest n whose file does not exist yet.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string
	limit     int
}

// NewScreenshotCapture creates a new screenshot capture handler. format is
// png, jpeg or tga. A limit of zero or less disables the limit.
func NewScreenshotCapture(outputDir, format string, limit int) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    "screenshot",
		format:    normalizeFormat(format),
		limit:     limit,
	}
}

func normalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "jpg"
	case "tga":
		return "tga"
	default:
		return "png"
	}
}

// NextFilename returns the next free file name without creating it.
func (sc *ScreenshotCapture) NextFilename() (string, error) {
	for n := 0; sc.limit <= 0 || n < sc.limit; n++ {
		name := filepath.Join(sc.outputDir, fmt.Sprintf("%s_%d.%s", sc.prefix, n, sc.format))
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			return name, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %d files in %s", ErrScreenshotLimit, sc.limit, sc.outputDir)
}

// CaptureFromPixels captures a screenshot from raw pixel data.
// pixels should be in RGBA format with width*height*4 bytes.
// The image is flipped vertically since OpenGL has origin at bottom-left.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return sc.CaptureFromImage(img)
}

// CaptureFromImage writes img to the next free file name.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename, err := sc.NextFilename()
	if err != nil {
		return "", err
	}

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if err := sc.encode(file, img); err != nil {
		file.Close()
		os.Remove(filename)
		return "", fmt.Errorf("encoding %s: %w", sc.format, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing file: %w", err)
	}

	return filename, nil
}

func (sc *ScreenshotCapture) encode(w io.Writer, img image.Image) error {
	switch sc.format {
	case "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "tga":
		return formats.EncodeTGA(w, img)
	default:
		return png.Encode(w, img)
	}
}

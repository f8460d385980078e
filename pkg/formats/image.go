package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration

	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// LoadImage decodes a raster image and converts it to a depth grid.
func LoadImage(r io.Reader) (*pointcloud.GridSamples, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedImage
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return GridFromImage(img), nil
}

// GridFromImage converts img to a single-channel grid, one sample per
// pixel. Rows run top to bottom. 16-bit grayscale images keep their full
// range; everything else is reduced to 8-bit luminance.
func GridFromImage(img image.Image) *pointcloud.GridSamples {
	b := img.Bounds()
	grid := pointcloud.NewGridSamples(b.Dy(), b.Dx())

	switch src := img.(type) {
	case *image.Gray16:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				grid.Set(y-b.Min.Y, x-b.Min.X, float32(src.Gray16At(x, y).Y))
			}
		}
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				grid.Set(y-b.Min.Y, x-b.Min.X, float32(src.GrayAt(x, y).Y))
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				grid.Set(y-b.Min.Y, x-b.Min.X, float32(g.Y))
			}
		}
	}

	return grid
}

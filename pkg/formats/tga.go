package formats

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// TGA image type constants.
const (
	TGATypeTrueColor    = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeTrueColorRLE = 10 // RLE compressed true-color
	TGATypeGrayRLE      = 11 // RLE compressed grayscale
)

// LoadTGA decodes a TGA depth image into a grid. TGA has no magic number,
// so it cannot go through image.Decode.
func LoadTGA(r io.Reader) (*pointcloud.GridSamples, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := DecodeTGA(data)
	if err != nil {
		return nil, err
	}
	return GridFromImage(img), nil
}

// DecodeTGA decodes uncompressed and RLE TGA files, either true-color
// (24/32 bpp) or grayscale (8 bpp). Grayscale files decode to *image.Gray.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedImage)
	}

	gray := imageType == TGATypeGray || imageType == TGATypeGrayRLE
	rle := imageType == TGATypeTrueColorRLE || imageType == TGATypeGrayRLE
	switch {
	case imageType != TGATypeTrueColor && imageType != TGATypeTrueColorRLE && !gray:
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedImage, imageType)
	case gray && bpp != 8:
		return nil, fmt.Errorf("%w: grayscale TGA with %d bpp", ErrUnsupportedImage, bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupportedImage, bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixelData := data[offset:]
	bytesPerPixel := bpp / 8

	// Bit 5 of the descriptor: rows stored top to bottom.
	topToBottom := descriptor&0x20 != 0

	var img image.Image
	var put func(x, y int, px []byte)
	if gray {
		g := image.NewGray(image.Rect(0, 0, width, height))
		put = func(x, y int, px []byte) { g.SetGray(x, y, color.Gray{Y: px[0]}) }
		img = g
	} else {
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		put = func(x, y int, px []byte) {
			a := uint8(255)
			if len(px) == 4 {
				a = px[3]
			}
			rgba.SetRGBA(x, y, color.RGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
		img = rgba
	}

	// store places pixel number idx (file order) into the image.
	store := func(idx int, px []byte) {
		x := idx % width
		y := idx / width
		if !topToBottom {
			y = height - 1 - y
		}
		put(x, y, px)
	}

	pixelCount := width * height
	if !rle {
		if len(pixelData) < pixelCount*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < pixelCount; i++ {
			store(i, pixelData[i*bytesPerPixel:(i+1)*bytesPerPixel])
		}
		return img, nil
	}

	pixelIdx := 0
	dataIdx := 0
	for pixelIdx < pixelCount && dataIdx < len(pixelData) {
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated count times.
			if dataIdx+bytesPerPixel > len(pixelData) {
				break
			}
			px := pixelData[dataIdx : dataIdx+bytesPerPixel]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				store(pixelIdx, px)
				pixelIdx++
			}
			continue
		}

		// Raw packet: count literal pixels.
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			if dataIdx+bytesPerPixel > len(pixelData) {
				break
			}
			store(pixelIdx, pixelData[dataIdx:dataIdx+bytesPerPixel])
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}

	return img, nil
}

// EncodeTGA writes img as an uncompressed 24-bit true-color TGA, bottom
// row first.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("TGA image too large: %dx%d", width, height)
	}

	header := make([]byte, 18)
	header[2] = TGATypeTrueColor
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = 24

	buf := make([]byte, 0, len(header)+width*height*3)
	buf = append(buf, header...)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			buf = append(buf, c.B, c.G, c.R)
		}
	}

	_, err := w.Write(buf)
	return err
}

// Package formats provides loaders that turn point-cloud files into
// pointcloud.Source values: raster depth images, ASCII PCD files and
// comma-delimited point lists.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// ErrUnsupportedImage is returned when no registered decoder accepts the data.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ParseError reports a malformed numeric field in a text format.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid number %q: %v", e.Line, e.Field, e.Err)
}

// Unwrap returns the underlying strconv error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Kind identifies which loader handles a file.
type Kind int

// Loader kinds.
const (
	KindDelimited Kind = iota
	KindImage
	KindPCD
)

// String returns the loader name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPCD:
		return "pcd"
	default:
		return "delimited"
	}
}

// imageExtensions lists the raster formats LoadImage can decode.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".tga":  true,
}

// KindForPath picks a loader from the lowercased file extension.
// Anything that is neither an image nor .pcd is read as delimited text.
func KindForPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExtensions[ext]:
		return KindImage
	case ext == ".pcd":
		return KindPCD
	default:
		return KindDelimited
	}
}

// Load reads path with the loader chosen by KindForPath.
func Load(path string) (pointcloud.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch KindForPath(path) {
	case KindImage:
		if strings.EqualFold(filepath.Ext(path), ".tga") {
			return LoadTGA(f)
		}
		return LoadImage(f)
	case KindPCD:
		pcd, err := ParsePCD(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return pcd.Matrix(), nil
	default:
		pts, err := ParseDelimited(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return pts, nil
	}
}

// Package pointcloud converts raw point-cloud samples into flat-shaded
// triangle geometry ready for GPU upload.
package pointcloud

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pcviz/pkg/math"
)

// Source errors.
var (
	ErrUnknownSource = errors.New("unknown point source")
	ErrGridSize      = errors.New("grid samples shorter than rows*cols")
	ErrRaggedRow     = errors.New("matrix row shorter than first row")
)

// RowWidthError reports a RaggedMatrix row that is narrower than row 0.
type RowWidthError struct {
	Row   int
	Got   int
	Width int
}

func (e *RowWidthError) Error() string {
	return fmt.Sprintf("row %d has %d values, want at least %d", e.Row, e.Got, e.Width)
}

// Unwrap returns ErrRaggedRow.
func (e *RowWidthError) Unwrap() error {
	return ErrRaggedRow
}

// Source is one of GridSamples, RaggedMatrix or FlatPoints.
// The set is closed: only this package can add variants.
type Source interface {
	// Len returns the number of raw samples held by the source.
	Len() int

	source()
}

// GridSamples is a dense rectangular grid of depth values in row-major order.
type GridSamples struct {
	Rows   int
	Cols   int
	Values []float32
}

// NewGridSamples allocates a zeroed Rows x Cols grid.
func NewGridSamples(rows, cols int) *GridSamples {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &GridSamples{Rows: rows, Cols: cols, Values: make([]float32, rows*cols)}
}

// At returns the depth at (row, col). Coordinates must be in range.
func (g *GridSamples) At(row, col int) float32 {
	return g.Values[row*g.Cols+col]
}

// Set stores the depth at (row, col).
func (g *GridSamples) Set(row, col int, depth float32) {
	g.Values[row*g.Cols+col] = depth
}

// Len returns Rows*Cols.
func (g *GridSamples) Len() int {
	return g.Rows * g.Cols
}

func (*GridSamples) source() {}

// RaggedMatrix is a sequence of rows of depth values. The first row's
// length is the authoritative column count.
type RaggedMatrix struct {
	Rows [][]float32
}

// Width returns the length of the first row, or 0 for an empty matrix.
func (m *RaggedMatrix) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// Len returns the total number of values across all rows.
func (m *RaggedMatrix) Len() int {
	n := 0
	for _, row := range m.Rows {
		n += len(row)
	}
	return n
}

// Validate checks that no row is shorter than the first one.
// Longer rows are allowed; their extra values are ignored.
func (m *RaggedMatrix) Validate() error {
	width := m.Width()
	for i, row := range m.Rows {
		if len(row) < width {
			return &RowWidthError{Row: i, Got: len(row), Width: width}
		}
	}
	return nil
}

// Truncated returns a copy of the matrix with every row cut to the
// shortest row width. The receiver is not modified.
func (m *RaggedMatrix) Truncated() *RaggedMatrix {
	if len(m.Rows) == 0 {
		return &RaggedMatrix{}
	}
	width := len(m.Rows[0])
	for _, row := range m.Rows[1:] {
		if len(row) < width {
			width = len(row)
		}
	}
	rows := make([][]float32, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = append([]float32(nil), row[:width]...)
	}
	return &RaggedMatrix{Rows: rows}
}

func (*RaggedMatrix) source() {}

// FlatPoints is an ordered list of explicit 3D points. Order is assumed to
// encode raster adjacency.
type FlatPoints struct {
	Points []math.Vec3
}

// Len returns the number of points.
func (p *FlatPoints) Len() int {
	return len(p.Points)
}

func (*FlatPoints) source() {}

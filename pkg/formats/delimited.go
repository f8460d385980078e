package formats

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/pcviz/pkg/math"
	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// ParseDelimited reads comma-separated numbers and groups every three
// consecutive values into one point. Groups may span lines. Empty fields
// are skipped and a partial group at end of input is dropped.
func ParseDelimited(r io.Reader) (*pointcloud.FlatPoints, error) {
	pts := &pointcloud.FlatPoints{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var group [3]float32
	n := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		for _, field := range strings.Split(scanner.Text(), ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Field: field, Err: err}
			}
			group[n] = float32(v)
			n++
			if n == 3 {
				pts.Points = append(pts.Points, math.Vec3{X: group[0], Y: group[1], Z: group[2]})
				n = 0
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pts, nil
}

package formats

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/pcviz/pkg/pointcloud"
)

// pcdKeywords are the header entries of an ASCII PCD file. Matching is
// case-sensitive.
var pcdKeywords = map[string]bool{
	"VERSION":   true,
	"FIELDS":    true,
	"SIZE":      true,
	"TYPE":      true,
	"COUNT":     true,
	"WIDTH":     true,
	"HEIGHT":    true,
	"VIEWPOINT": true,
	"POINTS":    true,
	"DATA":      true,
}

// IsPCDKeyword reports whether token starts a PCD header line.
func IsPCDKeyword(token string) bool {
	return pcdKeywords[token]
}

// PCDHeader holds the header values of a PCD file. Fields missing from the
// file keep their zero value.
type PCDHeader struct {
	Version   string
	Fields    []string
	Size      []int
	Type      []string
	Count     []int
	Width     int
	Height    int
	Viewpoint []float32
	Points    int
	Data      string
}

// PCD is a parsed point-cloud file: its header and one float row per data
// line.
type PCD struct {
	Header PCDHeader
	Rows   [][]float32
}

// Matrix returns the data rows as a RaggedMatrix. The rows are shared, not
// copied.
func (p *PCD) Matrix() *pointcloud.RaggedMatrix {
	return &pointcloud.RaggedMatrix{Rows: p.Rows}
}

// ParsePCD reads an ASCII PCD file. Lines starting with '#' are comments.
// Header lines are consumed until the first line whose leading token is not
// a header keyword; that line and every line after it is a data row. Blank
// lines are skipped.
func ParsePCD(r io.Reader) (*PCD, error) {
	pcd := &PCD{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	inHeader := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		if inHeader && IsPCDKeyword(tokens[0]) {
			pcd.Header.apply(tokens[0], tokens[1:])
			continue
		}
		inHeader = false

		row := make([]float32, len(tokens))
		for i, tok := range tokens {
			v, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Field: tok, Err: err}
			}
			row[i] = float32(v)
		}
		pcd.Rows = append(pcd.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pcd, nil
}

// apply records one header entry. Malformed values are ignored; the header
// is informational and never drives triangulation.
func (h *PCDHeader) apply(key string, values []string) {
	switch key {
	case "VERSION":
		h.Version = strings.Join(values, " ")
	case "FIELDS":
		h.Fields = append([]string(nil), values...)
	case "SIZE":
		h.Size = atoiAll(values)
	case "TYPE":
		h.Type = append([]string(nil), values...)
	case "COUNT":
		h.Count = atoiAll(values)
	case "WIDTH":
		h.Width = firstInt(values)
	case "HEIGHT":
		h.Height = firstInt(values)
	case "VIEWPOINT":
		h.Viewpoint = h.Viewpoint[:0]
		for _, v := range values {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				continue
			}
			h.Viewpoint = append(h.Viewpoint, float32(f))
		}
	case "POINTS":
		h.Points = firstInt(values)
	case "DATA":
		h.Data = strings.Join(values, " ")
	}
}

func atoiAll(values []string) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func firstInt(values []string) int {
	if len(values) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(values[0])
	return n
}

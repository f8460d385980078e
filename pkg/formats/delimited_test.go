package formats

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/Faultbox/pcviz/pkg/math"
)

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []math.Vec3
	}{
		{
			name:     "one point per line",
			input:    "1,2,3\n4,5,6\n",
			expected: []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		},
		{
			name:     "groups span lines",
			input:    "1,2\n3,4,5,\n6",
			expected: []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}},
		},
		{
			name:     "partial group dropped",
			input:    "1,2,3,4,5",
			expected: []math.Vec3{{X: 1, Y: 2, Z: 3}},
		},
		{
			name:     "whitespace and empty fields",
			input:    " 1 , 2,, 3 \n\n",
			expected: []math.Vec3{{X: 1, Y: 2, Z: 3}},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := ParseDelimited(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseDelimited failed: %v", err)
			}
			if len(pts.Points) != len(tt.expected) {
				t.Fatalf("expected %d points, got %d", len(tt.expected), len(pts.Points))
			}
			for i := range tt.expected {
				if pts.Points[i] != tt.expected[i] {
					t.Errorf("point %d: expected %v, got %v", i, tt.expected[i], pts.Points[i])
				}
			}
		})
	}
}

func TestParseDelimited_Invalid(t *testing.T) {
	_, err := ParseDelimited(strings.NewReader("1,2,3\n4,abc,6\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Line != 2 {
		t.Errorf("expected line 2, got %d", perr.Line)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("expected wrapped strconv.ErrSyntax, got %v", perr.Err)
	}
}

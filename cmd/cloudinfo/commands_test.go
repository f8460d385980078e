package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInfoDelimited(t *testing.T) {
	path := writeFile(t, "cloud.csv", "0,0,0\n1,0,0\n0,1,0\n1,1,1\n")

	var out bytes.Buffer
	require.NoError(t, cmdInfo(&out, []string{path}))

	s := out.String()
	assert.Contains(t, s, "loader:    delimited")
	assert.Contains(t, s, "source:    4 points")
	assert.Contains(t, s, "vertices:  6")
	assert.Contains(t, s, "triangles: 2")
	assert.Contains(t, s, "size:      1.000 x 1.000 x 1.000")
}

func TestInfoPCD(t *testing.T) {
	path := writeFile(t, "room.pcd", "VERSION .7\nDATA ascii\n1 2 3\n4 5 6\n7 8 9\n")

	var out bytes.Buffer
	require.NoError(t, cmdInfo(&out, []string{path}))

	s := out.String()
	assert.Contains(t, s, "loader:    pcd")
	assert.Contains(t, s, "matrix 3 rows, width 3")
	assert.Contains(t, s, "triangles: 8")
}

func TestInfoEmptyCloud(t *testing.T) {
	path := writeFile(t, "short.csv", "1,2,3\n")

	var out bytes.Buffer
	require.NoError(t, cmdInfo(&out, []string{path}))
	assert.Contains(t, out.String(), "bounds:    empty")
}

func TestInfoContinuesAfterFailure(t *testing.T) {
	bad := writeFile(t, "bad.csv", "1,x,3\n")
	good := writeFile(t, "good.csv", "0,0,0\n1,0,0\n0,1,0\n1,1,0\n")

	var out bytes.Buffer
	err := cmdInfo(&out, []string{bad, good})

	require.Error(t, err)
	s := out.String()
	assert.Contains(t, s, "error:")
	assert.Contains(t, s, good)
	assert.Contains(t, s, "triangles: 2")
}

func TestInfoNoFiles(t *testing.T) {
	assert.ErrorIs(t, cmdInfo(&bytes.Buffer{}, nil), errNoFiles)
	assert.ErrorIs(t, cmdHeader(&bytes.Buffer{}, nil), errNoFiles)
}

func TestHeader(t *testing.T) {
	path := writeFile(t, "room.pcd", "# .PCD v.7\nVERSION .7\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nWIDTH 2\nHEIGHT 1\nPOINTS 2\nDATA ascii\n1 2 3\n4 5 6\n")

	var out bytes.Buffer
	require.NoError(t, cmdHeader(&out, []string{path}))

	s := out.String()
	assert.Contains(t, s, "FIELDS     x y z")
	assert.Contains(t, s, "SIZE       4 4 4")
	assert.Contains(t, s, "WIDTH      2")
	assert.Contains(t, s, "POINTS     2")
	assert.Contains(t, s, "DATA       ascii")
	assert.Contains(t, s, "rows read  2")
}

func TestHeaderMissingFile(t *testing.T) {
	assert.Error(t, cmdHeader(&bytes.Buffer{}, []string{filepath.Join(t.TempDir(), "nope.pcd")}))
}

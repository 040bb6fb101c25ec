package mesh

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// maxLineBytes bounds a single gr3 line; node lines are short but header
// comments can be long.
const maxLineBytes = 1 << 20

// ReadGR3 decodes a gr3 (hgrid) mesh from r.
//
// The format is line oriented:
//
//	<name>
//	<ne> <np>
//	<id> <x> <y> <depth>   (np node lines)
//	...                    (element table, ignored)
//
// Only the node table is read; element connectivity plays no part in
// vertical-grid construction. Depths are taken as written, positive down.
func ReadGR3(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	name, ok := scanLine(sc)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "missing header line")
	}
	header, ok := scanLine(sc)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "missing element/node count line")
	}
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "count line needs ne and np, got %q", header)
	}
	np, err := strconv.Atoi(fields[1])
	if err != nil || np < 1 {
		return nil, errors.New(errors.ErrCodeInvalidMesh, "invalid node count %q", fields[1])
	}

	nodes := make([]Node, 0, np)
	for i := 0; i < np; i++ {
		line, ok := scanLine(sc)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidMesh,
				"node table truncated: got %d of %d nodes", i, np)
		}
		n, err := parseNode(line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMesh, err, "node line %d", i+1)
		}
		nodes = append(nodes, n)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMesh, err, "read mesh")
	}
	return New(strings.TrimSpace(name), nodes), nil
}

// Open reads a gr3 mesh file at path.
func Open(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mesh %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidMesh, err, "open %s", path)
	}
	defer f.Close()
	return ReadGR3(f)
}

func parseNode(line string) (Node, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return Node{}, errors.New(errors.ErrCodeInvalidMesh, "expected id x y depth, got %q", line)
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Node{}, errors.New(errors.ErrCodeInvalidMesh, "invalid node id %q", fields[0])
	}
	var coords [3]float64
	for i, f := range fields[1:4] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Node{}, errors.New(errors.ErrCodeInvalidMesh, "invalid numeric field %q", f)
		}
		coords[i] = v
	}
	return Node{ID: id, X: coords[0], Y: coords[1], Depth: coords[2]}, nil
}

// scanLine advances to the next non-empty line.
func scanLine(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}

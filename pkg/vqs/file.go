package vqs

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/oceanmesh/vgrid/pkg/errors"
)

// belowBottom fills sigma rows beneath a node's bottom level in vgrid.in.
const belowBottom = -9.0

// Write serializes the grid in the vertical-grid file layout for ivcor=1:
// ivcor and nvrt headers, one line of per-node bottom level indices, then
// one line per level carrying the level number and every node's sigma
// value, with below-bottom entries written as -9.0.
func (g *Grid) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%12d\n", g.IVcor())
	fmt.Fprintf(bw, "%12d\n", g.NVrt())

	bottoms := g.BottomIndices()
	parts := make([]string, len(bottoms))
	for i, b := range bottoms {
		parts[i] = fmt.Sprintf("%10d", b)
	}
	fmt.Fprintf(bw, "%s\n", strings.Join(parts, " "))

	for l, row := range g.SigmaMatrix() {
		fmt.Fprintf(bw, "%10d", l+1)
		for _, s := range row {
			if math.IsNaN(s) {
				fmt.Fprintf(bw, "%14.6f", belowBottom)
			} else {
				fmt.Fprintf(bw, "%14.6f", s)
			}
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGrid, err, "write vertical grid")
	}
	return nil
}

// WriteFile writes the grid to path, the conventional vgrid.in.
func (g *Grid) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGrid, err, "create %s", path)
	}
	defer f.Close()
	if err := g.Write(f); err != nil {
		return err
	}
	return f.Close()
}

// LevelCounts is the per-node used level count parsed out of an existing
// vertical-grid file, in node order.
type LevelCounts []int

// ReadLevelCounts parses an ivcor=1 vertical-grid file and returns nvrt and
// the used level count of every node. Only the headers and the bottom index
// line are needed; sigma rows are not read.
func ReadLevelCounts(r io.Reader) (nvrt int, counts LevelCounts, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	ivcor, err := scanInt(sc, "ivcor")
	if err != nil {
		return 0, nil, err
	}
	if ivcor != 1 {
		return 0, nil, errors.New(errors.ErrCodeInvalidGrid,
			"expected ivcor=1 vertical grid, got ivcor=%d", ivcor)
	}
	nvrt, err = scanInt(sc, "nvrt")
	if err != nil {
		return 0, nil, err
	}
	if nvrt < 2 {
		return 0, nil, errors.New(errors.ErrCodeInvalidGrid, "nvrt must be >= 2, got %d", nvrt)
	}
	if !sc.Scan() {
		return 0, nil, errors.New(errors.ErrCodeInvalidGrid, "missing bottom index line")
	}
	fields := strings.Fields(sc.Text())
	if len(fields) == 0 {
		return 0, nil, errors.New(errors.ErrCodeInvalidGrid, "empty bottom index line")
	}
	counts = make(LevelCounts, len(fields))
	for i, f := range fields {
		b, err := strconv.Atoi(f)
		if err != nil {
			return 0, nil, errors.New(errors.ErrCodeInvalidGrid, "invalid bottom index %q", f)
		}
		if b < 1 || b > nvrt {
			return 0, nil, errors.New(errors.ErrCodeInvalidGrid,
				"bottom index %d for node %d outside [1, %d]", b, i+1, nvrt)
		}
		counts[i] = nvrt - b + 1
	}
	return nvrt, counts, nil
}

// ReadLevelCountsFile reads an existing vgrid.in at path.
func ReadLevelCountsFile(path string) (int, LevelCounts, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "vertical grid %s", path)
		}
		return 0, nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "open %s", path)
	}
	defer f.Close()
	return ReadLevelCounts(f)
}

const maxLineBytes = 1 << 24

func scanInt(sc *bufio.Scanner, what string) (int, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(strings.Fields(line)[0])
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidGrid, "invalid %s line %q", what, line)
		}
		return v, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidGrid, "missing %s line", what)
}

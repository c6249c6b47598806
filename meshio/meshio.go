// Package meshio reads node/element text files into a mesh.Mesh and writes
// traveltime results back out, grounded on Grid2Dui::saveTT's two output
// forms (a plain-text .dat column dump and a VTK XML unstructured grid).
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ffigura/ttcr/mesh"
	"github.com/ffigura/ttcr/utils"
)

// ReadMesh2D parses a text mesh file: a line "nnodes nelements", followed
// by nnodes lines of "x z [slowness]", followed by nelements lines of
// "i0 i1 i2 [physical_entity]" (0-based vertex indices). A missing
// per-node slowness column falls back to 1.0; a missing physical_entity
// column falls back to 0.
func ReadMesh2D(r io.Reader) (*mesh.Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024), 1<<20)

	nn, ne, err := readCounts(sc)
	if err != nil {
		return nil, err
	}

	coords := make([][2]float64, nn)
	slowness := utils.ConstArray(nn, 1.0)
	for i := 0; i < nn; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("meshio: reading node %d: %w", i, err)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("meshio: node %d has fewer than 2 coordinates", i)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		z, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		coords[i] = [2]float64{x, z}
		if len(fields) >= 3 {
			s, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, err
			}
			slowness[i] = s
		}
	}

	tris := make([][3]int, ne)
	physEnt := make([]int, ne)
	for i := 0; i < ne; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("meshio: reading element %d: %w", i, err)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("meshio: element %d has fewer than 3 vertices", i)
		}
		var v [3]int
		for k := 0; k < 3; k++ {
			idx, err := strconv.Atoi(fields[k])
			if err != nil {
				return nil, err
			}
			v[k] = idx
		}
		tris[i] = v
		if len(fields) >= 4 {
			pe, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, err
			}
			physEnt[i] = pe
		}
	}

	m, err := mesh.New2D(coords, tris, 1.0)
	if err != nil {
		return nil, err
	}
	if err := m.SetSlownessVector(slowness); err != nil {
		return nil, err
	}
	for i := range physEnt {
		m.Elements[i].PhysicalEntity = physEnt[i]
	}
	return m, nil
}

// ReadMesh3D is ReadMesh2D's tetrahedral counterpart: node lines carry
// "x y z [slowness]", element lines carry 4 vertex indices followed by an
// optional physical_entity column.
func ReadMesh3D(r io.Reader) (*mesh.Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024), 1<<20)

	nn, ne, err := readCounts(sc)
	if err != nil {
		return nil, err
	}

	coords := make([][3]float64, nn)
	slowness := utils.ConstArray(nn, 1.0)
	for i := 0; i < nn; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("meshio: reading node %d: %w", i, err)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("meshio: node %d has fewer than 3 coordinates", i)
		}
		var xyz [3]float64
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, err
			}
			xyz[k] = v
		}
		coords[i] = xyz
		if len(fields) >= 4 {
			s, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, err
			}
			slowness[i] = s
		}
	}

	tets := make([][4]int, ne)
	physEnt := make([]int, ne)
	for i := 0; i < ne; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("meshio: reading element %d: %w", i, err)
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("meshio: element %d has fewer than 4 vertices", i)
		}
		var v [4]int
		for k := 0; k < 4; k++ {
			idx, err := strconv.Atoi(fields[k])
			if err != nil {
				return nil, err
			}
			v[k] = idx
		}
		tets[i] = v
		if len(fields) >= 5 {
			pe, err := strconv.Atoi(fields[4])
			if err != nil {
				return nil, err
			}
			physEnt[i] = pe
		}
	}

	m, err := mesh.New3D(coords, tets, 1.0)
	if err != nil {
		return nil, err
	}
	if err := m.SetSlownessVector(slowness); err != nil {
		return nil, err
	}
	for i := range physEnt {
		m.Elements[i].PhysicalEntity = physEnt[i]
	}
	return m, nil
}

func readCounts(sc *bufio.Scanner) (nn, ne int, err error) {
	fields, err := nextFields(sc)
	if err != nil {
		return 0, 0, err
	}
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("meshio: header line must carry node and element counts")
	}
	nn, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	ne, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return nn, ne, nil
}

func nextFields(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return strings.Fields(line), nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// WriteDat writes all (all=true) or only primary (all=false) node coordinates
// and traveltimes as tab-separated columns, Grid2Dui::saveTT's .dat branch.
func WriteDat(w io.Writer, m *mesh.Mesh, t []float64, all bool) error {
	bw := bufio.NewWriter(w)
	n := m.NumPrimary()
	if all {
		n = m.NumNodes()
	}
	for i := 0; i < n; i++ {
		p := m.Nodes[i].Pos
		if _, err := fmt.Fprintf(bw, "%.12g\t%.12g\t%.12g\n", p.X, p.Z, t[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDatFile is WriteDat opening fname+".dat" itself.
func WriteDatFile(fname string, m *mesh.Mesh, t []float64, all bool) error {
	f, err := os.Create(fname + ".dat")
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteDat(f, m, t, all)
}

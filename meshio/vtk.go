package meshio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ffigura/ttcr/mesh"
)

// vtkCellType follows VTK's cell-type enumeration: 5 is VTK_TRIANGLE, 10 is
// VTK_TETRA.
const (
	vtkTriangle    = 5
	vtkTetrahedron = 10
)

// WriteVTK writes an ASCII VTK XML UnstructuredGrid (.vtu) holding the
// mesh's primary-node positions, "Travel time"/"Slowness"/"Velocity"
// point-data scalar arrays, a "physical_entity" cell-data array, and its
// triangle or tetrahedron connectivity — Grid2Dui::saveTT's VTK branch,
// enriched with the node/element attributes already carried by mesh.Mesh,
// minus the binary encoding the source used (VTK's vtkXMLWriter default
// is not worth wiring here; ASCII keeps this dependency-free and
// diffable).
func WriteVTK(w io.Writer, m *mesh.Mesh, t []float64) error {
	nMax := m.NumPrimary()
	cellType := vtkTriangle
	if m.Dim == 3 {
		cellType = vtkTetrahedron
	}

	var points, tt, slow, vel bytes.Buffer
	for n := 0; n < nMax; n++ {
		p := m.Nodes[n].Pos
		fmt.Fprintf(&points, "%.12g %.12g %.12g\n", p.X, p.Y, p.Z)
		fmt.Fprintf(&tt, "%.12g\n", t[n])
		s := m.Nodes[n].Slowness
		fmt.Fprintf(&slow, "%.12g\n", s)
		v := 0.0
		if s != 0 {
			v = 1 / s
		}
		fmt.Fprintf(&vel, "%.12g\n", v)
	}

	var connectivity, offsets, types, physEnt bytes.Buffer
	offset := 0
	nCells := 0
	for _, el := range m.Elements {
		verts := el.Verts()
		allPrimary := true
		for _, v := range verts {
			if v >= nMax {
				allPrimary = false
				break
			}
		}
		if !allPrimary {
			continue
		}
		strs := make([]string, len(verts))
		for i, v := range verts {
			strs[i] = strconv.Itoa(v)
		}
		connectivity.WriteString(strings.Join(strs, " "))
		connectivity.WriteByte('\n')
		offset += len(verts)
		fmt.Fprintf(&offsets, "%d\n", offset)
		fmt.Fprintf(&types, "%d\n", cellType)
		fmt.Fprintf(&physEnt, "%d\n", el.PhysicalEntity)
		nCells++
	}

	doc := vtkFile{
		Type:    "UnstructuredGrid",
		Version: "0.1",
		Grid: vtkUnstructuredGrid{
			Piece: vtkPiece{
				NumberOfPoints: nMax,
				NumberOfCells:  nCells,
				PointData: vtkPointData{
					DataArrays: []vtkDataArray{
						{Type: "Float64", Name: "Travel time", Format: "ascii", Data: strings.TrimSpace(tt.String())},
						{Type: "Float64", Name: "Slowness", Format: "ascii", Data: strings.TrimSpace(slow.String())},
						{Type: "Float64", Name: "Velocity", Format: "ascii", Data: strings.TrimSpace(vel.String())},
					},
				},
				Points: vtkPoints{
					DataArray: vtkDataArray{
						Type: "Float64", NumberOfComponents: 3, Format: "ascii",
						Data: strings.TrimSpace(points.String()),
					},
				},
				Cells: vtkCells{
					DataArrays: []vtkDataArray{
						{Type: "Int64", Name: "connectivity", Format: "ascii", Data: strings.TrimSpace(connectivity.String())},
						{Type: "Int64", Name: "offsets", Format: "ascii", Data: strings.TrimSpace(offsets.String())},
						{Type: "UInt8", Name: "types", Format: "ascii", Data: strings.TrimSpace(types.String())},
					},
				},
				CellData: vtkCellData{
					DataArray: vtkDataArray{
						Type: "Int64", Name: "physical_entity", Format: "ascii",
						Data: strings.TrimSpace(physEnt.String()),
					},
				},
			},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

// WriteVTKFile is WriteVTK opening fname+".vtu" itself.
func WriteVTKFile(fname string, m *mesh.Mesh, t []float64) error {
	f, err := os.Create(fname + ".vtu")
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteVTK(f, m, t)
}

type vtkFile struct {
	XMLName xml.Name            `xml:"VTKFile"`
	Type    string              `xml:"type,attr"`
	Version string              `xml:"version,attr"`
	Grid    vtkUnstructuredGrid `xml:"UnstructuredGrid"`
}

type vtkUnstructuredGrid struct {
	Piece vtkPiece `xml:"Piece"`
}

type vtkPiece struct {
	NumberOfPoints int          `xml:"NumberOfPoints,attr"`
	NumberOfCells  int          `xml:"NumberOfCells,attr"`
	PointData      vtkPointData `xml:"PointData"`
	Points         vtkPoints    `xml:"Points"`
	Cells          vtkCells     `xml:"Cells"`
	CellData       vtkCellData  `xml:"CellData"`
}

type vtkPointData struct {
	DataArrays []vtkDataArray `xml:"DataArray"`
}

type vtkCellData struct {
	DataArray vtkDataArray `xml:"DataArray"`
}

type vtkPoints struct {
	DataArray vtkDataArray `xml:"DataArray"`
}

type vtkCells struct {
	DataArrays []vtkDataArray `xml:"DataArray"`
}

type vtkDataArray struct {
	Type               string `xml:"type,attr"`
	Name               string `xml:"Name,attr,omitempty"`
	NumberOfComponents int    `xml:"NumberOfComponents,attr,omitempty"`
	Format             string `xml:"format,attr"`
	Data               string `xml:",chardata"`
}

package cmd

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/ffigura/ttcr/config"
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
	"github.com/ffigura/ttcr/meshio"
	"github.com/ffigura/ttcr/solver"
	"github.com/spf13/cobra"
)

// raytraceCmd runs one solver.Raytrace call end to end from files on
// disk: mesh, transmitters, receivers and output paths all come from a
// YAML run configuration, the Go analogue of cmd/2D.go's
// inputConditionsFile flag.
var raytraceCmd = &cobra.Command{
	Use:   "raytrace",
	Short: "Compute traveltimes (and optionally ray paths) for a mesh and source/receiver set",
	Run: func(cmd *cobra.Command, args []string) {
		paramsFile, _ := cmd.Flags().GetString("params")
		if paramsFile == "" {
			fmt.Fprintln(os.Stderr, "error: must supply a run configuration file (-p, --params)")
			os.Exit(1)
		}
		if err := runRaytrace(paramsFile); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(raytraceCmd)
	raytraceCmd.Flags().StringP("params", "p", "", "YAML run configuration file")
}

func runRaytrace(paramsFile string) error {
	data, err := ioutil.ReadFile(paramsFile)
	if err != nil {
		return err
	}
	p := config.Default()
	if err := p.Parse(data); err != nil {
		return err
	}
	p.Print()

	var m *mesh.Mesh
	meshFile, err := os.Open(p.MeshFile)
	if err != nil {
		return err
	}
	defer meshFile.Close()
	if p.Dimension == 3 {
		m, err = meshio.ReadMesh3D(meshFile)
	} else {
		m, err = meshio.ReadMesh2D(meshFile)
	}
	if err != nil {
		return err
	}

	tx, t0, err := readSourceFile(p.TxFile, p.T0)
	if err != nil {
		return err
	}
	rx, _, err := readSourceFile(p.RxFile, 0)
	if err != nil {
		return err
	}

	ts := mesh.NewThreadState(m.NumNodes())
	results, err := solver.Raytrace(m, ts, tx, t0, rx, solver.Options{
		SourceRadius: p.SourceRadius,
		WithRaypaths: p.OutputRaypaths != "",
	})
	if err != nil {
		return err
	}

	traveltimes := make([]float64, len(rx))
	for i, r := range results {
		traveltimes[i] = r.Traveltime
	}

	if p.OutputTraveltimes != "" {
		if err := meshio.WriteDatFile(p.OutputTraveltimes, m, ts.T, true); err != nil {
			return err
		}
	}
	if p.OutputVTK != "" {
		if err := meshio.WriteVTKFile(p.OutputVTK, m, ts.T); err != nil {
			return err
		}
	}
	if p.OutputRaypaths != "" {
		if err := writeRaypaths(p.OutputRaypaths, results); err != nil {
			return err
		}
	}

	for i, t := range traveltimes {
		fmt.Printf("receiver %d: t = %.6g\n", i, t)
	}
	return nil
}

// readSourceFile parses one point per line ("x z" or "x y z"), inferring
// dimensionality from the column count; a fourth column ("x y z t0")
// overrides defaultT0 for that point. A three-column line is always read as
// "x y z".
func readSourceFile(fname string, defaultT0 float64) ([]geometry.Vec3, []float64, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var pts []geometry.Vec3
	var t0s []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("cmd: malformed source line %q", line)
		}
		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, err
			}
			vals[i] = v
		}
		t0 := defaultT0
		var p geometry.Vec3
		switch {
		case len(vals) >= 4:
			p = geometry.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
			t0 = vals[3]
		case len(vals) == 3:
			p = geometry.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}
		default:
			p = geometry.Vec3{X: vals[0], Z: vals[1]}
		}
		pts = append(pts, p)
		t0s = append(t0s, t0)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return pts, t0s, nil
}

func writeRaypaths(fname string, results []solver.Result) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for n, r := range results {
		for _, p := range r.Raypath {
			fmt.Fprintf(w, "%d\t%.12g\t%.12g\t%.12g\n", n, p.X, p.Y, p.Z)
		}
	}
	return w.Flush()
}

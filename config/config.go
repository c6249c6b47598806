// Package config parses the YAML run configuration for a raytrace
// invocation, grounded on InputParameters.InputParameters2D's Parse/Print
// pair.
package config

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters is the YAML-tagged description of one raytrace run: the mesh
// file, the source/receiver lists, the source radius and the output paths.
// SlownessFile, GradientMethod, HighOrderRays and Threads are parsed and
// printed, but cmd/raytrace does not read them.
type Parameters struct {
	Title string `yaml:"Title"`

	MeshFile     string `yaml:"MeshFile"`
	SlownessFile string `yaml:"SlownessFile"`
	Dimension    int    `yaml:"Dimension"`

	TxFile string  `yaml:"TxFile"`
	RxFile string  `yaml:"RxFile"`
	T0     float64 `yaml:"T0"`

	SourceRadius   float64 `yaml:"SourceRadius"`
	GradientMethod string  `yaml:"GradientMethod"`
	HighOrderRays  bool    `yaml:"HighOrderRays"`

	OutputTraveltimes string `yaml:"OutputTraveltimes"`
	OutputRaypaths    string `yaml:"OutputRaypaths"`
	OutputVTK         string `yaml:"OutputVTK"`

	Threads int `yaml:"Threads"`

	// Extra carries solver-specific knobs not promoted to a named field,
	// keyed the same way BCs keyed boundary-condition parameters.
	Extra map[string]map[string]float64 `yaml:"Extra"`
}

// Parse unmarshals data into p.
func (p *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, p)
}

// Print writes p in the same aligned, field-by-field form Print used for
// the original 2D run parameters.
func (p *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", p.Title)
	fmt.Printf("%s\t\t= MeshFile\n", p.MeshFile)
	fmt.Printf("%s\t\t= SlownessFile\n", p.SlownessFile)
	fmt.Printf("%d\t\t\t\t= Dimension\n", p.Dimension)
	fmt.Printf("%s\t\t= TxFile\n", p.TxFile)
	fmt.Printf("%s\t\t= RxFile\n", p.RxFile)
	fmt.Printf("%8.5f\t\t= T0\n", p.T0)
	fmt.Printf("%8.5f\t\t= SourceRadius\n", p.SourceRadius)
	fmt.Printf("[%s]\t\t\t= GradientMethod\n", p.GradientMethod)
	fmt.Printf("%v\t\t\t= HighOrderRays\n", p.HighOrderRays)
	fmt.Printf("%d\t\t\t\t= Threads\n", p.Threads)

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("Extra[%s] = %v\n", key, p.Extra[key])
	}
}

// Default returns the base run parameters that a parsed config file is laid
// over (fields the file omits keep these values): linear gradient recovery,
// single thread, no source-radius seeding.
func Default() Parameters {
	return Parameters{
		Title:          "ttcr raytrace run",
		Dimension:      2,
		GradientMethod: "linear",
		Threads:        1,
	}
}

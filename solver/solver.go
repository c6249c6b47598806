// Package solver exposes the single entry point a caller needs to go from
// a mesh and a set of sources to traveltimes and, optionally, ray paths,
// grounded on Grid3Ducfm's four raytrace() overloads collapsed into one Go
// API distinguished by which Options are set.
package solver

import (
	"errors"
	"fmt"

	"github.com/ffigura/ttcr/fmm"
	"github.com/ffigura/ttcr/geometry"
	"github.com/ffigura/ttcr/mesh"
	"github.com/ffigura/ttcr/raypath"
)

var (
	// ErrInvalidInput is returned when Tx/Rx counts are inconsistent or a
	// point lies outside the mesh, the Go form of checkPts throwing.
	ErrInvalidInput = errors.New("solver: invalid transmitter or receiver point")
	// ErrEmptySourceRadius is returned when Options.SourceRadius is set but
	// no node lies within it of any source — propagated from fmm.Seed.
	ErrEmptySourceRadius = fmt.Errorf("solver: %w", fmm.ErrNoNodesInSourceRadius)
	// ErrPathFailure is returned when ray-path tracing does not converge for
	// some receiver, propagated from raypath.Trace.
	ErrPathFailure = fmt.Errorf("solver: %w", raypath.ErrFailedToConverge)
)

// Options configures a Raytrace call: whether to additionally trace ray
// paths, and the narrow-band seeding radius around single-source runs.
type Options struct {
	SourceRadius float64
	WithRaypaths bool
}

// Result holds one receiver's outcome: its traveltime and, when
// Options.WithRaypaths is set, the polyline traced back to its source.
type Result struct {
	Traveltime float64
	Raypath    []geometry.Vec3
}

// Raytrace seeds and drains the narrow band from tx/t0, then evaluates
// every receiver in rx, tracing ray paths too when opts.WithRaypaths is
// set. It owns ts for the duration of the call: Reset is invoked first, so
// calling Raytrace twice on the same ThreadState with identical input
// reproduces identical output, matching Grid3Ducfm::raytrace's
// reinit-then-solve contract.
func Raytrace(m *mesh.Mesh, ts *mesh.ThreadState, tx []geometry.Vec3, t0 []float64, rx []geometry.Vec3, opts Options) ([]Result, error) {
	if len(tx) != len(t0) {
		return nil, fmt.Errorf("%w: %d transmitters but %d origin times", ErrInvalidInput, len(tx), len(t0))
	}
	if err := checkPts(m, tx); err != nil {
		return nil, err
	}
	if err := checkPts(m, rx); err != nil {
		return nil, err
	}

	ts.Reset()

	sources := make([]fmm.Source, len(tx))
	for i, p := range tx {
		sources[i] = fmm.Source{Pos: p, T0: t0[i]}
	}
	if err := fmm.Run(m, ts, sources, opts.SourceRadius); err != nil {
		if errors.Is(err, fmm.ErrNoNodesInSourceRadius) {
			return nil, ErrEmptySourceRadius
		}
		return nil, fmt.Errorf("solver: %w", err)
	}

	results := make([]Result, len(rx))
	var rpSources []raypath.Source
	if opts.WithRaypaths {
		rpSources = make([]raypath.Source, len(tx))
		for i, p := range tx {
			rpSources[i] = raypath.Source{Pos: p}
		}
	}

	for n, p := range rx {
		t, _, _, ok := m.GetTraveltime(p, ts)
		if !ok {
			return nil, fmt.Errorf("%w: receiver %d outside mesh", ErrInvalidInput, n)
		}
		results[n].Traveltime = t

		if opts.WithRaypaths {
			path, err := raypath.Trace(m, ts, rpSources, p)
			if err != nil {
				return nil, fmt.Errorf("%w: receiver %d: %w", ErrPathFailure, n, err)
			}
			results[n].Raypath = path
		}
	}
	return results, nil
}

// RaytraceMulti runs Raytrace once per receiver group sharing a single
// transmitter group and ThreadState — the multi-receiver-list overload
// Grid3Ducfm::raytrace offers for running several surveys against one
// traveltime field without recomputing it.
func RaytraceMulti(m *mesh.Mesh, ts *mesh.ThreadState, tx []geometry.Vec3, t0 []float64, rxGroups [][]geometry.Vec3, opts Options) ([][]Result, error) {
	if len(tx) != len(t0) {
		return nil, fmt.Errorf("%w: %d transmitters but %d origin times", ErrInvalidInput, len(tx), len(t0))
	}
	if err := checkPts(m, tx); err != nil {
		return nil, err
	}

	ts.Reset()
	sources := make([]fmm.Source, len(tx))
	for i, p := range tx {
		sources[i] = fmm.Source{Pos: p, T0: t0[i]}
	}
	if err := fmm.Run(m, ts, sources, opts.SourceRadius); err != nil {
		if errors.Is(err, fmm.ErrNoNodesInSourceRadius) {
			return nil, ErrEmptySourceRadius
		}
		return nil, fmt.Errorf("solver: %w", err)
	}

	var rpSources []raypath.Source
	if opts.WithRaypaths {
		rpSources = make([]raypath.Source, len(tx))
		for i, p := range tx {
			rpSources[i] = raypath.Source{Pos: p}
		}
	}

	out := make([][]Result, len(rxGroups))
	for g, rx := range rxGroups {
		if err := checkPts(m, rx); err != nil {
			return nil, err
		}
		results := make([]Result, len(rx))
		for n, p := range rx {
			t, _, _, ok := m.GetTraveltime(p, ts)
			if !ok {
				return nil, fmt.Errorf("%w: receiver group %d point %d outside mesh", ErrInvalidInput, g, n)
			}
			results[n].Traveltime = t
			if opts.WithRaypaths {
				path, err := raypath.Trace(m, ts, rpSources, p)
				if err != nil {
					return nil, fmt.Errorf("%w: group %d receiver %d: %w", ErrPathFailure, g, n, err)
				}
				results[n].Raypath = path
			}
		}
		out[g] = results
	}
	return out, nil
}

func checkPts(m *mesh.Mesh, pts []geometry.Vec3) error {
	for i, p := range pts {
		if !m.Contains(p, 1e-6) {
			return fmt.Errorf("%w: point %d (%v) outside mesh", ErrInvalidInput, i, p)
		}
	}
	return nil
}

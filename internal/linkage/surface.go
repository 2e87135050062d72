package linkage

import (
	"log"
	"math"
)

// Surface axis ranges: extension sweeps the cylinder's full stroke, pressure
// brackets the working pressure.
const (
	extensionAxisMin = 0.0
	extensionAxisMax = 10.0
	pressureAxisMin  = 50.0
	pressureAxisMax  = 150.0
)

// DefaultSamples is the per-axis resolution of the force surface;
// GraphSamples is used when the caller asks for an explicit graph render.
const (
	DefaultSamples = 10
	GraphSamples   = 20
)

// SurfacePoint marks one cell of the surface: x = extension, y = pressure,
// z = output force.
type SurfacePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Surface is the sampled force grid for 3D plotting. X is the extension
// axis, Y the pressure axis, and Z[row][col] the output force at
// (X[col], Y[row]). CurrentPosition is the sampled cell nearest the caller's
// actual operating point.
type Surface struct {
	X               []float64    `json:"x"`
	Y               []float64    `json:"y"`
	Z               [][]float64  `json:"z"`
	CurrentPosition SurfacePoint `json:"currentPosition"`
}

// SampleSurface sweeps cylinder extension against pressure and computes the
// output force at every cell. Geometry only depends on extension, so each
// column is solved once and reused across its pressure rows. A column whose
// solve fails outright is filled with a synthetic ramp instead of aborting
// the grid, keeping the visualization populated.
func SampleSurface(ps PointSet, currentExtension float64, params ForceParameters, samples int) *Surface {
	if samples <= 0 {
		samples = DefaultSamples
	}

	extensionAxis := linspace(extensionAxisMin, extensionAxisMax, samples)
	pressureAxis := linspace(pressureAxisMin, pressureAxisMax, samples)

	force := make([][]float64, samples)
	for j := range force {
		force[j] = make([]float64, samples)
	}

	area := params.Area()

	for i, ext := range extensionAxis {
		updated, err := SolveGeometry(ps, ext)
		if err != nil {
			log.Printf("[SURFACE] solve failed at extension %.2f: %v", ext, err)
			for j, press := range pressureAxis {
				force[j][i] = (ext + 1) * press / 10
			}
			continue
		}

		advantage := columnAdvantage(updated)
		for j, press := range pressureAxis {
			force[j][i] = press * area * advantage
		}
	}

	extIdx := nearestIndex(extensionAxis, currentExtension)
	pressIdx := nearestIndex(pressureAxis, params.Pressure)

	return &Surface{
		X: extensionAxis,
		Y: pressureAxis,
		Z: force,
		CurrentPosition: SurfacePoint{
			X: extensionAxis[extIdx],
			Y: pressureAxis[pressIdx],
			Z: force[pressIdx][extIdx],
		},
	}
}

// columnAdvantage computes the mechanical advantage of a solved pose. The
// pose came out of SolveGeometry, so the required points are present; a
// snapshot that still lacks them degrades to the mid-range 0.5 the frontend
// expects for unresolvable cells.
func columnAdvantage(ps PointSet) float64 {
	pts, err := ps.Require(PointPivotBase, PointPivotArm, PointCylinderBase, PointCylinderArm)
	if err != nil {
		return 0.5
	}
	armVector := pts[1].Minus(pts[0])
	cylinderVector := pts[3].Minus(pts[2])
	return math.Abs(math.Sin(angleBetweenVectors(armVector, cylinderVector)))
}

// linspace returns n evenly spaced values over [min, max], endpoints
// included.
func linspace(min, max float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = min
		return out
	}
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

// nearestIndex returns the index of the axis value closest to target, first
// minimum winning ties.
func nearestIndex(axis []float64, target float64) int {
	best := 0
	bestDiff := math.Abs(axis[0] - target)
	for i := 1; i < len(axis); i++ {
		if diff := math.Abs(axis[i] - target); diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	return best
}

package linkage

import (
	"math"
	"testing"
)

func TestSurfaceGridShape(t *testing.T) {
	for _, samples := range []int{DefaultSamples, GraphSamples} {
		surface := SampleSurface(testLinkage(), 2.0, DefaultForceParameters(), samples)

		if len(surface.X) != samples || len(surface.Y) != samples {
			t.Errorf("samples=%d: axes %dx%d", samples, len(surface.X), len(surface.Y))
		}
		if len(surface.Z) != samples {
			t.Fatalf("samples=%d: %d force rows", samples, len(surface.Z))
		}
		for j, row := range surface.Z {
			if len(row) != samples {
				t.Errorf("samples=%d: row %d has %d cells", samples, j, len(row))
			}
		}
	}
}

func TestSurfaceAxisRanges(t *testing.T) {
	surface := SampleSurface(testLinkage(), 0, DefaultForceParameters(), DefaultSamples)

	if surface.X[0] != 0 || surface.X[len(surface.X)-1] != 10 {
		t.Errorf("extension axis spans [%.2f, %.2f], want [0, 10]", surface.X[0], surface.X[len(surface.X)-1])
	}
	if surface.Y[0] != 50 || surface.Y[len(surface.Y)-1] != 150 {
		t.Errorf("pressure axis spans [%.2f, %.2f], want [50, 150]", surface.Y[0], surface.Y[len(surface.Y)-1])
	}
}

func TestCurrentPositionLiesOnGrid(t *testing.T) {
	surface := SampleSurface(testLinkage(), 3.2, DefaultForceParameters(), DefaultSamples)

	extIdx, pressIdx := -1, -1
	for i, v := range surface.X {
		if v == surface.CurrentPosition.X {
			extIdx = i
			break
		}
	}
	for j, v := range surface.Y {
		if v == surface.CurrentPosition.Y {
			pressIdx = j
			break
		}
	}

	if extIdx < 0 || pressIdx < 0 {
		t.Fatalf("currentPosition (%.4f, %.4f) not on the axes", surface.CurrentPosition.X, surface.CurrentPosition.Y)
	}
	if surface.Z[pressIdx][extIdx] != surface.CurrentPosition.Z {
		t.Errorf("currentPosition z=%.4f, grid holds %.4f", surface.CurrentPosition.Z, surface.Z[pressIdx][extIdx])
	}
}

func TestCurrentPositionNearestCellFirstMinimumWins(t *testing.T) {
	// With 5 samples the pressure axis is 50,75,...,150. 87.5 PSI sits
	// exactly between two cells; the first minimum must win.
	params := ForceParameters{Pressure: 87.5, Bore: 2}
	surface := SampleSurface(testLinkage(), 1.25, params, 5)

	if surface.CurrentPosition.Y != 75 {
		t.Errorf("pressure cell %.4f, want 75 (tie resolves to first)", surface.CurrentPosition.Y)
	}
	// Same on the extension axis: 1.25 is equidistant from 0 and 2.5.
	if surface.CurrentPosition.X != 0 {
		t.Errorf("extension cell %.4f, want 0 (tie resolves to first)", surface.CurrentPosition.X)
	}
}

func TestUnsolvableColumnsFallBackToSyntheticRamp(t *testing.T) {
	// Without pivotArm every column's solve fails; the grid must still be
	// populated with the documented ramp rather than abort.
	ps := testLinkage()
	delete(ps.Points, PointPivotArm)

	surface := SampleSurface(ps, 0, DefaultForceParameters(), DefaultSamples)

	for i, ext := range surface.X {
		for j, press := range surface.Y {
			want := (ext + 1) * press / 10
			if math.Abs(surface.Z[j][i]-want) > tol {
				t.Fatalf("cell (%d,%d) = %.4f, want ramp %.4f", j, i, surface.Z[j][i], want)
			}
		}
	}
}

func TestColumnForceScalesLinearlyWithPressure(t *testing.T) {
	// Geometry is pressure-independent, so within a column the force must
	// follow the pressure axis exactly.
	surface := SampleSurface(testLinkage(), 0, DefaultForceParameters(), DefaultSamples)

	for i := range surface.X {
		base := surface.Z[0][i]
		if base == 0 {
			continue // parallel pose, nothing to scale
		}
		for j, press := range surface.Y {
			want := base * press / surface.Y[0]
			if math.Abs(surface.Z[j][i]-want) > 1e-9*math.Abs(want) {
				t.Errorf("column %d row %d: force %.6f, want %.6f", i, j, surface.Z[j][i], want)
			}
		}
	}
}

func TestSampleSurfaceDefaultsOnBadCount(t *testing.T) {
	surface := SampleSurface(testLinkage(), 0, DefaultForceParameters(), 0)
	if len(surface.X) != DefaultSamples {
		t.Errorf("got %d samples, want default %d", len(surface.X), DefaultSamples)
	}
}

func TestLinspaceEndpoints(t *testing.T) {
	axis := linspace(0, 10, 5)
	want := []float64{0, 2.5, 5, 7.5, 10}
	for i := range want {
		if math.Abs(axis[i]-want[i]) > tol {
			t.Errorf("linspace[%d] = %.4f, want %.4f", i, axis[i], want[i])
		}
	}
}

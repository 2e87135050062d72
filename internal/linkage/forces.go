package linkage

import "math"

// ForceParameters configure the hydraulic cylinder driving the linkage.
type ForceParameters struct {
	Pressure float64 // PSI
	Bore     float64 // piston diameter, inches
}

// DefaultForceParameters match a common 2-inch bore cylinder at working
// pressure.
func DefaultForceParameters() ForceParameters {
	return ForceParameters{Pressure: 100.0, Bore: 2.0}
}

// Area returns the piston face area.
func (fp ForceParameters) Area() float64 {
	r := fp.Bore / 2
	return math.Pi * r * r
}

// CylinderForce returns the axial force the cylinder produces at the given
// pressure.
func (fp ForceParameters) CylinderForce(pressure float64) float64 {
	return pressure * fp.Area()
}

// ForceComponents are the output force resolved perpendicular to the arm.
type ForceComponents struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ForceResult is the full force analysis for one pose. Lengths and forces
// carry 2 decimals, the mechanical advantage and radian angle 4, matching the
// frontend display contract.
type ForceResult struct {
	CylinderForce       float64         `json:"cylinderForce"`
	OutputForce         float64         `json:"outputForce"`
	MechanicalAdvantage float64         `json:"mechanicalAdvantage"`
	AngleRadians        float64         `json:"angleRadians"`
	AngleDegrees        float64         `json:"angleDegrees"`
	Torque              float64         `json:"torque"`
	ArmForceComponents  ForceComponents `json:"armForceComponents"`
	ArmLength           float64         `json:"armLength"`
	CylinderLength      float64         `json:"cylinderLength"`
	SurfaceData         *Surface        `json:"surfaceData,omitempty"`
}

// round2 and round4 mirror the fixed display precision used across the
// analysis outputs. Exact halves round away from zero (0.125 -> 0.13), not
// to even.
func round2(n float64) float64 {
	return math.Round(n*100) / 100
}

func round4(n float64) float64 {
	return math.Round(n*10000) / 10000
}

// angleBetweenVectors wraps the absolute difference of the two vector
// headings into [0, pi].
func angleBetweenVectors(armVector, cylinderVector Point) float64 {
	armAngle := math.Atan2(armVector.Y, armVector.X)
	cylinderAngle := math.Atan2(cylinderVector.Y, cylinderVector.X)

	between := math.Abs(cylinderAngle - armAngle)
	if between > math.Pi {
		between = 2*math.Pi - between
	}
	return between
}

// ComputeForces derives the force transmission of the current pose: cylinder
// force from pressure and bore, mechanical advantage from the arm/cylinder
// angle (|sin|, so perpendicular alignment transfers everything and parallel
// nothing), output force, pivot torque, and the force components
// perpendicular to the arm.
func ComputeForces(ps PointSet, params ForceParameters) (*ForceResult, error) {
	pts, err := ps.Require(PointPivotBase, PointPivotArm, PointCylinderBase, PointCylinderArm)
	if err != nil {
		return nil, err
	}
	pivotBase, pivotArm, cylinderBase, cylinderArm := pts[0], pts[1], pts[2], pts[3]

	armVector := pivotArm.Minus(pivotBase)
	cylinderVector := cylinderArm.Minus(cylinderBase)

	armLength := armVector.Length()
	cylinderLength := cylinderVector.Length()

	armAngle := math.Atan2(armVector.Y, armVector.X)
	angleBetween := angleBetweenVectors(armVector, cylinderVector)

	cylinderForce := params.CylinderForce(params.Pressure)
	mechanicalAdvantage := math.Abs(math.Sin(angleBetween))
	outputForce := cylinderForce * mechanicalAdvantage
	torque := outputForce * armLength

	return &ForceResult{
		CylinderForce:       round2(cylinderForce),
		OutputForce:         round2(outputForce),
		MechanicalAdvantage: round4(mechanicalAdvantage),
		AngleRadians:        round4(angleBetween),
		AngleDegrees:        round2(angleBetween * 180 / math.Pi),
		Torque:              round2(torque),
		ArmForceComponents: ForceComponents{
			X: round2(outputForce * math.Cos(armAngle+math.Pi/2)),
			Y: round2(outputForce * math.Sin(armAngle+math.Pi/2)),
		},
		ArmLength:      round2(armLength),
		CylinderLength: round2(cylinderLength),
	}, nil
}

// AnalyzeForces runs the force model for the pose and attaches the sampled
// extension-by-pressure force surface for visualization.
func AnalyzeForces(ps PointSet, cylinderExtension float64, samples int, params ForceParameters) (*ForceResult, error) {
	result, err := ComputeForces(ps, params)
	if err != nil {
		return nil, err
	}
	result.SurfaceData = SampleSurface(ps, cylinderExtension, params, samples)
	return result, nil
}

package linkage

import "math"

// LinkConstants are the rigid lengths derived once per solve from the current
// snapshot. They must hold across a whole extension sweep: the solver moves
// the arm, never stretches it.
type LinkConstants struct {
	ArmLength             float64
	InitialCylinderLength float64
}

// DeriveLinkConstants measures the rigid links from the snapshot.
func DeriveLinkConstants(ps PointSet) (LinkConstants, error) {
	pts, err := ps.Require(PointPivotBase, PointPivotArm, PointCylinderBase, PointCylinderArm)
	if err != nil {
		return LinkConstants{}, err
	}
	return LinkConstants{
		ArmLength:             pts[0].DistanceTo(pts[1]),
		InitialCylinderLength: pts[2].DistanceTo(pts[3]),
	}, nil
}

// ArmSolution is the tagged result of an arm-position solve. Held marks the
// hold-last-pose fallback taken when the circle-circle intersection has no
// solution (anchors out of range, nested circles, coincident anchors).
type ArmSolution struct {
	Position Point
	Held     bool
}

// SolveGeometry computes the linkage pose at the given cylinder extension.
// The target cylinder length is cylinderMinLength + extension; the arm pivot
// is placed on the intersection of the arm circle around pivotBase and the
// cylinder circle around cylinderBase, keeping the branch nearest the
// previous pose. The cross-link, if present, rides along rigidly. The input
// snapshot is never mutated.
func SolveGeometry(ps PointSet, cylinderExtension float64) (PointSet, error) {
	pts, err := ps.Require(PointPivotBase, PointPivotArm, PointCylinderBase, PointCylinderArm)
	if err != nil {
		return PointSet{}, err
	}
	pivotBase, pivotArm, cylinderBase := pts[0], pts[1], pts[2]

	updated := ps.Clone()

	armLength := pivotBase.DistanceTo(pivotArm)
	targetCylinderLength := ps.MinCylinderLength + cylinderExtension

	sol := solveArmPosition(pivotBase, cylinderBase, armLength, targetCylinderLength, pivotArm)

	// Rod end and arm pivot share a pin joint, so both track the solution.
	updated.Set(PointPivotArm, sol.Position)
	updated.Set(PointCylinderArm, sol.Position)

	if ps.Has(PointCrossLinkBase, PointCrossLinkArm) {
		crossBase, _ := ps.Get(PointCrossLinkBase)
		crossArm, _ := ps.Get(PointCrossLinkArm)

		crossLength := crossBase.DistanceTo(crossArm)
		crossAngle := angleAt(pivotBase, pivotArm, crossArm)

		updated.Set(PointCrossLinkArm, pointAtAngle(sol.Position, crossAngle, crossLength))
	}

	return updated, nil
}

// SolveArm exposes the tagged solve for callers that need to distinguish a
// real solution from the held fallback.
func SolveArm(ps PointSet, cylinderExtension float64) (ArmSolution, error) {
	pts, err := ps.Require(PointPivotBase, PointPivotArm, PointCylinderBase, PointCylinderArm)
	if err != nil {
		return ArmSolution{}, err
	}
	armLength := pts[0].DistanceTo(pts[1])
	target := ps.MinCylinderLength + cylinderExtension
	return solveArmPosition(pts[0], pts[2], armLength, target, pts[1]), nil
}

// solveArmPosition intersects the arm circle (radius armLength around
// pivotBase) with the cylinder circle (radius cylinderLength around
// cylinderBase) and picks the branch nearest the previous arm position, so a
// smooth extension sweep never flips to the mirrored configuration.
func solveArmPosition(pivotBase, cylinderBase Point, armLength, cylinderLength float64, previous Point) ArmSolution {
	d := pivotBase.DistanceTo(cylinderBase)

	// No intersection: anchors out of reach, one circle inside the other,
	// or coincident anchors. Hold the last valid pose.
	if d > armLength+cylinderLength || d < math.Abs(armLength-cylinderLength) || d == 0 {
		return ArmSolution{Position: previous, Held: true}
	}

	a := (armLength*armLength - cylinderLength*cylinderLength + d*d) / (2 * d)

	// The radicand dips just below zero at the tangency boundary.
	h := math.Sqrt(math.Max(armLength*armLength-a*a, 0))

	dx := cylinderBase.X - pivotBase.X
	dy := cylinderBase.Y - pivotBase.Y
	p2 := Point{
		X: pivotBase.X + a*dx/d,
		Y: pivotBase.Y + a*dy/d,
	}

	c1 := Point{X: p2.X + h*dy/d, Y: p2.Y - h*dx/d}
	c2 := Point{X: p2.X - h*dy/d, Y: p2.Y + h*dx/d}

	if c1.DistanceTo(previous) <= c2.DistanceTo(previous) {
		return ArmSolution{Position: c1}
	}
	return ArmSolution{Position: c2}
}

// angleAt returns the angle at vertex between the rays to a and b, via the
// clamped-cosine formula. Zero-length rays give 0.
func angleAt(a, vertex, b Point) float64 {
	v1 := a.Minus(vertex)
	v2 := b.Minus(vertex)

	m1 := v1.Length()
	m2 := v2.Length()
	if m1 == 0 || m2 == 0 {
		return 0
	}

	cos := (v1.X*v2.X + v1.Y*v2.Y) / (m1 * m2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// pointAtAngle returns the point at the given angle and distance from start.
func pointAtAngle(start Point, angle, distance float64) Point {
	return Point{
		X: start.X + distance*math.Cos(angle),
		Y: start.Y + distance*math.Sin(angle),
	}
}

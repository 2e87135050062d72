package linkage

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is an immutable 2D point in linkage coordinates (inches).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Minus returns the vector from o to p.
func (p Point) Minus(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Length returns the magnitude of p treated as a vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Named points of the linkage. pivotBase and cylinderBase are fixed anchors;
// pivotArm is the free end repositioned by the solver; cylinderArm is the rod
// end, pin-jointed to pivotArm. The cross-link pair is optional.
const (
	PointPivotBase     = "pivotBase"
	PointPivotArm      = "pivotArm"
	PointCylinderBase  = "cylinderBase"
	PointCylinderArm   = "cylinderArm"
	PointCrossLinkBase = "crossLinkBase"
	PointCrossLinkArm  = "crossLinkArm"
)

// RequiredPoints are the names every solve and force analysis needs.
var RequiredPoints = []string{PointPivotBase, PointPivotArm, PointCylinderBase, PointCylinderArm}

// DefaultMinCylinderLength is the fully retracted cylinder length assumed
// when the snapshot does not carry one.
const DefaultMinCylinderLength = 10.0

// PointSet is a named snapshot of the linkage geometry plus the scalar
// cylinderMinLength configuration carried alongside it. The wire form is a
// single JSON object whose values are point objects, except for the
// "cylinderMinLength" key which is a bare number.
type PointSet struct {
	Points            map[string]Point
	MinCylinderLength float64

	hasMinLength bool
}

// NewPointSet returns an empty snapshot with the default minimum
// cylinder length.
func NewPointSet() PointSet {
	return PointSet{
		Points:            make(map[string]Point),
		MinCylinderLength: DefaultMinCylinderLength,
	}
}

// Get looks up a named point.
func (ps PointSet) Get(name string) (Point, bool) {
	p, ok := ps.Points[name]
	return p, ok
}

// Set stores a named point.
func (ps PointSet) Set(name string, p Point) {
	ps.Points[name] = p
}

// Has reports whether all of the given names are present.
func (ps PointSet) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := ps.Points[name]; !ok {
			return false
		}
	}
	return true
}

// Require returns the named points in order, or a MissingPointError naming
// the first absent key.
func (ps PointSet) Require(names ...string) ([]Point, error) {
	out := make([]Point, 0, len(names))
	for _, name := range names {
		p, ok := ps.Points[name]
		if !ok {
			return nil, &MissingPointError{Name: name}
		}
		out = append(out, p)
	}
	return out, nil
}

// Clone returns an independent copy. Solves never mutate their input
// snapshot.
func (ps PointSet) Clone() PointSet {
	cp := PointSet{
		Points:            make(map[string]Point, len(ps.Points)),
		MinCylinderLength: ps.MinCylinderLength,
		hasMinLength:      ps.hasMinLength,
	}
	for k, v := range ps.Points {
		cp.Points[k] = v
	}
	return cp
}

const minLengthKey = "cylinderMinLength"

// UnmarshalJSON decodes the mixed wire object. Point values must be objects
// with numeric x and y; the cylinderMinLength value must be a number.
// Anything else is an InvalidPointDataError.
func (ps *PointSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &InvalidPointDataError{Reason: fmt.Sprintf("points must be an object: %v", err)}
	}

	*ps = NewPointSet()
	for key, val := range raw {
		if key == minLengthKey {
			if err := json.Unmarshal(val, &ps.MinCylinderLength); err != nil {
				return &InvalidPointDataError{Key: key, Reason: "cylinderMinLength must be a number"}
			}
			ps.hasMinLength = true
			continue
		}

		// Pointer fields distinguish an absent or null coordinate from a
		// legitimate 0; a point with half a position is rejected, not
		// defaulted.
		var p struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(val, &p); err != nil || p.X == nil || p.Y == nil {
			return &InvalidPointDataError{Key: key, Reason: "point must have numeric x and y"}
		}
		if math.IsNaN(*p.X) || math.IsNaN(*p.Y) || math.IsInf(*p.X, 0) || math.IsInf(*p.Y, 0) {
			return &InvalidPointDataError{Key: key, Reason: "point coordinates must be finite"}
		}
		ps.Points[key] = Point{X: *p.X, Y: *p.Y}
	}
	return nil
}

// MarshalJSON re-emits the wire object. cylinderMinLength is only written
// back if the caller supplied it, so round-trips preserve the input shape.
func (ps PointSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(ps.Points)+1)
	for k, v := range ps.Points {
		out[k] = v
	}
	if ps.hasMinLength {
		out[minLengthKey] = ps.MinCylinderLength
	}
	return json.Marshal(out)
}

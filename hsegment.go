package alignment

// HorizontalSegment is one piece of a generated horizontal alignment: a
// straight [TangentSegment] or a circular [ArcSegment]. Segments are plain
// values rebuilt wholesale on every regeneration; adjacent segments share
// their end/start point and station.
type HorizontalSegment interface {
	// StartStation returns the station at the start of the segment.
	StartStation() float64
	// EndStation returns the station at the end of the segment.
	EndStation() float64
	// Start returns the plan position at the start of the segment.
	Start() Point
	// End returns the plan position at the end of the segment.
	End() Point
	// Length returns the length of the segment along the centerline.
	Length() float64
	// PointAt evaluates the segment at a station and returns the plan
	// position and the unit travel direction. The station is expected to lie
	// within the segment's station range.
	PointAt(station float64) (Point, Vec2)
	// Bounds returns the segment's axis-aligned plan extent.
	Bounds() Rect
}

// TangentSegment is a straight run between two curve ends or control points.
type TangentSegment struct {
	P0, P1             Point
	Station0, Station1 float64
}

var _ HorizontalSegment = TangentSegment{}

func (s TangentSegment) StartStation() float64 { return s.Station0 }
func (s TangentSegment) EndStation() float64   { return s.Station1 }
func (s TangentSegment) Start() Point          { return s.P0 }
func (s TangentSegment) End() Point            { return s.P1 }

func (s TangentSegment) Length() float64 {
	return s.Station1 - s.Station0
}

// Direction returns the unit travel direction, which is constant along a
// tangent.
func (s TangentSegment) Direction() Vec2 {
	return s.P1.Sub(s.P0).Normalize()
}

func (s TangentSegment) PointAt(station float64) (Point, Vec2) {
	t := (station - s.Station0) / (s.Station1 - s.Station0)
	return s.P0.Lerp(s.P1, t), s.Direction()
}

// ArcSegment is a circular curve between its BC (begin of curve) and EC (end
// of curve). Deflection is the positive swept angle in radians; Turn carries
// the side.
type ArcSegment struct {
	BC, EC, Center     Point
	Radius             float64
	Deflection         float64
	Turn               TurnDirection
	Station0, Station1 float64
}

var _ HorizontalSegment = ArcSegment{}

func (s ArcSegment) StartStation() float64 { return s.Station0 }
func (s ArcSegment) EndStation() float64   { return s.Station1 }
func (s ArcSegment) Start() Point          { return s.BC }
func (s ArcSegment) End() Point            { return s.EC }

func (s ArcSegment) Length() float64 {
	return s.Radius * s.Deflection
}

// sweepSign is +1 for a left (anti-clockwise) turn and −1 for a right turn.
func (s ArcSegment) sweepSign() float64 {
	if s.Turn == TurnLeft {
		return 1
	}
	return -1
}

func (s ArcSegment) PointAt(station float64) (Point, Vec2) {
	sign := s.sweepSign()
	theta := s.BC.Sub(s.Center).Angle() + sign*(station-s.Station0)/s.Radius
	radial := VecFromAngle(theta)
	pos := s.Center.Translate(radial.Mul(s.Radius))
	dir := radial.Turn90().Mul(sign)
	return pos, dir
}

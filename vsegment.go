package alignment

// VerticalSegment is one piece of a generated vertical alignment: a
// [GradeSegment] of constant grade or a [ParabolicSegment] vertical curve.
type VerticalSegment interface {
	// StartStation returns the station at the start of the segment.
	StartStation() float64
	// EndStation returns the station at the end of the segment.
	EndStation() float64
	// ElevationAt evaluates the elevation at a station within the segment's
	// station range.
	ElevationAt(station float64) float64
	// GradeAt evaluates the grade (decimal fraction) at a station within the
	// segment's station range.
	GradeAt(station float64) float64
}

// GradeSegment is a run of constant grade between two grade breaks or curve
// ends.
type GradeSegment struct {
	Station0, Station1 float64
	Elevation0         float64
	Grade              float64
}

var _ VerticalSegment = GradeSegment{}

func (s GradeSegment) StartStation() float64 { return s.Station0 }
func (s GradeSegment) EndStation() float64   { return s.Station1 }

func (s GradeSegment) ElevationAt(station float64) float64 {
	return s.Elevation0 + s.Grade*(station-s.Station0)
}

func (s GradeSegment) GradeAt(station float64) float64 {
	return s.Grade
}

// ParabolicSegment is an equal-tangent parabolic vertical curve from its BVC
// (begin of vertical curve) at Station0 to its EVC at Station1, blending the
// incoming grade G1 into the outgoing grade G2. The rate of grade change
// (G2−G1)/L is constant over the curve.
type ParabolicSegment struct {
	Station0, Station1 float64
	Elevation0         float64 // elevation at the BVC
	G1, G2             float64
}

var _ VerticalSegment = ParabolicSegment{}

func (s ParabolicSegment) StartStation() float64 { return s.Station0 }
func (s ParabolicSegment) EndStation() float64   { return s.Station1 }

// Length returns the horizontal length of the curve.
func (s ParabolicSegment) Length() float64 {
	return s.Station1 - s.Station0
}

func (s ParabolicSegment) ElevationAt(station float64) float64 {
	x := station - s.Station0
	return s.Elevation0 + s.G1*x + (s.G2-s.G1)/(2*s.Length())*x*x
}

func (s ParabolicSegment) GradeAt(station float64) float64 {
	x := station - s.Station0
	return s.G1 + (s.G2-s.G1)/s.Length()*x
}

// TurningPoint returns the station and elevation where the grade crosses
// zero (the high point of a crest or the low point of a sag). ok is false if
// the grades are equal or the zero crossing falls outside the curve.
func (s ParabolicSegment) TurningPoint() (station, elevation float64, ok bool) {
	if s.G1 == s.G2 {
		return 0, 0, false
	}
	x := -s.G1 * s.Length() / (s.G2 - s.G1)
	if x < 0 || x > s.Length() {
		return 0, 0, false
	}
	station = s.Station0 + x
	return station, s.ElevationAt(station), true
}

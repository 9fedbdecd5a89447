package alignment

import (
	"fmt"
	"math"
	"sort"
)

// PVI is a point of vertical intersection: a grade-break control point.
// GradeIn and GradeOut are derived for the whole list whenever any point is
// added, moved, or removed; they are nil on the first and last point
// respectively and must not be set by callers.
type PVI struct {
	ID          PointID
	Station     float64
	Elevation   float64
	CurveLength float64
	GradeIn     *float64
	GradeOut    *float64
}

// CurveShape classifies a vertical curve at a PVI.
type CurveShape int

const (
	// ShapeNone means there is no grade change at the point.
	ShapeNone CurveShape = iota
	// ShapeCrest means the grade decreases through the point, regardless of
	// the signs of either grade.
	ShapeCrest
	// ShapeSag means the grade increases through the point.
	ShapeSag
)

func (s CurveShape) String() string {
	switch s {
	case ShapeCrest:
		return "crest"
	case ShapeSag:
		return "sag"
	default:
		return "none"
	}
}

// WarningKind is the category of a design-quality warning.
type WarningKind int

const (
	WarnLowKValue WarningKind = iota
	WarnOverlappingCurves
)

func (k WarningKind) String() string {
	switch k {
	case WarnLowKValue:
		return "low K-value"
	case WarnOverlappingCurves:
		return "overlapping curves"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is an advisory design-quality finding from
// [VerticalAlignment.Validate]. Warnings never block geometry generation:
// engineers may intentionally work with marginal designs mid-iteration.
type Warning struct {
	Kind    WarningKind
	Point   PointID
	Other   PointID // second point involved, for overlap warnings
	K       float64 // computed K-value, for low-K warnings
	MinK    float64 // applicable minimum, for low-K warnings
	Message string
}

// VerticalAlignment turns a station-sorted list of grade-break points into
// contiguous constant-grade and parabolic segments. Every mutation
// regenerates grades and segments before returning; failed mutations leave
// the engine unchanged.
//
// The zero value is not usable; call [NewVerticalAlignment].
type VerticalAlignment struct {
	nextID   PointID
	points   []*PVI
	segments []VerticalSegment
}

// NewVerticalAlignment returns an empty vertical engine.
func NewVerticalAlignment() *VerticalAlignment {
	return &VerticalAlignment{}
}

// AddPoint inserts a grade-break point, keeping the list sorted by station,
// and returns its handle. curveLength is the horizontal length of the
// parabolic curve centered on the point; zero means an angular grade break.
func (va *VerticalAlignment) AddPoint(station, elevation, curveLength float64) (PointID, error) {
	if curveLength < 0 {
		return 0, fmt.Errorf("%w: %g", ErrInvalidCurveLength, curveLength)
	}
	for _, p := range va.points {
		if math.Abs(p.Station-station) < geomEps {
			return 0, fmt.Errorf("%w: station %g", ErrDuplicateStation, station)
		}
	}

	id := va.nextID
	va.nextID++
	pvi := &PVI{ID: id, Station: station, Elevation: elevation, CurveLength: curveLength}

	i := sort.Search(len(va.points), func(i int) bool {
		return va.points[i].Station > station
	})
	va.points = append(va.points, nil)
	copy(va.points[i+1:], va.points[i:])
	va.points[i] = pvi

	va.regenerate()
	return id, nil
}

// MovePoint updates a point's station and elevation, re-sorting the list if
// the station moved past a neighbour.
func (va *VerticalAlignment) MovePoint(id PointID, station, elevation float64) error {
	i, err := va.index(id)
	if err != nil {
		return err
	}
	for j, p := range va.points {
		if j != i && math.Abs(p.Station-station) < geomEps {
			return fmt.Errorf("%w: station %g", ErrDuplicateStation, station)
		}
	}
	va.points[i].Station = station
	va.points[i].Elevation = elevation
	sort.SliceStable(va.points, func(a, b int) bool {
		return va.points[a].Station < va.points[b].Station
	})
	va.regenerate()
	return nil
}

// SetCurveLength changes the parabolic curve length at a point.
func (va *VerticalAlignment) SetCurveLength(id PointID, length float64) error {
	if length < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidCurveLength, length)
	}
	i, err := va.index(id)
	if err != nil {
		return err
	}
	va.points[i].CurveLength = length
	va.regenerate()
	return nil
}

// RemovePoint deletes a grade-break point.
func (va *VerticalAlignment) RemovePoint(id PointID) error {
	i, err := va.index(id)
	if err != nil {
		return err
	}
	va.points = append(va.points[:i], va.points[i+1:]...)
	va.regenerate()
	return nil
}

// Points returns a read-only snapshot of the grade-break points in station
// order.
func (va *VerticalAlignment) Points() []PVI {
	out := make([]PVI, len(va.points))
	for i, p := range va.points {
		out[i] = *p
		if p.GradeIn != nil {
			g := *p.GradeIn
			out[i].GradeIn = &g
		}
		if p.GradeOut != nil {
			g := *p.GradeOut
			out[i].GradeOut = &g
		}
	}
	return out
}

// Point returns a read-only snapshot of one grade-break point.
func (va *VerticalAlignment) Point(id PointID) (PVI, error) {
	i, err := va.index(id)
	if err != nil {
		return PVI{}, err
	}
	return va.Points()[i], nil
}

// Segments returns the current segment list, sorted by station. The slice is
// shared and must not be modified.
func (va *VerticalAlignment) Segments() []VerticalSegment {
	return va.segments
}

// StartStation returns the station of the first grade-break point.
func (va *VerticalAlignment) StartStation() float64 {
	if len(va.points) == 0 {
		return 0
	}
	return va.points[0].Station
}

// EndStation returns the station of the last grade-break point.
func (va *VerticalAlignment) EndStation() float64 {
	if len(va.points) == 0 {
		return 0
	}
	return va.points[len(va.points)-1].Station
}

// ElevationAt evaluates the profile elevation at a station.
func (va *VerticalAlignment) ElevationAt(station float64) (float64, error) {
	seg, err := va.segmentAt(station)
	if err != nil {
		return 0, err
	}
	return seg.ElevationAt(station), nil
}

// GradeAt evaluates the profile grade at a station.
func (va *VerticalAlignment) GradeAt(station float64) (float64, error) {
	seg, err := va.segmentAt(station)
	if err != nil {
		return 0, err
	}
	return seg.GradeAt(station), nil
}

func (va *VerticalAlignment) segmentAt(station float64) (VerticalSegment, error) {
	if len(va.points) < 2 {
		return nil, fmt.Errorf("vertical query: %w", ErrInsufficientControlPoints)
	}
	start, end := va.StartStation(), va.EndStation()
	if station < start-geomEps || station > end+geomEps {
		return nil, fmt.Errorf("%w: %g not in [%g, %g]", ErrStationOutOfRange, station, start, end)
	}
	station = math.Min(math.Max(station, start), end)

	i := sort.Search(len(va.segments), func(i int) bool {
		return va.segments[i].EndStation() >= station
	})
	if i == len(va.segments) {
		i = len(va.segments) - 1
	}
	return va.segments[i], nil
}

// KValue returns the K-value of the vertical curve at a point: the
// horizontal length needed per 1% of grade change. It is 0 when there is no
// grade change or no curve, and 0 at the endpoints.
func (va *VerticalAlignment) KValue(id PointID) (float64, error) {
	i, err := va.index(id)
	if err != nil {
		return 0, err
	}
	p := va.points[i]
	if p.GradeIn == nil || p.GradeOut == nil {
		return 0, nil
	}
	change := math.Abs(*p.GradeOut-*p.GradeIn) * 100
	if change == 0 {
		return 0, nil
	}
	return p.CurveLength / change, nil
}

// Shape classifies the grade break at a point as crest or sag.
func (va *VerticalAlignment) Shape(id PointID) (CurveShape, error) {
	i, err := va.index(id)
	if err != nil {
		return ShapeNone, err
	}
	p := va.points[i]
	if p.GradeIn == nil || p.GradeOut == nil || *p.GradeIn == *p.GradeOut {
		return ShapeNone, nil
	}
	if *p.GradeIn > *p.GradeOut {
		return ShapeCrest, nil
	}
	return ShapeSag, nil
}

// Validate checks every vertical curve against the supplied K-value minima
// and flags adjacent curves whose BVC–EVC ranges overlap. Findings are
// advisory; the generated geometry is unaffected.
func (va *VerticalAlignment) Validate(minKCrest, minKSag float64) []Warning {
	var warnings []Warning

	type curve struct {
		p        *PVI
		bvc, evc float64
	}
	var curves []curve

	for _, p := range va.points {
		if p.GradeIn == nil || p.GradeOut == nil || p.CurveLength <= 0 {
			continue
		}
		curves = append(curves, curve{
			p:   p,
			bvc: p.Station - p.CurveLength/2,
			evc: p.Station + p.CurveLength/2,
		})

		change := math.Abs(*p.GradeOut-*p.GradeIn) * 100
		if change == 0 {
			continue
		}
		k := p.CurveLength / change
		min := minKSag
		shape := ShapeSag
		if *p.GradeIn > *p.GradeOut {
			min = minKCrest
			shape = ShapeCrest
		}
		if k < min {
			warnings = append(warnings, Warning{
				Kind:  WarnLowKValue,
				Point: p.ID,
				K:     k,
				MinK:  min,
				Message: fmt.Sprintf("%s curve at station %g has K=%.2f, below the minimum of %g",
					shape, p.Station, k, min),
			})
		}
	}

	for i := 1; i < len(curves); i++ {
		prev, curr := curves[i-1], curves[i]
		if prev.evc > curr.bvc+geomEps {
			warnings = append(warnings, Warning{
				Kind:  WarnOverlappingCurves,
				Point: prev.p.ID,
				Other: curr.p.ID,
				Message: fmt.Sprintf("curves at stations %g and %g overlap between %g and %g",
					prev.p.Station, curr.p.Station, curr.bvc, prev.evc),
			})
		}
	}

	return warnings
}

func (va *VerticalAlignment) index(id PointID) (int, error) {
	for i, p := range va.points {
		if p.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownPoint, id)
}

// regenerate recomputes every derived grade and rebuilds the segment list
// from scratch. Grades first: each adjacent pair sets GradeOut on the earlier
// point and GradeIn on the later one. Then each interior point with a curve
// length contributes a parabolic segment centered on it, with constant-grade
// segments filling the gaps.
//
// When adjacent curves overlap (flagged by [VerticalAlignment.Validate]) the
// connecting grade segment is omitted and the parabolas are emitted as
// specified by their own points; contiguity holds for all non-overlapping
// designs.
func (va *VerticalAlignment) regenerate() {
	for _, p := range va.points {
		p.GradeIn = nil
		p.GradeOut = nil
	}
	for i := 1; i < len(va.points); i++ {
		a, b := va.points[i-1], va.points[i]
		g := (b.Elevation - a.Elevation) / (b.Station - a.Station)
		gOut, gIn := g, g
		a.GradeOut = &gOut
		b.GradeIn = &gIn
	}

	va.segments = nil
	if len(va.points) < 2 {
		return
	}

	cursorStation := va.points[0].Station
	cursorElevation := va.points[0].Elevation
	for i := 1; i < len(va.points); i++ {
		p := va.points[i]
		if i < len(va.points)-1 && p.CurveLength > 0 {
			g1, g2 := *p.GradeIn, *p.GradeOut
			half := p.CurveLength / 2
			bvcStation := p.Station - half
			bvcElevation := p.Elevation - g1*half

			if bvcStation > cursorStation+geomEps {
				va.segments = append(va.segments, GradeSegment{
					Station0:   cursorStation,
					Station1:   bvcStation,
					Elevation0: cursorElevation,
					Grade:      g1,
				})
			}
			curve := ParabolicSegment{
				Station0:   bvcStation,
				Station1:   p.Station + half,
				Elevation0: bvcElevation,
				G1:         g1,
				G2:         g2,
			}
			va.segments = append(va.segments, curve)
			cursorStation = curve.Station1
			cursorElevation = curve.ElevationAt(curve.Station1)
		} else {
			if p.Station > cursorStation+geomEps {
				va.segments = append(va.segments, GradeSegment{
					Station0:   cursorStation,
					Station1:   p.Station,
					Elevation0: cursorElevation,
					Grade:      *p.GradeIn,
				})
			}
			// The EVC of a preceding curve lies on the outgoing tangent, so
			// re-anchoring at the point's own elevation stays continuous.
			cursorStation = p.Station
			cursorElevation = p.Elevation
		}
	}
}

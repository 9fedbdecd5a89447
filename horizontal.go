package alignment

import (
	"fmt"
	"math"
	"sort"
)

// PointID is a stable handle for a control point. Handles survive insertions
// and removals of other points and are never reused within one engine.
type PointID int

// TurnDirection is the side a horizontal curve turns towards, seen in the
// direction of travel.
type TurnDirection int

const (
	TurnLeft TurnDirection = iota
	TurnRight
)

func (d TurnDirection) String() string {
	switch d {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return fmt.Sprintf("TurnDirection(%d)", int(d))
	}
}

// CurveSpec is the geometry of a circular curve attached to a [PI]. All
// fields are derived from the owning point and its two neighbours when the
// curve is inserted, and recomputed whenever either neighbour moves.
//
// Invariants: TangentLength = Radius·tan(Deflection/2), ArcLength =
// Radius·Deflection, and BC/EC lie TangentLength from the PI along the
// incoming and outgoing tangent directions.
type CurveSpec struct {
	Radius         float64
	Deflection     float64 // swept angle in radians, always positive
	Turn           TurnDirection
	TangentLength  float64
	ArcLength      float64
	BC, EC, Center Point
	StartDirection Vec2 // unit tangent into the curve
	EndDirection   Vec2 // unit tangent out of the curve
}

// PI is an intersection point: a user control point of the horizontal
// alignment where two tangents would meet. A curve is a separate, optional
// attachment; the point itself has no radius.
type PI struct {
	ID       PointID
	Position Point
	Curve    *CurveSpec
}

// HorizontalAlignment turns an ordered list of intersection points into
// contiguous tangent and arc segments. Every mutation regenerates the whole
// segment list before returning; failed mutations leave the engine unchanged.
//
// The zero value is not usable; call [NewHorizontalAlignment].
type HorizontalAlignment struct {
	startStation float64
	nextID       PointID
	points       []*PI
	segments     []HorizontalSegment
}

// NewHorizontalAlignment returns an empty horizontal engine whose first
// control point will sit at station start.
func NewHorizontalAlignment(start float64) *HorizontalAlignment {
	return &HorizontalAlignment{startStation: start}
}

const geomEps = 1e-9

// AddPoint appends a control point and returns its handle. With fewer than
// two points no segments are generated yet.
func (ha *HorizontalAlignment) AddPoint(pos Point) PointID {
	id := ha.nextID
	ha.nextID++
	ha.points = append(ha.points, &PI{ID: id, Position: pos})

	// The former last point is now interior, but it cannot have carried a
	// curve, so only regeneration is needed.
	ha.regenerate()
	return id
}

// MovePoint updates a control point's position. Curves on the point or its
// immediate neighbours depend on the tangent directions through this point
// and are recomputed with their stored radius; a curve that becomes
// degenerate or no longer fits its tangents is dropped.
func (ha *HorizontalAlignment) MovePoint(id PointID, pos Point) error {
	i, err := ha.index(id)
	if err != nil {
		return err
	}
	ha.points[i].Position = pos
	ha.refreshCurves(i-1, i, i+1)
	ha.regenerate()
	return nil
}

// RemovePoint deletes a control point. The former neighbours' curves are
// recomputed against their new adjacency; a point that becomes an endpoint
// loses its curve.
func (ha *HorizontalAlignment) RemovePoint(id PointID) error {
	i, err := ha.index(id)
	if err != nil {
		return err
	}
	ha.points = append(ha.points[:i], ha.points[i+1:]...)
	ha.refreshCurves(i-1, i)
	ha.regenerate()
	return nil
}

// InsertCurve attaches a circular curve of the given radius at an interior
// control point. The curve geometry is fully derived here: tangent
// directions from the neighbours, deflection from their clamped dot product,
// tangent length R·tan(Δ/2), BC/EC along the tangents, and the center offset
// perpendicular to the incoming tangent on the turning side.
//
// Returns [ErrInvalidRadius], [ErrEndpointCurve], [ErrDegenerateCurve] or
// [ErrCurveDoesNotFit]; on any error the engine is unchanged.
func (ha *HorizontalAlignment) InsertCurve(id PointID, radius float64) error {
	i, err := ha.index(id)
	if err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	if i == 0 || i == len(ha.points)-1 {
		return fmt.Errorf("%w: point %d", ErrEndpointCurve, id)
	}

	spec, err := computeCurve(ha.points[i-1].Position, ha.points[i].Position, ha.points[i+1].Position, radius)
	if err != nil {
		return err
	}
	if !ha.curveFits(i, spec.TangentLength) {
		return fmt.Errorf("%w: tangent length %g at point %d", ErrCurveDoesNotFit, spec.TangentLength, id)
	}

	ha.points[i].Curve = spec
	ha.regenerate()
	return nil
}

// RemoveCurve clears the curve attached to a control point, if any.
func (ha *HorizontalAlignment) RemoveCurve(id PointID) error {
	i, err := ha.index(id)
	if err != nil {
		return err
	}
	ha.points[i].Curve = nil
	ha.regenerate()
	return nil
}

// Points returns a read-only snapshot of the control points in order.
func (ha *HorizontalAlignment) Points() []PI {
	out := make([]PI, len(ha.points))
	for i, p := range ha.points {
		out[i] = *p
		if p.Curve != nil {
			c := *p.Curve
			out[i].Curve = &c
		}
	}
	return out
}

// Point returns a read-only snapshot of one control point.
func (ha *HorizontalAlignment) Point(id PointID) (PI, error) {
	i, err := ha.index(id)
	if err != nil {
		return PI{}, err
	}
	p := *ha.points[i]
	if ha.points[i].Curve != nil {
		c := *ha.points[i].Curve
		p.Curve = &c
	}
	return p, nil
}

// Segments returns the current segment list, sorted by station. The slice is
// shared and must not be modified.
func (ha *HorizontalAlignment) Segments() []HorizontalSegment {
	return ha.segments
}

// StartStation returns the station of the first control point.
func (ha *HorizontalAlignment) StartStation() float64 {
	return ha.startStation
}

// EndStation returns the station at the end of the last segment. It equals
// StartStation when no segments exist.
func (ha *HorizontalAlignment) EndStation() float64 {
	if len(ha.segments) == 0 {
		return ha.startStation
	}
	return ha.segments[len(ha.segments)-1].EndStation()
}

// Length returns the total centerline length.
func (ha *HorizontalAlignment) Length() float64 {
	return ha.EndStation() - ha.startStation
}

// Bounds returns the plan extent of the generated geometry.
func (ha *HorizontalAlignment) Bounds() (Rect, error) {
	if len(ha.segments) == 0 {
		return Rect{}, fmt.Errorf("bounds query: %w", ErrInsufficientControlPoints)
	}
	r := ha.segments[0].Bounds()
	for _, seg := range ha.segments[1:] {
		r = r.Union(seg.Bounds())
	}
	return r, nil
}

// PointAt locates the segment containing the station and evaluates it,
// returning the plan position and unit travel direction.
func (ha *HorizontalAlignment) PointAt(station float64) (Point, Vec2, error) {
	// Coincident control points generate no segments, so checking the point
	// count alone is not enough.
	if len(ha.segments) == 0 {
		return Point{}, Vec2{}, fmt.Errorf("horizontal query: %w", ErrInsufficientControlPoints)
	}
	start, end := ha.startStation, ha.EndStation()
	if station < start-geomEps || station > end+geomEps {
		return Point{}, Vec2{}, fmt.Errorf("%w: %g not in [%g, %g]", ErrStationOutOfRange, station, start, end)
	}
	station = math.Min(math.Max(station, start), end)

	i := sort.Search(len(ha.segments), func(i int) bool {
		return ha.segments[i].EndStation() >= station
	})
	if i == len(ha.segments) {
		i = len(ha.segments) - 1
	}
	pos, dir := ha.segments[i].PointAt(station)
	return pos, dir, nil
}

func (ha *HorizontalAlignment) index(id PointID) (int, error) {
	for i, p := range ha.points {
		if p.ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownPoint, id)
}

// refreshCurves recomputes the curve specs at the given indices after a
// neighbourhood change. Curves that can no longer be realised are dropped
// rather than left stale.
func (ha *HorizontalAlignment) refreshCurves(indices ...int) {
	for _, i := range indices {
		if i < 0 || i >= len(ha.points) {
			continue
		}
		p := ha.points[i]
		if p.Curve == nil {
			continue
		}
		if i == 0 || i == len(ha.points)-1 {
			p.Curve = nil
			continue
		}
		spec, err := computeCurve(ha.points[i-1].Position, p.Position, ha.points[i+1].Position, p.Curve.Radius)
		if err != nil {
			p.Curve = nil
			continue
		}
		p.Curve = spec
	}
	// A move can also shrink the room available to an untouched curve.
	for i, p := range ha.points {
		if p.Curve != nil && !ha.curveFits(i, p.Curve.TangentLength) {
			p.Curve = nil
		}
	}
}

// curveFits reports whether a tangent length at interior index i leaves room
// on both adjacent tangents, accounting for the neighbours' own curves. The
// point at index i is treated as carrying no curve yet.
func (ha *HorizontalAlignment) curveFits(i int, tangentLength float64) bool {
	prev, curr, next := ha.points[i-1], ha.points[i], ha.points[i+1]
	in := curr.Position.Distance(prev.Position)
	if prev.Curve != nil {
		in -= prev.Curve.TangentLength
	}
	out := next.Position.Distance(curr.Position)
	if next.Curve != nil {
		out -= next.Curve.TangentLength
	}
	return tangentLength <= in+geomEps && tangentLength <= out+geomEps
}

// computeCurve derives the full curve geometry for a PI at curr between prev
// and next.
func computeCurve(prev, curr, next Point, radius float64) (*CurveSpec, error) {
	t1 := curr.Sub(prev).Normalize()
	t2 := next.Sub(curr).Normalize()

	cross := t1.Cross(t2)
	if math.Abs(cross) < geomEps {
		return nil, ErrDegenerateCurve
	}

	// Floating-point error can push the dot product fractionally outside
	// [-1, 1], which would make acos return NaN.
	dot := math.Min(math.Max(t1.Dot(t2), -1), 1)
	deflection := math.Acos(dot)

	tangentLength := radius * math.Tan(deflection/2)
	arcLength := radius * deflection

	bc := curr.Translate(t1.Mul(-tangentLength))
	ec := curr.Translate(t2.Mul(tangentLength))

	turn := TurnRight
	perp := t1.Turn90().Negate()
	if cross > 0 {
		turn = TurnLeft
		perp = t1.Turn90()
	}
	center := bc.Translate(perp.Mul(radius))

	return &CurveSpec{
		Radius:         radius,
		Deflection:     deflection,
		Turn:           turn,
		TangentLength:  tangentLength,
		ArcLength:      arcLength,
		BC:             bc,
		EC:             ec,
		Center:         center,
		StartDirection: t1,
		EndDirection:   t2,
	}, nil
}

// regenerate rebuilds the segment list from scratch. It cannot fail: curve
// geometry was validated when it was attached, so the walk below always
// produces a contiguous, station-sorted list.
func (ha *HorizontalAlignment) regenerate() {
	ha.segments = nil
	if len(ha.points) < 2 {
		return
	}

	cursor := ha.points[0].Position
	station := ha.startStation
	for i := 1; i < len(ha.points); i++ {
		p := ha.points[i]
		if p.Curve != nil && i < len(ha.points)-1 {
			c := p.Curve
			if d := cursor.Distance(c.BC); d > geomEps {
				ha.segments = append(ha.segments, TangentSegment{
					P0:       cursor,
					P1:       c.BC,
					Station0: station,
					Station1: station + d,
				})
				station += d
			}
			ha.segments = append(ha.segments, ArcSegment{
				BC:         c.BC,
				EC:         c.EC,
				Center:     c.Center,
				Radius:     c.Radius,
				Deflection: c.Deflection,
				Turn:       c.Turn,
				Station0:   station,
				Station1:   station + c.ArcLength,
			})
			station += c.ArcLength
			cursor = c.EC
		} else {
			if d := cursor.Distance(p.Position); d > geomEps {
				ha.segments = append(ha.segments, TangentSegment{
					P0:       cursor,
					P1:       p.Position,
					Station0: station,
					Station1: station + d,
				})
				station += d
				cursor = p.Position
			}
		}
	}
}

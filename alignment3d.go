package alignment

import (
	"fmt"
	"math"
)

// Position3D is a point on the combined 3D centerline.
type Position3D struct {
	X, Y, Z   float64
	Direction Vec2    // unit travel direction in plan
	Grade     float64 // decimal fraction
}

// Alignment3D is a read-only composition of one horizontal and one vertical
// engine into a single queryable 3D centerline, covering the intersection of
// the two engines' station ranges. It holds no state beyond the cached
// overlap range; call [Alignment3D.Refresh] after mutating either engine.
type Alignment3D struct {
	horizontal *HorizontalAlignment
	vertical   *VerticalAlignment
	min, max   float64
}

// NewAlignment3D composes the two engines. It fails with
// [ErrNoStationOverlap] when their station ranges do not intersect, and with
// [ErrInsufficientControlPoints] when either engine cannot generate
// segments yet.
func NewAlignment3D(h *HorizontalAlignment, v *VerticalAlignment) (*Alignment3D, error) {
	a := &Alignment3D{horizontal: h, vertical: v}
	if err := a.Refresh(); err != nil {
		return nil, err
	}
	return a, nil
}

// Horizontal returns the composed horizontal engine.
func (a *Alignment3D) Horizontal() *HorizontalAlignment {
	return a.horizontal
}

// Vertical returns the composed vertical engine.
func (a *Alignment3D) Vertical() *VerticalAlignment {
	return a.vertical
}

// Refresh recomputes the cached station overlap from the engines' current
// ranges. It must be called after either engine regenerates.
func (a *Alignment3D) Refresh() error {
	if len(a.horizontal.Points()) < 2 || len(a.vertical.Points()) < 2 {
		return fmt.Errorf("composing alignment: %w", ErrInsufficientControlPoints)
	}
	min := math.Max(a.horizontal.StartStation(), a.vertical.StartStation())
	max := math.Min(a.horizontal.EndStation(), a.vertical.EndStation())
	if min > max {
		return fmt.Errorf("%w: horizontal [%g, %g], vertical [%g, %g]",
			ErrNoStationOverlap,
			a.horizontal.StartStation(), a.horizontal.EndStation(),
			a.vertical.StartStation(), a.vertical.EndStation())
	}
	a.min, a.max = min, max
	return nil
}

// StationRange returns the covered station interval, the intersection of the
// two engines' ranges.
func (a *Alignment3D) StationRange() (min, max float64) {
	return a.min, a.max
}

// PositionAt evaluates the 3D centerline at a station, delegating plan
// position and direction to the horizontal engine and elevation and grade to
// the vertical engine.
func (a *Alignment3D) PositionAt(station float64) (Position3D, error) {
	if station < a.min-geomEps || station > a.max+geomEps {
		return Position3D{}, fmt.Errorf("%w: %g not in [%g, %g]", ErrStationOutOfRange, station, a.min, a.max)
	}
	pos, dir, err := a.horizontal.PointAt(station)
	if err != nil {
		return Position3D{}, err
	}
	z, err := a.vertical.ElevationAt(station)
	if err != nil {
		return Position3D{}, err
	}
	grade, err := a.vertical.GradeAt(station)
	if err != nil {
		return Position3D{}, err
	}
	return Position3D{
		X:         pos.X,
		Y:         pos.Y,
		Z:         z,
		Direction: dir,
		Grade:     grade,
	}, nil
}

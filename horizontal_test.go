package alignment

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

// scenarioA is the fixed regression for the turn-direction convention:
// approaching along +x and leaving along +y is a left turn (positive cross
// product, y-up frame).
func scenarioA(t *testing.T) (*HorizontalAlignment, PointID) {
	t.Helper()
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	mid := ha.AddPoint(Pt(100, 0))
	ha.AddPoint(Pt(100, 100))
	if err := ha.InsertCurve(mid, 20); err != nil {
		t.Fatalf("inserting curve: %v", err)
	}
	return ha, mid
}

func TestInsertCurveGeometry(t *testing.T) {
	ha, mid := scenarioA(t)

	p, err := ha.Point(mid)
	if err != nil {
		t.Fatal(err)
	}
	c := p.Curve
	if c == nil {
		t.Fatal("expected a curve on the middle point")
	}

	approx(t, "deflection", math.Pi/2, c.Deflection, 1e-12)
	approx(t, "tangent length", 20, c.TangentLength, 1e-12)
	approx(t, "arc length", 20*math.Pi/2, c.ArcLength, 1e-12)
	if c.Turn != TurnLeft {
		t.Errorf("got turn %v, want %v", c.Turn, TurnLeft)
	}
	diff(t, Pt(80, 0), c.BC, cmpopts.EquateApprox(0, 1e-9))
	diff(t, Pt(100, 20), c.EC, cmpopts.EquateApprox(0, 1e-9))
	diff(t, Pt(80, 20), c.Center, cmpopts.EquateApprox(0, 1e-9))

	// BC and EC both sit at tangent length from the PI, and the invariant
	// T = R·tan(Δ/2) holds.
	approx(t, "|BC-PI|", c.TangentLength, c.BC.Distance(p.Position), 1e-9)
	approx(t, "|EC-PI|", c.TangentLength, c.EC.Distance(p.Position), 1e-9)
	approx(t, "R·tan(Δ/2)", c.Radius*math.Tan(c.Deflection/2), c.TangentLength, 1e-12)
}

func TestInsertCurveRightTurn(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	mid := ha.AddPoint(Pt(100, 0))
	ha.AddPoint(Pt(200, -100))
	if err := ha.InsertCurve(mid, 50); err != nil {
		t.Fatal(err)
	}

	p, _ := ha.Point(mid)
	c := p.Curve
	if c.Turn != TurnRight {
		t.Errorf("got turn %v, want %v", c.Turn, TurnRight)
	}
	approx(t, "deflection", math.Pi/4, c.Deflection, 1e-12)
	// Right turn: the center sits on the right-hand side of the incoming
	// tangent, i.e. below it here.
	if c.Center.Y >= 0 {
		t.Errorf("center %v should be below the incoming tangent", c.Center)
	}
	diff(t, Pt(c.BC.X, -50), c.Center, cmpopts.EquateApprox(0, 1e-9))
}

func TestInsertCurveErrors(t *testing.T) {
	newAlignment := func() (*HorizontalAlignment, []PointID) {
		ha := NewHorizontalAlignment(0)
		ids := []PointID{
			ha.AddPoint(Pt(0, 0)),
			ha.AddPoint(Pt(100, 0)),
			ha.AddPoint(Pt(100, 100)),
		}
		return ha, ids
	}

	t.Run("invalid radius", func(t *testing.T) {
		ha, ids := newAlignment()
		for _, r := range []float64{0, -20} {
			if err := ha.InsertCurve(ids[1], r); !errors.Is(err, ErrInvalidRadius) {
				t.Errorf("radius %g: got %v, want ErrInvalidRadius", r, err)
			}
		}
	})

	t.Run("endpoint", func(t *testing.T) {
		ha, ids := newAlignment()
		pointsBefore := ha.Points()
		segmentsBefore := ha.Segments()

		for _, id := range []PointID{ids[0], ids[2]} {
			if err := ha.InsertCurve(id, 20); !errors.Is(err, ErrEndpointCurve) {
				t.Errorf("point %d: got %v, want ErrEndpointCurve", id, err)
			}
		}

		// The failed insertions must not have mutated anything.
		diff(t, pointsBefore, ha.Points())
		diff(t, segmentsBefore, ha.Segments())
	})

	t.Run("degenerate", func(t *testing.T) {
		ha := NewHorizontalAlignment(0)
		ha.AddPoint(Pt(0, 0))
		mid := ha.AddPoint(Pt(50, 0))
		ha.AddPoint(Pt(100, 0))
		if err := ha.InsertCurve(mid, 20); !errors.Is(err, ErrDegenerateCurve) {
			t.Errorf("got %v, want ErrDegenerateCurve", err)
		}
	})

	t.Run("does not fit", func(t *testing.T) {
		ha := NewHorizontalAlignment(0)
		ha.AddPoint(Pt(0, 0))
		mid := ha.AddPoint(Pt(10, 0))
		ha.AddPoint(Pt(10, 10))
		if err := ha.InsertCurve(mid, 100); !errors.Is(err, ErrCurveDoesNotFit) {
			t.Errorf("got %v, want ErrCurveDoesNotFit", err)
		}
		// A small enough radius fits fine.
		if err := ha.InsertCurve(mid, 5); err != nil {
			t.Errorf("radius 5 should fit: %v", err)
		}
	})

	t.Run("unknown point", func(t *testing.T) {
		ha, _ := newAlignment()
		if err := ha.InsertCurve(99, 20); !errors.Is(err, ErrUnknownPoint) {
			t.Errorf("got %v, want ErrUnknownPoint", err)
		}
	})
}

func TestRegenerateSegments(t *testing.T) {
	ha, _ := scenarioA(t)

	segs := ha.Segments()
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}

	arcLen := 20 * math.Pi / 2
	diff(t, TangentSegment{P0: Pt(0, 0), P1: Pt(80, 0), Station0: 0, Station1: 80},
		segs[0], cmpopts.EquateApprox(0, 1e-9))

	arc, ok := segs[1].(ArcSegment)
	if !ok {
		t.Fatalf("segment 1 is %T, want ArcSegment", segs[1])
	}
	approx(t, "arc start station", 80, arc.Station0, 1e-9)
	approx(t, "arc end station", 80+arcLen, arc.Station1, 1e-9)

	last, ok := segs[2].(TangentSegment)
	if !ok {
		t.Fatalf("segment 2 is %T, want TangentSegment", segs[2])
	}
	diff(t, Pt(100, 20), last.P0, cmpopts.EquateApprox(0, 1e-9))
	diff(t, Pt(100, 100), last.P1, cmpopts.EquateApprox(0, 1e-9))
	approx(t, "end station", 160+arcLen, ha.EndStation(), 1e-9)
}

func TestSegmentContiguity(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	p2 := ha.AddPoint(Pt(100, 0))
	p3 := ha.AddPoint(Pt(200, 100))
	ha.AddPoint(Pt(300, 100))
	if err := ha.InsertCurve(p2, 40); err != nil {
		t.Fatal(err)
	}
	if err := ha.InsertCurve(p3, 40); err != nil {
		t.Fatal(err)
	}

	segs := ha.Segments()
	if len(segs) != 5 {
		t.Fatalf("got %d segments, want 5", len(segs))
	}
	for i := 1; i < len(segs); i++ {
		prev, curr := segs[i-1], segs[i]
		if d := prev.End().Distance(curr.Start()); d > 1e-3 {
			t.Errorf("segments %d/%d: end %v and start %v are %g apart", i-1, i, prev.End(), curr.Start(), d)
		}
		if prev.EndStation() != curr.StartStation() {
			t.Errorf("segments %d/%d: stations %g and %g differ", i-1, i, prev.EndStation(), curr.StartStation())
		}
	}
}

func TestRegenerateDeterministic(t *testing.T) {
	build := func() *HorizontalAlignment {
		ha := NewHorizontalAlignment(1000)
		ha.AddPoint(Pt(0, 0))
		mid := ha.AddPoint(Pt(100, 0))
		ha.AddPoint(Pt(100, 100))
		if err := ha.InsertCurve(mid, 20); err != nil {
			t.Fatal(err)
		}
		return ha
	}
	diff(t, build().Segments(), build().Segments())
}

func TestPointAtTangent(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	ha.AddPoint(Pt(100, 0))

	pos, dir, err := ha.PointAt(50)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt(50, 0), pos, cmpopts.EquateApprox(0, 1e-9))
	diff(t, Vec(1, 0), dir, cmpopts.EquateApprox(0, 1e-9))
}

func TestPointAtArc(t *testing.T) {
	ha, _ := scenarioA(t)

	// Halfway around the 90° arc: 45° swept from the BC.
	station := 80 + 20*math.Pi/4
	pos, dir, err := ha.PointAt(station)
	if err != nil {
		t.Fatal(err)
	}
	s := 20 / math.Sqrt2
	diff(t, Pt(80+s, 20-s), pos, cmpopts.EquateApprox(0, 1e-9))
	diff(t, Vec(1/math.Sqrt2, 1/math.Sqrt2), dir, cmpopts.EquateApprox(0, 1e-9))

	// The very end of the alignment is still queryable.
	pos, _, err = ha.PointAt(ha.EndStation())
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt(100, 100), pos, cmpopts.EquateApprox(0, 1e-9))
}

func TestPointAtErrors(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	if _, _, err := ha.PointAt(0); !errors.Is(err, ErrInsufficientControlPoints) {
		t.Errorf("got %v, want ErrInsufficientControlPoints", err)
	}

	ha.AddPoint(Pt(100, 0))
	for _, s := range []float64{-1, 101} {
		if _, _, err := ha.PointAt(s); !errors.Is(err, ErrStationOutOfRange) {
			t.Errorf("station %g: got %v, want ErrStationOutOfRange", s, err)
		}
	}
}

func TestPointAtCoincidentPoints(t *testing.T) {
	// Two control points at the same position generate no segments; queries
	// must fail cleanly instead of indexing an empty segment list.
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	ha.AddPoint(Pt(0, 0))
	if n := len(ha.Segments()); n != 0 {
		t.Fatalf("got %d segments, want 0", n)
	}
	if _, _, err := ha.PointAt(0); !errors.Is(err, ErrInsufficientControlPoints) {
		t.Errorf("got %v, want ErrInsufficientControlPoints", err)
	}

	// The same state is reachable by moving a point onto its neighbour.
	ha = NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	id := ha.AddPoint(Pt(100, 0))
	if err := ha.MovePoint(id, Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ha.PointAt(0); !errors.Is(err, ErrInsufficientControlPoints) {
		t.Errorf("after move: got %v, want ErrInsufficientControlPoints", err)
	}

	// Moving the point back restores a queryable alignment.
	if err := ha.MovePoint(id, Pt(100, 0)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ha.PointAt(50); err != nil {
		t.Errorf("after restoring: %v", err)
	}
}

func TestMovePointRecomputesCurve(t *testing.T) {
	ha, mid := scenarioA(t)
	ids := make([]PointID, 0, 3)
	for _, p := range ha.Points() {
		ids = append(ids, p.ID)
	}

	// Flip the third point below the incoming tangent: the curve at the
	// middle point must be re-derived with the same radius but a right turn.
	if err := ha.MovePoint(ids[2], Pt(200, -100)); err != nil {
		t.Fatal(err)
	}
	p, _ := ha.Point(mid)
	if p.Curve == nil {
		t.Fatal("curve was dropped, want it recomputed")
	}
	if p.Curve.Turn != TurnRight {
		t.Errorf("got turn %v, want %v", p.Curve.Turn, TurnRight)
	}
	approx(t, "radius kept", 20, p.Curve.Radius, 1e-12)

	// Making the tangents collinear leaves nothing for a curve to span; the
	// stale curve is dropped rather than kept.
	if err := ha.MovePoint(ids[2], Pt(200, 0)); err != nil {
		t.Fatal(err)
	}
	p, _ = ha.Point(mid)
	if p.Curve != nil {
		t.Errorf("got curve %+v, want it dropped for collinear tangents", p.Curve)
	}
	if len(ha.Segments()) != 2 {
		t.Errorf("got %d segments, want 2 plain tangents", len(ha.Segments()))
	}
}

func TestRemovePoint(t *testing.T) {
	ha, mid := scenarioA(t)
	if err := ha.RemovePoint(mid); err != nil {
		t.Fatal(err)
	}

	if n := len(ha.Points()); n != 2 {
		t.Fatalf("got %d points, want 2", n)
	}
	segs := ha.Segments()
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	diff(t, TangentSegment{P0: Pt(0, 0), P1: Pt(100, 100), Station0: 0, Station1: 100 * math.Sqrt2},
		segs[0], cmpopts.EquateApprox(0, 1e-9))
}

func TestRemoveCurve(t *testing.T) {
	ha, mid := scenarioA(t)
	if err := ha.RemoveCurve(mid); err != nil {
		t.Fatal(err)
	}
	p, _ := ha.Point(mid)
	if p.Curve != nil {
		t.Error("curve still attached after RemoveCurve")
	}
	if len(ha.Segments()) != 2 {
		t.Errorf("got %d segments, want 2", len(ha.Segments()))
	}
	approx(t, "length", 200, ha.Length(), 1e-9)
}

func TestAddPointTooFew(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	if segs := ha.Segments(); len(segs) != 0 {
		t.Errorf("got %d segments with one point, want none", len(segs))
	}
}

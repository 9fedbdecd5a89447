package alignment

import (
	"errors"
	"math"
	"testing"
)

func TestAddReferentKeepsOrder(t *testing.T) {
	st := NewStationing(false)
	st.AddReferent(50, 1050)
	st.AddReferent(10, 1010)
	st.AddReferent(30, 1030)

	var distances []float64
	for _, r := range st.Referents() {
		distances = append(distances, r.DistanceAlong)
	}
	diff(t, []float64{10, 30, 50}, distances)
}

func TestAddReferentReplacesSameDistance(t *testing.T) {
	st := NewStationing(false)
	st.AddReferent(10, 1010)
	st.AddReferent(10, 2010)

	refs := st.Referents()
	if len(refs) != 1 {
		t.Fatalf("got %d referents, want 1", len(refs))
	}
	approx(t, "station", 2010, refs[0].Station, 1e-12)
}

func TestStationEquationPreserved(t *testing.T) {
	st := NewStationing(false)
	st.AddReferent(0, 1000)
	id := st.AddEquation(100, 1100, 2000)

	// Later inserts around the equation must not disturb its two values.
	st.AddReferent(50, 1050)
	st.AddReferent(150, 2050)

	for _, r := range st.Referents() {
		if r.ID != id {
			continue
		}
		if r.IncomingStation == nil {
			t.Fatal("incoming station lost")
		}
		approx(t, "incoming station", 1100, *r.IncomingStation, 1e-12)
		approx(t, "station", 2000, r.Station, 1e-12)
		return
	}
	t.Fatal("equation referent not found")
}

func TestValueAt(t *testing.T) {
	st := NewStationing(false)
	if _, err := st.ValueAt(10); !errors.Is(err, ErrNoReferents) {
		t.Fatalf("got %v, want ErrNoReferents", err)
	}

	st.AddReferent(0, 1000)
	st.AddEquation(100, 1100, 2000)

	cases := []struct {
		distance float64
		want     float64
	}{
		{0, 1000},
		{50, 1050},   // within the incoming numbering
		{100, 2000},  // exactly at the equation: the jumped-to value
		{150, 2050},  // extrapolated beyond the last referent
		{-10, 990},   // extrapolated before the first referent
	}
	for _, c := range cases {
		got, err := st.ValueAt(c.distance)
		if err != nil {
			t.Fatalf("ValueAt(%g): %v", c.distance, err)
		}
		approx(t, "station value", c.want, got, 1e-9)
	}
}

func TestDecreasingStationing(t *testing.T) {
	st := NewStationing(true)
	st.AddReferent(0, 500)
	st.AddReferent(100, 400)

	// Declared decreasing: the collection runs high to low distance.
	refs := st.Referents()
	diff(t, []float64{100, 0}, []float64{refs[0].DistanceAlong, refs[1].DistanceAlong})
	if refs[0].IncrementOrder {
		t.Error("referents of a decreasing alignment must decrement")
	}

	got, err := st.ValueAt(50)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "interpolated", 450, got, 1e-9)

	got, err = st.ValueAt(150)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "extrapolated", 350, got, 1e-9)
}

func TestUniformReferents(t *testing.T) {
	refs := UniformReferents(100, 30, 1000, false)
	var distances []float64
	for _, r := range refs {
		distances = append(distances, r.DistanceAlong)
	}
	diff(t, []float64{0, 30, 60, 90}, distances)

	refs = UniformReferents(100, 30, 1000, true)
	if last := refs[len(refs)-1]; last.DistanceAlong != 100 {
		t.Errorf("got final distance %g, want a forced end marker at 100", last.DistanceAlong)
	}
	approx(t, "final station", 1100, refs[len(refs)-1].Station, 1e-12)
	if refs[0].Label != "1+000.00" {
		t.Errorf("got label %q, want %q", refs[0].Label, "1+000.00")
	}
}

func TestUniformReferentsNonPositiveInterval(t *testing.T) {
	// A zero or negative interval must not spin the marker loop; it falls
	// back to the default interval.
	for _, interval := range []float64{0, -5} {
		refs := UniformReferents(100, interval, 0, false)
		if len(refs) != 6 {
			t.Errorf("interval %g: got %d referents, want 6 at the default interval", interval, len(refs))
		}
	}
}

func TestGeometryReferents(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	mid := ha.AddPoint(Pt(100, 0))
	ha.AddPoint(Pt(100, 100))
	if err := ha.InsertCurve(mid, 20); err != nil {
		t.Fatal(err)
	}

	refs := GeometryReferents(ha, nil)
	// start, BC, three quarter points, EC, end.
	if len(refs) != 7 {
		t.Fatalf("got %d referents, want 7: %+v", len(refs), refs)
	}

	arcLen := 20 * math.Pi / 2
	approx(t, "BC", 80, refs[1].Station, 1e-9)
	approx(t, "first quarter", 80+arcLen/4, refs[2].Station, 1e-9)
	approx(t, "midpoint", 80+arcLen/2, refs[3].Station, 1e-9)
	approx(t, "EC", 80+arcLen, refs[5].Station, 1e-9)
	approx(t, "end", ha.EndStation(), refs[6].Station, 1e-9)
	if refs[1].Label != "BC" || refs[5].Label != "EC" {
		t.Errorf("got labels %q/%q, want BC/EC", refs[1].Label, refs[5].Label)
	}

	for i := 1; i < len(refs); i++ {
		if refs[i].DistanceAlong <= refs[i-1].DistanceAlong {
			t.Fatalf("referents not strictly increasing at %d", i)
		}
	}
}

func TestGeometryReferentsIncludePVIs(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	ha.AddPoint(Pt(200, 0))

	va := NewVerticalAlignment()
	va.AddPoint(0, 100, 0)
	va.AddPoint(120, 103, 0)
	va.AddPoint(500, 105, 0) // beyond the horizontal range, ignored

	refs := GeometryReferents(ha, va)
	var pviCount int
	for _, r := range refs {
		if r.Label == "PVI" {
			pviCount++
		}
	}
	// The PVI at 0 merges into the start marker, the one at 500 is out of
	// range; only the one at 120 earns its own referent.
	if pviCount != 1 {
		t.Errorf("got %d PVI referents, want 1: %+v", pviCount, refs)
	}
}

func TestAdaptiveReferents(t *testing.T) {
	ha := NewHorizontalAlignment(0)
	ha.AddPoint(Pt(0, 0))
	mid := ha.AddPoint(Pt(100, 0))
	ha.AddPoint(Pt(100, 100))
	if err := ha.InsertCurve(mid, 20); err != nil {
		t.Fatal(err)
	}

	refs := AdaptiveReferents(ha, 40, 4)

	// Spacing inside the arc must be about a quarter of the tangent spacing.
	var maxTangentStep, maxArcStep float64
	arc := ha.Segments()[1]
	for i := 1; i < len(refs); i++ {
		step := refs[i].Station - refs[i-1].Station
		if refs[i].Station > arc.StartStation()+geomEps && refs[i].Station <= arc.EndStation()+geomEps {
			maxArcStep = math.Max(maxArcStep, step)
		} else {
			maxTangentStep = math.Max(maxTangentStep, step)
		}
	}
	if maxArcStep > 10+geomEps {
		t.Errorf("arc step %g exceeds densified interval 10", maxArcStep)
	}
	if maxTangentStep > 40+geomEps {
		t.Errorf("tangent step %g exceeds base interval 40", maxTangentStep)
	}

	for i := 1; i < len(refs); i++ {
		if refs[i].DistanceAlong <= refs[i-1].DistanceAlong {
			t.Fatalf("referents not strictly increasing at %d", i)
		}
	}
}

func TestFormatStation(t *testing.T) {
	if got := FormatStation(1250); got != "1+250.00" {
		t.Errorf("got %q, want 1+250.00", got)
	}
	if got := FormatStation(0); got != "0+000.00" {
		t.Errorf("got %q, want 0+000.00", got)
	}
	if got := FormatStation(12345.5); got != "12+345.50" {
		t.Errorf("got %q, want 12+345.50", got)
	}
}

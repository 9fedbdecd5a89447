package alignment

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ReferentID is a stable handle for a station referent.
type ReferentID int

// StationReferent ties a physical distance along the alignment to a display
// station value. A referent carrying an IncomingStation is a station
// equation: the incoming value is what would have continued the previous
// numbering, Station is the value the numbering jumps to. Both are kept;
// consumers choose which to display.
type StationReferent struct {
	ID              ReferentID
	DistanceAlong   float64
	Station         float64
	IncomingStation *float64
	// IncrementOrder is true when station values grow with distance beyond
	// this referent.
	IncrementOrder bool
	Label          string
}

// Stationing maintains the ordered linear-reference marker collection for
// one alignment. Referents are ordered by distance along the alignment, not
// by station value, which may jump at equations.
//
// Stationing translates distances into display station values only; the
// authoritative position and elevation always come from the horizontal and
// vertical engines, keyed by distance along.
type Stationing struct {
	decreasing bool
	nextID     ReferentID
	refs       []StationReferent
}

// NewStationing returns an empty referent collection. decreasing declares
// that the whole alignment is stationed against the direction of travel, so
// distance-along values run high to low through the collection and new
// referents default to decrementing station order.
func NewStationing(decreasing bool) *Stationing {
	return &Stationing{decreasing: decreasing}
}

// AddReferent inserts a marker at the position that preserves the
// collection's distance-along order and returns its handle. Inserting at an
// existing distance replaces the marker there.
func (st *Stationing) AddReferent(distanceAlong, station float64) ReferentID {
	return st.insert(StationReferent{
		DistanceAlong:  distanceAlong,
		Station:        station,
		IncrementOrder: !st.decreasing,
	})
}

// AddEquation inserts a station equation: at distanceAlong the numbering
// that would have read incomingStation jumps to station. Both values are
// preserved for the life of the referent.
func (st *Stationing) AddEquation(distanceAlong, incomingStation, station float64) ReferentID {
	return st.insert(StationReferent{
		DistanceAlong:   distanceAlong,
		Station:         station,
		IncomingStation: &incomingStation,
		IncrementOrder:  !st.decreasing,
	})
}

func (st *Stationing) insert(ref StationReferent) ReferentID {
	ref.ID = st.nextID
	st.nextID++

	i := sort.Search(len(st.refs), func(i int) bool {
		if st.decreasing {
			return st.refs[i].DistanceAlong <= ref.DistanceAlong
		}
		return st.refs[i].DistanceAlong >= ref.DistanceAlong
	})
	if i < len(st.refs) && st.refs[i].DistanceAlong == ref.DistanceAlong {
		st.refs[i] = ref
		return ref.ID
	}
	st.refs = append(st.refs, StationReferent{})
	copy(st.refs[i+1:], st.refs[i:])
	st.refs[i] = ref
	return ref.ID
}

// SetReferents replaces the whole collection, typically with the output of
// one of the generation strategies.
func (st *Stationing) SetReferents(refs []StationReferent) {
	st.refs = nil
	for _, ref := range refs {
		r := ref
		r.IncrementOrder = !st.decreasing
		st.insert(r)
	}
}

// Referents returns a read-only snapshot of the markers in collection order.
func (st *Stationing) Referents() []StationReferent {
	out := make([]StationReferent, len(st.refs))
	for i, r := range st.refs {
		out[i] = r
		if r.IncomingStation != nil {
			v := *r.IncomingStation
			out[i].IncomingStation = &v
		}
	}
	return out
}

// ValueAt returns the display station value at a distance along the
// alignment, interpolating between the bracketing referents. Distances
// beyond either end extend the numbering at unit rate in the end referent's
// increment order. The result is for display only.
func (st *Stationing) ValueAt(distanceAlong float64) (float64, error) {
	if len(st.refs) == 0 {
		return 0, fmt.Errorf("station lookup at %g: %w", distanceAlong, ErrNoReferents)
	}

	// Work on the collection in ascending distance order regardless of the
	// declared direction.
	at := func(i int) StationReferent {
		if st.decreasing {
			return st.refs[len(st.refs)-1-i]
		}
		return st.refs[i]
	}
	n := len(st.refs)

	i := sort.Search(n, func(i int) bool {
		return at(i).DistanceAlong >= distanceAlong
	})
	if i < n && at(i).DistanceAlong == distanceAlong {
		return at(i).Station, nil
	}
	if i == 0 {
		first := at(0)
		d := first.DistanceAlong - distanceAlong
		if first.IncrementOrder {
			return first.Station - d, nil
		}
		return first.Station + d, nil
	}
	if i == n {
		last := at(n - 1)
		d := distanceAlong - last.DistanceAlong
		if last.IncrementOrder {
			return last.Station + d, nil
		}
		return last.Station - d, nil
	}

	// Between two referents the numbering belongs to the earlier one; the
	// span ends at the later referent's incoming value when it is an
	// equation.
	lo, hi := at(i-1), at(i)
	end := hi.Station
	if hi.IncomingStation != nil {
		end = *hi.IncomingStation
	}
	t := (distanceAlong - lo.DistanceAlong) / (hi.DistanceAlong - lo.DistanceAlong)
	return lo.Station + t*(end-lo.Station), nil
}

// FormatStation renders a station value in the conventional km+metres civil
// notation, e.g. 1250 → "1+250.00".
func FormatStation(station float64) string {
	sign := ""
	if station < 0 {
		sign = "-"
		station = -station
	}
	km := math.Floor(station / 1000)
	return fmt.Sprintf("%s%d+%06.2f", sign, int(km), station-km*1000)
}

// UniformReferents lays markers at a fixed interval along an alignment of
// the given length, numbering from startStation. The first marker always
// sits at the start; with forceEnds a marker is placed at the end even when
// the length is not a multiple of the interval. A non-positive interval
// falls back to [DefaultInterval].
func UniformReferents(length, interval, startStation float64, forceEnds bool) []StationReferent {
	if interval <= 0 {
		interval = DefaultInterval
	}
	var refs []StationReferent
	add := func(d float64) {
		refs = append(refs, StationReferent{
			DistanceAlong:  d,
			Station:        startStation + d,
			IncrementOrder: true,
			Label:          FormatStation(startStation + d),
		})
	}

	for d := 0.0; d <= length+geomEps; d += interval {
		add(math.Min(d, length))
	}
	if forceEnds && refs[len(refs)-1].DistanceAlong < length-geomEps {
		add(length)
	}
	return refs
}

// GeometryReferents places markers at the alignment-defined critical
// stations: both ends, every horizontal curve's BC and EC, the quarter
// points within each arc, and every grade-break point of the vertical
// alignment that falls inside the horizontal range. v may be nil.
func GeometryReferents(h *HorizontalAlignment, v *VerticalAlignment) []StationReferent {
	start := h.StartStation()
	type mark struct {
		station float64
		label   string
	}
	var marks []mark

	marks = append(marks, mark{start, "start"})
	for _, seg := range h.Segments() {
		arc, ok := seg.(ArcSegment)
		if !ok {
			continue
		}
		marks = append(marks, mark{arc.Station0, "BC"})
		quarters := make([]float64, 5)
		floats.Span(quarters, arc.Station0, arc.Station1)
		for _, q := range quarters[1 : len(quarters)-1] {
			marks = append(marks, mark{q, "arc"})
		}
		marks = append(marks, mark{arc.Station1, "EC"})
	}
	marks = append(marks, mark{h.EndStation(), "end"})

	if v != nil {
		for _, p := range v.Points() {
			if p.Station >= start-geomEps && p.Station <= h.EndStation()+geomEps {
				marks = append(marks, mark{p.Station, "PVI"})
			}
		}
	}

	sort.Slice(marks, func(a, b int) bool { return marks[a].station < marks[b].station })

	var refs []StationReferent
	for _, m := range marks {
		if len(refs) > 0 && math.Abs(refs[len(refs)-1].Station-m.station) < geomEps {
			continue
		}
		refs = append(refs, StationReferent{
			DistanceAlong:  m.station - start,
			Station:        m.station,
			IncrementOrder: true,
			Label:          m.label,
		})
	}
	return refs
}

// AdaptiveReferents lays markers at baseInterval on tangents and at
// baseInterval/densify inside arcs, so curved stretches are sampled densify
// times as finely. Segment boundaries always receive a marker.
func AdaptiveReferents(h *HorizontalAlignment, baseInterval, densify float64) []StationReferent {
	start := h.StartStation()
	var refs []StationReferent
	add := func(station float64) {
		if len(refs) > 0 && station-refs[len(refs)-1].Station < geomEps {
			return
		}
		refs = append(refs, StationReferent{
			DistanceAlong:  station - start,
			Station:        station,
			IncrementOrder: true,
			Label:          FormatStation(station),
		})
	}

	for _, seg := range h.Segments() {
		step := baseInterval
		if _, ok := seg.(ArcSegment); ok {
			step = baseInterval / densify
		}
		n := int(math.Ceil(seg.Length() / step))
		if n < 1 {
			n = 1
		}
		stations := make([]float64, n+1)
		floats.Span(stations, seg.StartStation(), seg.EndStation())
		for _, s := range stations {
			add(s)
		}
	}
	return refs
}

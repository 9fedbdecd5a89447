package alignment

import (
	"fmt"
)

// Stationing generation methods accepted by [StationingDef].
const (
	MethodUniform  = "uniform"
	MethodGeometry = "geometry"
	MethodAdaptive = "adaptive"
)

// DefaultInterval is the marker interval used when a stationing definition
// does not set one.
const DefaultInterval = 20.0

// PIDef is the serialisable form of a horizontal control point. A positive
// Radius attaches a curve at the point.
type PIDef struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius,omitempty"`
}

// PVIDef is the serialisable form of a vertical control point.
type PVIDef struct {
	Station     float64 `json:"station"`
	Elevation   float64 `json:"elevation"`
	CurveLength float64 `json:"curve_length,omitempty"`
}

// EquationDef is the serialisable form of a station equation.
type EquationDef struct {
	DistanceAlong   float64 `json:"distance_along"`
	IncomingStation float64 `json:"incoming_station"`
	Station         float64 `json:"station"`
}

// StationingDef selects and parametrises a referent generation strategy.
type StationingDef struct {
	Method        string        `json:"method"`
	Interval      float64       `json:"interval,omitempty"`
	DensifyFactor float64       `json:"densify_factor,omitempty"`
	ForceEnds     bool          `json:"force_ends,omitempty"`
	Decreasing    bool          `json:"decreasing,omitempty"`
	Equations     []EquationDef `json:"equations,omitempty"`
}

// Definition is the JSON-serialisable description of a complete alignment
// design: the control points of both engines plus stationing options and
// design minima. It stores only user input; all geometry is re-derived by
// [Definition.Build].
type Definition struct {
	Name         string         `json:"name"`
	StartStation float64        `json:"start_station,omitempty"`
	PIs          []PIDef        `json:"pis"`
	PVIs         []PVIDef       `json:"pvis,omitempty"`
	Stationing   *StationingDef `json:"stationing,omitempty"`
	MinKCrest    float64        `json:"min_k_crest,omitempty"`
	MinKSag      float64        `json:"min_k_sag,omitempty"`
}

// Design is the live engine set built from a [Definition].
type Design struct {
	Def        Definition
	Horizontal *HorizontalAlignment
	Vertical   *VerticalAlignment
	Stationing *Stationing
	// Centerline is the composed 3D view; nil when the definition has no
	// vertical points.
	Centerline *Alignment3D
}

// Build constructs the engines from the definition, replaying control points
// and curve insertions in order.
func (d Definition) Build() (*Design, error) {
	h := NewHorizontalAlignment(d.StartStation)
	ids := make([]PointID, len(d.PIs))
	for i, pi := range d.PIs {
		ids[i] = h.AddPoint(Pt(pi.X, pi.Y))
	}
	for i, pi := range d.PIs {
		if pi.Radius == 0 {
			continue
		}
		if err := h.InsertCurve(ids[i], pi.Radius); err != nil {
			return nil, fmt.Errorf("PI %d: %w", i, err)
		}
	}

	v := NewVerticalAlignment()
	for i, pvi := range d.PVIs {
		if _, err := v.AddPoint(pvi.Station, pvi.Elevation, pvi.CurveLength); err != nil {
			return nil, fmt.Errorf("PVI %d: %w", i, err)
		}
	}

	design := &Design{Def: d, Horizontal: h, Vertical: v}

	if len(d.PVIs) >= 2 {
		a3d, err := NewAlignment3D(h, v)
		if err != nil {
			return nil, err
		}
		design.Centerline = a3d
	}

	if sd := d.Stationing; sd != nil {
		st := NewStationing(sd.Decreasing)
		interval := sd.Interval
		if interval <= 0 {
			interval = DefaultInterval
		}
		switch sd.Method {
		case MethodGeometry:
			st.SetReferents(GeometryReferents(h, v))
		case MethodAdaptive:
			densify := sd.DensifyFactor
			if densify <= 1 {
				densify = 2
			}
			st.SetReferents(AdaptiveReferents(h, interval, densify))
		case MethodUniform, "":
			st.SetReferents(UniformReferents(h.Length(), interval, d.StartStation, sd.ForceEnds))
		default:
			return nil, fmt.Errorf("unknown stationing method %q", sd.Method)
		}
		for _, eq := range sd.Equations {
			st.AddEquation(eq.DistanceAlong, eq.IncomingStation, eq.Station)
		}
		design.Stationing = st
	}

	return design, nil
}

// Warnings runs the vertical design validation with the definition's minima.
func (d *Design) Warnings() []Warning {
	return d.Vertical.Validate(d.Def.MinKCrest, d.Def.MinKSag)
}

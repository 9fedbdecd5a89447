// Package export translates generated alignment geometry into interchange
// formats (DXF plan/profile drawings and GeoJSON). It reads engine state
// only; nothing here mutates an alignment, and nothing re-derives geometry —
// curves are sampled through the engines' own evaluators.
package export

import (
	"math"

	"github.com/saikeicivil/alignment"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
	"gonum.org/v1/gonum/floats"
)

// arcChordAngle is the maximum swept angle between sampled arc vertices in
// the plan drawing, 1 degree.
const arcChordAngle = math.Pi / 180

// PlanToDXF writes the horizontal alignment as a plan-view DXF drawing.
// Tangents go to the TANGENT layer as two-vertex polylines; arcs are sampled
// at one-degree resolution onto the CURVE layer.
func PlanToDXF(h *alignment.HorizontalAlignment, filename string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	d.AddLayer("TANGENT", color.Green, dxf.DefaultLineType, true)
	d.AddLayer("CURVE", color.Red, dxf.DefaultLineType, true)

	for _, seg := range h.Segments() {
		switch s := seg.(type) {
		case alignment.TangentSegment:
			d.ChangeLayer("TANGENT")
			lwp := entity.NewLwPolyline(2)
			lwp.Vertices[0] = []float64{s.P0.X, s.P0.Y}
			lwp.Vertices[1] = []float64{s.P1.X, s.P1.Y}
			d.AddEntity(lwp)
		case alignment.ArcSegment:
			d.ChangeLayer("CURVE")
			n := int(math.Ceil(s.Deflection/arcChordAngle)) + 1
			if n < 2 {
				n = 2
			}
			stations := make([]float64, n)
			floats.Span(stations, s.Station0, s.Station1)
			lwp := entity.NewLwPolyline(n)
			for i, st := range stations {
				p, _ := s.PointAt(st)
				lwp.Vertices[i] = []float64{p.X, p.Y}
			}
			d.AddEntity(lwp)
		}
	}

	return d.SaveAs(filename)
}

// parabolaSamples is the number of vertices used per parabolic curve in the
// profile drawing.
const parabolaSamples = 17

// ProfileToDXF writes the vertical alignment as a profile-view DXF drawing
// with station as x and elevation as y, scaled by the vertical exaggeration
// (1 when zero or negative is given).
func ProfileToDXF(v *alignment.VerticalAlignment, filename string, exaggeration float64) error {
	if exaggeration <= 0 {
		exaggeration = 1
	}

	var vertices [][]float64
	add := func(station, elevation float64) {
		if len(vertices) > 0 && vertices[len(vertices)-1][0] == station {
			return
		}
		vertices = append(vertices, []float64{station, elevation * exaggeration})
	}
	for _, seg := range v.Segments() {
		switch s := seg.(type) {
		case alignment.GradeSegment:
			add(s.Station0, s.ElevationAt(s.Station0))
			add(s.Station1, s.ElevationAt(s.Station1))
		case alignment.ParabolicSegment:
			stations := make([]float64, parabolaSamples)
			floats.Span(stations, s.Station0, s.Station1)
			for _, st := range stations {
				add(st, s.ElevationAt(st))
			}
		}
	}

	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	d.AddLayer("PROFILE", color.Yellow, dxf.DefaultLineType, true)
	d.ChangeLayer("PROFILE")
	lwp := entity.NewLwPolyline(len(vertices))
	for i, vert := range vertices {
		lwp.Vertices[i] = vert
	}
	d.AddEntity(lwp)

	return d.SaveAs(filename)
}

package export

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/saikeicivil/alignment"
	"gonum.org/v1/gonum/floats"
)

// CenterlineFeatures samples the design's centerline at the given interval
// and returns a GeoJSON feature collection: one LineString for the plan
// geometry, plus a Point feature per station referent. When the design has a
// composed 3D centerline, elevations and grades ride along as point
// properties on the line's sample stations.
func CenterlineFeatures(design *alignment.Design, interval float64) (*geojson.FeatureCollection, error) {
	if interval <= 0 {
		interval = alignment.DefaultInterval
	}
	h := design.Horizontal

	min, max := h.StartStation(), h.EndStation()
	if design.Centerline != nil {
		min, max = design.Centerline.StationRange()
	}

	n := int(math.Ceil((max-min)/interval)) + 1
	if n < 2 {
		n = 2
	}
	stations := make([]float64, n)
	floats.Span(stations, min, max)

	line := make(orb.LineString, 0, n)
	for _, st := range stations {
		pos, _, err := h.PointAt(st)
		if err != nil {
			return nil, err
		}
		line = append(line, orb.Point{pos.X, pos.Y})
	}

	fc := geojson.NewFeatureCollection()
	lineFeature := geojson.NewFeature(line)
	lineFeature.Properties["name"] = design.Def.Name
	lineFeature.Properties["start_station"] = min
	lineFeature.Properties["end_station"] = max
	if bounds, err := h.Bounds(); err == nil {
		lineFeature.Properties["extent"] = []float64{bounds.X0, bounds.Y0, bounds.X1, bounds.Y1}
	}
	fc.Append(lineFeature)

	if design.Stationing == nil {
		return fc, nil
	}
	for _, ref := range design.Stationing.Referents() {
		st := h.StartStation() + ref.DistanceAlong
		pos, _, err := h.PointAt(st)
		if err != nil {
			// Referents beyond the generated geometry have no plan position.
			continue
		}
		f := geojson.NewFeature(orb.Point{pos.X, pos.Y})
		f.Properties["station"] = ref.Station
		f.Properties["label"] = ref.Label
		if ref.IncomingStation != nil {
			f.Properties["incoming_station"] = *ref.IncomingStation
		}
		if design.Centerline != nil {
			if p3d, err := design.Centerline.PositionAt(st); err == nil {
				f.Properties["elevation"] = p3d.Z
				f.Properties["grade"] = p3d.Grade
			}
		}
		fc.Append(f)
	}
	return fc, nil
}

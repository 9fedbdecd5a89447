package alignment

import "errors"

// Structural errors. Operations that return one of these leave the engine
// they were called on unchanged.
var (
	// ErrInvalidRadius is returned when a curve radius is zero or negative.
	ErrInvalidRadius = errors.New("curve radius must be positive")

	// ErrEndpointCurve is returned when a curve is requested at the first or
	// last control point, where there are not two tangents to blend.
	ErrEndpointCurve = errors.New("cannot place a curve on an endpoint")

	// ErrDegenerateCurve is returned when the tangents at a control point are
	// collinear, so there is no deflection for a curve to span.
	ErrDegenerateCurve = errors.New("tangents are collinear, no deflection to fit a curve to")

	// ErrCurveDoesNotFit is returned when a curve's tangent length exceeds
	// the room available between the control point and its neighbours.
	ErrCurveDoesNotFit = errors.New("curve tangent length exceeds available tangent")

	// ErrInsufficientControlPoints is returned when a query needs generated
	// segments but fewer than two control points exist.
	ErrInsufficientControlPoints = errors.New("need at least two control points")

	// ErrStationOutOfRange is returned when a query station falls outside the
	// covered station range.
	ErrStationOutOfRange = errors.New("station out of range")

	// ErrNoStationOverlap is returned when the horizontal and vertical
	// station ranges of an Alignment3D do not intersect.
	ErrNoStationOverlap = errors.New("horizontal and vertical station ranges do not overlap")

	// ErrUnknownPoint is returned when a point handle does not identify a
	// live control point.
	ErrUnknownPoint = errors.New("unknown control point")

	// ErrDuplicateStation is returned when a vertical control point is placed
	// at the exact station of an existing one.
	ErrDuplicateStation = errors.New("a control point already exists at this station")

	// ErrInvalidCurveLength is returned when a vertical curve length is
	// negative.
	ErrInvalidCurveLength = errors.New("curve length must not be negative")

	// ErrNoReferents is returned when a station lookup is attempted on an
	// empty referent collection.
	ErrNoReferents = errors.New("no station referents")
)

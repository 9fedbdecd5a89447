// Package alignment designs the centerline geometry of linear infrastructure
// such as roads, railways, and pipelines. A caller places sparse control
// points; the package derives dense, continuous, queryable geometry plus a
// linear-referencing (stationing) overlay on top of it.
//
// # Engines
//
// [HorizontalAlignment] turns an ordered sequence of intersection points
// ([PI]) into tangent and circular-arc segments. Curves are optional
// attachments on interior points; their geometry (tangent length, BC/EC,
// center) is derived from the point and its neighbours at insertion time.
//
// [VerticalAlignment] turns an ordered sequence of grade-break points ([PVI])
// into constant-grade and parabolic segments, and validates vertical curves
// against supplied K-value minima.
//
// [Stationing] maintains an ordered, possibly discontinuous linear-reference
// system over the combined alignment. Station equations let the station value
// jump to a different numbering at a physical location; the collection stays
// ordered by distance along the alignment, never by station value.
//
// [Alignment3D] composes one horizontal and one vertical engine into a single
// queryable 3D centerline over the intersection of their station ranges.
//
// All three engines share a single parameter: distance along the alignment.
// The horizontal and vertical engines answer authoritative position and
// elevation queries keyed by that parameter; stationing only translates it
// into display station values.
//
// # Mutation model
//
// Engines are single-threaded and synchronous. Every mutating call runs a
// full segment regeneration to completion before returning, so external
// observers never see intermediate state. Mutations that fail return an error
// and leave the engine untouched. The same control-point sequence always
// regenerates the same segment list.
//
// # Conventions
//
// Plan coordinates are y-up and angles anti-clockwise, so a positive cross
// product of the incoming and outgoing tangents at a PI means a left turn.
// Grades are decimal fractions (0.025 is 2.5%). Stations and distances share
// a unit, conventionally metres.
package alignment

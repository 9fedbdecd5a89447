package store

import "time"

// AlignmentRecord is one saved alignment design. Only user input is stored;
// segments, grades and curve geometry are re-derived on load by rebuilding
// the engines.
type AlignmentRecord struct {
	ID               int64  `gorm:"primary_key"`
	UID              string `gorm:"type:varchar(36);index"`
	Name             string `gorm:"type:varchar(255)"`
	StartStation     float64
	MinKCrest        float64
	MinKSag          float64
	StationingMethod string `gorm:"type:varchar(16)"` // empty when no stationing was configured
	Interval         float64
	DensifyFactor    float64
	ForceEnds        bool
	Decreasing       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PIRecord is one horizontal control point of a saved alignment, in
// placement order.
type PIRecord struct {
	ID           int64  `gorm:"primary_key"`
	AlignmentUID string `gorm:"type:varchar(36);index"`
	Seq          int
	X            float64
	Y            float64
	Radius       float64
}

// PVIRecord is one vertical control point of a saved alignment.
type PVIRecord struct {
	ID           int64  `gorm:"primary_key"`
	AlignmentUID string `gorm:"type:varchar(36);index"`
	Seq          int
	Station      float64
	Elevation    float64
	CurveLength  float64
}

// EquationRecord is one station equation of a saved alignment.
type EquationRecord struct {
	ID              int64  `gorm:"primary_key"`
	AlignmentUID    string `gorm:"type:varchar(36);index"`
	Seq             int
	DistanceAlong   float64
	IncomingStation float64
	Station         float64
}

// Package store persists alignment definitions in a SQLite database via
// GORM. Engines are never stored: a definition holds the control points and
// options only, and the geometry is regenerated on load.
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saikeicivil/alignment"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when no alignment exists for a UID.
var ErrNotFound = errors.New("alignment not found")

// Open opens (creating if needed) the alignment database at path and
// migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&AlignmentRecord{}, &PIRecord{}, &PVIRecord{}, &EquationRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}

// Save stores a definition under a fresh UID and returns it.
func Save(db *gorm.DB, def alignment.Definition) (string, error) {
	uid := uuid.NewString()
	if err := write(db, uid, def); err != nil {
		return "", err
	}
	return uid, nil
}

// Update replaces the definition stored under uid.
func Update(db *gorm.DB, uid string, def alignment.Definition) error {
	var count int64
	db.Model(&AlignmentRecord{}).Where("uid = ?", uid).Count(&count)
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, uid)
	}
	if err := Delete(db, uid); err != nil {
		return err
	}
	return write(db, uid, def)
}

func write(db *gorm.DB, uid string, def alignment.Definition) error {
	rec := AlignmentRecord{
		UID:          uid,
		Name:         def.Name,
		StartStation: def.StartStation,
		MinKCrest:    def.MinKCrest,
		MinKSag:      def.MinKSag,
	}
	if sd := def.Stationing; sd != nil {
		rec.StationingMethod = sd.Method
		if rec.StationingMethod == "" {
			rec.StationingMethod = alignment.MethodUniform
		}
		rec.Interval = sd.Interval
		rec.DensifyFactor = sd.DensifyFactor
		rec.ForceEnds = sd.ForceEnds
		rec.Decreasing = sd.Decreasing
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("saving alignment: %w", err)
		}
		for i, pi := range def.PIs {
			r := PIRecord{AlignmentUID: uid, Seq: i, X: pi.X, Y: pi.Y, Radius: pi.Radius}
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("saving PI %d: %w", i, err)
			}
		}
		for i, pvi := range def.PVIs {
			r := PVIRecord{AlignmentUID: uid, Seq: i, Station: pvi.Station, Elevation: pvi.Elevation, CurveLength: pvi.CurveLength}
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("saving PVI %d: %w", i, err)
			}
		}
		if def.Stationing != nil {
			for i, eq := range def.Stationing.Equations {
				r := EquationRecord{AlignmentUID: uid, Seq: i, DistanceAlong: eq.DistanceAlong, IncomingStation: eq.IncomingStation, Station: eq.Station}
				if err := tx.Create(&r).Error; err != nil {
					return fmt.Errorf("saving equation %d: %w", i, err)
				}
			}
		}
		return nil
	})
}

// Load reconstructs the definition stored under uid.
func Load(db *gorm.DB, uid string) (alignment.Definition, error) {
	var rec AlignmentRecord
	if err := db.Where("uid = ?", uid).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return alignment.Definition{}, fmt.Errorf("%w: %s", ErrNotFound, uid)
		}
		return alignment.Definition{}, fmt.Errorf("loading alignment: %w", err)
	}

	def := alignment.Definition{
		Name:         rec.Name,
		StartStation: rec.StartStation,
		MinKCrest:    rec.MinKCrest,
		MinKSag:      rec.MinKSag,
	}

	var pis []PIRecord
	if err := db.Where("alignment_uid = ?", uid).Order("seq").Find(&pis).Error; err != nil {
		return alignment.Definition{}, fmt.Errorf("loading PIs: %w", err)
	}
	for _, r := range pis {
		def.PIs = append(def.PIs, alignment.PIDef{X: r.X, Y: r.Y, Radius: r.Radius})
	}

	var pvis []PVIRecord
	if err := db.Where("alignment_uid = ?", uid).Order("seq").Find(&pvis).Error; err != nil {
		return alignment.Definition{}, fmt.Errorf("loading PVIs: %w", err)
	}
	for _, r := range pvis {
		def.PVIs = append(def.PVIs, alignment.PVIDef{Station: r.Station, Elevation: r.Elevation, CurveLength: r.CurveLength})
	}

	if rec.StationingMethod != "" {
		sd := &alignment.StationingDef{
			Method:        rec.StationingMethod,
			Interval:      rec.Interval,
			DensifyFactor: rec.DensifyFactor,
			ForceEnds:     rec.ForceEnds,
			Decreasing:    rec.Decreasing,
		}
		var eqs []EquationRecord
		if err := db.Where("alignment_uid = ?", uid).Order("seq").Find(&eqs).Error; err != nil {
			return alignment.Definition{}, fmt.Errorf("loading equations: %w", err)
		}
		for _, r := range eqs {
			sd.Equations = append(sd.Equations, alignment.EquationDef{
				DistanceAlong:   r.DistanceAlong,
				IncomingStation: r.IncomingStation,
				Station:         r.Station,
			})
		}
		def.Stationing = sd
	}

	return def, nil
}

// List returns the stored alignment records, newest first.
func List(db *gorm.DB) ([]AlignmentRecord, error) {
	var recs []AlignmentRecord
	if err := db.Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing alignments: %w", err)
	}
	return recs, nil
}

// Delete removes the alignment stored under uid and all of its child rows.
func Delete(db *gorm.DB, uid string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", uid).Delete(&AlignmentRecord{}).Error; err != nil {
			return fmt.Errorf("deleting alignment: %w", err)
		}
		for _, model := range []any{&PIRecord{}, &PVIRecord{}, &EquationRecord{}} {
			if err := tx.Where("alignment_uid = ?", uid).Delete(model).Error; err != nil {
				return fmt.Errorf("deleting child rows: %w", err)
			}
		}
		return nil
	})
}

package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/saikeicivil/alignment"
	"github.com/saikeicivil/alignment/export"
	"github.com/saikeicivil/alignment/store"
	"gorm.io/gorm"
)

// AlignmentController serves the alignment design API.
type AlignmentController struct {
	DB *gorm.DB
}

func (ac *AlignmentController) Register(r *gin.Engine) {
	api := r.Group("/alignments")
	{
		api.POST("", ac.Create)
		api.GET("", ac.List)
		api.GET("/:uid", ac.Get)
		api.PUT("/:uid", ac.Update)
		api.DELETE("/:uid", ac.Delete)
		api.GET("/:uid/position", ac.Position)
		api.GET("/:uid/warnings", ac.Warnings)
		api.GET("/:uid/stations", ac.Stations)
		api.GET("/:uid/plan.dxf", ac.PlanDXF)
		api.GET("/:uid/profile.dxf", ac.ProfileDXF)
		api.GET("/:uid/centerline.geojson", ac.CenterlineGeoJSON)
	}
}

// design loads and rebuilds the alignment under the request's uid, writing
// the error response itself when that fails.
func (ac *AlignmentController) design(c *gin.Context) (*alignment.Design, bool) {
	uid := c.Param("uid")
	def, err := store.Load(ac.DB, uid)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	design, err := def.Build()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	return design, true
}

func (ac *AlignmentController) Create(c *gin.Context) {
	var def alignment.Definition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := def.Build(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	uid, err := store.Save(ac.DB, def)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uid": uid})
}

func (ac *AlignmentController) List(c *gin.Context) {
	recs, err := store.List(ac.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (ac *AlignmentController) Get(c *gin.Context) {
	def, err := store.Load(ac.DB, c.Param("uid"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, def)
}

func (ac *AlignmentController) Update(c *gin.Context) {
	var def alignment.Definition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := def.Build(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := store.Update(ac.DB, c.Param("uid"), def); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": c.Param("uid")})
}

func (ac *AlignmentController) Delete(c *gin.Context) {
	if err := store.Delete(ac.DB, c.Param("uid")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (ac *AlignmentController) Position(c *gin.Context) {
	design, ok := ac.design(c)
	if !ok {
		return
	}
	station, err := strconv.ParseFloat(c.Query("station"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station query parameter is required"})
		return
	}

	if design.Centerline != nil {
		pos, err := design.Centerline.PositionAt(station)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, pos)
		return
	}

	p, dir, err := design.Horizontal.PointAt(station)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"x": p.X, "y": p.Y, "direction": dir.Angle()})
}

func (ac *AlignmentController) Warnings(c *gin.Context) {
	design, ok := ac.design(c)
	if !ok {
		return
	}
	warnings := design.Warnings()
	if warnings == nil {
		warnings = []alignment.Warning{}
	}
	c.JSON(http.StatusOK, warnings)
}

type stationRow struct {
	DistanceAlong   float64  `json:"distance_along"`
	Station         float64  `json:"station"`
	Formatted       string   `json:"formatted"`
	Label           string   `json:"label,omitempty"`
	IncomingStation *float64 `json:"incoming_station,omitempty"`
}

func (ac *AlignmentController) Stations(c *gin.Context) {
	design, ok := ac.design(c)
	if !ok {
		return
	}
	if design.Stationing == nil {
		c.JSON(http.StatusOK, []stationRow{})
		return
	}
	refs := design.Stationing.Referents()
	rows := make([]stationRow, len(refs))
	for i, ref := range refs {
		rows[i] = stationRow{
			DistanceAlong:   ref.DistanceAlong,
			Station:         ref.Station,
			Formatted:       alignment.FormatStation(ref.Station),
			Label:           ref.Label,
			IncomingStation: ref.IncomingStation,
		}
	}
	c.JSON(http.StatusOK, rows)
}

func (ac *AlignmentController) PlanDXF(c *gin.Context) {
	design, ok := ac.design(c)
	if !ok {
		return
	}
	path := filepath.Join(os.TempDir(), c.Param("uid")+"-plan.dxf")
	defer os.Remove(path)
	if err := export.PlanToDXF(design.Horizontal, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, "plan.dxf")
}

func (ac *AlignmentController) ProfileDXF(c *gin.Context) {
	design, ok := ac.design(c)
	if !ok {
		return
	}
	exaggeration, _ := strconv.ParseFloat(c.DefaultQuery("exaggeration", "10"), 64)
	path := filepath.Join(os.TempDir(), c.Param("uid")+"-profile.dxf")
	defer os.Remove(path)
	if err := export.ProfileToDXF(design.Vertical, path, exaggeration); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, "profile.dxf")
}

func (ac *AlignmentController) CenterlineGeoJSON(c *gin.Context) {
	design, ok := ac.design(c)
	if !ok {
		return
	}
	interval, _ := strconv.ParseFloat(c.DefaultQuery("interval", "0"), 64)
	fc, err := export.CenterlineFeatures(design, interval)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fc)
}

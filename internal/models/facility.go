package models

import (
	"time"
)

// Facility is a clinic or hospital that runs a virtual queue.
// Coordinates are optional: some facilities are registered without them,
// in which case the geofence check is skipped for their queue.
type Facility struct {
	ID                string `gorm:"primaryKey"` // slug, e.g. jhb-central
	Name              string `gorm:"not null"`
	Type              string `gorm:"default:clinic"` // clinic | hospital
	Address           string
	OperatingHours    string
	Lat               *float64
	Lng               *float64
	AvgServiceMinutes int     `gorm:"default:6"`  // minutes per patient, drives ETA
	GeofenceRadiusKm  float64 `gorm:"default:25"` // 0 disables the geofence
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasCoords reports whether the facility can take part in geofencing.
func (f *Facility) HasCoords() bool {
	return f.Lat != nil && f.Lng != nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	gorm.Model
	PatientID  uint   `gorm:"index;not null"`
	Patient    Patient `gorm:"foreignKey:PatientID"`
	FacilityID string `gorm:"index;not null"`
	Date       string `gorm:"not null"` // YYYY-MM-DD
	Time       string `gorm:"not null"` // HH:MM
	Department string
	Status     string `gorm:"default:pending"` // pending | confirmed | cancelled | completed
}

type Reminder struct {
	gorm.Model
	PatientID     uint `gorm:"index;not null"`
	AppointmentID uint `gorm:"index"`
	Message       string
	SendAt        time.Time `gorm:"index"`
	Sent          bool      `gorm:"default:false"`
}

type Supply struct {
	gorm.Model
	FacilityID string `gorm:"index;not null"`
	Name       string `gorm:"not null"`
	Level      string `gorm:"default:ok"` // ok | low | out
}

type Feedback struct {
	gorm.Model
	PatientID  uint   `gorm:"index;not null"`
	FacilityID string `gorm:"index;not null"`
	Rating     int    `gorm:"not null"` // 1..5
	Comment    string
}

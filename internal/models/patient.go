package models

import (
	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	Name             string `gorm:"not null"`
	Email            string `gorm:"uniqueIndex;not null"`
	PasswordHash     string `gorm:"not null"`
	Role             string `gorm:"default:patient"` // patient | admin
	ClinicCardID     string `gorm:"uniqueIndex"`     // MzansiCare card number, e.g. MC-THA-001
	Conditions       string
	Medications      string
	BloodType        string
	EmergencyContact string
	FCMToken         string // push notification token, empty if the device never registered
}

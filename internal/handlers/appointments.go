package handlers

import (
	"fmt"
	"net/http"
	"time"

	"mzansicare/internal/models"
	"mzansicare/internal/response"
	"mzansicare/internal/storage"

	"github.com/gin-gonic/gin"
)

type BookAppointmentRequest struct {
	FacilityID string `json:"facility_id" binding:"required"`
	Date       string `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string `json:"time" binding:"required"` // HH:MM
	Department string `json:"department"`
}

// BookAppointmentHandler books a clinic visit
// @Summary		Book an appointment
// @Tags			appointments
// @Accept			json
// @Produce		json
// @Param			appointment	body	BookAppointmentRequest	true	"Appointment request"
// @Security		BearerAuth
// @Success		201	{object}	models.Appointment
// @Failure		400	{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR, INVALID_DATE)"
// @Router			/api/appointments [post]
func BookAppointmentHandler(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	when, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_DATE",
			Message: "Date must be YYYY-MM-DD and time HH:MM",
		})
		return
	}

	if _, err := Facilities.Get(c.Request.Context(), req.FacilityID); err != nil {
		writeQueueError(c, err)
		return
	}

	appointment := models.Appointment{
		PatientID:  c.GetUint("userID"),
		FacilityID: req.FacilityID,
		Date:       req.Date,
		Time:       req.Time,
		Department: req.Department,
		Status:     "pending",
	}
	if err := storage.DB.Create(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not book appointment",
			Details: err.Error(),
		})
		return
	}

	// Queue a reminder for the day before at 09:00; same-day bookings get
	// no reminder.
	sendAt := when.Add(-24 * time.Hour)
	if sendAt.After(time.Now()) {
		reminder := models.Reminder{
			PatientID:     appointment.PatientID,
			AppointmentID: appointment.ID,
			Message:       fmt.Sprintf("Remember your appointment at %s tomorrow at %s", req.FacilityID, req.Time),
			SendAt:        time.Date(sendAt.Year(), sendAt.Month(), sendAt.Day(), 9, 0, 0, 0, sendAt.Location()),
		}
		storage.DB.Create(&reminder)
	}

	c.JSON(http.StatusCreated, appointment)
}

// ListAppointmentsHandler lists the patient's appointments
// @Summary		My appointments
// @Tags			appointments
// @Produce		json
// @Security		BearerAuth
// @Success		200	{array}	models.Appointment
// @Router			/api/appointments [get]
func ListAppointmentsHandler(c *gin.Context) {
	var appointments []models.Appointment
	if err := storage.DB.
		Where("patient_id = ?", c.GetUint("userID")).
		Order("date ASC, time ASC").
		Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not load appointments",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, appointments)
}

var appointmentStatuses = map[string]bool{
	"confirmed": true,
	"cancelled": true,
	"completed": true,
}

type UpdateAppointmentRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAppointmentStatusHandler changes an appointment's status. Patients
// may only cancel their own; operators may set any status.
// @Summary		Update appointment status
// @Tags			appointments
// @Accept			json
// @Produce		json
// @Param			id		path	int							true	"Appointment ID"
// @Param			status	body	UpdateAppointmentRequest	true	"New status"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		403	{object}	response.ErrorResponse	"Not allowed (NOT_APPOINTMENT_OWNER, STATUS_NOT_ALLOWED)"
// @Router			/api/appointments/{id}/status [put]
func UpdateAppointmentStatusHandler(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil || !appointmentStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Status must be confirmed, cancelled or completed",
		})
		return
	}

	var appointment models.Appointment
	if err := storage.DB.First(&appointment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "APPOINTMENT_NOT_FOUND",
			Message: "Appointment not found",
		})
		return
	}

	isAdmin := c.GetString("role") == "admin"
	if !isAdmin {
		if appointment.PatientID != c.GetUint("userID") {
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "NOT_APPOINTMENT_OWNER",
				Message: "You can only change your own appointments",
			})
			return
		}
		if req.Status != "cancelled" {
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "STATUS_NOT_ALLOWED",
				Message: "Patients may only cancel appointments",
			})
			return
		}
	}

	if err := storage.DB.Model(&appointment).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not update appointment",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Appointment " + req.Status})
}

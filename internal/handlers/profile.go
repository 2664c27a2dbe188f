package handlers

import (
	"net/http"

	"mzansicare/internal/models"
	"mzansicare/internal/response"
	"mzansicare/internal/storage"

	"github.com/gin-gonic/gin"
)

type ProfileResponse struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	ClinicCardID     string `json:"clinic_card_id"`
	Conditions       string `json:"conditions"`
	Medications      string `json:"medications"`
	BloodType        string `json:"blood_type"`
	EmergencyContact string `json:"emergency_contact"`
}

// GetProfileHandler returns the patient's own record
// @Summary		Get profile
// @Tags			profile
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	ProfileResponse
// @Router			/api/profile [get]
func GetProfileHandler(c *gin.Context) {
	var patient models.Patient
	if err := storage.DB.First(&patient, c.GetUint("userID")).Error; err != nil {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "USER_NOT_FOUND",
			Message: "Account not found",
		})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:               patient.ID,
		Name:             patient.Name,
		Email:            patient.Email,
		ClinicCardID:     patient.ClinicCardID,
		Conditions:       patient.Conditions,
		Medications:      patient.Medications,
		BloodType:        patient.BloodType,
		EmergencyContact: patient.EmergencyContact,
	})
}

type UpdateProfileRequest struct {
	Name             string `json:"name"`
	Conditions       string `json:"conditions"`
	Medications      string `json:"medications"`
	BloodType        string `json:"blood_type"`
	EmergencyContact string `json:"emergency_contact"`
}

// UpdateProfileHandler updates the medical profile fields
// @Summary		Update profile
// @Tags			profile
// @Accept			json
// @Produce		json
// @Param			profile	body	UpdateProfileRequest	true	"Fields to update"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Router			/api/profile [put]
func UpdateProfileHandler(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	updates := map[string]interface{}{
		"conditions":        req.Conditions,
		"medications":       req.Medications,
		"blood_type":        req.BloodType,
		"emergency_contact": req.EmergencyContact,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}

	if err := storage.DB.Model(&models.Patient{}).
		Where("id = ?", c.GetUint("userID")).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not update profile",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Profile updated"})
}

type RegisterDeviceRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// RegisterDeviceHandler stores the push token for queue notifications
// @Summary		Register device for push
// @Tags			profile
// @Accept			json
// @Produce		json
// @Param			device	body	RegisterDeviceRequest	true	"FCM registration token"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Router			/api/profile/device [post]
func RegisterDeviceHandler(c *gin.Context) {
	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	if err := storage.DB.Model(&models.Patient{}).
		Where("id = ?", c.GetUint("userID")).
		Update("fcm_token", req.FCMToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not register device",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Device registered"})
}

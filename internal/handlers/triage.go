package handlers

import (
	"net/http"

	"mzansicare/internal/response"
	"mzansicare/internal/triage"

	"github.com/gin-gonic/gin"
)

type TriageRequest struct {
	Symptoms string         `json:"symptoms" binding:"required"`
	Profile  triage.Profile `json:"profile"`
}

// TriageHandler scores symptoms and suggests a department
// @Summary		AI triage
// @Description	Heuristic symptom scoring; advisory only, not a diagnosis
// @Tags			ai
// @Accept			json
// @Produce		json
// @Param			request	body	TriageRequest	true	"Symptoms and optional profile"
// @Security		BearerAuth
// @Success		200	{object}	triage.Assessment
// @Router			/api/ai/triage [post]
func TriageHandler(c *gin.Context) {
	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Symptoms are required",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, triage.Assess(req.Symptoms, req.Profile))
}

type MedCheckRequest struct {
	CurrentMeds       []string `json:"current_meds"`
	NewMed            string   `json:"new_med" binding:"required"`
	PatientConditions []string `json:"patient_conditions"`
}

// MedCheckHandler screens a new medication against current ones
// @Summary		Medication check
// @Tags			ai
// @Accept			json
// @Produce		json
// @Param			request	body	MedCheckRequest	true	"Medication lists"
// @Security		BearerAuth
// @Success		200	{object}	triage.MedCheckResult
// @Router			/api/ai/medcheck [post]
func MedCheckHandler(c *gin.Context) {
	var req MedCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "New medication is required",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, triage.CheckMedication(req.CurrentMeds, req.NewMed, req.PatientConditions))
}

package handlers

import (
	"net/http"

	"mzansicare/internal/models"
	"mzansicare/internal/response"
	"mzansicare/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListSuppliesHandler shows stock levels for a facility
// @Summary		Facility supply levels
// @Tags			supplies
// @Produce		json
// @Param			facilityId	path	string	true	"Facility ID"
// @Success		200	{array}	models.Supply
// @Router			/facilities/{facilityId}/supplies [get]
func ListSuppliesHandler(c *gin.Context) {
	var supplies []models.Supply
	if err := storage.DB.
		Where("facility_id = ?", c.Param("facilityId")).
		Order("name ASC").
		Find(&supplies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not load supplies",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, supplies)
}

var supplyLevels = map[string]bool{"ok": true, "low": true, "out": true}

type UpsertSupplyRequest struct {
	FacilityID string `json:"facility_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Level      string `json:"level" binding:"required"`
}

// UpsertSupplyHandler records a stock level
// @Summary		Report supply level
// @Tags			supplies
// @Accept			json
// @Produce		json
// @Param			supply	body	UpsertSupplyRequest	true	"Supply level"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Router			/api/admin/supplies [put]
func UpsertSupplyHandler(c *gin.Context) {
	var req UpsertSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil || !supplyLevels[req.Level] {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Level must be ok, low or out",
		})
		return
	}

	var supply models.Supply
	err := storage.DB.
		Where("facility_id = ? AND name = ?", req.FacilityID, req.Name).
		First(&supply).Error
	if err == nil {
		if err := storage.DB.Model(&supply).Update("level", req.Level).Error; err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Could not update supply",
				Details: err.Error(),
			})
			return
		}
	} else {
		supply = models.Supply{FacilityID: req.FacilityID, Name: req.Name, Level: req.Level}
		if err := storage.DB.Create(&supply).Error; err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Could not record supply",
				Details: err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Supply level saved"})
}

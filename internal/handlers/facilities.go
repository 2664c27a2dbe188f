package handlers

import (
	"net/http"

	"mzansicare/internal/models"
	"mzansicare/internal/response"

	"github.com/gin-gonic/gin"
)

// ListFacilitiesHandler lists clinics and hospitals
// @Summary		List facilities
// @Tags			facilities
// @Produce		json
// @Success		200	{array}	models.Facility
// @Router			/facilities [get]
func ListFacilitiesHandler(c *gin.Context) {
	facilities, err := Facilities.List(c.Request.Context())
	if err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, facilities)
}

// GetFacilityHandler returns one facility
// @Summary		Get a facility
// @Tags			facilities
// @Produce		json
// @Param			id	path	string	true	"Facility ID"
// @Success		200	{object}	models.Facility
// @Failure		404	{object}	response.ErrorResponse	"Unknown facility (NOT_FOUND)"
// @Router			/facilities/{id} [get]
func GetFacilityHandler(c *gin.Context) {
	f, err := Facilities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

type UpsertFacilityRequest struct {
	ID                string   `json:"id" binding:"required"`
	Name              string   `json:"name" binding:"required"`
	Type              string   `json:"type"`
	Address           string   `json:"address"`
	OperatingHours    string   `json:"operating_hours"`
	Lat               *float64 `json:"lat"`
	Lng               *float64 `json:"lng"`
	AvgServiceMinutes int      `json:"avg_service_minutes"`
	GeofenceRadiusKm  float64  `json:"geofence_radius_km"`
}

// UpsertFacilityHandler creates or updates a facility
// @Summary		Create or update a facility
// @Tags			facilities
// @Accept			json
// @Produce		json
// @Param			facility	body	UpsertFacilityRequest	true	"Facility record"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Router			/api/admin/facilities [put]
func UpsertFacilityHandler(c *gin.Context) {
	var req UpsertFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	f := &models.Facility{
		ID:                req.ID,
		Name:              req.Name,
		Type:              req.Type,
		Address:           req.Address,
		OperatingHours:    req.OperatingHours,
		Lat:               req.Lat,
		Lng:               req.Lng,
		AvgServiceMinutes: req.AvgServiceMinutes,
		GeofenceRadiusKm:  req.GeofenceRadiusKm,
	}
	if f.Type == "" {
		f.Type = "clinic"
	}
	if f.AvgServiceMinutes <= 0 {
		f.AvgServiceMinutes = 6
	}

	if err := Facilities.Upsert(c.Request.Context(), f); err != nil {
		writeQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Facility saved"})
}

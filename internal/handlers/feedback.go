package handlers

import (
	"net/http"

	"mzansicare/internal/models"
	"mzansicare/internal/response"
	"mzansicare/internal/storage"

	"github.com/gin-gonic/gin"
)

type SubmitFeedbackRequest struct {
	FacilityID string `json:"facility_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}

// SubmitFeedbackHandler records a visit rating
// @Summary		Submit feedback
// @Tags			feedback
// @Accept			json
// @Produce		json
// @Param			feedback	body	SubmitFeedbackRequest	true	"Rating and comment"
// @Security		BearerAuth
// @Success		201	{object}	response.SuccessResponse
// @Router			/api/feedback [post]
func SubmitFeedbackHandler(c *gin.Context) {
	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Rating must be between 1 and 5",
			Details: err.Error(),
		})
		return
	}

	feedback := models.Feedback{
		PatientID:  c.GetUint("userID"),
		FacilityID: req.FacilityID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := storage.DB.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not save feedback",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, response.SuccessResponse{Message: "Thank you for your feedback"})
}

type FeedbackSummary struct {
	FacilityID    string  `json:"facility_id"`
	AverageRating float64 `json:"average_rating"`
	Count         int64   `json:"count"`
}

// FacilityFeedbackHandler aggregates ratings for a facility
// @Summary		Facility feedback summary
// @Tags			feedback
// @Produce		json
// @Param			facilityId	path	string	true	"Facility ID"
// @Success		200	{object}	FeedbackSummary
// @Router			/facilities/{facilityId}/feedback [get]
func FacilityFeedbackHandler(c *gin.Context) {
	facilityID := c.Param("facilityId")

	var summary FeedbackSummary
	summary.FacilityID = facilityID

	row := storage.DB.Model(&models.Feedback{}).
		Where("facility_id = ?", facilityID).
		Select("COALESCE(AVG(rating),0), COUNT(*)").Row()
	if err := row.Scan(&summary.AverageRating, &summary.Count); err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not load feedback",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"mzansicare/internal/auth"
	"mzansicare/internal/models"
	"mzansicare/internal/response"
	"mzansicare/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// clinicCardID builds the MzansiCare card number, e.g. MC-THA-001.
func clinicCardID(name string, userID uint) string {
	prefix := strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "PAT"
	}
	return fmt.Sprintf("MC-%s-%03d", prefix, userID)
}

// Register creates a patient account
// @Summary		Register a patient
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			user	body		RegisterRequest	true	"Patient details"
// @Success		201	{object}	response.SuccessResponse
// @Failure		400	{object}	response.ErrorResponse	"Validation error (VALIDATION_ERROR) or email in use (EMAIL_EXISTS)"
// @Failure		500	{object}	response.ErrorResponse	"Server error (PASSWORD_HASH_ERROR, DB_ERROR)"
// @Router			/auth/register [post]
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	var existing models.Patient
	if err := storage.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "EMAIL_EXISTS",
			Message: "An account with this email already exists",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "PASSWORD_HASH_ERROR",
			Message: "Could not hash password",
		})
		return
	}

	patient := models.Patient{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         "patient",
	}
	// The card number needs the generated id, so it is assigned inside the
	// same transaction as the insert: no account is ever committed without
	// its card.
	err = storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&patient).Error; err != nil {
			return err
		}
		patient.ClinicCardID = clinicCardID(patient.Name, patient.ID)
		return tx.Model(&patient).Update("clinic_card_id", patient.ClinicCardID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Could not create account",
		})
		return
	}

	c.JSON(http.StatusCreated, response.SuccessResponse{Message: "Account created"})
}

// Login authenticates a patient
// @Summary		Log in
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			user	body		LoginRequest	true	"Credentials"
// @Success		200	{object}	response.TokenResponse
// @Failure		401	{object}	response.ErrorResponse	"Wrong credentials (INVALID_CREDENTIALS)"
// @Router			/auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	var patient models.Patient
	if err := storage.DB.Where("email = ?", req.Email).First(&patient).Error; err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "INVALID_CREDENTIALS",
			Message: "Wrong email or password",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "INVALID_CREDENTIALS",
			Message: "Wrong email or password",
		})
		return
	}

	accessToken, err := auth.GenerateToken(patient.ID, patient.Role, auth.AccessTokenTTL, auth.AccessSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "TOKEN_GENERATION_ERROR",
			Message: "Could not generate access token",
		})
		return
	}
	refreshToken, err := auth.GenerateToken(patient.ID, patient.Role, auth.RefreshTokenTTL, auth.RefreshSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "TOKEN_GENERATION_ERROR",
			Message: "Could not generate refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken rotates the token pair
// @Summary		Refresh tokens
// @Tags			auth
// @Accept			json
// @Produce		json
// @Param			refresh_token	body		RefreshTokenRequest	true	"Refresh token"
// @Success		200	{object}	response.TokenResponse
// @Failure		401	{object}	response.ErrorResponse	"Invalid refresh token (INVALID_REFRESH_TOKEN)"
// @Router			/auth/refresh [post]
func RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	claims, ok := auth.ParseToken(req.RefreshToken, auth.RefreshSecret)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "INVALID_REFRESH_TOKEN",
			Message: "Invalid or expired refresh token",
		})
		return
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "INVALID_REFRESH_TOKEN",
			Message: "Invalid or expired refresh token",
		})
		return
	}

	var patient models.Patient
	if err := storage.DB.First(&patient, uint(userIDFloat)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{
			Code:    "USER_NOT_FOUND",
			Message: "Account not found",
		})
		return
	}

	accessToken, err := auth.GenerateToken(patient.ID, patient.Role, auth.AccessTokenTTL, auth.AccessSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "TOKEN_GENERATION_ERROR",
			Message: "Could not generate access token",
		})
		return
	}
	refreshToken, err := auth.GenerateToken(patient.ID, patient.Role, auth.RefreshTokenTTL, auth.RefreshSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "TOKEN_GENERATION_ERROR",
			Message: "Could not generate refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

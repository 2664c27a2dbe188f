package response

// SuccessResponse is the generic success envelope.
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed"`
}

// ErrorResponse is the error envelope returned by every handler.
type ErrorResponse struct {
	// Machine-readable error code, e.g. GEOFENCE_VIOLATION
	Code string `json:"code"`

	// Human-readable message shown to the user
	Message string `json:"message"`

	// Optional extra detail for debugging
	Details string `json:"details,omitempty"`
}

// TokenResponse carries the auth token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

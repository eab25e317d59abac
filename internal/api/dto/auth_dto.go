package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest payload for email-based token issuance.
type LoginRequest struct {
	Email string `json:"email"`
}

// Validate requires a well-formed email.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// TokenResponse carries a freshly minted bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

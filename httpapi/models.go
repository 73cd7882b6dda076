package httpapi

import (
	"time"

	"github.com/LiquidN2/natours/store"
)

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type totpLoginRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Remember bool   `json:"remember"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type twoFactorRequest struct {
	TwoFactorEnabled bool `json:"twoFactorEnabled"`
}

// userPayload is the public projection of a user record.
type userPayload struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Photo            string    `json:"photo,omitempty"`
	Role             string    `json:"role"`
	EmailConfirmed   bool      `json:"emailConfirmed"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

func newUserPayload(u *store.User) userPayload {
	return userPayload{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Photo:            u.Photo,
		Role:             string(u.Role),
		EmailConfirmed:   u.EmailConfirmed,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
}

type tokenResponse struct {
	Status string       `json:"status"`
	Token  string       `json:"token"`
	Data   *userPayload `json:"data,omitempty"`
}

type twoFactorPendingResponse struct {
	Status   string `json:"status"`
	Redirect string `json:"redirect"`
}

type twoFactorSetupResponse struct {
	Status string `json:"status"`
	Data   struct {
		Secret     string `json:"secret"`
		OTPAuthURL string `json:"otpauthUrl"`
	} `json:"data"`
}

type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

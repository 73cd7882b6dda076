package auth

import "github.com/LiquidN2/natours/store"

// SignupRequest is the input for [Engine.Signup].
type SignupRequest struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// SignupResult is returned by [Engine.Signup]. The bearer token is issued
// immediately; email confirmation happens out of band.
type SignupResult struct {
	User  *store.User
	Token string
}

// LoginResult is returned by the login-family operations. When
// TwoFactorRequired is set, no token has been issued: the caller must run
// the TOTP step, carrying Email and Remember through the pending-2FA
// cookies, before any credential exists.
type LoginResult struct {
	Token    string
	Remember bool
	User     *store.User

	TwoFactorRequired bool
	Email             string
}

// TwoFactorSetup is returned by [Engine.EnableTwoFactor]. URI is the
// otpauth:// provisioning URI for client-side QR rendering; Secret is the
// base32 secret for manual entry.
type TwoFactorSetup struct {
	Secret string
	URI    string
}

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LiquidN2/natours/auth"
)

// Signup registers a new account and signs it in.
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.engine.Signup(r.Context(), auth.SignupRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		a.audit.failure("signup", err)
		writeEngineError(w, err)
		return
	}
	a.audit.success("signup", slog.String("user_id", res.User.ID))
	a.setSessionCookie(w, res.Token, true)
	user := newUserPayload(res.User)
	writeJSON(w, http.StatusCreated, tokenResponse{
		Status: "success",
		Token:  res.Token,
		Data:   &user,
	})
}

// Login performs the password step. Accounts with two-factor enabled get
// a pending response instead of a token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.engine.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		a.audit.failure("login", err, slog.String("ip", clientIP(r)))
		writeEngineError(w, err)
		return
	}
	if res.TwoFactorRequired {
		a.audit.success("login_2fa_pending", slog.String("ip", clientIP(r)))
		a.setPendingCookies(w, res.Email, res.Remember)
		writeJSON(w, http.StatusOK, twoFactorPendingResponse{
			Status:   "success",
			Redirect: "/login-totp",
		})
		return
	}
	a.audit.success("login", slog.String("user_id", res.User.ID))
	a.sendToken(w, res)
}

// LoginTOTP performs the one-time-code step. The email and remember
// choice come from the pending cookies set by Login, with body fields as
// a fallback for cookie-less clients.
func (a *API) LoginTOTP(w http.ResponseWriter, r *http.Request) {
	var req totpLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email, remember := req.Email, req.Remember
	if cEmail, cRemember, ok := pendingFromCookies(r); ok {
		email, remember = cEmail, cRemember
	}
	res, err := a.engine.LoginWithTOTP(r.Context(), email, req.Token, remember)
	if err != nil {
		a.audit.failure("login_totp", err, slog.String("ip", clientIP(r)))
		writeEngineError(w, err)
		return
	}
	a.audit.success("login_totp", slog.String("user_id", res.User.ID))
	a.clearPendingCookies(w)
	a.sendToken(w, res)
}

// Logout overwrites the session cookie with a short-lived dummy value.
// The bearer token itself stays valid until expiry.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	a.clearSessionCookie(w)
	a.clearPendingCookies(w)
	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "logged out"})
}

// ForgotPassword starts the reset flow. The response shape does not
// reveal whether the email belongs to an account.
func (a *API) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.engine.RequestPasswordReset(r.Context(), req.Email); err != nil {
		a.audit.failure("password_reset_request", err, slog.String("ip", clientIP(r)))
		writeEngineError(w, err)
		return
	}
	a.audit.success("password_reset_request", slog.String("ip", clientIP(r)))
	writeJSON(w, http.StatusOK, messageResponse{
		Status:  "success",
		Message: "token sent to email",
	})
}

// ResetPassword consumes a reset token and signs the account in.
func (a *API) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token := chi.URLParam(r, "token")
	res, err := a.engine.ResetPassword(r.Context(), token, req.Password, req.PasswordConfirm)
	if err != nil {
		a.audit.failure("password_reset", err, slog.String("ip", clientIP(r)))
		writeEngineError(w, err)
		return
	}
	a.audit.success("password_reset", slog.String("user_id", res.User.ID))
	a.sendToken(w, res)
}

// ConfirmEmail consumes an email confirmation token.
func (a *API) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	user, err := a.engine.ConfirmEmail(r.Context(), token)
	if err != nil {
		a.audit.failure("email_confirm", err, slog.String("ip", clientIP(r)))
		writeEngineError(w, err)
		return
	}
	a.audit.success("email_confirm", slog.String("user_id", user.ID))
	writeJSON(w, http.StatusOK, messageResponse{
		Status:  "success",
		Message: "email confirmed",
	})
}

// UpdatePassword changes the signed-in user's password. The fresh token
// in the response replaces the one invalidated by the change.
func (a *API) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(r)
	if !ok {
		writeEngineError(w, auth.ErrUnauthenticated)
		return
	}
	var req updatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := a.engine.ChangePassword(r.Context(), user.ID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		a.audit.failure("password_change", err, slog.String("user_id", user.ID))
		writeEngineError(w, err)
		return
	}
	a.audit.success("password_change", slog.String("user_id", user.ID))
	a.sendToken(w, res)
}

// UpdateTwoFactor turns TOTP on or off for the signed-in user. Enabling
// returns the secret and provisioning URI for the authenticator app.
func (a *API) UpdateTwoFactor(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(r)
	if !ok {
		writeEngineError(w, auth.ErrUnauthenticated)
		return
	}
	var req twoFactorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.TwoFactorEnabled {
		if err := a.engine.DisableTwoFactor(r.Context(), user.ID); err != nil {
			a.audit.failure("two_factor_disable", err, slog.String("user_id", user.ID))
			writeEngineError(w, err)
			return
		}
		a.audit.success("two_factor_disable", slog.String("user_id", user.ID))
		writeJSON(w, http.StatusOK, messageResponse{
			Status:  "success",
			Message: "two-factor authentication disabled",
		})
		return
	}
	setup, err := a.engine.EnableTwoFactor(r.Context(), user.ID)
	if err != nil {
		a.audit.failure("two_factor_enable", err, slog.String("user_id", user.ID))
		writeEngineError(w, err)
		return
	}
	a.audit.success("two_factor_enable", slog.String("user_id", user.ID))
	resp := twoFactorSetupResponse{Status: "success"}
	resp.Data.Secret = setup.Secret
	resp.Data.OTPAuthURL = setup.URI
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the signed-in user.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(r)
	if !ok {
		writeEngineError(w, auth.ErrUnauthenticated)
		return
	}
	payload := newUserPayload(user)
	writeJSON(w, http.StatusOK, struct {
		Status string      `json:"status"`
		Data   userPayload `json:"data"`
	}{Status: "success", Data: payload})
}

func (a *API) sendToken(w http.ResponseWriter, res *auth.LoginResult) {
	a.setSessionCookie(w, res.Token, res.Remember)
	user := newUserPayload(res.User)
	writeJSON(w, http.StatusOK, tokenResponse{
		Status: "success",
		Token:  res.Token,
		Data:   &user,
	})
}

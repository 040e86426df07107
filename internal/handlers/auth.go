package handlers

import (
	"log"

	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/internal/identity"
	"github.com/cardbinder/cardbinder/internal/middleware"
	"github.com/cardbinder/cardbinder/internal/ratelimit"
	"github.com/cardbinder/cardbinder/internal/services"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"
	"github.com/cardbinder/cardbinder/internal/validation"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler orchestrates the auth endpoints: validate, rate-limit, one
// delegated identity call, normalize the outcome.
type AuthHandler struct {
	Provider identity.Provider
	Limiter  ratelimit.Limiter
	Cfg      *config.Config
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetBody struct {
	Email string `json:"email"`
}

type updatePasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if appErr := h.rejectAuthenticated(c); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	var body credentialsBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	cmd, appErr := validation.ValidateRegister(body.Email, body.Password)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	result, err := h.Provider.SignUp(cmd.Email, cmd.Password)
	if err != nil {
		return respondError(c, err)
	}

	services.RecordAuthEvent("register")
	return utils.PrivateResponse(c, fiber.StatusCreated, result, nil)
}

// Login handles POST /api/auth/login
// @Summary Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if appErr := h.rejectAuthenticated(c); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	var body credentialsBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	cmd, appErr := validation.ValidateLogin(body.Email, body.Password)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	result, err := h.Provider.SignIn(cmd.Email, cmd.Password)
	if err != nil {
		return respondError(c, err)
	}

	services.RecordAuthEvent("login")
	return utils.PrivateResponse(c, fiber.StatusOK, result, nil)
}

// Logout handles POST /api/auth/logout
// @Summary Revoke the current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// An absent or malformed header is the caller's mistake (400); a token
	// the provider rejects is 401.
	token := middleware.BearerToken(c)
	if token == "" {
		return utils.AppErrorResponse(c, types.ValidationError("Missing bearer token", map[string]string{
			"authorization": "Bearer token is required",
		}))
	}

	if err := h.Provider.SignOut(token); err != nil {
		return respondError(c, err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Signed out")
}

// RequestPasswordReset handles POST /api/auth/reset-password
// @Summary Request a password reset email
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 429 {object} utils.ErrorBody
// @Router /auth/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var body resetBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	cmd, appErr := validation.ValidatePasswordReset(body.Email)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	// Second gate: the email-keyed window, independent of the IP window the
	// route middleware already consumed.
	if appErr := middleware.AllowEmail(h.Limiter, "reset", cmd.Email, h.Cfg.ResetLimit); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	// Always answer 200 so responses never reveal whether the email exists.
	if err := h.Provider.SendPasswordReset(cmd.Email, h.Cfg.AuthzRedirectTo); err != nil {
		log.Printf("password reset dispatch failed: %v", err)
	}
	return utils.MessageResponse(c, fiber.StatusOK, "If the account exists, a reset email has been sent")
}

// UpdatePassword handles POST /api/auth/update-password
// @Summary Apply a new password using a recovery token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Router /auth/update-password [post]
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var body updatePasswordBody
	if appErr := parseBody(c, &body); appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	cmd, appErr := validation.ValidatePasswordUpdate(body.Token, body.Password)
	if appErr != nil {
		return utils.AppErrorResponse(c, appErr)
	}

	if err := h.Provider.UpdatePassword(cmd.Token, cmd.Password); err != nil {
		// Any verification or change failure collapses to a single 401;
		// only unrelated internal errors keep their 500.
		if appErr, ok := err.(*types.AppError); ok && appErr.Status == 500 {
			return utils.AppErrorResponse(c, appErr)
		}
		return utils.AppErrorResponse(c, types.NewAppError(types.CodeUnauthorized, "Invalid or expired token", 401))
	}
	return utils.MessageResponse(c, fiber.StatusOK, "Password updated")
}

// rejectAuthenticated answers ALREADY_AUTHENTICATED when the caller presents
// a token the provider still accepts.
func (h *AuthHandler) rejectAuthenticated(c *fiber.Ctx) *types.AppError {
	token := middleware.BearerToken(c)
	if token == "" {
		return nil
	}
	if _, err := h.Provider.GetUser(token); err != nil {
		// Stale token: let the request proceed as unauthenticated.
		return nil
	}
	return types.NewAppError(types.CodeAlreadyAuthenticated, "Already authenticated", 400)
}

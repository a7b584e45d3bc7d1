package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/api/models"
	"github.com/BMTushyath/smart-travel-planner/internal/api/response"
	"github.com/BMTushyath/smart-travel-planner/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service *auth.Service
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Signup handles POST /v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req auth.CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "Validation failed", toFieldErrors(errs))
		return
	}

	tokens, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			response.Conflict(w, r, "Username already taken")
			return
		}
		h.logger.Error().Err(err).Msg("signup failed")
		response.InternalError(w, r, "Failed to create account")
		return
	}

	h.logger.Info().Str("user_id", tokens.User.ID).Msg("user signed up")
	response.JSON(w, r, http.StatusCreated, tokens)
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	tokens, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Unauthorized(w, r, "Invalid username or password")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		response.InternalError(w, r, "Failed to log in")
		return
	}

	response.JSON(w, r, http.StatusOK, tokens)
}

// RefreshToken handles POST /v1/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "Validation failed", toFieldErrors(errs))
		return
	}

	tokens, err := h.service.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRefreshTokenExpired):
			response.Unauthorized(w, r, "Refresh token has expired")
		case errors.Is(err, auth.ErrInvalidRefreshToken):
			response.Unauthorized(w, r, "Invalid refresh token")
		case errors.Is(err, auth.ErrUserNotFound):
			response.Unauthorized(w, r, "Invalid refresh token")
		default:
			h.logger.Error().Err(err).Msg("token refresh failed")
			response.InternalError(w, r, "Failed to refresh token")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, tokens)
}

// Logout handles POST /v1/auth/logout. It revokes the presented refresh
// token; the access token simply expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	if req.RefreshToken != "" {
		if err := h.service.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
			h.logger.Warn().Err(err).Msg("refresh token revocation failed")
		}
	}

	// Logout always succeeds from the client's perspective
	response.NoContent(w, r)
}

// LogoutAll handles POST /v1/auth/logout-all. It revokes every refresh
// token for the authenticated user.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		response.Unauthorized(w, r, "Authentication required")
		return
	}

	if err := h.service.RevokeAllTokens(r.Context(), uid); err != nil {
		h.logger.Error().Err(err).Str("user_id", uid).Msg("revoking all tokens failed")
		response.InternalError(w, r, "Failed to log out")
		return
	}

	response.NoContent(w, r)
}

// toFieldErrors converts auth field errors to the API model.
func toFieldErrors(errs []auth.FieldError) []models.FieldError {
	out := make([]models.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, models.FieldError{Field: e.Field, Message: e.Message, Code: e.Code})
	}
	return out
}

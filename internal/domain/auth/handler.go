package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/deskly/deskly-api/internal/domain/user"
	"github.com/deskly/deskly-api/internal/middleware"
	"github.com/deskly/deskly-api/internal/pkg/response"
)

// Handler handles auth HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: validator.New()}
}

// Register creates an account
// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			response.Conflict(w, user.ErrEmailTaken.Error())
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, resp)
}

// Login authenticates a user
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Unauthorized(w, ErrInvalidCredentials.Error())
		case errors.Is(err, ErrAccountDisabled):
			response.Forbidden(w, ErrAccountDisabled.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// Refresh rotates tokens
// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRefresh):
			response.Unauthorized(w, ErrInvalidRefresh.Error())
		case errors.Is(err, ErrAccountDisabled):
			response.Forbidden(w, ErrAccountDisabled.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// Logout revokes the refresh token
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Me returns the requester's profile
// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	u, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, user.ToProfile(u))
}

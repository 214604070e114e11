package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/deskly/deskly-api/internal/middleware"
	"github.com/deskly/deskly-api/internal/pkg/response"
)

// Handler handles booking HTTP requests
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// Create books a space
// POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	b, err := h.service.RequestBooking(r.Context(), userID, &req)
	if err != nil {
		h.writeBookingError(w, err)
		return
	}

	response.Created(w, ToResponse(b))
}

// writeBookingError maps booking errors to HTTP responses
func (h *Handler) writeBookingError(w http.ResponseWriter, err error) {
	var conflict *ConflictError

	switch {
	case errors.Is(err, ErrInvalidInterval):
		response.BadRequest(w, ErrInvalidInterval.Error())
	case errors.Is(err, ErrStartInPast):
		response.BadRequest(w, ErrStartInPast.Error())
	case errors.Is(err, ErrSpaceUnavailable):
		response.BadRequest(w, ErrSpaceUnavailable.Error())
	case errors.As(err, &conflict):
		response.ConflictWithDetails(w, conflict.Error(), map[string]string{
			"conflict_start": conflict.Conflict.Start.Format(time.RFC3339),
			"conflict_end":   conflict.Conflict.End.Format(time.RFC3339),
		})
	case errors.Is(err, ErrSpaceConflict):
		response.Conflict(w, ErrSpaceConflict.Error())
	case errors.Is(err, ErrUserConflict):
		response.Conflict(w, ErrUserConflict.Error())
	default:
		response.InternalError(w)
	}
}

// Cancel cancels a booking
// DELETE /bookings/{id}
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	b, err := h.service.CancelBooking(r.Context(), id, userID, middleware.GetIsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "booking not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "not authorized to cancel this booking")
		case errors.Is(err, ErrAlreadyCancelled):
			response.BadRequest(w, ErrAlreadyCancelled.Error())
		case errors.Is(err, ErrCancelTooLate):
			response.BadRequest(w, ErrCancelTooLate.Error())
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToResponse(b))
}

// Get returns booking details
// GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	b, err := h.service.GetBooking(r.Context(), id, userID, middleware.GetIsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "booking not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "not authorized to view this booking")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToResponse(b))
}

// MyBookings returns the requester's bookings
// GET /bookings/my-bookings
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	status := parseStatus(r.URL.Query().Get("status"))
	limit := parseQueryInt(r, "limit", 50)
	offset := parseQueryInt(r, "offset", 0)

	bookings, total, err := h.service.ListMyBookings(r.Context(), userID, status, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*Response, len(bookings))
	for i, b := range bookings {
		items[i] = ToResponse(b)
	}

	response.WithMeta(w, items, response.Meta{Total: total, Limit: limit, Offset: offset})
}

// ListAll returns all bookings with filters (admin only)
// GET /bookings
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := Filter{
		Status: parseStatus(q.Get("status")),
		Limit:  parseQueryInt(r, "limit", 50),
		Offset: parseQueryInt(r, "offset", 0),
	}

	if raw := q.Get("space_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid space_id")
			return
		}
		filter.SpaceID = &id
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid user_id")
			return
		}
		filter.UserID = &id
	}
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, "invalid start_date")
			return
		}
		filter.From = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, "invalid end_date")
			return
		}
		filter.To = &t
	}

	bookings, total, err := h.service.ListAllBookings(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*Response, len(bookings))
	for i, b := range bookings {
		items[i] = ToResponse(b)
	}

	response.WithMeta(w, items, response.Meta{Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

func parseStatus(raw string) *Status {
	switch Status(raw) {
	case StatusConfirmed, StatusCancelled:
		s := Status(raw)
		return &s
	default:
		return nil
	}
}

func parseQueryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

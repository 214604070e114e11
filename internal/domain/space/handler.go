package space

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/deskly/deskly-api/internal/domain/booking"
	"github.com/deskly/deskly-api/internal/pkg/response"
)

// Handler handles space HTTP requests
type Handler struct {
	repo         Repository
	availability *booking.Availability
	slotHours    int
	validator    *validator.Validate
}

// NewHandler creates space handler
func NewHandler(repo Repository, availability *booking.Availability, defaultSlotHours int) *Handler {
	if defaultSlotHours < 1 {
		defaultSlotHours = 1
	}
	return &Handler{
		repo:         repo,
		availability: availability,
		slotHours:    defaultSlotHours,
		validator:    validator.New(),
	}
}

// List returns spaces filtered by floor, type and capacity. When a time
// window is supplied (date + start_time + end_time) each space carries an
// availability flag for the floor map.
// GET /spaces
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := Filter{ActiveOnly: true}
	if raw := q.Get("floor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid floor_id")
			return
		}
		filter.FloorID = &id
	}
	if raw := q.Get("type_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid type_id")
			return
		}
		filter.SpaceTypeID = &id
	}
	if raw := q.Get("min_capacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "invalid min_capacity")
			return
		}
		filter.MinCapacity = n
	}
	filter.BookableOnly = q.Get("bookable") == "true"

	spaces, err := h.repo.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	window, err := parseWindow(q.Get("date"), q.Get("start_time"), q.Get("end_time"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	items := make([]*WithAvailability, len(spaces))
	for i, s := range spaces {
		items[i] = &WithAvailability{Space: s}
	}

	if window != nil {
		ids := make([]uuid.UUID, len(spaces))
		for i, s := range spaces {
			ids[i] = s.ID
		}
		flags, err := h.availability.Flags(r.Context(), ids, *window)
		if err != nil {
			response.InternalError(w)
			return
		}
		for _, item := range items {
			free := flags[item.ID]
			item.Available = &free
		}
	}

	response.OK(w, items)
}

// parseWindow builds the interval from date (YYYY-MM-DD) and HH:MM bounds.
// All three must be present together; all absent means no flags requested.
func parseWindow(date, startRaw, endRaw string) (*booking.Interval, error) {
	if date == "" && startRaw == "" && endRaw == "" {
		return nil, nil
	}
	if date == "" || startRaw == "" || endRaw == "" {
		return nil, errors.New("date, start_time and end_time must be provided together")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, errors.New("invalid date (want YYYY-MM-DD)")
	}
	start, err := time.Parse("15:04", startRaw)
	if err != nil {
		return nil, errors.New("invalid start_time (want HH:MM)")
	}
	end, err := time.Parse("15:04", endRaw)
	if err != nil {
		return nil, errors.New("invalid end_time (want HH:MM)")
	}

	iv := booking.NewInterval(
		time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC),
		time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, time.UTC),
	)
	if err := iv.Validate(); err != nil {
		return nil, errors.New("start_time must be before end_time")
	}
	return &iv, nil
}

// Get returns space details
// GET /spaces/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid space id")
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "space not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, s)
}

// Availability returns the free slots of a space for a date
// GET /spaces/{id}/availability?date=YYYY-MM-DD&duration=2
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid space id")
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "space not found")
			return
		}
		response.InternalError(w)
		return
	}
	if !s.IsActive || !s.IsBookable {
		response.BadRequest(w, "space is not bookable")
		return
	}

	dateRaw := r.URL.Query().Get("date")
	if dateRaw == "" {
		response.BadRequest(w, "date is required")
		return
	}
	date, err := time.Parse("2006-01-02", dateRaw)
	if err != nil {
		response.BadRequest(w, "invalid date (want YYYY-MM-DD)")
		return
	}

	duration := h.slotHours
	if raw := r.URL.Query().Get("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration < 1 || duration > 12 {
			response.BadRequest(w, "invalid duration (hours, 1-12)")
			return
		}
	}

	slots, err := h.availability.FreeSlots(r.Context(), id, date, duration)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"space_id": id,
		"date":     dateRaw,
		"duration": duration,
		"slots":    booking.ToSlotResponses(slots),
	})
}

// ListTypes returns all space types
// GET /spaces/types
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repo.ListTypes(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, types)
}

// Create creates a space (admin only)
// POST /spaces
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	s := &Space{
		FloorID:     req.FloorID,
		SpaceTypeID: req.SpaceTypeID,
		Name:        req.Name,
		Capacity:    req.Capacity,
		Coordinates: req.Coordinates,
		Features:    req.Features,
		IsBookable:  true,
		IsActive:    true,
	}
	if req.IsBookable != nil {
		s.IsBookable = *req.IsBookable
	}

	if err := h.repo.Create(r.Context(), s); err != nil {
		h.writeSpaceError(w, err)
		return
	}

	response.Created(w, s)
}

// Update updates a space (admin only)
// PUT /spaces/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid space id")
		return
	}

	var req UpdateSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	s, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "space not found")
			return
		}
		response.InternalError(w)
		return
	}

	if req.SpaceTypeID != nil {
		s.SpaceTypeID = *req.SpaceTypeID
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Capacity != nil {
		s.Capacity = *req.Capacity
	}
	if req.Coordinates != nil {
		s.Coordinates = req.Coordinates
	}
	if req.Features != nil {
		s.Features = req.Features
	}
	if req.IsBookable != nil {
		s.IsBookable = *req.IsBookable
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), s); err != nil {
		h.writeSpaceError(w, err)
		return
	}

	response.OK(w, s)
}

// CreateType creates a space type (admin only)
// POST /spaces/types
func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req CreateTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	t := &SpaceType{Name: req.Name}
	if req.Description != "" {
		t.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := h.repo.CreateType(r.Context(), t); err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, t)
}

func (h *Handler) writeSpaceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNameTaken):
		response.Conflict(w, ErrNameTaken.Error())
	case errors.Is(err, ErrTypeNotFound):
		response.BadRequest(w, "unknown space type or floor")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "space not found")
	default:
		response.InternalError(w)
	}
}

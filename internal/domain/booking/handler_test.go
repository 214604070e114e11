package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/deskly/deskly-api/internal/middleware"
)

func authed(r *http.Request, userID uuid.UUID, isAdmin bool) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.IsAdminKey, isAdmin)
	return r.WithContext(ctx)
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T) (http.Handler, *SpaceInfo) {
	t.Helper()

	space := &SpaceInfo{ID: uuid.New(), FloorID: uuid.New(), Active: true, Bookable: true}
	svc := NewService(newMemLedger(), newStubDirectory(space), CancellationPolicy{}, fixedClock{now: at(8, 0)}, nil)
	return NewHandler(svc).Routes(passthrough, passthrough), space
}

func postBooking(t *testing.T, router http.Handler, userID uuid.UUID, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(req, userID, false))
	return rec
}

func TestHandlerCreate(t *testing.T) {
	router, space := newTestRouter(t)
	userID := uuid.New()

	rec := postBooking(t, router, userID, map[string]interface{}{
		"space_id":   space.ID,
		"start_time": at(10, 0),
		"end_time":   at(12, 0),
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool     `json:"success"`
		Data    Response `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Success {
		t.Error("success = false")
	}
	if envelope.Data.Status != string(StatusConfirmed) {
		t.Errorf("status = %q, want confirmed", envelope.Data.Status)
	}
}

func TestHandlerCreateErrorCodes(t *testing.T) {
	router, space := newTestRouter(t)

	// occupy the slot
	rec := postBooking(t, router, uuid.New(), map[string]interface{}{
		"space_id":   space.ID,
		"start_time": at(10, 0),
		"end_time":   at(12, 0),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed booking status = %d", rec.Code)
	}

	tests := []struct {
		name     string
		body     map[string]interface{}
		wantCode int
	}{
		{
			name: "conflict",
			body: map[string]interface{}{
				"space_id": space.ID, "start_time": at(11, 0), "end_time": at(13, 0),
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "inverted interval",
			body: map[string]interface{}{
				"space_id": space.ID, "start_time": at(15, 0), "end_time": at(14, 0),
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "past start",
			body: map[string]interface{}{
				"space_id": space.ID, "start_time": at(7, 0), "end_time": at(9, 0),
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown space",
			body: map[string]interface{}{
				"space_id": uuid.New(), "start_time": at(14, 0), "end_time": at(15, 0),
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postBooking(t, router, uuid.New(), tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestHandlerConflictDetails(t *testing.T) {
	router, space := newTestRouter(t)

	postBooking(t, router, uuid.New(), map[string]interface{}{
		"space_id": space.ID, "start_time": at(10, 0), "end_time": at(12, 0),
	})
	rec := postBooking(t, router, uuid.New(), map[string]interface{}{
		"space_id": space.ID, "start_time": at(11, 0), "end_time": at(13, 0),
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Details["conflict_start"] == "" || envelope.Error.Details["conflict_end"] == "" {
		t.Errorf("conflict details missing: %+v", envelope.Error.Details)
	}
}

func TestHandlerCancel(t *testing.T) {
	router, space := newTestRouter(t)
	userID := uuid.New()

	rec := postBooking(t, router, userID, map[string]interface{}{
		"space_id": space.ID, "start_time": at(10, 0), "end_time": at(12, 0),
	})
	var created struct {
		Data Response `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	t.Run("stranger forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/%s", created.Data.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(req, uuid.New(), false))
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("owner cancels", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/%s", created.Data.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(req, userID, false))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("second cancel rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/%s", created.Data.ID), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authed(req, userID, false))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerMyBookings(t *testing.T) {
	router, space := newTestRouter(t)
	userID := uuid.New()

	postBooking(t, router, userID, map[string]interface{}{
		"space_id": space.ID, "start_time": at(10, 0), "end_time": at(12, 0),
	})
	postBooking(t, router, uuid.New(), map[string]interface{}{
		"space_id": space.ID, "start_time": at(13, 0), "end_time": at(14, 0),
	})

	req := httptest.NewRequest(http.MethodGet, "/my-bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(req, userID, false))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope struct {
		Data []Response `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Meta.Total != 1 || len(envelope.Data) != 1 {
		t.Errorf("total = %d, items = %d, want 1 and 1", envelope.Meta.Total, len(envelope.Data))
	}
}

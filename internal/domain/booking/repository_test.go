package booking

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

func TestMapInsertError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantRaw bool // error passed through unchanged
	}{
		{
			name: "space exclusion violation",
			err:  &pq.Error{Code: "23P01", Constraint: "bookings_space_no_overlap"},
			want: ErrSpaceConflict,
		},
		{
			name: "user exclusion violation",
			err:  &pq.Error{Code: "23P01", Constraint: "bookings_user_no_overlap"},
			want: ErrUserConflict,
		},
		{
			name: "interval check violation",
			err:  &pq.Error{Code: "23514", Constraint: "valid_interval"},
			want: ErrInvalidInterval,
		},
		{
			name: "space foreign key violation",
			err:  &pq.Error{Code: "23503", Constraint: "bookings_space_id_fkey"},
			want: ErrSpaceUnavailable,
		},
		{
			name:    "user foreign key violation passes through",
			err:     &pq.Error{Code: "23503", Constraint: "bookings_user_id_fkey"},
			wantRaw: true,
		},
		{
			name:    "unrelated pg error passes through",
			err:     &pq.Error{Code: "42P01"},
			wantRaw: true,
		},
		{
			name:    "non-pg error passes through",
			err:     errors.New("connection reset"),
			wantRaw: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapInsertError(tt.err)

			if tt.wantRaw {
				if !errors.Is(got, tt.err) {
					t.Errorf("mapInsertError() = %v, want original error", got)
				}
				return
			}

			if !errors.Is(got, tt.want) {
				t.Errorf("mapInsertError() = %v, want %v", got, tt.want)
			}
			// original cause stays reachable for logging
			var pqErr *pq.Error
			if !errors.As(got, &pqErr) {
				t.Error("underlying pq.Error should remain wrapped")
			}
		})
	}
}

package booking

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC)
}

func TestIntervalValidate(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid", at(9, 0), at(10, 0), false},
		{"zero length", at(9, 0), at(9, 0), true},
		{"inverted", at(10, 0), at(9, 0), true},
		{"one minute", at(9, 0), at(9, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInterval(tt.start, tt.end).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := NewInterval(at(10, 0), at(12, 0))

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", NewInterval(at(10, 0), at(12, 0)), true},
		{"contained", NewInterval(at(10, 30), at(11, 30)), true},
		{"containing", NewInterval(at(9, 0), at(13, 0)), true},
		{"overlap left edge", NewInterval(at(9, 0), at(10, 1)), true},
		{"overlap right edge", NewInterval(at(11, 59), at(13, 0)), true},
		{"touching before", NewInterval(at(8, 0), at(10, 0)), false},
		{"touching after", NewInterval(at(12, 0), at(14, 0)), false},
		{"disjoint before", NewInterval(at(7, 0), at(8, 0)), false},
		{"disjoint after", NewInterval(at(13, 0), at(14, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// symmetric
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalContains(t *testing.T) {
	iv := NewInterval(at(10, 0), at(12, 0))

	if !iv.Contains(at(10, 0)) {
		t.Error("start instant should be contained")
	}
	if iv.Contains(at(12, 0)) {
		t.Error("end instant should not be contained")
	}
	if !iv.Contains(at(11, 0)) {
		t.Error("midpoint should be contained")
	}
	if iv.Contains(at(9, 59)) {
		t.Error("instant before start should not be contained")
	}
}

func TestIntervalDuration(t *testing.T) {
	if d := NewInterval(at(10, 0), at(12, 30)).Duration(); d != 2*time.Hour+30*time.Minute {
		t.Errorf("Duration() = %v, want 2h30m", d)
	}
}

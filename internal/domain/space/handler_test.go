package space

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		start   string
		end     string
		wantNil bool
		wantErr bool
	}{
		{"all absent", "", "", "", true, false},
		{"valid", "2025-06-02", "09:00", "11:30", false, false},
		{"missing end", "2025-06-02", "09:00", "", false, true},
		{"missing date", "", "09:00", "11:00", false, true},
		{"bad date", "02.06.2025", "09:00", "11:00", false, true},
		{"bad time", "2025-06-02", "9am", "11:00", false, true},
		{"inverted", "2025-06-02", "11:00", "09:00", false, true},
		{"zero width", "2025-06-02", "09:00", "09:00", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := parseWindow(tt.date, tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWindow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (iv == nil) != tt.wantNil {
				t.Fatalf("parseWindow() = %v, wantNil %v", iv, tt.wantNil)
			}
			if iv != nil {
				want := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
				if !iv.Start.Equal(want) {
					t.Errorf("Start = %v, want %v", iv.Start, want)
				}
				if iv.Duration() != 2*time.Hour+30*time.Minute {
					t.Errorf("Duration = %v, want 2h30m", iv.Duration())
				}
			}
		})
	}
}

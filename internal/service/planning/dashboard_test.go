package planning

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	sast := time.FixedZone("SAST", 2*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "late evening stays on the local date",
			in:   time.Date(2026, 8, 31, 23, 30, 0, 0, sast),
			want: time.Date(2026, 8, 31, 0, 0, 0, 0, sast),
		},
		{
			name: "early morning ahead of UTC",
			// 01:30 SAST is still the previous day in UTC; the local
			// date must win
			in:   time.Date(2026, 9, 1, 1, 30, 0, 0, sast),
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, sast),
		},
		{
			name: "utc input",
			in:   time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := startOfDay(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("startOfDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != tt.in.Location() {
				t.Errorf("location = %v, want %v", got.Location(), tt.in.Location())
			}
		})
	}
}

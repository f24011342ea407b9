package sysmon

import (
	"strings"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestStats_LoadWarning(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cpu      float64
		wantHigh bool
	}{
		{"idle", 3, false},
		{"just below", HighLoadPercent - 0.1, false},
		{"at threshold", HighLoadPercent, true},
		{"busy", 97, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Stats{CPUPercent: tt.cpu}
			if got := s.HighLoad(); got != tt.wantHigh {
				t.Errorf("HighLoad() = %v, want %v", got, tt.wantHigh)
			}
			w := s.LoadWarning()
			if tt.wantHigh && !strings.Contains(w, "noisy") {
				t.Errorf("LoadWarning() = %q, want a warning", w)
			}
			if !tt.wantHigh && w != "" {
				t.Errorf("LoadWarning() = %q, want empty", w)
			}
		})
	}
}

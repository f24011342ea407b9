package ui

import (
	"testing"

	"github.com/agbru/bigocalc/internal/complexity"
)

// Theme tests mutate package state and therefore do not run in parallel.

func TestInitTheme_NoColorFlag(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if got := GetCurrentTheme(); got.Name != "none" {
		t.Errorf("theme = %q, want none", got.Name)
	}
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("TUI theme should follow the no-color flag")
	}
}

func TestInitTheme_Env(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Setenv("BIGOCALC_THEME", "light")
	InitTheme(false)
	if got := GetCurrentTheme(); got.Name != "light" {
		t.Errorf("theme = %q, want light", got.Name)
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if got := GetCurrentTheme(); got.Name != "none" {
		t.Errorf("theme = %q, want none with NO_COLOR", got.Name)
	}
	if GetCurrentTUITheme() != NoColorTUITheme {
		t.Error("TUI theme should follow NO_COLOR")
	}
}

func TestSetTheme_UnknownFallsBackToDark(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetTheme("neon")
	if got := GetCurrentTheme(); got.Name != "dark" {
		t.Errorf("theme = %q, want dark", got.Name)
	}
}

func TestThemePaint(t *testing.T) {
	if got := NoColorTheme.Paint(NoColorTheme.Accent, "x"); got != "x" {
		t.Errorf("no-color paint = %q", got)
	}
	if got := DarkTheme.Paint(DarkTheme.Bold, "x"); got != "\033[1mx\033[0m" {
		t.Errorf("dark paint = %q", got)
	}
}

func TestThemeClass(t *testing.T) {
	if got := DarkTheme.Class(complexity.LabelConstant); got != DarkTheme.Classes[0] {
		t.Errorf("constant color = %q", got)
	}
	if got := DarkTheme.Class(complexity.LabelQuadratic); got != DarkTheme.Classes[4] {
		t.Errorf("quadratic color = %q", got)
	}
	if got := DarkTheme.Class(complexity.LabelUndetermined); got != DarkTheme.Muted {
		t.Errorf("undetermined color = %q", got)
	}
}

func TestThemeConfidence(t *testing.T) {
	tests := []struct {
		confidence int
		want       string
	}{
		{95, DarkTheme.Good},
		{76, DarkTheme.Good},
		{75, DarkTheme.Warn},
		{56, DarkTheme.Warn},
		{55, DarkTheme.Bad},
		{0, DarkTheme.Bad},
	}
	for _, tt := range tests {
		if got := DarkTheme.Confidence(tt.confidence, 75); got != tt.want {
			t.Errorf("Confidence(%d) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

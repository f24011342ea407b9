package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap(t *testing.T) {
	t.Parallel()
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"q quits", runeKey('q'), km.Quit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
		{"space pauses", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, km.Pause},
		{"p pauses", runeKey('p'), km.Pause},
		{"r reruns", runeKey('r'), km.Rerun},
		{"v reveals", runeKey('v'), km.Reveal},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, km.Up},
		{"j moves down", runeKey('j'), km.Down},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !key.Matches(tt.msg, tt.binding) {
				t.Errorf("%q does not match %v", tt.msg.String(), tt.binding.Keys())
			}
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	t.Parallel()
	help := DefaultKeyMap().ShortHelp()
	if len(help) != 6 {
		t.Fatalf("ShortHelp() has %d bindings, want 6", len(help))
	}
	if help[len(help)-1].Help().Desc != "quit" {
		t.Error("quit should be the last binding")
	}
}

func TestFooterModel_View(t *testing.T) {
	t.Parallel()
	f := NewFooterModel(DefaultKeyMap())
	f.SetWidth(100)
	if f.Status() != "RUNNING" {
		t.Errorf("Status() = %q", f.Status())
	}
	f.SetPaused(true)
	if f.Status() != "PAUSED" {
		t.Errorf("Status() = %q", f.Status())
	}
	f.SetDone(true)
	if f.Status() != "DONE" {
		t.Errorf("Status() = %q", f.Status())
	}
	f.SetError(true)
	if f.Status() != "ERROR" {
		t.Errorf("Status() = %q", f.Status())
	}
}

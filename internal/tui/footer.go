package tui

import "strings"

// FooterModel renders the key help and the run status.
type FooterModel struct {
	keymap   KeyMap
	paused   bool
	done     bool
	hasError bool
	width    int
}

// NewFooterModel creates a new footer.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{keymap: km}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused sets the paused state.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone sets the completion state.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError sets the error state.
func (f *FooterModel) SetError(e bool) { f.hasError = e }

// Status returns the plain status word.
func (f FooterModel) Status() string {
	switch {
	case f.hasError:
		return "ERROR"
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch f.Status() {
	case "ERROR":
		status = statusErrorStyle.Render(" ERROR ")
	case "DONE":
		status = statusDoneStyle.Render(" DONE ")
	case "PAUSED":
		status = statusPausedStyle.Render(" PAUSED ")
	default:
		status = statusRunningStyle.Render(" RUNNING ")
	}

	var keys []string
	for _, b := range f.keymap.ShortHelp() {
		h := b.Help()
		keys = append(keys, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return padRight(status+"  "+strings.Join(keys, "  "), f.width)
}

// Package ui holds the color themes shared by the CLI presenter and the TUI
// dashboard. It maps complexity classes and confidence levels to colors so
// every front end renders a classification the same way.
package ui

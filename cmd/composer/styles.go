// Terminal feedback styling for the composer CLI.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"composer/internal/cerrors"
)

// Semantic colors, shared by success and failure output.
var (
	successColor = lipgloss.Color("#8BC34A")
	errorColor   = lipgloss.Color("#e53935")
	hintColor    = lipgloss.Color("#2196F3")
	mutedColor   = lipgloss.Color("#9e9e9e")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(hintColor)
	pathStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)

// renderSuccess prints the written artifact paths.
func renderSuccess(w io.Writer, profile string, paths []string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+profile+" generated"))
	for _, p := range paths {
		fmt.Fprintln(w, pathStyle.Render("  "+p))
	}
}

// renderError prints the failure and its remediation hints.
func renderError(w io.Writer, err error) {
	var ce *cerrors.Error
	if !errors.As(err, &ce) {
		fmt.Fprintln(w, errorStyle.Render("✗ "+err.Error()))
		return
	}

	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("✗ %s error: %s", ce.Category, ce.Message)))
	if ce.Err != nil {
		fmt.Fprintln(w, pathStyle.Render("  cause: "+ce.Err.Error()))
	}
	for _, s := range ce.Suggestions {
		fmt.Fprintln(w, hintStyle.Render("  → "+s))
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mailspectre/internal/models"
)

var (
	validStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	invalidStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	emailStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// renderResult renders one validation result as a styled terminal block.
func renderResult(result models.ValidationResult) string {
	var b strings.Builder

	verdict := validStyle.Render("VALID")
	if !result.Valid {
		verdict = invalidStyle.Render("INVALID")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		emailStyle.Render(result.Email),
		verdict,
		dimStyle.Render(fmt.Sprintf("score %.2f", result.Score)),
	))
	b.WriteString(dimStyle.Render("  "+result.Summary) + "\n")

	for _, check := range result.Checks {
		mark := passStyle.Render("✓")
		if !check.Valid {
			mark = failStyle.Render("✗")
		}
		line := fmt.Sprintf("  %s %-20s %s", mark, check.Check, check.Message)
		if check.Suggestion != "" {
			line += dimStyle.Render("  → " + check.Suggestion)
		}
		if check.EmailType != "" {
			line += dimStyle.Render(fmt.Sprintf("  (%s, %d%%)", check.EmailType, check.Confidence))
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/paper-engine/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(14)

	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("#5B8DEF")).
				Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B"))

	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	generatingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	completeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

// View renders the current state to a string.
func (a *App) View() string {
	header := titleStyle.Render("PAPER ENGINE")

	var body string
	switch a.state {
	case stateForm:
		body = a.renderForm()
	case stateRunning:
		body = a.renderRun("Generating sections, press esc to cancel")
	case stateDone:
		body = a.renderDone()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (a *App) renderForm() string {
	rows := []string{
		a.renderInputRow("Topic", focusTopic),
		a.renderInputRow("Methodology", focusMethodology),
		a.renderInputRow("Key results", focusKeyResults),
		a.renderInputRow("API key", focusAPIKey),
		a.renderProviderRow(),
		a.renderToggleRow("Markdown", focusMarkdown, a.saveMarkdown),
		a.renderToggleRow("HTML", focusHTML, a.saveHTML),
	}

	form := boxStyle.Render(strings.Join(rows, "\n"))
	hint := hintStyle.Render("tab → next field    space → toggle    enter → generate    esc → quit")

	sections := []string{form, hint}
	if a.errMsg != "" {
		sections = append(sections, errorStyle.Render("✗ "+a.errMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderInputRow(label string, focus int) string {
	style := labelStyle
	if a.focus == focus {
		style = focusedLabelStyle
	}
	return style.Render(label) + a.inputs[focus].View()
}

func (a *App) renderProviderRow() string {
	style := labelStyle
	if a.focus == focusProvider {
		style = focusedLabelStyle
	}
	var parts []string
	for i, p := range providerOrder {
		name := string(p)
		if i == a.providerIndex {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}
	return style.Render("Provider") + strings.Join(parts, "  ")
}

func (a *App) renderToggleRow(label string, focus int, on bool) string {
	style := labelStyle
	if a.focus == focus {
		style = focusedLabelStyle
	}
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	return style.Render(label) + mark
}

func (a *App) renderRun(hint string) string {
	var rows []string
	done := 0
	for _, name := range types.SectionOrder {
		status := a.statuses[name]
		if status == types.StatusComplete {
			done++
		}
		rows = append(rows, renderSectionRow(name, status))
	}
	counter := fmt.Sprintf("%d/%d sections complete", done, len(types.SectionOrder))

	box := boxStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, box, counter, hintStyle.Render(hint))
}

func renderSectionRow(name types.SectionName, status types.SectionStatus) string {
	var glyph, text string
	var style lipgloss.Style
	switch status {
	case types.StatusGenerating:
		glyph, text, style = "▸", "generating", generatingStyle
	case types.StatusComplete:
		glyph, text, style = "✓", "complete", completeStyle
	case types.StatusFailed:
		glyph, text, style = "✗", "failed", failedStyle
	default:
		glyph, text, style = "·", "pending", pendingStyle
	}
	return style.Render(fmt.Sprintf("%s %-12s %s", glyph, name, text))
}

func (a *App) renderDone() string {
	lines := []string{completeStyle.Render("Paper generated.")}
	if a.doc != nil {
		lines = append(lines, fmt.Sprintf("Topic: %s", a.doc.Topic))
		lines = append(lines, fmt.Sprintf("Run:   %s", a.doc.RunID))
	}
	for _, path := range a.paths {
		lines = append(lines, "  "+path)
	}
	if a.warning != "" {
		lines = append(lines, warnStyle.Render("⚠ "+a.warning))
	}

	box := boxStyle.Render(strings.Join(lines, "\n"))
	hint := hintStyle.Render("n → new paper    q → quit")
	return lipgloss.JoinVertical(lipgloss.Left, box, hint)
}

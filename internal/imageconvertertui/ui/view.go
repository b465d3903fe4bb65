package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(2)

	detailsStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("170"))

	statusPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusRunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusFailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)

	// Config Styles
	configTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				MarginBottom(1)

	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#888B7E")).
			Padding(0, 3).
			MarginTop(1)

	activeButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(lipgloss.Color("#F25D94")).
				MarginRight(2)
)

func (m Model) View() string {
	if m.State == StateConfig {
		return m.viewConfig()
	}
	return m.viewBrowsing()
}

func (m Model) viewConfig() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Image Converter Setup") + "\n\n")
	b.WriteString(configTitleStyle.Render("Configuration") + "\n\n")

	for i := range m.Inputs {
		b.WriteString(m.Inputs[i].View() + "\n\n")
	}

	recCheck := "[ ]"
	if m.Config.RecursiveMode {
		recCheck = "[x]"
	}
	recStyle := blurredStyle
	if m.FocusIndex == toggleRecursive {
		recStyle = focusedStyle
	}
	b.WriteString(recStyle.Render(fmt.Sprintf("%s Include Subfolders", recCheck)) + "\n\n")

	formatStyle := blurredStyle
	if m.FocusIndex == toggleFormat {
		formatStyle = focusedStyle
	}
	b.WriteString(formatStyle.Render(fmt.Sprintf("Format: < %s >", m.Config.Format)) + "\n\n")

	btn := buttonStyle.Render("Scan Images")
	if m.FocusIndex == btnSubmit {
		btn = activeButtonStyle.Render("Scan Images")
	}
	b.WriteString("\n" + btn + "\n")

	b.WriteString(footerStyle.Render("\nTab/Shift+Tab to navigate • Enter/Space to toggle/submit • Ctrl+C to quit"))

	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func (m Model) viewBrowsing() string {
	title := titleStyle.Render("Image Converter") + "\n\n"

	if len(m.Images) == 0 {
		body := "Scanning or no images found...\nPress 'r' to rescan or 'esc' to configure."
		return title + body + "\n\n" + m.viewStatus()
	}

	var listBuilder strings.Builder
	for i, img := range m.Images {
		cursor := " "
		style := itemStyle

		if m.Cursor == i {
			cursor = ">"
			style = selectedItemStyle
		}

		check := "[ ]"
		if img.Selected {
			check = "[x]"
		}

		row := fmt.Sprintf("%s %s %s [%s]", cursor, check, img.Name, renderStatus(img.Status))
		listBuilder.WriteString(style.Render(row) + "\n")
	}
	listView := listStyle.Render(listBuilder.String())

	var detailsBuilder strings.Builder
	if m.Cursor >= 0 && m.Cursor < len(m.Images) {
		current := m.Images[m.Cursor]
		detailsBuilder.WriteString(fmt.Sprintf("Name: %s\n", current.Name))
		detailsBuilder.WriteString(fmt.Sprintf("Path: %s\n", current.Path))
		detailsBuilder.WriteString(fmt.Sprintf("Type: %s\n", current.Kind))
		detailsBuilder.WriteString(fmt.Sprintf("Status: %s\n", current.Status))

		if current.OutputPath != "" {
			detailsBuilder.WriteString("\nOutput:\n")
			detailsBuilder.WriteString(filepath.Base(current.OutputPath))
		}
		if current.ErrorLog != "" {
			detailsBuilder.WriteString("\nError:\n")
			detailsBuilder.WriteString(current.ErrorLog)
		}
	}
	detailsView := detailsStyle.Render(detailsBuilder.String())

	s := m.summary()
	summary := fmt.Sprintf("Total: %d | Selected: %d | Success: %d | Failed: %d | Pending: %d",
		s.Total, s.Selected, s.Success, s.Failed, s.Pending)
	target := fmt.Sprintf("Output: %s | Format: %s | Height: %s",
		orDash(m.Config.OutDir), m.Config.Format, orDash(m.Config.HeightText))

	convertHelp := "c: Convert"
	if m.Converting {
		convertHelp = "Converting..."
	}
	help := "\nKeys: ↑/↓: Navigate • Space: Select • " + convertHelp + " • r: Rescan • Esc: Config • q: Quit"
	footerView := footerStyle.Render(summary + "\n" + target + "\n\n" + m.viewStatus() + help)

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, listView, detailsView)

	return lipgloss.JoinVertical(lipgloss.Left, title, mainView, footerView)
}

// viewStatus renders the progress bar and the latest batch messages.
func (m Model) viewStatus() string {
	var status strings.Builder
	status.WriteString(m.bar.ViewAs(m.Progress.Ratio()) + "\n")
	status.WriteString(m.StatusText + "\n")
	if m.Notice != "" {
		status.WriteString(noticeStyle.Render(m.Notice) + "\n")
	}
	if m.Warning != "" {
		status.WriteString(warningStyle.Render(m.Warning) + "\n")
	}
	if m.Err != nil {
		status.WriteString(errorStyle.Render("Error: "+m.Err.Error()) + "\n")
	}
	return status.String()
}

func renderStatus(s domain.ConversionStatus) string {
	status := string(s)
	switch s {
	case domain.StatusRunning:
		return statusRunningStyle.Render(status)
	case domain.StatusSuccess:
		return statusSuccessStyle.Render(status)
	case domain.StatusFailed:
		return statusFailStyle.Render(status)
	default:
		return statusPendingStyle.Render(status)
	}
}

func (m Model) summary() domain.Summary {
	s := domain.Summary{Total: len(m.Images), Success: m.SuccessCount, Failed: m.FailCount}
	for _, img := range m.Images {
		if img.Selected {
			s.Selected++
		}
	}
	s.Pending = s.Total - s.Success - s.Failed
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

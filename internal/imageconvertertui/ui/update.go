package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/discovery"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Focus indices
const (
	inputSource = iota
	inputOutput
	inputHeight
	toggleRecursive
	toggleFormat
	btnSubmit
	fieldCount // 6
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 8; w > 10 && w < 60 {
			m.bar.Width = w
		}

	// Batch events keep flowing whichever screen is shown
	case batchStartedMsg:
		m.task = msg.task
		return m, waitForBatchEvent(m.task)
	case domain.BatchProgressMsg:
		return m.handleProgress(msg)
	case domain.BatchDoneMsg:
		return m.handleDone(msg), nil
	}

	if m.State == StateConfig {
		return m.updateConfig(msg)
	}

	return m.updateBrowsing(msg)
}

func (m Model) updateConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd = make([]tea.Cmd, len(m.Inputs))

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "enter", " ", "up", "down":
			s := msg.String()

			// Space is text while a text input has focus
			if s == " " && m.FocusIndex < len(m.Inputs) {
				break
			}

			// Handle Submit on Enter if on Button
			if s == "enter" && m.FocusIndex == btnSubmit {
				return m.applyConfig()
			}

			// Handle Toggle Switching on Enter/Space
			if (s == "enter" || s == " ") && m.FocusIndex == toggleRecursive {
				m.Config.RecursiveMode = !m.Config.RecursiveMode
				return m, nil
			}
			if (s == "enter" || s == " ") && m.FocusIndex == toggleFormat {
				m.Config.Format = m.Config.Format.Next()
				return m, nil
			}

			// Navigation
			if s == "up" || s == "shift+tab" {
				m.FocusIndex--
			} else {
				m.FocusIndex++
			}

			// Cycle
			if m.FocusIndex > fieldCount-1 {
				m.FocusIndex = 0
			} else if m.FocusIndex < 0 {
				m.FocusIndex = fieldCount - 1
			}

			// Update Text Input Focus
			for i := range m.Inputs {
				if i == m.FocusIndex {
					cmds[i] = m.Inputs[i].Focus()
					m.Inputs[i].TextStyle = selectedItemStyle
				} else {
					m.Inputs[i].Blur()
					m.Inputs[i].TextStyle = lipgloss.NewStyle() // Reset
				}
			}
			return m, tea.Batch(cmds...)
		}
	}

	// Update inputs only if they are focused
	for i := range m.Inputs {
		m.Inputs[i], cmds[i] = m.Inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds...)
}

// applyConfig copies the setup fields into the config and starts a scan.
func (m Model) applyConfig() (tea.Model, tea.Cmd) {
	m.Config.Sources = discovery.SplitSources(m.Inputs[inputSource].Value())
	m.Config.OutDir = m.Inputs[inputOutput].Value()
	m.Config.HeightText = m.Inputs[inputHeight].Value()

	// Create Output Dir if set
	if m.Config.OutDir != "" {
		if err := os.MkdirAll(m.Config.OutDir, 0755); err != nil {
			m.logger.Warn("Could not create output directory", err)
		}
	}

	m.Warning = ""
	m.Notice = ""
	m.Err = nil

	// Transition
	m.State = StateBrowsing
	if m.Converting {
		// keep the running batch's list on screen
		return m, nil
	}
	return m, discoverImagesCmd(m.Config.Sources, m.Config.RecursiveMode)
}

func (m Model) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Images)-1 {
				m.Cursor++
			}
		case " ", "x":
			if len(m.Images) > 0 && !m.Converting {
				m.Images[m.Cursor].Selected = !m.Images[m.Cursor].Selected
			}
		case "c":
			return m.startConversion()
		case "r":
			if m.Converting {
				break
			}
			m.Images = []domain.ImageFile{}
			m.Cursor = 0
			m.SuccessCount = 0
			m.FailCount = 0
			// Rescan with the config as last applied in setup
			cmd = discoverImagesCmd(m.Config.Sources, m.Config.RecursiveMode)
		case "esc":
			m.State = StateConfig
			return m, nil
		}

	case domain.ImagesDiscoveredMsg:
		m.Images = msg.Images
		m.Cursor = 0
		m.SuccessCount = 0
		m.FailCount = 0
		m.Progress = domain.ProgressState{}
		m.Err = msg.Err
		if msg.Err != nil {
			m.logger.Error("Discovery failed", msg.Err)
			m.StatusText = "No files selected"
		} else {
			m.logger.Debug("Images discovered", len(msg.Images))
			m.StatusText = statusForSelection(len(msg.Images))
		}
	}

	return m, cmd
}

// startConversion validates the selection and launches the batch. The
// Converting flag only guards the key binding.
func (m Model) startConversion() (tea.Model, tea.Cmd) {
	if m.Converting {
		return m, nil
	}

	req := m.buildRequest()
	switch err := req.Validate(); {
	case errors.Is(err, domain.ErrNoSelection):
		m.Warning = "No images selected"
		return m, nil
	case errors.Is(err, domain.ErrNoDestination):
		m.logger.Debug("Conversion aborted: no output folder", nil)
		return m, nil
	}

	m.Converting = true
	m.Warning = ""
	m.Notice = ""
	m.Err = nil
	m.Progress = domain.ProgressState{Total: len(req.InputPaths)}
	m.StatusText = m.Progress.Status()
	for i := range m.Images {
		if m.Images[i].Selected {
			m.Images[i].Status = domain.StatusPending
			m.Images[i].OutputPath = ""
			m.Images[i].ErrorLog = ""
		}
	}
	m.markNextRunning()

	return m, startBatchCmd(req, m.logger)
}

func (m Model) handleProgress(msg domain.BatchProgressMsg) (tea.Model, tea.Cmd) {
	m.Progress = msg.Progress
	m.StatusText = msg.Progress.Status()
	for i := range m.Images {
		if m.Images[i].Path == msg.InputPath && m.Images[i].Status == domain.StatusRunning {
			m.Images[i].Status = domain.StatusSuccess
			m.Images[i].OutputPath = msg.OutputPath
			m.SuccessCount++
			break
		}
	}
	m.markNextRunning()

	if m.task == nil {
		return m, nil
	}
	return m, waitForBatchEvent(m.task)
}

func (m Model) handleDone(msg domain.BatchDoneMsg) Model {
	outcome := msg.Outcome
	m.Converting = false
	m.task = nil
	m.StatusText = "Process completed"

	if outcome.Succeeded() {
		m.logger.Info("Batch finished", outcome.Written)
		m.Notice = outcome.Message()
		// Clear the selection so a second 'c' needs a new pick
		for i := range m.Images {
			m.Images[i].Selected = false
		}
		return m
	}

	m.Err = outcome.Err
	var perr *domain.ProcessingError
	failedPath := ""
	if errors.As(outcome.Err, &perr) {
		failedPath = perr.Path
	}
	for i := range m.Images {
		if m.Images[i].Status != domain.StatusRunning {
			continue
		}
		if m.Images[i].Path == failedPath || failedPath == "" {
			m.Images[i].Status = domain.StatusFailed
			m.Images[i].ErrorLog = outcome.Err.Error()
			m.FailCount++
		} else {
			m.Images[i].Status = domain.StatusPending
		}
	}
	return m
}

// markNextRunning flags the first selected image still waiting.
func (m *Model) markNextRunning() {
	for i := range m.Images {
		if m.Images[i].Selected && m.Images[i].Status == domain.StatusPending {
			m.Images[i].Status = domain.StatusRunning
			return
		}
	}
}

func statusForSelection(n int) string {
	if n == 0 {
		return "No files selected"
	}
	if n == 1 {
		return "1 file selected"
	}
	return fmt.Sprintf("%d files selected", n)
}

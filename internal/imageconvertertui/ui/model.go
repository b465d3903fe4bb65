package ui

import (
	"strings"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/config"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/conversion"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/discovery"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/logging"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/worker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type SessionState int

const (
	StateConfig SessionState = iota
	StateBrowsing
)

type Model struct {
	Config *config.AppConfig
	State  SessionState

	// Config View State
	Inputs     []textinput.Model
	FocusIndex int
	// 0: Source (Text), 1: Output (Text), 2: Height (Text), 3: Recursive (Bool), 4: Format (Enum), 5: Submit (Btn)

	// Browsing View State
	Images       []domain.ImageFile
	Cursor       int
	SuccessCount int
	FailCount    int
	Converting   bool
	Progress     domain.ProgressState
	StatusText   string
	Notice       string
	Warning      string
	Err          error

	// Internal state
	bar    progress.Model
	task   *worker.Task[tea.Msg]
	width  int
	height int
	logger *logging.Logger
}

// batchStartedMsg hands the running task back to the update loop.
type batchStartedMsg struct {
	task *worker.Task[tea.Msg]
}

func NewModel(cfg *config.AppConfig, logger *logging.Logger) Model {
	m := Model{
		Config:     cfg,
		Images:     []domain.ImageFile{},
		logger:     logger,
		State:      StateConfig,
		StatusText: "No files selected",
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}

	// Initialize Inputs
	m.Inputs = make([]textinput.Model, 3)

	// Source Input
	m.Inputs[inputSource] = textinput.New()
	m.Inputs[inputSource].Placeholder = "photo.png, ~/Pictures/album"
	m.Inputs[inputSource].SetValue(strings.Join(cfg.Sources, ", "))
	m.Inputs[inputSource].Focus()
	m.Inputs[inputSource].Width = 40
	m.Inputs[inputSource].Prompt = "Images: "

	// Output Path Input
	m.Inputs[inputOutput] = textinput.New()
	m.Inputs[inputOutput].Placeholder = "Destination folder"
	m.Inputs[inputOutput].SetValue(cfg.OutDir)
	m.Inputs[inputOutput].Width = 40
	m.Inputs[inputOutput].Prompt = "Output Dir: "

	// Height Input
	m.Inputs[inputHeight] = textinput.New()
	m.Inputs[inputHeight].Placeholder = "Vertical resolution (e.g. 720)"
	m.Inputs[inputHeight].SetValue(cfg.HeightText)
	m.Inputs[inputHeight].Width = 40
	m.Inputs[inputHeight].Prompt = "Height: "

	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// buildRequest snapshots the current selection into a fresh request.
func (m Model) buildRequest() domain.ConversionRequest {
	req := domain.ConversionRequest{
		OutputFolder: m.Config.OutDir,
		Format:       m.Config.Format,
		HeightText:   m.Config.HeightText,
	}
	for _, img := range m.Images {
		if img.Selected {
			req.InputPaths = append(req.InputPaths, img.Path)
		}
	}
	return req
}

func discoverImagesCmd(sources []string, recursive bool) tea.Cmd {
	return func() tea.Msg {
		images, err := discovery.DiscoverImages(sources, recursive)
		return domain.ImagesDiscoveredMsg{Images: images, Err: err}
	}
}

// startBatchCmd submits the whole batch as one background task. Every event
// the batch can emit fits in the task buffer.
func startBatchCmd(req domain.ConversionRequest, logger *logging.Logger) tea.Cmd {
	return func() tea.Msg {
		task, err := worker.Submit(len(req.InputPaths)+1, func(emit func(tea.Msg)) {
			outcome := conversion.Run(req,
				func(state domain.ProgressState, written string) {
					emit(domain.BatchProgressMsg{
						Progress:   state,
						InputPath:  req.InputPaths[state.Completed-1],
						OutputPath: written,
					})
				},
				func(err error) {
					logger.Error("Batch failed", err)
				},
			)
			emit(domain.BatchDoneMsg{Outcome: outcome})
		})
		if err != nil {
			return domain.BatchDoneMsg{Outcome: domain.Outcome{Err: err}}
		}
		logger.Info("Batch started", map[string]any{
			"task":   task.ID.String(),
			"files":  len(req.InputPaths),
			"format": req.Format,
			"height": req.HeightText,
		})
		return batchStartedMsg{task: task}
	}
}

// waitForBatchEvent blocks until the task emits its next event.
func waitForBatchEvent(task *worker.Task[tea.Msg]) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-task.Events()
		if !ok {
			return nil
		}
		return msg
	}
}

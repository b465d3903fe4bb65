package main

import (
	"fmt"
	"os"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/cli"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/config"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/logging"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/ui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if cfg.AutoConvertMode {
		logger, f, err := logging.Open(cfg.LogFile, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Logging error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("Auto conversion started", cfg)
		code := cli.Run(cfg, logger, os.Stdout)
		f.Close()
		os.Exit(code)
	}

	f, err := tea.LogToFile(cfg.LogFile, "debug")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	logger := logging.New(f, cfg.Debug)
	logger.Info("Application started", cfg)

	model := ui.NewModel(cfg, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if m, ok := finalModel.(ui.Model); ok {
		if m.FailCount > 0 {
			os.Exit(1)
		}
	} else {
		logger.Error("Could not cast final model", nil)
	}
}

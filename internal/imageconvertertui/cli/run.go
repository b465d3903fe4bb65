// Package cli runs a conversion batch without the TUI, for scripts and
// terminals where an alternate screen is not wanted.
package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/config"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/conversion"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/discovery"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/guminterop"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/logging"
	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	subtle = color.New(color.Faint).SprintFunc()
)

// confirm is swapped in tests.
var confirm = guminterop.ConfirmBatch

// Run converts everything cfg.Sources expands to and returns the process exit
// code.
func Run(cfg *config.AppConfig, logger *logging.Logger, out io.Writer) int {
	images, err := discovery.DiscoverImages(cfg.Sources, cfg.RecursiveMode)
	if err != nil {
		logger.Error("Discovery failed", err)
		fmt.Fprintf(out, "%s %v\n", red("Error:"), err)
		return 1
	}

	req := domain.ConversionRequest{
		OutputFolder: cfg.OutDir,
		Format:       cfg.Format,
		HeightText:   cfg.HeightText,
	}
	for _, img := range images {
		req.InputPaths = append(req.InputPaths, img.Path)
	}

	switch err := req.Validate(); {
	case errors.Is(err, domain.ErrNoSelection):
		logger.Warn("Nothing to convert", cfg.Sources)
		fmt.Fprintln(out, yellow("No images selected"))
		return 1
	case errors.Is(err, domain.ErrNoDestination):
		logger.Info("No output folder, aborting", nil)
		return 0
	}

	if !cfg.AssumeYes && !confirm(req) {
		logger.Info("Batch declined", nil)
		fmt.Fprintln(out, subtle("Cancelled"))
		return 0
	}

	logger.Info("Batch started", req)
	fmt.Fprintln(out, bold(guminterop.BatchPrompt(req)))

	outcome := conversion.Run(req,
		func(state domain.ProgressState, written string) {
			logger.Debug("File written", written)
			fmt.Fprintf(out, "%s %s -> %s\n",
				cyan(fmt.Sprintf("[%d/%d]", state.Completed, state.Total)),
				filepath.Base(req.InputPaths[state.Completed-1]),
				filepath.Base(written))
		},
		func(err error) {
			logger.Error("Batch failed", err)
		},
	)

	if !outcome.Succeeded() {
		fmt.Fprintf(out, "%s %s\n", red("Error:"), outcome.Message())
		return 1
	}

	logger.Info("Batch finished", outcome.Written)
	fmt.Fprintln(out, green(outcome.Message()))
	return 0
}

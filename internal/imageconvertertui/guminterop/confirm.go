package guminterop

import (
	"fmt"
	"os/exec"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
)

var lookPath = exec.LookPath

// IsGumAvailable checks if the 'gum' binary is in the PATH.
func IsGumAvailable() bool {
	_, err := lookPath("gum")
	return err == nil
}

// ConfirmBatch asks before a headless batch writes into the output folder.
// Returns true if confirmed or gum missing.
func ConfirmBatch(req domain.ConversionRequest) bool {
	return confirm(BatchPrompt(req))
}

// BatchPrompt is the question shown for req.
func BatchPrompt(req domain.ConversionRequest) string {
	size := "original size"
	if h, ok := req.TargetHeight(); ok {
		size = fmt.Sprintf("%dpx high", h)
	}
	return fmt.Sprintf("Convert %d images to %s (%s) into %s?", len(req.InputPaths), req.Format, size, req.OutputFolder)
}

func confirm(msg string) bool {
	if !IsGumAvailable() {
		return true
	}
	// gum confirm exits 0 for Yes, 1 for No
	return exec.Command("gum", "confirm", msg).Run() == nil
}

package conversion

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns folder/base.ext, or the first free "base (n).ext" when
// that name is taken. It only checks existence; the caller should create the
// file right away and open it exclusively.
func UniquePath(folder, base, ext string) (string, error) {
	candidate := filepath.Join(folder, base+"."+ext)
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		candidate = filepath.Join(folder, fmt.Sprintf("%s (%d).%s", base, n, ext))
	}
}

// OutputBaseName is the input file name without its extension, suffixed once
// with "_<heightText>" when the image was resized.
func OutputBaseName(inputPath, heightText string, resized bool) string {
	name := filepath.Base(inputPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		// dotfile such as ".png"
		base = name
	}
	if resized {
		base += "_" + heightText
	}
	return base
}

package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/discovery"
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
)

type AppConfig struct {
	Sources         []string
	OutDir          string
	Format          domain.TargetFormat
	HeightText      string
	RecursiveMode   bool
	AutoConvertMode bool
	AssumeYes       bool
	Debug           bool
	LogFile         string
}

func Load(args []string) (*AppConfig, error) {
	cfg := &AppConfig{}

	fs := flag.NewFlagSet("image-converter-tui", flag.ContinueOnError)

	var srcFlag string
	fs.StringVar(&srcFlag, "src", "", "Comma-separated image files or directories to convert")
	var outFlag string
	fs.StringVar(&outFlag, "out", "", "Destination folder for converted images")
	formatStr := fs.String("format", "", "Output format (JPG, PNG, GIF, BMP, WEBP, AVIF) (default WEBP)")
	var heightFlag string
	fs.StringVar(&heightFlag, "height", "", "Target height in pixels; empty or non-numeric keeps the original size")
	fs.BoolVar(&cfg.RecursiveMode, "recursive", false, "Scan source directories recursively")
	fs.BoolVar(&cfg.AutoConvertMode, "auto", false, "Convert without the TUI and exit")
	fs.BoolVar(&cfg.AssumeYes, "yes", false, "Skip the confirmation prompt in auto mode")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&cfg.LogFile, "log", "debug.log", "Log file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if srcFlag == "" {
		srcFlag = os.Getenv("IMAGE_CONVERTER_SRC")
	}
	cfg.Sources = append(discovery.SplitSources(srcFlag), fs.Args()...)

	if outFlag != "" {
		cfg.OutDir = outFlag
	} else if envOut := os.Getenv("IMAGE_CONVERTER_OUT"); envOut != "" {
		cfg.OutDir = envOut
	}

	if heightFlag != "" {
		cfg.HeightText = heightFlag
	} else {
		cfg.HeightText = os.Getenv("IMAGE_CONVERTER_HEIGHT")
	}

	if *formatStr == "" {
		*formatStr = os.Getenv("IMAGE_CONVERTER_FORMAT")
	}
	if *formatStr == "" {
		cfg.Format = domain.DefaultFormat
	} else {
		f, err := domain.ParseTargetFormat(*formatStr)
		if err != nil {
			return nil, fmt.Errorf("invalid format: %s", *formatStr)
		}
		cfg.Format = f
	}

	for _, src := range cfg.Sources {
		if _, err := os.Stat(src); err != nil {
			return nil, fmt.Errorf("invalid source: %s", src)
		}
	}

	if cfg.AutoConvertMode {
		if len(cfg.Sources) == 0 {
			return nil, fmt.Errorf("auto mode needs at least one source")
		}
		if cfg.OutDir == "" {
			return nil, fmt.Errorf("auto mode needs an output directory")
		}
	}

	// Validate/Create Out Path
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
			return nil, fmt.Errorf("could not create output directory: %v", err)
		}

		if info, err := os.Stat(cfg.OutDir); err != nil {
			return nil, fmt.Errorf("output directory error: %s", cfg.OutDir)
		} else if !info.IsDir() {
			return nil, fmt.Errorf("output path is not a directory: %s", cfg.OutDir)
		}
		absOut, err := filepath.Abs(cfg.OutDir)
		if err == nil {
			cfg.OutDir = absOut
		}
	}

	return cfg, nil
}

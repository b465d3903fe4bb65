package conversion

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"golang.org/x/image/webp"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func decodeConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return cfg
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// recorder collects callback invocations.
type recorder struct {
	states  []domain.ProgressState
	outputs []string
	errs    []error
}

func (r *recorder) progress(s domain.ProgressState, out string) {
	r.states = append(r.states, s)
	r.outputs = append(r.outputs, out)
}

func (r *recorder) failed(err error) {
	r.errs = append(r.errs, err)
}

func TestRun_PNGToWebPKeepsSizeAndDropsAlpha(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "logo.png")
	writePNG(t, src, newNRGBA(800, 600, color.NRGBA{R: 10, G: 120, B: 200, A: 128}))

	var rec recorder
	outcome := Run(domain.ConversionRequest{
		InputPaths:   []string{src},
		OutputFolder: out,
		Format:       domain.FormatWEBP,
	}, rec.progress, rec.failed)

	if !outcome.Succeeded() || outcome.Processed != 1 {
		t.Fatalf("Expected success with 1 file, got %+v", outcome)
	}
	if names := listDir(t, out); len(names) != 1 || names[0] != "logo.webp" {
		t.Fatalf("Expected only logo.webp, got %v", names)
	}

	f, err := os.Open(filepath.Join(out, "logo.webp"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("output is not valid webp: %v", err)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Errorf("Expected 800x600, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if _, hasAlpha := img.(*image.NYCbCrA); hasAlpha {
		t.Error("Expected webp output without an alpha channel")
	}
}

func TestRun_JPEGResizedToPNG(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "landscape.jpg")
	writeJPEG(t, src, 1920, 1080)

	outcome := Run(domain.ConversionRequest{
		InputPaths:   []string{src},
		OutputFolder: out,
		Format:       domain.FormatPNG,
		HeightText:   "720",
	}, nil, nil)

	if !outcome.Succeeded() {
		t.Fatalf("Run failed: %v", outcome.Err)
	}
	if len(outcome.Written) != 1 || filepath.Base(outcome.Written[0]) != "landscape_720.png" {
		t.Fatalf("Expected landscape_720.png, got %v", outcome.Written)
	}
	cfg := decodeConfig(t, outcome.Written[0])
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRun_CollisionIsUniquifiedAndProgressReported(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	var inputs []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p := filepath.Join(in, name)
		writePNG(t, p, newNRGBA(30, 20, color.NRGBA{G: 255, A: 255}))
		inputs = append(inputs, p)
	}
	if err := os.WriteFile(filepath.Join(out, "a.bmp"), []byte("taken"), 0644); err != nil {
		t.Fatal(err)
	}

	var rec recorder
	outcome := Run(domain.ConversionRequest{
		InputPaths:   inputs,
		OutputFolder: out,
		Format:       domain.FormatBMP,
	}, rec.progress, rec.failed)

	if !outcome.Succeeded() || outcome.Processed != 3 {
		t.Fatalf("Expected success with 3 files, got %+v", outcome)
	}
	if outcome.Message() != "Converted 3 images" {
		t.Errorf("Unexpected message %q", outcome.Message())
	}
	if filepath.Base(rec.outputs[0]) != "a (1).bmp" {
		t.Errorf("Expected first output a (1).bmp, got %s", filepath.Base(rec.outputs[0]))
	}
	if b, _ := os.ReadFile(filepath.Join(out, "a.bmp")); string(b) != "taken" {
		t.Error("Existing file was overwritten")
	}

	if len(rec.states) != 3 {
		t.Fatalf("Expected 3 progress callbacks, got %d", len(rec.states))
	}
	for i, s := range rec.states {
		if s.Completed != i+1 || s.Total != 3 {
			t.Errorf("progress %d: got %d/%d", i, s.Completed, s.Total)
		}
	}
	if rec.states[2].Ratio() != 1 {
		t.Errorf("Expected final ratio 1, got %v", rec.states[2].Ratio())
	}
	if len(rec.errs) != 0 {
		t.Errorf("Expected no error callbacks, got %v", rec.errs)
	}
}

func TestRun_NonNumericHeightSkipsResize(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "shot.png")
	writePNG(t, src, newNRGBA(64, 48, color.NRGBA{B: 255, A: 255}))

	outcome := Run(domain.ConversionRequest{
		InputPaths:   []string{src},
		OutputFolder: out,
		Format:       domain.FormatGIF,
		HeightText:   "tall",
	}, nil, nil)

	if !outcome.Succeeded() {
		t.Fatalf("Run failed: %v", outcome.Err)
	}
	if filepath.Base(outcome.Written[0]) != "shot.gif" {
		t.Errorf("Expected shot.gif, got %s", filepath.Base(outcome.Written[0]))
	}
	cfg := decodeConfig(t, outcome.Written[0])
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("Expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRun_CorruptFileStopsBatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	first := filepath.Join(in, "one.png")
	broken := filepath.Join(in, "two.png")
	third := filepath.Join(in, "three.png")
	writePNG(t, first, newNRGBA(10, 10, color.NRGBA{A: 255}))
	os.WriteFile(broken, []byte("not an image"), 0644)
	writePNG(t, third, newNRGBA(10, 10, color.NRGBA{A: 255}))

	var rec recorder
	outcome := Run(domain.ConversionRequest{
		InputPaths:   []string{first, broken, third},
		OutputFolder: out,
		Format:       domain.FormatJPG,
	}, rec.progress, rec.failed)

	if outcome.Succeeded() {
		t.Fatal("Expected failure")
	}
	if outcome.Processed != 1 {
		t.Errorf("Expected 1 processed file, got %d", outcome.Processed)
	}

	var perr *domain.ProcessingError
	if !errors.As(outcome.Err, &perr) {
		t.Fatalf("Expected ProcessingError, got %T", outcome.Err)
	}
	if perr.Path != broken || perr.Op != domain.OpDecode {
		t.Errorf("Expected decode failure on %s, got %s on %s", broken, perr.Op, perr.Path)
	}
	if !strings.Contains(outcome.Message(), "two.png") {
		t.Errorf("Expected message to name the file, got %q", outcome.Message())
	}

	if len(rec.errs) != 1 || len(rec.states) != 1 {
		t.Errorf("Expected 1 error and 1 progress callback, got %d and %d", len(rec.errs), len(rec.states))
	}
	if names := listDir(t, out); len(names) != 1 || names[0] != "one.jpg" {
		t.Errorf("Expected only one.jpg to be written, got %v", names)
	}
}

func TestRun_TwiceNeverOverwrites(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "pic.png")
	writePNG(t, src, newNRGBA(8, 8, color.NRGBA{R: 255, A: 255}))

	req := domain.ConversionRequest{InputPaths: []string{src}, OutputFolder: out, Format: domain.FormatPNG}
	for i := 0; i < 2; i++ {
		if o := Run(req, nil, nil); !o.Succeeded() {
			t.Fatalf("run %d failed: %v", i, o.Err)
		}
	}

	names := listDir(t, out)
	if len(names) != 2 || names[0] != "pic (1).png" || names[1] != "pic.png" {
		t.Errorf("Expected pic.png and pic (1).png, got %v", names)
	}
}

func TestRun_AlphaToJPEG(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "icon.png")
	writePNG(t, src, newNRGBA(16, 16, color.NRGBA{R: 255, A: 0}))

	outcome := Run(domain.ConversionRequest{
		InputPaths:   []string{src},
		OutputFolder: out,
		Format:       domain.FormatJPG,
		HeightText:   "8",
	}, nil, nil)
	if !outcome.Succeeded() {
		t.Fatalf("Run failed: %v", outcome.Err)
	}
	if filepath.Base(outcome.Written[0]) != "icon_8.jpg" {
		t.Errorf("Expected icon_8.jpg, got %s", filepath.Base(outcome.Written[0]))
	}

	f, err := os.Open(outcome.Written[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("output is not valid jpeg: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("Expected 8x8, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRun_RejectsInvalidRequest(t *testing.T) {
	var rec recorder
	outcome := Run(domain.ConversionRequest{OutputFolder: t.TempDir()}, rec.progress, rec.failed)
	if !errors.Is(outcome.Err, domain.ErrNoSelection) {
		t.Errorf("Expected ErrNoSelection, got %v", outcome.Err)
	}

	out := Run(domain.ConversionRequest{InputPaths: []string{"x.png"}}, nil, nil)
	if !errors.Is(out.Err, domain.ErrNoDestination) {
		t.Errorf("Expected ErrNoDestination, got %v", out.Err)
	}
}

func TestRun_MissingOutputFolderFailsOnWrite(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "p.png")
	writePNG(t, src, newNRGBA(4, 4, color.NRGBA{A: 255}))

	outcome := Run(domain.ConversionRequest{
		InputPaths:   []string{src},
		OutputFolder: filepath.Join(in, "missing", "dir"),
		Format:       domain.FormatPNG,
	}, nil, nil)

	var perr *domain.ProcessingError
	if !errors.As(outcome.Err, &perr) || perr.Op != domain.OpWrite {
		t.Errorf("Expected write ProcessingError, got %v", outcome.Err)
	}
}

func TestRun_EveryFormat(t *testing.T) {
	tests := []struct {
		format  domain.TargetFormat
		file    string
		decoder string
	}{
		{domain.FormatJPG, "swatch_10.jpg", "jpeg"},
		{domain.FormatPNG, "swatch_10.png", "png"},
		{domain.FormatGIF, "swatch_10.gif", "gif"},
		{domain.FormatBMP, "swatch_10.bmp", "bmp"},
		{domain.FormatWEBP, "swatch_10.webp", "webp"},
		{domain.FormatAVIF, "swatch_10.avif", "avif"},
	}

	in := t.TempDir()
	src := filepath.Join(in, "swatch.png")
	writePNG(t, src, newNRGBA(30, 20, color.NRGBA{R: 200, G: 40, B: 90, A: 180}))

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out := t.TempDir()
			outcome := Run(domain.ConversionRequest{
				InputPaths:   []string{src},
				OutputFolder: out,
				Format:       tt.format,
				HeightText:   "10",
			}, nil, nil)
			if !outcome.Succeeded() {
				t.Fatalf("Run failed: %v", outcome.Err)
			}
			if len(outcome.Written) != 1 || filepath.Base(outcome.Written[0]) != tt.file {
				t.Fatalf("Expected %s, got %v", tt.file, outcome.Written)
			}

			f, err := os.Open(outcome.Written[0])
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, name, err := image.DecodeConfig(f)
			if err != nil {
				t.Fatalf("failed to decode %s: %v", tt.file, err)
			}
			if name != tt.decoder {
				t.Errorf("Expected %s data, got %s", tt.decoder, name)
			}
			if cfg.Width != 15 || cfg.Height != 10 {
				t.Errorf("Expected 15x10, got %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

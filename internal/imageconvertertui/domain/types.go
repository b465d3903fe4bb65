package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ConversionStatus represents the state of a single image in a batch
type ConversionStatus string

const (
	StatusPending ConversionStatus = "Pending"
	StatusRunning ConversionStatus = "Running"
	StatusSuccess ConversionStatus = "Success"
	StatusFailed  ConversionStatus = "Failed"
)

// TargetFormat is the user-facing output format label
type TargetFormat string

const (
	FormatJPG  TargetFormat = "JPG"
	FormatPNG  TargetFormat = "PNG"
	FormatGIF  TargetFormat = "GIF"
	FormatBMP  TargetFormat = "BMP"
	FormatWEBP TargetFormat = "WEBP"
	FormatAVIF TargetFormat = "AVIF"
)

// DefaultFormat is preselected in the format selector.
const DefaultFormat = FormatWEBP

// Formats lists the selectable formats in selector order.
var Formats = []TargetFormat{FormatJPG, FormatPNG, FormatGIF, FormatBMP, FormatWEBP, FormatAVIF}

// ParseTargetFormat accepts any casing of a label. "JPEG" is accepted as JPG.
func ParseTargetFormat(s string) (TargetFormat, error) {
	label := strings.ToUpper(strings.TrimSpace(s))
	if label == "JPEG" {
		return FormatJPG, nil
	}
	for _, f := range Formats {
		if string(f) == label {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// Extension is the file extension written for the format, without the dot.
func (f TargetFormat) Extension() string {
	return strings.ToLower(string(f))
}

// EncoderName is the identifier handed to the encoder. Only JPG differs from
// its label.
func (f TargetFormat) EncoderName() string {
	if f == FormatJPG {
		return "JPEG"
	}
	return string(f)
}

// DropsAlpha reports whether the format cannot store alpha or palette images
// as decoded and needs them flattened first.
func (f TargetFormat) DropsAlpha() bool {
	return f == FormatJPG || f == FormatWEBP
}

// Next returns the format after f in selector order, wrapping around.
func (f TargetFormat) Next() TargetFormat {
	for i, v := range Formats {
		if v == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return DefaultFormat
}

// ImageFile represents a selected input image and its conversion state
type ImageFile struct {
	Name       string
	Path       string
	Kind       string // MIME subtype sniffed from the header, e.g. "png"
	Selected   bool
	Status     ConversionStatus
	OutputPath string
	ErrorLog   string
}

// ConversionRequest is everything one batch needs. It is built fresh by the
// interaction surface for every convert action.
type ConversionRequest struct {
	InputPaths   []string
	OutputFolder string
	Format       TargetFormat
	HeightText   string // raw text of the height field
}

// TargetHeight parses HeightText. Only a non-empty run of ASCII digits with a
// positive value requests a resize; everything else means "keep the size".
func (r ConversionRequest) TargetHeight() (int, bool) {
	if !isDigits(r.HeightText) {
		return 0, false
	}
	h, err := strconv.Atoi(r.HeightText)
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}

// Validate checks the preconditions for starting a batch.
func (r ConversionRequest) Validate() error {
	if len(r.InputPaths) == 0 {
		return ErrNoSelection
	}
	if r.OutputFolder == "" {
		return ErrNoDestination
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ProgressState counts processed files in the running batch
type ProgressState struct {
	Completed int
	Total     int
}

// Ratio is Completed/Total, or 0 for an empty batch.
func (p ProgressState) Ratio() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

func (p ProgressState) Status() string {
	return fmt.Sprintf("Processing %d of %d...", p.Completed, p.Total)
}

// Outcome is the terminal result of a batch
type Outcome struct {
	Processed int
	Written   []string
	Err       error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Message is the text shown to the user once the batch ends.
func (o Outcome) Message() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return fmt.Sprintf("Converted %d images", o.Processed)
}

// Summary holds the counts of images in various states
type Summary struct {
	Total    int
	Selected int
	Success  int
	Failed   int
	Pending  int
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSelection is returned when a batch is requested without input files.
	ErrNoSelection = errors.New("no images selected")
	// ErrNoDestination is returned when no output folder was chosen. Callers
	// treat it as a silent abort.
	ErrNoDestination = errors.New("no output folder selected")
)

// Processing steps reported in ProcessingError.Op.
const (
	OpDecode = "decode"
	OpName   = "name"
	OpEncode = "encode"
	OpWrite  = "write"
)

// ProcessingError reports the file and step that stopped a batch
type ProcessingError struct {
	Path string
	Op   string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

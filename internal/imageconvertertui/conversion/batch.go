package conversion

import (
	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
)

// ProgressFunc is called after each file is written, with the path it was
// written to.
type ProgressFunc func(state domain.ProgressState, outputPath string)

// ErrorFunc receives the error that stopped a batch.
type ErrorFunc func(err error)

// Run converts req.InputPaths in order and stops at the first failure. Files
// written before the failure are kept. Either callback may be nil.
func Run(req domain.ConversionRequest, onProgress ProgressFunc, onError ErrorFunc) domain.Outcome {
	var outcome domain.Outcome

	fail := func(err error) domain.Outcome {
		outcome.Err = err
		if onError != nil {
			onError(err)
		}
		return outcome
	}

	if err := req.Validate(); err != nil {
		return fail(err)
	}

	height, resize := req.TargetHeight()
	ext := req.Format.Extension()
	state := domain.ProgressState{Total: len(req.InputPaths)}

	for i, path := range req.InputPaths {
		out, err := convertOne(req, path, ext, height, resize)
		if err != nil {
			return fail(err)
		}

		outcome.Processed = i + 1
		outcome.Written = append(outcome.Written, out)
		state.Completed = i + 1
		if onProgress != nil {
			onProgress(state, out)
		}
	}

	return outcome
}

// convertOne runs decode → resize → name → flatten → encode for one file and
// returns the path written.
func convertOne(req domain.ConversionRequest, path, ext string, height int, resize bool) (string, error) {
	asset, err := Decode(path)
	if err != nil {
		return "", &domain.ProcessingError{Path: path, Op: domain.OpDecode, Err: err}
	}

	asset = ResizeToHeight(asset, height, resize)

	base := OutputBaseName(path, req.HeightText, resize)
	dest, err := UniquePath(req.OutputFolder, base, ext)
	if err != nil {
		return "", &domain.ProcessingError{Path: path, Op: domain.OpName, Err: err}
	}

	asset = EnsureEncodable(asset, req.Format)

	if op, err := WriteImage(dest, asset, req.Format); err != nil {
		return "", &domain.ProcessingError{Path: path, Op: op, Err: err}
	}
	return dest, nil
}

package conversion

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	// decoders for inputs the stdlib does not register
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// webpQuality matches the libwebp default for lossy output.
const webpQuality = 75

type encodeFunc func(w io.Writer, img image.Image) error

// encoders is keyed by TargetFormat.EncoderName.
var encoders = map[string]encodeFunc{
	"JPEG": imagingEncoder(imaging.JPEG),
	"PNG":  imagingEncoder(imaging.PNG),
	"GIF":  imagingEncoder(imaging.GIF),
	"BMP":  imagingEncoder(imaging.BMP),
	"WEBP": encodeWebP,
	"AVIF": encodeAVIF,
}

func imagingEncoder(f imaging.Format) encodeFunc {
	return func(w io.Writer, img image.Image) error {
		return imaging.Encode(w, img, f)
	}
}

func encodeWebP(w io.Writer, img image.Image) error {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, webpQuality)
	if err != nil {
		return fmt.Errorf("webp options: %w", err)
	}
	// libwebp only imports RGBA-family pictures
	return webp.Encode(w, imaging.Clone(img), options)
}

func encodeAVIF(w io.Writer, img image.Image) error {
	return avif.Encode(w, img)
}

// Decode reads and decodes the image at path.
func Decode(path string) (ImageAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageAsset{}, err
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return ImageAsset{}, err
	}
	return ImageAsset{Image: img, Mode: ModeOf(img), Source: path}, nil
}

// Encode writes the asset to w with the encoder for format.
func Encode(w io.Writer, asset ImageAsset, format domain.TargetFormat) error {
	enc, ok := encoders[format.EncoderName()]
	if !ok {
		return fmt.Errorf("no encoder for format %s", format)
	}
	return enc(w, asset.Image)
}

// WriteImage creates path exclusively and encodes the asset into it. A file
// left behind by a failed encode is removed. The returned op tells whether
// creating, encoding or closing failed.
func WriteImage(path string, asset ImageAsset, format domain.TargetFormat) (string, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return domain.OpWrite, err
	}

	if err := Encode(f, asset, format); err != nil {
		f.Close()
		return domain.OpEncode, errors.Join(err, removePartial(path))
	}
	if err := f.Close(); err != nil {
		return domain.OpWrite, errors.Join(err, removePartial(path))
	}
	return "", nil
}

func removePartial(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing partial output: %w", err)
	}
	return nil
}

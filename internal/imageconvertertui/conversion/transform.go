package conversion

import (
	"image"
	"image/color"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"github.com/disintegration/imaging"
)

// ColorMode is the pixel layout class of a decoded image
type ColorMode int

const (
	ModeRGB ColorMode = iota
	ModeGray
	ModeAlpha
	ModeIndexed
)

func (m ColorMode) String() string {
	switch m {
	case ModeGray:
		return "gray"
	case ModeAlpha:
		return "alpha"
	case ModeIndexed:
		return "indexed"
	default:
		return "rgb"
	}
}

// FlattenBackground is what transparent pixels are composed onto when alpha
// is dropped.
var FlattenBackground color.Color = color.Black

// ImageAsset is a decoded image owned by one iteration of the batch loop.
type ImageAsset struct {
	Image  image.Image
	Mode   ColorMode
	Source string
}

// Bounds is shorthand for the image size.
func (a ImageAsset) Bounds() image.Rectangle {
	return a.Image.Bounds()
}

// ModeOf classifies img by its concrete type.
func ModeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.Paletted:
		return ModeIndexed
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64, *image.NYCbCrA, *image.Alpha, *image.Alpha16:
		return ModeAlpha
	case *image.Gray, *image.Gray16:
		return ModeGray
	default:
		return ModeRGB
	}
}

// ScaledWidth is the width that keeps the aspect ratio at the given height.
// The fractional part is truncated; the result is never below one pixel.
func ScaledWidth(width, height, targetHeight int) int {
	ratio := float64(targetHeight) / float64(height)
	w := int(float64(width) * ratio)
	if w < 1 {
		w = 1
	}
	return w
}

// ResizeToHeight scales the asset to exactly targetHeight rows with Lanczos
// resampling. When resize is false the asset is returned untouched.
func ResizeToHeight(asset ImageAsset, targetHeight int, resize bool) ImageAsset {
	if !resize {
		return asset
	}
	b := asset.Bounds()
	w := ScaledWidth(b.Dx(), b.Dy(), targetHeight)

	mode := asset.Mode
	if mode == ModeIndexed {
		// resampling leaves the palette behind
		mode = ModeAlpha
	}
	return ImageAsset{
		Image:  imaging.Resize(asset.Image, w, targetHeight, imaging.Lanczos),
		Mode:   mode,
		Source: asset.Source,
	}
}

// EnsureEncodable flattens alpha and palette images for formats that cannot
// carry them. Other combinations pass through.
func EnsureEncodable(asset ImageAsset, format domain.TargetFormat) ImageAsset {
	if !format.DropsAlpha() {
		return asset
	}
	if asset.Mode != ModeAlpha && asset.Mode != ModeIndexed {
		return asset
	}
	b := asset.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), FlattenBackground)
	flat := imaging.Overlay(bg, asset.Image, image.Pt(0, 0), 1.0)
	return ImageAsset{Image: flat, Mode: ModeRGB, Source: asset.Source}
}

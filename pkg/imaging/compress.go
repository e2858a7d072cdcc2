package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxWidth  = 1080
	DefaultMaxHeight = 1080
	DefaultQuality   = 80

	// MaxDimension caps the declared width and height of any decoded image.
	MaxDimension = 8192
)

var ErrDimensionsTooLarge = errors.New("image dimensions exceed limit")

// Compressed is a re-encoded JPEG with its final dimensions.
type Compressed struct {
	Data        []byte
	Width       int
	Height      int
	ContentType string
}

// FitWithin returns the largest size not exceeding maxWidth x maxHeight that
// keeps the aspect ratio. Images that already fit are left alone.
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	w, h := float64(width), float64(height)

	if width > height {
		if width > maxWidth {
			h *= float64(maxWidth) / w
			w = float64(maxWidth)
		}
	} else {
		if height > maxHeight {
			w *= float64(maxHeight) / h
			h = float64(maxHeight)
		}
	}

	return max(int(w), 1), max(int(h), 1)
}

// Compress decodes data, downsizes it to fit maxWidth x maxHeight and
// re-encodes it as a JPEG at the given quality.
func Compress(data []byte, maxWidth, maxHeight, quality int) (*Compressed, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return CompressImage(img, maxWidth, maxHeight, quality)
}

func CompressImage(img image.Image, maxWidth, maxHeight, quality int) (*Compressed, error) {
	bounds := img.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)

	var out image.Image = img
	if width != bounds.Dx() || height != bounds.Dy() {
		resized := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Compressed{
		Data:        buf.Bytes(),
		Width:       width,
		Height:      height,
		ContentType: "image/jpeg",
	}, nil
}

// CheckDimensions reads only the image header and rejects images whose
// declared size is above MaxDimension on either side.
func CheckDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrDimensionsTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// Decode checks the declared dimensions before decoding the pixel data.
func Decode(data []byte) (image.Image, error) {
	if err := CheckDimensions(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

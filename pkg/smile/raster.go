package smile

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	DefaultWidth  = 360
	DefaultHeight = 360
)

var ErrMalformedRaster = errors.New("malformed raster buffer")

// Raster is a row-major grid of single-channel 8-bit samples.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil buffer", ErrMalformedRaster)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformedRaster, r.Width, r.Height)
	}
	if len(r.Pix) != r.Width*r.Height {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrMalformedRaster, len(r.Pix), r.Width, r.Height)
	}
	return nil
}

func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.Width+x] = v
}

// Row returns the samples of row y without copying.
func (r *Raster) Row(y int) []uint8 {
	return r.Pix[y*r.Width : (y+1)*r.Width]
}

// RasterFromImage scales img to width x height and keeps the red channel of
// every pixel as the sample value.
func RasterFromImage(img image.Image, width, height int) (*Raster, error) {
	dst := NewRaster(width, height)
	if err := FillRaster(dst, img); err != nil {
		return nil, err
	}
	return dst, nil
}

// FillRaster overwrites dst with img scaled to dst's dimensions.
func FillRaster(dst *Raster, img image.Image) error {
	if err := dst.Validate(); err != nil {
		return err
	}
	if img == nil || img.Bounds().Empty() {
		return errors.New("empty source image")
	}

	scaled := image.NewRGBA(image.Rect(0, 0, dst.Width, dst.Height))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	for y := 0; y < dst.Height; y++ {
		row := dst.Row(y)
		for x := 0; x < dst.Width; x++ {
			row[x] = scaled.Pix[scaled.PixOffset(x, y)]
		}
	}

	return nil
}

// Image returns a grayscale view of the raster, mostly useful for debugging.
func (r *Raster) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: r.At(x, y)})
		}
	}
	return img
}

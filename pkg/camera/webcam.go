package camera

import (
	"SmileApp/pkg/smile"
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

var ErrNoFrame = errors.New("no frame captured yet")

// Webcam is a gocv capture device usable as a smile.VideoSource. Ready grabs
// the newest frame so CopyFrame and Screenshot always see the same image.
type Webcam struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	frame   gocv.Mat
	ready   bool
}

func Open(device int) (*Webcam, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("error opening video device %d: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("video device %d is not available", device)
	}

	return &Webcam{
		capture: capture,
		frame:   gocv.NewMat(),
	}, nil
}

func (w *Webcam) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ready = w.capture.Read(&w.frame) && !w.frame.Empty()
	return w.ready
}

func (w *Webcam) CopyFrame(dst *smile.Raster) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ready {
		return ErrNoFrame
	}

	img, err := w.frame.ToImage()
	if err != nil {
		return fmt.Errorf("error converting frame: %w", err)
	}

	return smile.FillRaster(dst, img)
}

// Screenshot encodes the last grabbed frame at full resolution as JPEG.
func (w *Webcam) Screenshot() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ready {
		return nil, ErrNoFrame
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.frame)
	if err != nil {
		return nil, fmt.Errorf("error encoding frame: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ready = false
	if err := w.frame.Close(); err != nil {
		return err
	}
	return w.capture.Close()
}

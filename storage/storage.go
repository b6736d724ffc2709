// Package storage saves captured frames and YOLO labels for training data.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-aim/images"
)

// EncodeFunc writes frame to path.
type EncodeFunc func(path string, frame *images.Frame) error

// Options configures a Collector.
type Options struct {
	// Dir is the root directory; frames go to Dir/images and labels to
	// Dir/labels (default: "bin").
	Dir string `json:"dir" yaml:"dir"`
	// MinInterval is the minimum time between saved frames (default: 500ms).
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
	// Encode writes a frame; defaults to JPEG through OpenCV.
	Encode EncodeFunc `json:"-" yaml:"-"`
	// Now is the clock; defaults to time.Now.
	Now func() time.Time `json:"-" yaml:"-"`
}

// Collector stores frames at a bounded rate. It is safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	opts      Options
	imagesDir string
	labelsDir string
	last      time.Time
	logger    zerolog.Logger
}

// NewCollector creates the output directories and returns a Collector.
//
// Arguments:
//   - opts: Output location and rate; zero fields take defaults.
//   - logger: Receives one debug line per saved file.
//
// Returns:
//   - *Collector: The collector.
//   - error: An error if the directories cannot be created.
func NewCollector(opts Options, logger zerolog.Logger) (*Collector, error) {
	if opts.Dir == "" {
		opts.Dir = "bin"
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = 500 * time.Millisecond
	}
	if opts.Encode == nil {
		opts.Encode = EncodeJPEG
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Collector{
		opts:      opts,
		imagesDir: filepath.Join(opts.Dir, "images"),
		labelsDir: filepath.Join(opts.Dir, "labels"),
		logger:    logger,
	}
	for _, dir := range []string{c.imagesDir, c.labelsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", dir)
		}
	}
	return c, nil
}

// SaveFrame writes frame as <uuid>.jpg and returns the uuid. Frames arriving
// within MinInterval of the previous save are skipped and return "".
func (c *Collector) SaveFrame(frame *images.Frame) (string, error) {
	if !frame.Valid() {
		return "", errors.New("cannot save an empty frame")
	}

	c.mu.Lock()
	now := c.opts.Now()
	if !c.last.IsZero() && now.Sub(c.last) < c.opts.MinInterval {
		c.mu.Unlock()
		return "", nil
	}
	c.last = now
	c.mu.Unlock()

	id := uuid.NewString()
	path := filepath.Join(c.imagesDir, id+".jpg")
	if err := c.opts.Encode(path, frame); err != nil {
		return "", errors.Wrapf(err, "saving frame %s", id)
	}

	c.logger.Debug().Str("path", path).Msg("Saved frame")
	return id, nil
}

// SaveLabel writes the YOLO label for box next to frame id.
func (c *Collector) SaveLabel(id string, frame *images.Frame, box images.Rect) error {
	if id == "" {
		return errors.New("label needs a frame id")
	}
	if !frame.Valid() {
		return errors.New("cannot label an empty frame")
	}

	path := filepath.Join(c.labelsDir, id+".txt")
	if err := os.WriteFile(path, []byte(Label(box, frame.Width, frame.Height)), 0o644); err != nil {
		return errors.Wrapf(err, "saving label %s", id)
	}

	c.logger.Debug().Str("path", path).Msg("Saved label")
	return nil
}

// Label formats box as a single-class YOLO label line: class, center and
// size, each normalized by the frame size.
func Label(box images.Rect, width, height int) string {
	w, h := float32(width), float32(height)
	cx, cy := box.Center()
	return fmt.Sprintf("0 %v %v %v %v", cx/w, cy/h, box.Width/w, box.Height/h)
}

// EncodeJPEG writes frame through OpenCV, which picks the format from the
// file extension.
func EncodeJPEG(path string, frame *images.Frame) error {
	mat, err := ToMat(frame)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return errors.Errorf("failed to write %s", path)
	}
	return nil
}

// ToMat copies frame into a new 8-bit BGR Mat, dropping row padding.
// The caller must Close the Mat.
func ToMat(frame *images.Frame) (gocv.Mat, error) {
	if !frame.Valid() {
		return gocv.Mat{}, errors.New("frame is empty or malformed")
	}

	rowLen := frame.Width * images.BytesPerPixel
	data := frame.Pix
	if frame.Stride != rowLen {
		data = make([]byte, rowLen*frame.Height)
		for y := 0; y < frame.Height; y++ {
			copy(data[y*rowLen:(y+1)*rowLen], frame.Pix[y*frame.Stride:])
		}
	} else {
		data = data[:rowLen*frame.Height]
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, data)
	if err != nil {
		return gocv.Mat{}, errors.Wrap(err, "creating Mat")
	}
	return mat, nil
}

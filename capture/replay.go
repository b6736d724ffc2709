package capture

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-aim/images"
)

// ImageFile is an image on disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Name is the file name without extension.
	Name string
}

// ListImageFiles returns the image files in dir sorted by name.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: The files, sorted by name.
//   - error: Error if the directory cannot be read.
func ListImageFiles(dir string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ImageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		switch strings.ToLower(ext) {
		case ".jpg", ".jpeg", ".png", ".bmp":
			files = append(files, ImageFile{
				Path: filepath.Join(dir, entry.Name()),
				Name: strings.TrimSuffix(entry.Name(), ext),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Replay is a Capturer that plays back saved frames in a loop, for running
// the pipeline offline against collected data. The requested region only
// matters for its size: each image is center-cropped or padded to it.
type Replay struct {
	mu    sync.Mutex
	files []ImageFile
	next  int
	frame *images.Frame
}

// NewReplay lists dir and returns a Replay over its images.
func NewReplay(dir string) (*Replay, error) {
	files, err := ListImageFiles(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no images in %s", dir)
	}
	return &Replay{files: files}, nil
}

// Len returns the number of images.
func (r *Replay) Len() int {
	return len(r.files)
}

// Capture decodes the next image into the shared frame.
func (r *Replay) Capture(region image.Rectangle) (*images.Frame, error) {
	if region.Empty() {
		return nil, errors.Errorf("empty capture region %v", region)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := r.files[r.next]
	r.next = (r.next + 1) % len(r.files)

	mat := gocv.IMRead(file.Path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, errors.Errorf("failed to decode %s", file.Path)
	}
	defer mat.Close()

	r.frame = r.frame.Ensure(region.Dx(), region.Dy())
	if err := FromMat(r.frame, mat); err != nil {
		return nil, errors.Wrapf(err, "reading %s", file.Path)
	}
	return r.frame, nil
}

// FromMat fills frame from an 8-bit BGR Mat. The Mat is center-aligned on
// the frame; uncovered pixels are black and overflow is cropped.
func FromMat(frame *images.Frame, mat gocv.Mat) error {
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return errors.Errorf("unsupported Mat type %v", mat.Type())
	}
	data, err := mat.DataPtrUint8()
	if err != nil {
		return err
	}

	clear(frame.Pix)

	rows, cols := mat.Rows(), mat.Cols()
	offX := (cols - frame.Width) / 2
	offY := (rows - frame.Height) / 2
	rowLen := cols * images.BytesPerPixel

	for y := 0; y < frame.Height; y++ {
		sy := y + offY
		if sy < 0 || sy >= rows {
			continue
		}
		for x := 0; x < frame.Width; x++ {
			sx := x + offX
			if sx < 0 || sx >= cols {
				continue
			}
			src := sy*rowLen + sx*images.BytesPerPixel
			dst := frame.PixOffset(x, y)
			copy(frame.Pix[dst:dst+images.BytesPerPixel], data[src:src+images.BytesPerPixel])
		}
	}
	return nil
}

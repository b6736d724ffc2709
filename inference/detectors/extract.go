package detectors

import (
	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-aim/images"
)

// Candidate is a decoded detection box before selection.
type Candidate struct {
	// Box is the detection in crop-local pixels.
	Box images.Rect
	// Confidence is the objectness score (0-1).
	Confidence float32
	// CenterX, CenterY are the box center normalized by the crop size.
	CenterX, CenterY float32
}

// Result holds the surviving candidates and, at the same indices, the raw
// box centers used for spatial indexing.
type Result struct {
	Candidates []Candidate
	Points     [][2]float64
}

// Len returns the number of candidates.
func (r Result) Len() int { return len(r.Candidates) }

// Extract decodes every slot of out, keeping those at or above the minimum
// confidence whose box lies entirely inside the FOV rectangle. Boxes that are
// partially outside are dropped, not clipped.
//
// An empty or unready output yields an empty Result.
//
// Arguments:
//   - out: The [1, 5, N] detector output.
//   - cfg: Confidence threshold, FOV bounds and crop size.
//
// Returns:
//   - Result: Candidates in slot order with their centers.
func Extract(out Output, cfg ExtractConfig) Result {
	var res Result
	if !out.Ready() {
		return res
	}

	size := float32(cfg.ImageSize)
	if size <= 0 {
		size = images.ImageSize
	}

	n := out.Slots()
	for i := 0; i < n; i++ {
		conf := out.At(4, i)
		if conf < cfg.MinConfidence || math32.IsNaN(conf) {
			continue
		}

		xc, yc := out.At(0, i), out.At(1, i)
		w, h := out.At(2, i), out.At(3, i)

		box := images.RectFromCenter(xc, yc, w, h)
		if !box.Finite() || !cfg.FOV.Contains(box) {
			continue
		}

		res.Candidates = append(res.Candidates, Candidate{
			Box:        box,
			Confidence: conf,
			CenterX:    xc / size,
			CenterY:    yc / size,
		})
		res.Points = append(res.Points, [2]float64{float64(xc), float64(yc)})
	}

	return res
}

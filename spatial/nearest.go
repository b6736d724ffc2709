// Package spatial selects the detection closest to a reference point.
package spatial

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/nvr-ai/go-aim/inference/detectors"
)

// Nearest builds a 2-d tree over the candidate centers and returns the
// candidate whose center is closest to ref by squared Euclidean distance.
// The tree is rebuilt on every call; the candidate count after confidence
// and FOV filtering is small.
//
// When several candidates share the minimal distance, any one of them may be
// returned.
//
// Arguments:
//   - res: Candidates and their centers from detectors.Extract.
//   - ref: The reference point in crop-local coordinates.
//
// Returns:
//   - detectors.Candidate: The closest candidate.
//   - float64: Its squared distance to ref.
//   - bool: False when res holds no candidates.
func Nearest(res detectors.Result, ref [2]float64) (detectors.Candidate, float64, bool) {
	n := min(len(res.Candidates), len(res.Points))
	if n == 0 {
		return detectors.Candidate{}, 0, false
	}

	pts := make(centers, n)
	for i := range n {
		pts[i] = center{Point: kdtree.Point{res.Points[i][0], res.Points[i][1]}, idx: i}
	}

	tree := kdtree.New(pts, false)
	got, dist := tree.Nearest(center{Point: kdtree.Point{ref[0], ref[1]}, idx: -1})
	if got == nil {
		return detectors.Candidate{}, 0, false
	}

	return res.Candidates[got.(center).idx], dist, true
}

// center is a candidate center tagged with its index in the result.
type center struct {
	kdtree.Point
	idx int
}

// Compare implements kdtree.Comparable.
func (c center) Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	return c.Point[d] - o.(center).Point[d]
}

// Distance implements kdtree.Comparable.
func (c center) Distance(o kdtree.Comparable) float64 {
	return c.Point.Distance(o.(center).Point)
}

// centers implements kdtree.Interface.
type centers []center

func (c centers) Index(i int) kdtree.Comparable { return c[i] }
func (c centers) Len() int                       { return len(c) }
func (c centers) Slice(start, end int) kdtree.Interface {
	return c[start:end]
}

func (c centers) Pivot(d kdtree.Dim) int {
	return plane{centers: c, Dim: d}.Pivot()
}

// plane sorts centers along one dimension for median partitioning.
type plane struct {
	kdtree.Dim
	centers
}

func (p plane) Less(i, j int) bool {
	return p.centers[i].Point[p.Dim] < p.centers[j].Point[p.Dim]
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.centers = p.centers[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.centers[i], p.centers[j] = p.centers[j], p.centers[i]
}

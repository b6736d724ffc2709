package detectors

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Output is a read-only [1, Channels, N] view over a detector's raw output.
// The tensor owns the shape, strides and backing slice; At indexes that
// backing slice with the tensor's strides. The zero value is an empty
// output, which is what an engine that is not ready produces.
type Output struct {
	t       *tensor.Dense
	data    []float32
	chanStr int
	slotStr int
}

// NewOutput wraps data as a [1, Channels, slots] tensor without copying.
//
// Arguments:
//   - data: The flat, channel-major output of the model.
//   - slots: The number of detection slots (N).
//
// Returns:
//   - Output: The shaped view.
//   - error: An error if data does not hold exactly Channels*slots values.
func NewOutput(data []float32, slots int) (Output, error) {
	if slots <= 0 {
		return Output{}, fmt.Errorf("slot count must be positive, got %d", slots)
	}
	if len(data) != Channels*slots {
		return Output{}, fmt.Errorf("output holds %d floats, want %d for shape [1 %d %d]",
			len(data), Channels*slots, Channels, slots)
	}

	want := tensor.Shape{1, Channels, slots}
	t := tensor.New(tensor.WithShape(want...), tensor.WithBacking(data))
	if !t.Shape().Eq(want) || t.DataSize() != want.TotalSize() {
		return Output{}, fmt.Errorf("output tensor has shape %v, want %v", t.Shape(), want)
	}
	backing, ok := t.Data().([]float32)
	if !ok {
		return Output{}, fmt.Errorf("output tensor holds %T, want []float32", t.Data())
	}
	strides := t.Strides()

	return Output{
		t:       t,
		data:    backing,
		chanStr: strides[1],
		slotStr: strides[2],
	}, nil
}

// Ready reports whether the output holds data.
func (o Output) Ready() bool {
	return o.t != nil && len(o.data) > 0
}

// Shape returns the tensor shape, or nil for an empty output.
func (o Output) Shape() tensor.Shape {
	if o.t == nil {
		return nil
	}
	return o.t.Shape()
}

// Slots returns N.
func (o Output) Slots() int {
	if o.t == nil {
		return 0
	}
	return o.t.Shape()[2]
}

// At returns channel ch of slot i. It equals the tensor's At(0, ch, i)
// without boxing the value.
func (o Output) At(ch, i int) float32 {
	return o.data[ch*o.chanStr+i*o.slotStr]
}

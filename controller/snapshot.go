package controller

import (
	"github.com/nvr-ai/go-aim/predict"
	"github.com/nvr-ai/go-aim/settings"
	"github.com/nvr-ai/go-aim/transform"
)

// Snapshot is the typed view of the settings for one cycle.
type Snapshot struct {
	AimAssist        bool
	ShowDetected     bool
	AutoTrigger      bool
	ConstantTracking bool
	Predictions      bool
	FOVEnabled       bool
	CollectData      bool
	AutoLabel        bool

	AimKey       bool
	SecondAimKey bool

	ClosestToMouse bool
	FOVSize        float32
	// MinConfidence is in [0, 1]; the slider is a percentage.
	MinConfidence float32

	UsePercentX    bool
	UsePercentY    bool
	OffsetX        float64
	OffsetY        float64
	OffsetPercentX float64
	OffsetPercentY float64
	Alignment      transform.Alignment

	Method predict.Method
	// MethodKnown is false when the dropdown holds an unrecognized method.
	MethodKnown bool
}

// ReadSnapshot reads every setting the loop needs from src.
func ReadSnapshot(src Source) Snapshot {
	method, err := predict.ParseMethod(src.Dropdown(settings.PredictionMethod))

	return Snapshot{
		AimAssist:        src.Toggle(settings.AimAssist),
		ShowDetected:     src.Toggle(settings.ShowDetectedPlayer),
		AutoTrigger:      src.Toggle(settings.AutoTrigger),
		ConstantTracking: src.Toggle(settings.ConstantTracking),
		Predictions:      src.Toggle(settings.Predictions),
		FOVEnabled:       src.Toggle(settings.FOV),
		CollectData:      src.Toggle(settings.CollectData),
		AutoLabel:        src.Toggle(settings.AutoLabelData),

		AimKey:       src.Keybind(settings.AimKeybind),
		SecondAimKey: src.Keybind(settings.SecondAimKeybind),

		ClosestToMouse: src.Dropdown(settings.DetectionAreaType) == settings.AreaClosestToMouse,
		FOVSize:        float32(src.Slider(settings.FOVSize)),
		MinConfidence:  float32(src.Slider(settings.MinConfidence) / 100),

		UsePercentX:    src.Toggle(settings.XAxisPercentage),
		UsePercentY:    src.Toggle(settings.YAxisPercentage),
		OffsetX:        src.Slider(settings.XOffset),
		OffsetY:        src.Slider(settings.YOffset),
		OffsetPercentX: src.Slider(settings.XOffsetPercent),
		OffsetPercentY: src.Slider(settings.YOffsetPercent),
		Alignment:      transform.ParseAlignment(src.Dropdown(settings.Alignment)),

		Method:      method,
		MethodKnown: err == nil,
	}
}

// ShouldProcess reports whether any feature needs the loop at all.
func (s Snapshot) ShouldProcess() bool {
	return s.AimAssist || s.ShowDetected || s.AutoTrigger
}

// ShouldPredict reports whether detection should run this cycle.
func (s Snapshot) ShouldPredict() bool {
	return s.ShowDetected || s.ConstantTracking || s.AimKey || s.SecondAimKey
}

// ShouldTrigger reports whether a found target fires a click.
func (s Snapshot) ShouldTrigger() bool {
	return s.AutoTrigger && (s.AimKey || s.ConstantTracking)
}

// ShouldAim reports whether a found target moves the pointer.
func (s Snapshot) ShouldAim() bool {
	return s.AimAssist && (s.ConstantTracking || s.AimKey || s.SecondAimKey)
}

// TransformParams builds the transform parameters for a screen size.
func (s Snapshot) TransformParams(screenW, screenH int) transform.Params {
	return transform.Params{
		ScaleX:      float64(screenW) / InputSide,
		ScaleY:      float64(screenH) / InputSide,
		UsePercentX: s.UsePercentX,
		UsePercentY: s.UsePercentY,
		OffsetX:     s.OffsetX,
		OffsetY:     s.OffsetY,
		PercentX:    s.OffsetPercentX,
		PercentY:    s.OffsetPercentY,
		Alignment:   s.Alignment,
	}
}

package settings

// Toggle names.
const (
	AimAssist          = "Aim Assist"
	ShowDetectedPlayer = "Show Detected Player"
	AutoTrigger        = "Auto Trigger"
	ConstantTracking   = "Constant AI Tracking"
	Predictions        = "Predictions"
	FOV                = "FOV"
	CollectData        = "Collect Data While Playing"
	AutoLabelData      = "Auto Label Data"
	XAxisPercentage    = "X Axis Percentage Adjustment"
	YAxisPercentage    = "Y Axis Percentage Adjustment"
	ShowAIConfidence   = "Show AI Confidence"
)

// Keybind names.
const (
	AimKeybind       = "Aim Keybind"
	SecondAimKeybind = "Second Aim Keybind"
)

// Slider names.
const (
	FOVSize          = "FOV Size"
	MinConfidence    = "AI Minimum Confidence"
	XOffset          = "X Offset (Left/Right)"
	YOffset          = "Y Offset (Up/Down)"
	XOffsetPercent   = "X Offset (%)"
	YOffsetPercent   = "Y Offset (%)"
	MouseSensitivity = "Mouse Sensitivity"
)

// Dropdown names.
const (
	DetectionAreaType = "Detection Area Type"
	Alignment         = "Aiming Boundaries Alignment"
	PredictionMethod  = "Prediction Method"
)

// Detection area choices.
const (
	AreaClosestToCenter = "Closest to Center Screen"
	AreaClosestToMouse  = "Closest to Mouse"
)

func defaultToggles() map[string]bool {
	return map[string]bool{
		AimAssist:          false,
		ShowDetectedPlayer: false,
		AutoTrigger:        false,
		ConstantTracking:   false,
		Predictions:        false,
		FOV:                false,
		CollectData:        false,
		AutoLabelData:      false,
		XAxisPercentage:    false,
		YAxisPercentage:    false,
		ShowAIConfidence:   false,
	}
}

func defaultBindings() map[string]string {
	return map[string]string{
		AimKeybind:       "Right",
		SecondAimKeybind: "LMenu",
	}
}

func defaultSliders() map[string]float64 {
	return map[string]float64{
		FOVSize:          640,
		MinConfidence:    45,
		XOffset:          0,
		YOffset:          0,
		XOffsetPercent:   50,
		YOffsetPercent:   50,
		MouseSensitivity: 0.8,
	}
}

func defaultDropdowns() map[string]string {
	return map[string]string{
		DetectionAreaType: AreaClosestToCenter,
		Alignment:         "Center",
		PredictionMethod:  "Kalman Filter",
	}
}

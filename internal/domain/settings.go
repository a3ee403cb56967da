package domain

// DeviceSettings holds per device tunables that survive reconnects,
// calibration baselines and the prediction acceptance threshold.
type DeviceSettings struct {
	ID            string    `json:"id"`
	Straight      []float64 `json:"straight,omitempty"`
	Bent          []float64 `json:"bent,omitempty"`
	MinConfidence float64   `json:"minConfidence,omitempty"`
}

// HasCalibration reports whether both baseline vectors are present.
func (s *DeviceSettings) HasCalibration() bool {
	return s != nil && len(s.Straight) > 0 && len(s.Bent) > 0
}

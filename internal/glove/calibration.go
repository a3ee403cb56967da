package glove

import "fmt"

// Calibration holds per channel flex sensor baselines. Straight is the ADC
// reading with the finger fully extended, Bent with the finger fully curled.
// On the reference hardware straight readings are higher than bent ones.
type Calibration struct {
	Straight Sample
	Bent     Sample
}

// DefaultCalibration returns factory baselines for the reference glove.
func DefaultCalibration() Calibration {
	return Calibration{
		Straight: Sample{2700, 1650, 1850, 2110, 2125},
		Bent:     Sample{1500, 850, 1000, 1150, 1200},
	}
}

// NewCalibration builds a calibration from wire slices.
func NewCalibration(straight, bent []float64) (Calibration, error) {
	var res Calibration
	if len(straight) != NumChannels || len(bent) != NumChannels {
		return res, fmt.Errorf("wrong calibration vector len %d/%d, expected %d", len(straight), len(bent), NumChannels)
	}
	copy(res.Straight[:], straight)
	copy(res.Bent[:], bent)
	return res, nil
}

// Normalize maps a raw sample to per channel bend fractions. 0 means fully
// straight, 1 fully bent. Channels with a degenerate calibration range map
// to 0 instead of exploding.
func (c Calibration) Normalize(raw Sample) Sample {
	var res Sample
	for i := 0; i < NumChannels; i++ {
		rng := c.Straight[i] - c.Bent[i]
		if rng < 1 && rng > -1 {
			res[i] = 0
			continue
		}
		v := (c.Straight[i] - raw[i]) / rng
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		res[i] = v
	}
	return res
}

// LooksRaw reports whether the sample is an uncalibrated ADC reading.
// Normalized samples stay within [0, 1], so any channel far above that
// marks the whole sample as raw.
func LooksRaw(s Sample, threshold float64) bool {
	for _, v := range s {
		if v > threshold {
			return true
		}
	}
	return false
}

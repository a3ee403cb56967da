package glove

import (
	"fmt"
	"strconv"
	"strings"
)

// NumChannels is the number of flex sensor channels on the glove,
// one per finger starting from the thumb.
const NumChannels = 5

// Sample holds one reading of all flex channels. Values are either raw ADC
// readings or normalized bend fractions in [0, 1], see Calibration.
type Sample [NumChannels]float64

// ParseSample reads one CSV line of channel values.
func ParseSample(line string) (Sample, error) {
	var res Sample
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != NumChannels {
		return res, fmt.Errorf("wrong channel count %d, expected %d", len(parts), NumChannels)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return res, fmt.Errorf("can't parse channel %d: %w", i+1, err)
		}
		res[i] = v
	}
	return res, nil
}

// CSV formats the sample as one comma separated line.
func (s Sample) CSV() string {
	sb := strings.Builder{}
	for i, v := range s {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return sb.String()
}

// Floats returns the sample as a plain slice for wire encoding.
func (s Sample) Floats() []float64 {
	res := make([]float64, NumChannels)
	copy(res, s[:])
	return res
}

package glove

// Stabilizer turns a stream of per window predictions into letter commits.
// A letter commits once it was seen in enough consecutive predictions with
// sufficient confidence, and only once per streak. Any differing prediction
// resets the streak, so holding the same gesture commits the letter exactly
// once no matter how long it is held.
type Stabilizer struct {
	need     int
	letter   string
	count    int
	consumed bool
}

// NewStabilizer creates a stabilizer requiring need consecutive agreements.
func NewStabilizer(need int) *Stabilizer {
	return &Stabilizer{need: need}
}

// Observe feeds one prediction and reports whether the letter should be
// committed now.
func (s *Stabilizer) Observe(letter string, confidence, minConfidence float64) bool {
	if letter != s.letter {
		s.letter = letter
		s.count = 0
		s.consumed = false
	}
	s.count++
	if s.count >= s.need && !s.consumed && confidence >= minConfidence {
		s.consumed = true
		return true
	}
	return false
}

// Streak returns the currently tracked letter and its run length.
func (s *Stabilizer) Streak() (string, int) {
	return s.letter, s.count
}

// Reset clears the tracked streak.
func (s *Stabilizer) Reset() {
	s.letter = ""
	s.count = 0
	s.consumed = false
}

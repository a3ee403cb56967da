package glove

// BatchBuffer accumulates samples up to a fixed target and emits them as one
// observation. Used for explicitly armed captures in single shot and demo
// paced recognition.
type BatchBuffer struct {
	target  int
	samples []Sample
}

// NewBatchBuffer creates a buffer emitting after target samples.
func NewBatchBuffer(target int) *BatchBuffer {
	return &BatchBuffer{target: target, samples: make([]Sample, 0, target)}
}

// Add appends a sample. When the buffer reaches its target it returns the
// collected observation and leaves the buffer empty for the next capture.
func (b *BatchBuffer) Add(s Sample) ([]Sample, bool) {
	b.samples = append(b.samples, s)
	if len(b.samples) < b.target {
		return nil, false
	}
	res := b.samples
	b.samples = make([]Sample, 0, b.target)
	return res, true
}

// Fill returns the current fill level and the target.
func (b *BatchBuffer) Fill() (int, int) {
	return len(b.samples), b.target
}

// Reset drops buffered samples and sets a new target.
func (b *BatchBuffer) Reset(target int) {
	b.target = target
	b.samples = b.samples[:0]
}

// RollingWindow keeps the most recent samples for continuous recognition.
// Old samples fall out as new ones arrive.
type RollingWindow struct {
	size    int
	samples []Sample
}

// NewRollingWindow creates a window holding size samples.
func NewRollingWindow(size int) *RollingWindow {
	return &RollingWindow{size: size, samples: make([]Sample, 0, size)}
}

// Add appends a sample, evicting the oldest one once the window is full.
func (w *RollingWindow) Add(s Sample) {
	if len(w.samples) == w.size {
		copy(w.samples, w.samples[1:])
		w.samples[len(w.samples)-1] = s
		return
	}
	w.samples = append(w.samples, s)
}

// Full reports whether the window holds size samples.
func (w *RollingWindow) Full() bool {
	return len(w.samples) == w.size
}

// Len returns the current sample count.
func (w *RollingWindow) Len() int {
	return len(w.samples)
}

// Snapshot copies the window content oldest first. The window keeps rolling
// while the copy is classified.
func (w *RollingWindow) Snapshot() []Sample {
	res := make([]Sample, len(w.samples))
	copy(res, w.samples)
	return res
}

// Reset drops all buffered samples.
func (w *RollingWindow) Reset() {
	w.samples = w.samples[:0]
}

package api

// Prediction is the result of classifying one observation. The snake_case
// fields mirror the classifier service response, the kebab-case ones are
// filled by the wrapper.
type Prediction struct {
	Letter        string             `json:"letter"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"all_probabilities,omitempty"`
	ProcessingMs  float64            `json:"processing_time_ms,omitempty"`
	ModelName     string             `json:"model_name,omitempty"`
	Timestamp     float64            `json:"timestamp,omitempty"`

	ObservationID string  `json:"observation-id,omitempty"`
	RoundTripMs   float64 `json:"round-trip-ms,omitempty"`
}

// Message is a control message sent by a glove client or an ingress adapter.
type Message struct {
	Event      string    `json:"event"`
	Straight   []float64 `json:"straight,omitempty"`
	Bent       []float64 `json:"bent,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Word       string    `json:"word,omitempty"`
}

// Update is pushed to glove and state subscribers on every observable change.
type Update struct {
	Event         string        `json:"event"`
	Device        string        `json:"device,omitempty"`
	Mode          string        `json:"mode,omitempty"`
	Word          string        `json:"word"`
	Finalized     bool          `json:"finalized"`
	Connected     bool          `json:"connected,omitempty"`
	Capturing     bool          `json:"capturing,omitempty"`
	InFlight      bool          `json:"in-flight,omitempty"`
	Fill          int           `json:"fill,omitempty"`
	Target        int           `json:"target,omitempty"`
	Sample        []float64     `json:"sample,omitempty"`
	Letter        string        `json:"letter,omitempty"`
	Prediction    *Prediction   `json:"prediction,omitempty"`
	History       []*Prediction `json:"history,omitempty"`
	Error         string        `json:"error,omitempty"`
	MinConfidence float64       `json:"min-confidence,omitempty"`
	DemoWord      string        `json:"demo-word,omitempty"`
}

// DemoRequest starts a scripted demo for a device.
type DemoRequest struct {
	Device string `json:"device"`
	Word   string `json:"word"`
}

const (
	EventModeSingle     = "MODE_SINGLE"
	EventModeContinuous = "MODE_CONTINUOUS"
	EventStartCapture   = "START_CAPTURE"
	EventStopCapture    = "STOP_CAPTURE"
	EventClearWord      = "CLEAR_WORD"
	EventDeleteLast     = "DELETE_LAST"
	EventConnected      = "DEVICE_CONNECTED"
	EventDisconnected   = "DEVICE_DISCONNECTED"
	EventSetCalibration = "SET_CALIBRATION"
	EventSetConfidence  = "SET_CONFIDENCE"
	EventStartDemo      = "START_DEMO"
)

const (
	EventState    = "STATE"
	EventSample   = "SAMPLE"
	EventLetter   = "LETTER"
	EventWord     = "WORD"
	EventError    = "ERROR"
	EventDemoDone = "DEMO_DONE"
)

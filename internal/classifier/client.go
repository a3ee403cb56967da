package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/oklog/ulid/v2"
	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
	"github.com/signspeak/rt-glove-wrapper/internal/utils"
)

// Client communicates with the gesture classifier service
type Client struct {
	httpclient *http.Client
	url        string
	timeout    time.Duration
}

// NewClient creates a classifier client
func NewClient(url string, timeout time.Duration) (*Client, error) {
	res := Client{}
	if url == "" {
		return nil, fmt.Errorf("no classifier URL")
	}
	res.url = url
	res.timeout = timeout
	if res.timeout <= 0 {
		res.timeout = time.Second * 3
	}
	res.httpclient = classifierHTTPClient()
	goapp.Log.Info().Str("url", url).Msg("Classifier")
	return &res, nil
}

// Classify sends one observation and returns the letter prediction. Every
// failure comes back as *Error so callers can report it uniformly.
func (cl *Client) Classify(ctx context.Context, samples []glove.Sample, device string) (*api.Prediction, error) {
	now := time.Now()
	defer utils.MeasureTime("classify", now)
	ctx, cancelF := context.WithTimeout(ctx, cl.timeout)
	defer cancelF()

	id := ulid.Make().String()
	data := make([][]float64, 0, len(samples))
	for _, s := range samples {
		data = append(data, s.Floats())
	}
	b := new(bytes.Buffer)
	err := json.NewEncoder(b).Encode(request{Samples: data, DeviceID: device, ObservationID: id})
	if err != nil {
		return nil, newError("can't encode request", err)
	}
	req, err := http.NewRequest(http.MethodPost, cl.url, b)
	if err != nil {
		return nil, newError("can't prepare request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(ctx)
	resp, err := cl.httpclient.Do(req)
	if err != nil {
		return nil, newError(fmt.Sprintf("can't invoke '%s'", req.URL.String()), err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1000))
		_ = resp.Body.Close()
	}()
	if err := goapp.ValidateHTTPResp(resp, 100); err != nil {
		return nil, newError(fmt.Sprintf("can't invoke '%s'", req.URL.String()), err)
	}
	res := &api.Prediction{}
	err = json.NewDecoder(resp.Body).Decode(&res)
	if err != nil {
		return nil, newError("can't decode response", err)
	}
	if res.Letter == "" {
		return nil, newError("no letter in response", nil)
	}
	res.ObservationID = id
	res.RoundTripMs = float64(time.Since(now).Microseconds()) / 1000
	goapp.Log.Debug().Str("letter", res.Letter).Float64("confidence", res.Confidence).
		Str("id", id).Msg("classified")
	return res, nil
}

type request struct {
	Samples       [][]float64 `json:"samples"`
	DeviceID      string      `json:"device_id,omitempty"`
	ObservationID string      `json:"observation_id,omitempty"`
}

// Error wraps any classification failure, transport, HTTP status or
// malformed body alike.
type Error struct {
	msg string
	err error
}

func newError(msg string, err error) *Error {
	return &Error{msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func classifierHTTPClient() *http.Client {
	return &http.Client{Transport: newTransport()}
}

func newTransport() http.RoundTripper {
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 5
	res.MaxIdleConns = 2
	res.MaxIdleConnsPerHost = 2
	res.IdleConnTimeout = 90 * time.Second
	return res
}

package glove

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/signspeak/rt-glove-wrapper/internal/api"
)

// fakeSource encodes the letter into the first channel so the echo
// classifier can return it back.
type fakeSource struct {
	failOn rune
}

func (f *fakeSource) LetterSamples(letter rune, n int) ([]Sample, error) {
	if letter == f.failOn {
		return nil, fmt.Errorf("no pose for letter %q", letter)
	}
	res := make([]Sample, n)
	for i := range res {
		res[i] = Sample{float64(letter), 0, 0, 0, 0}
	}
	return res, nil
}

func echoClassifier() *fakeClassifier {
	return &fakeClassifier{fn: func(samples []Sample) (*api.Prediction, error) {
		return &api.Prediction{Letter: string(rune(samples[0][0])), Confidence: 0.9}, nil
	}}
}

func newTestDriver(t *testing.T, src SampleSource) (*DemoDriver, *Controller, *updateSink) {
	t.Helper()
	// raw threshold above the letter codes keeps the samples untouched
	c, sink := newTestController(t, Config{DemoBatchSize: 2, RawThreshold: 1000}, echoClassifier())
	d := NewDemoDriver(c, src, NewAlphabet(""), DemoConfig{
		SampleInterval: time.Millisecond, LetterPause: time.Millisecond, CompletionTimeout: time.Second})
	return d, c, sink
}

func TestDemoDriver_Start(t *testing.T) {
	d, c, sink := newTestDriver(t, &fakeSource{})

	got, err := d.Start(context.Background(), " ab!")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if got != "AB" {
		t.Fatalf("Start() = %q, want AB", got)
	}
	waitFor(t, func() bool { return !d.ctrl.DemoActive() && c.Word() == "AB" })
	if up := sink.last(api.EventDemoDone); up == nil || up.DemoWord != "AB" {
		t.Errorf("demo done update = %+v, want demo word AB", up)
	}
}

func TestDemoDriver_StartValidates(t *testing.T) {
	d, _, _ := newTestDriver(t, &fakeSource{})
	if _, err := d.Start(context.Background(), "123"); err == nil {
		t.Error("Start() succeeded for an unsupportable word")
	}
	if d.ctrl.DemoActive() {
		t.Error("demo left active after a rejected word")
	}
}

func TestDemoDriver_StartBusy(t *testing.T) {
	d, _, _ := newTestDriver(t, &fakeSource{})
	if _, err := d.Start(context.Background(), "ABCD"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if _, err := d.Start(context.Background(), "A"); !errors.Is(err, ErrDemoRunning) {
		t.Errorf("Start() = %v, want ErrDemoRunning", err)
	}
	waitFor(t, func() bool { return !d.ctrl.DemoActive() })
}

func TestDemoDriver_SkipsFailedLetter(t *testing.T) {
	d, c, _ := newTestDriver(t, &fakeSource{failOn: 'C'})

	got, err := d.Start(context.Background(), "ACB")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if got != "ACB" {
		t.Fatalf("Start() = %q, want ACB", got)
	}
	waitFor(t, func() bool { return !d.ctrl.DemoActive() })
	if w := c.Word(); w != "AB" {
		t.Errorf("Word() = %q, want AB with the failed letter skipped", w)
	}
}

func TestDemoDriver_ContextCancel(t *testing.T) {
	d, _, sink := newTestDriver(t, &fakeSource{})
	ctx, cancel := context.WithCancel(context.Background())

	if _, err := d.Start(ctx, "AAAAAAAA"); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	cancel()
	waitFor(t, func() bool { return !d.ctrl.DemoActive() })
	if up := sink.last(api.EventDemoDone); up == nil {
		t.Error("no demo done update after cancel")
	}
}

// Package main provides a CLI that feeds simulated glove traffic to the wrapper service.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/signspeak/rt-glove-wrapper/internal/api"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
	"github.com/signspeak/rt-glove-wrapper/internal/simulate"
)

const (
	defaultWSURL   = "ws://localhost:8000"
	defaultHTTPURL = "http://localhost:8000"
	defaultDevice  = "sim-1"
	defaultRate    = 50
	defaultNoise   = 0.02
	defaultSamples = 120
	defaultBatch   = 100
	restSamples    = 30
)

var (
	streamURL     string
	streamDevice  string
	streamWord    string
	streamRate    int
	streamNoise   float64
	streamSamples int
	streamRaw     bool

	singleURL    string
	singleDevice string
	singleLetter string
	singleRate   int
	singleNoise  float64
	singleCount  int

	demoURL    string
	demoDevice string
	demoWord   string

	stateURL    string
	stateDevice string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "glove-sim",
		Short:        "Simulated sign glove client",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newStreamCmd())
	rootCmd.AddCommand(newSingleCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newStateCmd())
	return rootCmd
}

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream a word letter by letter in continuous mode",
		Args:  cobra.NoArgs,
		RunE:  runStreamCmd,
	}
	cmd.Flags().StringVar(&streamURL, "url", defaultWSURL, "service websocket URL")
	cmd.Flags().StringVar(&streamDevice, "device", defaultDevice, "device ID")
	cmd.Flags().StringVar(&streamWord, "word", "ALFA", "word to sign")
	cmd.Flags().IntVar(&streamRate, "rate", defaultRate, "samples per second")
	cmd.Flags().Float64Var(&streamNoise, "noise", defaultNoise, "sensor noise amplitude (0-1)")
	cmd.Flags().IntVar(&streamSamples, "samples", defaultSamples, "samples held per letter")
	cmd.Flags().BoolVar(&streamRaw, "raw", false, "send raw ADC values instead of normalized")
	return cmd
}

func runStreamCmd(_ *cobra.Command, _ []string) error {
	letters, err := glove.NewAlphabet("").Validate(streamWord)
	if err != nil {
		return err
	}
	gen := simulate.New(streamNoise)

	conn, err := dial(streamURL, streamDevice)
	if err != nil {
		return err
	}
	defer conn.Close()

	wordCh := make(chan string, 1)
	go readUpdates(conn, wordCh)

	if streamRaw {
		if err := sendEvent(conn, &api.Message{Event: api.EventConnected}); err != nil {
			return err
		}
	}

	interval := time.Second / time.Duration(streamRate)
	for i, l := range letters {
		if i > 0 {
			if err := sendSamples(conn, gen.RestSamples(restSamples), interval, streamRaw); err != nil {
				return err
			}
		}
		fmt.Printf("signing %c\n", l)
		samples, err := gen.LetterSamples(l, streamSamples)
		if err != nil {
			return err
		}
		if err := sendSamples(conn, samples, interval, streamRaw); err != nil {
			return err
		}
	}

	fmt.Println("waiting for word")
	select {
	case w := <-wordCh:
		fmt.Printf("final word: %s\n", w)
	case <-time.After(10 * time.Second):
		return fmt.Errorf("no word after 10s")
	}
	return nil
}

func newSingleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Capture one letter in single shot mode",
		Args:  cobra.NoArgs,
		RunE:  runSingleCmd,
	}
	cmd.Flags().StringVar(&singleURL, "url", defaultWSURL, "service websocket URL")
	cmd.Flags().StringVar(&singleDevice, "device", defaultDevice, "device ID")
	cmd.Flags().StringVar(&singleLetter, "letter", "A", "letter to sign")
	cmd.Flags().IntVar(&singleRate, "rate", defaultRate, "samples per second")
	cmd.Flags().Float64Var(&singleNoise, "noise", defaultNoise, "sensor noise amplitude (0-1)")
	cmd.Flags().IntVar(&singleCount, "count", defaultBatch, "samples to send, must match the service batch size")
	return cmd
}

func runSingleCmd(_ *cobra.Command, _ []string) error {
	rs := []rune(strings.ToUpper(strings.TrimSpace(singleLetter)))
	if len(rs) != 1 {
		return fmt.Errorf("wrong letter '%s'", singleLetter)
	}
	gen := simulate.New(singleNoise)
	samples, err := gen.LetterSamples(rs[0], singleCount)
	if err != nil {
		return err
	}

	conn, err := dial(singleURL, singleDevice)
	if err != nil {
		return err
	}
	defer conn.Close()

	letterCh := make(chan string, 1)
	go readLetters(conn, letterCh)

	if err := sendEvent(conn, &api.Message{Event: api.EventModeSingle}); err != nil {
		return err
	}
	if err := sendEvent(conn, &api.Message{Event: api.EventStartCapture}); err != nil {
		return err
	}
	interval := time.Second / time.Duration(singleRate)
	if err := sendSamples(conn, samples, interval, false); err != nil {
		return err
	}

	select {
	case l := <-letterCh:
		fmt.Printf("got letter: %s\n", l)
	case <-time.After(10 * time.Second):
		return fmt.Errorf("no letter after 10s")
	}
	return nil
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Ask the service to play a scripted demo word",
		Args:  cobra.NoArgs,
		RunE:  runDemoCmd,
	}
	cmd.Flags().StringVar(&demoURL, "url", defaultHTTPURL, "service HTTP URL")
	cmd.Flags().StringVar(&demoDevice, "device", defaultDevice, "device ID")
	cmd.Flags().StringVar(&demoWord, "word", "ALFA", "word to play")
	return cmd
}

func runDemoCmd(_ *cobra.Command, _ []string) error {
	b, err := json.Marshal(api.DemoRequest{Device: demoDevice, Word: demoWord})
	if err != nil {
		return fmt.Errorf("can't marshal request: %w", err)
	}
	resp, err := http.Post(demoURL+"/demo", "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("can't invoke '%s': %w", demoURL+"/demo", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 10000))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wrong response code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	fmt.Printf("playing: %s\n", strings.TrimSpace(string(body)))
	return nil
}

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the current session state",
		Args:  cobra.NoArgs,
		RunE:  runStateCmd,
	}
	cmd.Flags().StringVar(&stateURL, "url", defaultHTTPURL, "service HTTP URL")
	cmd.Flags().StringVar(&stateDevice, "device", defaultDevice, "device ID")
	return cmd
}

func runStateCmd(_ *cobra.Command, _ []string) error {
	u := stateURL + "/state/" + url.PathEscape(stateDevice)
	resp, err := http.Get(u)
	if err != nil {
		return fmt.Errorf("can't invoke '%s': %w", u, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 100000))
	if err != nil {
		return fmt.Errorf("can't read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wrong response code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return fmt.Errorf("can't decode response: %w", err)
	}
	fmt.Println(out.String())
	return nil
}

func dial(base, device string) (*websocket.Conn, error) {
	u := base + "/client/ws/glove?device=" + url.QueryEscape(device)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return nil, fmt.Errorf("can't dial '%s': %w", u, err)
	}
	return conn, nil
}

func sendEvent(conn *websocket.Conn, msg *api.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("can't marshal event: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("can't send event: %w", err)
	}
	return nil
}

func sendSamples(conn *websocket.Conn, samples []glove.Sample, interval time.Duration, raw bool) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for _, s := range samples {
		<-ticker.C
		if raw {
			s = denormalize(s)
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(s.CSV())); err != nil {
			return fmt.Errorf("can't send sample: %w", err)
		}
	}
	return nil
}

// denormalize maps bend fractions back onto the default ADC range,
// as if they came from an uncalibrated glove.
func denormalize(s glove.Sample) glove.Sample {
	cal := glove.DefaultCalibration()
	var res glove.Sample
	for i := 0; i < glove.NumChannels; i++ {
		res[i] = cal.Straight[i] - s[i]*(cal.Straight[i]-cal.Bent[i])
	}
	return res
}

func readUpdates(conn *websocket.Conn, wordCh chan<- string) {
	for {
		upd, err := readUpdate(conn)
		if err != nil {
			return
		}
		switch upd.Event {
		case api.EventLetter:
			if upd.Prediction != nil {
				fmt.Printf("  letter %s (%.2f)\n", upd.Letter, upd.Prediction.Confidence)
			} else {
				fmt.Printf("  letter %s\n", upd.Letter)
			}
		case api.EventWord:
			fmt.Printf("  word %s\n", upd.Word)
			if upd.Finalized {
				select {
				case wordCh <- upd.Word:
				default:
				}
			}
		case api.EventError:
			fmt.Fprintf(os.Stderr, "  error: %s\n", upd.Error)
		}
	}
}

func readLetters(conn *websocket.Conn, letterCh chan<- string) {
	for {
		upd, err := readUpdate(conn)
		if err != nil {
			return
		}
		if upd.Event == api.EventLetter {
			select {
			case letterCh <- upd.Letter:
			default:
			}
		}
	}
}

func readUpdate(conn *websocket.Conn) (*api.Update, error) {
	_, b, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	res := &api.Update{}
	if err := json.Unmarshal(b, res); err != nil {
		return nil, fmt.Errorf("can't decode update: %w", err)
	}
	return res, nil
}

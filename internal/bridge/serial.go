package bridge

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/airenas/go-app/pkg/goapp"
	serial "github.com/jacobsa/go-serial/serial"
	"github.com/signspeak/rt-glove-wrapper/internal/glove"
)

// SerialSource reads CSV sample lines from a microcontroller on a serial
// port. The firmware paces the stream, one line per sample.
type SerialSource struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader
}

// NewSerialSource opens the port.
func NewSerialSource(portName string, baud uint) (*SerialSource, error) {
	if portName == "" {
		portName = "/dev/ttyUSB0"
	}
	if baud == 0 {
		baud = 115200
	}
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baud,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", portName, err)
	}
	goapp.Log.Info().Str("port", portName).Uint("baud", baud).Msg("serial opened")
	return &SerialSource{port: port, reader: bufio.NewReader(port)}, nil
}

// Read returns the next parsable sample line, skipping noise.
func (s *SerialSource) Read() (glove.Sample, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return glove.Sample{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		smp, err := glove.ParseSample(line)
		if err != nil {
			goapp.Log.Warn().Err(err).Msg("skip line")
			continue
		}
		return smp, nil
	}
}

func (s *SerialSource) Close() error {
	return s.port.Close()
}

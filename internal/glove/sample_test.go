package glove

import (
	"testing"
)

func TestParseSample(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Sample
		wantErr bool
	}{
		{name: "raw", line: "2700,1650,1850,2110,2125", want: Sample{2700, 1650, 1850, 2110, 2125}},
		{name: "normalized", line: "0.1,0.2,0.3,0.4,0.5", want: Sample{0.1, 0.2, 0.3, 0.4, 0.5}},
		{name: "spaces", line: " 1, 2 ,3 , 4,5 ", want: Sample{1, 2, 3, 4, 5}},
		{name: "trailing newline", line: "1,2,3,4,5\n", want: Sample{1, 2, 3, 4, 5}},
		{name: "too few", line: "1,2,3,4", wantErr: true},
		{name: "too many", line: "1,2,3,4,5,6", wantErr: true},
		{name: "not a number", line: "1,2,x,4,5", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := ParseSample(tt.line)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("ParseSample() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("ParseSample() succeeded unexpectedly")
			}
			if got != tt.want {
				t.Errorf("ParseSample() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSample_CSVRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
	}{
		{name: "raw", sample: Sample{2700, 1650, 1850, 2110, 2125}},
		{name: "fractions", sample: Sample{0.05, 0.3, 0.95, 0, 1}},
		{name: "zero", sample: Sample{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSample(tt.sample.CSV())
			if err != nil {
				t.Fatalf("ParseSample() failed: %v", err)
			}
			if got != tt.sample {
				t.Errorf("ParseSample(CSV()) = %v, want %v", got, tt.sample)
			}
		})
	}
}

func TestSample_Floats(t *testing.T) {
	s := Sample{1, 2, 3, 4, 5}
	got := s.Floats()
	if len(got) != NumChannels {
		t.Fatalf("Floats() len = %d, want %d", len(got), NumChannels)
	}
	got[0] = 99
	if s[0] != 1 {
		t.Errorf("Floats() shares storage with the sample")
	}
}

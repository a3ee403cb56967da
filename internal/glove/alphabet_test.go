package glove

import (
	"testing"
)

func TestNewAlphabet(t *testing.T) {
	tests := []struct {
		name    string
		letters string
		want    string
	}{
		{name: "default", letters: "", want: DefaultLetters},
		{name: "custom", letters: "ABC", want: "ABC"},
		{name: "lowercase", letters: "abc", want: "ABC"},
		{name: "duplicates", letters: "AABBA", want: "AB"},
		{name: "drops non letters", letters: "A1B-C ", want: "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAlphabet(tt.letters).String(); got != tt.want {
				t.Errorf("NewAlphabet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlphabet_Filter(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		wantOK  string
		wantBad string
	}{
		{name: "all supported", word: "CAB", wantOK: "CAB"},
		{name: "lowercase", word: "cab", wantOK: "CAB"},
		{name: "mixed", word: "JACK", wantOK: "ACK", wantBad: "J"},
		{name: "bad deduplicated", word: "JAZZY", wantOK: "AY", wantBad: "JZ"},
		{name: "spaces skipped", word: " A B ", wantOK: "AB"},
		{name: "nothing supported", word: "JZ", wantBad: "JZ"},
	}
	a := NewAlphabet("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, bad := a.Filter(tt.word)
			if string(ok) != tt.wantOK {
				t.Errorf("Filter() ok = %q, want %q", string(ok), tt.wantOK)
			}
			if string(bad) != tt.wantBad {
				t.Errorf("Filter() bad = %q, want %q", string(bad), tt.wantBad)
			}
		})
	}
}

func TestAlphabet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		want    string
		wantErr bool
	}{
		{name: "ok", word: "ALFA", want: "ALFA"},
		{name: "filtered", word: "JAZZ", want: "A"},
		{name: "nothing left", word: "JZ", wantErr: true},
		{name: "empty", word: "", wantErr: true},
	}
	a := NewAlphabet("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := a.Validate(tt.word)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Validate() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Validate() succeeded unexpectedly")
			}
			if string(got) != tt.want {
				t.Errorf("Validate() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestAlphabet_Contains(t *testing.T) {
	a := NewAlphabet("AB")
	if !a.Contains('A') || !a.Contains('B') {
		t.Error("Contains() = false for supported letter")
	}
	if a.Contains('C') || a.Contains('a') {
		t.Error("Contains() = true for unsupported letter")
	}
}

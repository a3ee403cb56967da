package service

import (
	"testing"

	"github.com/signspeak/rt-glove-wrapper/internal/feedback"
)

func Test_validate(t *testing.T) {
	cues, err := feedback.NewCues()
	if err != nil {
		t.Fatalf("NewCues() failed: %v", err)
	}
	full := func() *Data {
		r := &Registry{}
		return &Data{Registry: r, WSHandlerGlove: NewWSGloveHandler(r), WSHandlerState: NewWSStateHandler(r), Cues: cues}
	}
	tests := []struct {
		name    string
		data    *Data
		wantErr bool
	}{
		{name: "ok", data: full()},
		{name: "no registry", data: func() *Data { d := full(); d.Registry = nil; return d }(), wantErr: true},
		{name: "no glove handler", data: func() *Data { d := full(); d.WSHandlerGlove = nil; return d }(), wantErr: true},
		{name: "no state handler", data: func() *Data { d := full(); d.WSHandlerState = nil; return d }(), wantErr: true},
		{name: "no cues", data: func() *Data { d := full(); d.Cues = nil; return d }(), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr := validate(tt.data)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("validate() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("validate() succeeded unexpectedly")
			}
		})
	}
}

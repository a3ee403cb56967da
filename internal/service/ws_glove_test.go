package service

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"
)

func Test_extractDeviceTxt(t *testing.T) {
	tests := []struct {
		name string // description of this test case
		// Named input parameters for target function.
		txt     string
		want    *device
		wantErr bool
	}{
		{name: "ok",
			txt: base64.StdEncoding.EncodeToString([]byte(`{"id":"glove-1"}`)),
			want: &device{
				ID: "glove-1",
			},
		},
		{name: "bad json",
			txt:     base64.StdEncoding.EncodeToString([]byte(`{"id":"glove-1"`)),
			wantErr: true,
		},
		{name: "no id",
			txt:     base64.StdEncoding.EncodeToString([]byte(`{}`)),
			wantErr: true,
		},
		{name: "no padding",
			txt:     base64.RawStdEncoding.EncodeToString([]byte(`{"id":"glove-1"}`)),
			wantErr: true,
		},
		{name: "bad base64",
			txt:     "%%%$$$",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := extractDeviceTxt(tt.txt)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("extractDeviceTxt() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("extractDeviceTxt() succeeded unexpectedly")
			}
			if got.ID != tt.want.ID {
				t.Errorf("extractDeviceTxt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_extractDevice(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{name: "plain", query: "device=glove-1", want: "glove-1"},
		{name: "base64", query: "device=" + base64.StdEncoding.EncodeToString([]byte(`{"id":"glove-2"}`)), want: "glove-2"},
		{name: "base64 without id falls back to plain",
			query: "device=" + base64.StdEncoding.EncodeToString([]byte(`{}`)),
			want:  base64.StdEncoding.EncodeToString([]byte(`{}`))},
		{name: "missing", query: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/client/ws/glove?"+tt.query, nil)
			got, gotErr := extractDevice(req)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("extractDevice() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("extractDevice() succeeded unexpectedly")
			}
			if got != tt.want {
				t.Errorf("extractDevice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_decode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr bool
	}{
		{name: "ok", data: `{"event":"CLEAR_WORD"}`, want: "CLEAR_WORD"},
		{name: "with payload", data: `{"event":"SET_CONFIDENCE","confidence":0.7}`, want: "SET_CONFIDENCE"},
		{name: "bad json", data: `{"event":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := decode(tt.data)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("decode() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("decode() succeeded unexpectedly")
			}
			if got.Event != tt.want {
				t.Errorf("decode() event = %q, want %q", got.Event, tt.want)
			}
		})
	}
}

package secure_test

import (
	"testing"

	"github.com/signspeak/rt-glove-wrapper/internal/secure"
)

func TestNewCrypter(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
		wantErr    bool
	}{
		{name: "ok", passphrase: "glove-settings-key-0123456789", wantErr: false},
		{name: "exactly 16", passphrase: "0123456789abcdef", wantErr: false},
		{name: "too short", passphrase: "short", wantErr: true},
		{name: "empty", passphrase: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := secure.NewCrypter(tt.passphrase)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCrypter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCrypter_EncryptDecrypt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"simple", []byte("some data")},
		{"empty", []byte("")},
		{"settings json", []byte(`{"id":"glove-1","minConfidence":0.7,"straight":[3100,3150,3000,3200,3050]}`)},
		{"nil", nil},
		{"non ascii", []byte("ñandú")},
		{"non writable", []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8, 0xf7, 0xf6, 0xf5, 0xf4, 0xf3, 0xf2, 0xf1, 0xf0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := secure.NewCrypter("testkey12345678901234567890123456")
			if err != nil {
				t.Fatalf("could not construct receiver type: %v", err)
			}
			encrypted, err := c.Encrypt(tt.data)
			if err != nil {
				t.Fatalf("Encrypt() failed: %v", err)
			}
			if len(tt.data) > 0 && string(encrypted) == string(tt.data) {
				t.Errorf("Not encrypted = %v, want %v", string(encrypted), string(tt.data))
			}
			decrypted, err := c.Decrypt(encrypted)
			if err != nil {
				t.Errorf("Decrypt() failed: %v", err)
				return
			}
			if string(decrypted) != string(tt.data) {
				t.Errorf("Decrypt() = %v, want %v", string(decrypted), string(tt.data))
			}
		})
	}
}

func TestCrypter_DecryptFails(t *testing.T) {
	c, err := secure.NewCrypter("testkey12345678901234567890123456")
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	encrypted, err := c.Encrypt([]byte("some data"))
	if err != nil {
		t.Fatalf("Encrypt() failed: %v", err)
	}

	tampered := append([]byte{}, encrypted...)
	tampered[len(tampered)-1] ^= 0xff

	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte{0x01, 0x02}},
		{name: "tampered", data: tampered},
		{name: "garbage", data: []byte("not a ciphertext at all")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decrypt(tt.data); err == nil {
				t.Error("Decrypt() succeeded unexpectedly")
			}
		})
	}
}

func TestCrypter_WrongKey(t *testing.T) {
	c1, err := secure.NewCrypter("testkey12345678901234567890123456")
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	c2, err := secure.NewCrypter("otherkey2345678901234567890123456")
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	encrypted, err := c1.Encrypt([]byte("some data"))
	if err != nil {
		t.Fatalf("Encrypt() failed: %v", err)
	}
	if _, err := c2.Decrypt(encrypted); err == nil {
		t.Error("Decrypt() succeeded unexpectedly")
	}
}

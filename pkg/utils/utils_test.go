package utils

import (
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"
)

func TestNewULIDFromTimestampIsMonotonic(t *testing.T) {
	u := New()
	now := time.Now()

	first, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp error: %v", err)
	}
	second, err := u.NewULIDFromTimestamp(now)
	if err != nil {
		t.Fatalf("NewULIDFromTimestamp error: %v", err)
	}

	if len(first) != 26 {
		t.Errorf("ULID length = %d, want 26", len(first))
	}
	if second <= first {
		t.Errorf("ULIDs not increasing: %s then %s", first, second)
	}
}

func TestValidateImageFile(t *testing.T) {
	u := NewWithMaxFileSize(1024)

	header := func(contentType string, size int64) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", contentType)
		return &multipart.FileHeader{Filename: "smile.jpg", Header: h, Size: size}
	}

	tests := []struct {
		name string
		file *multipart.FileHeader
		want error
	}{
		{"missing", nil, ErrNoFile},
		{"too large", header("image/jpeg", 2048), ErrFileTooLarge},
		{"not an image", header("text/plain", 10), ErrNotAnImage},
		{"ok", header("image/jpeg", 512), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := u.ValidateImageFile(tt.file); !errors.Is(err, tt.want) {
				t.Errorf("ValidateImageFile = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeBase64Image(t *testing.T) {
	u := New()
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	encoded := base64.StdEncoding.EncodeToString(payload)

	for _, in := range []string{encoded, "data:image/jpeg;base64," + encoded} {
		got, err := u.DecodeBase64Image(in)
		if err != nil {
			t.Fatalf("DecodeBase64Image(%q) error: %v", in, err)
		}
		if string(got) != string(payload) {
			t.Errorf("DecodeBase64Image(%q) = %v", in, got)
		}
	}

	if _, err := u.DecodeBase64Image("data:text/plain;base64," + encoded); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("non-image data url error = %v", err)
	}
	if _, err := u.DecodeBase64Image("%%%"); err == nil {
		t.Error("invalid base64 should fail")
	}
}

package infrastructure

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n0000")
	jpegHeader = []byte("\xff\xd8\xff\xe0" + "0000")
	webpHeader = []byte("RIFF0000WEBPVP8 ")
)

func TestImageExtension(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
		wantErr  bool
	}{
		{"png", "image/png", pngHeader, "png", false},
		{"jpeg with params", "image/jpeg; charset=binary", jpegHeader, "jpg", false},
		{"jpg alias", "IMAGE/JPG", jpegHeader, "jpg", false},
		{"webp", "image/webp", webpHeader, "webp", false},
		{"declared png but jpeg", "image/png", jpegHeader, "", true},
		{"gif unsupported", "image/gif", []byte("GIF89a"), "", true},
		{"garbage type", ";;", pngHeader, "", true},
		{"text payload", "image/png", []byte("hello"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageExtension(tt.declared, tt.data)
			if tt.wantErr {
				if !errors.Is(err, e.ErrUnsupportedMediaType) {
					t.Fatalf("err = %v, want ErrUnsupportedMediaType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ext = %q, want %q", got, tt.want)
			}
		})
	}
}

package sniffer

import (
	"errors"
	"net/textproto"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		head string
		want Format
	}{
		{"\xff\xd8\xff\xe0\x00\x10JFIF", JPEG},
		{"\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", PNG},
		{"GIF89a\x01\x00", GIF},
		{"RIFF\x24\x00\x00\x00WEBPVP8 ", WEBP},
		{"\x00\x00\x00\x1cftypavif\x00\x00\x00\x00", AVIF},
		{"  <svg xmlns=\"http://www.w3.org/2000/svg\"/>", SVG},
		{"<?xml version=\"1.0\"?><svg></svg>", SVG},
	}
	for _, tc := range cases {
		got, err := Detect([]byte(tc.head))
		if err != nil {
			t.Fatalf("detect %q: %v", tc.head, err)
		}
		if got.Format != tc.want {
			t.Fatalf("detect %q: expected %s, got %s", tc.head, tc.want, got.Format)
		}
	}
}

func TestDetectRejectsNonImages(t *testing.T) {
	for _, head := range []string{"", "%PDF-1.7", "<?xml version=\"1.0\"?><note/>", "plain text"} {
		if _, err := Detect([]byte(head)); !errors.Is(err, ErrNotImage) {
			t.Fatalf("expected ErrNotImage for %q, got %v", head, err)
		}
	}
}

func TestDeclaredType(t *testing.T) {
	header := textproto.MIMEHeader{}
	if DeclaredType(header) != "" {
		t.Fatalf("expected empty declared type")
	}
	header.Set("Content-Type", "image/png; charset=binary")
	if got := DeclaredType(header); got != "image/png" {
		t.Fatalf("expected image/png, got %s", got)
	}
}

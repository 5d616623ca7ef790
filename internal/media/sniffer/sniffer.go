// Package sniffer identifies image formats from their leading bytes.
package sniffer

import (
	"bytes"
	"errors"
	"mime"
	"net/textproto"
)

// HeadSize is the number of leading bytes Detect needs.
const HeadSize = 512

type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	WEBP Format = "webp"
	AVIF Format = "avif"
	SVG  Format = "svg"
)

var ErrNotImage = errors.New("file is not a supported image")

type Result struct {
	Format Format
	MIME   string
}

type signature struct {
	result Result
	match  func(head []byte) bool
}

var signatures = []signature{
	{Result{JPEG, "image/jpeg"}, func(h []byte) bool { return bytes.HasPrefix(h, []byte{0xff, 0xd8, 0xff}) }},
	{Result{PNG, "image/png"}, func(h []byte) bool { return bytes.HasPrefix(h, []byte("\x89PNG\r\n\x1a\n")) }},
	{Result{GIF, "image/gif"}, func(h []byte) bool {
		return bytes.HasPrefix(h, []byte("GIF87a")) || bytes.HasPrefix(h, []byte("GIF89a"))
	}},
	{Result{WEBP, "image/webp"}, func(h []byte) bool {
		return len(h) >= 12 && bytes.Equal(h[:4], []byte("RIFF")) && bytes.Equal(h[8:12], []byte("WEBP"))
	}},
	{Result{AVIF, "image/avif"}, func(h []byte) bool {
		return len(h) >= 12 && bytes.Equal(h[4:8], []byte("ftyp")) && bytes.Contains(h[8:], []byte("avif"))
	}},
	{Result{SVG, "image/svg+xml"}, isSVG},
}

// Detect classifies head, the first HeadSize bytes of a file.
func Detect(head []byte) (Result, error) {
	for _, sig := range signatures {
		if sig.match(head) {
			return sig.result, nil
		}
	}
	return Result{}, ErrNotImage
}

func isSVG(head []byte) bool {
	trimmed := bytes.TrimSpace(head)
	if bytes.HasPrefix(trimmed, []byte("<svg")) {
		return true
	}
	return bytes.HasPrefix(trimmed, []byte("<?xml")) && bytes.Contains(bytes.ToLower(trimmed), []byte("<svg"))
}

// DeclaredType returns the media type a multipart part claims, without parameters.
func DeclaredType(header textproto.MIMEHeader) string {
	raw := header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return mediaType
}

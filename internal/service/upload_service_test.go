package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/apperr"
	"campusboard/api/internal/media/sniffer"
)

type fakeMediaHost struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeMediaHost) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if int64(len(body)) != size {
		return "", errors.New("size mismatch")
	}
	f.key, f.contentType, f.body = key, contentType, body
	return "https://cdn.example/" + key, nil
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func newUploadService(host *fakeMediaHost, maxBytes int64) *UploadService {
	svc := NewUploadService(host, maxBytes, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "2abc" }
	return svc
}

func TestUploadStoresSniffedImage(t *testing.T) {
	host := &fakeMediaHost{}
	svc := newUploadService(host, 1<<20)

	result, err := svc.Upload(context.Background(), UploadInput{
		Body:         bytes.NewReader(pngBytes),
		Size:         int64(len(pngBytes)),
		DeclaredType: "image/png",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Key != "2026/03/14/2abc.png" {
		t.Fatalf("unexpected key %s", result.Key)
	}
	if result.URL != "https://cdn.example/2026/03/14/2abc.png" {
		t.Fatalf("unexpected url %s", result.URL)
	}
	if result.Format != sniffer.PNG || host.contentType != "image/png" {
		t.Fatalf("unexpected format %s / %s", result.Format, host.contentType)
	}
}

func TestUploadRejectsMismatchedDeclaredType(t *testing.T) {
	svc := newUploadService(&fakeMediaHost{}, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{Body: bytes.NewReader(pngBytes), DeclaredType: "image/gif"})
	expectCode(t, err, apperr.CodeValidation)
}

func TestUploadAcceptsGenericDeclaredType(t *testing.T) {
	svc := newUploadService(&fakeMediaHost{}, 1<<20)

	if _, err := svc.Upload(context.Background(), UploadInput{Body: bytes.NewReader(pngBytes), DeclaredType: "application/octet-stream"}); err != nil {
		t.Fatalf("upload: %v", err)
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	svc := newUploadService(&fakeMediaHost{}, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{Body: strings.NewReader("plain text, not an image")})
	expectCode(t, err, apperr.CodeValidation)
	_, err = svc.Upload(context.Background(), UploadInput{Body: strings.NewReader("")})
	expectCode(t, err, apperr.CodeValidation)
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	svc := newUploadService(&fakeMediaHost{}, 16)

	_, err := svc.Upload(context.Background(), UploadInput{Body: bytes.NewReader(pngBytes)})
	expectCode(t, err, apperr.CodeValidation)
	_, err = svc.Upload(context.Background(), UploadInput{Body: bytes.NewReader(pngBytes[:8]), Size: 1 << 20})
	expectCode(t, err, apperr.CodeValidation)
}

func TestUploadSanitizesSVG(t *testing.T) {
	host := &fakeMediaHost{}
	svc := newUploadService(host, 1<<20)
	doc := `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"><script>alert(2)</script><rect/></svg>`

	result, err := svc.Upload(context.Background(), UploadInput{Body: strings.NewReader(doc), DeclaredType: "image/svg+xml"})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Format != sniffer.SVG {
		t.Fatalf("unexpected format %s", result.Format)
	}
	if bytes.Contains(host.body, []byte("script")) || bytes.Contains(host.body, []byte("onload")) {
		t.Fatalf("svg not sanitized: %s", host.body)
	}
}

func TestUploadRejectsUnreadableSVG(t *testing.T) {
	host := &fakeMediaHost{}
	svc := newUploadService(host, 1<<20)
	doc := `<svg xmlns="http://www.w3.org/2000/svg" onload=alert(1)><rect/></svg>`

	_, err := svc.Upload(context.Background(), UploadInput{Body: strings.NewReader(doc), DeclaredType: "image/svg+xml"})
	expectCode(t, err, apperr.CodeValidation)
	if host.body != nil {
		t.Fatalf("expected nothing stored, got %s", host.body)
	}
}

func TestUploadMediaHostFailureIsInternal(t *testing.T) {
	svc := newUploadService(&fakeMediaHost{err: errors.New("bucket gone")}, 1<<20)

	_, err := svc.Upload(context.Background(), UploadInput{Body: bytes.NewReader(pngBytes)})
	expectCode(t, err, apperr.CodeInternal)
}

package storage

import (
	"testing"

	"campusboard/api/internal/config"
)

func TestPublicBaseURL(t *testing.T) {
	if got := publicBaseURL("https://cdn.example/images/", "s3:9000", false, "b"); got != "https://cdn.example/images" {
		t.Fatalf("expected configured url without trailing slash, got %s", got)
	}
	if got := publicBaseURL("", "s3:9000", false, "b"); got != "http://s3:9000/b" {
		t.Fatalf("unexpected path-style url %s", got)
	}
	if got := publicBaseURL("", "s3.example", true, "b"); got != "https://s3.example/b" {
		t.Fatalf("unexpected tls url %s", got)
	}
}

func TestNewMediaHostParsesSchemeFromEndpoint(t *testing.T) {
	host, err := NewMediaHost(config.MediaConfig{
		Endpoint:  "https://media.example",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "images",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatalf("new media host: %v", err)
	}
	if host.baseURL != "https://media.example/images" {
		t.Fatalf("unexpected base url %s", host.baseURL)
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"campusboard/api/internal/apperr"
	"campusboard/api/internal/ids"
	"campusboard/api/internal/media/sniffer"
	"campusboard/api/internal/media/svg"
)

// ObjectPutter stores an object and returns the public URL it is served from.
type ObjectPutter interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type UploadService struct {
	media    ObjectPutter
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewUploadService(media ObjectPutter, maxBytes int64, log zerolog.Logger) *UploadService {
	return &UploadService{
		media:    media,
		maxBytes: maxBytes,
		log:      log,
		now:      utcNow,
		newID:    ids.New,
	}
}

type UploadInput struct {
	Body io.Reader
	// Size is the length reported by the client, or 0 when unknown.
	Size int64
	// DeclaredType is the content type the client sent for the part.
	DeclaredType string
}

type UploadResult struct {
	URL    string
	Key    string
	Format sniffer.Format
	Size   int64
}

// jpegAliases are declared types browsers send for JPEG files.
var jpegAliases = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/pjpeg": true}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, apperr.Validation("image is required")
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return UploadResult{}, s.tooLarge()
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 1<<63 - 2
	}
	data, err := io.ReadAll(io.LimitReader(input.Body, limit+1))
	if err != nil {
		return UploadResult{}, apperr.Internal("read upload", err)
	}
	if int64(len(data)) > limit {
		return UploadResult{}, s.tooLarge()
	}
	if len(data) == 0 {
		return UploadResult{}, apperr.Validation("image is empty")
	}

	head := data[:min(len(data), sniffer.HeadSize)]
	result, err := sniffer.Detect(head)
	if err != nil {
		return UploadResult{}, apperr.Validation(err.Error())
	}
	if !declaredMatches(input.DeclaredType, result) {
		return UploadResult{}, apperr.Validation(fmt.Sprintf("content type mismatch: declared %s, actual %s", input.DeclaredType, result.MIME))
	}

	if result.Format == sniffer.SVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			if errors.Is(err, svg.ErrNotSVG) || errors.Is(err, svg.ErrMalformed) {
				return UploadResult{}, apperr.Validation(err.Error())
			}
			return UploadResult{}, apperr.Internal("sanitize svg", err)
		}
		data = clean
	}

	key := s.objectKey(result.Format)
	url, err := s.media.Put(ctx, key, bytes.NewReader(data), int64(len(data)), result.MIME)
	if err != nil {
		return UploadResult{}, apperr.Internal("upload image", err)
	}

	s.log.Info().Str("key", key).Int("size", len(data)).Str("format", string(result.Format)).Msg("image uploaded")
	return UploadResult{URL: url, Key: key, Format: result.Format, Size: int64(len(data))}, nil
}

func (s *UploadService) tooLarge() error {
	return apperr.Validation(fmt.Sprintf("image exceeds %d bytes", s.maxBytes))
}

// objectKey lays objects out by upload day.
func (s *UploadService) objectKey(format sniffer.Format) string {
	return path.Join(s.now().Format("2006/01/02"), s.newID()+"."+string(format))
}

// declaredMatches accepts a missing or generic declared type; a specific
// image type must agree with the sniffed one.
func declaredMatches(declared string, result sniffer.Result) bool {
	switch {
	case declared == "", declared == "application/octet-stream":
		return true
	case result.Format == sniffer.JPEG:
		return jpegAliases[declared]
	default:
		return declared == result.MIME
	}
}

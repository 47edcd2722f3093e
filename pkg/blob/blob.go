package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store persists bytes and hands back where they live.
type Store interface {
	Upload(ctx context.Context, data []byte, category, filename, contentType string) (url, storageKey string, err error)
	Delete(ctx context.Context, storageKey string) error
}

type GCSConfig struct {
	Bucket        string
	PublicBaseURL string // defaults to https://storage.googleapis.com/<bucket>
	Prefix        string
}

type GCSStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
	prefix  string
	now     func() time.Time
}

func NewGCSStore(ctx context.Context, cfg *GCSConfig) (*GCSStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("blob: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = "https://storage.googleapis.com/" + cfg.Bucket
	}
	return &GCSStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: base,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		now:     time.Now,
	}, nil
}

func (s *GCSStore) Upload(ctx context.Context, data []byte, category, filename, contentType string) (string, string, error) {
	key := ObjectKey(s.prefix, category, filename, s.now())

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", "", fmt.Errorf("blob: write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("blob: close %s: %w", key, err)
	}
	return s.baseURL + "/" + key, key, nil
}

func (s *GCSStore) Delete(ctx context.Context, storageKey string) error {
	err := s.client.Bucket(s.bucket).Object(storageKey).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// ObjectKey builds prefix/category/yyyy/mm/<uuid><ext>.
func ObjectKey(prefix, category, filename string, now time.Time) string {
	category = strings.Trim(strings.ToLower(strings.TrimSpace(category)), "/")
	if category == "" {
		category = "misc"
	}
	ext := strings.ToLower(path.Ext(filename))
	parts := []string{}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, category, now.UTC().Format("2006/01"), uuid.New().String()+ext)
	return path.Join(parts...)
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pactumhq/pactum-backend/internal/clients/gcs"
	"github.com/pactumhq/pactum-backend/internal/pkg/envutil"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

// StoredFile describes where an upload ended up and under what display name.
type StoredFile struct {
	URL  string
	Name string
}

type FileService interface {
	// SaveFile writes the upload to the bucket when one is configured,
	// falling back to the local public directory on failure. The request
	// blocks until the bytes are durably written somewhere.
	SaveFile(ctx context.Context, originalName, contentType string, r io.Reader) (*StoredFile, error)
}

type fileService struct {
	log      *logger.Logger
	bucket   gcs.BucketService
	localDir string
}

func NewFileService(baseLog *logger.Logger, bucket gcs.BucketService) FileService {
	return &fileService{
		log:      baseLog.With("service", "FileService"),
		bucket:   bucket,
		localDir: envutil.Str("LOCAL_UPLOAD_DIR", "public"),
	}
}

func (s *fileService) SaveFile(ctx context.Context, originalName, contentType string, r io.Reader) (*StoredFile, error) {
	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), filepath.Base(originalName))

	if s.bucket != nil {
		// Buffer so the local fallback can replay the bytes after a
		// failed remote write.
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		if err := s.bucket.UploadFile(ctx, key, bytes.NewReader(buf.Bytes()), contentType); err == nil {
			return &StoredFile{URL: s.bucket.PublicURL(key), Name: originalName}, nil
		} else {
			s.log.Warn("Bucket upload failed, falling back to local storage",
				"key", key, "error", err)
		}
		r = bytes.NewReader(buf.Bytes())
	}

	return s.saveLocal(key, originalName, r)
}

func (s *fileService) saveLocal(key, originalName string, r io.Reader) (*StoredFile, error) {
	absPath := filepath.Join(s.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	return &StoredFile{URL: "/" + key, Name: originalName}, nil
}

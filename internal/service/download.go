package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/gallery"
)

// DownloadService fetches full-size images and records what was downloaded
type DownloadService struct {
	store  domain.DownloadStore
	logger *slog.Logger
	now    func() time.Time
}

// NewDownloadService creates a download service. store may be nil to skip
// history.
func NewDownloadService(store domain.DownloadStore, logger *slog.Logger) *DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DownloadService{store: store, logger: logger, now: time.Now}
}

// Open streams the image behind m through rt. Failures wrap
// domain.ErrDownload.
func (s *DownloadService) Open(ctx context.Context, rt domain.Runtime, m gallery.Modal) (io.ReadCloser, string, error) {
	if rt == nil {
		return nil, "", fmt.Errorf("%w: no runtime", domain.ErrDownload)
	}
	if m.ImageURL == "" {
		return nil, "", fmt.Errorf("%w: no image url", domain.ErrDownload)
	}

	body, contentType, err := rt.Open(ctx, m.ImageURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}
	return body, contentType, nil
}

// Save writes the image behind m into dir and returns the final path. The
// bytes land in a temporary file first so a failed transfer never leaves a
// partial image under the final name.
func (s *DownloadService) Save(ctx context.Context, rt domain.Runtime, m gallery.Modal, dir string) (string, error) {
	body, _, err := s.Open(ctx, rt, m)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}

	name := m.DownloadName
	if name == "" {
		name = gallery.DownloadFilename("")
	}
	tmp := filepath.Join(dir, name+"."+uuid.NewString()+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}
	n, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}

	final := uniquePath(dir, name)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %w", domain.ErrDownload, err)
	}

	s.logger.Info("image saved", "media_id", m.MediaID, "path", final, "bytes", n)
	s.Record(m, final, n)
	return final, nil
}

// Record adds a download to the history. path is empty for downloads handed
// to a browser.
func (s *DownloadService) Record(m gallery.Modal, path string, n int64) {
	if s.store == nil {
		return
	}
	err := s.store.RecordDownload(domain.DownloadRecord{
		MediaID:  m.MediaID,
		Filename: m.DownloadName,
		Path:     path,
		Bytes:    n,
		At:       s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to record download", "media_id", m.MediaID, "error", err)
	}
}

// Downloaded reports whether mediaID has been downloaded before
func (s *DownloadService) Downloaded(mediaID string) bool {
	if s.store == nil {
		return false
	}
	_, ok := s.store.GetDownload(mediaID)
	return ok
}

// History returns past downloads, most recent first
func (s *DownloadService) History() ([]domain.DownloadRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListDownloads()
}

// uniquePath returns dir/name, or dir/name-N.ext if that already exists
func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}

// SavedPath returns where mediaID was saved, if the file still exists
func (s *DownloadService) SavedPath(mediaID string) (string, bool) {
	if s.store == nil {
		return "", false
	}
	rec, ok := s.store.GetDownload(mediaID)
	if !ok || rec.Path == "" {
		return "", false
	}
	if _, err := os.Stat(rec.Path); err != nil {
		return "", false
	}
	return rec.Path, true
}

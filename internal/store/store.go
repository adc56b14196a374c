package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketDownloads = []byte("downloads")
)

// DownloadStore implements domain.DownloadStore using BoltDB.
type DownloadStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache, authoritative in memory-only mode
	cache map[string]domain.DownloadRecord
}

// NewDownloadStore opens the download history under baseCacheDir. An empty
// baseCacheDir keeps history in memory only.
func NewDownloadStore(baseCacheDir, serverURL string) (*DownloadStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &DownloadStore{cache: make(map[string]domain.DownloadRecord)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "hagallery.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDownloads)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &DownloadStore{db: db, cache: make(map[string]domain.DownloadRecord)}
	if err := s.warm(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// warm loads every persisted record into the memory cache
func (s *DownloadStore) warm() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDownloads)
		return b.ForEach(func(k, v []byte) error {
			var rec domain.DownloadRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // skip corrupt entries
			}
			s.cache[string(k)] = rec
			return nil
		})
	})
}

func (s *DownloadStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordDownload stores rec keyed by its media id, replacing older records
func (s *DownloadStore) RecordDownload(rec domain.DownloadRecord) error {
	if rec.MediaID == "" {
		return fmt.Errorf("download record has no media id")
	}

	if s.db != nil {
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		err = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketDownloads).Put([]byte(rec.MediaID), data)
		})
		if err != nil {
			return fmt.Errorf("failed to write download record: %w", err)
		}
	}

	s.mu.Lock()
	s.cache[rec.MediaID] = rec
	s.mu.Unlock()
	return nil
}

// GetDownload returns the record for mediaID, if any
func (s *DownloadStore) GetDownload(mediaID string) (domain.DownloadRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cache[mediaID]
	return rec, ok
}

// ListDownloads returns all records, most recent first
func (s *DownloadStore) ListDownloads() ([]domain.DownloadRecord, error) {
	s.mu.RLock()
	out := make([]domain.DownloadRecord, 0, len(s.cache))
	for _, rec := range s.cache {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.DownloadRecord) int {
		return b.At.Compare(a.At)
	})
	return out, nil
}

var _ domain.DownloadStore = (*DownloadStore)(nil)

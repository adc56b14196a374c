package store

import (
	"testing"
	"time"

	"github.com/mmcdole/hagallery/internal/domain"
)

func TestDownloadStore_MemoryOnly(t *testing.T) {
	s, err := NewDownloadStore("", "")
	if err != nil {
		t.Fatalf("NewDownloadStore: %v", err)
	}
	defer s.Close()

	if _, ok := s.GetDownload("a"); ok {
		t.Fatal("expected no record")
	}
	if err := s.RecordDownload(domain.DownloadRecord{MediaID: "a", Filename: "a.jpg"}); err != nil {
		t.Fatalf("RecordDownload: %v", err)
	}
	rec, ok := s.GetDownload("a")
	if !ok || rec.Filename != "a.jpg" {
		t.Fatalf("got %+v, %v", rec, ok)
	}
	if err := s.RecordDownload(domain.DownloadRecord{}); err == nil {
		t.Fatal("expected error for empty media id")
	}
}

func TestDownloadStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	server := "http://HA.local:8123/"

	s, err := NewDownloadStore(dir, server)
	if err != nil {
		t.Fatalf("NewDownloadStore: %v", err)
	}
	now := time.Now()
	_ = s.RecordDownload(domain.DownloadRecord{MediaID: "old", At: now.Add(-time.Hour)})
	_ = s.RecordDownload(domain.DownloadRecord{MediaID: "new", At: now})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Same server modulo case and trailing slash maps to the same db
	s, err = NewDownloadStore(dir, "http://ha.local:8123")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	list, err := s.ListDownloads()
	if err != nil {
		t.Fatalf("ListDownloads: %v", err)
	}
	if len(list) != 2 || list[0].MediaID != "new" || list[1].MediaID != "old" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

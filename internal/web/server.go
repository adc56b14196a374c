// Package web serves the gallery as an HTML page with grid and lightbox
// fragments, image downloads and a restricted Home Assistant media proxy.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mmcdole/hagallery/internal/domain"
	"github.com/mmcdole/hagallery/internal/gallery"
	"github.com/mmcdole/hagallery/internal/search"
	"github.com/mmcdole/hagallery/internal/service"
)

// Server exposes one gallery card over HTTP
type Server struct {
	card      *service.Card
	downloads *service.DownloadService
	logger    *slog.Logger
	router    chi.Router
}

// NewServer creates the HTTP front end for card
func NewServer(card *service.Card, downloads *service.DownloadService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{card: card, downloads: downloads, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Route("/fragment", func(r chi.Router) {
		r.Get("/grid", s.handleGridFragment)
		r.Get("/modal", s.handleModalFragment)
	})
	r.Post("/refresh", s.handleRefresh)
	r.Get("/download", s.handleDownload)
	r.Get("/downloads", s.handleHistory)
	r.Get("/api/*", s.handleAPIProxy)
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"card":   s.card.State().String(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.downloads.History()
	if err != nil {
		s.logger.Error("failed to list downloads", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []domain.DownloadRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recs)
}

// filtered returns the rendered tiles matching the ?q= filter
func (s *Server) filtered(r *http.Request, v gallery.View) []gallery.Tile {
	return search.FilterTiles(r.URL.Query().Get("q"), v.Tiles)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	v := s.card.View()
	data := pageData{
		Grid:      htmlFragment(renderGrid(v, s.filtered(r, v))),
		Query:     r.URL.Query().Get("q"),
		RefreshMs: s.card.Options().Refresh.Milliseconds(),
	}
	if id := r.URL.Query().Get("open"); id != "" {
		m := s.modalFor(v, id, r.URL.Query().Get("title"))
		data.Modal = htmlFragment(renderModal(&m))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleGridFragment(w http.ResponseWriter, r *http.Request) {
	v := s.card.View()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, renderGrid(v, s.filtered(r, v)))
}

func (s *Server) handleModalFragment(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	m := s.modalFor(s.card.View(), id, r.URL.Query().Get("title"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, renderModal(&m))
}

// modalFor opens the lightbox, preferring the rendered tile's title
func (s *Server) modalFor(v gallery.View, id, title string) gallery.Modal {
	if t, ok := v.Tile(id); ok {
		title = t.Title
	}
	return gallery.OpenModal(id, title)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.card.Refresh(r.Context()); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, domain.ErrDisposed) {
			status = http.StatusGone
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	// Raw /api/ ids bypass the media-source proxy, so only rendered ones pass
	if strings.HasPrefix(id, gallery.APIPrefix) {
		if _, ok := s.card.View().Tile(id); !ok {
			http.NotFound(w, r)
			return
		}
	}
	m := gallery.OpenModal(id, r.URL.Query().Get("title"))

	body, contentType, err := s.downloads.Open(r.Context(), s.card.Runtime(), m)
	if err != nil {
		s.logger.Error("download failed", "media_id", id, "error", err)
		http.Error(w, "download failed", http.StatusBadGateway)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+m.DownloadName+`"`)
	n, err := io.Copy(w, body)
	if err != nil {
		s.logger.Warn("download interrupted", "media_id", id, "bytes", n, "error", err)
		return
	}
	s.downloads.Record(m, "", n)
}

// handleAPIProxy forwards image requests to Home Assistant with the service's
// token. Only the media-source proxy and the ids of rendered items pass.
func (s *Server) handleAPIProxy(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	if !s.proxyAllowed(r.URL.Path, target) {
		http.NotFound(w, r)
		return
	}

	rt := s.card.Runtime()
	if rt == nil {
		http.Error(w, "not connected", http.StatusServiceUnavailable)
		return
	}
	body, contentType, err := rt.Open(r.Context(), target)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("media proxy failed", "target", target, "error", err)
		}
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = io.Copy(w, body)
}

func (s *Server) proxyAllowed(path, target string) bool {
	if path == gallery.ProxyPath {
		return true
	}
	if !strings.HasPrefix(path, gallery.APIPrefix) {
		return false
	}
	_, ok := s.card.View().Tile(target)
	return ok
}

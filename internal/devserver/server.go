// Package devserver implements an in-memory stand-in for the remote Strata
// store. It serves the same upload/download API the production site does,
// so the client and CLI can be exercised locally and in integration tests.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/strata3d/strata/pkg/client"
	"github.com/strata3d/strata/pkg/resources"
)

// maxUploadMemory bounds in-memory multipart parsing
const maxUploadMemory = 512 << 20

// Server is an in-memory resource store behind the Strata API surface
type Server struct {
	log *zap.Logger

	mu    sync.Mutex
	lines map[string]resources.WireLine
	files map[string][]byte
}

// New creates an empty server
func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log:   log,
		lines: make(map[string]resources.WireLine),
		files: make(map[string][]byte),
	}
}

// Router returns the API route tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Route("/api", func(r chi.Router) {
		r.With(s.requireKey).Get("/me", s.handleMe)
		r.With(s.requireKey).Route("/resource/line", func(r chi.Router) {
			r.Post("/", s.handleCreateLine)
			r.Put("/{uid}", s.handleUpdateLine)
			r.Get("/{uid}", s.handleGetLine)
		})
		r.Get("/files/{fid}", s.handleGetFile)
	})
	return r
}

// logRequests logs each request at debug level
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// requireKey rejects requests without a well-formed API developer key
func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !client.IsKey(r.Header.Get("X-Api-Key")) {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-Api-Key")
	username := strings.SplitN(key, "//", 2)[0]
	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

func (s *Server) handleCreateLine(w http.ResponseWriter, r *http.Request) {
	wire, form, err := parseLineUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := uuid.NewString()
	wire.UID = uid

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storeArrays(&wire, form, nil); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.lines[uid] = wire

	s.log.Info("created line", zap.String("uid", uid))
	writeJSON(w, http.StatusCreated, map[string]string{"uid": uid})
}

func (s *Server) handleUpdateLine(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	wire, form, err := parseLineUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wire.UID = uid

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.lines[uid]
	if !ok {
		writeError(w, http.StatusNotFound, "no such resource")
		return
	}
	if err := s.storeArrays(&wire, form, &existing); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.lines[uid] = wire

	s.log.Info("updated line", zap.String("uid", uid))
	writeJSON(w, http.StatusOK, map[string]string{"uid": uid})
}

func (s *Server) handleGetLine(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	wire, ok := s.lines[chi.URLParam(r, "uid")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such resource")
		return
	}
	writeJSON(w, http.StatusOK, wire)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload, ok := s.files[chi.URLParam(r, "fid")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "no such file")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(payload)
}

// parseLineUpload extracts the metadata part and the multipart form from an
// upload request
func parseLineUpload(r *http.Request) (resources.WireLine, *http.Request, error) {
	var wire resources.WireLine
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return wire, nil, fmt.Errorf("parse upload: %w", err)
	}
	meta := r.FormValue("metadata")
	if meta == "" {
		return wire, nil, fmt.Errorf("missing metadata part")
	}
	if err := json.Unmarshal([]byte(meta), &wire); err != nil {
		return wire, nil, fmt.Errorf("parse metadata: %w", err)
	}
	return wire, r, nil
}

// storeArrays stores every uploaded array payload and rewrites the wire
// references. Arrays not present in the upload fall back to the previously
// stored reference: a partial upload only replaces what changed.
func (s *Server) storeArrays(wire *resources.WireLine, r *http.Request, existing *resources.WireLine) error {
	var err error

	prevVertices, prevSegments := "", ""
	if existing != nil {
		prevVertices = existing.Mesh.Vertices
		prevSegments = existing.Mesh.Segments
	}
	if wire.Mesh.Vertices, err = s.storeFile(r, "mesh/vertices", prevVertices); err != nil {
		return err
	}
	if wire.Mesh.Segments, err = s.storeFile(r, "mesh/segments", prevSegments); err != nil {
		return err
	}

	for i := range wire.Data {
		prev := ""
		if existing != nil && i < len(existing.Data) {
			prev = existing.Data[i].Array
		}
		name := fmt.Sprintf("data/%d/array", i)
		if wire.Data[i].Array, err = s.storeFile(r, name, prev); err != nil {
			return err
		}
	}
	return nil
}

// storeFile stores one uploaded array part and returns its reference, or
// the previous reference when the part is absent
func (s *Server) storeFile(r *http.Request, name, prev string) (string, error) {
	file, _, err := r.FormFile(name)
	if err == http.ErrMissingFile {
		if prev == "" {
			return "", fmt.Errorf("missing file part %q", name)
		}
		return prev, nil
	}
	if err != nil {
		return "", fmt.Errorf("read file part %q: %w", name, err)
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read file part %q: %w", name, err)
	}

	fid := uuid.NewString()
	s.files[fid] = payload
	return "/api/files/" + fid, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	writeJSON(w, status, map[string]string{"reason": reason})
}

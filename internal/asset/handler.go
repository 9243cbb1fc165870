package asset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/easelhq/easel/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadResponse is returned from the upload endpoint. ID doubles as the
// media handle that canvas elements carry.
type UploadResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	Name   string `json:"name"`
}

// Handler serves media upload and retrieval over the Library.
type Handler struct {
	lib *Library
}

func NewHandler(lib *Library) *Handler {
	return &Handler{lib: lib}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 10MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, "only image uploads are supported", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + extensionForFormat(format)
	path := filepath.Join(h.lib.Dir(), filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("write asset file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	// The handle elements carry is the stored filename; register its
	// natural size so the canvas resolver never has to re-decode.
	h.lib.record(filename, float64(cfg.Width), float64(cfg.Height))

	resp := UploadResponse{
		ID:     filename,
		URL:    fmt.Sprintf("/assets/%s", filename),
		Width:  cfg.Width,
		Height: cfg.Height,
		Type:   format,
		Name:   header.Filename,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored media with caching
// headers. Handles are unique, so files are immutable.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.lib.Dir()))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

package asset

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Library resolves opaque media handles to stored files and their natural
// pixel dimensions. It is the media collaborator the canvas engine sees:
// the engine never touches bytes, only handles and sizes.
type Library struct {
	dir string

	mu    sync.RWMutex
	sizes map[string][2]float64
}

func NewLibrary(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Library{dir: dir, sizes: make(map[string][2]float64)}, nil
}

func (l *Library) Dir() string { return l.dir }

func (l *Library) record(ref string, w, h float64) {
	l.mu.Lock()
	l.sizes[ref] = [2]float64{w, h}
	l.mu.Unlock()
}

// NaturalSize returns the intrinsic pixel dimensions of the media behind
// ref. Sizes recorded at upload time are served from memory; otherwise the
// stored file's header is decoded.
func (l *Library) NaturalSize(ref string) (float64, float64, error) {
	l.mu.RLock()
	size, ok := l.sizes[ref]
	l.mu.RUnlock()
	if ok {
		return size[0], size[1], nil
	}

	path := filepath.Join(l.dir, filepath.Base(ref))
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open media %q: %w", ref, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode media %q: %w", ref, err)
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	l.record(ref, w, h)
	return w, h, nil
}

// SetPlaying is part of the media port. Playback happens in the client's
// renderer; the library only logs the transition.
func (l *Library) SetPlaying(handle string, playing bool) {
	slog.Debug("media playback", "handle", handle, "playing", playing)
}

func extensionForFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpeg":
		return ".jpg"
	case "gif":
		return ".gif"
	default:
		return ".png"
	}
}

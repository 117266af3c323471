package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRecorder appends events as JSON lines to a file it keeps open.
type FileRecorder struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewFileRecorder opens path for appending, creating it and its directory.
func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure transcript dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	return &FileRecorder{f: f, enc: json.NewEncoder(f)}, nil
}

// AppendInteraction writes one line. Each call is a single write, so lines
// from concurrent turns never interleave.
func (r *FileRecorder) AppendInteraction(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return fmt.Errorf("transcript closed")
	}
	if err := r.enc.Encode(event); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

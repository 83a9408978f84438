// Package audit appends raw webhook payloads to per-entry JSON-lines
// files so every delivery can be replayed or inspected after the fact.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer appends audit lines under a base directory, one file per
// provider entry ID.
type Writer struct {
	dir string
}

// NewWriter ensures the audit directory exists and returns a writer.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("audit directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

type line struct {
	ReceivedAt string      `json:"received_at"`
	Payload    interface{} `json:"payload"`
}

// Append writes one JSON line holding the payload to the entry's file.
func (w *Writer) Append(entryID string, payload interface{}) error {
	f, err := os.OpenFile(w.path(entryID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	return enc.Encode(line{
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Payload:    payload,
	})
}

// path sanitizes the entry ID so a hostile payload cannot escape the
// audit directory.
func (w *Writer) path(entryID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, entryID)
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(w.dir, name+".jsonl")
}

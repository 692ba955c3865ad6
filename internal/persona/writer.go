package persona

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	filePrefix = "persona_"
	fileExt    = ".txt"
)

// Writer saves persona documents as text files.
type Writer struct {
	outputDir string
}

// NewWriter returns a Writer that writes into outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// FileName returns the file name used for username's persona.
func FileName(username string) string {
	return filePrefix + username + fileExt
}

// Write stores text verbatim as persona_<username>.txt, replacing any
// previous file for the same user, and returns its path. The write is not
// atomic.
func (w *Writer) Write(username, text string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", w.outputDir, err)
	}

	path := filepath.Join(w.outputDir, FileName(username))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}

	slog.Info("wrote persona", "path", path, "bytes", len(text))
	return path, nil
}

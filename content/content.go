// Package content serves the static event texts shown by reply buttons.
package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"guestbot/core/logger"
)

// Fallback is returned whenever a content file is missing or unreadable.
const Fallback = "Файл с информацией не найден."

// Provider reads named text files from a single content directory.
type Provider struct {
	dir string
}

// NewProvider creates a provider rooted at dir.
func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Read returns the contents of the named file, or Fallback when the file
// cannot be read or is empty.
func (p *Provider) Read(name string) string {
	path := filepath.Join(p.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(logger.Background(), "content", "content.read",
			slog.String("status", "fail"),
			slog.String("payload", name),
			slog.String("err", err.Error()),
		)
		return Fallback
	}
	text := strings.TrimRight(string(data), "\n")
	if strings.TrimSpace(text) == "" {
		return Fallback
	}
	return text
}

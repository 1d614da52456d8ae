package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docpress/internal/foundation/errors"
)

// WriteTextfile writes every metric gathered from g to path in the Prometheus
// text exposition format. The write is atomic.
func WriteTextfile(path string, g prom.Gatherer) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileSystemError("failed to create metrics directory").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	if err := prom.WriteToTextfile(path, g); err != nil {
		return errors.FileSystemError("failed to write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

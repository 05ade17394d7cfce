package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"foodreel/internal/logging"
	"foodreel/internal/services"
)

// acquireLock takes the single-writer lock on the data directory. The
// returned func releases it.
func acquireLock(path string, logger *slog.Logger) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "pipeline", "lock", "another foodreel run holds "+path, nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release data lock", logging.String("lock", path), logging.Error(err))
		}
	}, nil
}

// Package backup creates on-demand snapshots of the auction store.
// Snapshots use Badger's native backup stream, so a restore is a plain
// `badger restore` into an empty data directory.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lionbidapp/lionbid-server/internal/store"
)

const snapshotSuffix = ".lionbid.bak"

// Service manages snapshot creation and listing.
type Service struct {
	store     *store.Store
	backupDir string
	logger    *slog.Logger
}

// NewService creates a backup Service writing snapshots under backupDir.
func NewService(s *store.Store, backupDir string, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		backupDir: backupDir,
		logger:    logger,
	}
}

// Result describes a completed snapshot.
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Duration time.Duration `json:"duration"`
}

// Info describes an existing snapshot on disk.
type Info struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Create writes a full snapshot of the store to a timestamped file and
// returns its location and size.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	// Sub-second precision keeps back-to-back snapshots from colliding.
	timestamp := time.Now().UTC().Format("2006-01-02-150405.000000")
	outputPath := filepath.Join(s.backupDir, "backup-"+timestamp+snapshotSuffix)

	s.logger.Info("creating snapshot", "output", outputPath)
	start := time.Now()

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create snapshot file: %w", err)
	}

	if _, err := s.store.Backup(f); err != nil {
		f.Close()
		os.Remove(outputPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close snapshot file: %w", err)
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot file: %w", err)
	}

	result := &Result{
		Path:     outputPath,
		Size:     stat.Size(),
		Duration: time.Since(start),
	}

	s.logger.Info("snapshot complete",
		"path", result.Path,
		"size", result.Size,
		"duration", result.Duration)

	return result, nil
}

// List returns the snapshots on disk, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotSuffix) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:      entry.Name(),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})

	return infos, nil
}

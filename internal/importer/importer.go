// Package importer merges workout documents exported from another mapty
// instance, or a browser's saved "workouts" value, into a store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/workout"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	WorkoutsInserted   int
	WorkoutsDuplicated int

	RejectedFiles []string
}

// Importer reads JSON workout documents and appends unseen workouts to the
// document stored under key. Existing workouts keep their position.
type Importer struct {
	store  storage.Store
	key    string
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(store storage.Store, key string, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{store: store, key: key, log: log, dryRun: dryRun}
}

// Import processes path, which is either a single .json file or a directory
// whose .json files are read in name order. A file that fails to decode is
// counted and skipped; storage errors abort the import.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := collect(path)
	if err != nil {
		return &imp.stats, err
	}

	current, err := imp.load(ctx)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading stored workouts: %w", err)
	}
	seen := make(map[string]bool, len(current))
	for _, w := range current {
		seen[w.Common().ID] = true
	}

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			imp.log.Warn("skipping unreadable file", "file", f, "error", err)
			imp.stats.FilesSkipped++
			continue
		}
		ws, err := workout.Unmarshal(data)
		if err != nil {
			imp.log.Warn("rejecting file", "file", f, "error", err)
			imp.stats.FilesErrored++
			imp.stats.RejectedFiles = append(imp.stats.RejectedFiles, filepath.Base(f))
			continue
		}
		imp.stats.FilesProcessed++

		for _, w := range ws {
			id := w.Common().ID
			if seen[id] {
				imp.stats.WorkoutsDuplicated++
				continue
			}
			seen[id] = true
			current = append(current, w)
			imp.stats.WorkoutsInserted++
		}
	}

	if imp.dryRun || imp.stats.WorkoutsInserted == 0 {
		return &imp.stats, nil
	}

	data, err := workout.Marshal(current)
	if err != nil {
		return &imp.stats, err
	}
	if err := imp.store.Set(ctx, imp.key, data); err != nil {
		return &imp.stats, fmt.Errorf("writing workouts: %w", err)
	}
	return &imp.stats, nil
}

func (imp *Importer) load(ctx context.Context) ([]workout.Workout, error) {
	data, ok, err := imp.store.Get(ctx, imp.key)
	if err != nil || !ok {
		return nil, err
	}
	ws, err := workout.Unmarshal(data)
	if err != nil {
		// Same rule as the app: a malformed document counts as empty.
		imp.log.Warn("stored document is malformed, replacing it", "key", imp.key, "error", err)
		return nil, nil
	}
	return ws, nil
}

// collect resolves path to the list of files to import.
func collect(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("import path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

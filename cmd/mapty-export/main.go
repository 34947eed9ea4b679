package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/claude/mapty/internal/config"
	"github.com/claude/mapty/internal/importer"
	"github.com/claude/mapty/internal/storage"
	"github.com/claude/mapty/internal/workout"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	format := flag.String("format", "json", "output format: json or table")
	reset := flag.Bool("reset", false, "delete the stored workouts instead of printing them")
	importPath := flag.String("import", "", "merge workouts from a JSON file or directory of JSON files")
	dryRun := flag.Bool("dry-run", false, "with -import, report counts without writing")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *format != "json" && *format != "table" {
		fmt.Fprintf(os.Stderr, "Usage: mapty-export -config config.yaml [-format json|table] [-reset] [-import path [-dry-run]]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if *reset {
		if err := store.Delete(ctx, cfg.Storage.Key); err != nil {
			log.Error("reset failed", "error", err)
			os.Exit(1)
		}
		log.Info("workouts deleted", "key", cfg.Storage.Key)
		return
	}

	if *importPath != "" {
		if *dryRun {
			log.Info("DRY RUN mode, nothing will be written")
		}
		stats, err := importer.New(store, cfg.Storage.Key, log, *dryRun).Import(ctx, *importPath)
		log.Info("import finished",
			"files", stats.FilesProcessed,
			"skipped", stats.FilesSkipped,
			"errored", stats.FilesErrored,
			"inserted", stats.WorkoutsInserted,
			"duplicates", stats.WorkoutsDuplicated,
		)
		for _, f := range stats.RejectedFiles {
			log.Warn("rejected file", "file", f)
		}
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ws, err := load(ctx, store, cfg.Storage.Key)
	if err != nil {
		log.Error("failed to read workouts", "error", err)
		os.Exit(1)
	}

	switch *format {
	case "table":
		err = writeTable(os.Stdout, ws)
	default:
		err = writeJSON(os.Stdout, ws)
	}
	if err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func load(ctx context.Context, store storage.Store, key string) ([]workout.Workout, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return workout.Unmarshal(data)
}

func writeJSON(w io.Writer, ws []workout.Workout) error {
	if ws == nil {
		ws = []workout.Workout{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ws)
}

func writeTable(w io.Writer, ws []workout.Workout) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tDESCRIPTION\tDISTANCE\tDURATION\tMETRIC\tEXTRA")
	for _, wk := range ws {
		b := wk.Common()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g km\t%g min\t%.1f %s\t%g %s\n",
			b.ID, b.Type, b.Description, b.Distance, b.Duration,
			wk.Metric(), wk.MetricUnit(), wk.Extra(), wk.ExtraUnit())
	}
	return tw.Flush()
}

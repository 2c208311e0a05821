package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/trailmark/internal/config"
	"github.com/meltforce/trailmark/internal/importer"
	"github.com/meltforce/trailmark/internal/kvstore/driver"
	"github.com/meltforce/trailmark/internal/persistence"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	exportPath := flag.String("path", "", "path to the browser localStorage export (required)")
	zone := flag.String("tz", "Local", "time zone the browser ran in, for workout descriptions")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	flag.Usage = func() { usage(flag.CommandLine.Output(), flag.CommandLine) }
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exportPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*zone)
	if err != nil {
		log.Error("unknown time zone", "tz", *zone, "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*exportPath)
	if err != nil {
		log.Error("failed to open export", "path", *exportPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: nothing will be written to the store")
	}

	kv, closer, err := driver.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closer.Close()
	log.Info("store opened", "driver", cfg.Storage.Driver)

	imp := importer.New(persistence.New(kv, cfg.Storage.Key, log), log, *dryRun, loc)
	stats, err := imp.Import(ctx, f)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

// usage warns that the import writes the store directly: a trailmark server
// running on the same store keeps its own copy and would overwrite the
// imported workouts with its next save.
func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: trailmark-import -config config.yaml -path export.json [-tz Europe/Berlin] [-dry-run]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Stop any trailmark server using the same store before importing; a running")
	fmt.Fprintln(w, "server would overwrite the imported workouts on its next save.")
	fmt.Fprintln(w)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"read", stats.Read,
		"imported", stats.Imported,
		"duplicated", stats.Duplicated,
		"invalid", stats.Invalid,
		"total_stored", stats.Total,
	)
}

// Command eddytrack runs eddy tracking over a range of detection
// snapshot files and stores the resulting trajectories in sqlite.
package main

import (
	"flag"
	"log"

	"github.com/submeso-data/eddytrack/internal/config"
	"github.com/submeso-data/eddytrack/internal/eddy"
	"github.com/submeso-data/eddytrack/internal/tracker"
	"github.com/submeso-data/eddytrack/internal/trackdb"
)

var (
	configPath = flag.String("config", "tracking.json", "Path to tracking parameters JSON")
	dbPath     = flag.String("db", "eddy_tracks.db", "Path to the results database")
)

func main() {
	flag.Parse()

	params, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	provider := eddy.NewFileStore(params.DataPath, params.FileRoot, params.FileSpec)

	tracks, err := tracker.Run(params, provider)
	if err != nil {
		log.Fatalf("tracking failed: %v", err)
	}
	if tracks == nil {
		log.Printf("no eddies found in %s..%s, nothing to store", params.StartTime, params.EndTime)
		return
	}

	db, err := trackdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open results database: %v", err)
	}
	defer db.Close()

	runID, err := db.SaveRun(params, tracks)
	if err != nil {
		log.Fatalf("failed to store run: %v", err)
	}

	log.Printf("stored run %s: %d tracks over %s..%s", runID, len(tracks), params.StartTime, params.EndTime)
}

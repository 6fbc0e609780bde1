package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floorplan/internal/common/logger"
	"floorplan/internal/common/watcher"
	"floorplan/internal/editor/collision"
	"floorplan/internal/editor/project"
	"floorplan/internal/editor/scene"

	"github.com/spf13/cobra"
)

var (
	statsJSON  bool
	statsWatch bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [project.json]",
	Short: "Print plan statistics of a project file",
	Long:  "Count walls, openings, zones and items, total wall length, floor area and conflicting entities.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
	statsCmd.Flags().BoolVarP(&statsWatch, "watch", "w", false, "Reprint statistics whenever the file changes")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	if err := printStats(out, path, statsJSON); err != nil {
		return err
	}
	if !statsWatch {
		return nil
	}

	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		return err
	}
	defer fw.Close()

	log := logger.Component("stats")
	err = fw.Watch([]string{path}, func(changed string) {
		if err := printStats(out, changed, statsJSON); err != nil {
			log.WithError(err).Warn("reload failed")
		}
	})
	if err != nil {
		return err
	}
	fw.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}

func printStats(w io.Writer, path string, asJSON bool) error {
	p, entities, err := project.Load(path)
	if err != nil {
		return err
	}
	pairs := collision.NewDetector().Detect(entities)
	stats := scene.ComputeStatistics(entities)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(w, "Project: %s\n", p.Name)
	fmt.Fprintf(w, "  Entities:  %d\n", stats.Total)
	fmt.Fprintf(w, "  Walls:     %d (%.2f m)\n", stats.Walls, stats.WallLengthMeters)
	fmt.Fprintf(w, "  Openings:  %d (doors: %d)\n", stats.Openings, stats.Doors)
	fmt.Fprintf(w, "  Zones:     %d (%.2f m²)\n", stats.Zones, stats.FloorArea)
	fmt.Fprintf(w, "  Items:     %d\n", stats.Items)
	fmt.Fprintf(w, "  Conflicts: %d entities in %d pairs\n", stats.Colliding, len(pairs))
	return nil
}

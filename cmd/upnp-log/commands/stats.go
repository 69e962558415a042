package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/portfwd/upnp-go/pkg/log"
)

// Stats summarizes the events of one log file.
type Stats struct {
	Total      int
	ByLayer    map[log.Layer]int
	ByCategory map[log.Category]int
	Actions    map[string]int
	Faults     int
	First      time.Time
	Last       time.Time
}

// CollectStats reads the whole log file and aggregates counters.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		ByLayer:    make(map[log.Layer]int),
		ByCategory: make(map[log.Category]int),
		Actions:    make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.Total++
		stats.ByLayer[event.Layer]++
		stats.ByCategory[event.Category]++

		if event.Action != nil {
			stats.Actions[event.Action.Action]++
			if event.Action.FaultCode != nil {
				stats.Faults++
			}
		}

		if stats.First.IsZero() || event.Timestamp.Before(stats.First) {
			stats.First = event.Timestamp
		}
		if event.Timestamp.After(stats.Last) {
			stats.Last = event.Timestamp
		}
	}

	return stats, nil
}

// RunStats executes the stats command.
func RunStats(path string, output io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Events: %d\n", stats.Total)
	if stats.Total == 0 {
		return nil
	}

	fmt.Fprintf(output, "Span:   %s - %s (%s)\n",
		stats.First.UTC().Format(time.RFC3339),
		stats.Last.UTC().Format(time.RFC3339),
		stats.Last.Sub(stats.First).Round(time.Millisecond))

	fmt.Fprintln(output, "\nBy layer:")
	for _, layer := range []log.Layer{log.LayerDiscovery, log.LayerDescription, log.LayerControl} {
		if count := stats.ByLayer[layer]; count > 0 {
			fmt.Fprintf(output, "  %-12s %d\n", layer, count)
		}
	}

	fmt.Fprintln(output, "\nBy category:")
	for _, category := range []log.Category{log.CategorySearch, log.CategoryFetch, log.CategoryAction, log.CategoryError} {
		if count := stats.ByCategory[category]; count > 0 {
			fmt.Fprintf(output, "  %-12s %d\n", category, count)
		}
	}

	if len(stats.Actions) > 0 {
		names := make([]string, 0, len(stats.Actions))
		for name := range stats.Actions {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(output, "\nActions:")
		for _, name := range names {
			fmt.Fprintf(output, "  %-28s %d\n", name, stats.Actions[name])
		}
		fmt.Fprintf(output, "\nFaults: %d\n", stats.Faults)
	}

	return nil
}

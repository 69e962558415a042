// Package commands implements the upnp-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/portfwd/upnp-go/pkg/log"
)

// RunView executes the view command: events matching the filter are
// printed in a human-readable format.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	exchange := shortenExchangeID(event.ExchangeID)

	var typeLabel string
	switch {
	case event.Search != nil:
		typeLabel = "Search"
	case event.Fetch != nil:
		typeLabel = "Fetch"
	case event.Action != nil:
		typeLabel = event.Action.Action
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [xchg:%s] %-3s %s %s\n", ts, exchange, event.Direction, event.Layer, typeLabel)

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s\n", event.RemoteAddr)
	}
	if event.ServiceType != "" {
		fmt.Fprintf(w, "  Service: %s\n", event.ServiceType)
	}

	switch {
	case event.Search != nil:
		formatSearchDetails(w, event.Search)
	case event.Fetch != nil:
		formatFetchDetails(w, event.Fetch)
	case event.Action != nil:
		formatActionDetails(w, event.Action)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenExchangeID returns the first 8 characters of the exchange ID.
func shortenExchangeID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatSearchDetails(w io.Writer, search *log.SearchEvent) {
	fmt.Fprintf(w, "  Target: %s\n", search.Target)
	if search.MX > 0 {
		fmt.Fprintf(w, "  MX: %d\n", search.MX)
	}
	if search.Location != "" {
		fmt.Fprintf(w, "  Location: %s\n", search.Location)
	}
	if search.USN != "" {
		fmt.Fprintf(w, "  USN: %s\n", search.USN)
	}
	if search.Server != "" {
		fmt.Fprintf(w, "  Server: %s\n", search.Server)
	}
}

func formatFetchDetails(w io.Writer, fetch *log.FetchEvent) {
	fmt.Fprintf(w, "  URL: %s\n", fetch.URL)
	if fetch.Status != 0 {
		fmt.Fprintf(w, "  Status: %d\n", fetch.Status)
	}
	if fetch.Size != 0 {
		fmt.Fprintf(w, "  Size: %d bytes\n", fetch.Size)
	}
}

func formatActionDetails(w io.Writer, action *log.ActionEvent) {
	if action.ControlURL != "" {
		fmt.Fprintf(w, "  Control: %s\n", action.ControlURL)
	}
	if action.InArgs > 0 {
		fmt.Fprintf(w, "  InArgs: %d\n", action.InArgs)
	}
	if action.OutArgs > 0 {
		fmt.Fprintf(w, "  OutArgs: %d\n", action.OutArgs)
	}
	if action.FaultCode != nil {
		fmt.Fprintf(w, "  Fault: %d %s\n", *action.FaultCode, action.FaultDescription)
	}
	if action.RTT != nil {
		fmt.Fprintf(w, "  RTT: %s\n", formatDuration(*action.RTT))
	}
}

func formatErrorDetails(w io.Writer, errData *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", errData.Layer)
	fmt.Fprintf(w, "  Message: %s\n", errData.Message)
	if errData.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", errData.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer flag value (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "discovery":
		return log.LayerDiscovery, nil
	case "description":
		return log.LayerDescription, nil
	case "control":
		return log.LayerControl, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be discovery, description, or control)", s)
	}
}

// ParseDirectionFlag parses a direction flag value (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category flag value (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "search":
		return log.CategorySearch, nil
	case "fetch":
		return log.CategoryFetch, nil
	case "action":
		return log.CategoryAction, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be search, fetch, action, or error)", s)
	}
}

// Command upnp-log is a tool for viewing and analyzing UPnP exchange
// log files.
//
// Log files are created by upnp-igd and upnp-browse with the -log flag.
//
// Usage:
//
//	upnp-log <command> [flags] <file.ulog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	upnp-log view igd.ulog
//
//	# View only control-layer events
//	upnp-log view -layer control igd.ulog
//
//	# View one exchange
//	upnp-log view -exchange-id 7c9e6679 igd.ulog
//
//	# Show statistics
//	upnp-log stats igd.ulog
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/portfwd/upnp-go/cmd/upnp-log/commands"
	"github.com/portfwd/upnp-go/pkg/log"
)

const usage = `upnp-log - UPnP Exchange Log Analyzer

Usage:
  upnp-log <command> [flags] <file.ulog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "upnp-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `upnp-log view - View log file in human-readable format

Usage:
  upnp-log view [flags] <file.ulog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (discovery, description, control)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (search, fetch, action, error)")
	exchangeID := fs.String("exchange-id", "", "Filter by exchange ID")
	serviceType := fs.String("service-type", "", "Filter by service type URN")
	remoteAddr := fs.String("remote", "", "Filter by remote address")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filter := log.Filter{
		ExchangeID:  *exchangeID,
		ServiceType: *serviceType,
		RemoteAddr:  *remoteAddr,
	}

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fatal(err)
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fatal(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}
	if *timeStart != "" {
		t, err := time.Parse(time.RFC3339, *timeStart)
		if err != nil {
			fatal(fmt.Errorf("invalid -time-start: %w", err))
		}
		filter.TimeStart = &t
	}
	if *timeEnd != "" {
		t, err := time.Parse(time.RFC3339, *timeEnd)
		if err != nil {
			fatal(fmt.Errorf("invalid -time-end: %w", err))
		}
		filter.TimeEnd = &t
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `upnp-log stats - Show statistics about the log file

Usage:
  upnp-log stats <file.ulog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

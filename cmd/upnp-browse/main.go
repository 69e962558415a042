// Command upnp-browse discovers UPnP devices and prints their
// device/service/action trees.
//
// Usage:
//
//	upnp-browse [flags]
//
// Examples:
//
//	# Browse every device on the network
//	upnp-browse
//
//	# Only gateways, with full action signatures
//	upnp-browse -st urn:schemas-upnp-org:device:InternetGatewayDevice:1 -args
//
//	# Inspect one device directly by its description URL
//	upnp-browse -location http://192.168.1.1:49152/rootDesc.xml
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/portfwd/upnp-go/pkg/description"
	"github.com/portfwd/upnp-go/pkg/log"
	"github.com/portfwd/upnp-go/pkg/model"
	"github.com/portfwd/upnp-go/pkg/ssdp"
)

var (
	target    = flag.String("st", ssdp.TargetRootDevice, "SSDP search target")
	window    = flag.Duration("window", 4*time.Second, "Discovery listen window")
	mx        = flag.Int("mx", ssdp.DefaultMX, "MX response delay bound, seconds")
	ifaceName = flag.String("interface", "", "Network interface for the multicast search")
	location  = flag.String("location", "", "Skip discovery and inspect this description URL")
	timeout   = flag.Duration("timeout", 10*time.Second, "HTTP timeout for description fetches")
	showArgs  = flag.Bool("args", false, "Show action argument signatures")
	logFile   = flag.String("log", "", "Write CBOR exchange log to this file")
)

func main() {
	flag.Parse()

	var logger log.Logger
	if *logFile != "" {
		fileLogger, err := log.NewFileLogger(*logFile)
		if err != nil {
			fatal(err)
		}
		defer fileLogger.Close()
		logger = fileLogger
	}

	fetcher := description.NewClient(description.ClientConfig{
		Timeout: *timeout,
		Logger:  logger,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *location != "" {
		device, err := model.NewDevice(ctx, "", *location, model.Config{Fetcher: fetcher})
		if err != nil {
			fatal(err)
		}
		printDevice(device)
		return
	}

	var iface *net.Interface
	if *ifaceName != "" {
		found, err := net.InterfaceByName(*ifaceName)
		if err != nil {
			fatal(fmt.Errorf("interface %s: %w", *ifaceName, err))
		}
		iface = found
	}

	searcher := ssdp.NewSearcher(ssdp.Config{
		MX:        *mx,
		Window:    *window,
		Interface: iface,
		Logger:    logger,
	})

	results, err := searcher.Search(ctx, *target)
	if err != nil {
		fatal(err)
	}

	found := 0
	seen := make(map[string]struct{})
	for resp := range results {
		// A device answers once per advertised type; one model per
		// description URL is enough.
		if _, dup := seen[resp.Location]; dup {
			continue
		}
		seen[resp.Location] = struct{}{}
		found++

		fmt.Printf("== %s\n", resp.Location)
		if resp.Server != "" {
			fmt.Printf("   Server: %s\n", resp.Server)
		}

		device, err := model.NewDevice(ctx, resp.Addr, resp.Location, model.Config{Fetcher: fetcher})
		if err != nil {
			fmt.Printf("   Error: %v\n\n", err)
			continue
		}
		printDevice(device)
	}

	if found == 0 {
		fmt.Fprintf(os.Stderr, "No devices responded to %s within %s\n", *target, *window)
		os.Exit(1)
	}
}

func printDevice(device *model.Device) {
	fmt.Printf("Device:  %s\n", device.FriendlyName())
	fmt.Printf("Type:    %s\n", device.DeviceType())

	keys := make([]string, 0, len(device.Services()))
	for key := range device.Services() {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		svc, err := device.Service(key)
		if err != nil {
			continue
		}
		fmt.Printf("  Service %s (%s)\n", key, svc.ServiceType())
		fmt.Printf("    Control: %s\n", svc.ControlURL())

		names := make([]string, 0, len(svc.Actions()))
		for name := range svc.Actions() {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			action, err := svc.Action(name)
			if err != nil {
				continue
			}
			if !*showArgs {
				fmt.Printf("    %s\n", name)
				continue
			}
			fmt.Printf("    %s(in: %d, out: %d)\n",
				name, len(action.InArguments()), len(action.OutArguments()))
			for _, arg := range action.Arguments() {
				marker := ""
				if arg.IsRetval() {
					marker = " retval"
				}
				fmt.Printf("      %-3s %s%s\n", arg.Direction(), arg.Name(), marker)
			}
		}
	}

	for key, err := range device.ServiceErrors() {
		fmt.Printf("  Service %s unavailable: %v\n", key, err)
	}
	fmt.Println()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

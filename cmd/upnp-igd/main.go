// Command upnp-igd manages port mappings on a UPnP Internet Gateway
// Device.
//
// Usage:
//
//	upnp-igd <command> [flags] [args]
//
// Commands:
//
//	discover              Find the gateway and print its details
//	add <port> <proto>    Add a port mapping (description args follow)
//	delete <port> <proto> Delete a port mapping
//	list                  List the gateway's port mappings
//	external-ip           Print the gateway's WAN IP address
//	interactive           Start an interactive session
//
// Examples:
//
//	# Forward TCP port 8080 to this host
//	upnp-igd add 8080 tcp web server
//
//	# List existing mappings, logging the exchanges
//	upnp-igd list -log igd.ulog
//
//	# Use a config file and a specific interface
//	upnp-igd discover -config igd.yaml -interface eth0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/portfwd/upnp-go/cmd/upnp-igd/interactive"
	"github.com/portfwd/upnp-go/pkg/igd"
)

const usage = `upnp-igd - UPnP IGD port mapping client

Usage:
  upnp-igd <command> [flags] [args]

Commands:
  discover              Find the gateway and print its details
  add <port> <proto>    Add a port mapping (description args follow)
  delete <port> <proto> Delete a port mapping
  list                  List the gateway's port mappings
  external-ip           Print the gateway's WAN IP address
  interactive           Start an interactive session

Use "upnp-igd <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "discover":
		runDiscover(args)
	case "add":
		runAdd(args)
	case "delete":
		runDelete(args)
	case "list":
		runList(args)
	case "external-ip":
		runExternalIP(args)
	case "interactive":
		runInteractive(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// setup parses flags, builds the client and discovers the gateway.
func setup(name string, args []string, extra func(*flag.FlagSet)) (*client, *igd.Gateway, []string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	common := registerCommon(fs)
	if extra != nil {
		extra(fs)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	config, err := common.load(fs)
	if err != nil {
		fatal(err)
	}

	c, err := newClient(config)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gw, err := c.discoverGateway(ctx)
	if err != nil {
		c.close()
		fatal(err)
	}
	return c, gw, fs.Args()
}

func runDiscover(args []string) {
	c, gw, _ := setup("discover", args, nil)
	defer c.close()

	device := gw.Device()
	svc := gw.Service()
	fmt.Printf("Gateway:      %s\n", device.FriendlyName())
	fmt.Printf("Device type:  %s\n", device.DeviceType())
	fmt.Printf("Description:  %s\n", device.Location())
	fmt.Printf("Service:      %s (%s)\n", svc.Key(), svc.ServiceType())
	fmt.Printf("Control URL:  %s\n", svc.ControlURL())
}

func runAdd(args []string) {
	var (
		internalPort   int
		internalClient string
		remoteHost     string
		lease          time.Duration
	)
	c, gw, rest := setup("add", args, func(fs *flag.FlagSet) {
		fs.IntVar(&internalPort, "internal-port", 0, "Internal port (default: same as external)")
		fs.StringVar(&internalClient, "internal-client", "", "Internal client IP (default: local address)")
		fs.StringVar(&remoteHost, "remote-host", "", "Restrict mapping to this WAN peer")
		fs.DurationVar(&lease, "lease", 0, "Lease duration (default: permanent)")
	})
	defer c.close()

	port, protocol := portProtocolArgs("add", rest)
	description := strings.Join(rest[2:], " ")

	ctx, cancel := signalContext()
	defer cancel()

	exists, err := gw.HasPortMapping(ctx, port, protocol)
	if err != nil {
		fatal(err)
	}
	if exists {
		fmt.Printf("Mapping for %s port %d already exists\n", strings.ToUpper(protocol), port)
		return
	}

	err = gw.AddPortMapping(ctx, igd.Mapping{
		RemoteHost:     remoteHost,
		ExternalPort:   port,
		Protocol:       protocol,
		InternalPort:   internalPort,
		InternalClient: internalClient,
		Enabled:        true,
		Description:    description,
		LeaseDuration:  lease,
	})
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Mapping for %s port %d added\n", strings.ToUpper(protocol), port)
}

func runDelete(args []string) {
	c, gw, rest := setup("delete", args, nil)
	defer c.close()

	port, protocol := portProtocolArgs("delete", rest)

	ctx, cancel := signalContext()
	defer cancel()

	if err := gw.DeletePortMapping(ctx, port, protocol); err != nil {
		fatal(err)
	}
	fmt.Printf("Mapping for %s port %d deleted\n", strings.ToUpper(protocol), port)
}

func runList(args []string) {
	c, gw, _ := setup("list", args, nil)
	defer c.close()

	ctx, cancel := signalContext()
	defer cancel()

	mappings, err := gw.PortMappings(ctx)
	if err != nil {
		fatal(err)
	}
	for _, m := range mappings {
		fmt.Println(m)
	}
}

func runExternalIP(args []string) {
	c, gw, _ := setup("external-ip", args, nil)
	defer c.close()

	ctx, cancel := signalContext()
	defer cancel()

	ip, err := gw.ExternalIP(ctx)
	if err != nil {
		fatal(err)
	}
	fmt.Println(ip)
}

func runInteractive(args []string) {
	c, gw, _ := setup("interactive", args, nil)
	defer c.close()

	session, err := interactive.New(gw)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	session.Run(ctx, cancel)
}

// portProtocolArgs validates the two positional arguments shared by add
// and delete.
func portProtocolArgs(cmd string, args []string) (int, string) {
	if len(args) < 2 {
		fatal(fmt.Errorf("usage: upnp-igd %s [flags] <port> <tcp|udp>", cmd))
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		fatal(fmt.Errorf("invalid port %q", args[0]))
	}
	protocol := strings.ToUpper(args[1])
	if protocol != "TCP" && protocol != "UDP" {
		fatal(errors.New("protocol must be tcp or udp"))
	}
	return port, protocol
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/portfwd/upnp-go/pkg/description"
	"github.com/portfwd/upnp-go/pkg/igd"
	"github.com/portfwd/upnp-go/pkg/log"
	"github.com/portfwd/upnp-go/pkg/soap"
	"github.com/portfwd/upnp-go/pkg/ssdp"
)

// Config holds the gateway client configuration. All durations are
// strings in time.ParseDuration syntax so they read naturally in YAML.
type Config struct {
	// SearchWindow is how long discovery listens for responses.
	SearchWindow string `yaml:"search_window"`

	// MX is the response delay bound sent in the search request, seconds.
	MX int `yaml:"mx"`

	// HTTPTimeout bounds description fetches and action calls.
	HTTPTimeout string `yaml:"http_timeout"`

	// Interface restricts the multicast search to one network interface.
	Interface string `yaml:"interface"`

	// ServiceTypes overrides the accepted WAN connection service type
	// names, in preference order.
	ServiceTypes []string `yaml:"service_types"`

	// LogFile enables CBOR exchange logging to the given path.
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		SearchWindow: "4s",
		MX:           ssdp.DefaultMX,
		HTTPTimeout:  "10s",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, nil
}

// commonFlags are the flags every subcommand accepts.
type commonFlags struct {
	configPath string
	window     time.Duration
	iface      string
	logFile    string
}

// registerCommon adds the shared flags to a subcommand flag set.
func registerCommon(fs *flag.FlagSet) *commonFlags {
	f := &commonFlags{}
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file path")
	fs.DurationVar(&f.window, "window", 0, "Discovery listen window (overrides config)")
	fs.StringVar(&f.iface, "interface", "", "Network interface for the multicast search")
	fs.StringVar(&f.logFile, "log", "", "Write CBOR exchange log to this file")
	return f
}

// load resolves the effective config: defaults, then the YAML file,
// then explicitly set flags.
func (f *commonFlags) load(fs *flag.FlagSet) (Config, error) {
	config := DefaultConfig()
	if f.configPath != "" {
		loaded, err := LoadConfig(f.configPath)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "window":
			config.SearchWindow = f.window.String()
		case "interface":
			config.Interface = f.iface
		case "log":
			config.LogFile = f.logFile
		}
	})

	return config, nil
}

// client bundles the per-run collaborators built from a Config.
type client struct {
	config   Config
	logger   log.Logger
	closer   func()
	searcher *ssdp.Searcher
	fetcher  *description.Client
	caller   *soap.Client
}

// newClient constructs the collaborators. Call close when done.
func newClient(config Config) (*client, error) {
	window, err := time.ParseDuration(config.SearchWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid search_window: %w", err)
	}
	httpTimeout, err := time.ParseDuration(config.HTTPTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid http_timeout: %w", err)
	}

	var iface *net.Interface
	if config.Interface != "" {
		iface, err = net.InterfaceByName(config.Interface)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", config.Interface, err)
		}
	}

	var logger log.Logger
	closer := func() {}
	if config.LogFile != "" {
		fileLogger, err := log.NewFileLogger(config.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logger = fileLogger
		closer = func() { _ = fileLogger.Close() }
	}

	return &client{
		config: config,
		logger: logger,
		closer: closer,
		searcher: ssdp.NewSearcher(ssdp.Config{
			MX:        config.MX,
			Window:    window,
			Interface: iface,
			Logger:    logger,
		}),
		fetcher: description.NewClient(description.ClientConfig{
			Timeout: httpTimeout,
			Logger:  logger,
		}),
		caller: soap.NewClient(soap.ClientConfig{
			Timeout: httpTimeout,
			Logger:  logger,
		}),
	}, nil
}

// close releases the client's resources.
func (c *client) close() { c.closer() }

// discoverGateway runs the full discovery pipeline.
func (c *client) discoverGateway(ctx context.Context) (*igd.Gateway, error) {
	return igd.Discover(ctx, igd.Config{
		Searcher:         c.searcher,
		Fetcher:          c.fetcher,
		Caller:           c.caller,
		ServiceTypeNames: c.config.ServiceTypes,
	})
}

package igd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/portfwd/upnp-go/pkg/description"
	"github.com/portfwd/upnp-go/pkg/model"
	"github.com/portfwd/upnp-go/pkg/soap"
	"github.com/portfwd/upnp-go/pkg/ssdp"
)

// Gateway errors.
var (
	ErrNoGateway    = errors.New("no gateway found")
	ErrNoWANService = errors.New("gateway has no WAN connection service")
)

// defaultServiceTypeNames are the WAN connection service flavors, in
// preference order. IP-routed gateways expose WANIPConnection;
// DSL gateways doing PPP expose WANPPPConnection instead.
var defaultServiceTypeNames = []string{"WANIPConnection", "WANPPPConnection"}

// searchTargets are tried in order until a gateway answers. Version 2
// first; an IGD:2 device also implements the version 1 actions used
// here, and querying the newest target finds it directly.
var searchTargets = []string{
	ssdp.TargetInternetGatewayDevice2,
	ssdp.TargetInternetGatewayDevice1,
}

// Searcher is the discovery dependency of Discover. It is satisfied by
// *ssdp.Searcher.
type Searcher interface {
	Search(ctx context.Context, target string) (<-chan *ssdp.Response, error)
}

var _ Searcher = (*ssdp.Searcher)(nil)

// Config carries the collaborators for gateway discovery.
type Config struct {
	// Searcher performs the SSDP search. Required for Discover.
	Searcher Searcher

	// Fetcher retrieves description documents. Required.
	Fetcher description.Fetcher

	// Caller performs SOAP invocations. Required.
	Caller model.Caller

	// ServiceTypeNames overrides the WAN connection service flavors
	// accepted, in preference order. Nil means WANIPConnection then
	// WANPPPConnection.
	ServiceTypeNames []string
}

// Gateway is a discovered Internet Gateway Device with its selected WAN
// connection service. Immutable after construction.
type Gateway struct {
	device  *model.Device
	service *model.Service
}

// Discover searches for an Internet Gateway Device and returns the
// first one exposing a usable WAN connection service. Search targets
// are tried newest-first; within one search every responder is tried
// before moving to the next target.
func Discover(ctx context.Context, config Config) (*Gateway, error) {
	if config.Searcher == nil || config.Fetcher == nil {
		return nil, errors.New("igd: Config.Searcher and Config.Fetcher are required")
	}

	var lastErr error
	for _, target := range searchTargets {
		results, err := config.Searcher.Search(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("search for %s: %w", target, err)
		}

		for resp := range results {
			device, err := model.NewDevice(ctx, resp.Addr, resp.Location, model.Config{
				Fetcher: config.Fetcher,
				Caller:  config.Caller,
			})
			if err != nil {
				lastErr = err
				continue
			}

			gw, err := FromDevice(device, config.ServiceTypeNames...)
			if err != nil {
				lastErr = err
				continue
			}
			return gw, nil
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w (last candidate: %s)", ErrNoGateway, lastErr)
	}
	return nil, ErrNoGateway
}

// FromDevice selects the WAN connection service on an already-built
// device model. typeNames defaults to WANIPConnection then
// WANPPPConnection.
func FromDevice(device *model.Device, typeNames ...string) (*Gateway, error) {
	if len(typeNames) == 0 {
		typeNames = defaultServiceTypeNames
	}

	for _, typeName := range typeNames {
		services := device.FindServicesByTypeName(typeName)
		if len(services) == 0 {
			continue
		}
		return &Gateway{device: device, service: services[0]}, nil
	}

	return nil, fmt.Errorf("%w: device %s at %s", ErrNoWANService,
		device.FriendlyName(), device.Location())
}

// Device returns the underlying device model.
func (g *Gateway) Device() *model.Device { return g.device }

// Service returns the selected WAN connection service.
func (g *Gateway) Service() *model.Service { return g.service }

// ExternalIP returns the gateway's WAN-side IP address.
func (g *Gateway) ExternalIP(ctx context.Context) (net.IP, error) {
	out, err := g.service.Call(ctx, "GetExternalIPAddress", nil)
	if err != nil {
		return nil, err
	}

	raw := out["NewExternalIPAddress"]
	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, fmt.Errorf("gateway returned unparseable external IP %q", raw)
	}
	return ip, nil
}

// AddPortMapping creates a port forwarding entry. An empty
// InternalClient is filled with the local address facing the gateway; a
// zero InternalPort mirrors ExternalPort.
func (g *Gateway) AddPortMapping(ctx context.Context, m Mapping) error {
	protocol, err := normalizeProtocol(m.Protocol)
	if err != nil {
		return err
	}

	internalClient := m.InternalClient
	if internalClient == "" {
		internalClient, err = g.LocalIP()
		if err != nil {
			return fmt.Errorf("determine internal client: %w", err)
		}
	}
	internalPort := m.InternalPort
	if internalPort == 0 {
		internalPort = m.ExternalPort
	}
	enabled := "0"
	if m.Enabled {
		enabled = "1"
	}

	_, err = g.service.Call(ctx, "AddPortMapping", map[string]string{
		"NewRemoteHost":             m.RemoteHost,
		"NewExternalPort":           strconv.Itoa(m.ExternalPort),
		"NewProtocol":               protocol,
		"NewInternalPort":           strconv.Itoa(internalPort),
		"NewInternalClient":         internalClient,
		"NewEnabled":                enabled,
		"NewPortMappingDescription": m.Description,
		"NewLeaseDuration":          strconv.Itoa(int(m.LeaseDuration / time.Second)),
	})
	if err != nil {
		return fmt.Errorf("add mapping for %s port %d: %w", protocol, m.ExternalPort, err)
	}
	return nil
}

// DeletePortMapping removes the forwarding entry for the external
// port/protocol pair.
func (g *Gateway) DeletePortMapping(ctx context.Context, externalPort int, protocol string) error {
	proto, err := normalizeProtocol(protocol)
	if err != nil {
		return err
	}

	_, err = g.service.Call(ctx, "DeletePortMapping", map[string]string{
		"NewRemoteHost":   "",
		"NewExternalPort": strconv.Itoa(externalPort),
		"NewProtocol":     proto,
	})
	if err != nil {
		return fmt.Errorf("delete mapping for %s port %d: %w", proto, externalPort, err)
	}
	return nil
}

// PortMappings enumerates the gateway's forwarding table by walking
// GetGenericPortMappingEntry indices until the device faults, which is
// how the table's end is signalled (typically error 713).
func (g *Gateway) PortMappings(ctx context.Context) ([]Mapping, error) {
	var mappings []Mapping
	for i := 0; ; i++ {
		out, err := g.service.Call(ctx, "GetGenericPortMappingEntry", map[string]string{
			"NewPortMappingIndex": strconv.Itoa(i),
		})
		if err != nil {
			var fault *soap.FaultError
			if errors.As(err, &fault) {
				return mappings, nil
			}
			return nil, fmt.Errorf("list mappings: %w", err)
		}
		mappings = append(mappings, parseMapping(out))
	}
}

// HasPortMapping reports whether a forwarding entry exists for the
// external port/protocol pair.
func (g *Gateway) HasPortMapping(ctx context.Context, externalPort int, protocol string) (bool, error) {
	proto, err := normalizeProtocol(protocol)
	if err != nil {
		return false, err
	}

	mappings, err := g.PortMappings(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range mappings {
		if m.ExternalPort == externalPort && m.Protocol == proto {
			return true, nil
		}
	}
	return false, nil
}

// LocalIP returns the local address used to reach the gateway,
// determined by connecting a UDP socket towards it. No traffic is sent.
func (g *Gateway) LocalIP() (string, error) {
	host := g.device.BaseURL().Hostname()
	conn, err := net.Dial("udp4", net.JoinHostPort(host, "1900"))
	if err != nil {
		return "", fmt.Errorf("determine local IP towards %s: %w", host, err)
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	return addr.IP.String(), nil
}

package igd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidProtocol reports a protocol other than TCP or UDP.
var ErrInvalidProtocol = errors.New("protocol must be TCP or UDP")

// Mapping is one port forwarding entry on the gateway.
type Mapping struct {
	// RemoteHost restricts the mapping to one WAN peer. Empty means any.
	RemoteHost string

	// ExternalPort is the WAN-side port.
	ExternalPort int

	// Protocol is TCP or UDP.
	Protocol string

	// InternalPort is the LAN-side port. Zero means ExternalPort.
	InternalPort int

	// InternalClient is the LAN IP the mapping forwards to. Empty lets
	// AddPortMapping fill in the local address.
	InternalClient string

	// Enabled mirrors the gateway's NewEnabled flag.
	Enabled bool

	// Description is the free-text label shown in the gateway's UI.
	Description string

	// LeaseDuration is the mapping lifetime. Zero means permanent.
	LeaseDuration time.Duration
}

// normalizeProtocol upper-cases and validates the protocol.
func normalizeProtocol(protocol string) (string, error) {
	p := strings.ToUpper(protocol)
	if p != "TCP" && p != "UDP" {
		return "", fmt.Errorf("%w: %q", ErrInvalidProtocol, protocol)
	}
	return p, nil
}

// parseMapping converts a GetGenericPortMappingEntry response into a
// Mapping. Numeric fields a device renders unparseably are left zero;
// listing must not fail on one odd entry.
func parseMapping(out map[string]string) Mapping {
	externalPort, _ := strconv.Atoi(out["NewExternalPort"])
	internalPort, _ := strconv.Atoi(out["NewInternalPort"])
	leaseSeconds, _ := strconv.Atoi(out["NewLeaseDuration"])

	return Mapping{
		RemoteHost:     out["NewRemoteHost"],
		ExternalPort:   externalPort,
		Protocol:       out["NewProtocol"],
		InternalPort:   internalPort,
		InternalClient: out["NewInternalClient"],
		Enabled:        out["NewEnabled"] == "1",
		Description:    out["NewPortMappingDescription"],
		LeaseDuration:  time.Duration(leaseSeconds) * time.Second,
	}
}

// String renders the mapping as one list line.
func (m Mapping) String() string {
	return fmt.Sprintf("%5d  %-3s  %-15s %5d  %-37s  %5ds",
		m.ExternalPort, m.Protocol, m.InternalClient, m.InternalPort,
		m.Description, int(m.LeaseDuration/time.Second))
}

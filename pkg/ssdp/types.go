package ssdp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MulticastAddr is the well-known SSDP multicast endpoint.
const MulticastAddr = "239.255.255.250:1900"

// Common search targets.
const (
	// TargetAll matches every SSDP-capable device and service.
	TargetAll = "ssdp:all"

	// TargetRootDevice matches root devices only.
	TargetRootDevice = "upnp:rootdevice"

	// TargetInternetGatewayDevice1 and TargetInternetGatewayDevice2 match
	// IGD devices. Queried explicitly because some devices answer ssdp:all
	// with only their first descriptor, which is often not the IGD one.
	TargetInternetGatewayDevice1 = "urn:schemas-upnp-org:device:InternetGatewayDevice:1"
	TargetInternetGatewayDevice2 = "urn:schemas-upnp-org:device:InternetGatewayDevice:2"
)

// Response errors.
var (
	ErrMalformedResponse = errors.New("malformed search response")
	ErrMissingLocation   = errors.New("search response without LOCATION header")
)

// Response is one device's answer to an M-SEARCH query.
type Response struct {
	// Addr is the host:port the response came from.
	Addr string

	// Location is the device description URL from the LOCATION header.
	Location string

	// ST echoes the search target the device matched.
	ST string

	// USN is the composite unique service name, e.g.
	// uuid:...::urn:schemas-upnp-org:device:InternetGatewayDevice:1.
	USN string

	// Server is the device's self-description, e.g. MiniUPnPd/2.3.0.
	Server string

	// Headers retains the full response header set for callers that need
	// vendor extensions.
	Headers http.Header
}

// UUID returns the uuid: prefix portion of the USN, without the prefix.
func (r *Response) UUID() string {
	head, _, _ := strings.Cut(r.USN, "::")
	return strings.TrimPrefix(head, "uuid:")
}

// ParseResponse parses one raw search response datagram. Responses are
// HTTP/1.1 200 OK messages without a body; anything else is rejected.
func ParseResponse(raw []byte, addr string) (*Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", ErrMalformedResponse, resp.Status)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return nil, ErrMissingLocation
	}

	return &Response{
		Addr:     addr,
		Location: location,
		ST:       resp.Header.Get("St"),
		USN:      resp.Header.Get("Usn"),
		Server:   resp.Header.Get("Server"),
		Headers:  resp.Header,
	}, nil
}

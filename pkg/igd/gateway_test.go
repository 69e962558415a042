package igd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portfwd/upnp-go/internal/upnptest"
	"github.com/portfwd/upnp-go/pkg/igd"
	"github.com/portfwd/upnp-go/pkg/model"
	"github.com/portfwd/upnp-go/pkg/soap"
	"github.com/portfwd/upnp-go/pkg/ssdp"
)

const (
	gatewayAddr     = "192.168.1.1:1900"
	gatewayLocation = "http://192.168.1.1:49152/rootDesc.xml"
)

func gatewayFetcher() *upnptest.FakeFetcher {
	return upnptest.NewFakeFetcher(map[string]string{
		gatewayLocation:                        upnptest.RootDescWithURLBase,
		"http://192.168.1.1:49152/wanipcn.xml": upnptest.WANIPConnectionSCPD,
		"http://192.168.1.1:49152/l3frwd.xml":  upnptest.Layer3ForwardingSCPD,
	})
}

func testGateway(t *testing.T, caller *upnptest.FakeCaller) *igd.Gateway {
	t.Helper()
	device, err := model.NewDevice(context.Background(), gatewayAddr, gatewayLocation, model.Config{
		Fetcher: gatewayFetcher(),
		Caller:  caller,
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	gw, err := igd.FromDevice(device)
	if err != nil {
		t.Fatalf("FromDevice failed: %v", err)
	}
	return gw
}

// fakeSearcher serves scripted responses per search target and records
// the targets queried.
type fakeSearcher struct {
	responses map[string][]*ssdp.Response
	targets   []string
}

func (s *fakeSearcher) Search(ctx context.Context, target string) (<-chan *ssdp.Response, error) {
	s.targets = append(s.targets, target)
	results := make(chan *ssdp.Response, len(s.responses[target]))
	for _, r := range s.responses[target] {
		results <- r
	}
	close(results)
	return results, nil
}

func TestFromDevice(t *testing.T) {
	gw := testGateway(t, upnptest.NewFakeCaller())

	svc := gw.Service()
	if svc.TypeName() != "WANIPConnection" {
		t.Errorf("TypeName: got %q", svc.TypeName())
	}
	if gw.Device().DeviceType() != "urn:schemas-upnp-org:device:InternetGatewayDevice:1" {
		t.Errorf("DeviceType: got %q", gw.Device().DeviceType())
	}
}

func TestFromDeviceNoWANService(t *testing.T) {
	device, err := model.NewDevice(context.Background(), gatewayAddr, gatewayLocation, model.Config{
		Fetcher: gatewayFetcher(),
	})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}

	_, err = igd.FromDevice(device, "WANPPPConnection")
	if !errors.Is(err, igd.ErrNoWANService) {
		t.Errorf("got %v, want ErrNoWANService", err)
	}
}

func TestDiscoverFallsBackToVersion1(t *testing.T) {
	// Nothing answers the IGD:2 query; the IGD:1 query finds the gateway.
	searcher := &fakeSearcher{
		responses: map[string][]*ssdp.Response{
			ssdp.TargetInternetGatewayDevice1: {{
				Addr:     gatewayAddr,
				Location: gatewayLocation,
				ST:       ssdp.TargetInternetGatewayDevice1,
				USN:      "uuid:11111111-2222-3333-4444-555555555555::" + ssdp.TargetInternetGatewayDevice1,
			}},
		},
	}

	gw, err := igd.Discover(context.Background(), igd.Config{
		Searcher: searcher,
		Fetcher:  gatewayFetcher(),
		Caller:   upnptest.NewFakeCaller(),
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if gw.Service().TypeName() != "WANIPConnection" {
		t.Errorf("TypeName: got %q", gw.Service().TypeName())
	}

	want := []string{ssdp.TargetInternetGatewayDevice2, ssdp.TargetInternetGatewayDevice1}
	if len(searcher.targets) != 2 || searcher.targets[0] != want[0] || searcher.targets[1] != want[1] {
		t.Errorf("targets: got %v, want %v", searcher.targets, want)
	}
}

func TestDiscoverNoResponses(t *testing.T) {
	searcher := &fakeSearcher{responses: map[string][]*ssdp.Response{}}

	_, err := igd.Discover(context.Background(), igd.Config{
		Searcher: searcher,
		Fetcher:  gatewayFetcher(),
	})
	if !errors.Is(err, igd.ErrNoGateway) {
		t.Errorf("got %v, want ErrNoGateway", err)
	}
}

func TestDiscoverSkipsUnusableResponders(t *testing.T) {
	// The first responder's description is unreachable; the second works.
	badLocation := "http://192.168.1.9:49152/rootDesc.xml"
	searcher := &fakeSearcher{
		responses: map[string][]*ssdp.Response{
			ssdp.TargetInternetGatewayDevice2: {
				{Addr: "192.168.1.9:1900", Location: badLocation, USN: "uuid:bad"},
				{Addr: gatewayAddr, Location: gatewayLocation, USN: "uuid:good"},
			},
		},
	}

	gw, err := igd.Discover(context.Background(), igd.Config{
		Searcher: searcher,
		Fetcher:  gatewayFetcher(),
		Caller:   upnptest.NewFakeCaller(),
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if gw.Device().Addr() != gatewayAddr {
		t.Errorf("Addr: got %q", gw.Device().Addr())
	}
}

func TestExternalIP(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	caller.Results["GetExternalIPAddress"] = map[string]string{"NewExternalIPAddress": "203.0.113.7"}

	gw := testGateway(t, caller)

	ip, err := gw.ExternalIP(context.Background())
	if err != nil {
		t.Fatalf("ExternalIP failed: %v", err)
	}
	if ip.String() != "203.0.113.7" {
		t.Errorf("got %s", ip)
	}
}

func TestExternalIPUnparseable(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	caller.Results["GetExternalIPAddress"] = map[string]string{"NewExternalIPAddress": "not-an-ip"}

	gw := testGateway(t, caller)

	if _, err := gw.ExternalIP(context.Background()); err == nil {
		t.Fatal("expected error for unparseable IP")
	}
}

func TestAddPortMapping(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	gw := testGateway(t, caller)

	err := gw.AddPortMapping(context.Background(), igd.Mapping{
		ExternalPort:   8080,
		Protocol:       "tcp",
		InternalClient: "192.168.1.42",
		Enabled:        true,
		Description:    "web server",
	})
	if err != nil {
		t.Fatalf("AddPortMapping failed: %v", err)
	}

	call := caller.LastCall()
	if call.Action != "AddPortMapping" {
		t.Fatalf("Action: got %q", call.Action)
	}

	got := make(map[string]string, len(call.Args))
	for _, arg := range call.Args {
		got[arg.Name] = arg.Value
	}
	want := map[string]string{
		"NewRemoteHost":             "",
		"NewExternalPort":           "8080",
		"NewProtocol":               "TCP",
		"NewInternalPort":           "8080",
		"NewInternalClient":         "192.168.1.42",
		"NewEnabled":                "1",
		"NewPortMappingDescription": "web server",
		"NewLeaseDuration":          "0",
	}
	for name, value := range want {
		if got[name] != value {
			t.Errorf("%s: got %q, want %q", name, got[name], value)
		}
	}
}

func TestAddPortMappingInvalidProtocol(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	gw := testGateway(t, caller)

	err := gw.AddPortMapping(context.Background(), igd.Mapping{
		ExternalPort:   8080,
		Protocol:       "sctp",
		InternalClient: "192.168.1.42",
	})
	if !errors.Is(err, igd.ErrInvalidProtocol) {
		t.Errorf("got %v, want ErrInvalidProtocol", err)
	}
	if caller.CallCount() != 0 {
		t.Errorf("expected no calls, got %d", caller.CallCount())
	}
}

func TestAddPortMappingFault(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	caller.Errors["AddPortMapping"] = &soap.FaultError{Code: 718, Description: "ConflictInMappingEntry"}

	gw := testGateway(t, caller)

	err := gw.AddPortMapping(context.Background(), igd.Mapping{
		ExternalPort:   8080,
		Protocol:       "TCP",
		InternalClient: "192.168.1.42",
		Enabled:        true,
	})

	var fault *soap.FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("expected *soap.FaultError, got %v", err)
	}
	if fault.Code != 718 {
		t.Errorf("Code: got %d", fault.Code)
	}
}

func TestDeletePortMapping(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	gw := testGateway(t, caller)

	if err := gw.DeletePortMapping(context.Background(), 8080, "udp"); err != nil {
		t.Fatalf("DeletePortMapping failed: %v", err)
	}

	call := caller.LastCall()
	if call.Action != "DeletePortMapping" {
		t.Fatalf("Action: got %q", call.Action)
	}
	if len(call.Args) != 3 {
		t.Fatalf("Args: got %d, want 3", len(call.Args))
	}
	if call.Args[1].Value != "8080" || call.Args[2].Value != "UDP" {
		t.Errorf("Args: got %v", call.Args)
	}
}

func TestPortMappings(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	caller.Sequence["GetGenericPortMappingEntry"] = []upnptest.CallResult{
		{Out: map[string]string{
			"NewRemoteHost":             "",
			"NewExternalPort":           "8080",
			"NewProtocol":               "TCP",
			"NewInternalPort":           "80",
			"NewInternalClient":         "192.168.1.42",
			"NewEnabled":                "1",
			"NewPortMappingDescription": "web server",
			"NewLeaseDuration":          "3600",
		}},
		{Out: map[string]string{
			"NewExternalPort": "5353",
			"NewProtocol":     "UDP",
			"NewEnabled":      "0",
		}},
		{Err: &soap.FaultError{Code: 713, Description: "SpecifiedArrayIndexInvalid"}},
	}

	gw := testGateway(t, caller)

	mappings, err := gw.PortMappings(context.Background())
	if err != nil {
		t.Fatalf("PortMappings failed: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(mappings))
	}

	first := mappings[0]
	if first.ExternalPort != 8080 || first.Protocol != "TCP" || first.InternalPort != 80 {
		t.Errorf("first mapping: got %+v", first)
	}
	if !first.Enabled || first.Description != "web server" {
		t.Errorf("first mapping: got %+v", first)
	}
	if first.LeaseDuration != time.Hour {
		t.Errorf("LeaseDuration: got %s", first.LeaseDuration)
	}

	if mappings[1].Enabled {
		t.Error("second mapping should be disabled")
	}

	// Indices must walk 0, 1, 2.
	for i, call := range caller.Calls {
		if len(call.Args) != 1 || call.Args[0].Name != "NewPortMappingIndex" {
			t.Fatalf("call %d: got %v", i, call.Args)
		}
	}
	if caller.Calls[2].Args[0].Value != "2" {
		t.Errorf("final index: got %q", caller.Calls[2].Args[0].Value)
	}
}

func TestPortMappingsTransportError(t *testing.T) {
	caller := upnptest.NewFakeCaller()
	caller.Errors["GetGenericPortMappingEntry"] = errors.New("connection reset")

	gw := testGateway(t, caller)

	if _, err := gw.PortMappings(context.Background()); err == nil {
		t.Fatal("transport errors must not be treated as end of table")
	}
}

func TestHasPortMapping(t *testing.T) {
	endOfTable := &soap.FaultError{Code: 713, Description: "SpecifiedArrayIndexInvalid"}

	caller := upnptest.NewFakeCaller()
	caller.Sequence["GetGenericPortMappingEntry"] = []upnptest.CallResult{
		{Out: map[string]string{"NewExternalPort": "8080", "NewProtocol": "TCP"}},
		{Err: endOfTable},
		{Out: map[string]string{"NewExternalPort": "8080", "NewProtocol": "TCP"}},
		{Err: endOfTable},
	}

	gw := testGateway(t, caller)

	found, err := gw.HasPortMapping(context.Background(), 8080, "tcp")
	if err != nil {
		t.Fatalf("HasPortMapping failed: %v", err)
	}
	if !found {
		t.Error("expected mapping to be found")
	}

	found, err = gw.HasPortMapping(context.Background(), 2222, "TCP")
	if err != nil {
		t.Fatalf("HasPortMapping failed: %v", err)
	}
	if found {
		t.Error("unexpected match")
	}
}

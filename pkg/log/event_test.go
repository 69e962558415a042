package log

import (
	"testing"
	"time"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.dir.String()
		if got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerDiscovery, "DISCOVERY"},
		{LayerDescription, "DESCRIPTION"},
		{LayerControl, "CONTROL"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategorySearch, "SEARCH"},
		{CategoryFetch, "FETCH"},
		{CategoryAction, "ACTION"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestEventRoundTrip(t *testing.T) {
	faultCode := 718
	rtt := 42 * time.Millisecond

	event := Event{
		Timestamp:   time.Now().UTC(),
		ExchangeID:  "0f6e1a2c-0000-4000-8000-000000000001",
		Direction:   DirectionIn,
		Layer:       LayerControl,
		Category:    CategoryAction,
		RemoteAddr:  "192.168.1.1:49152",
		ServiceType: "urn:schemas-upnp-org:service:WANIPConnection:1",
		Action: &ActionEvent{
			Action:           "AddPortMapping",
			ControlURL:       "http://192.168.1.1:49152/upnp/control/WANIPConn1",
			InArgs:           8,
			FaultCode:        &faultCode,
			FaultDescription: "ConflictInMappingEntry",
			RTT:              &rtt,
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.ExchangeID != event.ExchangeID {
		t.Errorf("ExchangeID: got %q, want %q", decoded.ExchangeID, event.ExchangeID)
	}
	if decoded.ServiceType != event.ServiceType {
		t.Errorf("ServiceType: got %q, want %q", decoded.ServiceType, event.ServiceType)
	}
	if decoded.Action == nil {
		t.Fatal("Action is nil")
	}
	if decoded.Action.Action != "AddPortMapping" {
		t.Errorf("Action.Action: got %q, want AddPortMapping", decoded.Action.Action)
	}
	if decoded.Action.FaultCode == nil || *decoded.Action.FaultCode != 718 {
		t.Errorf("Action.FaultCode: got %v, want 718", decoded.Action.FaultCode)
	}
	if decoded.Action.RTT == nil || *decoded.Action.RTT != rtt {
		t.Errorf("Action.RTT: got %v, want %v", decoded.Action.RTT, rtt)
	}
}

func TestSearchEventRoundTrip(t *testing.T) {
	event := Event{
		Timestamp:  time.Now().UTC(),
		ExchangeID: "search-1",
		Direction:  DirectionOut,
		Layer:      LayerDiscovery,
		Category:   CategorySearch,
		Search: &SearchEvent{
			Target: "urn:schemas-upnp-org:device:InternetGatewayDevice:1",
			MX:     2,
		},
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Search == nil {
		t.Fatal("Search is nil")
	}
	if decoded.Search.Target != event.Search.Target {
		t.Errorf("Search.Target: got %q, want %q", decoded.Search.Target, event.Search.Target)
	}
	if decoded.Search.MX != 2 {
		t.Errorf("Search.MX: got %d, want 2", decoded.Search.MX)
	}
}

func TestOrNoop(t *testing.T) {
	if OrNoop(nil) == nil {
		t.Fatal("OrNoop(nil) returned nil")
	}

	fl := &MultiLogger{}
	if OrNoop(fl) != Logger(fl) {
		t.Error("OrNoop should return the logger unchanged when non-nil")
	}
}

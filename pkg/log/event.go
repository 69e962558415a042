package log

import (
	"time"
)

// Event represents a UPnP exchange event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ExchangeID correlates the events of one search, fetch or action call (UUID).
	ExchangeID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (IP:port), when known.
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// DeviceType is the UPnP device type URN (populated once the device is built).
	DeviceType string `cbor:"7,keyasint,omitempty"`

	// ServiceType is the UPnP service type URN for control-layer events.
	ServiceType string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Search *SearchEvent    `cbor:"10,keyasint,omitempty"` // Discovery layer
	Fetch  *FetchEvent     `cbor:"11,keyasint,omitempty"` // Description layer
	Action *ActionEvent    `cbor:"12,keyasint,omitempty"` // Control layer
	Error  *ErrorEventData `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerDiscovery is the SSDP multicast search layer.
	LayerDiscovery Layer = 0
	// LayerDescription is the device/SCPD description fetch layer.
	LayerDescription Layer = 1
	// LayerControl is the SOAP action invocation layer.
	LayerControl Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerDiscovery:
		return "DISCOVERY"
	case LayerDescription:
		return "DESCRIPTION"
	case LayerControl:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategorySearch indicates an SSDP search request or response.
	CategorySearch Category = 0
	// CategoryFetch indicates a description document retrieval.
	CategoryFetch Category = 1
	// CategoryAction indicates a SOAP action request or response.
	CategoryAction Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySearch:
		return "SEARCH"
	case CategoryFetch:
		return "FETCH"
	case CategoryAction:
		return "ACTION"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SearchEvent captures an SSDP M-SEARCH exchange at the discovery layer.
type SearchEvent struct {
	// Target is the search target (ST header) of the request.
	Target string `cbor:"1,keyasint"`

	// MX is the maximum response delay advertised in the request, in seconds.
	MX int `cbor:"2,keyasint,omitempty"`

	// Location is the description URL from a response (response only).
	Location string `cbor:"3,keyasint,omitempty"`

	// USN is the unique service name from a response (response only).
	USN string `cbor:"4,keyasint,omitempty"`

	// Server is the server identification from a response (response only).
	Server string `cbor:"5,keyasint,omitempty"`
}

// FetchEvent captures a description document retrieval at the description layer.
type FetchEvent struct {
	// URL is the document URL.
	URL string `cbor:"1,keyasint"`

	// Status is the HTTP status code (response only).
	Status int `cbor:"2,keyasint,omitempty"`

	// Size is the document size in bytes (response only).
	Size int `cbor:"3,keyasint,omitempty"`
}

// ActionEvent captures a SOAP action exchange at the control layer.
type ActionEvent struct {
	// Action is the invoked action name.
	Action string `cbor:"1,keyasint"`

	// ControlURL is the endpoint the request was posted to.
	ControlURL string `cbor:"2,keyasint,omitempty"`

	// InArgs is the number of input arguments sent.
	InArgs int `cbor:"3,keyasint,omitempty"`

	// OutArgs is the number of output arguments decoded (response only).
	OutArgs int `cbor:"4,keyasint,omitempty"`

	// FaultCode is the UPnP error code if the device returned a fault.
	FaultCode *int `cbor:"5,keyasint,omitempty"`

	// FaultDescription is the UPnP error description if the device returned a fault.
	FaultDescription string `cbor:"6,keyasint,omitempty"`

	// RTT is the request round-trip time (response only). Stored as nanoseconds.
	RTT *time.Duration `cbor:"7,keyasint,omitempty"`
}

// ErrorEventData captures error details at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context provides additional context (URL, action name, etc).
	Context string `cbor:"3,keyasint,omitempty"`
}

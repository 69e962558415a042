// Package model builds the in-memory object model of a discovered UPnP
// device and dispatches action invocations against it.
//
// The ownership chain is Device > Service > Action > Argument. A Device
// is constructed eagerly from a discovery response: the description
// document is fetched and parsed, the base URL resolved, and every
// declared service fetches its own SCPD and builds its action map during
// construction. A service whose SCPD cannot be retrieved or parsed is
// omitted from the services map; its error is retained and available via
// Device.ServiceErrors. All values are immutable after construction and
// safe to share between goroutines.
//
// Actions are invoked by name through Service.Call, which validates the
// supplied argument names against the action's declared input arguments
// before any network traffic and delegates the wire exchange to a
// soap-compatible Caller.
package model

// Package description retrieves and parses UPnP description documents.
//
// It covers the two document kinds a control point consumes: the device
// description (namespace urn:schemas-upnp-org:device-1-0) advertised via
// the discovery LOCATION header, and the SCPD service description
// (namespace urn:schemas-upnp-org:service-1-0) referenced by each
// service's SCPDURL.
//
// Both schemas are treated as external wire formats with optional-element
// variance: a device description may omit <URLBase>, an action may omit
// <argumentList> entirely, and stray whitespace inside elements is
// common enough in deployed devices that parsed values are trimmed.
package description

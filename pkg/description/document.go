package description

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

// DeviceXMLNamespace is the namespace of UPnP device description documents.
const DeviceXMLNamespace = "urn:schemas-upnp-org:device-1-0"

// Parse errors.
var (
	ErrMalformedDescription = errors.New("malformed description")
)

// Root is the device description document as described by section 2.3
// "Device description" of the UPnP Device Architecture.
type Root struct {
	XMLName     xml.Name    `xml:"root"`
	SpecVersion SpecVersion `xml:"specVersion"`
	URLBase     string      `xml:"URLBase"`
	Device      DeviceDesc  `xml:"device"`
}

// SpecVersion describes the UPnP architecture version a document adheres to.
type SpecVersion struct {
	Major int32 `xml:"major"`
	Minor int32 `xml:"minor"`
}

// DeviceDesc is a declared UPnP device. It can have embedded child devices;
// gateways commonly declare their WAN connection services several levels deep.
type DeviceDesc struct {
	DeviceType       string       `xml:"deviceType"`
	FriendlyName     string       `xml:"friendlyName"`
	Manufacturer     string       `xml:"manufacturer"`
	ModelDescription string       `xml:"modelDescription"`
	ModelName        string       `xml:"modelName"`
	SerialNumber     string       `xml:"serialNumber"`
	UDN              string       `xml:"UDN"`
	Services         []ServiceRef `xml:"serviceList>service"`
	Devices          []DeviceDesc `xml:"deviceList>device"`
}

// ServiceRef is a <service> declaration inside a device description.
// URLs are relative to the document's base URL until resolved.
type ServiceRef struct {
	ServiceType string `xml:"serviceType"`
	ServiceID   string `xml:"serviceId"`
	SCPDURL     string `xml:"SCPDURL"`
	ControlURL  string `xml:"controlURL"`
	EventSubURL string `xml:"eventSubURL"`
}

// ParseRoot parses a device description document.
func ParseRoot(data []byte) (*Root, error) {
	var root Root
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedDescription, err)
	}
	root.clean()
	return &root, nil
}

// AllServices returns the service declarations of the root device and all
// embedded devices, in document order.
func (r *Root) AllServices() []ServiceRef {
	var services []ServiceRef
	r.Device.visit(func(d *DeviceDesc) {
		services = append(services, d.Services...)
	})
	return services
}

// visit calls visitor for the device and all its descendent devices.
func (d *DeviceDesc) visit(visitor func(*DeviceDesc)) {
	visitor(d)
	for i := range d.Devices {
		d.Devices[i].visit(visitor)
	}
}

// clean trims stray whitespace that deployed devices commonly emit.
func (r *Root) clean() {
	r.URLBase = strings.TrimSpace(r.URLBase)
	r.Device.visit(func(d *DeviceDesc) {
		d.DeviceType = strings.TrimSpace(d.DeviceType)
		d.FriendlyName = strings.TrimSpace(d.FriendlyName)
		d.UDN = strings.TrimSpace(d.UDN)
		for i := range d.Services {
			s := &d.Services[i]
			s.ServiceType = strings.TrimSpace(s.ServiceType)
			s.ServiceID = strings.TrimSpace(s.ServiceID)
			s.SCPDURL = strings.TrimSpace(s.SCPDURL)
			s.ControlURL = strings.TrimSpace(s.ControlURL)
			s.EventSubURL = strings.TrimSpace(s.EventSubURL)
		}
	})
}

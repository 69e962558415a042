package model

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/portfwd/upnp-go/pkg/description"
)

// Device errors.
var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrServiceNotFound = errors.New("service not found")
)

// Config carries the collaborators a Device needs to build itself.
type Config struct {
	// Fetcher retrieves description documents. Required.
	Fetcher description.Fetcher

	// Caller performs SOAP action invocations. Required for Call;
	// a model built only for inspection may leave it nil.
	Caller Caller
}

// Device is the fully-resolved model of one discovered UPnP device.
// It is immutable after construction and safe to share between
// goroutines.
type Device struct {
	addr     string
	location string

	deviceType   string
	friendlyName string
	baseURL      *url.URL

	desc []byte

	// services keyed by parsed service key; serviceErrs records the
	// per-service construction failures for keys absent from services.
	services    map[string]*Service
	serviceErrs map[string]error
}

// NewDevice constructs and fully resolves a device from a discovery
// response: addr is the responding endpoint (host:port) and location is
// the description URL from the response's LOCATION header. The
// description is fetched, the base URL resolved, and every declared
// service built eagerly, each fetching its own SCPD.
func NewDevice(ctx context.Context, addr, location string, config Config) (*Device, error) {
	if config.Fetcher == nil {
		return nil, errors.New("model: Config.Fetcher is required")
	}

	data, err := config.Fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch device description: %w", err)
	}

	return BuildDevice(ctx, addr, location, data, config)
}

// BuildDevice constructs a device from already-retrieved description
// bytes. The base URL prefers the document's <URLBase> element and falls
// back to the scheme and host of location; <URLBase> is optional per the
// UPnP spec and many devices omit it.
func BuildDevice(ctx context.Context, addr, location string, data []byte, config Config) (*Device, error) {
	root, err := description.ParseRoot(data)
	if err != nil {
		return nil, err
	}

	if root.Device.DeviceType == "" {
		return nil, fmt.Errorf("%w: missing deviceType", description.ErrMalformedDescription)
	}

	baseURL, err := resolveBaseURL(root.URLBase, location)
	if err != nil {
		return nil, err
	}

	d := &Device{
		addr:         addr,
		location:     location,
		deviceType:   root.Device.DeviceType,
		friendlyName: root.Device.FriendlyName,
		baseURL:      baseURL,
		desc:         data,
		services:     make(map[string]*Service),
		serviceErrs:  make(map[string]error),
	}

	// Build every declared service, including those of embedded devices.
	// First declaration of a key wins; duplicates are silently ignored
	// (devices should not declare duplicate service IDs, but a malformed
	// duplicate must not fail the whole device). A service that cannot be
	// built is omitted and its error retained.
	for _, ref := range root.AllServices() {
		key := ParseServiceKey(ref.ServiceID)
		if key == "" {
			key = ref.ServiceType
		}
		if _, exists := d.services[key]; exists {
			continue
		}
		if _, failed := d.serviceErrs[key]; failed {
			continue
		}

		svc, err := newService(ctx, ref, baseURL, d.deviceType, config.Fetcher, config.Caller)
		if err != nil {
			d.serviceErrs[key] = err
			continue
		}
		d.services[key] = svc
	}

	return d, nil
}

// resolveBaseURL returns the scheme://host:port base for qualifying
// relative service URLs. urlBase is the optional <URLBase> text; when
// empty, the discovery location URL supplies the base.
func resolveBaseURL(urlBase, location string) (*url.URL, error) {
	source := urlBase
	if source == "" {
		source = location
	}

	parsed, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidURL, source, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing scheme or host", ErrInvalidURL, source)
	}

	return &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}, nil
}

// Addr returns the host:port of the endpoint that answered discovery.
func (d *Device) Addr() string { return d.addr }

// Location returns the description URL from the discovery response.
func (d *Device) Location() string { return d.location }

// DeviceType returns the device type URN.
func (d *Device) DeviceType() string { return d.deviceType }

// FriendlyName returns the device's human-readable name, if declared.
func (d *Device) FriendlyName() string { return d.friendlyName }

// BaseURL returns the resolved base URL qualifying all service URLs.
func (d *Device) BaseURL() *url.URL {
	u := *d.baseURL
	return &u
}

// Description returns the raw device description document.
func (d *Device) Description() []byte {
	return append([]byte(nil), d.desc...)
}

// Services returns the service map keyed by parsed service key.
func (d *Device) Services() map[string]*Service {
	services := make(map[string]*Service, len(d.services))
	for key, svc := range d.services {
		services[key] = svc
	}
	return services
}

// Service returns a service by its parsed key.
func (d *Device) Service(key string) (*Service, error) {
	svc, ok := d.services[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, key)
	}
	return svc, nil
}

// ServiceErrors returns the per-service construction failures for
// services omitted from the services map.
func (d *Device) ServiceErrors() map[string]error {
	if len(d.serviceErrs) == 0 {
		return nil
	}
	errs := make(map[string]error, len(d.serviceErrs))
	for key, err := range d.serviceErrs {
		errs[key] = err
	}
	return errs
}

// FindServicesByTypeName returns all services whose type name matches,
// e.g. WANIPConnection, regardless of version or instance key.
func (d *Device) FindServicesByTypeName(typeName string) []*Service {
	var result []*Service
	for _, svc := range d.services {
		if svc.typeName == typeName {
			result = append(result, svc)
		}
	}
	return result
}

// Call invokes an action on the service with the given key.
func (d *Device) Call(ctx context.Context, serviceKey, action string, args map[string]string) (map[string]string, error) {
	svc, err := d.Service(serviceKey)
	if err != nil {
		return nil, err
	}
	return svc.Call(ctx, action, args)
}

package model

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/portfwd/upnp-go/pkg/description"
	"github.com/portfwd/upnp-go/pkg/soap"
)

// Service errors.
var (
	ErrInvalidServiceType = errors.New("invalid service type URN")
	ErrUnknownAction      = errors.New("unknown action")
	ErrUnknownArgument    = errors.New("unknown argument")
)

// Caller invokes one UPnP action against a control URL with ordered
// input arguments. It is satisfied by *soap.Client.
type Caller interface {
	Call(ctx context.Context, controlURL, serviceType, action string, args []soap.Arg) (map[string]string, error)
}

// Compile-time check: *soap.Client implements Caller.
var _ Caller = (*soap.Client)(nil)

// Service is one service instance of a device. It owns the action map
// built from the service's SCPD and dispatches invocations. Immutable
// after construction.
type Service struct {
	serviceType string
	typeName    string
	version     int
	id          string
	key         string

	scpdURL     string
	controlURL  string
	eventSubURL string
	baseURL     *url.URL

	// deviceType is a non-owning back-reference to the owning device,
	// carried for diagnostics only.
	deviceType string

	actions map[string]*Action

	caller Caller
}

// newService constructs a Service from its declaration in the device
// description. The SCPD is fetched and the action map built immediately:
// a service with an unreachable SCPD URL fails here rather than at first
// use. baseURL must already be resolved.
func newService(ctx context.Context, ref description.ServiceRef, baseURL *url.URL, deviceType string, fetcher description.Fetcher, caller Caller) (*Service, error) {
	if ref.ServiceType == "" || ref.ServiceID == "" || ref.SCPDURL == "" ||
		ref.ControlURL == "" || ref.EventSubURL == "" {
		return nil, fmt.Errorf("%w: incomplete service declaration (id %q, type %q)",
			description.ErrMalformedDescription, ref.ServiceID, ref.ServiceType)
	}

	typeName, version, err := parseServiceType(ref.ServiceType)
	if err != nil {
		return nil, err
	}

	s := &Service{
		serviceType: ref.ServiceType,
		typeName:    typeName,
		version:     version,
		id:          ref.ServiceID,
		key:         ParseServiceKey(ref.ServiceID),
		scpdURL:     ref.SCPDURL,
		controlURL:  ref.ControlURL,
		eventSubURL: ref.EventSubURL,
		baseURL:     baseURL,
		deviceType:  deviceType,
		caller:      caller,
	}

	data, err := fetcher.Fetch(ctx, s.SCPDURL())
	if err != nil {
		return nil, fmt.Errorf("service %s: fetch SCPD: %w", s.key, err)
	}

	scpd, err := description.ParseSCPD(data)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", s.key, err)
	}

	s.actions = make(map[string]*Action, len(scpd.Actions))
	for i := range scpd.Actions {
		action, err := newAction(scpd.Actions[i])
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", s.key, err)
		}
		s.actions[action.Name()] = action
	}

	return s, nil
}

// parseServiceType decomposes a service type URN like
// urn:schemas-upnp-org:service:WANIPConnection:1 into its type name
// (4th colon-delimited segment) and integer version (5th segment).
func parseServiceType(serviceType string) (string, int, error) {
	parts := strings.Split(serviceType, ":")
	if len(parts) < 5 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidServiceType, serviceType)
	}
	version, err := strconv.Atoi(parts[4])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: non-integer version", ErrInvalidServiceType, serviceType)
	}
	return parts[3], version, nil
}

// ParseServiceKey derives the stable short key for a service from its
// serviceId: the trailing token after the vendor/domain prefix, e.g.
// urn:upnp-org:serviceId:WANIPConn1 yields WANIPConn1. The key
// distinguishes service instances of the same type within a device.
func ParseServiceKey(serviceID string) string {
	if i := strings.LastIndex(serviceID, ":"); i >= 0 {
		return serviceID[i+1:]
	}
	return serviceID
}

// ServiceType returns the full service type URN.
func (s *Service) ServiceType() string { return s.serviceType }

// TypeName returns the type name segment of the service type URN,
// e.g. WANIPConnection.
func (s *Service) TypeName() string { return s.typeName }

// Version returns the version segment of the service type URN.
func (s *Service) Version() int { return s.version }

// ID returns the raw serviceId string.
func (s *Service) ID() string { return s.id }

// Key returns the parsed service key used in the owning device's
// services map.
func (s *Service) Key() string { return s.key }

// DeviceType returns the device type URN of the owning device.
func (s *Service) DeviceType() string { return s.deviceType }

// SCPDURL returns the absolute SCPD description URL.
func (s *Service) SCPDURL() string { return s.resolve(s.scpdURL) }

// ControlURL returns the absolute control URL that action requests are
// posted to.
func (s *Service) ControlURL() string { return s.resolve(s.controlURL) }

// EventSubURL returns the absolute event subscription URL.
func (s *Service) EventSubURL() string { return s.resolve(s.eventSubURL) }

// resolve qualifies a possibly-relative description URL against the
// device base URL.
func (s *Service) resolve(raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		// A malformed relative URL cannot be qualified; return the base
		// joined textually so the failure surfaces at request time.
		return s.baseURL.String() + raw
	}
	return s.baseURL.ResolveReference(ref).String()
}

// Actions returns the action map keyed by action name.
func (s *Service) Actions() map[string]*Action {
	actions := make(map[string]*Action, len(s.actions))
	for name, action := range s.actions {
		actions[name] = action
	}
	return actions
}

// Action returns a declared action by name.
func (s *Service) Action(name string) (*Action, error) {
	action, ok := s.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return action, nil
}

// Call invokes the named action with the supplied input arguments and
// returns the decoded output arguments unmodified (string passthrough;
// UPnP data-type coercion is a transport concern).
//
// Every key of args must name a declared input argument; unknown keys
// fail with ErrUnknownArgument before any network traffic. Missing input
// arguments are deliberately not pre-validated here: the device reports
// them as a SOAP fault. Calls are never retried.
func (s *Service) Call(ctx context.Context, action string, args map[string]string) (map[string]string, error) {
	act, ok := s.actions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	declared := make(map[string]bool, len(act.argsIn))
	for _, arg := range act.argsIn {
		declared[arg.name] = true
	}
	for name := range args {
		if !declared[name] {
			return nil, fmt.Errorf("%w: action %s has no input argument %q",
				ErrUnknownArgument, action, name)
		}
	}

	// Pair supplied values with input arguments in declaration order.
	ordered := make([]soap.Arg, 0, len(args))
	for _, arg := range act.argsIn {
		value, ok := args[arg.name]
		if !ok {
			continue
		}
		ordered = append(ordered, soap.Arg{Name: arg.name, Value: value})
	}

	return s.caller.Call(ctx, s.ControlURL(), s.serviceType, action, ordered)
}

package soap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/portfwd/upnp-go/pkg/log"
)

// DefaultCallTimeout bounds a single action invocation.
const DefaultCallTimeout = 10 * time.Second

// ClientConfig configures a SOAP client.
type ClientConfig struct {
	// Timeout bounds each call. Zero means DefaultCallTimeout.
	Timeout time.Duration

	// HTTPClient overrides the underlying HTTP client. When set, Timeout
	// is ignored and the provided client's settings apply.
	HTTPClient *http.Client

	// Logger receives action events. Nil disables logging.
	Logger log.Logger
}

// Client invokes UPnP actions via SOAP over HTTP POST.
// It is safe for concurrent use.
type Client struct {
	http   *http.Client
	logger log.Logger
}

// NewClient creates a SOAP client.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultCallTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		http:   httpClient,
		logger: log.OrNoop(config.Logger),
	}
}

// Call posts the action request to controlURL and decodes the response.
// args are encoded in slice order. On success the response element's
// output arguments are returned as a flat name→value map. A device-side
// fault is returned as *FaultError. Calls are never retried.
func (c *Client) Call(ctx context.Context, controlURL, serviceType, action string, args []Arg) (map[string]string, error) {
	exchangeID := uuid.NewString()

	payload, err := EncodeRequest(serviceType, action, args)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, controlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPAction", `"`+serviceType+`#`+action+`"`)

	c.logger.Log(log.Event{
		Timestamp:   time.Now(),
		ExchangeID:  exchangeID,
		Direction:   log.DirectionOut,
		Layer:       log.LayerControl,
		Category:    log.CategoryAction,
		ServiceType: serviceType,
		Action: &log.ActionEvent{
			Action:     action,
			ControlURL: controlURL,
			InArgs:     len(args),
		},
	})

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logError(exchangeID, serviceType, action, err)
		return nil, fmt.Errorf("call %s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(exchangeID, serviceType, action, err)
		return nil, fmt.Errorf("read %s response: %w", action, err)
	}

	// Faults arrive with status 500 and a fault body. Any other non-200
	// status without a decodable envelope is a transport failure.
	out, decodeErr := DecodeResponse(body)
	if decodeErr != nil {
		if fault, ok := asFault(decodeErr); ok {
			c.logFault(exchangeID, controlURL, serviceType, action, fault, time.Since(start))
			return nil, fault
		}
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("call %s: unexpected HTTP status: %s", action, resp.Status)
			c.logError(exchangeID, serviceType, action, err)
			return nil, err
		}
		c.logError(exchangeID, serviceType, action, decodeErr)
		return nil, fmt.Errorf("decode %s response: %w", action, decodeErr)
	}

	rtt := time.Since(start)
	c.logger.Log(log.Event{
		Timestamp:   time.Now(),
		ExchangeID:  exchangeID,
		Direction:   log.DirectionIn,
		Layer:       log.LayerControl,
		Category:    log.CategoryAction,
		ServiceType: serviceType,
		Action: &log.ActionEvent{
			Action:     action,
			ControlURL: controlURL,
			OutArgs:    len(out),
			RTT:        &rtt,
		},
	})

	return out, nil
}

func asFault(err error) (*FaultError, bool) {
	fault, ok := err.(*FaultError)
	return fault, ok
}

func (c *Client) logFault(exchangeID, controlURL, serviceType, action string, fault *FaultError, rtt time.Duration) {
	code := fault.Code
	c.logger.Log(log.Event{
		Timestamp:   time.Now(),
		ExchangeID:  exchangeID,
		Direction:   log.DirectionIn,
		Layer:       log.LayerControl,
		Category:    log.CategoryAction,
		ServiceType: serviceType,
		Action: &log.ActionEvent{
			Action:           action,
			ControlURL:       controlURL,
			FaultCode:        &code,
			FaultDescription: fault.Description,
			RTT:              &rtt,
		},
	})
}

func (c *Client) logError(exchangeID, serviceType, action string, err error) {
	c.logger.Log(log.Event{
		Timestamp:   time.Now(),
		ExchangeID:  exchangeID,
		Direction:   log.DirectionIn,
		Layer:       log.LayerControl,
		Category:    log.CategoryError,
		ServiceType: serviceType,
		Error: &log.ErrorEventData{
			Layer:   log.LayerControl,
			Message: err.Error(),
			Context: action,
		},
	})
}

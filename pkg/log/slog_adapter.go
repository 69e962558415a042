package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes exchange events to an slog.Logger.
// Useful for development when you want to see UPnP exchanges in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("exchange_id", event.ExchangeID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote_addr", event.RemoteAddr))
	}
	if event.DeviceType != "" {
		attrs = append(attrs, slog.String("device_type", event.DeviceType))
	}
	if event.ServiceType != "" {
		attrs = append(attrs, slog.String("service_type", event.ServiceType))
	}

	// Add type-specific attributes
	switch {
	case event.Search != nil:
		attrs = append(attrs, slog.String("target", event.Search.Target))
		if event.Search.MX > 0 {
			attrs = append(attrs, slog.Int("mx", event.Search.MX))
		}
		if event.Search.Location != "" {
			attrs = append(attrs, slog.String("location", event.Search.Location))
		}
		if event.Search.USN != "" {
			attrs = append(attrs, slog.String("usn", event.Search.USN))
		}
		if event.Search.Server != "" {
			attrs = append(attrs, slog.String("server", event.Search.Server))
		}
	case event.Fetch != nil:
		attrs = append(attrs, slog.String("url", event.Fetch.URL))
		if event.Fetch.Status != 0 {
			attrs = append(attrs, slog.Int("status", event.Fetch.Status))
		}
		if event.Fetch.Size != 0 {
			attrs = append(attrs, slog.Int("size", event.Fetch.Size))
		}
	case event.Action != nil:
		attrs = append(attrs,
			slog.String("action", event.Action.Action),
			slog.String("control_url", event.Action.ControlURL),
		)
		if event.Direction == DirectionOut {
			attrs = append(attrs, slog.Int("in_args", event.Action.InArgs))
		} else {
			attrs = append(attrs, slog.Int("out_args", event.Action.OutArgs))
		}
		if event.Action.FaultCode != nil {
			attrs = append(attrs,
				slog.Int("fault_code", *event.Action.FaultCode),
				slog.String("fault_description", event.Action.FaultDescription),
			)
		}
		if event.Action.RTT != nil {
			attrs = append(attrs, slog.Duration("rtt", *event.Action.RTT))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "upnp event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

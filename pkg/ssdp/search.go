package ssdp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/ipv4"

	"github.com/portfwd/upnp-go/pkg/log"
)

const (
	// DefaultMX is the maximum response delay, in seconds, asked of
	// devices via the MX header.
	DefaultMX = 2

	// DefaultWindow is how long a search listens for responses. It
	// exceeds DefaultMX to absorb network and device scheduling jitter.
	DefaultWindow = 3 * time.Second

	// userAgent identifies this control point in M-SEARCH requests.
	userAgent = "upnp-go/1.0 UPnP/1.1"

	multicastTTL = 2
)

// Config configures a Searcher.
type Config struct {
	// MX is the response delay bound sent to devices, in seconds.
	// Zero means DefaultMX.
	MX int

	// Window bounds how long each search listens for responses.
	// Zero means DefaultWindow.
	Window time.Duration

	// Interface restricts the multicast query to one network interface.
	// Nil lets the OS route it.
	Interface *net.Interface

	// UnicastAddrs are additional host:port endpoints the query is also
	// sent to directly. Some gateways with broken multicast still answer
	// a unicast query on udp/1900.
	UnicastAddrs []string

	// ListenPacket opens the UDP socket the search runs on. Nil uses
	// net.ListenPacket. The returned connection must also implement
	// net.Conn (every *net.UDPConn does): ipv4.NewPacketConn asserts it.
	// Set this in tests to inject a fake connection.
	ListenPacket func(network, address string) (net.PacketConn, error)

	// Logger receives search events. Nil disables logging.
	Logger log.Logger
}

// Searcher performs SSDP M-SEARCH discovery. It is stateless and safe
// for concurrent use; each Search call opens its own socket.
type Searcher struct {
	mx           int
	window       time.Duration
	iface        *net.Interface
	unicastAddrs []string
	listenPacket func(network, address string) (net.PacketConn, error)
	logger       log.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(config Config) *Searcher {
	mx := config.MX
	if mx == 0 {
		mx = DefaultMX
	}
	window := config.Window
	if window == 0 {
		window = DefaultWindow
	}
	listenPacket := config.ListenPacket
	if listenPacket == nil {
		listenPacket = net.ListenPacket
	}
	return &Searcher{
		mx:           mx,
		window:       window,
		iface:        config.Interface,
		unicastAddrs: config.UnicastAddrs,
		listenPacket: listenPacket,
		logger:       log.OrNoop(config.Logger),
	}
}

// Search multicasts an M-SEARCH query for target and streams the
// responses that arrive within the listen window. Responses are
// deduplicated by USN. The channel is closed when the window expires
// or ctx is cancelled; a nil error means the query was sent.
func (s *Searcher) Search(ctx context.Context, target string) (<-chan *Response, error) {
	conn, err := s.listenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("open search socket: %w", err)
	}
	// ipv4.NewPacketConn asserts its argument to net.Conn and panics on
	// anything else.
	if _, ok := conn.(net.Conn); !ok {
		conn.Close()
		return nil, fmt.Errorf("packet connection %T does not implement net.Conn", conn)
	}

	multicast, err := net.ResolveUDPAddr("udp4", MulticastAddr)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("resolve %s: %w", MulticastAddr, err)
	}

	// Multicast socket options are best effort: a routed default works
	// without them, and test fakes do not implement them.
	p := ipv4.NewPacketConn(conn)
	_ = p.SetMulticastTTL(multicastTTL)
	if s.iface != nil {
		_ = p.SetMulticastInterface(s.iface)
	}

	exchangeID := uuid.NewString()
	request := buildSearchRequest(target, s.mx)

	if _, err := conn.WriteTo(request, multicast); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send search query: %w", err)
	}
	for _, addr := range s.unicastAddrs {
		udpAddr, err := net.ResolveUDPAddr("udp4", addr)
		if err != nil {
			continue
		}
		_, _ = conn.WriteTo(request, udpAddr)
	}

	s.logger.Log(log.Event{
		Timestamp:  time.Now(),
		ExchangeID: exchangeID,
		Direction:  log.DirectionOut,
		Layer:      log.LayerDiscovery,
		Category:   log.CategorySearch,
		RemoteAddr: MulticastAddr,
		Search: &log.SearchEvent{
			Target: target,
			MX:     s.mx,
		},
	})

	results := make(chan *Response)
	go s.collect(ctx, conn, exchangeID, target, results)
	return results, nil
}

// SearchFirst returns the first response to a search for target, or an
// error when the window closes without one.
func (s *Searcher) SearchFirst(ctx context.Context, target string) (*Response, error) {
	// The search is cancelled once the first response arrives; a second
	// responder would otherwise block the collector on the results
	// channel, leaking it and its socket until ctx ends.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := s.Search(ctx, target)
	if err != nil {
		return nil, err
	}
	for resp := range results {
		return resp, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no response to search for %s within %s", target, s.window)
}

// collect owns conn and closes it and the results channel when done.
func (s *Searcher) collect(ctx context.Context, conn net.PacketConn, exchangeID, target string, results chan<- *Response) {
	defer close(results)
	defer conn.Close()

	deadline := time.Now().Add(s.window)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetReadDeadline(deadline)

	// Cancellation unblocks the read by closing the socket.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	seen := make(map[string]struct{})
	buf := make([]byte, 65535)

	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			// Deadline expiry and cancellation both end the window.
			return
		}
		if n == 0 {
			continue
		}

		resp, err := ParseResponse(buf[:n], addr.String())
		if err != nil {
			s.logger.Log(log.Event{
				Timestamp:  time.Now(),
				ExchangeID: exchangeID,
				Direction:  log.DirectionIn,
				Layer:      log.LayerDiscovery,
				Category:   log.CategoryError,
				RemoteAddr: addr.String(),
				Error: &log.ErrorEventData{
					Layer:   log.LayerDiscovery,
					Message: err.Error(),
					Context: target,
				},
			})
			continue
		}

		if _, dup := seen[resp.USN]; dup {
			continue
		}
		seen[resp.USN] = struct{}{}

		s.logger.Log(log.Event{
			Timestamp:  time.Now(),
			ExchangeID: exchangeID,
			Direction:  log.DirectionIn,
			Layer:      log.LayerDiscovery,
			Category:   log.CategorySearch,
			RemoteAddr: resp.Addr,
			Search: &log.SearchEvent{
				Target:   target,
				Location: resp.Location,
				USN:      resp.USN,
				Server:   resp.Server,
			},
		})

		select {
		case results <- resp:
		case <-ctx.Done():
			return
		}
	}
}

// buildSearchRequest renders the M-SEARCH request datagram.
func buildSearchRequest(target string, mx int) []byte {
	return []byte("M-SEARCH * HTTP/1.1\r\n" +
		"HOST: " + MulticastAddr + "\r\n" +
		`MAN: "ssdp:discover"` + "\r\n" +
		fmt.Sprintf("MX: %d\r\n", mx) +
		"ST: " + target + "\r\n" +
		"USER-AGENT: " + userAgent + "\r\n" +
		"\r\n")
}

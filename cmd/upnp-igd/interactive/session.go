// Package interactive provides the interactive command loop for
// upnp-igd.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/portfwd/upnp-go/pkg/igd"
)

// Session handles interactive mode for upnp-igd.
type Session struct {
	gw *igd.Gateway
	rl *readline.Instance
}

// New creates an interactive session driving the given gateway.
func New(gw *igd.Gateway) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "igd> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Session{gw: gw, rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop. It returns when the user
// quits or ctx is cancelled; cancel is invoked on quit.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printStatus()
	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "status":
			s.printStatus()

		case "list", "l":
			s.cmdList(ctx)

		case "add", "a":
			s.cmdAdd(ctx, args)

		case "delete", "del", "d":
			s.cmdDelete(ctx, args)

		case "external-ip", "ip":
			s.cmdExternalIP(ctx)

		case "local-ip":
			s.cmdLocalIP()

		case "actions":
			s.cmdActions()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Gateway Commands:
  list                       - List port mappings
  add <port> <proto> [desc]  - Add a port mapping (proto: tcp or udp)
  delete <port> <proto>      - Delete a port mapping
  external-ip                - Show the gateway's WAN IP
  local-ip                   - Show the local address facing the gateway
  actions                    - List the WAN service's declared actions
  status                     - Show gateway details
  quit                       - Exit`)
}

func (s *Session) printStatus() {
	device := s.gw.Device()
	svc := s.gw.Service()
	fmt.Fprintf(s.rl.Stdout(), "Gateway: %s (%s)\n", device.FriendlyName(), device.Addr())
	fmt.Fprintf(s.rl.Stdout(), "Service: %s v%d via %s\n", svc.TypeName(), svc.Version(), svc.ControlURL())
}

func (s *Session) cmdList(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	mappings, err := s.gw.PortMappings(opCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if len(mappings) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No port mappings")
		return
	}
	for _, m := range mappings {
		fmt.Fprintln(s.rl.Stdout(), m)
	}
}

func (s *Session) cmdAdd(ctx context.Context, args []string) {
	port, protocol, ok := s.portProtocol(args)
	if !ok {
		return
	}
	description := strings.Join(args[2:], " ")

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.gw.AddPortMapping(opCtx, igd.Mapping{
		ExternalPort: port,
		Protocol:     protocol,
		Enabled:      true,
		Description:  description,
	})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Mapping for %s port %d added\n", protocol, port)
}

func (s *Session) cmdDelete(ctx context.Context, args []string) {
	port, protocol, ok := s.portProtocol(args)
	if !ok {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.gw.DeletePortMapping(opCtx, port, protocol); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Mapping for %s port %d deleted\n", protocol, port)
}

func (s *Session) cmdExternalIP(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	ip, err := s.gw.ExternalIP(opCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), ip)
}

func (s *Session) cmdLocalIP() {
	ip, err := s.gw.LocalIP()
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), ip)
}

func (s *Session) cmdActions() {
	for name, action := range s.gw.Service().Actions() {
		fmt.Fprintf(s.rl.Stdout(), "%s (in: %d, out: %d)\n",
			name, len(action.InArguments()), len(action.OutArguments()))
	}
}

func (s *Session) portProtocol(args []string) (int, string, bool) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: <port> <tcp|udp>")
		return 0, "", false
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		fmt.Fprintf(s.rl.Stdout(), "Invalid port: %s\n", args[0])
		return 0, "", false
	}
	protocol := strings.ToUpper(args[1])
	if protocol != "TCP" && protocol != "UDP" {
		fmt.Fprintln(s.rl.Stdout(), "Protocol must be tcp or udp")
		return 0, "", false
	}
	return port, protocol, true
}

// Package health probes MCP servers by speaking the protocol to them.
//
// A probe launches the server's command the same way an agent would and
// performs the MCP initialize handshake over stdio. A server that answers
// the handshake is considered healthy; anything else (missing command,
// spawn failure, timeout, protocol error) is reported with the reason.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"

	"github.com/mcpdock/mcpdock/internal/connector"
	"github.com/mcpdock/mcpdock/internal/errors"
	"github.com/mcpdock/mcpdock/internal/logging"
)

// DefaultTimeout bounds one handshake attempt.
const DefaultTimeout = 10 * time.Second

// ErrNoCommand is returned when a server's configuration carries no
// command, so there is nothing to launch.
var ErrNoCommand = errors.New("server has no command configured")

// Status is the outcome of one probe.
type Status struct {
	// ServerID is the probed server.
	ServerID string `json:"serverId"`

	// Healthy is true when the server answered the initialize handshake.
	Healthy bool `json:"healthy"`

	// Detail is the server's self-reported name and version when healthy,
	// the failure reason otherwise.
	Detail string `json:"detail,omitempty"`

	// Latency is how long the handshake took.
	Latency time.Duration `json:"latency"`
}

// Prober runs protocol-level health checks.
type Prober struct {
	timeout time.Duration
}

// NewProber creates a prober. A zero timeout means DefaultTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{timeout: timeout}
}

// Probe launches the server described by cfg and performs the initialize
// handshake. Probe only errors when the configuration is unusable; a
// server that fails the handshake yields a Status with Healthy false.
func (p *Prober) Probe(ctx context.Context, serverID string, cfg map[string]string) (*Status, error) {
	command, args, env := connector.SplitConfig(cfg)
	if command == "" {
		return nil, errors.Wrapf(ErrNoCommand, "%q", serverID)
	}

	envList := make([]string, 0, len(env))
	for k, v := range env {
		envList = append(envList, k+"="+v)
	}

	start := time.Now()
	status := &Status{ServerID: serverID}

	stdioClient, err := client.NewStdioMCPClient(command, envList, args...)
	if err != nil {
		status.Detail = fmt.Sprintf("spawn failed: %v", err)
		status.Latency = time.Since(start)
		return status, nil
	}
	defer stdioClient.Close()

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := stdioClient.Initialize(probeCtx, mcpproto.InitializeRequest{
		Params: mcpproto.InitializeParams{
			ProtocolVersion: mcpproto.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcpproto.Implementation{Name: "mcpdock", Version: "dev"},
		},
	})
	status.Latency = time.Since(start)
	if err != nil {
		status.Detail = fmt.Sprintf("handshake failed: %v", err)
		return status, nil
	}

	status.Healthy = true
	status.Detail = fmt.Sprintf("%s@%s", result.ServerInfo.Name, result.ServerInfo.Version)

	logging.FromContext(ctx).Debug("probe complete",
		"server", serverID, "healthy", status.Healthy, "latency", status.Latency)

	return status, nil
}

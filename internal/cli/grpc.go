package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/clockbar/clockbar/internal/config"
	"github.com/clockbar/clockbar/internal/daemon/server"
)

// callTimeout bounds every unary bridge call made by the CLI.
const callTimeout = 5 * time.Second

// errHostNotRunning is returned when no tray host instance is recorded.
var errHostNotRunning = fmt.Errorf("clockbard is not running (start it with `clockbar start`)")

// connectHost establishes a bridge connection to the running tray host.
func connectHost() (*server.Client, error) {
	running, info, err := config.IsInstanceRunning()
	if err != nil {
		return nil, fmt.Errorf("failed to load instance info: %w", err)
	}
	if !running || info == nil {
		return nil, errHostNotRunning
	}

	client, err := server.Dial(info.Host, info.Port, info.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clockbard: %w", err)
	}
	return client, nil
}

// withHost runs fn against the running tray host with a call timeout.
func withHost(fn func(ctx context.Context, c *server.Client) error) error {
	client, err := connectHost()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return fn(ctx, client)
}

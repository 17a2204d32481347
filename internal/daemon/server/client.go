package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/clockbar/clockbar/internal/models"
)

// Client calls the bridge services of a running tray host.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for the bridge at host:port, authenticating with
// token.
func Dial(host string, port int, token string) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(TokenCredentials{Token: token}),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(ctx context.Context, service, method string, in, out any) error {
	return c.conn.Invoke(ctx, "/"+service+"/"+method, in, out)
}

func (c *Client) call(ctx context.Context, service, method string, in any) error {
	return c.invoke(ctx, service, method, in, &emptypb.Empty{})
}

// GetSettings returns the settings document.
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	out := models.NewSettings()
	if err := c.invoke(ctx, settingsServiceName, "Get", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSettings replaces the settings document.
func (c *Client) SaveSettings(ctx context.Context, s *models.Settings) error {
	return c.call(ctx, settingsServiceName, "Save", s)
}

// UpdateBitmap replaces the tray icon with a raw RGBA bitmap.
func (c *Client) UpdateBitmap(ctx context.Context, rgba []byte, width, height int) error {
	return c.call(ctx, trayServiceName, "UpdateBitmap", &BitmapRequest{RGBA: rgba, Width: width, Height: height})
}

// UpdateTooltip sets the tray tooltip.
func (c *Client) UpdateTooltip(ctx context.Context, text string) error {
	return c.call(ctx, trayServiceName, "UpdateTooltip", &TooltipRequest{Text: text})
}

// UpdateIconState selects a bundled tray icon.
func (c *Client) UpdateIconState(ctx context.Context, state string) error {
	return c.call(ctx, trayServiceName, "UpdateIconState", &IconStateRequest{State: state})
}

// UpdateTitle sets the text next to the tray icon.
func (c *Client) UpdateTitle(ctx context.Context, title string) error {
	return c.call(ctx, trayServiceName, "UpdateTitle", &TitleRequest{Title: title})
}

// StartTimer starts the tray title timer.
func (c *Client) StartTimer(ctx context.Context, req *StartTimerRequest) error {
	return c.call(ctx, trayServiceName, "StartTimer", req)
}

// StopTimer stops the tray title timer.
func (c *Client) StopTimer(ctx context.Context) error {
	return c.call(ctx, trayServiceName, "StopTimer", &emptypb.Empty{})
}

// Notify shows a desktop notification.
func (c *Client) Notify(ctx context.Context, title, body string) error {
	return c.call(ctx, trayServiceName, "Notify", &NotifyRequest{Title: title, Body: body})
}

// TrayClicked reports a tray click at (x, y).
func (c *Client) TrayClicked(ctx context.Context, x, y int) error {
	return c.call(ctx, windowServiceName, "TrayClicked", &TrayClickRequest{X: x, Y: y})
}

// ToggleWindow toggles the window in place.
func (c *Client) ToggleWindow(ctx context.Context) error {
	return c.call(ctx, windowServiceName, "Toggle", &emptypb.Empty{})
}

// CloseRequested reports a native close request.
func (c *Client) CloseRequested(ctx context.Context) (bool, error) {
	out := &CloseResponse{}
	if err := c.invoke(ctx, windowServiceName, "CloseRequested", &emptypb.Empty{}, out); err != nil {
		return false, err
	}
	return out.Prevented, nil
}

// FocusChanged reports a window focus change.
func (c *Client) FocusChanged(ctx context.Context, focused bool) error {
	return c.call(ctx, windowServiceName, "FocusChanged", &FocusRequest{Focused: focused})
}

// WindowState returns the current window state.
func (c *Client) WindowState(ctx context.Context) (*models.WindowState, error) {
	out := &models.WindowState{}
	if err := c.invoke(ctx, windowServiceName, "GetState", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchWindow streams window state changes to fn until ctx is done or fn
// returns an error.
func (c *Client) WatchWindow(ctx context.Context, fn func(models.WindowState) error) error {
	desc := &windowServiceDesc.Streams[0]
	stream, err := c.conn.NewStream(ctx, desc, "/"+windowServiceName+"/"+desc.StreamName)
	if err != nil {
		return err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		var state models.WindowState
		if err := stream.RecvMsg(&state); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
	}
}

// Status returns the host status.
func (c *Client) Status(ctx context.Context) (*AppStatus, error) {
	out := &AppStatus{}
	if err := c.invoke(ctx, appServiceName, "GetStatus", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Exit asks the host to quit.
func (c *Client) Exit(ctx context.Context) error {
	return c.call(ctx, appServiceName, "Exit", &emptypb.Empty{})
}

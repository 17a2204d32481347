package server

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/clockbar/clockbar/internal/models"
)

// ============================================================================
// gRPC Service Definitions (inline; messages travel as JSON)
// ============================================================================

const (
	settingsServiceName = "clockbar.SettingsService"
	trayServiceName     = "clockbar.TrayService"
	windowServiceName   = "clockbar.WindowService"
	appServiceName      = "clockbar.AppService"
)

// SettingsServiceServer reads and replaces the settings document.
type SettingsServiceServer interface {
	Get(context.Context, *emptypb.Empty) (*models.Settings, error)
	Save(context.Context, *models.Settings) (*emptypb.Empty, error)
}

// TrayServiceServer drives the tray icon, tooltip and title.
type TrayServiceServer interface {
	UpdateBitmap(context.Context, *BitmapRequest) (*emptypb.Empty, error)
	UpdateTooltip(context.Context, *TooltipRequest) (*emptypb.Empty, error)
	UpdateIconState(context.Context, *IconStateRequest) (*emptypb.Empty, error)
	UpdateTitle(context.Context, *TitleRequest) (*emptypb.Empty, error)
	StartTimer(context.Context, *StartTimerRequest) (*emptypb.Empty, error)
	StopTimer(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Notify(context.Context, *NotifyRequest) (*emptypb.Empty, error)
}

// WindowServiceServer forwards window events and exposes window state.
type WindowServiceServer interface {
	TrayClicked(context.Context, *TrayClickRequest) (*emptypb.Empty, error)
	Toggle(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	CloseRequested(context.Context, *emptypb.Empty) (*CloseResponse, error)
	FocusChanged(context.Context, *FocusRequest) (*emptypb.Empty, error)
	GetState(context.Context, *emptypb.Empty) (*models.WindowState, error)
	Watch(*emptypb.Empty, WindowService_WatchServer) error
}

// AppServiceServer reports status and shuts the host down.
type AppServiceServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*AppStatus, error)
	Exit(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// WindowService_WatchServer is the server side of the Watch stream.
type WindowService_WatchServer interface {
	Send(*models.WindowState) error
	grpc.ServerStream
}

// ============================================================================
// Message Types
// ============================================================================

// BitmapRequest carries a raw RGBA bitmap, four bytes per pixel, row-major.
type BitmapRequest struct {
	RGBA   []byte `json:"rgba"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TooltipRequest sets the tray tooltip.
type TooltipRequest struct {
	Text string `json:"text"`
}

// IconStateRequest selects a bundled icon: "active", "onhold" or "idle".
type IconStateRequest struct {
	State string `json:"state"`
}

// TitleRequest sets the text next to the tray icon.
type TitleRequest struct {
	Title string `json:"title"`
}

// StartTimerRequest starts the tray title timer.
type StartTimerRequest struct {
	StartedAt time.Time `json:"startedAt"`
	IssueKey  string    `json:"issueKey,omitempty"`
}

// NotifyRequest shows a desktop notification.
type NotifyRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TrayClickRequest reports a tray icon click in physical screen pixels.
type TrayClickRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CloseResponse tells the shell whether to cancel the native close.
type CloseResponse struct {
	Prevented bool `json:"prevented"`
}

// FocusRequest reports a window focus change.
type FocusRequest struct {
	Focused bool `json:"focused"`
}

// AppStatus describes the running host.
type AppStatus struct {
	Version         string    `json:"version"`
	Platform        string    `json:"platform"`
	Host            string    `json:"host"`
	Port            int       `json:"port"`
	PID             int       `json:"pid"`
	StartedAt       time.Time `json:"startedAt"`
	SettingsPath    string    `json:"settingsPath"`
	UpdateAvailable bool      `json:"updateAvailable"`
	LatestVersion   string    `json:"latestVersion,omitempty"`
	ReleaseURL      string    `json:"releaseUrl,omitempty"`
}

// ============================================================================
// Service Registration
// ============================================================================

// unaryMethod builds a MethodDesc whose handler decodes Req, runs the
// interceptor chain and dispatches to call.
func unaryMethod[Req any, Resp any](service, method string, call func(srv any, ctx context.Context, in *Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := fmt.Sprintf("/%s/%s", service, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var settingsServiceDesc = grpc.ServiceDesc{
	ServiceName: settingsServiceName,
	HandlerType: (*SettingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(settingsServiceName, "Get", func(srv any, ctx context.Context, in *emptypb.Empty) (*models.Settings, error) {
			return srv.(SettingsServiceServer).Get(ctx, in)
		}),
		unaryMethod(settingsServiceName, "Save", func(srv any, ctx context.Context, in *models.Settings) (*emptypb.Empty, error) {
			return srv.(SettingsServiceServer).Save(ctx, in)
		}),
	},
}

var trayServiceDesc = grpc.ServiceDesc{
	ServiceName: trayServiceName,
	HandlerType: (*TrayServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(trayServiceName, "UpdateBitmap", func(srv any, ctx context.Context, in *BitmapRequest) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).UpdateBitmap(ctx, in)
		}),
		unaryMethod(trayServiceName, "UpdateTooltip", func(srv any, ctx context.Context, in *TooltipRequest) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).UpdateTooltip(ctx, in)
		}),
		unaryMethod(trayServiceName, "UpdateIconState", func(srv any, ctx context.Context, in *IconStateRequest) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).UpdateIconState(ctx, in)
		}),
		unaryMethod(trayServiceName, "UpdateTitle", func(srv any, ctx context.Context, in *TitleRequest) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).UpdateTitle(ctx, in)
		}),
		unaryMethod(trayServiceName, "StartTimer", func(srv any, ctx context.Context, in *StartTimerRequest) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).StartTimer(ctx, in)
		}),
		unaryMethod(trayServiceName, "StopTimer", func(srv any, ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).StopTimer(ctx, in)
		}),
		unaryMethod(trayServiceName, "Notify", func(srv any, ctx context.Context, in *NotifyRequest) (*emptypb.Empty, error) {
			return srv.(TrayServiceServer).Notify(ctx, in)
		}),
	},
}

var windowServiceDesc = grpc.ServiceDesc{
	ServiceName: windowServiceName,
	HandlerType: (*WindowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(windowServiceName, "TrayClicked", func(srv any, ctx context.Context, in *TrayClickRequest) (*emptypb.Empty, error) {
			return srv.(WindowServiceServer).TrayClicked(ctx, in)
		}),
		unaryMethod(windowServiceName, "Toggle", func(srv any, ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error) {
			return srv.(WindowServiceServer).Toggle(ctx, in)
		}),
		unaryMethod(windowServiceName, "CloseRequested", func(srv any, ctx context.Context, in *emptypb.Empty) (*CloseResponse, error) {
			return srv.(WindowServiceServer).CloseRequested(ctx, in)
		}),
		unaryMethod(windowServiceName, "FocusChanged", func(srv any, ctx context.Context, in *FocusRequest) (*emptypb.Empty, error) {
			return srv.(WindowServiceServer).FocusChanged(ctx, in)
		}),
		unaryMethod(windowServiceName, "GetState", func(srv any, ctx context.Context, in *emptypb.Empty) (*models.WindowState, error) {
			return srv.(WindowServiceServer).GetState(ctx, in)
		}),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				in := new(emptypb.Empty)
				if err := stream.RecvMsg(in); err != nil {
					return err
				}
				return srv.(WindowServiceServer).Watch(in, &windowWatchServer{stream})
			},
		},
	},
}

var appServiceDesc = grpc.ServiceDesc{
	ServiceName: appServiceName,
	HandlerType: (*AppServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(appServiceName, "GetStatus", func(srv any, ctx context.Context, in *emptypb.Empty) (*AppStatus, error) {
			return srv.(AppServiceServer).GetStatus(ctx, in)
		}),
		unaryMethod(appServiceName, "Exit", func(srv any, ctx context.Context, in *emptypb.Empty) (*emptypb.Empty, error) {
			return srv.(AppServiceServer).Exit(ctx, in)
		}),
	},
}

type windowWatchServer struct {
	grpc.ServerStream
}

func (x *windowWatchServer) Send(m *models.WindowState) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterSettingsServiceServer registers the SettingsService.
func RegisterSettingsServiceServer(s grpc.ServiceRegistrar, srv SettingsServiceServer) {
	s.RegisterService(&settingsServiceDesc, srv)
}

// RegisterTrayServiceServer registers the TrayService.
func RegisterTrayServiceServer(s grpc.ServiceRegistrar, srv TrayServiceServer) {
	s.RegisterService(&trayServiceDesc, srv)
}

// RegisterWindowServiceServer registers the WindowService.
func RegisterWindowServiceServer(s grpc.ServiceRegistrar, srv WindowServiceServer) {
	s.RegisterService(&windowServiceDesc, srv)
}

// RegisterAppServiceServer registers the AppService.
func RegisterAppServiceServer(s grpc.ServiceRegistrar, srv AppServiceServer) {
	s.RegisterService(&appServiceDesc, srv)
}

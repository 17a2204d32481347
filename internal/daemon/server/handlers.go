package server

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/clockbar/clockbar/internal/buildinfo"
	"github.com/clockbar/clockbar/internal/daemon/commands"
	"github.com/clockbar/clockbar/internal/daemon/platform"
	"github.com/clockbar/clockbar/internal/daemon/window"
	"github.com/clockbar/clockbar/internal/models"
)

// ============================================================================
// Service Implementations
// ============================================================================

type settingsService struct {
	cmds *commands.Commands
}

func (s *settingsService) Get(ctx context.Context, _ *emptypb.Empty) (*models.Settings, error) {
	return s.cmds.GetSettings(), nil
}

func (s *settingsService) Save(ctx context.Context, req *models.Settings) (*emptypb.Empty, error) {
	if err := s.cmds.SaveSettings(req); err != nil {
		return nil, status.Errorf(codes.Internal, "Error writing settings: %v", err)
	}
	return &emptypb.Empty{}, nil
}

type trayService struct {
	cmds *commands.Commands
}

func (s *trayService) UpdateBitmap(ctx context.Context, req *BitmapRequest) (*emptypb.Empty, error) {
	s.cmds.UpdateTrayBitmap(req.RGBA, req.Width, req.Height)
	return &emptypb.Empty{}, nil
}

func (s *trayService) UpdateTooltip(ctx context.Context, req *TooltipRequest) (*emptypb.Empty, error) {
	s.cmds.UpdateTrayTooltip(req.Text)
	return &emptypb.Empty{}, nil
}

func (s *trayService) UpdateIconState(ctx context.Context, req *IconStateRequest) (*emptypb.Empty, error) {
	s.cmds.UpdateTrayIconState(req.State)
	return &emptypb.Empty{}, nil
}

func (s *trayService) UpdateTitle(ctx context.Context, req *TitleRequest) (*emptypb.Empty, error) {
	s.cmds.UpdateTrayTitle(req.Title)
	return &emptypb.Empty{}, nil
}

func (s *trayService) StartTimer(ctx context.Context, req *StartTimerRequest) (*emptypb.Empty, error) {
	if req.StartedAt.IsZero() {
		return nil, status.Error(codes.InvalidArgument, "startedAt is required")
	}
	s.cmds.StartTitleTimer(req.StartedAt, req.IssueKey)
	return &emptypb.Empty{}, nil
}

func (s *trayService) StopTimer(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.cmds.StopTitleTimer()
	return &emptypb.Empty{}, nil
}

func (s *trayService) Notify(ctx context.Context, req *NotifyRequest) (*emptypb.Empty, error) {
	if err := s.cmds.Notify(req.Title, req.Body); err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &emptypb.Empty{}, nil
}

type windowService struct {
	cmds   *commands.Commands
	remote *window.Remote
}

func (s *windowService) TrayClicked(ctx context.Context, req *TrayClickRequest) (*emptypb.Empty, error) {
	s.cmds.TrayClicked(req.X, req.Y)
	return &emptypb.Empty{}, nil
}

func (s *windowService) Toggle(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.cmds.ToggleWindow()
	return &emptypb.Empty{}, nil
}

func (s *windowService) CloseRequested(ctx context.Context, _ *emptypb.Empty) (*CloseResponse, error) {
	return &CloseResponse{Prevented: s.cmds.CloseRequested()}, nil
}

func (s *windowService) FocusChanged(ctx context.Context, req *FocusRequest) (*emptypb.Empty, error) {
	s.cmds.FocusChanged(req.Focused)
	return &emptypb.Empty{}, nil
}

func (s *windowService) GetState(ctx context.Context, _ *emptypb.Empty) (*models.WindowState, error) {
	state := s.remote.State()
	return &state, nil
}

func (s *windowService) Watch(_ *emptypb.Empty, stream WindowService_WatchServer) error {
	states, cancel := s.remote.Subscribe()
	defer cancel()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case state, ok := <-states:
			if !ok {
				return nil
			}
			if err := stream.Send(&state); err != nil {
				return err
			}
		}
	}
}

type appService struct {
	cmds   *commands.Commands
	server *Server
}

func (s *appService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*AppStatus, error) {
	available, latest, url := s.server.GetUpdateState()
	return &AppStatus{
		Version:         buildinfo.Version,
		Platform:        platform.Current().Name(),
		Host:            s.server.Host(),
		Port:            s.server.Port(),
		PID:             s.server.pid,
		StartedAt:       s.server.startedAt,
		SettingsPath:    s.server.settingsPath,
		UpdateAvailable: available,
		LatestVersion:   latest,
		ReleaseURL:      url,
	}, nil
}

func (s *appService) Exit(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	// Let the response flush before the host tears the bridge down.
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.cmds.ExitApp()
	}()
	return &emptypb.Empty{}, nil
}

package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/clockbar/clockbar/internal/config"
	"github.com/clockbar/clockbar/internal/daemon/commands"
	"github.com/clockbar/clockbar/internal/daemon/platform"
	"github.com/clockbar/clockbar/internal/daemon/tray"
	"github.com/clockbar/clockbar/internal/daemon/window"
	"github.com/clockbar/clockbar/internal/models"
	"github.com/clockbar/clockbar/internal/updater"
)

const testToken = "test-token"

type bridge struct {
	srv       *Server
	client    *Client
	presenter *tray.Headless
	remote    *window.Remote
	exited    chan struct{}
}

func startBridge(t *testing.T) *bridge {
	t.Helper()

	b := &bridge{
		presenter: tray.NewHeadless(),
		remote:    window.NewRemote(),
		exited:    make(chan struct{}),
	}
	settingsPath := filepath.Join(t.TempDir(), config.SettingsFileName)
	cmds := commands.New(commands.Deps{
		Store:     config.NewStore(settingsPath),
		Presenter: b.presenter,
		Window:    window.NewController(b.remote, platform.Current()),
		Exit:      func() { close(b.exited) },
	})

	srv, err := New(cmds, b.remote, Options{
		Token:        testToken,
		SettingsPath: settingsPath,
		CheckUpdate: func(context.Context) (*updater.UpdateResult, error) {
			return &updater.UpdateResult{Available: true, CurrentVersion: "0.1.0", LatestVersion: "0.2.0"}, nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)
	b.srv = srv

	client, err := Dial(srv.Host(), srv.Port(), testToken)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	b.client = client
	return b
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(nil, nil, Options{}); err == nil {
		t.Fatal("New() without token succeeded")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	b := startBridge(t)
	ctx := testContext(t)

	got, err := b.client.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if !reflect.DeepEqual(got, models.FallbackSettings()) {
		t.Errorf("GetSettings() = %+v, want fallback", got)
	}

	want := &models.Settings{
		JiraToken:         "jira",
		ClockworkAPIToken: "cw",
		JiraUser:          &models.JiraUser{AccountID: "1", EmailAddress: "a@b.c", DisplayName: "A"},
		PinIconDismissed:  true,
		LaunchAtStartup:   false,
	}
	if err := b.client.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	got, err = b.client.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if *got.JiraUser != *want.JiraUser || got.JiraToken != want.JiraToken || got.LaunchAtStartup {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestRejectsBadToken(t *testing.T) {
	b := startBridge(t)
	ctx := testContext(t)

	for _, token := range []string{"", "wrong"} {
		client, err := Dial(b.srv.Host(), b.srv.Port(), token)
		if err != nil {
			t.Fatal(err)
		}
		_, err = client.GetSettings(ctx)
		client.Close()
		if status.Code(err) != codes.Unauthenticated {
			t.Errorf("token %q: code = %v, want Unauthenticated", token, status.Code(err))
		}
	}
}

func TestTrayCalls(t *testing.T) {
	b := startBridge(t)
	ctx := testContext(t)

	if err := b.client.UpdateTooltip(ctx, "2h logged"); err != nil {
		t.Fatal(err)
	}
	if err := b.client.UpdateIconState(ctx, "active"); err != nil {
		t.Fatal(err)
	}
	if err := b.client.UpdateTitle(ctx, "PROJ-1"); err != nil {
		t.Fatal(err)
	}

	if got := b.presenter.Tooltip(); got != "2h logged" {
		t.Errorf("tooltip = %q", got)
	}
	if !bytes.Equal(b.presenter.Icon(), tray.IconFor(tray.StateActive)) {
		t.Error("active icon not set")
	}
	if got := b.presenter.Title(); got != "PROJ-1" {
		t.Errorf("title = %q", got)
	}

	if err := b.client.UpdateBitmap(ctx, make([]byte, 4*4*4), 4, 4); err != nil {
		t.Fatal(err)
	}
	if got := b.presenter.Title(); got != "" {
		t.Errorf("title after bitmap = %q, want empty", got)
	}

	if err := b.client.StopTimer(ctx); err != nil {
		t.Fatal(err)
	}
	if got := b.presenter.Title(); got != tray.NoTimerTitle {
		t.Errorf("title = %q, want %q", got, tray.NoTimerTitle)
	}
}

func TestStartTimerRequiresStart(t *testing.T) {
	b := startBridge(t)
	err := b.client.StartTimer(testContext(t), &StartTimerRequest{IssueKey: "X-1"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestNotifyWithoutNotifier(t *testing.T) {
	b := startBridge(t)
	err := b.client.Notify(testContext(t), "t", "b")
	if status.Code(err) != codes.Unavailable {
		t.Errorf("code = %v, want Unavailable", status.Code(err))
	}
}

func TestWindowCalls(t *testing.T) {
	b := startBridge(t)
	ctx := testContext(t)

	if err := b.client.TrayClicked(ctx, 500, 700); err != nil {
		t.Fatal(err)
	}
	state, err := b.client.WindowState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := platform.Current().PopoverOrigin(models.Point{X: 500, Y: 700}, models.WindowSize())
	if !state.Visible || state.Position != want {
		t.Errorf("state = %+v, want visible at %+v", state, want)
	}

	prevented, err := b.client.CloseRequested(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !prevented || b.remote.IsVisible() {
		t.Error("close request should be prevented and hide the window")
	}

	if err := b.client.ToggleWindow(ctx); err != nil {
		t.Fatal(err)
	}
	if err := b.client.FocusChanged(ctx, false); err != nil {
		t.Fatal(err)
	}
	if b.remote.IsVisible() {
		t.Error("focus loss did not hide the window")
	}
}

func TestWatchWindow(t *testing.T) {
	b := startBridge(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errStop := errors.New("stop")
	states := make(chan models.WindowState, 4)
	done := make(chan error, 1)
	go func() {
		done <- b.client.WatchWindow(ctx, func(s models.WindowState) error {
			states <- s
			if s.Visible {
				return errStop
			}
			return nil
		})
	}()

	if first := <-states; first.Visible {
		t.Fatalf("initial state = %+v, want hidden", first)
	}
	b.remote.Show()

	select {
	case s := <-states:
		if !s.Visible {
			t.Errorf("state = %+v, want visible", s)
		}
	case <-ctx.Done():
		t.Fatal("no state change received")
	}
	if err := <-done; !errors.Is(err, errStop) {
		t.Errorf("WatchWindow() error = %v", err)
	}
}

func TestStatus(t *testing.T) {
	b := startBridge(t)
	ctx := testContext(t)

	st, err := b.client.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Port != b.srv.Port() || st.Platform != platform.Current().Name() || st.PID == 0 {
		t.Errorf("Status() = %+v", st)
	}
}

func TestExit(t *testing.T) {
	b := startBridge(t)
	if err := b.client.Exit(testContext(t)); err != nil {
		t.Fatal(err)
	}
	select {
	case <-b.exited:
	case <-time.After(5 * time.Second):
		t.Fatal("exit not requested")
	}
}

func grpcWebFrame(payload []byte) []byte {
	frame := make([]byte, 5+len(payload))
	binary.BigEndian.PutUint32(frame[1:5], uint32(len(payload)))
	copy(frame[5:], payload)
	return frame
}

func TestGrpcWebRequest(t *testing.T) {
	b := startBridge(t)

	url := fmt.Sprintf("http://%s:%d/%s/Get", b.srv.Host(), b.srv.Port(), settingsServiceName)
	req, err := http.NewRequestWithContext(testContext(t), http.MethodPost, url, bytes.NewReader(grpcWebFrame([]byte("{}"))))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/grpc-web+json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Origin", "tauri://localhost")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %q", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte(`"launchAtStartup":false`)) {
		t.Errorf("body %q does not carry the settings document", body)
	}
	if !bytes.Contains(body, []byte("grpc-status: 0")) && !bytes.Contains(body, []byte("grpc-status:0")) {
		t.Errorf("body %q has no OK trailer", body)
	}
}

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"tauri://localhost", true},
		{"wails://wails", true},
		{"http://localhost:1420", true},
		{"http://127.0.0.1:5173", true},
		{"http://[::1]:8080", true},
		{"https://evil.example.com", false},
		{"http://192.168.1.10", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := allowOrigin(tt.origin); got != tt.want {
			t.Errorf("allowOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestCodecEmptyPayload(t *testing.T) {
	var c jsonCodec
	if err := c.Unmarshal(nil, &emptypb.Empty{}); err != nil {
		t.Errorf("Unmarshal(nil, Empty) error = %v", err)
	}
	var req TooltipRequest
	if err := c.Unmarshal(nil, &req); err != nil {
		t.Errorf("Unmarshal(nil, struct) error = %v", err)
	}
	var settings models.Settings
	if err := c.Unmarshal(nil, &settings); err != nil {
		t.Fatalf("Unmarshal(nil, Settings) error = %v", err)
	}
	if !reflect.DeepEqual(&settings, models.NewSettings()) {
		t.Errorf("Unmarshal(nil, Settings) = %+v, want defaults", settings)
	}

	data, err := c.Marshal(&TooltipRequest{Text: "hi"})
	if err != nil || string(data) != `{"text":"hi"}` {
		t.Errorf("Marshal() = %s, %v", data, err)
	}
}

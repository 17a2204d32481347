package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/clockbar/clockbar/internal/config"
	"github.com/clockbar/clockbar/internal/daemon/platform"
	"github.com/clockbar/clockbar/internal/daemon/tray"
	"github.com/clockbar/clockbar/internal/daemon/window"
	"github.com/clockbar/clockbar/internal/models"
)

type fakeAutostart struct {
	enabled bool
	applied int
}

func (f *fakeAutostart) Enable() error { f.applied++; f.enabled = true; return nil }
func (f *fakeAutostart) Disable() error { f.applied++; f.enabled = false; return nil }
func (f *fakeAutostart) IsEnabled() (bool, error) { return f.enabled, nil }

type fakeNotifier struct {
	title, body string
	err         error
}

func (f *fakeNotifier) Notify(title, body string) error {
	f.title, f.body = title, body
	return f.err
}

type failingStore struct{}

func (failingStore) Load() *models.Settings { return models.NewSettings() }
func (failingStore) Save(*models.Settings) error {
	return errors.New("failed to create directory /nope: permission denied")
}

type fixture struct {
	cmds      *Commands
	presenter *tray.Headless
	win       *window.Remote
	autostart *fakeAutostart
	notifier  *fakeNotifier
	store     *config.Store
	exited    bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		presenter: tray.NewHeadless(),
		win:       window.NewRemote(),
		autostart: &fakeAutostart{},
		notifier:  &fakeNotifier{},
		store:     config.NewStore(filepath.Join(t.TempDir(), config.SettingsFileName)),
	}
	f.cmds = New(Deps{
		Store:     f.store,
		Presenter: f.presenter,
		Window:    window.NewController(f.win, platform.Current()),
		Autostart: f.autostart,
		Notifier:  f.notifier,
		Exit:      func() { f.exited = true },
	})
	t.Cleanup(f.cmds.timer.Cancel)
	return f
}

func TestGetSettingsFallback(t *testing.T) {
	f := newFixture(t)
	if got := f.cmds.GetSettings(); !reflect.DeepEqual(got, models.FallbackSettings()) {
		t.Errorf("GetSettings() = %+v, want fallback", got)
	}
}

func TestSaveSettingsPersistsAndAppliesAutostart(t *testing.T) {
	f := newFixture(t)
	s := &models.Settings{
		JiraToken:       "jt",
		JiraUser:        &models.JiraUser{AccountID: "42", DisplayName: "Ada"},
		LaunchAtStartup: true,
	}

	if err := f.cmds.SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if got := f.cmds.GetSettings(); !reflect.DeepEqual(got, s) {
		t.Errorf("GetSettings() = %+v, want %+v", got, s)
	}
	if !f.autostart.enabled {
		t.Error("autostart not enabled after saving launchAtStartup=true")
	}

	s.LaunchAtStartup = false
	if err := f.cmds.SaveSettings(s); err != nil {
		t.Fatal(err)
	}
	if f.autostart.enabled {
		t.Error("autostart still enabled after saving launchAtStartup=false")
	}
}

func TestSaveSettingsReportsError(t *testing.T) {
	f := newFixture(t)
	f.cmds.deps.Store = failingStore{}

	err := f.cmds.SaveSettings(models.NewSettings())
	if err == nil {
		t.Fatal("SaveSettings() succeeded, want error")
	}
	if f.autostart.applied != 0 {
		t.Error("autostart applied after a failed save")
	}
	if err := f.cmds.SaveSettings(nil); err == nil {
		t.Error("SaveSettings(nil) succeeded")
	}
}

func TestApplyAutostartUsesPersistedSettings(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    bool
	}{
		{name: "no settings file", want: false},
		{name: "corrupt settings file", content: strPtr("{not json"), want: false},
		{name: "key absent", content: strPtr(`{"jiraToken": "jt"}`), want: true},
		{name: "explicitly off", content: strPtr(`{"launchAtStartup": false}`), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.autostart.enabled = !tt.want
			if tt.content != nil {
				if err := os.WriteFile(f.store.Path(), []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			f.cmds.ApplyAutostart()
			if f.autostart.enabled != tt.want {
				t.Errorf("autostart enabled = %t, want %t", f.autostart.enabled, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateTrayIconState(t *testing.T) {
	f := newFixture(t)

	f.cmds.UpdateTrayIconState("active")
	if !bytes.Equal(f.presenter.Icon(), tray.IconFor(tray.StateActive)) {
		t.Error("active icon not set")
	}

	f.cmds.UpdateTrayIconState("bogus")
	if !bytes.Equal(f.presenter.Icon(), tray.IconFor(tray.StateIdle)) {
		t.Error("unknown state did not fall back to idle")
	}
}

func TestUpdateTrayBitmap(t *testing.T) {
	f := newFixture(t)
	f.cmds.UpdateTrayTitle("1:00:00 - PROJ-1")

	f.cmds.UpdateTrayBitmap(make([]byte, 2*2*4), 2, 2)
	if f.presenter.Title() != "" {
		t.Errorf("title = %q, want cleared", f.presenter.Title())
	}
	if len(f.presenter.Icon()) == 0 {
		t.Error("bitmap icon not set")
	}
}

func TestUpdateTrayBitmapIgnoresBadBuffer(t *testing.T) {
	f := newFixture(t)
	f.cmds.UpdateTrayIconState("onhold")

	f.cmds.UpdateTrayBitmap([]byte{1, 2, 3}, 2, 2)
	if !bytes.Equal(f.presenter.Icon(), tray.IconFor(tray.StateOnHold)) {
		t.Error("bad bitmap replaced the icon")
	}
}

func TestTooltipAndTitle(t *testing.T) {
	f := newFixture(t)
	f.cmds.UpdateTrayTooltip("3h 20m logged today")
	f.cmds.UpdateTrayTitle("PROJ-9")

	if f.presenter.Tooltip() != "3h 20m logged today" {
		t.Errorf("tooltip = %q", f.presenter.Tooltip())
	}
	if f.presenter.Title() != "PROJ-9" {
		t.Errorf("title = %q", f.presenter.Title())
	}
}

func TestTitleTimer(t *testing.T) {
	f := newFixture(t)

	f.cmds.StartTitleTimer(time.Now().Add(-65*time.Second), "PROJ-3")
	if got := f.presenter.Title(); got != "01:05 - PROJ-3" && got != "01:06 - PROJ-3" {
		t.Errorf("title = %q", got)
	}

	f.cmds.StopTitleTimer()
	if got := f.presenter.Title(); got != tray.NoTimerTitle {
		t.Errorf("title = %q, want %q", got, tray.NoTimerTitle)
	}
}

func TestUpdateTrayTitleStopsTimer(t *testing.T) {
	f := newFixture(t)
	f.cmds.StartTitleTimer(time.Now(), "")
	f.cmds.UpdateTrayTitle("manual")

	if f.cmds.timer.Running() {
		t.Error("timer still running after explicit title")
	}
}

func TestWindowCommands(t *testing.T) {
	f := newFixture(t)

	f.cmds.TrayClicked(800, 600)
	if !f.win.IsVisible() {
		t.Fatal("tray click did not show the window")
	}
	want := platform.Current().PopoverOrigin(models.Point{X: 800, Y: 600}, models.WindowSize())
	if got := f.win.State().Position; got != want {
		t.Errorf("position = %+v, want %+v", got, want)
	}

	f.cmds.FocusChanged(false)
	if f.win.IsVisible() {
		t.Error("focus loss did not hide the window")
	}

	f.cmds.ToggleWindow()
	if !f.cmds.CloseRequested() || f.win.IsVisible() {
		t.Error("close request did not hide the window")
	}
}

func TestNotify(t *testing.T) {
	f := newFixture(t)
	if err := f.cmds.Notify("Log your time", "2h missing"); err != nil {
		t.Fatal(err)
	}
	if f.notifier.title != "Log your time" || f.notifier.body != "2h missing" {
		t.Errorf("notifier got %q / %q", f.notifier.title, f.notifier.body)
	}

	f.notifier.err = errors.New("no dbus")
	if err := f.cmds.Notify("a", "b"); err == nil {
		t.Error("Notify() succeeded with failing notifier")
	}

	f.cmds.deps.Notifier = nil
	if err := f.cmds.Notify("a", "b"); err == nil {
		t.Error("Notify() succeeded without notifier")
	}
}

func TestExitApp(t *testing.T) {
	f := newFixture(t)
	f.cmds.ExitApp()
	if !f.exited {
		t.Error("exit function not called")
	}
}

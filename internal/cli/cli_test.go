package cli

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/clockbar/clockbar/internal/models"
)

func TestSettingKeys(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "jiraToken", value: "abc", want: "abc"},
		{key: "clockworkApiToken", value: "xyz", want: "xyz"},
		{key: "launchAtStartup", value: "no", want: "false"},
		{key: "launchAtStartup", value: "ON", want: "true"},
		{key: "pinIconDismissed", value: "1", want: "true"},
		{key: "pinIconDismissed", value: "maybe", wantErr: true},
		{key: "jiraUser", value: `{"accountId":"7","displayName":"Grace"}`, want: `{"accountId":"7","emailAddress":"","displayName":"Grace","avatarUrl":""}`},
		{key: "jiraUser", value: "null", want: "null"},
		{key: "jiraUser", value: "{", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			k, err := lookupSettingKey(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			s := models.NewSettings()
			err = k.set(s, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("set(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := k.get(s); got != tt.want {
				t.Errorf("get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnknownSettingKey(t *testing.T) {
	_, err := lookupSettingKey("theme")
	if err == nil || !strings.Contains(err.Error(), "launchAtStartup") {
		t.Errorf("lookupSettingKey() error = %v, want list of known keys", err)
	}
}

func TestRenderSettingsMasksTokens(t *testing.T) {
	s := models.NewSettings()
	s.JiraToken = "secret-token-1234"

	masked, err := renderSettings(s, false)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(masked), "secret-token") || !strings.Contains(string(masked), "1234") {
		t.Errorf("masked output = %s", masked)
	}
	if s.JiraToken != "secret-token-1234" {
		t.Error("renderSettings modified its input")
	}

	revealed, _ := renderSettings(s, true)
	if !strings.Contains(string(revealed), "secret-token-1234") {
		t.Errorf("revealed output = %s", revealed)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"abc":         "•••",
		"abcdefgh":    "••••••••efgh",
		"äöü":         "•••",
		"tok-ünïcödé": "••••••••cödé",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTimerStart(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := timerStart(now, "", 25*time.Minute)
	if err != nil || !got.Equal(now.Add(-25*time.Minute)) {
		t.Errorf("timerStart(elapsed) = %v, %v", got, err)
	}

	got, err = timerStart(now, "2024-03-01T09:30:00Z", 0)
	if err != nil || got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("timerStart(since) = %v, %v", got, err)
	}

	if _, err := timerStart(now, "yesterday", 0); err == nil {
		t.Error("timerStart accepted an invalid --since")
	}
	if _, err := timerStart(now, "", -time.Minute); err == nil {
		t.Error("timerStart accepted a negative --elapsed")
	}
}

func TestToRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.NRGBA{R: 255, A: 255})
	img.Set(12, 11, color.NRGBA{B: 200, A: 255})

	pix, w, h, err := toRGBA(img)
	if err != nil {
		t.Fatal(err)
	}
	if w != 3 || h != 2 || len(pix) != 3*2*4 {
		t.Fatalf("toRGBA() = %d bytes, %dx%d", len(pix), w, h)
	}
	if pix[0] != 255 || pix[3] != 255 {
		t.Errorf("first pixel = %v", pix[:4])
	}
	last := pix[len(pix)-4:]
	if last[2] != 200 || last[3] != 255 {
		t.Errorf("last pixel = %v", last)
	}

	if _, _, _, err := toRGBA(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("toRGBA accepted an empty image")
	}
}

func TestFormatWindowState(t *testing.T) {
	tests := []struct {
		state models.WindowState
		want  string
	}{
		{models.WindowState{}, "hidden"},
		{models.WindowState{Visible: true, Position: models.Point{X: 10, Y: 20}}, "visible at (10, 20), unfocused"},
		{models.WindowState{Visible: true, Focused: true}, "visible at (0, 0), focused"},
	}
	for _, tt := range tests {
		if got := formatWindowState(tt.state); got != tt.want {
			t.Errorf("formatWindowState(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

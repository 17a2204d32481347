package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/clockbar/clockbar/internal/models"
)

func TestStoreLoadFallback(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "empty file", content: strPtr("")},
		{name: "malformed JSON", content: strPtr("{not json")},
		{name: "wrong shape", content: strPtr(`{"jiraToken": 42}`)},
		{name: "array document", content: strPtr(`[1, 2, 3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), SettingsFileName)
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			got := NewStore(path).Load()
			if !reflect.DeepEqual(got, models.FallbackSettings()) {
				t.Errorf("Load() = %+v, want fallback", got)
			}
			if got.LaunchAtStartup {
				t.Error("fallback enables launchAtStartup")
			}
		})
	}
}

func TestStoreLoadUnreadable(t *testing.T) {
	// A directory at the settings path cannot be read as a file.
	path := filepath.Join(t.TempDir(), SettingsFileName)
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}

	got := NewStore(path).Load()
	if !reflect.DeepEqual(got, models.FallbackSettings()) {
		t.Errorf("Load() = %+v, want fallback", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		settings *models.Settings
	}{
		{
			name: "full document",
			settings: &models.Settings{
				JiraToken:         "jira-secret",
				ClockworkAPIToken: "cw-secret",
				JiraUser: &models.JiraUser{
					AccountID:    "5b10a2844c20165700ede21g",
					EmailAddress: "ada@example.com",
					DisplayName:  "Ada Lovelace",
					AvatarURL:    "https://avatar.example.com/ada.png",
				},
				PinIconDismissed: true,
				LaunchAtStartup:  false,
			},
		},
		{
			name:     "defaults",
			settings: models.NewSettings(),
		},
		{
			name: "no user, unicode token",
			settings: &models.Settings{
				JiraToken:       "tøken ✓",
				LaunchAtStartup: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(filepath.Join(t.TempDir(), "nested", SettingsFileName))
			if err := store.Save(tt.settings); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got := store.Load()
			if !reflect.DeepEqual(got, tt.settings) {
				t.Errorf("Load() = %+v, want %+v", got, tt.settings)
			}
		})
	}
}

func TestStoreSaveReplacesWholeDocument(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), SettingsFileName))

	first := &models.Settings{
		JiraToken: "a",
		JiraUser:  &models.JiraUser{DisplayName: "A"},
	}
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}

	second := &models.Settings{ClockworkAPIToken: "b"}
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	got := store.Load()
	if got.JiraToken != "" || got.JiraUser != nil {
		t.Errorf("fields from the previous document survived: %+v", got)
	}
	if got.ClockworkAPIToken != "b" {
		t.Errorf("ClockworkAPIToken = %q, want %q", got.ClockworkAPIToken, "b")
	}
}

func TestStoreSaveUncreatableParent(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the parent directory should be.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "sub", SettingsFileName)

	err := NewStore(path).Save(models.NewSettings())
	if err == nil {
		t.Fatal("Save() succeeded, want error")
	}
	if FileExists(path) {
		t.Error("settings file exists after failed save")
	}
}

func TestStoreSaveReadOnlyDirLeavesNoPartialFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory permissions are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

	path := filepath.Join(dir, SettingsFileName)
	if err := NewStore(path).Save(models.NewSettings()); err == nil {
		t.Fatal("Save() succeeded, want error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("directory has %d entries after failed save, want 0", len(entries))
	}
}

func TestSettingsMissingKeysTakeDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	if err := os.WriteFile(path, []byte(`{"jiraToken":"abc"}`), 0644); err != nil {
		t.Fatal(err)
	}

	got := NewStore(path).Load()
	if got.JiraToken != "abc" {
		t.Errorf("JiraToken = %q, want %q", got.JiraToken, "abc")
	}
	if !got.LaunchAtStartup {
		t.Error("LaunchAtStartup = false, want true when the key is absent")
	}
}

func strPtr(s string) *string { return &s }

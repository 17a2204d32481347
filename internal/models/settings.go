package models

import "encoding/json"

// JiraUser is the cached Jira profile of the signed-in user.
type JiraUser struct {
	AccountID    string `json:"accountId"`
	EmailAddress string `json:"emailAddress"`
	DisplayName  string `json:"displayName"`
	AvatarURL    string `json:"avatarUrl"`
}

// Settings is the user settings document.
// This corresponds to <app-data-dir>/settings.json.
type Settings struct {
	JiraToken         string    `json:"jiraToken"`
	ClockworkAPIToken string    `json:"clockworkApiToken"`
	JiraUser          *JiraUser `json:"jiraUser"`
	PinIconDismissed  bool      `json:"pinIconDismissed"`
	LaunchAtStartup   bool      `json:"launchAtStartup"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		LaunchAtStartup: true,
	}
}

// FallbackSettings is the document used when no settings file can be read.
// Unlike NewSettings it leaves launch at startup off, so a missing or
// broken file never registers autostart on its own.
func FallbackSettings() *Settings {
	return &Settings{}
}

// UnmarshalJSON decodes a settings document, filling absent keys with
// their defaults.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	v := plain(*NewSettings())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Settings(v)
	return nil
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	c := *s
	if s.JiraUser != nil {
		u := *s.JiraUser
		c.JiraUser = &u
	}
	return &c
}

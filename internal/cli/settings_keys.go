package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/clockbar/clockbar/internal/models"
)

// settingKey maps a settings document key to accessors over its string
// form on the command line.
type settingKey struct {
	get    func(*models.Settings) string
	set    func(*models.Settings, string) error
	secret bool
}

var settingKeys = map[string]settingKey{
	"jiraToken": {
		get:    func(s *models.Settings) string { return s.JiraToken },
		set:    func(s *models.Settings, v string) error { s.JiraToken = v; return nil },
		secret: true,
	},
	"clockworkApiToken": {
		get:    func(s *models.Settings) string { return s.ClockworkAPIToken },
		set:    func(s *models.Settings, v string) error { s.ClockworkAPIToken = v; return nil },
		secret: true,
	},
	"jiraUser": {
		get: func(s *models.Settings) string {
			data, _ := json.Marshal(s.JiraUser)
			return string(data)
		},
		set: func(s *models.Settings, v string) error {
			v = strings.TrimSpace(v)
			if v == "" || v == "null" {
				s.JiraUser = nil
				return nil
			}
			var u models.JiraUser
			if err := json.Unmarshal([]byte(v), &u); err != nil {
				return fmt.Errorf("jiraUser must be a JSON object or null: %w", err)
			}
			s.JiraUser = &u
			return nil
		},
	},
	"pinIconDismissed": {
		get: func(s *models.Settings) string { return strconv.FormatBool(s.PinIconDismissed) },
		set: func(s *models.Settings, v string) error { return parseBool(v, &s.PinIconDismissed) },
	},
	"launchAtStartup": {
		get: func(s *models.Settings) string { return strconv.FormatBool(s.LaunchAtStartup) },
		set: func(s *models.Settings, v string) error { return parseBool(v, &s.LaunchAtStartup) },
	},
}

func parseBool(v string, dst *bool) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		*dst = true
	case "false", "no", "off", "0":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean %q", v)
	}
	return nil
}

// settingKeyNames returns the known keys, sorted.
func settingKeyNames() []string {
	names := make([]string, 0, len(settingKeys))
	for name := range settingKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupSettingKey(name string) (settingKey, error) {
	k, ok := settingKeys[name]
	if !ok {
		return settingKey{}, fmt.Errorf("unknown setting %q (known: %s)", name, strings.Join(settingKeyNames(), ", "))
	}
	return k, nil
}

// maskSecret hides all but the last four characters of a token.
func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	r := []rune(v)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", 8) + string(r[len(r)-4:])
}

// renderSettings returns the document as indented JSON, with tokens masked
// unless reveal is set.
func renderSettings(s *models.Settings, reveal bool) ([]byte, error) {
	out := s.Clone()
	if !reveal {
		out.JiraToken = maskSecret(out.JiraToken)
		out.ClockworkAPIToken = maskSecret(out.ClockworkAPIToken)
	}
	return json.MarshalIndent(out, "", "  ")
}

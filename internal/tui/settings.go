package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/clockbar/clockbar/internal/models"
)

// FieldType defines the type of a settings field.
type FieldType int

const (
	fieldText FieldType = iota
	fieldToggle
	fieldInfo // read-only
)

// Field keys, matching the settings document.
const (
	keyJiraToken        = "jiraToken"
	keyClockworkToken   = "clockworkApiToken"
	keyJiraUser         = "jiraUser"
	keyPinIconDismissed = "pinIconDismissed"
	keyLaunchAtStartup  = "launchAtStartup"
)

// SettingsField is a single field in the settings form.
type SettingsField struct {
	Label     string
	Key       string // Maps to settings document key
	Value     string
	BoolValue bool
	Type      FieldType
	Secret    bool
}

// SettingsForm edits a settings document.
type SettingsForm struct {
	fields  []SettingsField
	cursor  int
	editing bool
	input   textinput.Model
	width   int
}

// NewSettingsForm creates a new settings form.
func NewSettingsForm() *SettingsForm {
	ti := textinput.New()
	ti.CharLimit = 512
	return &SettingsForm{
		input: ti,
	}
}

// LoadFromSettings populates fields from a settings document.
func (s *SettingsForm) LoadFromSettings(settings *models.Settings) {
	s.fields = []SettingsField{
		{Label: "Jira Token", Key: keyJiraToken, Value: settings.JiraToken, Type: fieldText, Secret: true},
		{Label: "Clockwork API Token", Key: keyClockworkToken, Value: settings.ClockworkAPIToken, Type: fieldText, Secret: true},
		{Label: "Jira User", Key: keyJiraUser, Value: describeJiraUser(settings.JiraUser), Type: fieldInfo},
		{Label: "Pin Icon Dismissed", Key: keyPinIconDismissed, BoolValue: settings.PinIconDismissed, Type: fieldToggle},
		{Label: "Launch at Startup", Key: keyLaunchAtStartup, BoolValue: settings.LaunchAtStartup, Type: fieldToggle},
	}
	s.cursor = 0
	s.editing = false
}

// ApplyTo returns a copy of base with the form's values written over it.
// Read-only fields keep base's values.
func (s *SettingsForm) ApplyTo(base *models.Settings) *models.Settings {
	out := base.Clone()
	for _, f := range s.fields {
		switch f.Key {
		case keyJiraToken:
			out.JiraToken = f.Value
		case keyClockworkToken:
			out.ClockworkAPIToken = f.Value
		case keyPinIconDismissed:
			out.PinIconDismissed = f.BoolValue
		case keyLaunchAtStartup:
			out.LaunchAtStartup = f.BoolValue
		}
	}
	return out
}

func describeJiraUser(u *models.JiraUser) string {
	if u == nil {
		return "not signed in"
	}
	name := u.DisplayName
	if name == "" {
		name = u.AccountID
	}
	if u.EmailAddress != "" {
		name += " <" + u.EmailAddress + ">"
	}
	return name
}

// SetSize updates dimensions.
func (s *SettingsForm) SetSize(width int) {
	s.width = width
	s.input.Width = max(width-24, 10)
}

// MoveUp moves cursor up.
func (s *SettingsForm) MoveUp() {
	if !s.editing && s.cursor > 0 {
		s.cursor--
	}
}

// MoveDown moves cursor down.
func (s *SettingsForm) MoveDown() {
	if !s.editing && s.cursor < len(s.fields)-1 {
		s.cursor++
	}
}

// Toggle toggles a boolean field.
func (s *SettingsForm) Toggle() (changed bool) {
	if s.cursor < 0 || s.cursor >= len(s.fields) {
		return false
	}
	f := &s.fields[s.cursor]
	if f.Type == fieldToggle {
		f.BoolValue = !f.BoolValue
		return true
	}
	return false
}

// StartEdit begins inline editing of the current text field.
func (s *SettingsForm) StartEdit() bool {
	if s.cursor < 0 || s.cursor >= len(s.fields) {
		return false
	}
	f := s.fields[s.cursor]
	if f.Type != fieldText {
		return false
	}
	s.editing = true
	s.input.SetValue(f.Value)
	s.input.CursorEnd()
	if f.Secret {
		s.input.EchoMode = textinput.EchoPassword
	} else {
		s.input.EchoMode = textinput.EchoNormal
	}
	s.input.Focus()
	return true
}

// FinishEdit confirms the current edit.
func (s *SettingsForm) FinishEdit() (changed bool) {
	if !s.editing {
		return false
	}
	s.editing = false
	s.input.Blur()

	f := &s.fields[s.cursor]
	newVal := strings.TrimSpace(s.input.Value())
	if newVal != f.Value {
		f.Value = newVal
		return true
	}
	return false
}

// CancelEdit cancels the current edit.
func (s *SettingsForm) CancelEdit() {
	s.editing = false
	s.input.Blur()
}

// IsEditing returns whether a field is being edited.
func (s *SettingsForm) IsEditing() bool {
	return s.editing
}

// InputModel returns the text input model for Update forwarding.
func (s *SettingsForm) InputModel() *textinput.Model {
	return &s.input
}

// View renders the settings form.
func (s *SettingsForm) View() string {
	if len(s.fields) == 0 {
		return lipgloss.NewStyle().Foreground(colorDim).Render("Loading settings...")
	}

	var lines []string
	for i, f := range s.fields {
		var line string
		label := settingsLabelStyle.Render(f.Label + ":")

		switch {
		case f.Type == fieldToggle:
			var val string
			if f.BoolValue {
				val = settingsToggleOn.Render("[ON]")
			} else {
				val = settingsToggleOff.Render("[OFF]")
			}
			line = label + " " + val
		case f.Type == fieldInfo:
			line = label + " " + settingsInfoStyle.Render(f.Value)
		case s.editing && i == s.cursor:
			line = label + " " + s.input.View()
		default:
			val := f.Value
			switch {
			case val == "":
				val = lipgloss.NewStyle().Foreground(colorDim).Render("(empty)")
			case f.Secret:
				val = settingsValueStyle.Render(maskToken(val))
			default:
				val = settingsValueStyle.Render(val)
			}
			line = label + " " + val
		}

		if i == s.cursor {
			line = settingsCursorStyle.Width(s.width).Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// maskToken shows only the last four characters of a token.
func maskToken(v string) string {
	r := []rune(v)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", 8) + string(r[len(r)-4:])
}

package tui

import (
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clockbar/clockbar/internal/buildinfo"
	"github.com/clockbar/clockbar/internal/models"
)

// settingsModel is the bubbletea model of the settings editor.
type settingsModel struct {
	form     *SettingsForm
	original *models.Settings
	help     help.Model
	width    int
	saved    bool
}

func newSettingsModel(settings *models.Settings) *settingsModel {
	form := NewSettingsForm()
	form.LoadFromSettings(settings)
	form.SetSize(60)
	return &settingsModel{
		form:     form,
		original: settings.Clone(),
		help:     help.New(),
		width:    60,
	}
}

func (m *settingsModel) Init() tea.Cmd {
	return nil
}

func (m *settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width-4, 80)
		m.form.SetSize(m.width - 4)
		m.help.Width = m.width
		return m, nil

	case tea.KeyMsg:
		if m.form.IsEditing() {
			return m.updateEditing(msg)
		}
		return m.updateNavigating(msg)
	}

	if m.form.IsEditing() {
		var cmd tea.Cmd
		*m.form.InputModel(), cmd = m.form.InputModel().Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *settingsModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, textEditKeys.Confirm):
		m.form.FinishEdit()
		return m, nil
	case key.Matches(msg, textEditKeys.Cancel):
		m.form.CancelEdit()
		return m, nil
	}

	var cmd tea.Cmd
	*m.form.InputModel(), cmd = m.form.InputModel().Update(msg)
	return m, cmd
}

func (m *settingsModel) updateNavigating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, settingsKeys.Up):
		m.form.MoveUp()
	case key.Matches(msg, settingsKeys.Down):
		m.form.MoveDown()
	case key.Matches(msg, settingsKeys.Select):
		if !m.form.Toggle() && m.form.StartEdit() {
			return m, textinput.Blink
		}
	case key.Matches(msg, settingsKeys.Save):
		m.saved = true
		return m, tea.Quit
	case key.Matches(msg, settingsKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, settingsKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// Result returns the edited document, or nil when nothing is to be saved.
func (m *settingsModel) Result() *models.Settings {
	if !m.saved || !m.Dirty() {
		return nil
	}
	return m.form.ApplyTo(m.original)
}

// Dirty reports whether the form differs from the loaded document.
func (m *settingsModel) Dirty() bool {
	return !reflect.DeepEqual(m.form.ApplyTo(m.original), m.original)
}

func (m *settingsModel) View() string {
	var b strings.Builder

	title := buildinfo.AppName + " settings"
	if m.Dirty() {
		title += dirtyStyle.Render(" (modified)")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.form.View())

	var keys help.KeyMap = settingsKeys
	if m.form.IsEditing() {
		keys = textEditKeys
	}

	return frameStyle.Width(m.width).Render(b.String()) + "\n" + m.help.View(keys) + "\n"
}

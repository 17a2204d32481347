package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clockbar/clockbar/internal/config"
	"github.com/clockbar/clockbar/internal/daemon/server"
	"github.com/clockbar/clockbar/internal/models"
	"github.com/clockbar/clockbar/internal/tui"
)

var revealSecrets bool

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show and edit Clockbar settings",
	Long: `Show and edit the settings document.

When clockbard is running, changes go through it so launch at login is
re-applied immediately. Otherwise settings.json is edited directly.`,
}

var settingsGetCmd = &cobra.Command{
	Use:       "get [key]",
	Short:     "Print the settings document or a single key",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: settingKeyNames(),
	RunE:      runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SettingsFile()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in an interactive form",
	Args:  cobra.NoArgs,
	RunE:  runSettingsEdit,
}

func init() {
	settingsGetCmd.Flags().BoolVar(&revealSecrets, "reveal", false, "Print tokens unmasked")

	settingsCmd.AddCommand(settingsEditCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

// settingsBackend reads and writes settings through the running host, or
// the settings file when no host is running.
type settingsBackend struct {
	client *server.Client
	store  *config.Store
}

func openSettings() (*settingsBackend, error) {
	client, err := connectHost()
	if err == nil {
		return &settingsBackend{client: client}, nil
	}
	if !errors.Is(err, errHostNotRunning) {
		return nil, err
	}

	store, err := config.DefaultStore()
	if err != nil {
		return nil, err
	}
	return &settingsBackend{store: store}, nil
}

func (b *settingsBackend) Load() (*models.Settings, error) {
	if b.client == nil {
		return b.store.Load(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return b.client.GetSettings(ctx)
}

func (b *settingsBackend) Save(s *models.Settings) error {
	if b.client == nil {
		return b.store.Save(s)
	}
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return b.client.SaveSettings(ctx, s)
}

func (b *settingsBackend) Close() {
	if b.client != nil {
		_ = b.client.Close()
	}
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	backend, err := openSettings()
	if err != nil {
		return err
	}
	defer backend.Close()

	settings, err := backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if len(args) == 0 {
		data, err := renderSettings(settings, revealSecrets)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	key, err := lookupSettingKey(args[0])
	if err != nil {
		return err
	}
	value := key.get(settings)
	if key.secret && !revealSecrets {
		value = maskSecret(value)
	}
	fmt.Println(value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, err := lookupSettingKey(args[0])
	if err != nil {
		return err
	}

	backend, err := openSettings()
	if err != nil {
		return err
	}
	defer backend.Close()

	settings, err := backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := key.set(settings, args[1]); err != nil {
		return err
	}
	if err := backend.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("%s %s\n", styleSuccess.Render("Updated"), args[0])
	return nil
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	backend, err := openSettings()
	if err != nil {
		return err
	}
	defer backend.Close()

	settings, err := backend.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	edited, err := tui.EditSettings(settings)
	if err != nil {
		return err
	}
	if edited == nil {
		fmt.Println("No changes made.")
		return nil
	}

	if err := backend.Save(edited); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println(styleSuccess.Render("Settings saved."))
	return nil
}

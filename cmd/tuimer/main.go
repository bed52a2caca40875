// Package main provides the CLI entrypoint for tuimer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuimer/internal/chime"
	"github.com/verte-zerg/tuimer/internal/config"
	"github.com/verte-zerg/tuimer/internal/countdown"
	"github.com/verte-zerg/tuimer/internal/model"
	"github.com/verte-zerg/tuimer/internal/store"
	"github.com/verte-zerg/tuimer/internal/tui"
)

const (
	defaultDuration = 25 * time.Minute
	defaultVolume   = 0.8
	maxPresets      = 9
)

var defaultPresets = []time.Duration{
	5 * time.Minute,
	10 * time.Minute,
	25 * time.Minute,
	45 * time.Minute,
}

var (
	timerSilent bool
	timerVolume float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuimer [duration]",
		Short:         "TUI countdown timer",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.Flags().BoolVar(&timerSilent, "silent", false, "disable the alarm bell")
	rootCmd.Flags().Float64Var(&timerVolume, "volume", defaultVolume, "alarm volume (0-1)")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTimerCmd(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "silent", &timerSilent, fileCfg.Timer.Silent)
	applyFloatConfig(cmd, "volume", &timerVolume, fileCfg.Timer.Volume)
	if timerVolume < 0 || timerVolume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}

	presets, err := resolvePresets(fileCfg.Timer.Presets)
	if err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	duration, fromUser, err := resolveDuration(args, fileCfg.Timer.Duration, st)
	if err != nil {
		return err
	}
	if fromUser {
		if perr := st.SetLastDuration(context.Background(), duration); perr != nil {
			logErrf("failed to persist duration: %v\n", perr)
		}
	}

	cfg := model.Config{
		Duration: duration,
		Presets:  presets,
		Volume:   timerVolume,
		Silent:   timerSilent,
	}

	bell := chime.NewBell(cfg.Volume, !cfg.Silent)
	defer bell.Stop()

	model := tui.NewModel(cfg, st, bell)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveDuration picks the starting duration: positional argument, then the
// config file, then the persisted last-used value, then the built-in default.
// fromUser reports whether the value came from an explicit user setting and
// should be re-persisted.
func resolveDuration(args []string, fileDuration *string, st *store.Store) (time.Duration, bool, error) {
	if len(args) == 1 {
		d, err := countdown.ParseInput(args[0])
		if err != nil || d <= 0 {
			return 0, false, fmt.Errorf("invalid duration %q (try 25m, 5:30, or 90)", args[0])
		}
		return d, true, nil
	}
	if fileDuration != nil {
		d, err := countdown.ParseInput(*fileDuration)
		if err != nil || d <= 0 {
			return 0, false, fmt.Errorf("invalid duration %q in config", *fileDuration)
		}
		return d, true, nil
	}
	d, ok, err := st.LastDuration(context.Background())
	if err != nil {
		logErrf("failed to read last duration: %v\n", err)
	}
	if ok {
		return d, false, nil
	}
	return defaultDuration, false, nil
}

func resolvePresets(filePresets *[]string) ([]time.Duration, error) {
	if filePresets == nil {
		return defaultPresets, nil
	}
	raw := *filePresets
	if len(raw) > maxPresets {
		raw = raw[:maxPresets]
	}
	presets := make([]time.Duration, 0, len(raw))
	for _, s := range raw {
		d, err := countdown.ParseInput(s)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid preset %q in config", s)
		}
		presets = append(presets, d)
	}
	return presets, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuimer configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# duration = "25m"                      # Starting duration ("25m", "5:30", "90")
# presets = ["5m", "10m", "25m", "45m"] # Preset durations bound to keys 1-9
# silent = false                        # Disable the alarm bell
# volume = %.1f                         # Alarm volume (0-1)
`,
		defaultVolume,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

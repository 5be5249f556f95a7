package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timebox/internal/config"
	"github.com/javiermolinar/timebox/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  timebox config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.OutOrStdout(), os.Stdin)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, _ []string) {
			printConfig(cmd.OutOrStdout(), a.config)
		},
	})

	return cmd
}

func runConfigInteractive(w io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	printConfig(w, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(w, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(w, reader, cfg)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

// editConfig prompts for every setting, keeping the current value on empty input.
func editConfig(w io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Edit.Policy = promptValue(w, reader, "Edit policy (push, shrink, none)", cfg.Edit.Policy)
	cfg.Edit.MinimalDurationMinutes = promptInt(w, reader, "Minimal duration (minutes)", cfg.Edit.MinimalDurationMinutes)
	cfg.Edit.DefaultDurationMinutes = promptInt(w, reader, "Default duration (minutes)", cfg.Edit.DefaultDurationMinutes)
	cfg.Edit.SnapStepMinutes = promptInt(w, reader, "Snap step (minutes)", cfg.Edit.SnapStepMinutes)
	cfg.Timeline.DayStart = promptValue(w, reader, "Day start", cfg.Timeline.DayStart)
	cfg.Timeline.DayEnd = promptValue(w, reader, "Day end", cfg.Timeline.DayEnd)
	cfg.Timeline.Days = promptInt(w, reader, "Visible days", cfg.Timeline.Days)
	cfg.Timeline.Workdays = promptSlice(w, reader, "Workdays (comma-separated)", cfg.Timeline.Workdays)
	cfg.Storage.DBPath = promptValue(w, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(w, reader, cfg.UI.Theme)
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[edit]")
	fmt.Fprintf(w, "  policy                   = %s\n", cfg.Edit.Policy)
	fmt.Fprintf(w, "  minimal_duration_minutes = %d\n", cfg.Edit.MinimalDurationMinutes)
	fmt.Fprintf(w, "  default_duration_minutes = %d\n", cfg.Edit.DefaultDurationMinutes)
	fmt.Fprintf(w, "  snap_step_minutes        = %d\n", cfg.Edit.SnapStepMinutes)
	fmt.Fprintln(w, "\n[timeline]")
	fmt.Fprintf(w, "  day_start                = %s\n", cfg.Timeline.DayStart)
	fmt.Fprintf(w, "  day_end                  = %s\n", cfg.Timeline.DayEnd)
	fmt.Fprintf(w, "  days                     = %d\n", cfg.Timeline.Days)
	fmt.Fprintf(w, "  workdays                 = %s\n", strings.Join(cfg.Timeline.Workdays, ", "))
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path                  = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme                    = %s\n", cfg.UI.Theme)
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(w io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(w, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(w, "  Invalid number %q\n", value)
	}
}

func promptSlice(w io.Writer, reader *bufio.Reader, label string, current []string) []string {
	currentStr := strings.Join(current, ", ")
	fmt.Fprintf(w, "  %s [%s]: ", label, currentStr)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		if value == strings.ToLower(current) {
			// Nothing entered and the current theme is unknown.
			return theme.Available()[0]
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}

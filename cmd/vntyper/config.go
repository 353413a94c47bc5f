package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vntyper configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vntyper.yaml.",
		Example: `  vntyper config                                                        # show effective config
  vntyper config --format toml                                          # show as TOML
  vntyper config set kestrel_settings.jar /opt/kestrel/kestrel.jar      # set a value
  vntyper config get kestrel_settings.motif_filtering.position_threshold  # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			out, err := cfg.Marshal(format)
			if err != nil {
				return usagef("%v", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml, toml")

	cmd.AddCommand(newConfigSetCmd(a))
	cmd.AddCommand(newConfigGetCmd(a))

	return cmd
}

func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Comma-separated values are stored as lists
for list keys such as kestrel_settings.motif_filtering.exclude_motifs_right.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			a.v.Set(key, parseConfigValue(a.v.Get(key), value))

			// Reject values that make the configuration invalid.
			if _, err := a.config(); err != nil {
				return err
			}

			cfgFile, err := a.configPath()
			if err != nil {
				return err
			}
			if err := a.v.WriteConfigAs(cfgFile); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
			return nil
		},
	}
}

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val := a.v.Get(args[0])
			if val == nil {
				return fmt.Errorf("key %q is not set", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}
}

// parseConfigValue converts a command-line value to the shape of the
// current setting.
func parseConfigValue(current any, value string) any {
	switch current.(type) {
	case []string, []any, []int:
		if value == "" {
			return []string{}
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return value
}

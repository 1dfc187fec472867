package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/config"
)

// configCommand creates the config command for printing the effective
// configuration.
func (c *CLI) configCommand() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration commands run with: the file given by --config,
else config.toml in the stackfold config directory, else the built-in
defaults. Use --default to print the defaults as a starting point.`,
		Example: `  # Start a config file from the defaults
  stackfold config --default > ~/.config/stackfold/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if !defaults {
				var err error
				if cfg, err = c.loadConfig(); err != nil {
					return err
				}
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			if dir, err := configDir(); err == nil && c.configPath == "" {
				c.Logger.Debugf("Config directory: %s", filepath.Join(dir, configFile))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "default", false, "print the built-in defaults")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/lucasnoah/triviabuild/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate and inspect trivia-build settings",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the settings file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		errs := config.Validate(cfg)
		if len(errs) == 0 {
			cmd.Println("Configuration is valid.")
			return nil
		}

		cmd.Println("Validation errors:")
		for _, e := range errs {
			cmd.Printf("  - %s\n", e)
		}
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("config has %d validation error(s)", len(errs))}
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved settings with defaults merged",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshalling config: %w", err)
		}

		cmd.Print(string(data))
		return nil
	},
}

func resolveConfig() (*config.Config, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	return loadConfig(root)
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

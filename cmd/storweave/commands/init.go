package commands

import (
	"fmt"
	"os"

	"github.com/storweave/storweave/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample storweave configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/storweave/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  storweave init

  # Initialize with custom path
  storweave init --config /etc/storweave/config.yaml

  # Force overwrite existing config
  storweave init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
		}
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the daemon with: storweave start")
	fmt.Printf("  3. Or specify custom config: storweave start --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  The provider wallet secret should not be stored in the config file.")
	fmt.Println("  Export it as an environment variable instead:")
	fmt.Printf("    export %s=<64-character hex secret>\n", config.EnvProviderSecret)

	return nil
}

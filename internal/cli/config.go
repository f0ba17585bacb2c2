package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/paperdigest/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage paperdigest configuration",
	Long: `Manage paperdigest configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (PAPERDIGEST_*)
3. Config file (~/.paperdigest/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, .env and environment variables. Secrets are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(masked(cfg))
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		_, _ = fmt.Fprintln(out, "  Current Configuration")
		_, _ = fmt.Fprintln(out, "═══════════════════════════════════════════════════════════")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, string(yamlData))

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ %v\n", err)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.paperdigest/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		dir := filepath.Join(home, configDir)
		configPath := filepath.Join(dir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'paperdigest config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		if err := writeDefaultConfig(configPath); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  paperdigest config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n\n", configPath)
		return nil
	},
}

// writeDefaultConfig writes the defaults as commented YAML
func writeDefaultConfig(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	header := "# paperdigest configuration\n" +
		"#\n" +
		"# Configuration hierarchy (highest to lowest priority):\n" +
		"#   1. CLI flags\n" +
		"#   2. Environment variables (PAPERDIGEST_*, e.g. PAPERDIGEST_LLM_MODEL)\n" +
		"#   3. This config file\n" +
		"#   4. Built-in defaults\n\n"
	footer := "\n# Secrets (recommended to keep in the environment or a .env file):\n" +
		"#   OPENAI_API_KEY=sk-...\n" +
		"#   ANTHROPIC_API_KEY=sk-ant-...\n" +
		"#   OLLAMA_BASE_URL=http://localhost:11434\n" +
		"#   SMTP_PASSWORD=...\n"

	for _, chunk := range [][]byte{[]byte(header), yamlData, []byte(footer)} {
		if _, err := f.Write(chunk); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}
	}
	return nil
}

// masked returns a copy of cfg with secrets hidden
func masked(cfg *model.Config) *model.Config {
	c := *cfg
	if c.LLM.APIKey != "" {
		c.LLM.APIKey = "********"
	}
	if c.Delivery.SMTP.Password != "" {
		c.Delivery.SMTP.Password = "********"
	}
	return &c
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

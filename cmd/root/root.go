// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/expense-audit/internal/config"
	"fjacquet/expense-audit/internal/container"
	"fjacquet/expense-audit/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer is built on first use by GetContainer
	AppContainer *container.Container

	// ContainerOptions are applied when AppContainer is built
	ContainerOptions []container.Option

	// SharedFlags holds the persistent flags
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-audit",
		Short: "A CLI tool to categorize expenses and flag anomalous transactions.",
		Long: `expense-audit reads a CSV of transactions (date, amount, description),
assigns each row a category using merchant keyword rules and an optional
LLM classifier, then flags category outliers, extreme amounts and duplicates.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			Log.Info("Welcome to expense-audit!")
			Log.Info("Use --help to see available commands")
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadEnv(); err != nil {
				Log.WithError(err).Debug("No .env file loaded")
			}

			cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			AppConfig = cfg
			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
			AppContainer = nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.expense-audit, .expense-audit and .)")
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return AppConfig
}

// GetContainer returns the application container, building it on first use.
func GetContainer(ctx context.Context) (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	opts := append([]container.Option{container.WithLogger(Log)}, ContainerOptions...)
	c, err := container.NewContainer(ctx, AppConfig, opts...)
	if err != nil {
		return nil, err
	}
	AppContainer = c
	return c, nil
}

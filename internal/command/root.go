// Package command contains the CLI command constructors.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/stolasapp/logincheck/internal/config"
	"github.com/stolasapp/logincheck/internal/observability"
)

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	configFilePath := config.DefaultPath()
	cmd := &cobra.Command{
		Use:          "logincheck [command] [flags]",
		Short:        "End-to-end checks for the practice login page",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg, err := config.LoadOrDefault(configFilePath)
			if err != nil {
				return fmt.Errorf("failed to load configuration file: %w", err)
			}
			logger := observability.InitSlog(cfg)
			logger.DebugContext(cmd.Context(), "configuration loaded",
				slog.String("path", configFilePath),
				slog.Any("config", cfg),
			)
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config", "c",
		configFilePath,
		"path to the configuration file",
	)

	cmd.AddCommand(
		runCommand(),
		probeCommand(),
		demoCommand(),
		configCommand(),
	)

	return cmd
}

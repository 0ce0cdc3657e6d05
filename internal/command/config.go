package command

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stolasapp/logincheck/internal/config"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(configInitCommand())
	return cmd
}

func configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default configuration",
		Long: "Writes the default configuration as YAML to PATH, or to the file named by\n" +
			"--config. Existing files are kept unless --force is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if len(args) > 0 {
				path = args[0]
			}
			if _, err = os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s", path)
			}

			data, err := config.Default().Marshal()
			if err != nil {
				return err
			}
			const userOnlyDirPerms = 0o700
			if err = os.MkdirAll(filepath.Dir(path), userOnlyDirPerms); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err = os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd // owner rw access
				return fmt.Errorf("failed to write config file to %s: %w", path, err)
			}

			logger.InfoContext(cmd.Context(), "wrote config", slog.String("path", path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

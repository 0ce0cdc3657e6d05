package command

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func demoCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Serve the local replica of the practice login site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Demo.Address
			}

			grp, ctx := errgroup.WithContext(cmd.Context())
			if _, err = serveDemo(ctx, grp, cfg, logger, addr); err != nil {
				return err
			}
			return grp.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "address", "", "listen address, overriding demo.address")
	return cmd
}

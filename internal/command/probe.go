package command

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/labstack/gommon/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/logincheck/internal/locator"
	"github.com/stolasapp/logincheck/internal/pages"
	"github.com/stolasapp/logincheck/internal/probe"
)

func probeCommand() *cobra.Command {
	var baseURLFlag string
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the site's static markup against the page locators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			baseURL, err := baseURLFor(cfg, baseURLFlag)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			grp, ctx := errgroup.WithContext(ctx)
			defer func() {
				cancel()
				if err := grp.Wait(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if cfg.DevMode {
				if baseURL, err = serveDemo(ctx, grp, cfg, logger, "127.0.0.1:0"); err != nil {
					return err
				}
			}
			successURL, err := resolvePath(baseURL, cfg.Expect.SuccessPath)
			if err != nil {
				return err
			}

			prober := probe.New(logger)
			var checks []probe.Check
			for _, target := range []struct {
				url  string
				locs locator.Map
			}{
				{url: baseURL, locs: pages.LoginLocators},
				{url: successURL, locs: pages.HomeLocators},
			} {
				found, err := prober.Probe(ctx, target.url, target.locs)
				if err != nil {
					return err
				}
				checks = append(checks, found...)
			}

			return writeChecks(cmd, checks)
		},
	}
	cmd.Flags().StringVar(&baseURLFlag, "base-url", "", "login page URL, overriding base_url")
	return cmd
}

func resolvePath(baseURL, path string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base url: %w", err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func writeChecks(cmd *cobra.Command, checks []probe.Check) error {
	clr := color.New()
	if isTerminal() {
		clr.Enable()
	} else {
		clr.Disable()
	}

	missing := 0
	for _, c := range checks {
		verdict := clr.Green("ok     ")
		if !c.Found() {
			verdict = clr.Red("missing")
			missing++
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", verdict, c.Locator, clr.Grey(c.URL)); err != nil {
			return err
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d locators not found", missing, len(checks))
	}
	return nil
}

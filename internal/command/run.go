package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/logincheck/internal/browser"
	"github.com/stolasapp/logincheck/internal/config"
	"github.com/stolasapp/logincheck/internal/fixture"
	"github.com/stolasapp/logincheck/internal/report"
	"github.com/stolasapp/logincheck/internal/scenario"
)

type runFlags struct {
	baseURL     string
	fixturePath string
	literal     bool
	random      int
	seed        uint64
}

func runCommand() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the login scenarios in a headless browser",
		Long: "Runs the valid, invalidUsername, invalidPassword and emptyUser scenarios against\n" +
			"the login page, one at a time in fresh browser pages, and prints a report.\n" +
			"In dev mode the bundled demo site is started and used instead of base_url,\n" +
			"and --base-url is rejected.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			baseURL, err := baseURLFor(cfg, flags.baseURL)
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

			scenarios, err := buildScenarios(cfg, baseURL, flags, logger)
			if err != nil {
				return err
			}

			b, err := browser.Launch(browser.Options{
				Bin:      cfg.Browser.Bin,
				Headless: cfg.Browser.Headless,
			}, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := b.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			logger.InfoContext(ctx, "running scenarios",
				slog.String("base_url", baseURL),
				slog.Int("count", len(scenarios)),
			)
			run := scenario.NewRunner(b, baseURL, cfg.Browser.Timeout, logger).RunAll(ctx, scenarios)
			if err = report.Write(cmd.OutOrStdout(), run, isTerminal()); err != nil {
				return err
			}
			if failed := run.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(run.Results))
			}
			if len(run.Results) < len(scenarios) {
				return fmt.Errorf("run interrupted after %d of %d scenarios", len(run.Results), len(scenarios))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "login page URL, overriding base_url")
	cmd.Flags().StringVar(&flags.fixturePath, "fixture", "", "credential fixture, overriding fixture_path")
	cmd.Flags().BoolVar(&flags.literal, "literal", false, "use the built-in literal scenarios instead of a fixture")
	cmd.Flags().IntVar(&flags.random, "random", 0, "append N random negative scenarios")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "seed for --random; 0 picks one")
	return cmd
}

func buildScenarios(cfg *config.Config, baseURL string, flags runFlags, logger *slog.Logger) ([]scenario.Scenario, error) {
	success, err := scenario.SuccessFor(baseURL, scenario.Success{
		Welcome:    cfg.Expect.Welcome,
		LogoutHref: cfg.Expect.LogoutHref,
	}, cfg.Expect.SuccessPath)
	if err != nil {
		return nil, err
	}

	var (
		scenarios []scenario.Scenario
		valid     = scenario.Valid
	)
	if flags.literal {
		scenarios = scenario.Literal(success)
	} else {
		doc, err := loadFixture(cfg, flags)
		if err != nil {
			return nil, err
		}
		scenarios = scenario.FromFixture(doc, success)
		entry, _ := doc.Get(fixture.Valid)
		valid = scenario.Credential{Username: entry.Username, Password: entry.Password}
	}

	if flags.random > 0 {
		seed := flags.seed
		if seed == 0 {
			seed = rand.Uint64() //nolint:gosec // intentionally weak random for test data
		}
		logger.Info("adding random scenarios", slog.Int("count", flags.random), slog.Uint64("seed", seed))
		scenarios = append(scenarios, scenario.Random(seed, flags.random, valid)...)
	}
	return scenarios, nil
}

func loadFixture(cfg *config.Config, flags runFlags) (fixture.Document, error) {
	path := cfg.FixturePath
	if flags.fixturePath != "" {
		path = flags.fixturePath
	}
	if path == "" {
		return fixture.Default(), nil
	}
	return fixture.Load(path)
}

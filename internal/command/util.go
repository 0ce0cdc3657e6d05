package command

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/stolasapp/logincheck/internal/config"
	"github.com/stolasapp/logincheck/internal/demosite"
	"github.com/stolasapp/logincheck/internal/pages"
	"github.com/stolasapp/logincheck/internal/server"
)

type configKey struct{}

// errBaseURLInDevMode rejects a --base-url that dev mode would ignore.
var errBaseURLInDevMode = errors.New("--base-url cannot be used with dev_mode, which targets the bundled demo site")

// baseURLFor picks the login page URL from the flag or the config.
func baseURLFor(cfg *config.Config, flag string) (string, error) {
	if flag == "" {
		return cfg.BaseURL, nil
	}
	if cfg.DevMode {
		return "", errBaseURLInDevMode
	}
	return flag, nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, errors.New("config file resolution failed")
	}
	return cfg, slog.Default(), nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func demoOptions(cfg *config.Config) demosite.Options {
	return demosite.Options{
		Username:    cfg.Demo.Username,
		Password:    cfg.Demo.Password,
		LogoutURL:   cfg.Demo.LogoutURL,
		LogRequests: cfg.DevMode,
	}
}

// serveDemo starts the demo site in grp and returns the URL of its login
// page.
func serveDemo(
	ctx context.Context,
	grp *errgroup.Group,
	cfg *config.Config,
	logger *slog.Logger,
	addr string,
) (string, error) {
	site, err := demosite.New(demoOptions(cfg), logger)
	if err != nil {
		return "", err
	}
	bound, err := server.Start(ctx, grp, addr, site)
	if err != nil {
		return "", err
	}
	loginURL := "http://" + bound + pages.PathLogin
	logger.InfoContext(ctx,
		"starting demo site...",
		slog.String("address", bound),
		slog.String("login_url", loginURL),
	)
	return loginURL, nil
}

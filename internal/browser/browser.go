// Package browser owns the headless browser and the per-scenario sessions
// that locators resolve against.
package browser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Options controls how the browser process is found and launched.
type Options struct {
	// Bin is the browser executable. When empty, a locally installed browser
	// is looked up and rod downloads one as a last resort.
	Bin      string
	Headless bool
}

// Browser is a connected rod browser together with the launcher that owns its
// process.
type Browser struct {
	*rod.Browser

	launcher *launcher.Launcher
	logger   *slog.Logger
}

// Launch starts a browser process and connects to it.
func Launch(opts Options, logger *slog.Logger) (*Browser, error) {
	bin := opts.Bin
	if bin == "" {
		bin, _ = launcher.LookPath()
	}

	l := launcher.New().Bin(bin).Headless(opts.Headless)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err = b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	logger = logger.With(slog.String("component", "browser"))
	logger.Debug("browser connected", slog.String("control_url", u), slog.Bool("headless", opts.Headless))
	return &Browser{Browser: b, launcher: l, logger: logger}, nil
}

// Close disconnects from the browser and kills its process.
func (b *Browser) Close() error {
	err := b.Browser.Close()
	b.launcher.Kill()
	if err != nil {
		return errors.Join(errors.New("failed to close browser"), err)
	}
	return nil
}

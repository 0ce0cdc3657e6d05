package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/stolasapp/logincheck/internal/browser"
	"github.com/stolasapp/logincheck/internal/login"
	"github.com/stolasapp/logincheck/internal/pages"
)

// Result is the verdict of one scenario. Err is nil when every assertion held.
type Result struct {
	Scenario Scenario
	Err      error
	Duration time.Duration
}

// Passed reports whether the scenario passed.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Run is the outcome of a batch of scenarios.
type Run struct {
	ID      string
	Results []Result
}

// Failed returns the number of failed scenarios.
func (r Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Opener opens fresh browser sessions.
type Opener interface {
	Open(ctx context.Context, timeout time.Duration) (*browser.Session, error)
}

// Runner executes scenarios one at a time, each in its own session.
type Runner struct {
	opener  Opener
	baseURL string
	timeout time.Duration
	ids     *snowflake.Generator
	logger  *slog.Logger
}

// NewRunner creates a Runner that visits baseURL at the start of every
// scenario.
func NewRunner(opener Opener, baseURL string, timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		opener:  opener,
		baseURL: baseURL,
		timeout: timeout,
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // only a run label
		logger:  logger.With(slog.String("component", "runner")),
	}
}

// RunAll runs scenarios sequentially. A failing scenario does not stop the
// run; only a canceled context does.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) Run {
	run := Run{ID: r.ids.NextString()}
	logger := r.logger.With(slog.String("run", run.ID))
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			break
		}
		res := r.Run(ctx, sc)
		attrs := []slog.Attr{
			slog.String("scenario", sc.Name),
			slog.Bool("passed", res.Passed()),
			slog.Duration("duration", res.Duration),
		}
		if res.Err != nil {
			attrs = append(attrs, slog.Any("error", res.Err))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "scenario finished", attrs...)
		run.Results = append(run.Results, res)
	}
	return run
}

// Run executes a single scenario in a fresh session.
func (r *Runner) Run(ctx context.Context, sc Scenario) (res Result) {
	start := time.Now()
	res.Scenario = sc
	defer func() { res.Duration = time.Since(start) }()

	session, err := r.opener.Open(ctx, r.timeout)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := session.Close(); err != nil {
			res.Err = errors.Join(res.Err, err)
		}
	}()

	if err = session.Visit(r.baseURL); err != nil {
		res.Err = err
		return res
	}
	res.Err = Check(session, sc)
	return res
}

// Check logs in on a session already showing the login form and asserts the
// scenario's expected outcome.
func Check(s *browser.Session, sc Scenario) error {
	errLabel, err := login.Login(s, sc.Username, sc.Password, sc.ExpectFailure())
	if err != nil {
		return err
	}
	if sc.ExpectFailure() {
		return errLabel.ShouldHaveText(sc.Expect.Error)
	}

	if err = s.ShouldHaveURLContaining(sc.Expect.URLFragment); err != nil {
		return err
	}
	home := pages.Home(s)
	if err = home.SubtitleLabel().ShouldHaveText(sc.Expect.Welcome); err != nil {
		return fmt.Errorf("unexpected welcome: %w", err)
	}
	if err = home.LogoutButton().ShouldHaveAttribute("href", sc.Expect.LogoutHref); err != nil {
		return fmt.Errorf("unexpected logout link: %w", err)
	}
	return nil
}

package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
)

// DefaultTimeout bounds every element lookup and assertion poll.
const DefaultTimeout = 10 * time.Second

// Polling intervals for assertions.
const (
	pollInitInterval = 50 * time.Millisecond
	pollMaxInterval  = 500 * time.Millisecond
)

// Session is one page of the browser, driven by exactly one scenario.
// Sessions share nothing with each other.
type Session struct {
	ctx     context.Context
	page    *rod.Page
	timeout time.Duration
	logger  *slog.Logger
}

// Open creates a blank page and wraps it in a Session. Call Visit to load the
// system under test.
func (b *Browser) Open(ctx context.Context, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return &Session{
		ctx:     ctx,
		page:    page,
		timeout: timeout,
		logger:  b.logger,
	}, nil
}

// Page returns the session's page bound to the session timeout. Call release
// when the operation is done so the timer does not outlive it.
func (s *Session) Page() (page *rod.Page, release context.CancelFunc) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	return s.page.Context(ctx), cancel
}

// Within returns the session's page bound to ctx.
func (s *Session) Within(ctx context.Context) *rod.Page {
	return s.page.Context(ctx)
}

// Context returns the context the session was opened with.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Timeout returns the polling window used by lookups and assertions.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Visit navigates to url and waits for the page to load.
func (s *Session) Visit(url string) error {
	s.logger.DebugContext(s.ctx, "visit", slog.String("url", url))
	page, release := s.Page()
	defer release()
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for %s to load: %w", url, err)
	}
	return nil
}

// URL returns the page's current URL.
func (s *Session) URL() (string, error) {
	page, release := s.Page()
	defer release()
	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page url: %w", err)
	}
	return info.URL, nil
}

// Poll calls check until it reports done, returns an error, or the session
// timeout elapses. The context handed to check expires with the timeout.
// On timeout Poll returns the context error.
func (s *Session) Poll(check func(ctx context.Context) (done bool, err error)) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	return utils.Retry(ctx, utils.BackoffSleeper(pollInitInterval, pollMaxInterval, nil), func() (bool, error) {
		done, err := check(ctx)
		if done || err != nil {
			return true, err
		}
		return false, nil
	})
}

// URLError reports a URL assertion that did not hold within the timeout.
type URLError struct {
	Want    string
	Got     string
	Timeout time.Duration
}

func (e *URLError) Error() string {
	return fmt.Sprintf("expected url to contain %q, got %q after %s", e.Want, e.Got, e.Timeout)
}

// ShouldHaveURLContaining waits until the current URL contains fragment.
func (s *Session) ShouldHaveURLContaining(fragment string) error {
	var got string
	err := s.Poll(func(ctx context.Context) (bool, error) {
		info, err := s.Within(ctx).Info()
		if err != nil {
			return false, nil //nolint:nilerr // keep polling until the deadline
		}
		got = info.URL
		return strings.Contains(got, fragment), nil
	})
	if err != nil {
		return &URLError{Want: fragment, Got: got, Timeout: s.timeout}
	}
	return nil
}

// Close closes the page.
func (s *Session) Close() error {
	if err := s.page.Close(); err != nil {
		return fmt.Errorf("failed to close page: %w", err)
	}
	return nil
}

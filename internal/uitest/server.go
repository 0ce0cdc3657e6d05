// Package uitest provides UI testing utilities using Rod.
package uitest

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/logincheck/internal/demosite"
	"github.com/stolasapp/logincheck/internal/pages"
	"github.com/stolasapp/logincheck/internal/server"
)

// TestSeed is the fixed seed used for reproducible random scenarios.
const TestSeed uint64 = 12345

// Server is a demo site running in-process for the UI tests.
type Server struct {
	baseURL string
	cancel  context.CancelFunc
	grp     *errgroup.Group
}

// newTestServer creates and starts a demo site for use in tests.
// It panics on errors since it also runs outside of a testing.TB.
func newTestServer(opts demosite.Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)

	site, err := demosite.New(opts, slog.New(slog.DiscardHandler))
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to create demo site: %v", err))
	}

	addr, err := server.Start(ctx, grp, "127.0.0.1:0", site)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to start demo site: %v", err))
	}

	return &Server{
		baseURL: "http://" + addr,
		cancel:  cancel,
		grp:     grp,
	}
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return fmt.Sprintf("%s%s", s.baseURL, path)
}

// LoginURL returns the URL of the login form.
func (s *Server) LoginURL() string {
	return s.URL(pages.PathLogin)
}

// Close shuts down the server.
// Errors are ignored since this runs during test cleanup where failures
// are typically unrecoverable and already logged by the errgroup.
func (s *Server) Close() {
	s.cancel()
	_ = s.grp.Wait()
}

package uitest

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/logincheck/internal/browser"
	"github.com/stolasapp/logincheck/internal/demosite"
	"github.com/stolasapp/logincheck/internal/fixture"
	"github.com/stolasapp/logincheck/internal/locator"
	"github.com/stolasapp/logincheck/internal/login"
	"github.com/stolasapp/logincheck/internal/pages"
	"github.com/stolasapp/logincheck/internal/scenario"
)

const (
	// defaultTimeout is the default timeout for all browser operations.
	defaultTimeout = 10 * time.Second
	// shortTimeout is used where a lookup is expected to fail.
	shortTimeout = 500 * time.Millisecond
	// assertTimeout is used where an assertion is expected to fail.
	assertTimeout = 2 * time.Second
)

type sessionFunc func(t *testing.T, srv *Server, timeout time.Duration) *browser.Session

// TestUI is the parent test that sets up the browser and demo sites,
// then runs all UI subtests. It skips when running with -short flag.
func TestUI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping UI tests in short mode")
	}

	// The public site links logout back to itself; the local copy lets the
	// logout click stay on the test server.
	site := newTestServer(demosite.DefaultOptions())
	t.Cleanup(site.Close)
	localLogoutOpts := demosite.DefaultOptions()
	localLogoutOpts.LogoutURL = ""
	localLogoutSite := newTestServer(localLogoutOpts)
	t.Cleanup(localLogoutSite.Close)

	// Setup headless browser
	logger := slog.New(slog.DiscardHandler)
	b, err := browser.Launch(browser.Options{Headless: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()

	// Helper to open a fresh session on the login page for each subtest
	newSession := func(t *testing.T, srv *Server, timeout time.Duration) *browser.Session {
		t.Helper()
		s, err := b.Open(ctx, timeout)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.Visit(srv.LoginURL()))
		return s
	}

	success, err := scenario.SuccessFor(site.LoginURL(), scenario.PublicSuccess, pages.PathSuccess)
	require.NoError(t, err)

	// Run subtests serially to avoid browser contention
	t.Run("LiteralPositiveLogin", func(t *testing.T) {
		testLiteralPositiveLogin(t, newSession, site)
	})
	t.Run("LiteralNegativeUsername", func(t *testing.T) {
		testLiteralNegative(t, newSession, site, "incorrectUser", "Password123", "Your username is invalid!")
	})
	t.Run("LiteralNegativePassword", func(t *testing.T) {
		testLiteralNegative(t, newSession, site, "student", "Password1234", "Your password is invalid!")
	})
	t.Run("LiteralEmptyUser", func(t *testing.T) {
		testLiteralNegative(t, newSession, site, "", "", "Your username is invalid!")
	})
	t.Run("FixtureScenarios", func(t *testing.T) {
		testFixtureScenarios(t, newSession, site, success)
	})
	t.Run("EmptyLoginIdempotent", func(t *testing.T) {
		testEmptyLoginIdempotent(t, newSession, site)
	})
	t.Run("EmptyValueLeavesFieldUntouched", func(t *testing.T) {
		testEmptyValueLeavesFieldUntouched(t, newSession, site)
	})
	t.Run("EnterReplacesExistingValue", func(t *testing.T) {
		testEnterReplacesExistingValue(t, newSession, site)
	})
	t.Run("ResolvedElementOutlivesLookup", func(t *testing.T) {
		testResolvedElementOutlivesLookup(t, newSession, site)
	})
	t.Run("UsernameValidationPrecedence", func(t *testing.T) {
		testUsernameValidationPrecedence(t, b, site, logger)
	})
	t.Run("LocatorReresolvesAcrossNavigation", func(t *testing.T) {
		testLocatorReresolvesAcrossNavigation(t, newSession, site)
	})
	t.Run("MissingElement", func(t *testing.T) {
		testMissingElement(t, newSession, site)
	})
	t.Run("MismatchReportsActual", func(t *testing.T) {
		testMismatchReportsActual(t, newSession, site)
	})
	t.Run("Logout", func(t *testing.T) {
		testLogout(t, newSession, localLogoutSite)
	})
	t.Run("Runner", func(t *testing.T) {
		testRunner(t, b, site, success, logger)
	})
}

// testLiteralPositiveLogin logs in with the valid pair and checks the
// logged-in page.
func testLiteralPositiveLogin(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, defaultTimeout)

	errLabel, err := login.Login(s, "student", "Password123", false)
	require.NoError(t, err)
	assert.Nil(t, errLabel, "no error label is handed back on the success path")

	require.NoError(t, s.ShouldHaveURLContaining("logged-in-successfully/"))
	home := pages.Home(s)
	require.NoError(t, home.TitleLabel().ShouldHaveText("Logged In Successfully"))
	require.NoError(t, home.SubtitleLabel().ShouldHaveText("Congratulations student. You successfully logged in!"))
	require.NoError(t, home.LogoutButton().ShouldHaveAttribute("href", "https://practicetestautomation.com/practice-test-login/"))
}

// testLiteralNegative logs in expecting denial and checks the error text.
func testLiteralNegative(t *testing.T, newSession sessionFunc, srv *Server, username, password, wantErr string) {
	s := newSession(t, srv, defaultTimeout)

	errLabel, err := login.Login(s, username, password, true)
	require.NoError(t, err)
	require.NotNil(t, errLabel)
	require.NoError(t, errLabel.ShouldHaveText(wantErr))
}

// testFixtureScenarios runs every scenario of the bundled fixture.
func testFixtureScenarios(t *testing.T, newSession sessionFunc, srv *Server, success scenario.Success) {
	doc := fixture.Default()
	for _, sc := range scenario.FromFixture(doc, success) {
		t.Run(sc.Name, func(t *testing.T) {
			entry, ok := doc.Get(sc.Name)
			require.True(t, ok)
			assert.Equal(t, entry.Error, sc.Expect.Error)

			s := newSession(t, srv, defaultTimeout)
			require.NoError(t, scenario.Check(s, sc))
		})
	}
}

// testEmptyLoginIdempotent submits an empty form in independent sessions.
func testEmptyLoginIdempotent(t *testing.T, newSession sessionFunc, srv *Server) {
	for range 3 {
		s := newSession(t, srv, defaultTimeout)
		errLabel, err := login.Login(s, "", "", true)
		require.NoError(t, err)
		require.NoError(t, errLabel.ShouldHaveText("Your username is invalid!"))
		text, err := errLabel.Text()
		require.NoError(t, err)
		assert.Equal(t, "Your username is invalid!", text)
	}
}

// testEmptyValueLeavesFieldUntouched checks that an empty username is not
// typed: a value already in the field is submitted as-is.
func testEmptyValueLeavesFieldUntouched(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, defaultTimeout)

	require.NoError(t, pages.Login(s).EnterUsername("student"))
	_, err := login.Login(s, "", "Password123", false)
	require.NoError(t, err)
	require.NoError(t, s.ShouldHaveURLContaining(pages.PathSuccess))
}

// testEnterReplacesExistingValue types over leftover input and checks only
// the entered values reach the form.
func testEnterReplacesExistingValue(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, defaultTimeout)
	page := pages.Login(s)

	require.NoError(t, page.UsernameInput().Type("junk"))
	require.NoError(t, page.PasswordInput().Type("junk"))
	require.NoError(t, page.UsernameInput().ShouldHaveValue("junk"))

	require.NoError(t, page.EnterUsername("student"))
	require.NoError(t, page.EnterPassword("Password123"))

	username, err := page.UsernameInput().Value()
	require.NoError(t, err)
	assert.Equal(t, "student", username)
	password, err := page.PasswordInput().Value()
	require.NoError(t, err)
	assert.Equal(t, "Password123", password)

	require.NoError(t, page.ClickSubmit())
	require.NoError(t, s.ShouldHaveURLContaining(pages.PathSuccess))
}

// testResolvedElementOutlivesLookup uses a resolved element after several
// timed operations have finished and past the session timeout.
func testResolvedElementOutlivesLookup(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, shortTimeout)
	page := pages.Login(s)

	el, err := page.UsernameInput().Resolve()
	require.NoError(t, err)
	for range 3 {
		_, err = page.ErrorLabel().Text()
		require.NoError(t, err)
	}
	time.Sleep(2 * shortTimeout)

	id, err := el.Attribute("id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, pages.IDUsername, *id)
}

// testUsernameValidationPrecedence runs seeded random negative scenarios.
func testUsernameValidationPrecedence(t *testing.T, b *browser.Browser, srv *Server, logger *slog.Logger) {
	runner := scenario.NewRunner(b, srv.LoginURL(), defaultTimeout, logger)
	run := runner.RunAll(context.Background(), scenario.Random(TestSeed, 6, scenario.Valid))
	require.Len(t, run.Results, 6)
	for _, res := range run.Results {
		assert.NoError(t, res.Err, "%s: %+v", res.Scenario.Name, res.Scenario.Credential)
	}
}

// testLocatorReresolvesAcrossNavigation binds the error label before the
// submit replaces the page and asserts through the same binding after.
func testLocatorReresolvesAcrossNavigation(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, defaultTimeout)

	errLabel := pages.Login(s).ErrorLabel()
	text, err := errLabel.Text()
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, pages.Login(s).EnterUsername("nobody"))
	require.NoError(t, pages.Login(s).ClickSubmit())
	require.NoError(t, errLabel.ShouldHaveText("Your username is invalid!"))
}

// testMissingElement resolves a locator for an element that never appears.
func testMissingElement(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, shortTimeout)

	_, err := locator.CSS("ghost", "#does-not-exist").On(s).Text()
	require.ErrorIs(t, err, locator.ErrNotFound)
	assert.Contains(t, err.Error(), "#does-not-exist")

	// Logged-in locators do not exist on the login page.
	err = pages.Home(s).SubtitleLabel().ShouldHaveText("anything")
	require.ErrorIs(t, err, locator.ErrNotFound)
}

// testMismatchReportsActual checks that a failed assertion carries the
// asserted and the actual value.
func testMismatchReportsActual(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, assertTimeout)

	errLabel, err := login.Login(s, "student", "Password1234", true)
	require.NoError(t, err)

	err = errLabel.ShouldHaveText("Your username is invalid!")
	var mismatch *locator.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Your username is invalid!", mismatch.Want)
	assert.Equal(t, "Your password is invalid!", mismatch.Got)
	assert.Equal(t, pages.ErrorLabel, mismatch.Locator)
}

// testLogout logs in and follows the logout link back to the form.
func testLogout(t *testing.T, newSession sessionFunc, srv *Server) {
	s := newSession(t, srv, defaultTimeout)

	_, err := login.Login(s, "student", "Password123", false)
	require.NoError(t, err)
	require.NoError(t, s.ShouldHaveURLContaining(pages.PathSuccess))

	require.NoError(t, pages.Home(s).LogoutClick())
	require.NoError(t, s.ShouldHaveURLContaining(pages.PathLogin))
	_, err = pages.Login(s).UsernameInput().Resolve()
	require.NoError(t, err)
}

// testRunner runs the literal scenarios through the runner.
func testRunner(t *testing.T, b *browser.Browser, srv *Server, success scenario.Success, logger *slog.Logger) {
	runner := scenario.NewRunner(b, srv.LoginURL(), defaultTimeout, logger)
	run := runner.RunAll(context.Background(), scenario.Literal(success))

	assert.NotEmpty(t, run.ID)
	require.Len(t, run.Results, 4)
	assert.Zero(t, run.Failed())

	// A wrong expectation fails only its own scenario.
	broken := scenario.Literal(success)
	broken[1].Expect.Error = "Something else"
	run = runner.RunAll(context.Background(), broken)
	require.Len(t, run.Results, 4)
	assert.Equal(t, 1, run.Failed())
	assert.False(t, run.Results[1].Passed())
	var mismatch *locator.MismatchError
	assert.ErrorAs(t, run.Results[1].Err, &mismatch)
}

// Package demosite serves a local replica of the practice login site. Its DOM
// is built from the constants in the pages package so the locators used
// against the public site resolve identically here.
package demosite

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/stolasapp/logincheck/internal/pages"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Template names.
const (
	loginTemplate   = "login.html"
	successTemplate = "success.html"
)

// Options configures the single account of the site.
type Options struct {
	Username string
	Password string
	// LogoutURL is the href of the logout link. Empty links back to the local
	// login page.
	LogoutURL string
	// LogRequests logs every request at debug level.
	LogRequests bool
}

// DefaultOptions mirrors the public practice site.
func DefaultOptions() Options {
	return Options{
		Username:  "student",
		Password:  "Password123",
		LogoutURL: pages.PublicLoginURL,
	}
}

type site struct {
	username     string
	passwordHash []byte
	logoutURL    string
	logger       *slog.Logger
}

// New creates the demo site.
func New(opts Options, logger *slog.Logger) (*echo.Echo, error) {
	if opts.Username == "" {
		return nil, errors.New("demo site username must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo site password: %w", err)
	}
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse demo site templates: %w", err)
	}

	logoutURL := opts.LogoutURL
	if logoutURL == "" {
		logoutURL = pages.PathLogin
	}
	s := &site{
		username:     opts.Username,
		passwordHash: hash,
		logoutURL:    logoutURL,
		logger:       logger.With(slog.String("component", "demosite")),
	}

	srv := echo.New()
	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)
	srv.Renderer = renderer{tmpl: tmpl}

	if opts.LogRequests {
		srv.Use(logRequests(s.logger))
	}
	srv.Use(
		middleware.Recover(),
		middleware.Secure(),
		middleware.RequestID(),
	)

	s.register(srv)
	return srv, nil
}

func (s *site) register(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, pages.PathLogin)
	})
	e.GET(pages.PathLogin, s.loginForm)
	e.POST(pages.PathLogin, s.submit)
	e.GET(pages.PathSuccess, s.success)
}

type loginData struct {
	Action     string
	IDUsername string
	IDPassword string
	IDSubmit   string
	IDError    string
	Error      string
}

type successData struct {
	ClassPostTitle   string
	ClassPostContent string
	Title            string
	Username         string
	LogoutURL        string
	LogoutText       string
}

func (s *site) renderLogin(c echo.Context, status int, errText string) error {
	return c.Render(status, loginTemplate, loginData{
		Action:     pages.PathLogin,
		IDUsername: pages.IDUsername,
		IDPassword: pages.IDPassword,
		IDSubmit:   pages.IDSubmit,
		IDError:    pages.IDError,
		Error:      errText,
	})
}

func (s *site) loginForm(c echo.Context) error {
	return s.renderLogin(c, http.StatusOK, "")
}

// submit validates the username before the password, so a wrong username
// reports the username error whatever the password is.
func (s *site) submit(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue("username")
	password := c.FormValue("password")

	switch err := s.authenticate(username, password); {
	case errors.Is(err, errBadUsername):
		s.logger.DebugContext(ctx, "login denied", slog.String("reason", "username"))
		return s.renderLogin(c, http.StatusOK, pages.TextInvalidUsername)
	case errors.Is(err, errBadPassword):
		s.logger.DebugContext(ctx, "login denied", slog.String("reason", "password"))
		return s.renderLogin(c, http.StatusOK, pages.TextInvalidPassword)
	case err != nil:
		return err
	}

	s.logger.DebugContext(ctx, "login accepted", slog.String("username", username))
	return c.Redirect(http.StatusSeeOther, pages.PathSuccess)
}

var (
	errBadUsername = errors.New("unknown username")
	errBadPassword = errors.New("wrong password")
)

func (s *site) authenticate(username, password string) error {
	if username == "" || username != s.username {
		return errBadUsername
	}
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errBadPassword
	}
	return err
}

func (s *site) success(c echo.Context) error {
	return c.Render(http.StatusOK, successTemplate, successData{
		ClassPostTitle:   pages.ClassPostTitle,
		ClassPostContent: pages.ClassPostContent,
		Title:            pages.TextLoggedIn,
		Username:         s.username,
		LogoutURL:        s.logoutURL,
		LogoutText:       pages.TextLogout,
	})
}

type renderer struct {
	tmpl *template.Template
}

// Render satisfies [echo.Renderer].
func (r renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(req.Context(), slog.LevelDebug, "request handled", attrs...)
			return err
		}
	}
}

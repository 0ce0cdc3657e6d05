package pages

import (
	"github.com/stolasapp/logincheck/internal/browser"
	"github.com/stolasapp/logincheck/internal/locator"
)

// Logged-in page locators.
var (
	TitleLabel    = locator.CSS("title label", "."+ClassPostTitle)
	SubtitleLabel = locator.CSS("subtitle label", "."+ClassPostContent+" strong")
	LogoutButton  = locator.Contains("logout button", "a", TextLogout)
)

// HomeLocators is the locator map of the logged-in page.
var HomeLocators = locator.Map{
	TitleLabel.Name:    TitleLabel,
	SubtitleLabel.Name: SubtitleLabel,
	LogoutButton.Name:  LogoutButton,
}

// HomePage is the page object of the page shown after a successful login.
type HomePage struct {
	session *browser.Session
}

// Home returns the logged-in page object for s.
func Home(s *browser.Session) HomePage {
	return HomePage{session: s}
}

// TitleLabel returns the page heading.
func (p HomePage) TitleLabel() *locator.Element { return TitleLabel.On(p.session) }

// SubtitleLabel returns the welcome message.
func (p HomePage) SubtitleLabel() *locator.Element { return SubtitleLabel.On(p.session) }

// LogoutButton returns the logout link.
func (p HomePage) LogoutButton() *locator.Element { return LogoutButton.On(p.session) }

// LogoutClick clicks the logout link.
func (p HomePage) LogoutClick() error {
	return p.LogoutButton().Click()
}

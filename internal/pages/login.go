package pages

import (
	"github.com/stolasapp/logincheck/internal/browser"
	"github.com/stolasapp/logincheck/internal/locator"
)

// Login page locators.
var (
	UsernameInput = locator.CSS("username input", "#"+IDUsername)
	PasswordInput = locator.CSS("password input", "#"+IDPassword)
	SubmitButton  = locator.CSS("submit button", "#"+IDSubmit)
	ErrorLabel    = locator.CSS("error label", "#"+IDError)
)

// LoginLocators is the locator map of the login page.
var LoginLocators = locator.Map{
	UsernameInput.Name: UsernameInput,
	PasswordInput.Name: PasswordInput,
	SubmitButton.Name:  SubmitButton,
	ErrorLabel.Name:    ErrorLabel,
}

// LoginPage is the page object of the login form.
type LoginPage struct {
	session *browser.Session
}

// Login returns the login page object for s.
func Login(s *browser.Session) LoginPage {
	return LoginPage{session: s}
}

// UsernameInput returns the username field.
func (p LoginPage) UsernameInput() *locator.Element { return UsernameInput.On(p.session) }

// PasswordInput returns the password field.
func (p LoginPage) PasswordInput() *locator.Element { return PasswordInput.On(p.session) }

// SubmitButton returns the submit button.
func (p LoginPage) SubmitButton() *locator.Element { return SubmitButton.On(p.session) }

// ErrorLabel returns the label that shows validation errors after a submit.
func (p LoginPage) ErrorLabel() *locator.Element { return ErrorLabel.On(p.session) }

// EnterUsername clears the username field and types value.
func (p LoginPage) EnterUsername(value string) error {
	return clearAndType(p.UsernameInput(), value)
}

// EnterPassword clears the password field and types value.
func (p LoginPage) EnterPassword(value string) error {
	return clearAndType(p.PasswordInput(), value)
}

// ClickSubmit submits the form.
func (p LoginPage) ClickSubmit() error {
	return p.SubmitButton().Click()
}

func clearAndType(el *locator.Element, value string) error {
	if err := el.Clear(); err != nil {
		return err
	}
	return el.Type(value)
}

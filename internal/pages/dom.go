// Package pages contains the page objects of the practice login site. Page
// objects are thin facades over a browser session: they hold the session and
// nothing else, and every element is resolved through a locator on use.
package pages

// Element IDs on the login page.
const (
	IDUsername = "username"
	IDPassword = "password"
	IDSubmit   = "submit"
	IDError    = "error"
)

// CSS class names on the logged-in page.
const (
	ClassPostTitle   = "post-title"
	ClassPostContent = "post-content"
)

// Paths on the practice site.
const (
	PathLogin   = "/practice-test-login/"
	PathSuccess = "/logged-in-successfully/"
)

// Text shown by the practice site.
const (
	TextLogout          = "Log out"
	TextLoggedIn        = "Logged In Successfully"
	TextInvalidUsername = "Your username is invalid!"
	TextInvalidPassword = "Your password is invalid!"
)

// PublicLoginURL is the login page of the public practice site. The logout
// link on the logged-in page points here.
const PublicLoginURL = "https://practicetestautomation.com" + PathLogin

// Package login contains the reusable login step shared by every scenario.
package login

import (
	"fmt"

	"github.com/stolasapp/logincheck/internal/browser"
	"github.com/stolasapp/logincheck/internal/locator"
	"github.com/stolasapp/logincheck/internal/pages"
)

// Login fills the login form on s and submits it. Empty values are not typed
// at all, leaving the field as the page rendered it.
//
// When expectFailure is set, Login returns the error label, unresolved, for
// the caller to assert on. Otherwise it returns nil and the caller checks the
// logged-in page. Login asserts nothing itself and never retries.
func Login(s *browser.Session, username, password string, expectFailure bool) (*locator.Element, error) {
	page := pages.Login(s)
	if len(username) > 0 {
		if err := page.EnterUsername(username); err != nil {
			return nil, fmt.Errorf("failed to enter username: %w", err)
		}
	}
	if len(password) > 0 {
		if err := page.EnterPassword(password); err != nil {
			return nil, fmt.Errorf("failed to enter password: %w", err)
		}
	}
	if err := page.ClickSubmit(); err != nil {
		return nil, fmt.Errorf("failed to submit login form: %w", err)
	}
	if expectFailure {
		return page.ErrorLabel(), nil
	}
	return nil, nil //nolint:nilnil // nothing to hand back on the success path
}

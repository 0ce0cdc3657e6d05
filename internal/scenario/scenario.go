// Package scenario pairs credentials with the outcome the practice site is
// expected to produce, and runs them through the login step.
package scenario

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"

	"github.com/stolasapp/logincheck/internal/fixture"
	"github.com/stolasapp/logincheck/internal/pages"
)

// Credential is a username and password pair.
type Credential struct {
	Username string
	Password string
}

// Success is what the logged-in page must show.
type Success struct {
	// URLFragment must be contained in the URL after login.
	URLFragment string
	// Welcome is the exact text of the subtitle label.
	Welcome string
	// LogoutHref is the exact href of the logout link.
	LogoutHref string
}

// Expectation is the outcome of a login attempt. Exactly one of Success and
// Error is meaningful: a non-empty Error means the attempt must be denied.
type Expectation struct {
	Success
	Error string
}

// Scenario is a named credential with its expected outcome.
type Scenario struct {
	Name string
	Credential
	Expect Expectation
}

// ExpectFailure reports whether the login must be denied.
func (s Scenario) ExpectFailure() bool {
	return s.Expect.Error != ""
}

// Valid is the only credential accepted by the practice site.
var Valid = Credential{Username: "student", Password: "Password123"}

// PublicSuccess is the logged-in page of the public practice site.
var PublicSuccess = Success{
	URLFragment: "practicetestautomation.com" + pages.PathSuccess,
	Welcome:     "Congratulations student. You successfully logged in!",
	LogoutHref:  pages.PublicLoginURL,
}

// SuccessFor returns success with the URL fragment rebased onto the host of
// baseURL, for running against a copy of the site served elsewhere.
func SuccessFor(baseURL string, success Success, successPath string) (Success, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Success{}, fmt.Errorf("failed to parse base url: %w", err)
	} else if u.Host == "" {
		return Success{}, fmt.Errorf("base url must be absolute: %q", baseURL)
	}
	success.URLFragment = u.Host + successPath
	return success, nil
}

// Literal returns the four scenarios with their values written out.
func Literal(success Success) []Scenario {
	return []Scenario{
		{
			Name:       fixture.Valid,
			Credential: Valid,
			Expect:     Expectation{Success: success},
		},
		{
			Name:       fixture.InvalidUsername,
			Credential: Credential{Username: "incorrectUser", Password: "Password123"},
			Expect:     Expectation{Error: pages.TextInvalidUsername},
		},
		{
			Name:       fixture.InvalidPassword,
			Credential: Credential{Username: "student", Password: "Password1234"},
			Expect:     Expectation{Error: pages.TextInvalidPassword},
		},
		{
			Name:       fixture.EmptyUser,
			Credential: Credential{},
			Expect:     Expectation{Error: pages.TextInvalidUsername},
		},
	}
}

// FromFixture builds scenarios from a fixture document. Entries without an
// error expect success. The required scenarios come first in canonical
// order, followed by any extra entries sorted by name.
func FromFixture(doc fixture.Document, success Success) []Scenario {
	names := make([]string, 0, len(doc))
	for name := range doc {
		if !slices.Contains(fixture.Required, name) {
			names = append(names, name)
		}
	}
	slices.SortFunc(names, cmp.Compare[string])
	names = append(slices.Clone(fixture.Required), names...)

	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		entry, ok := doc.Get(name)
		if !ok {
			continue
		}
		sc := Scenario{
			Name:       name,
			Credential: Credential{Username: entry.Username, Password: entry.Password},
		}
		if entry.Error != "" {
			sc.Expect.Error = entry.Error
		} else {
			sc.Expect.Success = success
		}
		out = append(out, sc)
	}
	return out
}

// Package locator provides named, lazily resolved references to page
// elements. A Locator holds no element handle: each interaction queries the
// live page again, so elements may appear, disappear or be replaced between
// steps.
package locator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/go-rod/rod"

	"github.com/stolasapp/logincheck/internal/browser"
)

// ErrNotFound is wrapped by every error caused by an element that did not
// appear within the session timeout.
var ErrNotFound = errors.New("element not found")

// Locator is a deferred reference to a UI element.
type Locator struct {
	// Name is the semantic name of the element within its page.
	Name string
	// Selector is the CSS selector of the element.
	Selector string
	// Text, when set, restricts the match to elements whose text contains it.
	Text string
}

// CSS returns a locator matching selector.
func CSS(name, selector string) Locator {
	return Locator{Name: name, Selector: selector}
}

// Contains returns a locator matching selector and containing text.
func Contains(name, selector, text string) Locator {
	return Locator{Name: name, Selector: selector, Text: text}
}

// String describes the locator for diagnostics.
func (l Locator) String() string {
	if l.Text != "" {
		return fmt.Sprintf("%s (%s containing %q)", l.Name, l.Selector, l.Text)
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Selector)
}

// On binds the locator to a session. Binding does not resolve anything.
func (l Locator) On(s *browser.Session) *Element {
	return &Element{Locator: l, session: s}
}

// resolve queries page for the element, waiting up to the page's deadline.
func (l Locator) resolve(page *rod.Page) (*rod.Element, error) {
	if l.Text != "" {
		return page.ElementR(l.Selector, regexp.QuoteMeta(l.Text))
	}
	return page.Element(l.Selector)
}

// Map is the fixed set of locators of one page, keyed by semantic name.
type Map map[string]Locator

// Names returns the locator names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sorted returns the locators ordered by name.
func (m Map) Sorted() []Locator {
	locs := make([]Locator, 0, len(m))
	for _, name := range m.Names() {
		locs = append(locs, m[name])
	}
	return locs
}

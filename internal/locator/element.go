package locator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/stolasapp/logincheck/internal/browser"
)

// clearJS empties an input and notifies listeners the way a user edit would.
const clearJS = `() => {
	this.value = '';
	this.dispatchEvent(new Event('input', { bubbles: true }));
	this.dispatchEvent(new Event('change', { bubbles: true }));
}`

// Element is a Locator bound to a session. Every method resolves the element
// again; nothing is cached between calls.
type Element struct {
	Locator

	session *browser.Session
}

// MismatchError reports an assertion on a resolved element that did not hold
// within the session timeout.
type MismatchError struct {
	Locator  Locator
	Property string
	Want     string
	Got      string
	Timeout  time.Duration
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s of %s to be %q, got %q after %s",
		e.Property, e.Locator, e.Want, e.Got, e.Timeout)
}

// Resolve looks the element up now, waiting up to the session timeout for it
// to appear. The returned element is bound to the session context.
func (e *Element) Resolve() (*rod.Element, error) {
	page, release := e.session.Page()
	defer release()
	el, err := e.lookup(page)
	if err != nil {
		return nil, err
	}
	return el.Context(e.session.Context()), nil
}

// do resolves the element and runs fn on it within one timed operation.
func (e *Element) do(fn func(el *rod.Element) error) error {
	page, release := e.session.Page()
	defer release()
	el, err := e.lookup(page)
	if err != nil {
		return err
	}
	return fn(el)
}

func (e *Element) lookup(page *rod.Page) (*rod.Element, error) {
	el, err := e.resolve(page)
	if err != nil {
		return nil, e.notFound(err)
	}
	return el, nil
}

func (e *Element) notFound(cause error) error {
	return fmt.Errorf("%w: %s after %s: %w", ErrNotFound, e.Locator, e.session.Timeout(), cause)
}

// Text returns the element's rendered text.
func (e *Element) Text() (text string, err error) {
	err = e.do(func(el *rod.Element) error {
		got, err := el.Text()
		if err != nil {
			return fmt.Errorf("failed to read text of %s: %w", e.Locator, err)
		}
		text = got
		return nil
	})
	return text, err
}

// Value returns the live value of an input, which differs from its value
// attribute once the user has typed.
func (e *Element) Value() (value string, err error) {
	err = e.do(func(el *rod.Element) error {
		prop, err := el.Property("value")
		if err != nil {
			return fmt.Errorf("failed to read value of %s: %w", e.Locator, err)
		}
		value = prop.Str()
		return nil
	})
	return value, err
}

// Attribute returns the named attribute, or ok=false when it is absent.
func (e *Element) Attribute(name string) (value string, ok bool, err error) {
	err = e.do(func(el *rod.Element) error {
		attr, err := el.Attribute(name)
		if err != nil {
			return fmt.Errorf("failed to read attribute %q of %s: %w", name, e.Locator, err)
		}
		if attr != nil {
			value, ok = *attr, true
		}
		return nil
	})
	return value, ok, err
}

// Clear empties the element's value.
func (e *Element) Clear() error {
	return e.do(func(el *rod.Element) error {
		if _, err := el.Eval(clearJS); err != nil {
			return fmt.Errorf("failed to clear %s: %w", e.Locator, err)
		}
		return nil
	})
}

// Type focuses the element and types text into it.
func (e *Element) Type(text string) error {
	return e.do(func(el *rod.Element) error {
		if err := el.Input(text); err != nil {
			return fmt.Errorf("failed to type into %s: %w", e.Locator, err)
		}
		return nil
	})
}

// Click clicks the element with the left mouse button.
func (e *Element) Click() error {
	return e.do(func(el *rod.Element) error {
		e.session.Logger().Debug("click", slog.String("locator", e.Name))
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return fmt.Errorf("failed to click %s: %w", e.Locator, err)
		}
		return nil
	})
}

// ShouldHaveText waits until the element's text equals want.
func (e *Element) ShouldHaveText(want string) error {
	return e.should("text", want, func(el *rod.Element) (string, error) {
		return el.Text()
	})
}

// ShouldHaveAttribute waits until the named attribute equals want.
func (e *Element) ShouldHaveAttribute(name, want string) error {
	return e.should("attribute "+name, want, func(el *rod.Element) (string, error) {
		attr, err := el.Attribute(name)
		if err != nil || attr == nil {
			return "", err
		}
		return *attr, nil
	})
}

// ShouldHaveValue waits until the input's live value equals want.
func (e *Element) ShouldHaveValue(want string) error {
	return e.should("value", want, func(el *rod.Element) (string, error) {
		prop, err := el.Property("value")
		if err != nil {
			return "", err
		}
		return prop.Str(), nil
	})
}

// should polls read until it yields want. The element is re-resolved on
// every attempt so a page swap after a click is picked up.
func (e *Element) should(property, want string, read func(*rod.Element) (string, error)) error {
	var (
		got      string
		resolved bool
		lastErr  error
	)
	err := e.session.Poll(func(ctx context.Context) (bool, error) {
		el, err := e.resolve(e.session.Within(ctx))
		if err != nil {
			lastErr = err
			return false, nil
		}
		resolved = true
		value, err := read(el)
		if err != nil {
			lastErr = err
			return false, nil
		}
		got = value
		return got == want, nil
	})
	if err == nil {
		return nil
	}
	if !resolved {
		if lastErr == nil {
			lastErr = err
		}
		return e.notFound(lastErr)
	}
	return &MismatchError{
		Locator:  e.Locator,
		Property: property,
		Want:     want,
		Got:      got,
		Timeout:  e.session.Timeout(),
	}
}

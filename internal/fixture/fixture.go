// Package fixture loads credential fixtures: documents keyed by scenario name
// whose entries hold a username, a password and, for negative scenarios, the
// expected error text. JSON fixtures written for other runners load as-is.
package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed user_credentials.json
var defaultFixture []byte

// Default returns the bundled fixture for the public practice site.
func Default() Document {
	doc, err := Parse(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("bundled fixture is invalid: %v", err))
	}
	return doc
}

// Scenario names every credential fixture is expected to define.
const (
	Valid           = "valid"
	InvalidUsername = "invalidUsername"
	InvalidPassword = "invalidPassword"
	EmptyUser       = "emptyUser"
)

// Required lists the scenario names in their canonical run order.
var Required = []string{Valid, InvalidUsername, InvalidPassword, EmptyUser}

// Entry is one named scenario of the fixture.
type Entry struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	// Error is the expected error text. Empty for scenarios expected to log in.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Document is a parsed fixture. It is read-only once loaded.
type Document map[string]Entry

// Load reads and parses the fixture at path. YAML is a superset of JSON, so
// both formats are accepted.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixtures may live anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture at %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a fixture document and checks that every required scenario
// is present.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var errs []error
	for _, name := range Required {
		entry, ok := doc[name]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("missing scenario %q", name))
		case name != Valid && entry.Error == "":
			errs = append(errs, fmt.Errorf("scenario %q has no expected error", name))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the named entry.
func (d Document) Get(name string) (Entry, bool) {
	entry, ok := d[name]
	return entry, ok
}

package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	doc := Default()
	assert.Equal(t, Entry{Username: "student", Password: "Password123"}, doc[Valid])
	assert.Equal(t, Entry{
		Username: "incorrectUser",
		Password: "Password123",
		Error:    "Your username is invalid!",
	}, doc[InvalidUsername])
	assert.Equal(t, Entry{
		Username: "student",
		Password: "Password1234",
		Error:    "Your password is invalid!",
	}, doc[InvalidPassword])
	assert.Equal(t, Entry{Error: "Your username is invalid!"}, doc[EmptyUser])
}

func TestLoad(t *testing.T) {
	t.Parallel()

	doc, err := Load(filepath.Join("testdata", "credentials.yaml"))
	require.NoError(t, err)
	assert.Len(t, doc, 5)

	entry, ok := doc.Get("upperCaseUser")
	require.True(t, ok)
	assert.Equal(t, "STUDENT", entry.Username)
	assert.Equal(t, "Your username is invalid!", entry.Error)

	_, ok = doc.Get("nope")
	assert.False(t, ok)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	doc, err := Load("/nonexistent/fixture.json")
	require.ErrorContains(t, err, "failed to read fixture")
	assert.Nil(t, doc)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "json",
			data: `{"valid": {"username": "a", "password": "b"},` +
				`"invalidUsername": {"username": "x", "password": "b", "error": "u"},` +
				`"invalidPassword": {"username": "a", "password": "y", "error": "p"},` +
				`"emptyUser": {"username": "", "password": "", "error": "u"}}`,
		},
		{
			name:    "missing scenario",
			data:    `{"valid": {"username": "a", "password": "b"}}`,
			wantErr: `missing scenario "invalidUsername"`,
		},
		{
			name: "negative scenario without error",
			data: `{"valid": {"username": "a", "password": "b"},` +
				`"invalidUsername": {"username": "x", "password": "b"},` +
				`"invalidPassword": {"username": "a", "password": "y", "error": "p"},` +
				`"emptyUser": {"username": "", "password": "", "error": "u"}}`,
			wantErr: `scenario "invalidUsername" has no expected error`,
		},
		{
			name:    "malformed",
			data:    `{"valid": [`,
			wantErr: "yaml",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse([]byte(test.data))
			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Len(t, doc, len(Required))
		})
	}
}

func TestLoad_ParseErrorNamesPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, path)
	require.ErrorContains(t, err, `missing scenario "valid"`)
}

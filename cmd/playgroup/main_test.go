package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/MTG-Playgroup/internal/config"
	"github.com/ramonehamilton/MTG-Playgroup/internal/deck"
	"github.com/ramonehamilton/MTG-Playgroup/internal/scryfall"
)

// execute runs the root command with an isolated home directory.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckURLCommand(t *testing.T) {
	out, _, err := execute(t, "check-url", "https://www.moxfield.com/decks/abc_123")
	require.NoError(t, err)
	assert.Equal(t, "moxfield\n", out)

	_, _, err = execute(t, "check-url", "https://example.com/decks/1")
	assert.Error(t, err)

	_, _, err = execute(t, "check-url", "https://archidekt.com/decks/notanumber")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	valid := writeFile(t, "valid.json", `{"name":"D","format":"Commander","mainboard":[{"name":"Sol Ring","quantity":1}],"sideboard":[]}`)
	out, _, err := execute(t, "validate", valid)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	invalid := writeFile(t, "invalid.json", `{"name":"D","format":"Commander","mainboard":[{"name":"Sol Ring","quantity":-1}]}`)
	out, _, err = execute(t, "validate", invalid)
	require.Error(t, err)
	assert.Contains(t, out, "mainboard[0]")
	assert.Contains(t, out, "sideboard must be an array")

	_, _, err = execute(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read deck file")
}

func TestInvalidConfigRejected(t *testing.T) {
	path := writeFile(t, "config.toml", "[scryfall]\nbatch_concurrency = 0\n")
	_, _, err := execute(t, "--config", path, "check-url", "https://moxfield.com/decks/a")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestImportCommand(t *testing.T) {
	moxfield := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"CLI Deck","format":"commander","boards":{"mainboard":{"cards":{
			"a":{"quantity":1,"card":{"name":"Sol Ring","scryfall_id":"xyz"}}}}}}`))
	}))
	defer moxfield.Close()

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(scryfall.CollectionResponse{
			Data: []scryfall.Card{{ID: "xyz", Name: "Sol Ring", CMC: 1, TypeLine: "Artifact"}},
		})
	}))
	defer catalog.Close()

	cfg := config.DefaultConfig()
	cfg.Import.MoxfieldEndpoints = []string{moxfield.URL + "/%s"}
	cfg.Scryfall.BaseURL = catalog.URL
	cfg.Scryfall.RateLimit = "0s"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "decks.db")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Save(configPath))

	out, stderr, err := execute(t, "--config", configPath, "import", "--save", "https://moxfield.com/decks/abc")
	require.NoError(t, err, stderr)

	var d deck.Deck
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "CLI Deck", d.Name)
	require.Len(t, d.Mainboard, 1)
	require.NotNil(t, d.Mainboard[0].TypeLine)
	assert.Equal(t, "Artifact", *d.Mainboard[0].TypeLine)
	assert.Contains(t, stderr, "saved deck")

	_, err = os.Stat(cfg.Storage.Path)
	assert.NoError(t, err, fmt.Sprintf("database created at %s", cfg.Storage.Path))
}

func TestImportCommand_BadURL(t *testing.T) {
	_, _, err := execute(t, "import", "not a url")
	assert.ErrorContains(t, err, "invalid deck URL")
}

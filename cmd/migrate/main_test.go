package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hptracker/backend/internal/characters"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSchemaCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("STORE_PATH", filepath.Join(dir, "hp.db"))

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "no migrations applied")

	out, err = run(t, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "up ok")

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version 1 (dirty: false)")

	out, err = run(t, "down", "--steps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "down ok")
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("STORE_PATH", filepath.Join(dir, "hp.db"))

	legacy := []characters.Character{
		{ID: "a", Name: "Aria", MaxHP: 20, CurrentHP: 13},
		{ID: "b", Name: "Broken", MaxHP: 2, CurrentHP: 5},
	}
	data, err := json.MarshalIndent(legacy, "", "  ")
	require.NoError(t, err)
	src := filepath.Join(dir, "characters.json")
	require.NoError(t, os.WriteFile(src, data, 0o644))

	out, err := run(t, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 of 2 characters")

	out, err = run(t, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 0 of 2 characters")
}

func TestFileBackendHasNoSchema(t *testing.T) {
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "characters.json"))

	_, err := run(t, "up")
	assert.ErrorIs(t, err, errFileBackend)
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keystroke/internal/config"
	"github.com/verte-zerg/keystroke/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultConfigTemplateUncommentsCleanly(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	fileCfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	cfg := config.Defaults()
	fileCfg.Apply(&cfg)
	assert.NoError(t, config.Validate(cfg))
	assert.Equal(t, "dark", cfg.Theme)
}

func TestPrefsSetAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "prefs.db")

	_, err := execute(t, "prefs", "set", store.KeyTheme, "light", "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "prefs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "theme = light")
	assert.Contains(t, out, "bell = (unset)")

	_, err = execute(t, "prefs", "reset", "--db", db)
	require.NoError(t, err)
	out, err = execute(t, "prefs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "theme = (unset)")
}

func TestPrefsSetRejectsUnknownKey(t *testing.T) {
	db := filepath.Join(t.TempDir(), "prefs.db")
	_, err := execute(t, "prefs", "set", "font", "12", "--db", db)
	assert.Error(t, err)
}

func TestLocalesListsBuiltinPools(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.txt"), []byte("bonjour\n"), 0o644))
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[practice]\ntexts-dir = \""+filepath.ToSlash(dir)+"\"\n"), 0o644))

	out, err := execute(t, "locales", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "en\t")
	assert.Contains(t, out, "translated")
	assert.Contains(t, out, "fr\t1 texts")
}

func TestResolveConfigPrecedence(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[display]\ntheme = \"light\"\nbell = true\n"), 0o644))
	st, err := store.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()

	cmd := newRootCmd()
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--locale", "pt"}))
	require.NoError(t, st.Set(cmd.Context(), store.KeyBell, "false"))

	cfg, err := resolveConfig(cmd, st)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
	assert.False(t, cfg.Bell)
	assert.Equal(t, "pt", cfg.Locale)
}

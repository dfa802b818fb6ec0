package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sitemeta/internal/app"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()
	cfg, exit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, &app.Config{
		SourcePath: app.DefaultSourcePath,
		LogFormat:  "text",
		LogLevel:   "info",
	}, cfg)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()
	args := []string{
		"-c", "job.hcl",
		"-out", "generated",
		"-sheet", "Assets",
		"-env-file", "prod.env",
		"-log-format", "JSON",
		"-log-level", "Debug",
		"-fail-on-error",
		"registry.csv",
	}
	cfg, exit, err := Parse(args, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, &app.Config{
		SourcePath:  "registry.csv",
		ConfigPath:  "job.hcl",
		OutputDir:   "generated",
		Sheet:       "Assets",
		EnvFile:     "prod.env",
		LogFormat:   "json",
		LogLevel:    "debug",
		FailOnError: true,
	}, cfg)
}

func TestParse_LongConfigFlagWins(t *testing.T) {
	t.Parallel()
	cfg, _, err := Parse([]string{"-config", "long.hcl", "-c", "short.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "long.hcl", cfg.ConfigPath)
}

func TestParse_Help(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), app.DefaultSourcePath)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	cases := map[string][]string{
		"unknown flag":   {"-nope"},
		"bad format":     {"-log-format", "xml"},
		"bad level":      {"-log-level", "trace"},
		"two positional": {"a.xlsx", "b.xlsx"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

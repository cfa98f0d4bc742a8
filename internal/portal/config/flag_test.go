package config

import (
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected func() *Config
	}{
		{
			name: "data dir and dsn",
			args: []string{"cmd", "-d", "/tmp/store", "-dsn", "postgres://u:p@localhost:5432/civicbridge"},
			expected: func() *Config {
				c := &Config{}
				c.LoadDefaults()
				c.DataDir = "/tmp/store"
				c.DatabaseDSN = "postgres://u:p@localhost:5432/civicbridge"
				return c
			},
		},
		{
			name: "require auth flag",
			args: []string{"cmd", "-r"},
			expected: func() *Config {
				c := &Config{}
				c.LoadDefaults()
				c.RequireAuthForResourceCreation = true
				return c
			},
		},
		{
			name: "attachments dir",
			args: []string{"cmd", "-a", "/tmp/files"},
			expected: func() *Config {
				c := &Config{}
				c.LoadDefaults()
				c.AttachmentsDir = "/tmp/files"
				return c
			},
		},
		{
			name: "no flags keeps defaults",
			args: []string{"cmd"},
			expected: func() *Config {
				c := &Config{}
				c.LoadDefaults()
				return c
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			origArgs := os.Args
			os.Args = tt.args
			t.Cleanup(func() { os.Args = origArgs })

			config := &Config{}
			config.LoadDefaults()

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected(), config))
		})
	}
}

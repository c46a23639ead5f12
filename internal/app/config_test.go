package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal trace", cfg: Config{Command: CommandTrace}},
		{name: "full", cfg: Config{Command: CommandCatalog, Format: "table", DuplicateIDs: "overwrite", LogFormat: "json", LogLevel: "debug", Workers: 4, HealthcheckPort: 8080}},
		{name: "missing command", cfg: Config{}, wantErr: "Command is a required"},
		{name: "unknown command", cfg: Config{Command: "draw"}, wantErr: "unknown command"},
		{name: "bad log format", cfg: Config{Command: CommandTrace, LogFormat: "xml"}, wantErr: "invalid log-format"},
		{name: "bad log level", cfg: Config{Command: CommandTrace, LogLevel: "loud"}, wantErr: "invalid log-level"},
		{name: "bad format", cfg: Config{Command: CommandTrace, Format: "pdf"}, wantErr: "invalid format"},
		{name: "bad duplicate policy", cfg: Config{Command: CommandTrace, DuplicateIDs: "merge"}, wantErr: "invalid duplicate id policy"},
		{name: "negative workers", cfg: Config{Command: CommandTrace, Workers: -1}, wantErr: "workers"},
		{name: "bad port", cfg: Config{Command: CommandTrace, HealthcheckPort: 70000}, wantErr: "healthcheck-port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewConfig(tc.cfg)

			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *got)
		})
	}
}

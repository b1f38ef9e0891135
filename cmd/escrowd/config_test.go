package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/domainlend/loom/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cases := map[string]struct {
		content string
		wantErr *errors.Error
		want    Config
	}{
		"all values": {
			content: `
db_dir = "/var/lib/escrowd"
chain_id = "escrow-main"
log_level = "debug"
log_file = "/var/log/escrowd.log"
debug = true
`,
			want: Config{
				DBDir:    "/var/lib/escrowd",
				ChainID:  "escrow-main",
				LogLevel: "debug",
				LogFile:  "/var/log/escrowd.log",
				Debug:    true,
			},
		},
		"defaults are kept": {
			content: `db_dir = "/tmp/escrowd"`,
			want: Config{
				DBDir:    "/tmp/escrowd",
				LogLevel: "info",
			},
		},
		"unknown key": {
			content: `database = "/tmp/escrowd"`,
			wantErr: errors.ErrInput,
		},
		"invalid level": {
			content: `log_level = "loud"`,
			wantErr: errors.ErrInput,
		},
		"invalid chain id": {
			content: `chain_id = "x"`,
			wantErr: errors.ErrInput,
		},
		"malformed file": {
			content: `db_dir = `,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, ioutil.WriteFile(path, []byte(tc.content), 0600))

			conf, err := LoadConfig(path)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *conf)
		})
	}
}

func TestLoadMissingConfig(t *testing.T) {
	conf, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), *conf)
}

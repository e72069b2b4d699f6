package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 3, cfg.Pipeline.MinLength)
	require.Equal(t, 10, cfg.Pipeline.MaxLength)
	require.Equal(t, "words.txt", cfg.Pipeline.WordList)
	require.Equal(t, "https://translate.google.com", cfg.Translate.BaseURL)
	require.Equal(t, "http://127.0.0.1:1234/v1", cfg.LLM.BaseURL)
	require.Equal(t, "termscout.db", cfg.DB.Path)
	require.True(t, cfg.Diagnostics.Enabled)
	require.Equal(t, 8080, cfg.Diagnostics.Port)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
pipeline:
  min_length: 4
  max_length: 8
  word_list: /tmp/seeds.txt
llm:
  model: qwen2.5-32b
cloudflare:
  api_token: token
  account_id: account
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Pipeline.MinLength)
	require.Equal(t, 8, cfg.Pipeline.MaxLength)
	require.Equal(t, "/tmp/seeds.txt", cfg.Pipeline.WordList)
	require.NoError(t, cfg.ValidateRun())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateBounds(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Pipeline.MaxLength = cfg.Pipeline.MinLength - 1
	require.Error(t, cfg.Validate())

	cfg, err = Load("")
	require.NoError(t, err)
	cfg.DB.Path = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRunRequiresCredentials(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Error(t, cfg.ValidateRun(), "llm.model unset")

	cfg.LLM.Model = "qwen2.5-32b"
	require.Error(t, cfg.ValidateRun(), "cloudflare credentials unset")

	cfg.Cloudflare.APIToken = "token"
	cfg.Cloudflare.AccountID = "account"
	require.NoError(t, cfg.ValidateRun())
}

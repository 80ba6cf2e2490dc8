package config

import (
	"errors"
	"fmt"
	"os/user"

	"github.com/kelseyhightower/envconfig"

	"github.com/mlombardi/issueflow/internal/util"
)

// Config holds all environment-driven settings. Credentials are validated
// lazily: only the commands that need a collaborator require its token.
type Config struct {
	LinearAPIKey string `envconfig:"LINEAR_API_KEY"`
	GitHubToken  string `envconfig:"GITHUB_TOKEN"`

	Repo       string `envconfig:"ISSUEFLOW_REPO"`
	BaseBranch string `envconfig:"ISSUEFLOW_BASE_BRANCH" default:"main"`

	DataDir       string `envconfig:"ISSUEFLOW_DATA_DIR"`
	Store         string `envconfig:"ISSUEFLOW_STORE" default:"files"`
	CallerKey     string `envconfig:"ISSUEFLOW_USER"`
	AssistantBin  string `envconfig:"ISSUEFLOW_ASSISTANT_BIN" default:"claude"`
	TemplatesFile string `envconfig:"ISSUEFLOW_TEMPLATES_FILE"`
}

// Store backends.
const (
	StoreFiles  = "files"
	StoreLibSQL = "libsql"
)

// Load reads configuration from the environment and fills derivable
// defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	if cfg.CallerKey == "" {
		if u, err := user.Current(); err == nil {
			cfg.CallerKey = u.Username
		}
	}

	if cfg.Store != StoreFiles && cfg.Store != StoreLibSQL {
		return nil, fmt.Errorf("unknown ISSUEFLOW_STORE %q (expected %q or %q)", cfg.Store, StoreFiles, StoreLibSQL)
	}

	return &cfg, nil
}

// RequireLinear fails with remediation instructions when the Linear
// credential is missing.
func (c *Config) RequireLinear() error {
	if c.LinearAPIKey == "" {
		return errors.New("LINEAR_API_KEY is not set.\n\nCreate a personal API key at https://linear.app/settings/api and export it:\n  export LINEAR_API_KEY=lin_api_...")
	}
	return nil
}

// RequireGitHub fails with remediation instructions when the GitHub
// credential or repository is missing.
func (c *Config) RequireGitHub() error {
	if c.GitHubToken == "" {
		return errors.New("GITHUB_TOKEN is not set.\n\nCreate a token at https://github.com/settings/tokens with repo scope and export it:\n  export GITHUB_TOKEN=ghp_...")
	}
	if c.Repo == "" {
		return errors.New("ISSUEFLOW_REPO is not set.\n\nExport the target repository as owner/name:\n  export ISSUEFLOW_REPO=acme/app")
	}
	return nil
}

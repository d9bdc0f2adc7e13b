// Package config loads application configuration from an optional YAML file
// and environment variables. Environment variables win over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the server default (and maximum) per-source page size
// for one aggregation page.
const DefaultPageSize = 30

// defaultBotUsernames are the reviewer logins treated as automated when no
// explicit list is configured.
var defaultBotUsernames = []string{"coderabbitai[bot]", "coderabbitai"}

// Config holds the application configuration.
type Config struct {
	GitHubToken  string   `yaml:"github_token"`
	BotUsernames []string `yaml:"bot_usernames"`
	PageSize     int      `yaml:"page_size"`
	CachePath    string   `yaml:"cache_path"` // Empty disables the persistent cache.
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty or the file does not exist) and then applies environment variable
// overrides: REVIEWLENS_GITHUB_TOKEN, REVIEWLENS_BOT_USERNAMES
// (comma-separated), REVIEWLENS_PAGE_SIZE, REVIEWLENS_CACHE_PATH.
func Load(path string) (*Config, error) {
	cfg := &Config{PageSize: DefaultPageSize}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; fall through to env.
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("REVIEWLENS_GITHUB_TOKEN"); v != "" {
		cfg.GitHubToken = v
	}

	if v, ok := os.LookupEnv("REVIEWLENS_BOT_USERNAMES"); ok {
		cfg.BotUsernames = splitList(v)
	}

	if v, ok := os.LookupEnv("REVIEWLENS_PAGE_SIZE"); ok {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REVIEWLENS_PAGE_SIZE has invalid value %q: %w", v, err)
		}
		cfg.PageSize = size
	}

	if v, ok := os.LookupEnv("REVIEWLENS_CACHE_PATH"); ok {
		cfg.CachePath = v
	}

	if len(cfg.BotUsernames) == 0 {
		cfg.BotUsernames = defaultBotUsernames
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}

// splitList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitList(v string) []string {
	var result []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

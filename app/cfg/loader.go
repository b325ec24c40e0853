package cfg

import (
	"cmp"
	"errors"
	"fmt"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

var (
	ErrMissingHatenaID = errors.New("hatena id is not configured")
	ErrMissingBlogID   = errors.New("blog id is not configured")
	ErrMissingAPIKey   = errors.New("api key is not configured")
)

// Options is the go-flags group shared by every command. The CLI parser in
// main embeds it, so flag and environment handling stays in one place.
type Options struct {
	// Blog credentials
	HatenaID string `long:"hatena-id" env:"HATENA_ID" description:"Hatena account ID"`
	BlogID   string `long:"blog-id" env:"BLOG_ID" description:"Blog ID (the blog's domain)"`
	APIKey   string `long:"api-key" env:"API_KEY" description:"AtomPub API key from the blog settings page"`
	BaseURL  string `long:"base-url" env:"BASE_URL" description:"API base URL override"`

	// Profiles
	Profile      string `long:"profile" env:"PROFILE" default:"default" description:"Named credential profile to use"`
	ProfilesFile string `long:"profiles-file" env:"PROFILES_FILE" description:"Path to the YAML profiles file"`

	// Application configuration
	ArchivePath  string `long:"archive-path" env:"ARCHIVE_PATH" default:"./hatena-archive.db" description:"Path to the local archive database"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for the serve command"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for archive sync"`
	APIAccessKey string `long:"api-access-key" env:"API_ACCESS_KEY" description:"Access key protecting the local HTTP API (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"hatena-atom/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load resolves the effective configuration from parsed options and the
// profiles file. Explicit flags and environment variables win over profile
// values.
func Load(opts Options) (*Cfg, error) {
	cfg := &Cfg{
		HatenaID:     opts.HatenaID,
		BlogID:       opts.BlogID,
		APIKey:       opts.APIKey,
		BaseURL:      opts.BaseURL,
		ArchivePath:  opts.ArchivePath,
		Port:         opts.Port,
		WorkerCount:  opts.WorkerCount,
		APIAccessKey: opts.APIAccessKey,
		UserAgent:    opts.UserAgent,
		Debug:        opts.Debug,
		Version:      GetVersion(),
	}

	profile, err := loadProfile(opts.ProfilesFile, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile != nil {
		cfg.HatenaID = cmp.Or(cfg.HatenaID, profile.HatenaID)
		cfg.BlogID = cmp.Or(cfg.BlogID, profile.BlogID)
		cfg.APIKey = cmp.Or(cfg.APIKey, profile.APIKey)
		cfg.BaseURL = cmp.Or(cfg.BaseURL, profile.BaseURL)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

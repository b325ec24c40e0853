package cfg

type Cfg struct {
	// Blog credentials
	HatenaID string
	BlogID   string
	APIKey   string
	BaseURL  string

	// Application configuration
	ArchivePath  string
	Port         string
	WorkerCount  int
	APIAccessKey string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}

// RequireCredentials reports the first missing credential. Commands that talk
// to the remote API call this before doing any work; local-only commands skip
// it.
func (c *Cfg) RequireCredentials() error {
	switch {
	case c.HatenaID == "":
		return ErrMissingHatenaID
	case c.BlogID == "":
		return ErrMissingBlogID
	case c.APIKey == "":
		return ErrMissingAPIKey
	}
	return nil
}

package cfg

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DefaultProfileName = "default"

// Profile is one named credential set from the profiles file:
//
//	default:
//	  hatena_id: example
//	  blog_id: example.hatenablog.com
//	  api_key: xxxxxxxxxx
//	work:
//	  hatena_id: example-work
//	  ...
type Profile struct {
	HatenaID string `yaml:"hatena_id"`
	BlogID   string `yaml:"blog_id"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// loadProfile reads the named profile from the profiles file. A missing file
// is only an error when a non-default profile was requested explicitly; the
// default profile simply falls back to flags and environment.
func loadProfile(path, name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfileName
	}
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(configDir, "hatena-atom", "profiles.yml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if name != DefaultProfileName {
				return nil, fmt.Errorf("profile '%s' requested but %s does not exist", name, path)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var profiles map[string]*Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	profile, ok := profiles[name]
	if !ok {
		if name == DefaultProfileName {
			return nil, nil
		}
		return nil, fmt.Errorf("profile '%s' not found in %s", name, path)
	}

	return profile, nil
}

/*
Package config reads the site settings from the "blog.cfg" file at the root of
the site. The file is TOML:

	sitename = "Known Blog"
	posts = "posts"
	fallback = "true"        # "true", "false" or "blocking"
	markdown = "blackfriday" # or "goldmark"
	expires = "1m"
	staticexpires = "1h"
	cachesize = 16777216
	cacheduration = "30s"

	[headers]
	X-Frame-Options = "DENY"

Settings that are left out keep their defaults. The file itself is optional.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Filename is the name of the configuration file at the site root.
const Filename = "blog.cfg"

// Config contains configuration data from the blog.cfg file.
type Config struct {
	SiteName      string            `toml:"sitename"`
	PostsDir      string            `toml:"posts"`
	Fallback      string            `toml:"fallback"`
	Markdown      string            `toml:"markdown"`
	Expires       Duration          `toml:"expires"`
	StaticExpires Duration          `toml:"staticexpires"`
	CacheSize     int64             `toml:"cachesize"`
	CacheDuration Duration          `toml:"cacheduration"`
	Headers       map[string]string `toml:"headers"`
}

// Default returns the configuration used when blog.cfg is missing.
func Default() *Config {
	return &Config{
		SiteName:      "Known Blog",
		PostsDir:      "posts",
		Fallback:      "true",
		Markdown:      "blackfriday",
		CacheSize:     16 * 1024 * 1024,
		CacheDuration: Duration(30 * time.Second),
	}
}

// Load returns configuration from the blog.cfg file in fsys, filled in with
// defaults. It is not an error if the file does not exist.
func Load(fsys fs.FS) (*Config, error) {
	cfg := Default()
	cfgBytes, err := fs.ReadFile(fsys, Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("Cannot read config file: %w", err)
	}
	err = toml.Unmarshal(cfgBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("Cannot parse config file: %w", err)
	}
	// an explicit empty value means "use the default"
	def := Default()
	if cfg.SiteName == "" {
		cfg.SiteName = def.SiteName
	}
	if cfg.PostsDir == "" {
		cfg.PostsDir = def.PostsDir
	}
	if cfg.Fallback == "" {
		cfg.Fallback = def.Fallback
	}
	if cfg.Markdown == "" {
		cfg.Markdown = def.Markdown
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	return cfg, nil
}

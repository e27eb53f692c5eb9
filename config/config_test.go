package config

import (
	"testing"
	"testing/fstest"
	"time"
)

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(fstest.MapFS{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SiteName != "Known Blog" {
		t.Errorf("Expected default site name but got %q", cfg.SiteName)
	}
	if cfg.PostsDir != "posts" || cfg.Fallback != "true" || cfg.Markdown != "blackfriday" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		Filename: &fstest.MapFile{Data: []byte(`
sitename = "Other Blog"
fallback = "blocking"
markdown = "goldmark"
expires = "1m30s"
cacheduration = "5s"

[headers]
X-Frame-Options = "DENY"
`)},
	}
	cfg, err := Load(fsys)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SiteName != "Other Blog" {
		t.Errorf("Expected %q but got %q", "Other Blog", cfg.SiteName)
	}
	if cfg.PostsDir != "posts" {
		t.Errorf("Expected default posts folder but got %q", cfg.PostsDir)
	}
	if cfg.Fallback != "blocking" || cfg.Markdown != "goldmark" {
		t.Errorf("Unexpected settings: %+v", cfg)
	}
	if time.Duration(cfg.Expires) != 90*time.Second {
		t.Errorf("Expected 1m30s but got %s", cfg.Expires)
	}
	if time.Duration(cfg.CacheDuration) != 5*time.Second {
		t.Errorf("Expected 5s but got %s", cfg.CacheDuration)
	}
	if cfg.Headers["X-Frame-Options"] != "DENY" {
		t.Errorf("Missing header: %v", cfg.Headers)
	}
}

func TestLoadBad(t *testing.T) {
	fsys := fstest.MapFS{
		Filename: &fstest.MapFile{Data: []byte(`expires = "forever"`)},
	}
	_, err := Load(fsys)
	if err == nil {
		t.Error("Expected an error for a bad duration")
	}
}

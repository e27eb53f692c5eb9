package site

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// ExportFolder is the folder under the output directory holding the pages.
const ExportFolder = "blog"

// Export renders every static path into dir as blog/<slug>/index.html and
// writes the path list to blog/paths.json. It returns the files written.
func (s *Site) Export(ctx context.Context, dir string, preview bool) ([]string, error) {
	sp, err := s.Blog.StaticPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}
	base := filepath.Join(dir, ExportFolder)
	err = os.MkdirAll(base, 0o755)
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}
	var written []string
	for _, slug := range sp.Slugs() {
		b, err := s.Render(ctx, slug, preview)
		if err != nil {
			return written, fmt.Errorf("Export: %w", err)
		}
		folder := filepath.Join(base, slug)
		err = os.MkdirAll(folder, 0o755)
		if err != nil {
			return written, fmt.Errorf("Export: %w", err)
		}
		name := filepath.Join(folder, "index.html")
		err = os.WriteFile(name, b, 0o644)
		if err != nil {
			return written, fmt.Errorf("Export: %w", err)
		}
		written = append(written, name)
	}
	manifest, err := json.MarshalIndent(sp, "", "  ")
	if err != nil {
		return written, fmt.Errorf("Export: %w", err)
	}
	name := filepath.Join(base, "paths.json")
	err = os.WriteFile(name, manifest, 0o644)
	if err != nil {
		return written, fmt.Errorf("Export: %w", err)
	}
	written = append(written, name)
	log.Printf("Exported %d pages to %q (fallback %s)", len(sp.Paths), base, sp.Fallback)
	return written, nil
}

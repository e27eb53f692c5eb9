// Export renders every blog page of a site folder into static HTML files.
//
//	export -root ./site -out ./public
//
// Pages are written to <out>/blog/<slug>/index.html together with a
// <out>/blog/paths.json list of the exported paths.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ancientlore/knownblog/cms"
	"github.com/ancientlore/knownblog/content"
	"github.com/ancientlore/knownblog/site"
	"github.com/facebookgo/flagenv"
)

func main() {
	root := flag.String("root", ".", "Root of web site.")
	out := flag.String("out", "public", "Output folder.")
	cmsDB := flag.String("cmsdb", "", "SQLite database holding CMS posts.")
	preview := flag.Bool("preview", false, "Render CMS drafts instead of published posts.")

	flag.Parse()
	flagenv.Parse()

	ctx := context.Background()

	var cmsSource content.Source
	if *cmsDB != "" {
		store, err := cms.Open(ctx, *cmsDB)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		cmsSource = store
	}

	s, err := site.New(site.Options{Root: os.DirFS(*root), CMS: cmsSource})
	if err != nil {
		log.Fatal(err)
	}

	files, err := s.Export(ctx, *out, *preview)
	if err != nil {
		log.Fatal(err)
	}
	for _, f := range files {
		log.Print(f)
	}
}

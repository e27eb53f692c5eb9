/*
Knownblog serves a blog from a site folder. Pages live in the posts folder as
Markdown or MDX files with YAML or TOML front matter and are served under
/blog/<slug>. Slugs that are not files can come from a SQLite CMS database;
the "fallback" setting in blog.cfg decides how such pages are produced.

	knownblog -root ./site -cmsdb cms.db

Every flag may also be set through an environment variable of the same name.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/ancientlore/knownblog/cms"
	"github.com/ancientlore/knownblog/config"
	"github.com/ancientlore/knownblog/content"
	"github.com/ancientlore/knownblog/site"
	"github.com/ancientlore/knownblog/web"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root of web site.")
		fCMSDB             = flag.String("cmsdb", "", "SQLite database holding CMS posts.")
		fCMSMemory         = flag.Bool("cmsmemory", false, "Load the CMS posts into memory at startup.")
		fPreview           = flag.Bool("preview", false, "Serve CMS drafts instead of published posts.")
		fWatch             = flag.Bool("watch", true, "Reload templates when they change.")
	)
	flag.Parse()
	flagenv.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup groupcache with no peers
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// Read config
	rootFS := os.DirFS(*fRoot)
	cfg, err := config.Load(rootFS)
	if err != nil {
		log.Printf("Cannot load configuration: %s", err)
		os.Exit(1)
	}
	log.Printf("Loaded configuration for %q", cfg.SiteName)

	// Cache the site files; templates are read directly so that they can be reloaded
	cachedFS := cachefs.New(rootFS, &cachefs.Config{
		GroupName:   "files",
		SizeInBytes: cfg.CacheSize,
		Duration:    time.Duration(cfg.CacheDuration),
	})
	tplDir := filepath.Join(*fRoot, site.TemplateDir)
	var tplFS fs.FS
	if fi, err := os.Stat(tplDir); err == nil && fi.IsDir() {
		tplFS = os.DirFS(tplDir)
	} else {
		tplDir = ""
	}

	// Open CMS
	var cmsSource content.Source
	if *fCMSDB != "" {
		store, err := cms.Open(ctx, *fCMSDB)
		if err != nil {
			log.Printf("Cannot open CMS database: %s", err)
			os.Exit(2)
		}
		defer store.Close()
		cmsSource = store
		if *fCMSMemory {
			coll, err := store.Collection(ctx)
			if err != nil {
				log.Printf("Cannot load CMS posts: %s", err)
				os.Exit(2)
			}
			cmsSource = coll
			log.Printf("Loaded %d published and %d draft CMS posts", len(coll.Published), len(coll.Draft))
		} else {
			log.Printf("Opened CMS database %q", *fCMSDB)
		}
	}

	s, err := site.New(site.Options{
		Config:    cfg,
		Root:      cachedFS,
		Templates: tplFS,
		CMS:       cmsSource,
	})
	if err != nil {
		log.Printf("Cannot open site: %s", err)
		os.Exit(3)
	}
	if *fWatch && tplDir != "" {
		err = s.View.Watch(ctx, tplDir)
		if err != nil {
			log.Printf("Cannot watch templates: %s", err)
			os.Exit(3)
		}
		log.Printf("Watching %q for template changes", tplDir)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := web.NewMetrics(reg)

	pages, err := web.NewPages(ctx, s, web.PagesConfig{
		GroupName:     "pages",
		CacheSize:     cfg.CacheSize,
		CacheDuration: time.Duration(cfg.CacheDuration),
		Preview:       *fPreview,
		Metrics:       metrics,
	})
	if err != nil {
		log.Printf("Cannot enumerate pages: %s", err)
		os.Exit(4)
	}

	// Setup handlers
	mux := http.NewServeMux()
	mux.Handle(web.PagePattern, pages)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /sitemap.txt", web.Sitemap(s.Blog))
	mux.Handle("/", http.FileServer(http.FS(staticFS(cachedFS))))
	handler := web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(
				web.ErrorHandler(mux, cachedFS),
			),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers)
	log.Print("Created handlers")

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           handler,
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	// Create signal handler for graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)

		// interrupt signal sent from terminal
		signal.Notify(sigint, os.Interrupt)
		// sigterm signal sent from kubernetes
		signal.Notify(sigint, syscall.SIGTERM)

		<-sigint

		// We received an interrupt signal, shut down.
		cancel()
		ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	// Listen for requests
	log.Print("Listening for requests")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server: %v", err)
	} else {
		pages.Wait()
		log.Print("Goodbye.")
	}
}

package web

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ancientlore/knownblog/blog"
	"github.com/ancientlore/knownblog/cache"
	"github.com/ancientlore/knownblog/content"
	"github.com/ancientlore/knownblog/post"
	"github.com/ancientlore/knownblog/site"
	"github.com/golang/groupcache/lru"
)

// PagePrefix is the URL path under which blog pages are served.
const PagePrefix = "/blog/"

// PagePattern is the ServeMux pattern for Pages.
const PagePattern = "GET " + PagePrefix + "{slug}"

// pageStatus is the generation state of a slug that was not built ahead of time.
type pageStatus int

const (
	statusBuilding pageStatus = iota
	statusReady
	statusMissing
)

type pageState struct {
	status pageStatus
	at     time.Time
}

// Defaults for PagesConfig.
const (
	DefaultMaxStates      = 4096
	DefaultMaxGenerations = 8
)

// PagesConfig configures Pages.
type PagesConfig struct {
	GroupName      string        // groupcache group name, unique per process
	CacheSize      int64         // bytes of rendered pages to keep
	CacheDuration  time.Duration // how long a rendered page is reused; 0 is forever
	Preview        bool          // serve draft CMS documents
	Metrics        *Metrics      // may be nil
	MaxStates      int           // generated or missing slugs remembered; 0 is DefaultMaxStates
	MaxGenerations int           // background renders at once; 0 is DefaultMaxGenerations
}

// Pages serves rendered blog pages. Slugs from the static paths are
// rendered on request. Other slugs follow the fallback policy: "false"
// answers not found, "blocking" renders before answering, and "true" answers
// with a loading page while the page renders in the background.
type Pages struct {
	site     *site.Site
	cache    *cache.Cache
	preview  bool
	fallback blog.Fallback
	retry    time.Duration
	metrics  *Metrics
	known    map[string]bool

	mu    sync.Mutex
	state *lru.Cache // slug -> pageState, least recently used dropped first
	gen   chan struct{}
	wg    sync.WaitGroup
}

// NewPages reads the static paths of s and returns the page handler.
func NewPages(ctx context.Context, s *site.Site, cfg PagesConfig) (*Pages, error) {
	sp, err := s.Blog.StaticPaths(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.MaxStates <= 0 {
		cfg.MaxStates = DefaultMaxStates
	}
	if cfg.MaxGenerations <= 0 {
		cfg.MaxGenerations = DefaultMaxGenerations
	}
	p := &Pages{
		site:     s,
		preview:  cfg.Preview,
		fallback: sp.Fallback,
		retry:    cfg.CacheDuration,
		metrics:  cfg.Metrics,
		known:    make(map[string]bool, len(sp.Paths)),
		state:    lru.New(cfg.MaxStates),
		gen:      make(chan struct{}, cfg.MaxGenerations),
	}
	for _, slug := range sp.Slugs() {
		p.known[slug] = true
	}
	p.cache = cache.New(cfg.GroupName, cfg.CacheSize, cfg.CacheDuration, func(ctx context.Context, slug string) ([]byte, error) {
		return s.Render(ctx, slug, p.preview)
	})
	log.Printf("Serving %d static pages with fallback %s", len(p.known), p.fallback)
	return p, nil
}

// ServeHTTP implements http.Handler. The slug comes from the {slug} path
// value, so Pages must be registered with PagePattern.
func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer p.metrics.observe(start)

	slug := r.PathValue("slug")
	if !post.ValidSlug(slug) {
		p.notFound(w, r)
		return
	}
	if p.known[slug] {
		p.serve(w, r, slug)
		return
	}
	switch p.fallback {
	case blog.FallbackFalse:
		p.notFound(w, r)
	case blog.FallbackBlocking:
		p.serve(w, r, slug)
	default:
		p.serveFallback(w, r, slug)
	}
}

// serve renders slug through the cache and writes it.
func (p *Pages) serve(w http.ResponseWriter, r *http.Request, slug string) {
	b, err := p.cache.Get(r.Context(), slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			p.notFound(w, r)
			return
		}
		log.Printf("Pages: %s", err)
		p.metrics.count(outcomeError)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	p.metrics.count(outcomeRendered)
	p.write(w, r, http.StatusOK, b)
}

// serveFallback serves slug if it has been generated, and otherwise starts
// generating it and writes the loading page. When MaxGenerations renders
// are already running, the page is rendered before answering instead.
func (p *Pages) serveFallback(w http.ResponseWriter, r *http.Request, slug string) {
	p.mu.Lock()
	st, ok := p.lookupState(slug)
	if !ok {
		select {
		case p.gen <- struct{}{}:
			p.state.Add(slug, pageState{status: statusBuilding, at: time.Now()})
			p.wg.Add(1)
			go p.generate(slug)
		default:
			p.mu.Unlock()
			p.serve(w, r, slug)
			return
		}
	}
	p.mu.Unlock()

	switch {
	case ok && st.status == statusReady:
		p.serve(w, r, slug)
		return
	case ok && st.status == statusMissing:
		p.notFound(w, r)
		return
	}
	b, err := p.site.Placeholder()
	if err != nil {
		log.Printf("Pages: %s", err)
		p.metrics.count(outcomeError)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	p.metrics.count(outcomeFallback)
	w.Header().Set("Cache-Control", "no-store")
	p.write(w, r, http.StatusOK, b)
}

// lookupState returns the state of slug. Missing slugs older than the
// cache duration are dropped so that they are tried again. p.mu must be held.
func (p *Pages) lookupState(slug string) (pageState, bool) {
	v, ok := p.state.Get(slug)
	if !ok {
		return pageState{}, false
	}
	st := v.(pageState)
	if st.status == statusMissing && p.retry > 0 && time.Since(st.at) > p.retry {
		p.state.Remove(slug)
		return pageState{}, false
	}
	return st, true
}

// generate renders slug in the background and records the outcome.
func (p *Pages) generate(slug string) {
	defer p.wg.Done()
	defer func() { <-p.gen }()
	_, err := p.cache.Get(context.Background(), slug)
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case err == nil:
		p.state.Add(slug, pageState{status: statusReady, at: time.Now()})
	case errors.Is(err, content.ErrNotFound):
		p.state.Add(slug, pageState{status: statusMissing, at: time.Now()})
	default:
		// forget the attempt so the next request tries again
		log.Printf("Pages: %s", err)
		p.state.Remove(slug)
	}
}

// Wait blocks until background generation has finished.
func (p *Pages) Wait() {
	p.wg.Wait()
}

func (p *Pages) notFound(w http.ResponseWriter, r *http.Request) {
	p.metrics.count(outcomeNotFound)
	http.NotFound(w, r)
}

func (p *Pages) write(w http.ResponseWriter, r *http.Request, status int, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, err := bytes.NewReader(b).WriteTo(w)
	if err != nil {
		log.Printf("Pages: %s", err)
	}
}

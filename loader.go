package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FeedSource fetches one feed. Implementations report failures on the
// result instead of returning an error.
type FeedSource interface {
	Fetch(ctx context.Context, feed Feed) FeedResult
}

type LoadState int

const (
	StateLoading LoadState = iota
	StateLoaded
)

func (s LoadState) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "loading"
}

// Page is the outcome of one load pass.
type Page struct {
	State     LoadState
	HTML      string
	Results   map[Feed]FeedResult
	Profile   *ProfileRecord
	Projects  Partition
	Recovered bool
}

// Failures lists the reason for every feed that did not load.
func (p *Page) Failures() map[Feed]string {
	out := map[Feed]string{}
	for feed, res := range p.Results {
		if !res.OK() {
			out[feed] = res.Err.Error()
		}
	}
	return out
}

// skeletonData feeds the static page template.
type skeletonData struct {
	Name        string
	Bio         string
	TitleSuffix string
	Nav         NavView
	Modal       *Modal
	Static      bool
}

// Loader runs the fetch-and-render pass over a fresh copy of the page.
type Loader struct {
	source      FeedSource
	tmpl        *template.Template
	renderer    *Renderer
	spy         *ScrollSpy
	images      ImageResolver
	titleSuffix string
	metrics     *Metrics
	logger      *zap.Logger
}

func NewLoader(src FeedSource, tmpl *template.Template, spy *ScrollSpy, images ImageResolver, titleSuffix string, m *Metrics, l *zap.Logger) *Loader {
	return &Loader{
		source:      src,
		tmpl:        tmpl,
		renderer:    NewRenderer(tmpl),
		spy:         spy,
		images:      images,
		titleSuffix: titleSuffix,
		metrics:     m,
		logger:      l,
	}
}

var pageFeeds = []Feed{FeedProfile, FeedProjects, FeedCerts}

// Load fetches the three feeds concurrently, waits for all of them and
// renders whatever arrived. Feed failures leave their sections at the
// skeleton content; only a broken page template is returned as an error.
func (l *Loader) Load(ctx context.Context) (*Page, error) {
	return l.load(ctx, false)
}

// Export renders a page that works without the server: the nav is
// highlighted in the browser and the contact form is left out.
func (l *Loader) Export(ctx context.Context) (*Page, error) {
	return l.load(ctx, true)
}

func (l *Loader) load(ctx context.Context, static bool) (*Page, error) {
	page := &Page{State: StateLoading, Results: make(map[Feed]FeedResult, len(pageFeeds))}

	results := make([]FeedResult, len(pageFeeds))
	var g errgroup.Group
	for i, feed := range pageFeeds {
		g.Go(func() error {
			results[i] = l.source.Fetch(ctx, feed)
			return nil
		})
	}
	_ = g.Wait()
	for _, res := range results {
		page.Results[res.Feed] = res
	}

	doc, err := l.skeleton(static)
	if err != nil {
		return nil, err
	}

	l.apply(doc, page, static)

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing page: %w", err)
	}
	page.HTML = out
	page.State = StateLoaded

	result := "complete"
	switch {
	case page.Recovered:
		result = "recovered"
	case len(page.Failures()) > 0:
		result = "partial"
	}
	l.metrics.IncPageRenders(result)
	return page, nil
}

func (l *Loader) skeleton(static bool) (*goquery.Document, error) {
	var buf bytes.Buffer
	data := skeletonData{
		Name:        SkeletonName,
		Bio:         SkeletonBio,
		TitleSuffix: l.titleSuffix,
		Nav:         l.spy.View("", static),
		Modal:       NewModal(l.images),
		Static:      static,
	}
	if err := l.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return nil, fmt.Errorf("rendering page skeleton: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("parsing page skeleton: %w", err)
	}
	return doc, nil
}

// apply writes the feed data into doc. Sections rendered before a failure
// are kept.
func (l *Loader) apply(doc *goquery.Document, page *Page, static bool) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				page.Recovered = true
				l.logger.Error("load pass panicked", zap.Any("panic", r))
			}
		}()
		if err := l.applyFeeds(doc, page); err != nil {
			page.Recovered = true
			l.logger.Error("load pass aborted", zap.Error(err))
		}
	}()

	// The scroll spy is armed on every pass, including failed ones.
	l.initScrollSpy(doc, static)

	if failures := page.Failures(); len(failures) > 0 {
		l.logger.Warn("page rendered with missing feeds", zap.Any("failures", failures))
	}
}

func (l *Loader) applyFeeds(doc *goquery.Document, page *Page) error {
	if rows := page.Results[FeedProfile].Rows(); len(rows) > 0 {
		profile := NewProfileRecord(rows[0])
		page.Profile = &profile
		l.applyProfile(doc, profile)
	}

	if rows := page.Results[FeedProjects].Rows(); len(rows) > 0 {
		page.Projects = PartitionProjects(rows)
		if page.Projects.Unknown > 0 {
			l.logger.Debug("dropped project rows with unknown category", zap.Int("rows", page.Projects.Unknown))
		}
		if err := l.renderProjects(doc, page.Projects); err != nil {
			return err
		}
	}

	if rows := page.Results[FeedCerts].Rows(); len(rows) > 0 {
		certs := make([]CertificateRecord, 0, len(rows))
		for _, row := range rows {
			certs = append(certs, NewCertificateRecord(row))
		}
		container := doc.Find("#cert-list")
		container.Empty()
		if err := l.renderer.RenderCerts(container, certs); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) renderProjects(doc *goquery.Document, p Partition) error {
	tech := doc.Find("#tech-grid")
	commProjects := doc.Find("#comm-projects-grid")
	education := doc.Find("#edu-timeline")
	commNetworks := doc.Find("#comm-networks-grid")
	for _, c := range []*goquery.Selection{tech, commProjects, education, commNetworks} {
		c.Empty()
	}

	if err := l.renderer.RenderTech(tech, p.Tech); err != nil {
		return err
	}
	if err := l.renderer.RenderCommProjects(commProjects, p.CommProjects); err != nil {
		return err
	}
	if err := l.renderer.RenderEducation(education, p.Education); err != nil {
		return err
	}
	return l.renderer.RenderCommNetworks(commNetworks, p.CommNetworks)
}

// applyProfile updates the page chrome. Without a name nothing changes;
// with one, name and bio are always written and the remaining fields only
// when provided.
func (l *Loader) applyProfile(doc *goquery.Document, p ProfileRecord) {
	if p.Name == "" {
		return
	}
	doc.Find(".logo").SetText(p.Name)
	doc.Find("title").SetText(p.Name + " | " + l.titleSuffix)
	doc.Find(".bio").SetText(p.Bio)

	if p.Image != "" {
		doc.Find("#hero-profile-img").SetAttr("src", l.images.Resolve(p.Image))
	}
	if email := doc.Find(`a[href^="mailto"]`).First(); email.Length() > 0 && p.Email != "" {
		email.SetAttr("href", "mailto:"+p.Email)
		email.Find("span").SetText("E-mail")
	}
	if p.LinkedIn != "" {
		doc.Find(`a[href*="linkedin"]`).First().SetAttr("href", p.LinkedIn)
	}
	if p.GitHub != "" {
		doc.Find(`a[href*="github"]`).First().SetAttr("href", p.GitHub)
	}
}

// initScrollSpy renders the navigation as seen from the top of the page.
func (l *Loader) initScrollSpy(doc *goquery.Document, static bool) {
	first, _ := doc.Find("section[id]").First().Attr("id")
	current := l.spy.Current([]Section{{ID: first, Top: 0}}, 0)

	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, "nav", l.spy.View(current, static)); err != nil {
		l.logger.Error("rendering navigation", zap.Error(err))
		return
	}
	doc.Find(".nav-links").ReplaceWithHtml(buf.String())
}

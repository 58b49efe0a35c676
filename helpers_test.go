package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const profileTSV = "name\tbio\timage\temail\tlinkedin\tgithub\n" +
	"Ana Souza\tBackend developer & mentor\thttps://img.example/ana.png\tana@example.com\thttps://www.linkedin.com/in/ana\thttps://github.com/ana\n"

const projectsTSV = "category\ttitle\tsummary\tdescription\timage\ttags\tlink\tsubtitle\trole\tyear\n" +
	"tech\tFeedBot\tA bot\tLong text\thttps://img.example/bot.png\tGo;Rust; C++ ;Zig\thttps://github.com/ana/feedbot\t\t\t2023\n" +
	"edu\tUFMG\tComputer Science\tnull\tnull\t\tnull\tBSc\t\t2019\n" +
	"comm_proj\tMeetup\tLocal meetup\t\t\t\t\tOrganizer\t\t\n" +
	"tech\tSheetSync\tSync tool\t\t\tPython\tnull\t\t\t\n" +
	"comm_net\tGDG\tCommunity\t\t\t\t\t\t\t\n"

const certsTSV = "title\torg\tyear\tlink\n" +
	"Go Developer\tGopherAcademy\t2022\thttps://certs.example/1\n" +
	"Kubernetes\tCNCF\t2023\tnull\n"

// feedHandler serves each feed under /<feed>; a missing body answers 500.
func feedHandler(bodies func() map[Feed]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies()[Feed(strings.TrimPrefix(r.URL.Path, "/"))]
		if !ok {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/tab-separated-values")
		w.Write([]byte(body))
	}
}

func feedServer(t *testing.T, bodies map[Feed]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(feedHandler(func() map[Feed]string { return bodies }))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(feedBase string) *Config {
	return &Config{
		Port:            "0",
		GinMode:         gin.TestMode,
		LogLevel:        "error",
		ProfileFeedURL:  feedBase + "/profile",
		ProjectsFeedURL: feedBase + "/projects",
		CertsFeedURL:    feedBase + "/certs",
		FetchTimeout:    5 * time.Second,
		FallbackImage:   DefaultFallbackImage,
		TitleSuffix:     "Portfólio",
		ScrollLookahead: 200,
		TrackingEnabled: true,
		DatabasePath:    ":memory:",
		AdminUsername:   "root",
		AdminPassword:   "s3cret",
	}
}

func newTestApp(t *testing.T, bodies map[Feed]string) *App {
	t.Helper()
	return newTestAppFor(t, feedServer(t, bodies))
}

func newTestAppFor(t *testing.T, srv *httptest.Server) *App {
	t.Helper()
	app, err := NewApp(testConfig(srv.URL), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func allFeeds() map[Feed]string {
	return map[Feed]string{
		FeedProfile:  profileTSV,
		FeedProjects: projectsTSV,
		FeedCerts:    certsTSV,
	}
}

// stubSource answers from memory; feeds without rows or error come back empty.
type stubSource struct {
	rows map[Feed][]Record
	errs map[Feed]error
}

func (s stubSource) Fetch(_ context.Context, feed Feed) FeedResult {
	if err := s.errs[feed]; err != nil {
		return FeedResult{Feed: feed, Err: err}
	}
	return FeedResult{Feed: feed, rows: s.rows[feed]}
}

var errFeedDown = errors.New("feed down")

func mustParseTSV(t *testing.T, body string) []Record {
	t.Helper()
	rows, err := ParseTSV(strings.NewReader(body))
	require.NoError(t, err)
	return rows
}

func newTestLoader(t *testing.T, src FeedSource) *Loader {
	t.Helper()
	images := NewImageResolver(DefaultFallbackImage)
	tmpl, err := parseTemplates(images)
	require.NoError(t, err)
	return NewLoader(src, tmpl, NewScrollSpy(200, NavLinks), images, "Portfólio", NewMetrics(), zap.NewNop())
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

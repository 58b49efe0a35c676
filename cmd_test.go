package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCommandWritesStandalonePage(t *testing.T) {
	srv := feedServer(t, allFeeds())
	t.Setenv("PROFILE_FEED_URL", srv.URL+"/profile")
	t.Setenv("PROJECTS_FEED_URL", srv.URL+"/projects")
	t.Setenv("CERTS_FEED_URL", srv.URL+"/certs")
	t.Setenv("TRACKING_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	out := filepath.Join(t.TempDir(), "dist", "index.html")
	rootCmd.SetArgs([]string{"render", "--output", out})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	doc := parseDoc(t, string(html))

	assert.Equal(t, "Ana Souza", doc.Find(".logo").Text())
	cards := doc.Find("#tech-grid > article")
	require.Equal(t, 2, cards.Length())
	detail := cards.First().Find("template.card-modal")
	assert.Equal(t, "FeedBot", detail.Find("#modal-title").Text())
	assert.Equal(t, "Long text", detail.Find("#modal-text").Text())
	assert.Equal(t, "UFMG", doc.Find("#edu-timeline template.card-modal #modal-title").Text())

	assert.Equal(t, 0, doc.Find("[hx-get]").Length(), "nothing in the export depends on the server")
	_, static := doc.Find("body").Attr("data-static")
	assert.True(t, static)
	lookahead, _ := doc.Find("ul.nav-links").Attr("data-lookahead")
	assert.Equal(t, "200", lookahead)
}

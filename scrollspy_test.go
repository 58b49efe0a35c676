package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrollSpyCurrent(t *testing.T) {
	spy := NewScrollSpy(200, nil)
	sections := []Section{{"hero", 0}, {"tech", 800}, {"certs", 1600}}

	tests := []struct {
		scrollY int
		want    string
	}{
		{0, "hero"},
		{599, "hero"},
		{600, "tech"},
		{850, "tech"},
		{1399, "tech"},
		{1400, "certs"},
		{5000, "certs"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, spy.Current(sections, tt.scrollY), "scrollY=%d", tt.scrollY)
	}

	assert.Equal(t, "", spy.Current(nil, 850))
	assert.Equal(t, "", spy.Current([]Section{{"late", 3000}}, 100))
}

func TestScrollSpyHighlight(t *testing.T) {
	spy := NewScrollSpy(200, NavLinks)

	links := spy.Highlight("tech")
	require.Len(t, links, len(NavLinks))
	var active []string
	for _, l := range links {
		if l.Active {
			active = append(active, l.Href)
		}
	}
	assert.Equal(t, []string{"#tech"}, active)
	assert.False(t, NavLinks[1].Active, "highlighting must not mutate the configured links")

	// A plain substring match against "" would light up every link; with no
	// current section nothing is highlighted instead.
	for _, l := range spy.Highlight("") {
		assert.False(t, l.Active)
	}
}

func TestScrollSpyView(t *testing.T) {
	spy := NewScrollSpy(150, NavLinks)

	v := spy.View("certs", true)
	assert.True(t, v.Static)
	assert.Equal(t, 150, v.Lookahead)
	require.Len(t, v.Links, len(NavLinks))
	assert.True(t, v.Links[5].Active)

	assert.False(t, spy.View("", false).Static)
}

func TestScrollSpyHighlightMatchesBySubstring(t *testing.T) {
	spy := NewScrollSpy(0, []NavLink{{Href: "/#comm-projects"}, {Href: "#projects"}})
	links := spy.Highlight("projects")
	assert.True(t, links[0].Active)
	assert.True(t, links[1].Active)
}

func TestParseSections(t *testing.T) {
	got, err := ParseSections("hero:0, tech:800.5,certs:1600,")
	require.NoError(t, err)
	assert.Equal(t, []Section{{"hero", 0}, {"tech", 800}, {"certs", 1600}}, got)

	got, err = ParseSections("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseSections("hero")
	assert.Error(t, err)
	_, err = ParseSections("hero:abc")
	assert.Error(t, err)
	_, err = ParseSections(":10")
	assert.Error(t, err)
}

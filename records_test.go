package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust", "C++"}, SplitTags("Go;Rust; C++ "))
	assert.Equal(t, []string{"a", "b"}, SplitTags(";a;; b ;"))
	assert.Empty(t, SplitTags(""))
}

func TestNewProjectRecordDropsSentinels(t *testing.T) {
	rec := NewProjectRecord(Record{
		"category":    " tech ",
		"title":       "FeedBot",
		"description": "null",
		"link":        "null",
		"image":       "",
	})
	assert.Equal(t, CategoryTech, rec.Category)
	assert.Equal(t, "FeedBot", rec.Title)
	assert.Empty(t, rec.Description)
	assert.Empty(t, rec.Link)
	assert.Empty(t, rec.Image)
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"tech", "comm_proj", "edu", "comm_net"} {
		c, ok := ParseCategory(s)
		assert.True(t, ok, s)
		assert.Equal(t, Category(s), c)
	}
	_, ok := ParseCategory("Tech")
	assert.False(t, ok)
}

func TestPartitionProjects(t *testing.T) {
	rows := mustParseTSV(t, projectsTSV+"blog\tStray\tnot a category\t\t\t\t\t\t\t\n")

	p := PartitionProjects(rows)

	require.Len(t, p.Tech, 2)
	assert.Equal(t, "FeedBot", p.Tech[0].Title)
	assert.Equal(t, "SheetSync", p.Tech[1].Title, "feed order is kept inside a category")
	require.Len(t, p.Education, 1)
	assert.Equal(t, "UFMG", p.Education[0].Title)
	require.Len(t, p.CommProjects, 1)
	require.Len(t, p.CommNetworks, 1)

	assert.Equal(t, 1, p.Unknown)
	assert.Equal(t, len(rows)-1, p.Len())
}

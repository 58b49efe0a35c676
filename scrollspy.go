package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Section is a page section's id and its top offset in pixels.
type Section struct {
	ID  string
	Top int
}

type NavLink struct {
	Href   string
	Label  string
	Active bool
}

// ScrollSpy highlights the navigation entry of the section being read.
type ScrollSpy struct {
	Lookahead int
	Links     []NavLink
}

func NewScrollSpy(lookahead int, links []NavLink) *ScrollSpy {
	return &ScrollSpy{Lookahead: lookahead, Links: links}
}

// Current returns the id of the lowest section whose top, less the
// lookahead, has been scrolled past. Sections must be in document order.
func (s *ScrollSpy) Current(sections []Section, scrollY int) string {
	current := ""
	for _, sec := range sections {
		if scrollY >= sec.Top-s.Lookahead {
			current = sec.ID
		}
	}
	return current
}

// Highlight marks every link whose href contains the current section id.
func (s *ScrollSpy) Highlight(current string) []NavLink {
	links := make([]NavLink, len(s.Links))
	for i, l := range s.Links {
		l.Active = current != "" && strings.Contains(l.Href, current)
		links[i] = l
	}
	return links
}

// NavView is what the nav fragment renders. A static nav carries no
// server round trip; the exported page highlights it in the browser using
// the same lookahead.
type NavView struct {
	Links     []NavLink
	Lookahead int
	Static    bool
}

func (s *ScrollSpy) View(current string, static bool) NavView {
	return NavView{Links: s.Highlight(current), Lookahead: s.Lookahead, Static: static}
}

// ParseSections reads the "id:top,id:top" list the page sends on scroll.
func ParseSections(raw string) ([]Section, error) {
	var sections []Section
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.LastIndex(part, ":")
		if i <= 0 {
			return nil, fmt.Errorf("malformed section %q", part)
		}
		top, err := strconv.ParseFloat(part[i+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed offset in %q: %w", part, err)
		}
		sections = append(sections, Section{ID: part[:i], Top: int(top)})
	}
	return sections, nil
}

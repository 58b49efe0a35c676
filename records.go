package main

import "strings"

// Category decides which section a project row is rendered in.
type Category string

const (
	CategoryTech        Category = "tech"
	CategoryCommProject Category = "comm_proj"
	CategoryEducation   Category = "edu"
	CategoryCommNetwork Category = "comm_net"
)

// ParseCategory reports false for anything outside the four known values.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.TrimSpace(s)); c {
	case CategoryTech, CategoryCommProject, CategoryEducation, CategoryCommNetwork:
		return c, true
	}
	return "", false
}

type ProfileRecord struct {
	Name     string
	Bio      string
	Image    string
	Email    string
	LinkedIn string
	GitHub   string
}

func NewProfileRecord(r Record) ProfileRecord {
	return ProfileRecord{
		Name:     r.Optional("name"),
		Bio:      r.Optional("bio"),
		Image:    r.Optional("image"),
		Email:    r.Optional("email"),
		LinkedIn: r.Optional("linkedin"),
		GitHub:   r.Optional("github"),
	}
}

type ProjectRecord struct {
	Category    Category
	Title       string
	Summary     string
	Description string
	Image       string
	Tags        string
	Link        string
	Subtitle    string
	Role        string
	Year        string
}

func NewProjectRecord(r Record) ProjectRecord {
	category, _ := ParseCategory(r["category"])
	return ProjectRecord{
		Category:    category,
		Title:       r.Optional("title"),
		Summary:     r.Optional("summary"),
		Description: r.Optional("description"),
		Image:       r.Optional("image"),
		Tags:        r.Optional("tags"),
		Link:        r.Optional("link"),
		Subtitle:    r.Optional("subtitle"),
		Role:        r.Optional("role"),
		Year:        r.Optional("year"),
	}
}

// TagList splits the tags cell on ";", trimming entries and skipping empty ones.
func (p ProjectRecord) TagList() []string {
	return SplitTags(p.Tags)
}

func SplitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ";") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type CertificateRecord struct {
	Title string
	Org   string
	Year  string
	Link  string
}

func NewCertificateRecord(r Record) CertificateRecord {
	return CertificateRecord{
		Title: r.Optional("title"),
		Org:   r.Optional("org"),
		Year:  r.Optional("year"),
		Link:  r.Optional("link"),
	}
}

// Partition groups project rows by category in one pass, keeping feed
// order. Rows with an unknown category are returned separately.
type Partition struct {
	Tech         []ProjectRecord
	CommProjects []ProjectRecord
	Education    []ProjectRecord
	CommNetworks []ProjectRecord
	Unknown      int
}

func PartitionProjects(rows []Record) Partition {
	var p Partition
	for _, row := range rows {
		rec := NewProjectRecord(row)
		switch rec.Category {
		case CategoryTech:
			p.Tech = append(p.Tech, rec)
		case CategoryCommProject:
			p.CommProjects = append(p.CommProjects, rec)
		case CategoryEducation:
			p.Education = append(p.Education, rec)
		case CategoryCommNetwork:
			p.CommNetworks = append(p.CommNetworks, rec)
		default:
			p.Unknown++
		}
	}
	return p
}

func (p *Partition) Len() int {
	return len(p.Tech) + len(p.CommProjects) + len(p.Education) + len(p.CommNetworks)
}

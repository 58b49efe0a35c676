package main

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/PuerkitoBio/goquery"
)

// cardData is what every modal-opening fragment template receives.
type cardData struct {
	ProjectRecord
	Index int
}

// Renderer turns records into fragments appended to page containers.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer(tmpl *template.Template) *Renderer {
	return &Renderer{tmpl: tmpl}
}

func (r *Renderer) RenderTech(container *goquery.Selection, items []ProjectRecord) error {
	return r.renderCards(container, "tech-card", items)
}

func (r *Renderer) RenderCommProjects(container *goquery.Selection, items []ProjectRecord) error {
	return r.renderCards(container, "comm-project", items)
}

func (r *Renderer) RenderEducation(container *goquery.Selection, items []ProjectRecord) error {
	return r.renderCards(container, "edu-block", items)
}

func (r *Renderer) RenderCommNetworks(container *goquery.Selection, items []ProjectRecord) error {
	return r.renderCards(container, "comm-network", items)
}

func (r *Renderer) RenderCerts(container *goquery.Selection, items []CertificateRecord) error {
	for _, item := range items {
		if err := r.appendFragment(container, "cert-item", item); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderCards(container *goquery.Selection, name string, items []ProjectRecord) error {
	for i, item := range items {
		if err := r.appendFragment(container, name, cardData{ProjectRecord: item, Index: i}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) appendFragment(container *goquery.Selection, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	container.AppendHtml(buf.String())
	return nil
}

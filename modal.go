package main

// ModalView is the content of the project detail overlay.
type ModalView struct {
	Image       string
	Title       string
	Subtitle    string
	Description string
	Tags        []string
	Link        string
}

// NewModalView applies the display fallbacks to a project record. The
// subtitle is the subtitle or role followed by " | year"; with neither, the
// year stands alone rather than behind a dangling separator.
func NewModalView(rec ProjectRecord, images ImageResolver) ModalView {
	subtitle := rec.Subtitle
	if subtitle == "" {
		subtitle = rec.Role
	}
	if rec.Year != "" {
		if subtitle == "" {
			subtitle = rec.Year
		} else {
			subtitle += " | " + rec.Year
		}
	}

	description := rec.Description
	if description == "" {
		description = rec.Summary
	}

	v := ModalView{
		Image:       images.Resolve(rec.Image),
		Title:       rec.Title,
		Subtitle:    subtitle,
		Description: description,
		Tags:        rec.TagList(),
	}
	if provided(rec.Link) {
		v.Link = rec.Link
	}
	return v
}

// Modal is the overlay state: hidden until opened with one record. The page
// carries one opened Modal per card and swaps it in on click, so closing is
// a class toggle in the browser.
type Modal struct {
	Visible bool
	View    ModalView
	images  ImageResolver
}

func NewModal(images ImageResolver) *Modal {
	return &Modal{images: images}
}

// Open shows rec, replacing whatever was on display.
func (m *Modal) Open(rec ProjectRecord) {
	m.View = NewModalView(rec, m.images)
	m.Visible = true
}

// BodyOverflow is the page body's overflow style while in this state.
func (m *Modal) BodyOverflow() string {
	if m.Visible {
		return "hidden"
	}
	return "auto"
}

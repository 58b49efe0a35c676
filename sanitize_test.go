package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafe(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text untouched", "Backend developer", "Backend developer"},
		{"script tag", `<script>alert(1)</script>`, "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"ampersand", "R&D", "R&amp;D"},
		{"quotes", `say "hi" it's`, "say &#34;hi&#34; it&#39;s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Safe(tt.in))
		})
	}
}

func TestSafeIdempotentOnSafeText(t *testing.T) {
	for _, s := range []string{"Go", "Rust and C++", "2023 | Lead", "ção, ü, 東京"} {
		assert.Equal(t, s, Safe(Safe(s)))
	}
}

func TestSafeNeverProducesElements(t *testing.T) {
	inputs := []string{
		`<img src=x onerror=alert(1)>`,
		`<a href="javascript:alert(1)">x</a>`,
		`"><svg onload=alert(1)>`,
		`</div><div class="evil">`,
	}
	for _, in := range inputs {
		doc := parseDoc(t, "<div id=root>"+Safe(in)+"</div>")
		root := doc.Find("#root")
		assert.Equal(t, 0, root.Children().Length(), "input %q materialized markup", in)
		assert.Equal(t, in, root.Text())
	}
}

func TestImageResolver(t *testing.T) {
	r := NewImageResolver("")
	assert.Equal(t, DefaultFallbackImage, r.Fallback)

	for _, ref := range []string{"", "null", "   "} {
		assert.Equal(t, DefaultFallbackImage, r.Resolve(ref), "ref %q", ref)
	}
	for _, ref := range []string{"https://img.example/a.png", "/static/me.jpg", "NULL"} {
		assert.Equal(t, ref, r.Resolve(ref))
	}

	custom := NewImageResolver("/assets/icon.png")
	assert.Equal(t, "/assets/icon.png", custom.Resolve("null"))
}

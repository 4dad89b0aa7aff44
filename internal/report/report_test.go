package report

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit is unchanged", "hello", 10, "hello"},
		{"exact length is unchanged", "hello", 5, "hello"},
		{"longer is cut", "hello world", 5, "hello"},
		{"counts runes not bytes", "äöüß", 2, "äö"},
		{"zero limit", "abc", 0, ""},
		{"empty input", "", 3, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("keeps the first ten images in order", func(t *testing.T) {
		t.Parallel()

		r := &Report{}
		for i := 0; i < 15; i++ {
			r.Images = append(r.Images, Image{Src: fmt.Sprintf("/img/%d.png", i)})
		}
		r.Normalize()

		if len(r.Images) != MaxImages {
			t.Fatalf("expected %d images, got %d", MaxImages, len(r.Images))
		}
		for i, img := range r.Images {
			if want := fmt.Sprintf("/img/%d.png", i); img.Src != want {
				t.Errorf("image %d: expected %s, got %s", i, want, img.Src)
			}
		}
	})

	t.Run("limits body and section text", func(t *testing.T) {
		t.Parallel()

		r := &Report{
			BodyTextExcerpt: strings.Repeat("b", 5000),
			Sections: []Section{
				{Index: 0, TextExcerpt: strings.Repeat("s", 300)},
				{Index: 1, TextExcerpt: "short section"},
			},
		}
		r.Normalize()

		if n := utf8.RuneCountInString(r.BodyTextExcerpt); n != MaxBodyTextRunes {
			t.Errorf("expected body excerpt of %d runes, got %d", MaxBodyTextRunes, n)
		}
		if n := utf8.RuneCountInString(r.Sections[0].TextExcerpt); n != MaxSectionTextRunes {
			t.Errorf("expected section excerpt of %d runes, got %d", MaxSectionTextRunes, n)
		}
		if r.Sections[1].TextExcerpt != "short section" {
			t.Errorf("short section text changed: %q", r.Sections[1].TextExcerpt)
		}
	})

	t.Run("short body text is kept verbatim", func(t *testing.T) {
		t.Parallel()

		r := &Report{BodyTextExcerpt: "Welcome\nConsulting"}
		r.Normalize()
		if r.BodyTextExcerpt != "Welcome\nConsulting" {
			t.Errorf("unexpected body text %q", r.BodyTextExcerpt)
		}
	})

	t.Run("deduplicates custom properties", func(t *testing.T) {
		t.Parallel()

		r := &Report{CSSVars: []string{"--primary", "--accent", "--primary", "color"}}
		r.Normalize()

		want := []string{"--primary", "--accent"}
		if strings.Join(r.CSSVars, ",") != strings.Join(want, ",") {
			t.Errorf("expected %v, got %v", want, r.CSSVars)
		}
	})

	t.Run("nil slices become empty", func(t *testing.T) {
		t.Parallel()

		r := &Report{Forms: []Form{{}}}
		r.Normalize()

		if r.Headings == nil || r.NavLinks == nil || r.Images == nil || r.Sections == nil || r.CSSVars == nil {
			t.Error("expected all slices to be non-nil")
		}
		if r.Forms[0].Fields == nil {
			t.Error("expected form fields to be non-nil")
		}
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"meta": {"title": "Sigloch Consulting", "description": "IT consulting", "lang": "de"},
		"headings": [{"tag": "h1", "text": "Welcome"}, {"tag": "h2", "text": "Services"}],
		"navLinks": [{"text": "Home", "href": "/"}],
		"forms": [],
		"images": [],
		"cssVars": ["--color-primary"],
		"sections": [{"index": 0, "id": null, "classes": "hero", "text": "Welcome"}],
		"bodyText": "Welcome"
	}`)

	r, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if r.Meta.Title != "Sigloch Consulting" {
		t.Errorf("unexpected title %q", r.Meta.Title)
	}
	if r.Meta.Keywords != nil {
		t.Errorf("expected keywords to be absent, got %q", *r.Meta.Keywords)
	}
	if r.Meta.Language == nil || *r.Meta.Language != "de" {
		t.Error("expected language 'de'")
	}
	if len(r.Headings) != 2 || r.Headings[1].Tag != "h2" {
		t.Errorf("unexpected headings %+v", r.Headings)
	}
	if r.Sections[0].ID != nil {
		t.Error("expected null section id")
	}
	if r.Sections[0].Heading != nil {
		t.Error("expected missing section heading")
	}
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`"not an object"`)); err == nil {
		t.Error("expected error for non-object payload")
	}
}

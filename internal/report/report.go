// Package report holds the page analysis report, its normalisation rules and
// the writers that persist and summarise it.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fixed extraction limits, applied after the page has been read.
const (
	MaxImages           = 10
	MaxBodyTextRunes    = 2000
	MaxSectionTextRunes = 200
)

// Report is the structural snapshot of one page.
type Report struct {
	Meta            Meta      `json:"meta"`
	Headings        []Heading `json:"headings"`
	NavLinks        []NavLink `json:"navLinks"`
	Forms           []Form    `json:"forms"`
	Images          []Image   `json:"images"`
	CSSVars         []string  `json:"cssVars"`
	Sections        []Section `json:"sections"`
	BodyTextExcerpt string    `json:"bodyText"`
}

type Meta struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Keywords    *string `json:"keywords,omitempty"`
	Language    *string `json:"lang,omitempty"`
}

type Heading struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

type NavLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type Form struct {
	Action *string     `json:"action"`
	Method *string     `json:"method"`
	Fields []FormField `json:"fields"`
}

type FormField struct {
	Type        string  `json:"type"`
	Name        *string `json:"name,omitempty"`
	Placeholder *string `json:"placeholder,omitempty"`
	Required    bool    `json:"required"`
}

type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type Section struct {
	Index       int     `json:"index"`
	ID          *string `json:"id"`
	Classes     string  `json:"classes"`
	Heading     *string `json:"heading,omitempty"`
	TextExcerpt string  `json:"text"`
}

// Decode parses the JSON value produced by the in-page extraction script and
// normalises it.
func Decode(raw []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	r.Normalize()
	return &r, nil
}

// Normalize applies the fixed limits, removes duplicate custom properties and
// replaces nil slices with empty ones so they serialise as [].
func (r *Report) Normalize() {
	if len(r.Images) > MaxImages {
		r.Images = r.Images[:MaxImages]
	}
	r.BodyTextExcerpt = Truncate(r.BodyTextExcerpt, MaxBodyTextRunes)
	for i := range r.Sections {
		r.Sections[i].TextExcerpt = Truncate(r.Sections[i].TextExcerpt, MaxSectionTextRunes)
	}
	r.CSSVars = uniqueCustomProperties(r.CSSVars)

	if r.Headings == nil {
		r.Headings = []Heading{}
	}
	if r.NavLinks == nil {
		r.NavLinks = []NavLink{}
	}
	if r.Forms == nil {
		r.Forms = []Form{}
	}
	for i := range r.Forms {
		if r.Forms[i].Fields == nil {
			r.Forms[i].Fields = []FormField{}
		}
	}
	if r.Images == nil {
		r.Images = []Image{}
	}
	if r.Sections == nil {
		r.Sections = []Section{}
	}
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func uniqueCustomProperties(props []string) []string {
	out := make([]string, 0, len(props))
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if !strings.HasPrefix(p, "--") {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"SiglochWebsite/internal/report"
)

// Selector groups shared with Script.
var (
	headingSel        = cascadia.MustCompile("h1, h2, h3, h4, h5, h6")
	navLinkSel        = cascadia.MustCompile("nav a, header a")
	formSel           = cascadia.MustCompile("form")
	fieldSel          = cascadia.MustCompile("input, textarea, select")
	imageSel          = cascadia.MustCompile("img")
	styleSel          = cascadia.MustCompile("style")
	sectionSel        = cascadia.MustCompile("section, .section, main > div")
	sectionHeadingSel = cascadia.MustCompile("h1, h2, h3")
)

// FromHTML parses an HTML document and extracts the same report the in-page
// script produces. base, when non-nil, resolves relative image sources.
func FromHTML(r io.Reader, base *url.URL) (*report.Report, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromDocument(doc, base), nil
}

// FromDocument extracts a normalised report from an already parsed document.
func FromDocument(doc *goquery.Document, base *url.URL) *report.Report {
	r := &report.Report{
		Meta:     extractMeta(doc),
		Headings: []report.Heading{},
		NavLinks: []report.NavLink{},
		Forms:    []report.Form{},
		Images:   []report.Image{},
		CSSVars:  []string{},
		Sections: []report.Section{},
	}

	doc.FindMatcher(headingSel).Each(func(_ int, s *goquery.Selection) {
		r.Headings = append(r.Headings, report.Heading{
			Tag:  goquery.NodeName(s),
			Text: innerText(s),
		})
	})

	doc.FindMatcher(navLinkSel).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		r.NavLinks = append(r.NavLinks, report.NavLink{Text: innerText(s), Href: href})
	})

	doc.FindMatcher(formSel).Each(func(_ int, s *goquery.Selection) {
		form := report.Form{
			Action: attrPtr(s, "action"),
			Method: attrPtr(s, "method"),
			Fields: []report.FormField{},
		}
		s.FindMatcher(fieldSel).Each(func(_ int, f *goquery.Selection) {
			form.Fields = append(form.Fields, extractField(f))
		})
		r.Forms = append(r.Forms, form)
	})

	doc.FindMatcher(imageSel).Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		r.Images = append(r.Images, report.Image{Src: resolve(base, src), Alt: alt})
	})

	// Only inline <style> sheets are readable offline; linked sheets are
	// skipped the same way the browser skips cross-origin ones.
	doc.FindMatcher(styleSel).Each(func(_ int, s *goquery.Selection) {
		r.CSSVars = append(r.CSSVars, RootCustomProperties(s.Text())...)
	})

	doc.FindMatcher(sectionSel).Each(func(i int, s *goquery.Selection) {
		sec := report.Section{
			Index:       i,
			Classes:     s.AttrOr("class", ""),
			TextExcerpt: innerText(s),
		}
		if id := s.AttrOr("id", ""); id != "" {
			sec.ID = &id
		}
		if h := s.FindMatcher(sectionHeadingSel).First(); h.Length() > 0 {
			text := innerText(h)
			sec.Heading = &text
		}
		r.Sections = append(r.Sections, sec)
	})

	r.BodyTextExcerpt = innerText(doc.Find("body"))

	r.Normalize()
	return r
}

func extractMeta(doc *goquery.Document) report.Meta {
	m := report.Meta{
		Title: strings.Join(strings.Fields(doc.Find("title").First().Text()), " "),
	}
	if s := doc.Find(`meta[name="description"]`).First(); s.Length() > 0 {
		v := s.AttrOr("content", "")
		m.Description = &v
	}
	if s := doc.Find(`meta[name="keywords"]`).First(); s.Length() > 0 {
		v := s.AttrOr("content", "")
		m.Keywords = &v
	}
	if lang := doc.Find("html").AttrOr("lang", ""); lang != "" {
		m.Language = &lang
	}
	return m
}

// inputTypes are the type keywords the DOM reflects; anything else reads as "text".
var inputTypes = map[string]bool{
	"button": true, "checkbox": true, "color": true, "date": true,
	"datetime-local": true, "email": true, "file": true, "hidden": true,
	"image": true, "month": true, "number": true, "password": true,
	"radio": true, "range": true, "reset": true, "search": true,
	"submit": true, "tel": true, "text": true, "time": true,
	"url": true, "week": true,
}

// extractField mirrors the DOM type/name/placeholder/required properties.
func extractField(f *goquery.Selection) report.FormField {
	field := report.FormField{}
	_, field.Required = f.Attr("required")

	switch goquery.NodeName(f) {
	case "textarea":
		field.Type = "textarea"
	case "select":
		field.Type = "select-one"
		if _, multiple := f.Attr("multiple"); multiple {
			field.Type = "select-multiple"
		}
	default:
		field.Type = strings.ToLower(strings.TrimSpace(f.AttrOr("type", "")))
		if !inputTypes[field.Type] {
			field.Type = "text"
		}
	}

	if name := f.AttrOr("name", ""); name != "" {
		field.Name = &name
	}
	if goquery.NodeName(f) != "select" {
		placeholder := f.AttrOr("placeholder", "")
		field.Placeholder = &placeholder
	}
	return field
}

func attrPtr(s *goquery.Selection, name string) *string {
	v, ok := s.Attr(name)
	if !ok {
		return nil
	}
	return &v
}

func resolve(base *url.URL, ref string) string {
	if base == nil || ref == "" {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// hiddenElements never contribute rendered text.
var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Title:    true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Details: true, atom.Dialog: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// innerText approximates the rendered text of the first node in s: hidden
// elements are dropped, block elements and <br> break lines, whitespace is
// collapsed within each line and blank lines are removed.
func innerText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if hiddenElements[n.DataAtom] {
				return
			}
			if _, hidden := attr(n, "hidden"); hidden {
				return
			}
			if n.DataAtom == atom.Br {
				b.WriteByte('\n')
				return
			}
		}

		block := n.Type == html.ElementNode && blockElements[n.DataAtom]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(s.Get(0))

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"SiglochWebsite/internal/report"
)

func chromePath(t *testing.T) string {
	t.Helper()

	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome/Chromium binary available")
	return ""
}

// TestRunAgainstBrowser exercises the in-page script on a real DOM. The
// stylesheet served from a second origin is unreadable and must be skipped.
func TestRunAgainstBrowser(t *testing.T) {
	chromeBin := chromePath(t)

	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = io.WriteString(w, ":root { --foreign-color: red; }")
	}))
	t.Cleanup(foreign.Close)

	var images strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&images, `<img src="/img/%d.png" alt="Bild %d">`, i, i)
	}
	page := `<!DOCTYPE html><html lang="de"><head>
		<title>Sigloch Consulting</title>
		<meta name="description" content="IT-Beratung">
		<link rel="stylesheet" href="` + foreign.URL + `/theme.css">
		<style>:root { --color-primary: #0a3d62; }</style>
	</head><body>
		<header><nav><a href="/">Home</a><a href="/blog">Blog</a></nav></header>
		<main>
			<div class="hero"><h1>Willkommen</h1></div>
			<section id="about" class="section"><h2>Über uns</h2><p>` + strings.Repeat("Text ", 100) + `</p></section>
		</main>
		<h3>Kontakt</h3>
		` + images.String() + `
	</body></html>`

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/img/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, page)
	}))
	t.Cleanup(site.Close)

	cfg := testConfig(t)
	cfg.TargetURL = site.URL
	cfg.ChromePath = chromeBin
	cfg.NavigationTimeout = 20 * time.Second

	a := New(cfg, WithOutput(io.Discard), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	rep, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantHeadings := []report.Heading{{Tag: "h1", Text: "Willkommen"}, {Tag: "h2", Text: "Über uns"}, {Tag: "h3", Text: "Kontakt"}}
	if len(rep.Headings) != len(wantHeadings) {
		t.Fatalf("expected %d headings, got %+v", len(wantHeadings), rep.Headings)
	}
	for i, h := range wantHeadings {
		if rep.Headings[i] != h {
			t.Errorf("heading %d: expected %+v, got %+v", i, h, rep.Headings[i])
		}
	}

	if len(rep.Images) != report.MaxImages {
		t.Errorf("expected %d images, got %d", report.MaxImages, len(rep.Images))
	}
	if len(rep.Forms) != 0 || rep.Forms == nil {
		t.Errorf("expected empty forms slice, got %#v", rep.Forms)
	}
	if strings.Join(rep.CSSVars, ",") != "--color-primary" {
		t.Errorf("expected only same-origin custom properties, got %v", rep.CSSVars)
	}
	if len(rep.Sections) != 2 || rep.Sections[1].ID == nil || *rep.Sections[1].ID != "about" {
		t.Fatalf("unexpected sections %+v", rep.Sections)
	}
	if n := utf8.RuneCountInString(rep.Sections[1].TextExcerpt); n > report.MaxSectionTextRunes {
		t.Errorf("section excerpt has %d runes", n)
	}
	if rep.Meta.Description == nil || *rep.Meta.Description != "IT-Beratung" {
		t.Error("expected description meta")
	}
}

package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders the summary as Markdown tables.
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

func (w *MarkdownWriter) WriteSummary(r *Report) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Website Analysis")
	md.PlainText("")

	md.H2("Meta Information")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Title", cell(r.Meta.Title)},
			{"Description", cell(deref(r.Meta.Description))},
			{"Keywords", cell(deref(r.Meta.Keywords))},
			{"Language", cell(deref(r.Meta.Language))},
		},
	})
	md.PlainText("")

	md.H2("Navigation Links")
	md.PlainText("")
	if len(r.NavLinks) == 0 {
		md.PlainText("No navigation links found.")
	} else {
		rows := make([][]string, 0, len(r.NavLinks))
		for _, l := range r.NavLinks {
			rows = append(rows, []string{cell(l.Text), cell(l.Href)})
		}
		md.Table(markdown.TableSet{Header: []string{"Text", "Href"}, Rows: rows})
	}
	md.PlainText("")

	md.H2("Page Headings")
	md.PlainText("")
	if len(r.Headings) == 0 {
		md.PlainText("No headings found.")
	} else {
		items := make([]string, 0, len(r.Headings))
		for _, h := range r.Headings {
			items = append(items, strings.ToUpper(h.Tag)+": "+h.Text)
		}
		md.BulletList(items...)
	}
	md.PlainText("")

	md.H2("Sections")
	md.PlainText("")
	if len(r.Sections) == 0 {
		md.PlainText("No sections found.")
	} else {
		rows := make([][]string, 0, len(r.Sections))
		for _, s := range r.Sections {
			rows = append(rows, []string{
				strconv.Itoa(s.Index),
				cell(deref(s.ID)),
				cell(s.Classes),
				cell(deref(s.Heading)),
			})
		}
		md.Table(markdown.TableSet{Header: []string{"#", "ID", "Classes", "Heading"}, Rows: rows})
	}
	md.PlainText("")

	md.H2("Forms")
	md.PlainText("")
	if len(r.Forms) == 0 {
		md.PlainText("No forms found.")
	} else {
		rows := make([][]string, 0)
		for i, f := range r.Forms {
			for _, field := range f.Fields {
				rows = append(rows, []string{
					strconv.Itoa(i),
					cell(deref(f.Action)),
					cell(deref(f.Method)),
					field.Type,
					cell(deref(field.Name)),
					strconv.FormatBool(field.Required),
				})
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Form", "Action", "Method", "Field type", "Name", "Required"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	return md.Build()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// cell flattens s for use inside a table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "|", `\|`)
	if s == "" {
		return "-"
	}
	return s
}

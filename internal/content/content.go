// Package content validates the Markdown blog collection the static site is
// built from. Each post starts with a YAML frontmatter block:
//
//	---
//	title: Cloud-Migration ohne Stillstand
//	description: Wie wir Bestandssysteme schrittweise migrieren
//	pubDate: 2024-03-18
//	tags: [cloud, migration]
//	---
//
// title, description and pubDate are required; author defaults to
// DefaultAuthor, tags to an empty list and draft to false.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAuthor is used when a post does not name its author.
const DefaultAuthor = "Andreas Sigloch"

// DefaultDir is the blog collection relative to the site root.
const DefaultDir = "src/content/blog"

var (
	// ErrNoFrontmatter is returned when a file does not open with a --- block.
	ErrNoFrontmatter = errors.New("missing frontmatter block")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField is returned when a field has the wrong type.
	ErrInvalidField = errors.New("invalid field")
)

// Post is one validated entry of the blog collection.
type Post struct {
	Slug        string
	Title       string
	Description string
	PubDate     time.Time
	Author      string
	Image       *string
	Tags        []string
	Draft       bool
	Body        string
}

// frontmatter uses pointers so absent keys can be told apart from zero values.
type frontmatter struct {
	Title       *string
	Description *string
	PubDate     *time.Time
	Author      *string
	Image       *string
	Tags        []string
	Draft       *bool
}

var delimiter = []byte("---")

// Parse validates one Markdown document and applies the schema defaults.
func Parse(slug string, data []byte) (*Post, error) {
	head, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	fm, err := decodeFrontmatter(head)
	if err != nil {
		return nil, err
	}

	var missing []string
	if fm.Title == nil {
		missing = append(missing, "title")
	}
	if fm.Description == nil {
		missing = append(missing, "description")
	}
	if fm.PubDate == nil {
		missing = append(missing, "pubDate")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	post := &Post{
		Slug:        slug,
		Title:       *fm.Title,
		Description: *fm.Description,
		PubDate:     *fm.PubDate,
		Author:      DefaultAuthor,
		Image:       fm.Image,
		Tags:        fm.Tags,
		Body:        string(body),
	}
	if fm.Author != nil {
		post.Author = *fm.Author
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if fm.Draft != nil {
		post.Draft = *fm.Draft
	}
	return post, nil
}

// decodeFrontmatter walks the YAML mapping node by node. Decoding straight
// into a struct would coerce any scalar into a string and treat null as absent.
func decodeFrontmatter(head []byte) (*frontmatter, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(head, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	fm := &frontmatter{}
	if len(doc.Content) == 0 {
		return fm, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: frontmatter is not a mapping", ErrInvalidField)
	}

	var err error
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, resolveAlias(root.Content[i+1])
		switch key {
		case "title":
			fm.Title, err = stringField(key, val)
		case "description":
			fm.Description, err = stringField(key, val)
		case "author":
			fm.Author, err = stringField(key, val)
		case "image":
			fm.Image, err = stringField(key, val)
		case "pubDate":
			fm.PubDate, err = dateField(key, val)
		case "tags":
			fm.Tags, err = stringListField(key, val)
		case "draft":
			fm.Draft, err = boolField(key, val)
		}
		if err != nil {
			return nil, err
		}
	}
	return fm, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func invalid(key string, n *yaml.Node, want string) error {
	return fmt.Errorf("%w: %s must be %s, got %s at line %d", ErrInvalidField, key, want, n.ShortTag(), n.Line)
}

func stringField(key string, n *yaml.Node) (*string, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return nil, invalid(key, n, "a string")
	}
	v := n.Value
	return &v, nil
}

func stringListField(key string, n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(key, n, "a list of strings")
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			return nil, invalid(key, item, "a list of strings")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func dateField(key string, n *yaml.Node) (*time.Time, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!timestamp" {
		return nil, invalid(key, n, "a date")
	}
	var t time.Time
	if err := n.Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidField, key, err)
	}
	return &t, nil
}

func boolField(key string, n *yaml.Node) (*bool, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return nil, invalid(key, n, "a boolean")
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidField, key, err)
	}
	return &b, nil
}

func splitFrontmatter(data []byte) (head, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	first, rest, ok := bytes.Cut(data, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimSpace(first), delimiter) {
		return nil, nil, ErrNoFrontmatter
	}

	for off := 0; off <= len(rest); {
		line, _, _ := bytes.Cut(rest[off:], []byte("\n"))
		if bytes.Equal(bytes.TrimSpace(line), delimiter) {
			end := off + len(line)
			if end < len(rest) {
				end++
			}
			return rest[:off], rest[end:], nil
		}
		if off+len(line) >= len(rest) {
			break
		}
		off += len(line) + 1
	}
	return nil, nil, fmt.Errorf("%w: no closing ---", ErrNoFrontmatter)
}

// Collection is the outcome of loading a blog directory.
type Collection struct {
	Posts []*Post
	// Invalid holds one error per rejected file, prefixed with its path.
	Invalid []error
}

// Err joins the per-file errors, or returns nil when every post is valid.
func (c *Collection) Err() error {
	return errors.Join(c.Invalid...)
}

// LoadCollection parses every .md and .mdx file below dir. Invalid files do
// not stop the walk; an error is returned only when dir cannot be read.
func LoadCollection(dir string) (*Collection, error) {
	c := &Collection{}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".mdx" {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		slug := filepath.ToSlash(strings.TrimSuffix(rel, ext))

		data, err := os.ReadFile(path) //nolint:gosec // collection paths come from the site tree
		if err != nil {
			c.Invalid = append(c.Invalid, fmt.Errorf("%s: %w", rel, err))
			return nil
		}
		post, err := Parse(slug, data)
		if err != nil {
			c.Invalid = append(c.Invalid, fmt.Errorf("%s: %w", rel, err))
			return nil
		}
		c.Posts = append(c.Posts, post)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("read collection %s: %w", dir, walkErr)
	}

	return c, nil
}

// Published returns the posts that are not drafts, preserving order.
func Published(posts []*Post) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if !p.Draft {
			out = append(out, p)
		}
	}
	return out
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"SiglochWebsite/internal/content"
	"SiglochWebsite/internal/logging"
)

// ErrInvalidContent is returned when at least one post fails validation.
var ErrInvalidContent = errors.New("invalid content")

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contentcheck [dir]",
		Short: "Validate blog posts against the content schema",
		Long: `contentcheck parses every .md and .mdx file in the blog collection
(default: ` + content.DefaultDir + `) and checks its frontmatter:

  title        string, required
  description  string, required
  pubDate      date, required
  author       string, default "` + content.DefaultAuthor + `"
  image        string, optional
  tags         list of strings, default []
  draft        bool, default false`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCheck,
	}

	cmd.Flags().Bool("drafts", true, "Include drafts in the listing")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.Flags().String("log-format", "text", "Log format: text or json")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logFormat, _ := cmd.Flags().GetString("log-format")
	level := "info"
	if verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level, logFormat)
	slog.SetDefault(logger)

	dir := content.DefaultDir
	if len(args) == 1 {
		dir = args[0]
	}
	logger.Debug("checking collection", "dir", dir)

	c, err := content.LoadCollection(dir)
	if err != nil {
		return err
	}
	for _, e := range c.Invalid {
		logger.Error("invalid post", "error", e)
	}
	posts, invalid := c.Posts, len(c.Invalid)

	includeDrafts, _ := cmd.Flags().GetBool("drafts")
	listed := posts
	if !includeDrafts {
		listed = content.Published(posts)
	}

	out := cmd.OutOrStdout()
	for _, p := range listed {
		line := fmt.Sprintf("%s  %-40s  %s", p.PubDate.Format("2006-01-02"), p.Slug, p.Title)
		if p.Draft {
			line += "  [draft]"
		}
		if len(p.Tags) > 0 {
			line += "  #" + strings.Join(p.Tags, " #")
		}
		fmt.Fprintln(out, line)
	}
	logger.Info("collection checked", "dir", dir, "valid", len(posts), "invalid", invalid)

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d posts failed validation", ErrInvalidContent, invalid, invalid+len(posts))
	}
	return nil
}

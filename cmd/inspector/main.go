// Command inspector loads the site in a headless browser and records its
// structure: headings, navigation, forms, images, theme custom properties and
// sections. It writes a full-page screenshot and a JSON report and prints a
// summary.
//
// Usage:
//
//	inspector                      # inspect https://siglochconsulting.de
//	inspector --url https://staging.siglochconsulting.de --summary markdown
//	inspector parse dist/index.html --base-url https://siglochconsulting.de
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

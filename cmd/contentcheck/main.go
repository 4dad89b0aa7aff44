// Command contentcheck validates the Markdown blog collection against the
// content schema and lists the posts it accepted.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("content check failed", "error", err)
		os.Exit(1)
	}
}

// Package cmd implements the cfo command line application.
package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/journal"
	"github.com/etnz/cryptofolio/persist"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "cfo.yaml", "Path to the YAML configuration file")
	outputDir  = flag.String("dir", "", "Directory of the portfolio files. Overrides output_dir from the configuration.")
	Verbose    = flag.Bool("v", false, "Log every exchange request")
)

// Commands lists every cfo subcommand.
var Commands = []subcommands.Command{
	&updateCmd{},
	&summaryCmd{},
	&historyCmd{},
	&convertCmd{},
	&assistCmd{},
	&topicCmd{},
}

// loadConfig loads the configuration file and applies the global flags.
func loadConfig() (cryptofolio.Config, error) {
	cfg, err := cryptofolio.LoadConfig(*configFile)
	if err != nil {
		return cfg, err
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	return cfg, nil
}

// openStore returns the store of the portfolio files.
func openStore(cfg cryptofolio.Config) *persist.Store {
	return persist.New(cfg.OutputDir, cfg.ReplaceExisting)
}

// openJournal opens the run journal. It returns nil if none is configured.
// A relative journal path is relative to the output directory.
func openJournal(cfg cryptofolio.Config) (*journal.Journal, error) {
	if cfg.JournalPath == "" {
		return nil, nil
	}
	path := cfg.JournalPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.OutputDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return journal.Open(path)
}

// renderMarkdown formats markdown for the terminal. It returns md unchanged if it cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printMarkdown prints markdown to the terminal.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// markdownHTML converts markdown into a standalone HTML page.
func markdownHTML(title, md string) ([]byte, error) {
	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert([]byte(md), &body); err != nil {
		return nil, err
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

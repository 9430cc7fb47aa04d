package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestMarkdownHTML(t *testing.T) {
	md := "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	page, err := markdownHTML("Crypto Portfolio", md)
	if err != nil {
		t.Fatalf("markdownHTML() failed: %v", err)
	}
	got := string(page)
	for _, want := range []string{"<title>Crypto Portfolio</title>", "<h1>Title</h1>", "<table>", "<td>1</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdownHTML() does not contain %q:\n%s", want, got)
		}
	}
}

func TestCommandNamesAreUnique(t *testing.T) {
	var names []string
	for _, c := range Commands {
		if slices.Contains(names, c.Name()) {
			t.Errorf("command %q is registered twice", c.Name())
		}
		names = append(names, c.Name())
		c.SetFlags(flag.NewFlagSet(c.Name(), flag.ContinueOnError))
	}
}

func TestOpenJournal(t *testing.T) {
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	cfg.OutputDir = t.TempDir()

	j, err := openJournal(cfg)
	if err != nil || j != nil {
		t.Fatalf("openJournal() without journal_path = %v, %v, want nil, nil", j, err)
	}

	cfg.JournalPath = filepath.Join("db", "cfo.db")
	j, err = openJournal(cfg)
	if err != nil {
		t.Fatalf("openJournal() failed: %v", err)
	}
	defer j.Close()
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "db", "cfo.db")); err != nil {
		t.Errorf("journal is not relative to the output directory: %v", err)
	}
}

func TestExtensionEnv(t *testing.T) {
	old := *Verbose
	*Verbose = true
	defer func() { *Verbose = old }()

	env := extensionEnv()
	for _, want := range []string{EnvConfigFile + "=cfo.yaml", EnvVerbose + "=true"} {
		if !slices.Contains(env, want) {
			t.Errorf("extensionEnv() does not contain %q", want)
		}
	}
}

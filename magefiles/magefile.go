//go:build mage

// Package main contains Mage build targets for biokg-search developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories populate and api expect.
var projectDirs = []string{
	"data",
	"data/json_output",
}

// Init creates the data directory layout.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Data directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "biokg-search"
	cmdPkg  = "./cmd/biokg-search"
)

// Build compiles the CLI binary into bin/. The sqlite driver needs cgo and
// the fts5 build tag.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWithV(env, "go", "build", "-tags", "sqlite_fts5",
		"-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the fts5 tag the knowledge graph needs.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"},
		"go", "test", "-tags", "sqlite_fts5", "-race", "./...")
}

// Populate builds the binary and loads data/json_output into the graph.
func Populate() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "populate")
}

// API builds the binary and serves the search API.
func API() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "api")
}

// Serve builds the binary and serves the search page.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}

// Stats prints non-blank Go lines (production and test) and the word count
// of Markdown and YAML files, skipping hidden and underscore directories.
func Stats() error {
	var st stats
	if err := filepath.WalkDir(".", st.visit); err != nil {
		return err
	}
	fmt.Printf("Go lines (production): %d\n", st.prodLines)
	fmt.Printf("Go lines (tests):      %d\n", st.testLines)
	fmt.Printf("Words (docs):          %d\n", st.docWords)
	return nil
}

type stats struct {
	prodLines, testLines, docWords int
}

func (st *stats) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		return err
	}
	if d.IsDir() {
		if name := d.Name(); path != "." && (name[0] == '.' || name[0] == '_') {
			return filepath.SkipDir
		}
		return nil
	}

	switch filepath.Ext(path) {
	case ".go":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := nonBlankLines(data)
		if strings.HasSuffix(path, "_test.go") {
			st.testLines += n
		} else {
			st.prodLines += n
		}
	case ".md", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		st.docWords += len(bytes.Fields(data))
	}
	return nil
}

func nonBlankLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}

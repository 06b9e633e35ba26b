// marblecat prints marble diagrams as frame-by-frame timelines.
// Install it with `go install github.com/toejough/marbles/marblecat@latest` and pass diagrams as arguments:
//
//	marblecat --values a=hello b=world -- '--a--b--|'
//
// or list named diagrams in a YAML file and pass `--config <file>`. With `--simulate` each diagram is played as a cold
// source on a virtual scheduler; `--verbose` traces every scheduled and fired action to stderr.
package main

import (
	"fmt"
	"os"

	"github.com/toejough/marbles/marblecat/run"
)

// main is the entry point of the marblecat tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, &realFileSystem{}, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

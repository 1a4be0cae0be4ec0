// Package inventory lists the files under a data directory for the smoke test.
package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
)

// MaxExamples is how many file names the summary lists.
const MaxExamples = 10

// Inventory is the sorted list of file basenames found under a directory.
type Inventory struct {
	Dir   string
	Files []string
	Bytes uint64
}

// Summary is the single row written by the smoke test.
type Summary struct {
	NFiles   int    `csv:"n_files_in_data"`
	Examples string `csv:"example_files"`
}

// Scan walks dir recursively and collects every regular file, including
// files reached through a symlink. A missing
// directory is not an error: it yields an empty inventory.
func Scan(dir string) (*Inventory, error) {
	inv := &Inventory{Dir: dir}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Stat follows symlinks; dangling links are skipped
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		inv.Files = append(inv.Files, d.Name())
		inv.Bytes += uint64(info.Size())
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] data directory %s does not exist", dir)
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(inv.Files)
	log.Printf("Found %d files (%s) under %s", len(inv.Files), humanize.Bytes(inv.Bytes), dir)
	return inv, nil
}

// Summary reports the file count and the first MaxExamples names.
func (inv *Inventory) Summary() Summary {
	examples := inv.Files
	if len(examples) > MaxExamples {
		examples = examples[:MaxExamples]
	}
	return Summary{NFiles: len(inv.Files), Examples: strings.Join(examples, ", ")}
}

// WriteCSV writes the one-row summary to path, creating the parent directory.
func (s Summary) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary %s: %w", path, err)
	}
	rows := []Summary{s}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return f.Close()
}

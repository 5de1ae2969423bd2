package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

const sourceExtension = ".zen"

func fmtCommand(c *cli.Context) error {
	targets := c.Args().Slice()
	if len(targets) == 0 {
		return fmt.Errorf("zen fmt: path required")
	}
	write := c.Bool("write")
	check := c.Bool("check")

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	changed := 0
	for _, path := range files {
		original, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		formatted := formatSource(string(original))
		if formatted == string(original) {
			if !write && !check {
				fmt.Fprint(c.App.Writer, formatted)
			}
			continue
		}
		changed++

		switch {
		case write:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case check:
			fmt.Fprintln(c.App.Writer, path)
		default:
			fmt.Fprint(c.App.Writer, formatted)
		}
	}

	if check && changed > 0 {
		return fmt.Errorf("zen fmt: %d file(s) need formatting", changed)
	}
	return nil
}

func collectSourceFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if filepath.Ext(path) != sourceExtension {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			add(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatSource normalizes line endings, strips trailing blanks and ends the
// file with exactly one newline.
func formatSource(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

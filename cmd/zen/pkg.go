package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

const packageFile = "package.yaml"

type packageMeta struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Installed bool   `yaml:"installed"`
}

func packageArg(c *cli.Context) (string, error) {
	name := c.Args().First()
	if name == "" {
		return "", fmt.Errorf("%s: package name required", c.Command.Name)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid package name %q", name)
	}
	return name, nil
}

func installCommand(c *cli.Context) error {
	name, err := packageArg(c)
	if err != nil {
		return err
	}
	cfg, err := configure(c)
	if err != nil {
		return err
	}
	dir := filepath.Join(cfg.PackageDir, name)
	if _, err := os.Stat(dir); err == nil {
		fmt.Fprintf(c.App.Writer, "Package '%s' already installed\n", name)
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(packageMeta{Name: name, Version: zen.Version, Installed: true})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, packageFile), data, 0o644); err != nil {
		return err
	}
	cfg.Logger.Info().Str("package", name).Str("dir", dir).Msg("package installed")
	fmt.Fprintf(c.App.Writer, "✓ Installed package: %s\n", name)
	return nil
}

func removeCommand(c *cli.Context) error {
	name, err := packageArg(c)
	if err != nil {
		return err
	}
	cfg, err := configure(c)
	if err != nil {
		return err
	}
	dir := filepath.Join(cfg.PackageDir, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(c.App.Writer, "Package '%s' not installed\n", name)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	cfg.Logger.Info().Str("package", name).Msg("package removed")
	fmt.Fprintf(c.App.Writer, "✓ Removed package: %s\n", name)
	return nil
}

func listCommand(c *cli.Context) error {
	cfg, err := configure(c)
	if err != nil {
		return err
	}
	names, err := installedPackages(cfg.PackageDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(c.App.Writer, "No packages installed")
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Installed packages:")
	for _, name := range names {
		fmt.Fprintf(c.App.Writer, "  - %s\n", name)
	}
	return nil
}

func installedPackages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

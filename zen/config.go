package zen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/log"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the name of the optional per-project configuration file.
const ProjectFile = "zen.yaml"

// FileConfig mirrors the keys accepted in zen.yaml.
type FileConfig struct {
	RecursionLimit int      `yaml:"recursion_limit"`
	StepQuota      int      `yaml:"step_quota"`
	ScriptPaths    []string `yaml:"script_paths"`
	PackageDir     string   `yaml:"package_dir"`
	LogLevel       string   `yaml:"log_level"`
}

// LoadConfig reads a project file. A missing file yields the zero
// FileConfig; unknown keys are an error. Relative script paths resolve
// against the file's directory.
func LoadConfig(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("%s: %w", path, err)
	}
	if fc.RecursionLimit < 0 {
		return fc, fmt.Errorf("%s: recursion_limit must be positive", path)
	}
	if fc.StepQuota < 0 {
		return fc, fmt.Errorf("%s: step_quota must not be negative", path)
	}

	base := filepath.Dir(path)
	for i, p := range fc.ScriptPaths {
		if !filepath.IsAbs(p) {
			fc.ScriptPaths[i] = filepath.Join(base, p)
		}
	}
	if strings.HasPrefix(fc.PackageDir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			fc.PackageDir = filepath.Join(home, fc.PackageDir[2:])
		}
	}
	return fc, nil
}

// Apply copies the file settings that are set onto cfg.
func (fc FileConfig) Apply(cfg *Config) {
	if fc.RecursionLimit > 0 {
		cfg.RecursionLimit = fc.RecursionLimit
	}
	if fc.StepQuota > 0 {
		cfg.StepQuota = fc.StepQuota
	}
	cfg.ScriptPaths = append(cfg.ScriptPaths, fc.ScriptPaths...)
	if fc.PackageDir != "" {
		cfg.PackageDir = fc.PackageDir
	}
}

// NewLogger builds a leveled logger writing to w. An empty level means warn.
func NewLogger(level string, w io.Writer) *log.Logger {
	lvl := log.WarnLevel
	if level != "" {
		lvl = log.ParseLevel(strings.ToLower(level))
	}
	return &log.Logger{Level: lvl, Writer: &log.IOWriter{Writer: w}}
}

package zen

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const scriptExtension = ".zen"

func (in *Interpreter) loadInclude(inc *Include) error {
	if strings.Contains(inc.Package, "/") {
		return in.includeScript(inc)
	}
	return in.includePackage(inc)
}

// scriptCandidates lists, in order, where a path-like include may live:
// the working directory, the including script's directory, then each
// configured script path.
func (in *Interpreter) scriptCandidates(name string) []string {
	file := name + scriptExtension
	if filepath.IsAbs(file) {
		return []string{file}
	}
	candidates := []string{file}
	if dir := in.currentScriptDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, file))
	}
	for _, root := range in.config.ScriptPaths {
		candidates = append(candidates, filepath.Join(root, file))
	}

	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := filepath.Clean(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (in *Interpreter) currentScriptDir() string {
	if n := len(in.includeStack); n > 0 {
		return filepath.Dir(in.includeStack[n-1])
	}
	return in.scriptDir
}

func (in *Interpreter) includeScript(inc *Include) error {
	candidates := in.scriptCandidates(inc.Package)
	var found string
	for _, path := range candidates {
		in.log.Debug().Str("include", inc.Package).Str("candidate", path).Msg("resolving include")
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			found = path
			break
		}
	}
	if found == "" {
		return in.errorAt(ErrImport, inc.position, "script not found: %s%s (tried: %s)",
			inc.Package, scriptExtension, strings.Join(candidates, ", "))
	}

	abs, err := filepath.Abs(found)
	if err != nil {
		abs = found
	}
	for i, active := range in.includeStack {
		if active == abs {
			cycle := append(append([]string{}, in.includeStack[i:]...), abs)
			return in.errorAt(ErrImport, inc.position, "include cycle: %s", strings.Join(cycle, " -> "))
		}
	}

	program, cached, err := in.cache.load(abs)
	if err != nil {
		return in.wrapIncludeError(err, inc)
	}
	in.log.Debug().Str("include", inc.Package).Str("path", abs).Bool("cached", cached).Msg("include resolved")

	in.includeStack = append(in.includeStack, abs)
	defer func() { in.includeStack = in.includeStack[:len(in.includeStack)-1] }()

	restore := in.enter(in.ctx, program.source)
	defer restore()
	for _, nested := range program.Includes {
		if err := in.loadInclude(nested); err != nil {
			return err
		}
	}
	_, err = in.execTopLevel(program.Statements)
	return err
}

func (in *Interpreter) wrapIncludeError(err error, inc *Include) error {
	if _, ok := err.(*LexError); ok {
		return err
	}
	if _, ok := err.(*ParseError); ok {
		return err
	}
	return in.errorAt(ErrImport, inc.position, "cannot load %s: %v", inc.Package, err)
}

type installedPackage struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Installed bool   `yaml:"installed"`
}

// includePackage binds a registered package under its own name. An
// unregistered name is accepted when it is installed in the package
// directory, without adding bindings.
func (in *Interpreter) includePackage(inc *Include) error {
	name := inc.Package
	if val, ok := in.packages[name]; ok {
		in.globals.Define(name, val)
		return nil
	}
	if loader, ok := in.registry.Lookup(name); ok {
		val, err := loader(in)
		if err != nil {
			return in.errorAt(ErrImport, inc.position, "cannot load package %s: %v", name, err)
		}
		in.packages[name] = val
		in.globals.Define(name, val)
		return nil
	}

	dir := filepath.Join(in.config.PackageDir, name)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		var meta installedPackage
		if data, err := os.ReadFile(filepath.Join(dir, "package.yaml")); err == nil {
			if err := yaml.Unmarshal(data, &meta); err != nil {
				in.log.Warn().Str("package", name).Err(err).Msg("invalid package.yaml")
			}
		}
		in.log.Debug().Str("package", name).Str("version", meta.Version).Str("dir", dir).Msg("installed package accepted")
		return nil
	}
	return in.errorAt(ErrImport, inc.position, "package not found: %s", name)
}

package cc11

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectFile is a YAML batch-compile descriptor: a small project's
// worth of source files, each layering its own include/define
// overrides on top of project-wide defaults, so a driver can compile
// more than the one positional file spec.md's CLI surface names.
type ProjectFile struct {
	IncludeDirs []string        `yaml:"include_dirs"`
	Defines     []string        `yaml:"defines"`
	Undefines   []string        `yaml:"undefines"`
	OutDir      string          `yaml:"out_dir"`
	Files       []ProjectSource `yaml:"files"`
}

// ProjectSource is one file entry in a ProjectFile.
type ProjectSource struct {
	Path        string   `yaml:"path"`
	IncludeDirs []string `yaml:"include_dirs"`
	Defines     []string `yaml:"defines"`
	Undefines   []string `yaml:"undefines"`
	Output      string   `yaml:"output"`
}

// LoadProjectFile reads and parses a YAML project descriptor.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pf, nil
}

// CompileOptions merges pf's project-wide defaults with src's own
// overrides: include paths, defines, and undefines append; an
// explicit per-file output wins, otherwise one is derived from
// out_dir and the source's base name.
func (pf *ProjectFile) CompileOptions(src ProjectSource) CompileOptions {
	opts := CompileOptions{
		Source:      src.Path,
		IncludeDirs: append(append([]string{}, pf.IncludeDirs...), src.IncludeDirs...),
		Defines:     append(append([]string{}, pf.Defines...), src.Defines...),
		Undefines:   append(append([]string{}, pf.Undefines...), src.Undefines...),
		Output:      src.Output,
	}
	if opts.Output == "" && pf.OutDir != "" {
		base := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
		opts.Output = filepath.Join(pf.OutDir, base+".ll")
	}
	return opts
}

// CompileAll runs every listed file through m in order, stopping at
// the first one that fails so the caller can report it without
// wading through unrelated downstream errors.
func (pf *ProjectFile) CompileAll(m *Manager) ([]*CompileResult, error) {
	results := make([]*CompileResult, 0, len(pf.Files))
	for _, src := range pf.Files {
		res := m.CompileFile(pf.CompileOptions(src))
		results = append(results, res)
		if !res.OK {
			return results, fmt.Errorf("compiling %s failed", src.Path)
		}
	}
	return results, nil
}

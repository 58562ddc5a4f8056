package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configRelPath = "sidedock/config.yaml"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config     *Config
	Sources    map[string]Source // YAML-path -> last writer source (file only)
	PanelBases map[string]string // panel name -> builtin base name
	Files      []string          // all loaded files, in load order
}

// DefaultConfigPath returns the first sidedock/config.yaml found in the XDG
// config directories, or the path under $XDG_CONFIG_HOME where one belongs.
func DefaultConfigPath() (string, error) {
	if path, err := xdg.SearchConfigFile(configRelPath); err == nil {
		return path, nil
	}
	path, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load, also reporting which file set each key.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from path, following includes. A missing file
// yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	st := &loadState{
		sources: map[string]Source{},
		visited: map[string]bool{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := st.read(path, nil); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, panelBases, err := BuildEffectiveConfig(st.raw)
	if err != nil {
		return nil, st.withSource(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, st.withSource(err)
	}

	return &LoadResult{
		Config:     cfg,
		Sources:    st.sources,
		PanelBases: panelBases,
		Files:      st.files,
	}, nil
}

// loadState accumulates one load. Included files are merged before the file
// that includes them, so the including file wins.
type loadState struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
	visited map[string]bool
}

func (st *loadState) read(path string, chain []string) error {
	file := canonicalPath(path)
	if slices.Contains(chain, file) {
		return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(chain, " -> "), file)
	}
	if st.visited[file] {
		return nil
	}
	st.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", file, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return fmt.Errorf("%s: %w", file, err)
	}

	sources := map[string]Source{}
	if len(doc.Content) > 0 {
		recordSources(doc.Content[0], file, "", sources)
	}

	chain = append(chain, file)
	for i, inc := range raw.Include {
		paths, err := includedFiles(file, inc)
		if err != nil {
			src, ok := sources["include."+strconv.Itoa(i)]
			if !ok {
				src = sources["include"]
			}
			return fmt.Errorf("%s: include %q: %w", src.position(), inc, err)
		}
		for _, p := range paths {
			if err := st.read(p, chain); err != nil {
				return err
			}
		}
	}

	st.raw = st.raw.merge(raw)
	maps.Copy(st.sources, sources)
	st.files = append(st.files, file)
	return nil
}

// withSource points a validation error at the file position that set the
// offending key.
func (st *loadState) withSource(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := st.sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// includedFiles resolves an include entry relative to the including file.
// A directory expands to its *.yaml and *.yml files in name order.
func includedFiles(from, inc string) ([]string, error) {
	if inc == "" {
		return nil, fmt.Errorf("path is empty")
	}
	switch {
	case inc == "~":
		inc = xdg.Home
	case strings.HasPrefix(inc, "~/"):
		inc = filepath.Join(xdg.Home, inc[2:])
	case !filepath.IsAbs(inc):
		inc = filepath.Join(filepath.Dir(from), inc)
	}

	info, err := os.Stat(inc)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{inc}, nil
	}

	entries, err := os.ReadDir(inc)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(inc, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

// recordSources maps every YAML path in node to its position. Sequence
// items are recorded by index, e.g. include.0.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path, val := node.Content[i].Value, node.Content[i+1]
			if prefix != "" {
				path = prefix + "." + path
			}
			out[path] = at(val)
			recordSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			out[prefix+"."+strconv.Itoa(i)] = at(item)
		}
	}
}

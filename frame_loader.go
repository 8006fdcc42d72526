package propframe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FrameDefinition is an authored default set read from a frame
// document. The name comes from the file name; the parent, if any,
// names another definition in the same directory.
type FrameDefinition struct {
	// Name is the frame name (file name without extension)
	Name string

	// Parent is the name of the parent frame, empty for a root
	Parent string

	// Properties maps property names to their default values
	Properties map[string]any
}

// frameDocument is the on-disk shape of a frame definition.
type frameDocument struct {
	Parent     string         `yaml:"parent" toml:"parent" json:"parent"`
	Properties map[string]any `yaml:"properties" toml:"properties" json:"properties"`
}

// FrameDirParams configures loading of frame documents from a directory.
type FrameDirParams struct {
	// Dir is the directory where frame document files are located.
	Dir string
	// NameRegex is a regex pattern for the document file names
	// (e.g. "^[a-z]+\\.(yaml|toml|json)$"). Non-matching files are skipped.
	NameRegex *regexp.Regexp
}

// LoadFrameDefinitions scans a directory for frame documents. Each
// file should be named with the frame name (e.g. "base.yaml");
// supported formats are YAML, TOML and JSON, chosen by extension.
// Files with unsupported extensions are skipped with a warning.
// Definitions are returned sorted by name.
func LoadFrameDefinitions(logger Logger, params FrameDirParams) ([]FrameDefinition, error) {
	if _, err := os.Stat(params.Dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFrameDirNotFound, params.Dir)
	}

	files, err := os.ReadDir(params.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var definitions []FrameDefinition
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if params.NameRegex != nil && !params.NameRegex.MatchString(file.Name()) {
			if logger != nil {
				logger.Debug("Skipping file that doesn't match regex pattern",
					"file", file.Name(), "pattern", params.NameRegex.String())
			}
			continue
		}

		ext := filepath.Ext(file.Name())
		name := strings.TrimSuffix(file.Name(), ext)
		path := filepath.Join(params.Dir, file.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read frame document %s: %w", path, err)
		}

		var doc frameDocument
		switch strings.ToLower(ext) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &doc)
		case ".toml":
			err = toml.Unmarshal(data, &doc)
		case ".json":
			err = json.Unmarshal(data, &doc)
		default:
			if logger != nil {
				logger.Warn("Unsupported frame document extension", "file", file.Name(), "extension", ext)
			}
			continue // Skip but don't fail
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse frame document %s: %w", path, err)
		}

		definitions = append(definitions, FrameDefinition{
			Name:       name,
			Parent:     doc.Parent,
			Properties: doc.Properties,
		})
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})

	if logger != nil {
		logger.Info("Frame definitions loaded", "dir", params.Dir, "count", len(definitions))
	}
	return definitions, nil
}

// BuildFrames links definitions into Frame chains by name. Every
// definition's values become static providers. A parent naming an
// undefined frame yields ErrUnknownParentFrame; a parent loop yields
// ErrFrameCycle.
func BuildFrames(definitions []FrameDefinition) (map[string]*Frame, error) {
	byName := make(map[string]FrameDefinition, len(definitions))
	for _, def := range definitions {
		byName[def.Name] = def
	}

	frames := make(map[string]*Frame, len(definitions))

	var build func(name string, visiting map[string]bool) (*Frame, error)
	build = func(name string, visiting map[string]bool) (*Frame, error) {
		if frame, done := frames[name]; done {
			return frame, nil
		}
		if visiting[name] {
			return nil, fmt.Errorf("%w: %s", ErrFrameCycle, name)
		}
		visiting[name] = true

		def := byName[name]

		var parent *Frame
		if def.Parent != "" {
			if _, exists := byName[def.Parent]; !exists {
				return nil, fmt.Errorf("%w: %q referenced by %q", ErrUnknownParentFrame, def.Parent, name)
			}
			var err error
			parent, err = build(def.Parent, visiting)
			if err != nil {
				return nil, err
			}
		}

		providers := make(ProviderMap, len(def.Properties))
		for propName, value := range def.Properties {
			providers[propName] = StaticProvider(value)
		}

		frame := NewFrame(providers, parent)
		frames[name] = frame
		return frame, nil
	}

	for _, def := range definitions {
		if _, err := build(def.Name, make(map[string]bool)); err != nil {
			return nil, err
		}
	}

	return frames, nil
}

// LoadFrames loads frame documents from a directory and links them
// into chains, returning frames keyed by name.
func LoadFrames(logger Logger, params FrameDirParams) (map[string]*Frame, error) {
	definitions, err := LoadFrameDefinitions(logger, params)
	if err != nil {
		return nil, err
	}
	return BuildFrames(definitions)
}

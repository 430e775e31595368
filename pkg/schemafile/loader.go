package schemafile

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/schema"
	"github.com/goliatone/go-formrules/pkg/screens"
)

// LoadFS walks fsys and parses every JSON/YAML screen document. Files are read
// in lexical order and screens keep their order inside each file. A nil fsys
// yields an empty registry.
func LoadFS(fsys fs.FS) (*screens.Registry, error) {
	var list []screens.Screen
	if fsys == nil {
		return screens.NewRegistry()
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schemafile: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for idx, raw := range doc.Screens {
			id := strings.TrimSpace(raw.ID)
			if id == "" {
				return fmt.Errorf("schemafile: file %s screen %d has an empty id", path, idx)
			}
			if prev, exists := seen[id]; exists {
				return fmt.Errorf("schemafile: duplicate screen %q (files %s and %s)", id, prev, path)
			}
			seen[id] = path

			s, err := normaliseScreen(raw, path)
			if err != nil {
				return err
			}
			list = append(list, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reg, err := screens.NewRegistry(list...)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return reg, nil
}

// LoadEmbedded loads the bundled screens.
func LoadEmbedded() (*screens.Registry, error) {
	return LoadFS(EmbeddedFS())
}

type documentFile struct {
	Screens []screenFile `json:"screens" yaml:"screens"`
}

type screenFile struct {
	ID           string         `json:"id" yaml:"id"`
	Title        string         `json:"title" yaml:"title"`
	SubmitLabel  string         `json:"submitLabel" yaml:"submitLabel"`
	SuccessTitle string         `json:"successTitle" yaml:"successTitle"`
	Links        []screens.Link `json:"links" yaml:"links"`
	Fields       []fieldFile    `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name        string     `json:"name" yaml:"name"`
	Label       string     `json:"label" yaml:"label"`
	Placeholder string     `json:"placeholder" yaml:"placeholder"`
	Help        string     `json:"help" yaml:"help"`
	Secret      bool       `json:"secret" yaml:"secret"`
	Rules       []ruleFile `json:"rules" yaml:"rules"`
}

type ruleFile struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Message string            `json:"message" yaml:"message"`
	Params  map[string]string `json:"params" yaml:"params"`
}

// parseDocument decodes JSON files with goccy/go-json and everything else as
// YAML. Unknown keys are rejected in both.
func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(bytes.TrimSpace(data)) == 0 {
		return documentFile{}, fmt.Errorf("schemafile: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return documentFile{}, fmt.Errorf("schemafile: parse %s: %w", source, err)
		}
		return doc, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return documentFile{}, fmt.Errorf("schemafile: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseScreen(raw screenFile, source string) (screens.Screen, error) {
	id := strings.TrimSpace(raw.ID)
	fields := make([]schema.Field, 0, len(raw.Fields))
	for _, f := range raw.Fields {
		field := schema.Field{
			Name:        strings.TrimSpace(f.Name),
			Label:       f.Label,
			Placeholder: f.Placeholder,
			Help:        f.Help,
			Secret:      f.Secret,
		}
		for _, r := range f.Rules {
			rule, err := rules.Lookup(r.Kind, r.Params, r.Message)
			if err != nil {
				return screens.Screen{}, fmt.Errorf("schemafile: screen %q (file %s) field %q: %w", id, source, field.Name, err)
			}
			field.Rules = append(field.Rules, rule)
		}
		fields = append(fields, field)
	}

	s, err := schema.New(id, fields...)
	if err != nil {
		return screens.Screen{}, fmt.Errorf("schemafile: file %s: %w", source, err)
	}

	title := raw.Title
	if strings.TrimSpace(title) == "" {
		title = id
	}
	return screens.Screen{
		ID:           id,
		Title:        title,
		SubmitLabel:  raw.SubmitLabel,
		SuccessTitle: raw.SuccessTitle,
		Links:        append([]screens.Link(nil), raw.Links...),
		Schema:       s,
	}, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

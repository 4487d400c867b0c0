// Package optionfile loads named option sets from YAML or JSON documents, so
// applications can bootstrap their select controls from config files instead
// of code.
package optionfile

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/oakmere/picklist/pkg/selectfield"
)

// Entry is one option row as it appears on disk.
type Entry struct {
	Value    string `yaml:"value" json:"value"`
	Label    string `yaml:"label,omitempty" json:"label,omitempty"`
	Selected bool   `yaml:"selected,omitempty" json:"selected,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Set is a named option set plus the field configuration that travels with
// it.
type Set struct {
	Name        string  `yaml:"name" json:"name"`
	Filter      string  `yaml:"filter,omitempty" json:"filter,omitempty"`
	Required    bool    `yaml:"required,omitempty" json:"required,omitempty"`
	Placeholder string  `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Options     []Entry `yaml:"options" json:"options"`
}

type document struct {
	Sets []Set `yaml:"sets" json:"sets"`
}

// Load parses one option-set file. Files ending in .json are parsed as JSON,
// everything else as YAML.
func Load(fsys fs.FS, path string) ([]Set, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc document
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i := range doc.Sets {
		if err := validate(&doc.Sets[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return doc.Sets, nil
}

// LoadAll walks fsys and merges the sets of every .yaml, .yml and .json file
// into one map keyed by set name. Later files win on name collisions.
func LoadAll(fsys fs.FS) (map[string]Set, error) {
	sets := make(map[string]Set)

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasOptionExt(path) {
			return nil
		}
		loaded, err := Load(fsys, path)
		if err != nil {
			return err
		}
		for _, s := range loaded {
			sets[s.Name] = s
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load option sets: %w", err)
	}
	return sets, nil
}

func hasOptionExt(path string) bool {
	return strings.HasSuffix(path, ".yaml") ||
		strings.HasSuffix(path, ".yml") ||
		strings.HasSuffix(path, ".json")
}

// validate rejects sets the field layer could not represent. Duplicate option
// values are allowed; lookups resolve to the first occurrence.
func validate(s *Set) error {
	if s.Name == "" {
		return fmt.Errorf("option set without a name")
	}
	if _, err := selectfield.ParseFilterMode(s.Filter); err != nil {
		return fmt.Errorf("set %q: %w", s.Name, err)
	}
	return nil
}

// Mode returns the set's filter mode.
func (s Set) Mode() (selectfield.FilterMode, error) {
	return selectfield.ParseFilterMode(s.Filter)
}

// List materializes the set as an option list. A missing label falls back to
// the value; the selected flag maps to the default-selection flag, so a field
// attached to the list adopts the flagged entry on initialization.
func (s Set) List() *selectfield.OptionList {
	list := selectfield.NewOptionList()
	list.Add(lo.Map(s.Options, func(e Entry, _ int) *selectfield.Option {
		label := e.Label
		if label == "" {
			label = e.Value
		}
		var opt *selectfield.Option
		if e.Selected {
			opt = selectfield.NewDefaultOption(e.Value, label)
		} else {
			opt = selectfield.NewOption(e.Value, label)
		}
		if e.Disabled {
			opt.SetDisabled(true)
		}
		return opt
	})...)
	return list
}

// NewField builds a fully configured field from the set: option list, filter
// mode and required flag.
func (s Set) NewField() (*selectfield.Field, error) {
	mode, err := s.Mode()
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", s.Name, err)
	}
	f := selectfield.NewField(s.List())
	f.SetFilterMode(mode)
	f.SetRequired(s.Required)
	return f, nil
}

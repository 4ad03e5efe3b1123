// Package kindcfg is the record-kind registry: per-kind business code
// prefixes, dialog field lists, required-field rules and child
// collection settings. The registry ships with built-in defaults and
// can be overridden by a YAML file for environments that tune page
// sizes or validation without a deploy.
package kindcfg

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Collection describes one child collection of a record kind.
type Collection struct {
	Name string `yaml:"name"`
	// PageSize is display paging only; 5 or 9 depending on the grid.
	PageSize int `yaml:"page_size"`
	// Ordered collections carry an explicit order field.
	Ordered bool `yaml:"ordered"`
	// ReverseInsert submits added items oldest-first at save so the
	// store's insertion order reproduces the staged order.
	ReverseInsert bool `yaml:"reverse_insert"`
}

// Kind is one record kind's dialog configuration.
type Kind struct {
	Key             string       `yaml:"key"`
	CodePrefix      string       `yaml:"code_prefix"`
	CodeField       string       `yaml:"code_field"`
	DateField       string       `yaml:"date_field"`
	Fields          []string     `yaml:"fields"`
	RequiredRule    string       `yaml:"required_rule"`
	RequiredMessage string       `yaml:"required_message"`
	Collections     []Collection `yaml:"collections"`
}

func (k Kind) Collection(name string) (Collection, bool) {
	for _, c := range k.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// Defaults seeds an add-mode dialog: every scalar field present and
// empty, so field rules can index without existence guards.
func (k Kind) Defaults() map[string]string {
	m := make(map[string]string, len(k.Fields))
	for _, f := range k.Fields {
		m[f] = ""
	}
	return m
}

// Registry maps kind keys to their configuration.
type Registry struct {
	kinds map[string]Kind
	order []string
}

func (r *Registry) Kind(key string) (Kind, bool) {
	k, ok := r.kinds[key]
	return k, ok
}

// Keys returns the kind keys in declaration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

type registryFile struct {
	Version int    `yaml:"version"`
	Kinds   []Kind `yaml:"kinds"`
}

// Parse reads a registry document.
func Parse(b []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.Version != 1 {
		return nil, errors.New("kindcfg: unsupported version")
	}
	return build(f.Kinds)
}

func build(kinds []Kind) (*Registry, error) {
	if len(kinds) == 0 {
		return nil, errors.New("kindcfg: empty registry")
	}
	r := &Registry{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		if k.Key == "" || k.CodePrefix == "" {
			return nil, fmt.Errorf("kindcfg: kind %q missing key or code prefix", k.Key)
		}
		if _, dup := r.kinds[k.Key]; dup {
			return nil, fmt.Errorf("kindcfg: duplicate kind %q", k.Key)
		}
		for _, c := range k.Collections {
			if c.Name == "" || c.PageSize <= 0 {
				return nil, fmt.Errorf("kindcfg: kind %q has invalid collection %q", k.Key, c.Name)
			}
		}
		r.kinds[k.Key] = k
		r.order = append(r.order, k.Key)
	}
	return r, nil
}

// Load reads the registry from a YAML file.
func Load(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// LoadFromEnv honors RECORD_KINDS_PATH, falling back to the built-in
// registry when unset.
func LoadFromEnv() (*Registry, error) {
	if path := os.Getenv("RECORD_KINDS_PATH"); path != "" {
		return Load(path)
	}
	return Default(), nil
}

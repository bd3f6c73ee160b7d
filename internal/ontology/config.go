// Package ontology holds the document-level configuration of the
// generated Turtle file: base URI, version, label, comment, and the
// namespace prefix table, loaded from a YAML file kept next to the
// sources.
package ontology

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/childmind/mhdb/internal/ttl"
)

// Prefix is one namespace declaration.
type Prefix struct {
	Prefix string `yaml:"prefix"`
	IRI    string `yaml:"iri"`
}

// Config describes the ontology document as a whole.
type Config struct {
	// BaseURI is the ontology IRI; the default namespace is BaseURI + "#".
	BaseURI string `yaml:"base_uri"`

	// Version appears in owl:versionIRI and owl:versionInfo.
	Version string `yaml:"version"`

	Label   string `yaml:"label"`
	Comment string `yaml:"comment"`

	// Prefixes are emitted in order after the default-namespace line.
	Prefixes []Prefix `yaml:"prefixes"`
}

// Load reads and validates an ontology config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading ontology config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing ontology config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ontology config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the required fields and prefix uniqueness.
func (c *Config) Validate() error {
	if c.BaseURI == "" {
		return fmt.Errorf("base_uri is required")
	}
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	seen := make(map[string]struct{}, len(c.Prefixes))
	for _, p := range c.Prefixes {
		if p.Prefix == "" || p.IRI == "" {
			return fmt.Errorf("prefix entries need both prefix and iri")
		}
		if _, dup := seen[p.Prefix]; dup {
			return fmt.Errorf("duplicate prefix %q", p.Prefix)
		}
		seen[p.Prefix] = struct{}{}
	}
	return nil
}

// HeaderPrefixes converts the prefix table for the renderer.
func (c *Config) HeaderPrefixes() []ttl.Prefix {
	out := make([]ttl.Prefix, len(c.Prefixes))
	for i, p := range c.Prefixes {
		out[i] = ttl.Prefix{Name: p.Prefix, IRI: p.IRI}
	}
	return out
}

// Header renders the Turtle document header for this configuration.
func (c *Config) Header() string {
	return ttl.Header(c.BaseURI, c.Version, c.Label, c.Comment, c.HeaderPrefixes())
}

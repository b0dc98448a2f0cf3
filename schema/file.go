package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/relmap"
)

// FileConfig holds mapping overrides loaded from YAML:
//
//	entities:
//	  Order:
//	    table: orders
//	    schema: sales
//	    keys: [ID]
//	    properties:
//	      CustomerID:
//	        column: customer_id
//	        required: true
type FileConfig struct {
	Entities map[string]EntityFileConfig `yaml:"entities"`
}

// EntityFileConfig holds the overrides of one entity.
type EntityFileConfig struct {
	Table         *string                       `yaml:"table"`
	Schema        *string                       `yaml:"schema"`
	ReadOnly      bool                          `yaml:"read_only"`
	KeyLess       bool                          `yaml:"key_less"`
	Keys          []string                      `yaml:"keys"`
	AlternateKeys []string                      `yaml:"alternate_keys"`
	Properties    map[string]PropertyFileConfig `yaml:"properties"`
}

// PropertyFileConfig holds the overrides of one property.
type PropertyFileConfig struct {
	Column     *string `yaml:"column"`
	Required   *bool   `yaml:"required"`
	MaxLength  *int    `yaml:"max_length"`
	Generation string  `yaml:"generation"`
	Sequence   string  `yaml:"sequence"`
	ReadOnly   *bool   `yaml:"read_only"`
	Ignore     bool    `yaml:"ignore"`
}

// LoadConfig decodes a FileConfig. Unknown keys are rejected.
func LoadConfig(r io.Reader) (*FileConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg FileConfig
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("relmap: decode mapping config: %w", err)
	}
	return &cfg, nil
}

// LoadConfigFile decodes the FileConfig stored at path.
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("relmap: open mapping config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Apply merges fc into the fluent configuration of the registered entities
// it names. It must run before the mappings are built; naming an entity
// that is not registered, or one already built, is an error.
func (r *Registry) Apply(fc *FileConfig) error {
	if fc == nil {
		return nil
	}
	for _, name := range sortedKeys(fc.Entities) {
		t, ok := r.typeByName(name)
		if !ok {
			return relmap.NewMappingError(name, "", "entity is not registered")
		}
		if r.built(t) {
			return relmap.NewMappingError(name, "", "mapping already built")
		}
		if err := fc.Entities[name].apply(name, r.Register(t)); err != nil {
			return err
		}
	}
	return nil
}

func (ec EntityFileConfig) apply(entity string, c *EntityConfig) error {
	if ec.Table != nil {
		c.Table(*ec.Table)
	}
	if ec.Schema != nil {
		c.Schema(*ec.Schema)
	}
	if ec.ReadOnly {
		c.ReadOnly()
	}
	if ec.KeyLess {
		c.KeyLess()
	}
	if len(ec.Keys) > 0 {
		c.Key(ec.Keys...)
	}
	if len(ec.AlternateKeys) > 0 {
		c.AlternateKey(ec.AlternateKeys...)
	}
	for _, name := range sortedKeys(ec.Properties) {
		pf, pc := ec.Properties[name], c.Property(name)
		if pf.Column != nil {
			pc.Column(*pf.Column)
		}
		if pf.Required != nil {
			pc.Required(*pf.Required)
		}
		if pf.MaxLength != nil {
			pc.MaxLength(*pf.MaxLength)
		}
		if pf.Generation != "" {
			k, err := ParseGenerationKind(pf.Generation)
			if err != nil {
				return &relmap.MappingError{Entity: entity, Property: name, Message: "invalid generation", Cause: err}
			}
			pc.Generation(k)
		}
		if pf.Sequence != "" {
			pc.Sequence(pf.Sequence)
		}
		if pf.ReadOnly != nil {
			pc.ReadOnly(*pf.ReadOnly)
		}
		if pf.Ignore {
			pc.Ignore()
		}
	}
	return nil
}

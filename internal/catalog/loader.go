package catalog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk shape of a custom catalog.
type fileFormat struct {
	Values []Entity `yaml:"values" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load returns the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a YAML catalog:
//
//	values:
//	  - id: family
//	    name: Family
//	    description: optional text
func Decode(r io.Reader) (*Catalog, error) {
	var ff fileFormat
	if err := yaml.NewDecoder(r).Decode(&ff); err != nil {
		if err == io.EOF {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(ff.Values) == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := validate.Struct(ff); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return New(ff.Values)
}

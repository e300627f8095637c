package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/internalerr"
)

// Taxonomy represents the tag taxonomy configuration file.
type Taxonomy struct {
	Tags []TaxonomyTag `yaml:"tags"`
}

// TaxonomyTag is one taxonomy entry. Individually marks comma-separated
// names that split into one tag per name, all sharing the same keywords.
type TaxonomyTag struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Domain       string   `yaml:"domain"`
	Individually bool     `yaml:"individually"`
	Keywords     []string `yaml:"keywords"`
}

// LoadTaxonomy loads the tag taxonomy from a YAML file.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, err
	}

	for i, t := range tax.Tags {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("%w: taxonomy tag %d has no name", internalerr.ErrInvalidConfig, i)
		}
	}
	return &tax, nil
}

// Pipeline represents the pipeline tuning configuration file. All fields
// are optional; zero values fall back to defaults.
type Pipeline struct {
	BatchSize int `yaml:"batch_size"`

	// Input column name overrides.
	Columns map[string]string `yaml:"columns"`
}

// LoadPipeline loads pipeline settings from a YAML file.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.BatchSize < 0 {
		return nil, fmt.Errorf("%w: batch_size must be positive", internalerr.ErrInvalidConfig)
	}
	return &p, nil
}

// LoadRegistry loads the known-entity registry from a CSV file with
// Company_Name and optional Entity_Type columns.
func LoadRegistry(path string) ([]entity.RegistryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: registry %s is empty", internalerr.ErrInvalidConfig, path)
	}

	nameCol, typeCol := -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case "Company_Name":
			nameCol = i
		case "Entity_Type":
			typeCol = i
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrMissingColumn, "Company_Name")
	}

	var entries []entity.RegistryEntry
	for _, row := range rows[1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		e := entity.RegistryEntry{Name: name}
		if typeCol >= 0 && typeCol < len(row) {
			e.Type = strings.TrimSpace(row[typeCol])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

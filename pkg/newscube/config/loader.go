package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/cognicore/newscube/pkg/newscube/batch"
	"github.com/cognicore/newscube/pkg/newscube/entity"
	"github.com/cognicore/newscube/pkg/newscube/taxonomy"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	TaxonomyPath string
	RegistryPath string
	PipelinePath string
}

// Components holds all loaded configuration components
type Components struct {
	Tags     []taxonomy.Tag
	Registry *entity.Registry
	Pipeline Pipeline
}

// Load reads all configuration files and returns initialized components.
// A missing taxonomy or registry file degrades the corresponding strategy
// to a no-op with a warning; a file that exists but fails to parse is
// fatal.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	tax, err := LoadTaxonomy(l.TaxonomyPath)
	switch {
	case err == nil:
		comp.Tags = buildTags(tax)
	case l.TaxonomyPath == "" || errors.Is(err, os.ErrNotExist):
		log.Printf("Warning: taxonomy %q not found, tag matching disabled", l.TaxonomyPath)
	default:
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	comp.Registry = entity.NewRegistry(nil)
	if l.RegistryPath != "" {
		entries, err := LoadRegistry(l.RegistryPath)
		switch {
		case err == nil:
			comp.Registry = entity.NewRegistry(entries)
		case errors.Is(err, os.ErrNotExist):
			log.Printf("Warning: registry %q not found, registry-based extraction disabled", l.RegistryPath)
		default:
			return nil, fmt.Errorf("load registry: %w", err)
		}
	}

	if l.PipelinePath != "" {
		p, err := LoadPipeline(l.PipelinePath)
		if err != nil {
			return nil, fmt.Errorf("load pipeline config: %w", err)
		}
		comp.Pipeline = *p
	}
	if comp.Pipeline.BatchSize == 0 {
		comp.Pipeline.BatchSize = batch.DefaultBatchSize
	}

	return comp, nil
}

// buildTags converts the configuration entries into the runtime taxonomy:
// defaults applied, keywords normalized, individually-tagged entries split.
func buildTags(tax *Taxonomy) []taxonomy.Tag {
	tags := make([]taxonomy.Tag, 0, len(tax.Tags))
	for _, t := range tax.Tags {
		category := t.Category
		if category == "" {
			category = "Other"
		}
		domain := t.Domain
		if domain == "" {
			domain = "General"
		}
		tags = append(tags, taxonomy.Tag{
			Name:       t.Name,
			Category:   category,
			Domain:     domain,
			Keywords:   t.Keywords,
			Individual: t.Individually,
		}.Normalize())
	}
	return taxonomy.ExpandIndividual(tags)
}
